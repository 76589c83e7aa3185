/*
Package api is the common part of the storage implementations: the record
level errors and the tag query helpers which both the bolt and the memory
providers of the aries framework storage interface use.
*/
package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/spi/storage"
)

var (
	// ErrNotFound is the same error value as the aries storage's not found
	// error to allow errors.Is with both.
	ErrNotFound = storage.ErrDataNotFound

	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("version conflict")
	ErrInvalidQuery  = errors.New("invalid query")
)

const (
	tagSeparator = ":"
	andOperator  = "&&"
)

// Criterion is one tag condition of a query. Empty Value matches every value
// of the tag.
type Criterion struct {
	Name  string
	Value string
}

// ParseQuery parses the aries storage query expression, e.g.
// "myKey:abc", "state" or "state:invited&&alias:bob". Only AND is supported.
func ParseQuery(expression string) (q []Criterion, err error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("%w: empty query expression", ErrInvalidQuery)
	}
	for _, part := range strings.Split(expression, andOperator) {
		name, value, _ := strings.Cut(strings.TrimSpace(part), tagSeparator)
		if name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidQuery, expression)
		}
		q = append(q, Criterion{Name: name, Value: value})
	}
	return q, nil
}

// Match returns true if all the criteria match to the tags.
func Match(q []Criterion, tags []storage.Tag) bool {
	for _, c := range q {
		if !matchOne(c, tags) {
			return false
		}
	}
	return true
}

func matchOne(c Criterion, tags []storage.Tag) bool {
	for _, t := range tags {
		if t.Name == c.Name && (c.Value == "" || t.Value == c.Value) {
			return true
		}
	}
	return false
}

// CheckPut validates the Put arguments the same way for all providers.
func CheckPut(key string, value []byte, tags []storage.Tag) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if value == nil {
		return errors.New("value cannot be nil")
	}
	for _, t := range tags {
		if strings.Contains(t.Name, tagSeparator) || strings.Contains(t.Value, tagSeparator) {
			return fmt.Errorf("tag %q cannot contain %q", t.Name, tagSeparator)
		}
	}
	return nil
}
