package api

import (
	"errors"
	"sort"

	"github.com/hyperledger/aries-framework-go/spi/storage"
)

// Entry is one key value pair with its tags.
type Entry struct {
	Key   string
	Value []byte
	Tags  []storage.Tag
}

// Iterator is a storage.Iterator over a snapshot of entries. The entries are
// sorted by key to give stable results.
type Iterator struct {
	entries []Entry
	pos     int
	closed  bool
}

var _ storage.Iterator = (*Iterator)(nil)

var errNoCurrent = errors.New("iterator has no current entry")

func NewIterator(entries []Entry) *Iterator {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return &Iterator{entries: entries, pos: -1}
}

func (it *Iterator) Next() (bool, error) {
	if it.closed {
		return false, errors.New("iterator closed")
	}
	if it.pos+1 >= len(it.entries) {
		it.pos = len(it.entries)
		return false, nil
	}
	it.pos++
	return true, nil
}

func (it *Iterator) current() (*Entry, error) {
	if it.pos < 0 || it.pos >= len(it.entries) {
		return nil, errNoCurrent
	}
	return &it.entries[it.pos], nil
}

func (it *Iterator) Key() (string, error) {
	e, err := it.current()
	if err != nil {
		return "", err
	}
	return e.Key, nil
}

func (it *Iterator) Value() ([]byte, error) {
	e, err := it.current()
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (it *Iterator) Tags() ([]storage.Tag, error) {
	e, err := it.current()
	if err != nil {
		return nil, err
	}
	return e.Tags, nil
}

func (it *Iterator) TotalItems() (int, error) {
	return len(it.entries), nil
}

func (it *Iterator) Close() error {
	it.closed = true
	return nil
}
