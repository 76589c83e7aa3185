package didcomm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var (
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrMalformedJSON     = errors.New("malformed json")
	ErrUnsupportedType   = errors.New("unsupported message type")
)

// Factory creates an empty instance of the concrete message type.
type Factory func() MessageHdr

// Types is the closed table of the message types this agent understands.
var Types = NewTypeTable()

// TypeTable maps message types to Go struct factories. Keys are normalized
// with pltype.Normalize so lookups are case insensitive and accept both the
// Aries and the didcomm.org namespace.
type TypeTable struct {
	l         sync.RWMutex
	factories map[string]Factory
	frozen    bool
}

// NewTypeTable returns an empty table. The processor uses the package level
// Types, own tables are for tests and tools.
func NewTypeTable() *TypeTable {
	return &TypeTable{factories: make(map[string]Factory)}
}

// Add registers a factory for the message type. It's meant to be called from
// package init functions. Adding the same type twice or adding after Freeze
// are programming errors.
func (tt *TypeTable) Add(t string, f Factory) {
	tt.l.Lock()
	defer tt.l.Unlock()

	key := pltype.Normalize(t)
	assert.That(key != "", "message type cannot be empty")
	assert.That(!tt.frozen, "type table is frozen, cannot add: %s", t)
	_, exists := tt.factories[key]
	assert.That(!exists, "message type already registered: %s", t)

	tt.factories[key] = f
}

// Freeze closes the table. After that the set of the known types cannot
// change.
func (tt *TypeTable) Freeze() {
	tt.l.Lock()
	defer tt.l.Unlock()
	tt.frozen = true
}

// Lookup returns the factory of the type.
func (tt *TypeTable) Lookup(t string) (f Factory, ok bool) {
	tt.l.RLock()
	defer tt.l.RUnlock()
	f, ok = tt.factories[pltype.Normalize(t)]
	return f, ok
}

// Types returns all the registered message types in normalized form.
func (tt *TypeTable) Types() []string {
	tt.l.RLock()
	defer tt.l.RUnlock()
	types := make([]string, 0, len(tt.factories))
	for t := range tt.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

type typeOnly struct {
	Type string `json:"@type"`
}

// Resolve reads the @type of the JSON message without decoding the rest of
// it.
func Resolve(data []byte) (t string, err error) {
	var hdr typeOnly
	if err := json.Unmarshal(data, &hdr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if hdr.Type == "" {
		return "", fmt.Errorf("%w: @type missing", ErrUnsupportedType)
	}
	return hdr.Type, nil
}

// Decode resolves the concrete message type by the @type field and unmarshals
// the data to it. Unknown types return ErrUnsupportedType, broken JSON
// ErrMalformedJSON.
func Decode(data []byte) (m MessageHdr, err error) {
	return Types.Decode(data)
}

// Decode decodes with this type table, see package level Decode.
func (tt *TypeTable) Decode(data []byte) (m MessageHdr, err error) {
	t, err := Resolve(data)
	if err != nil {
		return nil, err
	}
	factory, ok := tt.Lookup(t)
	if !ok {
		if glog.V(3) {
			glog.Infoln("no message factory for type:", t)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	m = factory()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedJSON, t, err)
	}
	return m, nil
}

// Encode serializes the message to its JSON wire format. The message must
// have a type.
func Encode(m MessageHdr) (data []byte, err error) {
	defer err2.Handle(&err, "encode message")

	if m == nil || m.Type() == "" {
		return nil, fmt.Errorf("%w: @type missing", ErrUnsupportedType)
	}
	return try.To1(json.Marshal(m)), nil
}

// MustEncode is Encode for the messages which are known to be valid, e.g.
// the ones built by this agent. It panics on error.
func MustEncode(m MessageHdr) []byte {
	return try.To1(Encode(m))
}
