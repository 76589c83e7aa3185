/*
Package pairwise is the repository of the connection records. Records are
stored to an aries framework storage store as JSON and tagged with the keys
they are searched with. Updates are optimistic: a record can be written only
over the version it was read from, and Modify re-reads and re-applies the
change when another writer was first.
*/
package pairwise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/storage/api"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Tag names of the connection records.
const (
	TagMyKey         = "myKey"
	TagTheirKey      = "theirKey"
	TagState         = "state"
	TagInvitationKey = "invitationKey"
)

// DefaultRetries is how many times Modify re-applies its change on conflict.
const DefaultRetries = 3

// Store is the connection record repository. It's safe for concurrent use.
type Store struct {
	store   storage.Store
	retries int

	createLock sync.Mutex
	locks      sync.Map // record ID -> *sync.Mutex
}

// New returns a repository over the store.
func New(store storage.Store) *Store {
	return &Store{store: store, retries: DefaultRetries}
}

// SetRetries sets how many times Modify tries on conflicts.
func (s *Store) SetRetries(n int) {
	s.retries = n
}

func (s *Store) lock(id string) func() {
	l, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := l.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func tags(r *connection.Record) []storage.Tag {
	t := []storage.Tag{
		{Name: TagMyKey, Value: r.MyKey},
		{Name: TagState, Value: string(r.State)},
	}
	if r.TheirKey != "" {
		t = append(t, storage.Tag{Name: TagTheirKey, Value: r.TheirKey})
	}
	if r.InvitationKey != "" {
		t = append(t, storage.Tag{Name: TagInvitationKey, Value: r.InvitationKey})
	}
	return t
}

func (s *Store) put(r *connection.Record) (err error) {
	defer err2.Handle(&err, "put connection %s", r.ID)

	data := try.To1(json.Marshal(r))
	return s.store.Put(r.ID, data, tags(r)...)
}

// Get returns the record by its ID.
func (s *Store) Get(_ context.Context, id string) (r *connection.Record, err error) {
	defer err2.Handle(&err, "get connection %s", id)

	data, err := s.store.Get(id)
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, api.ErrNotFound
	}
	try.To(err)

	r = new(connection.Record)
	try.To(json.Unmarshal(data, r))
	return r, nil
}

// GetByKey returns the record where MyKey is the key. Inbound messages find
// their connection with this.
func (s *Store) GetByKey(ctx context.Context, myKey string) (r *connection.Record, err error) {
	defer err2.Handle(&err, "get connection by key %s", myKey)

	if myKey == "" {
		return nil, api.ErrNotFound
	}
	records := try.To1(s.Find(ctx, TagMyKey+":"+myKey))
	if len(records) == 0 {
		return nil, api.ErrNotFound
	}
	if len(records) > 1 {
		glog.Errorf("%d connections with the same key %s", len(records), myKey)
	}
	return records[0], nil
}

// Find returns the records matching the tag expression, e.g. "state:invited".
func (s *Store) Find(_ context.Context, expression string) (records []*connection.Record, err error) {
	defer err2.Handle(&err, "find connections %q", expression)

	it := try.To1(s.store.Query(expression))
	defer it.Close()

	for try.To1(it.Next()) {
		r := new(connection.Record)
		try.To(json.Unmarshal(try.To1(it.Value()), r))
		records = append(records, r)
	}
	return records, nil
}

// Create stores a new record. A record with the same ID or MyKey is
// api.ErrAlreadyExists.
func (s *Store) Create(ctx context.Context, r *connection.Record) (err error) {
	defer err2.Handle(&err, "create connection")

	if r.ID == "" || r.MyKey == "" {
		return errors.New("record must have ID and MyKey")
	}
	if !r.State.IsValid() {
		return fmt.Errorf("record state %q", r.State)
	}

	s.createLock.Lock()
	defer s.createLock.Unlock()

	if _, err := s.store.Get(r.ID); err == nil {
		return fmt.Errorf("%w: id %s", api.ErrAlreadyExists, r.ID)
	}
	existing := try.To1(s.Find(ctx, TagMyKey+":"+r.MyKey))
	if len(existing) > 0 {
		return fmt.Errorf("%w: key %s", api.ErrAlreadyExists, r.MyKey)
	}

	r.Version = 1
	if r.Created.IsZero() {
		r.Created = time.Now().UTC()
	}
	r.Updated = r.Created
	try.To(s.put(r))

	glog.V(3).Infof("connection %s created (%s)", r.ID, r.State)
	return nil
}

// Update writes the record if the stored version is still the version the
// record was read from. Otherwise it's api.ErrConflict and nothing is
// written. On success the version of r is the new version.
func (s *Store) Update(ctx context.Context, r *connection.Record) (err error) {
	defer err2.Handle(&err, "update connection %s", r.ID)

	unlock := s.lock(r.ID)
	defer unlock()

	current := try.To1(s.Get(ctx, r.ID))
	if current.Version != r.Version {
		return fmt.Errorf("%w: stored %d, have %d", api.ErrConflict, current.Version, r.Version)
	}
	if current.MyKey != r.MyKey {
		return errors.New("MyKey of the connection cannot change")
	}

	next := r.Clone()
	next.Version++
	next.Updated = time.Now().UTC()
	try.To(s.put(next))

	r.Version, r.Updated = next.Version, next.Updated
	return nil
}

// Modify reads the record, applies the change to it and writes it back. On
// conflict it starts again from a fresh read. If change returns an error,
// nothing is written and the error is returned as is. The record is either
// fully updated or not at all.
func (s *Store) Modify(
	ctx context.Context,
	id string,
	change func(r *connection.Record) error,
) (
	r *connection.Record,
	err error,
) {
	for n := 0; ; n++ {
		r, err = s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := change(r); err != nil {
			return nil, err
		}
		err = s.Update(ctx, r)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, api.ErrConflict) || n >= s.retries {
			return nil, err
		}
		glog.V(3).Infof("connection %s modified concurrently, retry %d", id, n+1)
	}
}

// Delete removes the record.
func (s *Store) Delete(_ context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	return s.store.Delete(id)
}
