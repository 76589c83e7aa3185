// Package mem is an in-memory implementation of the aries framework storage
// provider. It's used in tests and in the CLI dry runs.
package mem

import (
	"fmt"
	"sync"

	"github.com/findy-network/findy-a2a/agent/storage/api"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

type Provider struct {
	l       sync.RWMutex
	stores  map[string]*Store
	configs map[string]storage.StoreConfiguration
}

var _ storage.Provider = (*Provider)(nil)

func New() *Provider {
	return &Provider{
		stores:  make(map[string]*Store),
		configs: make(map[string]storage.StoreConfiguration),
	}
}

func (p *Provider) OpenStore(name string) (storage.Store, error) {
	p.l.Lock()
	defer p.l.Unlock()

	if name == "" {
		return nil, fmt.Errorf("store name cannot be empty")
	}
	if s, ok := p.stores[name]; ok {
		return s, nil
	}
	glog.V(7).Infoln("mem::OpenStore", name)
	s := &Store{name: name, entries: make(map[string]api.Entry)}
	p.stores[name] = s
	return s, nil
}

func (p *Provider) SetStoreConfig(name string, config storage.StoreConfiguration) error {
	p.l.Lock()
	defer p.l.Unlock()

	if _, ok := p.stores[name]; !ok {
		return storage.ErrStoreNotFound
	}
	p.configs[name] = config
	return nil
}

func (p *Provider) GetStoreConfig(name string) (storage.StoreConfiguration, error) {
	p.l.RLock()
	defer p.l.RUnlock()

	c, ok := p.configs[name]
	if !ok {
		return storage.StoreConfiguration{}, storage.ErrStoreNotFound
	}
	return c, nil
}

func (p *Provider) GetOpenStores() []storage.Store {
	p.l.RLock()
	defer p.l.RUnlock()

	stores := make([]storage.Store, 0, len(p.stores))
	for _, s := range p.stores {
		stores = append(stores, s)
	}
	return stores
}

func (p *Provider) Close() error {
	p.l.Lock()
	defer p.l.Unlock()

	p.stores = make(map[string]*Store)
	return nil
}

type Store struct {
	l       sync.RWMutex
	name    string
	entries map[string]api.Entry
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Put(key string, value []byte, tags ...storage.Tag) error {
	if err := api.CheckPut(key, value, tags); err != nil {
		return err
	}
	s.l.Lock()
	defer s.l.Unlock()

	s.entries[key] = api.Entry{
		Key:   key,
		Value: append(value[:0:0], value...),
		Tags:  append(tags[:0:0], tags...),
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	s.l.RLock()
	defer s.l.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrDataNotFound)
	}
	return append(e.Value[:0:0], e.Value...), nil
}

func (s *Store) GetTags(key string) ([]storage.Tag, error) {
	s.l.RLock()
	defer s.l.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrDataNotFound)
	}
	return append(e.Tags[:0:0], e.Tags...), nil
}

// GetBulk returns nil for the keys which aren't found.
func (s *Store) GetBulk(keys ...string) ([][]byte, error) {
	s.l.RLock()
	defer s.l.RUnlock()

	values := make([][]byte, len(keys))
	for i, k := range keys {
		if e, ok := s.entries[k]; ok {
			values[i] = append(e.Value[:0:0], e.Value...)
		}
	}
	return values, nil
}

// Query returns all the entries matching the tag expression. Paging options
// are ignored.
func (s *Store) Query(expression string, _ ...storage.QueryOption) (storage.Iterator, error) {
	q, err := api.ParseQuery(expression)
	if err != nil {
		return nil, err
	}
	s.l.RLock()
	defer s.l.RUnlock()

	var found []api.Entry
	for _, e := range s.entries {
		if api.Match(q, e.Tags) {
			found = append(found, e)
		}
	}
	return api.NewIterator(found), nil
}

func (s *Store) Delete(key string) error {
	s.l.Lock()
	defer s.l.Unlock()

	delete(s.entries, key)
	return nil
}

// Batch runs the operations atomically. Nil value is a delete.
func (s *Store) Batch(operations []storage.Operation) error {
	for _, op := range operations {
		if op.Value != nil {
			if err := api.CheckPut(op.Key, op.Value, op.Tags); err != nil {
				return err
			}
		}
	}
	s.l.Lock()
	defer s.l.Unlock()

	for _, op := range operations {
		if op.Value == nil {
			delete(s.entries, op.Key)
			continue
		}
		s.entries[op.Key] = api.Entry{
			Key:   op.Key,
			Value: append(op.Value[:0:0], op.Value...),
			Tags:  append(op.Tags[:0:0], op.Tags...),
		}
	}
	return nil
}

func (s *Store) Flush() error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
