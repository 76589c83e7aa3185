package wrapper

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/storage/api"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
)

type bucket struct {
	name  []byte
	owner *StorageProvider
}

var _ storage.Store = (*bucket)(nil)

// record is the bolt value of a key: the sealed value and the plain tags.
type record struct {
	Value []byte        `json:"v"`
	Tags  []storage.Tag `json:"t,omitempty"`
}

func (b *bucket) encode(value []byte, tags []storage.Tag) ([]byte, error) {
	return json.Marshal(record{Value: b.owner.seal(value), Tags: tags})
}

func (b *bucket) decode(data []byte) (r record, err error) {
	defer err2.Handle(&err, "decode %s record", b.name)

	try.To(json.Unmarshal(data, &r))
	r.Value = try.To1(b.owner.open(r.Value))
	return r, nil
}

func (b *bucket) get(key string) (r record, err error) {
	err = b.owner.view(func(tx *bolt.Tx) error {
		data := tx.Bucket(b.name).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s: %w", key, storage.ErrDataNotFound)
		}
		r, err = b.decode(data)
		return err
	})
	return r, err
}

// Put stores the key + value pair along with the (optional) tags.
// If key is empty or value is nil, then an error will be returned.
func (b *bucket) Put(key string, value []byte, tags ...storage.Tag) (err error) {
	defer err2.Handle(&err, "bucket put")

	glog.V(level7).Infoln("bucket::Put", key, tags)

	try.To(api.CheckPut(key, value, tags))
	data := try.To1(b.encode(value, tags))
	return b.owner.update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.name).Put([]byte(key), data)
	})
}

// Get fetches the value associated with the given key.
// If key cannot be found, then an error wrapping ErrDataNotFound will be returned.
func (b *bucket) Get(key string) ([]byte, error) {
	glog.V(level7).Infoln("bucket::Get", key)

	r, err := b.get(key)
	if err != nil {
		return nil, err
	}
	return r.Value, nil
}

func (b *bucket) GetTags(key string) ([]storage.Tag, error) {
	glog.V(level7).Infoln("bucket::GetTags", key)

	r, err := b.get(key)
	if err != nil {
		return nil, err
	}
	return r.Tags, nil
}

// GetBulk returns nil for the keys which aren't found.
func (b *bucket) GetBulk(keys ...string) (values [][]byte, err error) {
	glog.V(level7).Infoln("bucket::GetBulk", keys)

	values = make([][]byte, len(keys))
	err = b.owner.view(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.name)
		for i, k := range keys {
			data := bkt.Get([]byte(k))
			if data == nil {
				continue
			}
			r, err := b.decode(data)
			if err != nil {
				return err
			}
			values[i] = r.Value
		}
		return nil
	})
	return values, err
}

// Query returns the entries whose tags match the expression. Paging options
// are ignored, all the matches are returned in key order.
func (b *bucket) Query(expression string, _ ...storage.QueryOption) (_ storage.Iterator, err error) {
	defer err2.Handle(&err, "bucket query")

	glog.V(level7).Infoln("bucket::Query", expression)

	q := try.To1(api.ParseQuery(expression))

	var found []api.Entry
	try.To(b.owner.view(func(tx *bolt.Tx) error {
		return tx.Bucket(b.name).ForEach(func(k, v []byte) error {
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			if !api.Match(q, r.Tags) {
				return nil
			}
			value, err := b.owner.open(r.Value)
			if err != nil {
				return err
			}
			found = append(found, api.Entry{Key: string(k), Value: value, Tags: r.Tags})
			return nil
		})
	}))
	return api.NewIterator(found), nil
}

// Delete deletes the key + value pair (and all tags) associated with key.
func (b *bucket) Delete(key string) error {
	glog.V(level7).Infoln("bucket::Delete", key)

	return b.owner.update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.name).Delete([]byte(key))
	})
}

// Batch runs the operations in one bolt transaction. Nil value is a delete.
func (b *bucket) Batch(operations []storage.Operation) (err error) {
	defer err2.Handle(&err, "bucket batch")

	glog.V(level7).Infoln("bucket::Batch", len(operations))

	data := make([][]byte, len(operations))
	for i, op := range operations {
		if op.Value == nil {
			continue
		}
		try.To(api.CheckPut(op.Key, op.Value, op.Tags))
		data[i] = try.To1(b.encode(op.Value, op.Tags))
	}
	return b.owner.update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.name)
		for i, op := range operations {
			var err error
			if data[i] == nil {
				err = bkt.Delete([]byte(op.Key))
			} else {
				err = bkt.Put([]byte(op.Key), data[i])
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Flush is a no-op, bolt commits every write transaction to the disk.
func (b *bucket) Flush() error {
	return nil
}

// Close closes this store object. The provider closes the bolt file.
func (b *bucket) Close() error {
	glog.V(level7).Infoln("bucket::Close")
	return nil
}
