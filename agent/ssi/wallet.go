/*
Package ssi is the local key wallet of the agent. It holds the ed25519 keys of
the agent and implements the envelope crypto with them: signing, anonymous
encryption (crypto_box_seal), and authenticated encryption where the sender's
verkey travels anonymously encrypted together with the box of the message.
The private keys are stored in an aries framework storage store.
*/
package ssi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-a2a/agent/storage/api"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const (
	tagType   = "type"
	tagDID    = "did"
	tagRole   = "role"
	keyTypeV1 = "ed25519"
	roleAgent = "agent"
)

// Wallet is the key holder of the agent. It's safe for concurrent use.
type Wallet struct {
	store storage.Store
	cache Cache
}

type keyRecord struct {
	Seed    []byte    `json:"seed"`
	DID     string    `json:"did"`
	Created time.Time `json:"created"`
}

// NewWallet returns a wallet which stores its keys to the store.
func NewWallet(store storage.Store) *Wallet {
	return &Wallet{store: store}
}

// CreateKey creates a new key and stores it. The seed is optional and must be
// SeedLen long if given. The same seed gives always the same key.
func (w *Wallet) CreateKey(_ context.Context, seed string) (k *Key, err error) {
	return w.createKey(seed)
}

func (w *Wallet) createKey(seed string, tags ...storage.Tag) (k *Key, err error) {
	defer err2.Handle(&err, "create key")

	var s []byte
	switch len(seed) {
	case 0:
		s = make([]byte, SeedLen)
		try.To1(rand.Read(s))
	case SeedLen:
		s = []byte(seed)
	default:
		return nil, fmt.Errorf("seed must be %d bytes", SeedLen)
	}

	k = newKey(s)
	data := try.To1(json.Marshal(keyRecord{Seed: s, DID: k.DID, Created: time.Now().UTC()}))
	tags = append(tags,
		storage.Tag{Name: tagType, Value: keyTypeV1},
		storage.Tag{Name: tagDID, Value: k.DID},
	)
	try.To(w.store.Put(k.VerKey, data, tags...))
	w.cache.Add(k)

	glog.V(3).Infoln("new key:", k.VerKey)
	return k, nil
}

// Key returns the key of the verkey from the cache or from the store.
func (w *Wallet) Key(verKey string) (k *Key, err error) {
	if k = w.cache.Get(verKey); k != nil {
		return k, nil
	}
	defer err2.Handle(&err, "load key %s", verKey)

	data, err := w.store.Get(verKey)
	if errors.Is(err, storage.ErrDataNotFound) {
		return nil, fmt.Errorf("%w: no private key", api.ErrNotFound)
	}
	try.To(err)

	var r keyRecord
	try.To(json.Unmarshal(data, &r))
	k = newKey(r.Seed)
	if k.VerKey != verKey {
		return nil, fmt.Errorf("stored key doesn't match")
	}
	w.cache.Add(k)
	return k, nil
}

// Keys lists the verkeys of the wallet.
func (w *Wallet) Keys() (keys []string, err error) {
	defer err2.Handle(&err, "list keys")

	it := try.To1(w.store.Query(tagType + ":" + keyTypeV1))
	defer it.Close()
	for try.To1(it.Next()) {
		keys = append(keys, try.To1(it.Key()))
	}
	return keys, nil
}

// AgentKey returns the key of the agent's own endpoint, i.e. the routing key
// of all its connections. The key is created on the first call, and the seed
// is used only then.
func (w *Wallet) AgentKey(_ context.Context, seed string) (k *Key, err error) {
	defer err2.Handle(&err, "agent key")

	it := try.To1(w.store.Query(tagRole + ":" + roleAgent))
	defer it.Close()
	if try.To1(it.Next()) {
		return w.Key(try.To1(it.Key()))
	}
	k = try.To1(w.createKey(seed, storage.Tag{Name: tagRole, Value: roleAgent}))
	glog.V(1).Infoln("agent key created:", k.VerKey)
	return k, nil
}
