/*
Package wrapper is a bolt DB backed implementation of the aries framework
storage provider. Every store is a bolt bucket, and the set of the stores is
fixed by the configuration. Values can be sealed with XChaCha20-Poly1305. Keys
and tags are stored as is because the queries use them.
*/
package wrapper

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/chacha20poly1305"
)

const level7 = 7

const (
	fileMode    = 0o600
	openTimeout = 3 * time.Second
)

type Config struct {
	// Key is a hex coded 32 byte key for the value sealing. Empty key stores
	// values as is.
	Key       string
	FileName  string
	FilePath  string
	BucketIDs []string
}

// StorageProvider implements storage.Provider over a single bolt file.
type StorageProvider struct {
	l sync.RWMutex

	conf    Config
	db      *bolt.DB
	buckets map[string]*bucket
	configs map[string]storage.StoreConfiguration
	aead    cipher.AEAD
}

var _ storage.Provider = (*StorageProvider)(nil)

func New(config Config) *StorageProvider {
	s := &StorageProvider{
		conf:    config,
		buckets: make(map[string]*bucket),
		configs: make(map[string]storage.StoreConfiguration),
	}
	for _, name := range s.conf.BucketIDs {
		s.buckets[name] = &bucket{name: []byte(name), owner: s}
	}
	return s
}

// GenerateKey returns a new random key for the value sealing in hex.
func GenerateKey() string {
	k := make([]byte, chacha20poly1305.KeySize)
	try.To1(rand.Read(k))
	return hex.EncodeToString(k)
}

// Filename returns the bolt file name of the configuration.
func (c Config) Filename() string {
	path := "."
	if c.FilePath != "" {
		path = c.FilePath
	}
	return filepath.Join(path, c.FileName+".bolt")
}

// Init opens the bolt file and creates the buckets.
func (s *StorageProvider) Init() (err error) {
	defer err2.Handle(&err, "bolt storage open")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db != nil {
		glog.Warningf("skipping storage provider initialization for %s, already open", s.conf.FileName)
		return nil
	}
	if len(s.conf.BucketIDs) == 0 {
		return fmt.Errorf("no buckets specified")
	}
	if s.conf.Key != "" {
		k := try.To1(hex.DecodeString(s.conf.Key))
		s.aead = try.To1(chacha20poly1305.NewX(k))
	}

	filename := s.conf.Filename()
	try.To(os.MkdirAll(filepath.Dir(filename), 0o700))
	db := try.To1(bolt.Open(filename, fileMode, &bolt.Options{Timeout: openTimeout}))

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range s.conf.BucketIDs {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	glog.V(1).Infoln("storage opened:", filename)
	return nil
}

func (s *StorageProvider) ID() string {
	return s.conf.FileName
}

// OpenStore returns the store of the configured bucket. Unknown names are
// errors.
func (s *StorageProvider) OpenStore(name string) (storage.Store, error) {
	glog.V(level7).Infoln("StorageProvider::OpenStore", s.ID(), name)

	if b, ok := s.buckets[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("store %s: %w", name, storage.ErrStoreNotFound)
}

func (s *StorageProvider) SetStoreConfig(name string, config storage.StoreConfiguration) error {
	glog.V(level7).Infoln("StorageProvider::SetStoreConfig", name)

	s.l.Lock()
	defer s.l.Unlock()

	if _, ok := s.buckets[name]; !ok {
		return fmt.Errorf("store %s: %w", name, storage.ErrStoreNotFound)
	}
	s.configs[name] = config
	return nil
}

func (s *StorageProvider) GetStoreConfig(name string) (storage.StoreConfiguration, error) {
	s.l.RLock()
	defer s.l.RUnlock()

	c, ok := s.configs[name]
	if !ok {
		return storage.StoreConfiguration{}, fmt.Errorf("store %s: %w", name, storage.ErrStoreNotFound)
	}
	return c, nil
}

func (s *StorageProvider) GetOpenStores() []storage.Store {
	stores := make([]storage.Store, 0, len(s.buckets))
	for _, b := range s.buckets {
		stores = append(stores, b)
	}
	return stores
}

func (s *StorageProvider) Close() (err error) {
	defer err2.Handle(&err, "bolt storage close")

	s.l.Lock()
	defer s.l.Unlock()

	if s.db == nil {
		glog.Warningf("skipping storage provider close for %s, already closed", s.conf.FileName)
		return nil
	}
	try.To(s.db.Close())
	s.db = nil
	return nil
}

var errNotOpen = errors.New("storage is not open")

func (s *StorageProvider) view(f func(tx *bolt.Tx) error) error {
	s.l.RLock()
	defer s.l.RUnlock()

	if s.db == nil {
		return errNotOpen
	}
	return s.db.View(f)
}

func (s *StorageProvider) update(f func(tx *bolt.Tx) error) error {
	s.l.RLock()
	defer s.l.RUnlock()

	if s.db == nil {
		return errNotOpen
	}
	return s.db.Update(f)
}

func (s *StorageProvider) seal(value []byte) []byte {
	if s.aead == nil {
		return append(value[:0:0], value...)
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	try.To1(rand.Read(nonce))
	return s.aead.Seal(nonce, nonce, value, nil)
}

func (s *StorageProvider) open(sealed []byte) ([]byte, error) {
	if s.aead == nil {
		return append(sealed[:0:0], sealed...), nil
	}
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, errors.New("sealed value too short")
	}
	return s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}
