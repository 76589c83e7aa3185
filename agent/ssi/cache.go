package ssi

import "sync"

// Cache keeps the opened keys in memory so that the private keys aren't read
// and unsealed from the storage for every message.
type Cache struct {
	cache map[string]*Key
	sync.RWMutex
}

// Add adds the key by its verkey. The first added key stays.
func (c *Cache) Add(k *Key) {
	c.Lock()
	defer c.Unlock()

	if c.cache == nil {
		c.cache = make(map[string]*Key)
	}
	if _, found := c.cache[k.VerKey]; found {
		return
	}
	c.cache[k.VerKey] = k
}

// Get returns the key or nil if it isn't in the cache.
func (c *Cache) Get(verKey string) *Key {
	c.RLock()
	defer c.RUnlock()

	return c.cache[verKey]
}

func (c *Cache) Len() int {
	c.RLock()
	defer c.RUnlock()

	return len(c.cache)
}
