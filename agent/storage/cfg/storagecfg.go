/*
Package cfg opens the bolt storage of the agent. A bolt file can be opened only
once per process, so the open storages are shared and reference counted by
their file path.
*/
package cfg

import (
	"path/filepath"
	"sync"

	"github.com/findy-network/findy-a2a/agent/storage/wrapper"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Store names of the agent storage.
const (
	WalletStore     = "wallet"
	ConnectionStore = "connection"
)

// AgentStorage is the storage configuration of one agent.
type AgentStorage struct {
	AgentKey string // hex coded value sealing key, empty for none
	AgentID  string
	FilePath string
}

type storageInfo struct {
	storage *wrapper.StorageProvider
	refs    int
}

var storages = struct {
	sync.Mutex
	m map[string]*storageInfo
}{
	m: make(map[string]*storageInfo),
}

func (c *AgentStorage) UniqueID() string {
	return filepath.Join(c.FilePath, c.AgentID)
}

func (c *AgentStorage) ID() string {
	return c.AgentID
}

// Open opens the agent storage or returns the already open one.
func (c *AgentStorage) Open() (s *wrapper.StorageProvider, err error) {
	defer err2.Handle(&err, "open agent storage from cfg")

	storages.Lock()
	defer storages.Unlock()

	if info, exist := storages.m[c.UniqueID()]; exist {
		info.refs++
		glog.V(5).Infoln("open existing agent storage:", c.AgentID, info.refs)
		return info.storage, nil
	}

	aStorage := wrapper.New(wrapper.Config{
		Key:       c.AgentKey,
		FileName:  c.AgentID,
		FilePath:  c.FilePath,
		BucketIDs: []string{WalletStore, ConnectionStore},
	})
	try.To(aStorage.Init())
	glog.V(5).Infoln("successful first time opening agent storage:", c.AgentID)

	storages.m[c.UniqueID()] = &storageInfo{storage: aStorage, refs: 1}
	return aStorage, nil
}

// Close releases the storage. The bolt file is closed when the last user
// closes it.
func (c *AgentStorage) Close() (err error) {
	defer err2.Handle(&err, "close agent storage from cfg")

	storages.Lock()
	defer storages.Unlock()

	info, exist := storages.m[c.UniqueID()]
	if !exist {
		glog.Warningf("Close called but storage (%s) not open!", c.UniqueID())
		return nil
	}
	info.refs--
	if info.refs > 0 {
		return nil
	}
	try.To(info.storage.Close())
	delete(storages.m, c.UniqueID())
	glog.V(5).Infoln("successful closing agent storage:", c.AgentID)
	return nil
}
