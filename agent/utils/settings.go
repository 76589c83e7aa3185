package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	HTTPReqTimeout       = 1 * time.Minute
	DefaultInvitationTTL = 24 * time.Hour
	DefaultServiceName   = "a2a"
)

var Settings = &Hub{}

// Hub is the runtime settings of the agent process. The settings are written
// once at the startup by the command layer and read by the transport and the
// protocol handlers.
type Hub struct {
	l sync.RWMutex

	serviceName   string        // URL path of the agent to agent endpoint
	hostAddr      string        // Ip host name of the server's host seen from internet
	versionInfo   string        // Version number etc. in free format as a string
	timeout       time.Duration // timeout setting for http requests
	invitationTTL time.Duration // how long an unused invitation stays valid
	dataDir       string        // location of the wallet and connection db
	label         string        // our label in the invitations and requests
}

// SetTimeout sets the default timeout for HTTP requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.l.Lock()
	defer h.l.Unlock()
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

// SetServiceName sets the service name of this agent. Service name is used in
// the URLs and endpoint addresses.
func (h *Hub) SetServiceName(n string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.serviceName = n
}

func (h *Hub) ServiceName() string {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.serviceName == "" {
		if glog.V(3) {
			glog.Info("service name is empty, using default")
		}
		return DefaultServiceName
	}
	return h.serviceName
}

// SetVersionInfo sets current version info of this agent.
func (h *Hub) SetVersionInfo(info string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.versionInfo
}

// SetHostAddr sets current host name of this agent. The host name is used in
// the endpoints we give to other agents.
func (h *Hub) SetHostAddr(ipName string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.hostAddr = ipName
}

func (h *Hub) HostAddr() string {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.hostAddr
}

// Endpoint returns the public URL of the agent to agent transport.
func (h *Hub) Endpoint() string {
	return fmt.Sprintf("%s/%s/", h.HostAddr(), h.ServiceName())
}

func (h *Hub) SetInvitationTTL(ttl time.Duration) {
	h.l.Lock()
	defer h.l.Unlock()
	h.invitationTTL = ttl
}

func (h *Hub) InvitationTTL() time.Duration {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.invitationTTL == 0 {
		return DefaultInvitationTTL
	}
	return h.invitationTTL
}

func (h *Hub) SetDataDir(dir string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.dataDir = dir
}

func (h *Hub) DataDir() string {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.dataDir == "" {
		return DefaultDataDir()
	}
	return h.dataDir
}

func (h *Hub) SetLabel(label string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.label = label
}

func (h *Hub) Label() string {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.label
}
