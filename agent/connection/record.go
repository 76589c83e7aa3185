package connection

import (
	"time"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/golang/glog"
)

// Record is a pairwise connection to the other agent. MyKey is unique over
// all the records of the agent, and the inbound messages find their
// connection with it.
type Record struct {
	ID    string `json:"id"`
	State State  `json:"state"`

	MyKey string `json:"myKey"`
	MyDID string `json:"myDid,omitempty"`

	TheirKey    string   `json:"theirKey,omitempty"`
	TheirDID    string   `json:"theirDid,omitempty"`
	TheirLabel  string   `json:"theirLabel,omitempty"`
	Endpoint    string   `json:"endpoint,omitempty"`
	RoutingKeys []string `json:"routingKeys,omitempty"`

	Alias         string `json:"alias,omitempty"`
	InvitationKey string `json:"invitationKey,omitempty"`
	InvitationID  string `json:"invitationId,omitempty"`
	ThreadID      string `json:"threadId,omitempty"`

	// Version is the optimistic concurrency counter of the stored record.
	Version uint64 `json:"version"`

	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// NewRecord returns a new invited record for our key.
func NewRecord(myKey, myDID string) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:      utils.UUID(),
		State:   Invited,
		MyKey:   myKey,
		MyDID:   myDID,
		Created: now,
		Updated: now,
	}
}

// Transit moves the record to the state of the event. The record isn't
// touched if the transition doesn't exist.
func (r *Record) Transit(e Event) error {
	next, err := r.State.Next(e)
	if err != nil {
		return err
	}
	if glog.V(1) {
		glog.Infof("connection %s: %s --%s--> %s", r.ID, r.State, e, next)
	}
	r.State = next
	r.Updated = time.Now().UTC()
	return nil
}

// IsConnected tells if messages other than the connection protocol's can be
// exchanged.
func (r *Record) IsConnected() bool {
	return r.State == Connected
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	if r.RoutingKeys != nil {
		c.RoutingKeys = append([]string(nil), r.RoutingKeys...)
	}
	return &c
}
