package comm

import (
	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/sec"
)

// Context is what a handler gets with the message. Connection is nil only
// for the connections protocol messages which arrive before the record is
// known by the recipient key, e.g. a request to an invitation.
type Context struct {
	Connection   *connection.Record
	SenderKey    string
	RecipientKey string

	Crypto sec.Crypto
	Store  *pairwise.Store
}

// ConnectionID returns the ID of the connection or empty.
func (c *Context) ConnectionID() string {
	if c.Connection == nil {
		return ""
	}
	return c.Connection.ID
}
