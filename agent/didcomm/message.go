/*
Package didcomm offers the message abstraction and the wire codec of the agent
to agent protocols. All the protocol messages are statically typed Go structs
which are registered to the closed type table (Types) by their message type
string. The codec resolves the concrete Go type of an incoming JSON message by
its @type field only, and there is no generic fallback type for unknown
messages.

The std packages register their messages in their init functions, which is
the same creator pattern the protocol packages have always used. The table is
frozen when the message processor is built.
*/
package didcomm

import (
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/std/decorator"
)

// MessageHdr is the base interface for all protocol messages. It has the
// minimum needed to handle and process inbound and outbound protocol messages.
type MessageHdr interface {
	ID() string
	Type() string
	SetID(id string)
	SetType(t string)

	Thread() *decorator.Thread
}

// Header is the common part of all the protocol messages. It's embedded to
// the message structs. Field names are prefixed with A (as Aries) to leave the
// plain names for the accessors.
type Header struct {
	AType   string            `json:"@type,omitempty"`
	AID     string            `json:"@id,omitempty"`
	AThread *decorator.Thread `json:"~thread,omitempty"`
}

// NewHeader returns a header for a new message instance. The @id is always
// unique.
func NewHeader(t string) Header {
	return Header{AType: t, AID: utils.UUID()}
}

// NewReplyHeader returns a header for a message which is a reply to the im.
// The reply belongs to the thread of the im.
func NewReplyHeader(t string, im MessageHdr) Header {
	h := NewHeader(t)
	h.AThread = decorator.ReplyThread(im.Thread(), im.ID())
	return h
}

func (h *Header) ID() string {
	return h.AID
}

func (h *Header) Type() string {
	return h.AType
}

func (h *Header) SetID(id string) {
	h.AID = id
}

func (h *Header) SetType(t string) {
	h.AType = t
}

func (h *Header) Thread() *decorator.Thread {
	return h.AThread
}

func (h *Header) SetThread(t *decorator.Thread) {
	h.AThread = t
}

// ThreadID returns the ID of the conversation this message belongs to.
func (h *Header) ThreadID() string {
	return decorator.ThreadID(h.AThread, h.AID)
}
