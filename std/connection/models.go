// Package connection is the message model of the Aries connections protocol
// (RFC 0160): the invitation, the request, and the signed response.
package connection

import (
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/std/decorator"
	"github.com/findy-network/findy-a2a/std/did"
)

// Invitation defines connection invitation message
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#0-invitation-to-connect
type Invitation struct {
	didcomm.Header
	Label           string   `json:"label,omitempty"`
	RecipientKeys   []string `json:"recipientKeys,omitempty"`
	RoutingKeys     []string `json:"routingKeys,omitempty"`
	ServiceEndpoint string   `json:"serviceEndpoint,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
}

// Request defines a2a connection request
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#1-connection-request
type Request struct {
	didcomm.Header
	Label      string      `json:"label,omitempty"`
	Connection *Connection `json:"connection,omitempty"`
}

// Response defines a2a connection response. Connection isn't sent as such but
// inside the signature decorator.
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#2-connection-response
type Response struct {
	didcomm.Header
	ConnectionSignature *decorator.Signature `json:"connection~sig,omitempty"`

	Connection *Connection `json:"-"` // Actual data, to be signed or verified
}

// Connection is a connection definition
type Connection struct {
	DID    string   `json:"DID,omitempty"`
	DIDDoc *did.Doc `json:"DIDDoc,omitempty"`
}

func init() {
	didcomm.Types.Add(pltype.AriesConnectionInvitation, func() didcomm.MessageHdr { return &Invitation{} })
	didcomm.Types.Add(pltype.AriesConnectionRequest, func() didcomm.MessageHdr { return &Request{} })
	didcomm.Types.Add(pltype.AriesConnectionResponse, func() didcomm.MessageHdr { return &Response{} })
}

// NewInvitation returns an invitation to connect to the agent at the endpoint.
// The recipient key is the key the request must be sent to.
func NewInvitation(label, recipientKey, endpoint string, routingKeys []string) *Invitation {
	return &Invitation{
		Header:          didcomm.NewHeader(pltype.AriesConnectionInvitation),
		Label:           label,
		RecipientKeys:   []string{recipientKey},
		RoutingKeys:     routingKeys,
		ServiceEndpoint: endpoint,
	}
}

// RecipientKey returns the key the request is sent to, or empty if there is
// none.
func (inv *Invitation) RecipientKey() string {
	if len(inv.RecipientKeys) == 0 {
		return ""
	}
	return inv.RecipientKeys[0]
}

// NewRequest returns the request which answers to the invitation. The request
// starts a new thread with the invitation as the parent.
func NewRequest(inv *Invitation, label string, conn *Connection) *Request {
	h := didcomm.NewHeader(pltype.AriesConnectionRequest)
	h.AThread = decorator.NewThread(h.AID, inv.ID())
	return &Request{
		Header:     h,
		Label:      label,
		Connection: conn,
	}
}

// NewResponse returns an unsigned response to the request. The caller signs
// the Connection to the ConnectionSignature before sending.
func NewResponse(req *Request, conn *Connection) *Response {
	return &Response{
		Header:     didcomm.NewReplyHeader(pltype.AriesConnectionResponse, req),
		Connection: conn,
	}
}
