/*
Package trustping is the message model of the Aries trust ping protocol, which
tests that a connection works end to end.
*/
package trustping

import (
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
)

type Ping struct {
	didcomm.Header
	Comment           string `json:"comment,omitempty"`
	ResponseRequested bool   `json:"response_requested"`
}

type PingResponse struct {
	didcomm.Header
	Comment string `json:"comment,omitempty"`
}

func init() {
	didcomm.Types.Add(pltype.TrustPingPing, func() didcomm.MessageHdr { return &Ping{} })
	didcomm.Types.Add(pltype.TrustPingResponse, func() didcomm.MessageHdr { return &PingResponse{} })
}

func NewPing(comment string) *Ping {
	return &Ping{
		Header:            didcomm.NewHeader(pltype.TrustPingPing),
		Comment:           comment,
		ResponseRequested: true,
	}
}

// NewResponse returns the response to the ping in the ping's thread.
func NewResponse(ping *Ping) *PingResponse {
	return &PingResponse{Header: didcomm.NewReplyHeader(pltype.TrustPingResponse, ping)}
}
