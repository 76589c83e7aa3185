package common

import (
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
)

const (
	AckOK      = "OK"
	AckPending = "PENDING"
	AckFail    = "FAIL"
)

// Ack acknowledgement struct
type Ack struct {
	didcomm.Header
	Status string `json:"status,omitempty"`
}

func init() {
	didcomm.Types.Add(pltype.NotificationAck, func() didcomm.MessageHdr { return &Ack{} })
}

// NewAck returns an ack for the im in the im's thread.
func NewAck(im didcomm.MessageHdr, status string) *Ack {
	return &Ack{
		Header: didcomm.NewReplyHeader(pltype.NotificationAck, im),
		Status: status,
	}
}
