// Package basicmessage is the basic message protocol handler.
package basicmessage

import (
	"context"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/std/basicmessage"
	"github.com/golang/glog"
)

// Listener gets the received messages. It's called in the processing
// goroutine of the message.
type Listener func(conn *connection.Record, msg *basicmessage.Basicmessage)

// Handler returns the basic message handler. The listener can be nil.
func Handler(l Listener) comm.Handler {
	return comm.NewHandler(func(_ context.Context, hc *comm.Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error) {
		msg, ok := im.(*basicmessage.Basicmessage)
		if !ok {
			return nil, fmt.Errorf("%w: %s", didcomm.ErrUnsupportedType, im.Type())
		}
		if !hc.Connection.IsConnected() {
			return nil, fmt.Errorf("%w: basic message in state %s",
				connection.ErrInvalidState, hc.Connection.State)
		}
		glog.V(1).Infof("basic message from %s (%s): %s",
			hc.Connection.TheirLabel, msg.SentTime, msg.Content)
		if l != nil {
			l(hc.Connection, msg)
		}
		return nil, nil
	}, pltype.BasicMessageSend)
}
