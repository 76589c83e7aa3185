// Package trustping is the trust ping protocol handler. A ping also confirms
// the inviter's connection, since it's the first message the invitee sends
// after the connection response.
package trustping

import (
	"context"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/protocol/connection"
	"github.com/findy-network/findy-a2a/std/trustping"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Handler returns the trust ping handler.
func Handler() comm.Handler {
	return comm.NewHandler(handle, pltype.TrustPingPing, pltype.TrustPingResponse)
}

func handle(ctx context.Context, hc *comm.Context, im didcomm.MessageHdr) (om didcomm.MessageHdr, err error) {
	defer err2.Handle(&err, "trust ping")

	switch m := im.(type) {
	case *trustping.Ping:
		rec := try.To1(connection.Confirm(ctx, hc.Store, hc.Connection))
		glog.V(1).Infof("ping %s on connection %s (%s)", m.ID(), rec.ID, rec.State)
		if !m.ResponseRequested {
			return nil, nil
		}
		return trustping.NewResponse(m), nil
	case *trustping.PingResponse:
		glog.V(1).Infof("ping response to %s on connection %s", m.ThreadID(), hc.ConnectionID())
		return nil, nil
	}
	return nil, nil
}
