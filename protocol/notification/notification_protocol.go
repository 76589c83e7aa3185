// Package notification handles the acks and the problem reports of the
// notification protocol. Neither changes the connection, they are logged.
package notification

import (
	"context"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/std/common"
	"github.com/golang/glog"
)

func Handler() comm.Handler {
	return comm.NewHandler(handle, pltype.NotificationAck, pltype.NotificationProblemReport)
}

func handle(_ context.Context, hc *comm.Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error) {
	switch m := im.(type) {
	case *common.Ack:
		glog.V(1).Infof("ack %s to %s on connection %s", m.Status, m.ThreadID(), hc.ConnectionID())
	case *common.ProblemReport:
		glog.Warningf("problem report %s to %s on connection %s: %s",
			m.Code(), m.ThreadID(), hc.ConnectionID(), m.Explain)
	}
	return nil, nil
}
