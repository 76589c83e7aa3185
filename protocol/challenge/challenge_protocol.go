/*
Package challenge is the ephemeral challenge protocol handler. The challenge
is answered by the application's Responder, and the answer is sent back in
the challenge's thread. Responses to our challenges are only logged, they
aren't stored.
*/
package challenge

import (
	"context"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/std/challenge"
	"github.com/golang/glog"
)

// Responder answers the challenges. Error or nil answer rejects the
// challenge.
type Responder interface {
	Answer(ctx context.Context, conn *connection.Record, contents challenge.Contents) (challenge.Answer, error)
}

// ResponderFunc is the function form of Responder.
type ResponderFunc func(ctx context.Context, conn *connection.Record, contents challenge.Contents) (challenge.Answer, error)

func (f ResponderFunc) Answer(ctx context.Context, conn *connection.Record, contents challenge.Contents) (challenge.Answer, error) {
	return f(ctx, conn, contents)
}

// Reject is the Responder which rejects all the challenges.
var Reject = ResponderFunc(func(context.Context, *connection.Record, challenge.Contents) (challenge.Answer, error) {
	return nil, nil
})

type handler struct {
	r Responder
}

// Handler returns the challenge handler which answers with r.
func Handler(r Responder) comm.Handler {
	if r == nil {
		r = Reject
	}
	return &handler{r: r}
}

func (h *handler) Types() []string {
	return []string{pltype.ChallengeRequest, pltype.ChallengeResponse}
}

func (h *handler) Handle(ctx context.Context, hc *comm.Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error) {
	if !hc.Connection.IsConnected() {
		return nil, fmt.Errorf("%w: challenge in state %s",
			connection.ErrInvalidState, hc.Connection.State)
	}
	switch m := im.(type) {
	case *challenge.Challenge:
		if m.Challenge.Contents == nil {
			return nil, fmt.Errorf("%w: challenge %s has no contents",
				challenge.ErrUnsupportedChallenge, m.ID())
		}
		answer, err := h.r.Answer(ctx, hc.Connection, m.Challenge.Contents)
		if err != nil {
			glog.Warningf("challenge %s rejected: %v", m.ID(), err)
			answer = nil
		}
		return challenge.NewResponse(m, answer), nil
	case *challenge.Response:
		glog.V(1).Infof("challenge %s response: %s", m.ThreadID(), m.Status)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", didcomm.ErrUnsupportedType, im.Type())
}
