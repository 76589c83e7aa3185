package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/comm"
	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/std/common"
	stdconn "github.com/findy-network/findy-a2a/std/connection"
	"github.com/findy-network/findy-a2a/std/decorator"
	"github.com/findy-network/findy-a2a/std/trustping"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var errDuplicate = errors.New("duplicate request")

// handleRequest is the inviter's side. The request comes to the invitation
// key which is the MyKey of the invited record.
func (p *Protocol) handleRequest(
	ctx context.Context,
	hc *comm.Context,
	req *stdconn.Request,
) (
	om didcomm.MessageHdr,
	err error,
) {
	defer err2.Handle(&err, "connection request")

	if hc.Connection == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInvitation, hc.RecipientKey)
	}
	if req.Connection == nil {
		return p.failRequest(ctx, hc, req, errors.New("connection missing"))
	}
	doc := req.Connection.DIDDoc
	if err := doc.Validate(); err != nil {
		return p.failRequest(ctx, hc, req, err)
	}
	if doc.VerKey() != hc.SenderKey {
		return p.failRequest(ctx, hc, req, errors.New("DID doc key isn't the sender's"))
	}

	rec, err := hc.Store.Modify(ctx, hc.Connection.ID, func(r *cnx.Record) error {
		if r.State == cnx.Negotiating {
			if r.TheirKey == doc.VerKey() {
				return errDuplicate
			}
			return fmt.Errorf("%w: request from another key", cnx.ErrInvalidState)
		}
		if err := r.Transit(cnx.EventRequest); err != nil {
			return err
		}
		r.TheirDID = req.Connection.DID
		r.TheirKey = doc.VerKey()
		r.TheirLabel = req.Label
		r.Endpoint = doc.Endpoint()
		r.RoutingKeys = doc.RoutingKeys()
		r.ThreadID = req.ThreadID()
		return nil
	})
	if errors.Is(err, errDuplicate) {
		glog.V(1).Infoln("duplicate request to connection", hc.Connection.ID)
		rec, err = hc.Store.Get(ctx, hc.Connection.ID)
	}
	try.To(err)

	res := stdconn.NewResponse(req, p.connectionOf(rec))
	res.ConnectionSignature = try.To1(decorator.Sign(ctx, hc.Crypto, res.Connection, rec.MyKey))

	glog.V(1).Infof("connection %s negotiating with %s", rec.ID, rec.TheirDID)
	return res, nil
}

// failRequest moves the invited record to the error state and returns a
// problem report to the sender. A record which is already negotiating keeps
// its peer: the same sender's broken duplicate is dropped and other senders
// get ErrInvalidState.
func (p *Protocol) failRequest(
	ctx context.Context,
	hc *comm.Context,
	req *stdconn.Request,
	reason error,
) (
	didcomm.MessageHdr,
	error,
) {
	glog.Warningf("connection %s request not accepted: %v", hc.Connection.ID, reason)

	_, err := hc.Store.Modify(ctx, hc.Connection.ID, func(r *cnx.Record) error {
		if r.State == cnx.Negotiating && r.TheirKey == hc.SenderKey {
			return errDuplicate
		}
		if r.State != cnx.Invited {
			return fmt.Errorf("%w: request in state %s", cnx.ErrInvalidState, r.State)
		}
		if err := r.Transit(cnx.EventFail); err != nil {
			return err
		}
		// invited records have no peer yet, the report needs one
		r.TheirKey = hc.SenderKey
		if req.Connection != nil && req.Connection.DIDDoc != nil {
			r.Endpoint = req.Connection.DIDDoc.Endpoint()
		}
		return nil
	})
	if errors.Is(err, errDuplicate) {
		glog.V(1).Infoln("broken duplicate request to connection", hc.Connection.ID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return common.NewProblemReport(pltype.AriesConnectionProblemReport, req,
		common.ProblemRequestNotAccepted, reason.Error()), nil
}

// handleResponse is the invitee's side. The connection~sig must be signed
// with the invitation key.
func (p *Protocol) handleResponse(
	ctx context.Context,
	hc *comm.Context,
	res *stdconn.Response,
) (
	om didcomm.MessageHdr,
	err error,
) {
	defer err2.Handle(&err, "connection response")

	rec := hc.Connection
	if rec == nil {
		return nil, fmt.Errorf("%w: no connection for %s", cnx.ErrInvalidState, hc.RecipientKey)
	}
	if rec.State != cnx.Negotiating {
		return nil, fmt.Errorf("%w: response in state %s", cnx.ErrInvalidState, rec.State)
	}

	conn, err := decorator.Unpack[stdconn.Connection](ctx, hc.Crypto,
		res.ConnectionSignature, rec.InvitationKey)
	if err != nil {
		glog.Warningf("connection %s response: %v", rec.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrSignatureVerification, err)
	}
	if err := conn.DIDDoc.Validate(); err != nil {
		try.To1(hc.Store.Modify(ctx, rec.ID, func(r *cnx.Record) error {
			return r.Transit(cnx.EventFail)
		}))
		return common.NewProblemReport(pltype.AriesConnectionProblemReport, res,
			common.ProblemResponseNotAccepted, err.Error()), nil
	}

	rec = try.To1(hc.Store.Modify(ctx, rec.ID, func(r *cnx.Record) error {
		if err := r.Transit(cnx.EventResponse); err != nil {
			return err
		}
		r.TheirDID = conn.DID
		r.TheirKey = conn.DIDDoc.VerKey()
		r.Endpoint = conn.DIDDoc.Endpoint()
		r.RoutingKeys = conn.DIDDoc.RoutingKeys()
		return nil
	}))
	glog.V(1).Infof("connection %s connected to %s", rec.ID, rec.TheirDID)

	// the ping tells the inviter that we have got the response
	ping := trustping.NewPing("connected")
	ping.ResponseRequested = false
	return ping, nil
}

func (p *Protocol) handleProblemReport(ctx context.Context, hc *comm.Context, pr *common.ProblemReport) error {
	if hc.Connection == nil {
		return fmt.Errorf("%w: problem report to unknown connection", cnx.ErrInvalidState)
	}
	glog.Warningf("connection %s problem report: %s %s", hc.Connection.ID, pr.Code(), pr.Explain)

	_, err := hc.Store.Modify(ctx, hc.Connection.ID, func(r *cnx.Record) error {
		return r.Transit(cnx.EventAbort)
	})
	return err
}
