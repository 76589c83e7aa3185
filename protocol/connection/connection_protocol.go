/*
Package connection implements the Aries connections protocol (RFC 0160) on
top of the connection state machine. The inviter creates an invitation and a
record for its key, the invitee accepts it by sending a request, and the
inviter answers with a response where its connection data is signed with
the invitation key. The invitee verifies the signature against the key of
the invitation and confirms the connection with a trust ping.

All the record writes go through the pairwise store's Modify, which makes
them all or nothing.
*/
package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/comm"
	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/agent/ssi"
	"github.com/findy-network/findy-a2a/std/common"
	stdconn "github.com/findy-network/findy-a2a/std/connection"
	"github.com/findy-network/findy-a2a/std/decorator"
	diddoc "github.com/findy-network/findy-a2a/std/did"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var (
	// ErrSignatureVerification is returned when the connection~sig of a
	// response doesn't verify with the invitation key. The connection stays
	// where it was.
	ErrSignatureVerification = errors.New("signature verification failed")

	ErrUnknownInvitation = errors.New("unknown invitation")
)

// KeyCreator creates our new pairwise keys.
type KeyCreator interface {
	CreateKey(ctx context.Context, seed string) (*ssi.Key, error)
}

// Protocol is the connections protocol of one agent. It's the handler of
// the request, response and problem_report messages.
type Protocol struct {
	Keys  KeyCreator
	Store *pairwise.Store

	// Endpoint is our service endpoint and AgentKey the routing key of it.
	Endpoint string
	AgentKey string
}

var _ comm.Handler = (*Protocol)(nil)

func New(keys KeyCreator, store *pairwise.Store, endpoint, agentKey string) *Protocol {
	return &Protocol{
		Keys:     keys,
		Store:    store,
		Endpoint: endpoint,
		AgentKey: agentKey,
	}
}

func (p *Protocol) Types() []string {
	return []string{
		pltype.AriesConnectionRequest,
		pltype.AriesConnectionResponse,
		pltype.AriesConnectionProblemReport,
	}
}

func (p *Protocol) Handle(ctx context.Context, hc *comm.Context, im didcomm.MessageHdr) (didcomm.MessageHdr, error) {
	switch m := im.(type) {
	case *stdconn.Request:
		return p.handleRequest(ctx, hc, m)
	case *stdconn.Response:
		return p.handleResponse(ctx, hc, m)
	case *common.ProblemReport:
		return nil, p.handleProblemReport(ctx, hc, m)
	}
	return nil, fmt.Errorf("%w: %s in connections protocol", didcomm.ErrUnsupportedType, im.Type())
}

func (p *Protocol) routingKeys() []string {
	if p.AgentKey == "" {
		return nil
	}
	return []string{p.AgentKey}
}

func (p *Protocol) connectionOf(rec *cnx.Record) *stdconn.Connection {
	return &stdconn.Connection{
		DID:    rec.MyDID,
		DIDDoc: diddoc.NewDoc(rec.MyDID, rec.MyKey, p.Endpoint, p.routingKeys()),
	}
}

// CreateInvitation creates a new key and an invited record for it. The
// invitation is for one connection only: the key becomes the connection's
// key when the request arrives.
func (p *Protocol) CreateInvitation(
	ctx context.Context,
	label, alias string,
) (
	inv *stdconn.Invitation,
	rec *cnx.Record,
	err error,
) {
	defer err2.Handle(&err, "create invitation")

	key := try.To1(p.Keys.CreateKey(ctx, ""))
	inv = stdconn.NewInvitation(label, key.VerKey, p.Endpoint, p.routingKeys())

	rec = cnx.NewRecord(key.VerKey, key.DID)
	rec.InvitationKey = key.VerKey
	rec.InvitationID = inv.ID()
	rec.Alias = alias
	try.To(p.Store.Create(ctx, rec))

	glog.V(1).Infof("invitation %s created, connection %s", inv.ID(), rec.ID)
	return inv, rec, nil
}

// AcceptInvitation creates our pairwise key and record for the invitation
// and returns the request to send. The record is negotiating and it waits
// the response signed with the invitation key.
func (p *Protocol) AcceptInvitation(
	ctx context.Context,
	inv *stdconn.Invitation,
	label, alias string,
) (
	req *stdconn.Request,
	rec *cnx.Record,
	err error,
) {
	defer err2.Handle(&err, "accept invitation")

	if inv.RecipientKey() == "" || inv.ServiceEndpoint == "" {
		return nil, nil, fmt.Errorf("%w: recipient key or endpoint missing",
			stdconn.ErrInvalidInvitation)
	}

	key := try.To1(p.Keys.CreateKey(ctx, ""))
	rec = cnx.NewRecord(key.VerKey, key.DID)
	rec.Alias = alias
	rec.InvitationKey = inv.RecipientKey()
	rec.InvitationID = inv.ID()
	rec.TheirKey = inv.RecipientKey()
	rec.TheirLabel = inv.Label
	rec.Endpoint = inv.ServiceEndpoint
	rec.RoutingKeys = inv.RoutingKeys

	req = stdconn.NewRequest(inv, label, p.connectionOf(rec))
	rec.ThreadID = req.ThreadID()
	try.To(p.Store.Create(ctx, rec))

	rec = try.To1(p.Store.Modify(ctx, rec.ID, func(r *cnx.Record) error {
		return r.Transit(cnx.EventRequest)
	}))
	return req, rec, nil
}

// Abort abandons the connection. The returned problem report tells it to
// the other end, and it's nil when the other end isn't known yet.
func (p *Protocol) Abort(
	ctx context.Context,
	connID, reason string,
) (
	pr *common.ProblemReport,
	rec *cnx.Record,
	err error,
) {
	defer err2.Handle(&err, "abort connection %s", connID)

	rec = try.To1(p.Store.Modify(ctx, connID, func(r *cnx.Record) error {
		return r.Transit(cnx.EventAbort)
	}))
	if rec.TheirKey == "" {
		return nil, rec, nil
	}
	pr = &common.ProblemReport{
		Header:      didcomm.NewHeader(pltype.AriesConnectionProblemReport),
		ProblemCode: common.ProblemAbandoned,
		Explain:     reason,
	}
	if rec.ThreadID != "" {
		pr.SetThread(&decorator.Thread{ID: rec.ThreadID})
	}
	return pr, rec, nil
}

// Confirm moves the inviter's negotiating connection to connected. It's
// called when the first message of the other end arrives after our
// response. Other records are returned as they are.
func Confirm(ctx context.Context, store *pairwise.Store, rec *cnx.Record) (*cnx.Record, error) {
	if rec == nil || rec.State != cnx.Negotiating || rec.MyKey != rec.InvitationKey {
		return rec, nil
	}
	return store.Modify(ctx, rec.ID, func(r *cnx.Record) error {
		return r.Transit(cnx.EventResponse)
	})
}
