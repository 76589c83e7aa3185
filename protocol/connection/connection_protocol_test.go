package connection

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/findy-network/findy-a2a/agent/comm"
	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/ssi"
	"github.com/findy-network/findy-a2a/agent/storage/mem"
	"github.com/findy-network/findy-a2a/std/common"
	stdconn "github.com/findy-network/findy-a2a/std/connection"
	"github.com/findy-network/findy-a2a/std/decorator"
	diddoc "github.com/findy-network/findy-a2a/std/did"
	"github.com/findy-network/findy-a2a/std/trustping"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var ctx = context.Background()

func TestMain(m *testing.M) {
	err2.SetTracers(os.Stderr)
	os.Exit(m.Run())
}

type testAgent struct {
	wallet *ssi.Wallet
	store  *pairwise.Store
	p      *Protocol
}

func newTestAgent(endpoint string) *testAgent {
	provider := mem.New()
	w := ssi.NewWallet(try.To1(provider.OpenStore("wallet")))
	store := pairwise.New(try.To1(provider.OpenStore("connection")))
	agentKey := try.To1(w.CreateKey(ctx, "")).VerKey
	return &testAgent{
		wallet: w,
		store:  store,
		p:      New(w, store, endpoint, agentKey),
	}
}

// context returns the handler context as the processor would build it for
// the message from sender to our record.
func (a *testAgent) context(rec *cnx.Record, sender string) *comm.Context {
	return &comm.Context{
		Connection:   rec,
		SenderKey:    sender,
		RecipientKey: rec.MyKey,
		Crypto:       a.wallet,
		Store:        a.store,
	}
}

func (a *testAgent) get(id string) *cnx.Record {
	return try.To1(a.store.Get(ctx, id))
}

func TestCreateInvitation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice := newTestAgent("http://alice/a2a")
	inv, rec := try.To2(alice.p.CreateInvitation(ctx, "alice", "for bob"))

	assert.Equal(inv.RecipientKey(), rec.MyKey)
	assert.Equal(rec.InvitationKey, rec.MyKey)
	assert.Equal(rec.InvitationID, inv.ID())
	assert.Equal(rec.Alias, "for bob")
	assert.Equal(inv.ServiceEndpoint, "http://alice/a2a")
	assert.DeepEqual(inv.RoutingKeys, []string{alice.p.AgentKey})
	assert.Equal(alice.get(rec.ID).State, cnx.Invited)

	u := try.To1(stdconn.InvitationURL(inv))
	parsed := try.To1(stdconn.ParseInvitation(u))
	assert.Equal(parsed.RecipientKey(), rec.MyKey)
}

func TestAcceptInvitation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")
	inv, _ := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))

	req, rec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", "alice"))
	assert.Equal(rec.State, cnx.Negotiating)
	assert.Equal(rec.TheirKey, inv.RecipientKey())
	assert.Equal(rec.InvitationKey, inv.RecipientKey())
	assert.Equal(rec.TheirLabel, "alice")
	assert.Equal(rec.ThreadID, req.ThreadID())
	assert.Equal(req.Thread().PID, inv.ID())
	assert.Equal(req.Connection.DIDDoc.VerKey(), rec.MyKey)
	assert.NoError(req.Connection.DIDDoc.Validate())

	_, _, err := bob.p.AcceptInvitation(ctx, &stdconn.Invitation{}, "bob", "")
	assert.That(errors.Is(err, stdconn.ErrInvalidInvitation))
}

func TestHandshake(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")
	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))

	om := try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), req))
	res, ok := om.(*stdconn.Response)
	assert.That(ok)
	assert.Equal(res.Thread().ID, req.ThreadID())
	assert.Equal(res.ConnectionSignature.SignVerKey, inv.RecipientKey())

	aRec = alice.get(aRec.ID)
	assert.Equal(aRec.State, cnx.Negotiating)
	assert.Equal(aRec.TheirKey, bRec.MyKey)
	assert.Equal(aRec.Endpoint, "http://bob/a2a")

	om = try.To1(bob.p.Handle(ctx, bob.context(bRec, aRec.MyKey), res))
	ping, ok := om.(*trustping.Ping)
	assert.That(ok)
	assert.That(!ping.ResponseRequested)

	bRec = bob.get(bRec.ID)
	assert.Equal(bRec.State, cnx.Connected)
	assert.Equal(bRec.TheirDID, aRec.MyDID)

	aRec = try.To1(Confirm(ctx, alice.store, aRec))
	assert.Equal(aRec.State, cnx.Connected)

	// invitee's records aren't confirmed by pings
	same := try.To1(Confirm(ctx, bob.store, bRec))
	assert.Equal(same.Version, bRec.Version)
}

func TestHandleRequest_Errors(t *testing.T) {
	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")

	tests := []struct {
		name      string
		modify    func(req *stdconn.Request)
		wantState cnx.State
	}{
		{"doc missing", func(req *stdconn.Request) { req.Connection.DIDDoc = nil }, cnx.Error},
		{"endpoint missing", func(req *stdconn.Request) {
			req.Connection.DIDDoc.Service[0].ServiceEndpoint = ""
		}, cnx.Error},
		{"key isn't sender's", func(req *stdconn.Request) {
			req.Connection.DIDDoc.PublicKey[0].PublicKeyBase58 = alice.p.AgentKey
		}, cnx.Error},
		{"connection missing", func(req *stdconn.Request) { req.Connection = nil }, cnx.Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
			req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))
			tt.modify(req)

			om := try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), req))
			pr, ok := om.(*common.ProblemReport)
			assert.That(ok)
			assert.Equal(pr.Code(), common.ProblemRequestNotAccepted)
			assert.Equal(pr.Thread().ID, req.ThreadID())
			assert.Equal(alice.get(aRec.ID).State, tt.wantState)
		})
	}
}

func TestHandleRequest_OtherKey(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob, carol := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a"), newTestAgent("http://carol/a2a")
	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))

	req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))
	try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), req))

	// the same invitation again from carol
	req, cRec := try.To2(carol.p.AcceptInvitation(ctx, inv, "carol", ""))
	_, err := alice.p.Handle(ctx, alice.context(alice.get(aRec.ID), cRec.MyKey), req)
	assert.That(errors.Is(err, cnx.ErrInvalidState))

	aRec = alice.get(aRec.ID)
	assert.Equal(aRec.TheirKey, bRec.MyKey)
	assert.Equal(aRec.State, cnx.Negotiating)

	_, err = alice.p.Handle(ctx, &comm.Context{SenderKey: cRec.MyKey, Store: alice.store}, req)
	assert.That(errors.Is(err, ErrUnknownInvitation))
}

func TestHandleRequest_BrokenWhileNegotiating(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob, mallory := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a"), newTestAgent("http://mallory/a2a")
	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))
	try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), req))

	// broken request from someone else who knows the invitation
	mReq, mRec := try.To2(mallory.p.AcceptInvitation(ctx, inv, "mallory", ""))
	mReq.Connection = &stdconn.Connection{DID: "x"}
	om, err := alice.p.Handle(ctx, alice.context(alice.get(aRec.ID), mRec.MyKey), mReq)
	assert.That(errors.Is(err, cnx.ErrInvalidState))
	assert.INil(om)

	// broken duplicate from bob is dropped
	req.Connection = nil
	om, err = alice.p.Handle(ctx, alice.context(alice.get(aRec.ID), bRec.MyKey), req)
	assert.NoError(err)
	assert.INil(om)

	aRec = alice.get(aRec.ID)
	assert.Equal(aRec.State, cnx.Negotiating)
	assert.Equal(aRec.TheirKey, bRec.MyKey)
	assert.Equal(aRec.Endpoint, "http://bob/a2a")
}

func TestHandleResponse_Signature(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")
	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))
	om := try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), req))
	res := om.(*stdconn.Response)

	// signed by another key of alice
	other := try.To1(alice.wallet.CreateKey(ctx, "")).VerKey
	forged := *res
	forged.ConnectionSignature = try.To1(decorator.Sign(ctx, alice.wallet, res.Connection, other))
	_, err := bob.p.Handle(ctx, bob.context(bRec, aRec.MyKey), &forged)
	assert.That(errors.Is(err, ErrSignatureVerification))
	assert.That(errors.Is(err, decorator.ErrSignatureInvalid))

	// tampered signed data
	tampered := *res
	sig := *res.ConnectionSignature
	sig.Signature = sig.SignedData
	tampered.ConnectionSignature = &sig
	_, err = bob.p.Handle(ctx, bob.context(bRec, aRec.MyKey), &tampered)
	assert.That(errors.Is(err, ErrSignatureVerification))

	assert.Equal(bob.get(bRec.ID).State, cnx.Negotiating)

	// the real one still works
	try.To1(bob.p.Handle(ctx, bob.context(bob.get(bRec.ID), aRec.MyKey), res))
	assert.Equal(bob.get(bRec.ID).State, cnx.Connected)

	// and only once
	_, err = bob.p.Handle(ctx, bob.context(bob.get(bRec.ID), aRec.MyKey), res)
	assert.That(errors.Is(err, cnx.ErrInvalidState))
}

func TestHandleResponse_InvalidDoc(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")
	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	req, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))

	res := stdconn.NewResponse(req, &stdconn.Connection{
		DID:    aRec.MyDID,
		DIDDoc: diddoc.NewDoc(aRec.MyDID, aRec.MyKey, "", nil),
	})
	res.ConnectionSignature = try.To1(decorator.Sign(ctx, alice.wallet, res.Connection, aRec.MyKey))

	om := try.To1(bob.p.Handle(ctx, bob.context(bRec, aRec.MyKey), res))
	pr, ok := om.(*common.ProblemReport)
	assert.That(ok)
	assert.Equal(pr.Code(), common.ProblemResponseNotAccepted)
	assert.Equal(bob.get(bRec.ID).State, cnx.Error)
}

func TestAbort(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent("http://alice/a2a"), newTestAgent("http://bob/a2a")

	_, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	pr, rec := try.To2(alice.p.Abort(ctx, aRec.ID, "expired"))
	assert.That(pr == nil)
	assert.Equal(rec.State, cnx.Abandoned)

	_, _, err := alice.p.Abort(ctx, aRec.ID, "again")
	assert.That(errors.Is(err, cnx.ErrInvalidState))

	inv, aRec := try.To2(alice.p.CreateInvitation(ctx, "alice", ""))
	_, bRec := try.To2(bob.p.AcceptInvitation(ctx, inv, "bob", ""))
	pr, rec = try.To2(bob.p.Abort(ctx, bRec.ID, "changed my mind"))
	assert.INotNil(pr)
	assert.Equal(pr.Code(), common.ProblemAbandoned)
	assert.Equal(pr.ThreadID(), bRec.ThreadID)
	assert.Equal(rec.State, cnx.Abandoned)

	// the report moves the other end to abandoned as well
	try.To1(alice.p.Handle(ctx, alice.context(aRec, bRec.MyKey), pr))
	assert.Equal(alice.get(aRec.ID).State, cnx.Abandoned)
}
