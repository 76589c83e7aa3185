package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/findy-network/findy-a2a/agent/comm"
	cnx "github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/prot"
	"github.com/findy-network/findy-a2a/agent/ssi"
	"github.com/findy-network/findy-a2a/agent/storage/mem"
	"github.com/findy-network/findy-a2a/agent/trans"
	"github.com/findy-network/findy-a2a/protocol/connection"
	"github.com/findy-network/findy-a2a/protocol/trustping"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type testAgent struct {
	store  *pairwise.Store
	proto  *connection.Protocol
	proc   *prot.Processor
	server *Server
	http   *httptest.Server
}

func newTestAgent(t *testing.T) *testAgent {
	a := &testAgent{}
	a.http = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.server.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(a.http.Close)

	provider := mem.New()
	w := ssi.NewWallet(try.To1(provider.OpenStore("wallet")))
	a.store = pairwise.New(try.To1(provider.OpenStore("connection")))
	agentKey := try.To1(w.CreateKey(ctx, "")).VerKey

	a.proto = connection.New(w, a.store, a.http.URL+"/a2a/", agentKey)
	reg := try.To1(comm.NewRegistry(a.proto, trustping.Handler()))
	a.proc = prot.New(w, a.store, reg)
	a.server = New(a.proc, agentKey, &trans.HTTP{Client: a.http.Client(), Timeout: 5 * time.Second})
	return a
}

func TestServer_Connect(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent(t), newTestAgent(t)

	inv, aRec := try.To2(alice.proto.CreateInvitation(ctx, "alice", ""))
	req, bRec := try.To2(bob.proto.AcceptInvitation(ctx, inv, "bob", ""))
	data := try.To1(bob.proc.Pack(ctx, &prot.Outbound{Message: req, Connection: bRec}))

	try.To(bob.server.Sender.Send(ctx, bRec.Endpoint, data))

	require.Eventually(t, func() bool {
		return try.To1(alice.store.Get(ctx, aRec.ID)).State == cnx.Connected
	}, 5*time.Second, 10*time.Millisecond)
	alice.server.Wait()
	bob.server.Wait()

	assert.Equal(try.To1(bob.store.Get(ctx, bRec.ID)).State, cnx.Connected)
}

func TestServer_Errors(t *testing.T) {
	a := newTestAgent(t)
	url := a.http.URL + "/a2a/"

	tests := []struct {
		name   string
		method string
		url    string
		body   []byte
		want   int
	}{
		{"get", http.MethodGet, url, nil, http.StatusMethodNotAllowed},
		{"garbage", http.MethodPost, url, []byte("garbage"), http.StatusBadRequest},
		{"wrong path", http.MethodPost, a.http.URL + "/other/", []byte("x"), http.StatusNotFound},
		{"version", http.MethodGet, a.http.URL + "/version", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			r := try.To1(http.NewRequest(tt.method, tt.url, bytes.NewReader(tt.body)))
			res := try.To1(a.http.Client().Do(r))
			_ = res.Body.Close()
			assert.Equal(res.StatusCode, tt.want)
		})
	}
}

func TestAbandonStale(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a := newTestAgent(t)
	bob := newTestAgent(t)

	_, old := try.To2(a.proto.CreateInvitation(ctx, "alice", "old"))
	_, fresh := try.To2(a.proto.CreateInvitation(ctx, "alice", "fresh"))
	inv, _ := try.To2(bob.proto.CreateInvitation(ctx, "bob", ""))
	_, accepted := try.To2(a.proto.AcceptInvitation(ctx, inv, "alice", ""))

	now := fresh.Created.Add(time.Hour)
	old = try.To1(a.store.Modify(ctx, old.ID, func(r *cnx.Record) error {
		r.Created = now.Add(-25 * time.Hour)
		return nil
	}))

	n := try.To1(AbandonStale(ctx, a.store, 24*time.Hour, now))
	assert.Equal(n, 1)
	assert.Equal(try.To1(a.store.Get(ctx, old.ID)).State, cnx.Abandoned)
	assert.Equal(try.To1(a.store.Get(ctx, fresh.ID)).State, cnx.Invited)
	assert.Equal(try.To1(a.store.Get(ctx, accepted.ID)).State, cnx.Negotiating)

	n = try.To1(AbandonStale(ctx, a.store, 24*time.Hour, now))
	assert.Equal(n, 0)
}

func TestAbandonInvited_AcceptedMeanwhile(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := newTestAgent(t), newTestAgent(t)
	inv, aRec := try.To2(alice.proto.CreateInvitation(ctx, "alice", ""))

	stale := try.To1(alice.store.Find(ctx, pairwise.TagState+":"+string(cnx.Invited)))
	assert.SLen(stale, 1)

	// request arrives after the janitor has listed the invitations
	req, bRec := try.To2(bob.proto.AcceptInvitation(ctx, inv, "bob", ""))
	try.To1(alice.proto.Handle(ctx, &comm.Context{
		Connection:   aRec,
		SenderKey:    bRec.MyKey,
		RecipientKey: aRec.MyKey,
		Crypto:       alice.proc.Crypto,
		Store:        alice.store,
	}, req))

	ok := try.To1(abandonInvited(ctx, alice.store, stale[0].ID))
	assert.That(!ok)
	assert.Equal(try.To1(alice.store.Get(ctx, aRec.ID)).State, cnx.Negotiating)
}

func TestStartJanitor(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a := newTestAgent(t)
	cron := try.To1(StartJanitor(a.store, time.Hour, time.Hour))
	defer cron.Stop()
	assert.That(cron.IsRunning())
}
