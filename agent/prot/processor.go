/*
Package prot is the inbound message processor of the agent to agent
messages. The processor opens both the envelopes, resolves the connection
and the message type, decodes the message to its Go type, and dispatches it
to the protocol handler. It holds no state between the calls and never
writes connection records itself; that's up to the handlers.
*/
package prot

import (
	"context"
	"errors"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/comm"
	"github.com/findy-network/findy-a2a/agent/connection"
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pairwise"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/agent/sec"
	"github.com/findy-network/findy-a2a/agent/storage/api"
	"github.com/golang/glog"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/transport"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ErrUnknownConnection is returned for the messages which don't belong to
// any connection, or which aren't sent by the other end of it.
var ErrUnknownConnection = errors.New("unknown connection")

// Outbound is a reply produced by a handler and the connection it's for.
type Outbound struct {
	Message    didcomm.MessageHdr
	Connection *connection.Record
}

// Processor processes inbound raw messages. It's safe for concurrent use.
type Processor struct {
	Crypto      sec.Crypto
	Connections *pairwise.Store
	Registry    *comm.Registry
}

// New returns a processor. It freezes the message type table: the types known
// by the processor are the ones registered before this.
func New(c sec.Crypto, conns *pairwise.Store, r *comm.Registry) *Processor {
	didcomm.Types.Freeze()
	return &Processor{Crypto: c, Connections: conns, Registry: r}
}

// Process handles one inbound raw message which is for agentKey. The result
// is nil when there is nothing to send back, including the message types
// which have no handler.
func (p *Processor) Process(ctx context.Context, raw []byte, agentKey string) (out *Outbound, err error) {
	defer err2.Handle(&err, "process")

	in := try.To1(p.unpack(raw, agentKey))

	t := try.To1(didcomm.Resolve(in.Message))
	glog.V(1).Infof("inbound %s from %s", t, in.SenderKey)

	conn := try.To1(p.resolveConnection(ctx, t, in))

	// without a handler the message isn't decoded, the type may be one which
	// the codec doesn't know either
	if _, ok := p.Registry.Lookup(t); !ok {
		glog.Warningf("no handler for %s, message from %s dropped", t, in.SenderKey)
		return nil, nil
	}
	im := try.To1(didcomm.Decode(in.Message))

	hc := &comm.Context{
		Connection:   conn,
		SenderKey:    in.SenderKey,
		RecipientKey: in.RecipientKey,
		Crypto:       p.Crypto,
		Store:        p.Connections,
	}
	om, err := p.Registry.Dispatch(ctx, t, im, hc)
	if errors.Is(err, comm.ErrNoHandler) {
		return nil, nil
	}
	try.To(err)
	if om == nil {
		return nil, nil
	}

	// handlers may have updated the record, the reply goes with the latest
	conn, err = p.Connections.GetByKey(ctx, in.RecipientKey)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return nil, err
	}
	return &Outbound{Message: om, Connection: conn}, nil
}

// resolveConnection finds the connection by the recipient key of the inner
// envelope. Only the connections protocol messages may come without one, and
// all the others must be sent by the known other end.
func (p *Processor) resolveConnection(ctx context.Context, t string, in *sec.Inbound) (*connection.Record, error) {
	conn, err := p.Connections.GetByKey(ctx, in.RecipientKey)
	isConnProt := pltype.Protocol(t) == pltype.AriesProtocolConnection
	switch {
	case errors.Is(err, api.ErrNotFound) && isConnProt:
		glog.V(3).Infoln("no connection yet for key", in.RecipientKey)
		return nil, nil
	case errors.Is(err, api.ErrNotFound):
		return nil, fmt.Errorf("%w: recipient key %s", ErrUnknownConnection, in.RecipientKey)
	case err != nil:
		return nil, err
	}
	if !isConnProt && (conn.TheirKey == "" || conn.TheirKey != in.SenderKey) {
		return nil, fmt.Errorf("%w: sender %s of connection %s",
			ErrUnknownConnection, in.SenderKey, conn.ID)
	}
	return conn, nil
}

// ProcessBytes is the transport entry point. It processes the raw message
// and packs the reply for the other end. The returned endpoint is where the
// packed reply is sent. Nil bytes mean no reply.
func (p *Processor) ProcessBytes(ctx context.Context, raw []byte, agentKey string) (data []byte, endpoint string, err error) {
	defer err2.Handle(&err, "process bytes")

	out := try.To1(p.Process(ctx, raw, agentKey))
	if out == nil {
		return nil, "", nil
	}
	conn := out.Connection
	if conn == nil || conn.TheirKey == "" || conn.Endpoint == "" {
		glog.Warningf("reply %s has no route to the other end, dropped", out.Message.Type())
		return nil, "", nil
	}
	data = try.To1(p.Pack(ctx, out))
	return data, conn.Endpoint, nil
}

// Pack encodes the outbound message and packs it with the pipe of its
// connection.
func (p *Processor) Pack(ctx context.Context, out *Outbound) (data []byte, err error) {
	defer err2.Handle(&err, "pack %s", out.Message.Type())

	payload := try.To1(didcomm.Encode(out.Message))
	conn := out.Connection
	return p.packager("").PackMessage(&transport.Envelope{
		MediaTypeProfile: sec.MediaTypeProfile,
		Message:          payload,
		FromKey:          []byte(conn.MyKey),
		ToKeys:           append([]string{conn.TheirKey}, conn.RoutingKeys...),
	})
}

// packager returns the envelope packager which opens the outer envelopes
// with agentKey.
func (p *Processor) packager(agentKey string) transport.Packager {
	return &sec.Packager{Crypto: p.Crypto, AgentKey: agentKey}
}

func (p *Processor) unpack(raw []byte, agentKey string) (*sec.Inbound, error) {
	env, err := p.packager(agentKey).UnpackMessage(raw)
	if err != nil {
		return nil, err
	}
	return &sec.Inbound{
		Message:      env.Message,
		SenderKey:    string(env.FromKey),
		RecipientKey: env.ToKeys[0],
	}, nil
}
