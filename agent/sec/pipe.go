package sec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/findy-network/findy-a2a/std/common"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Pipe is a secure way to transport data between the two ends of a
// connection. In is our pairwise key, Out is theirs and Route has their
// routing keys. All agent to agent communication uses it.
type Pipe struct {
	Crypto Crypto
	In     string
	Out    string
	Route  []string
}

// Inbound is an opened inbound envelope.
type Inbound struct {
	Message      []byte
	SenderKey    string
	RecipientKey string
}

// RoutingKey returns the key of the outer envelope. Without routing keys the
// outer envelope is for the recipient key itself.
func (p Pipe) RoutingKey() string {
	if len(p.Route) > 0 {
		return p.Route[0]
	}
	return p.Out
}

// Pack encrypts the message with authenticated encryption from In to Out,
// wraps it to a forward, and encrypts that anonymously to the routing key.
func (p Pipe) Pack(ctx context.Context, src []byte) (dst []byte, err error) {
	defer err2.Handle(&err, "sec pipe pack")

	inner := try.To1(p.Crypto.AuthEncrypt(ctx, p.In, p.Out, src))
	fwd := common.NewForward(p.Out, inner)
	outer := try.To1(json.Marshal(fwd))

	if glog.V(5) {
		glog.Infof("packing %d bytes for %s via %s", len(src), p.Out, p.RoutingKey())
	}
	return p.Crypto.AnonEncrypt(ctx, p.RoutingKey(), outer)
}

// Sign signs the data with our key.
func (p Pipe) Sign(ctx context.Context, data []byte) ([]byte, error) {
	return p.Crypto.Sign(ctx, p.In, data)
}

// Verify verifies the signature with their key.
func (p Pipe) Verify(ctx context.Context, data, signature []byte) (bool, error) {
	return p.Crypto.Verify(ctx, p.Out, data, signature)
}

// Unpack opens both the envelopes of the raw inbound bytes. The outer one must
// be for the agentKey. Failed decryption is ErrDecryptionFailed and a broken
// forward didcomm.ErrMalformedEnvelope.
func Unpack(ctx context.Context, c Crypto, agentKey string, raw []byte) (in *Inbound, err error) {
	defer err2.Handle(&err, "sec unpack")

	outer, err := c.AnonDecrypt(ctx, agentKey, raw)
	if err != nil {
		return nil, decryptionFailed("outer envelope", err)
	}
	fwd := try.To1(common.DecodeForward(outer))
	ct := try.To1(fwd.Inner())

	senderKey, msg, err := c.AuthDecrypt(ctx, fwd.To, ct)
	if err != nil {
		return nil, decryptionFailed("inner envelope", err)
	}
	if glog.V(5) {
		glog.Infof("unpacked %d bytes from %s to %s", len(msg), senderKey, fwd.To)
	}
	return &Inbound{
		Message:      msg,
		SenderKey:    senderKey,
		RecipientKey: fwd.To,
	}, nil
}

func decryptionFailed(what string, err error) error {
	if errors.Is(err, ErrDecryptionFailed) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %v", what, ErrDecryptionFailed, err)
}
