package sec

import (
	"context"
	"errors"

	"github.com/hyperledger/aries-framework-go/pkg/didcomm/transport"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// MediaTypeProfile is the only media type the Packager understands.
const MediaTypeProfile = "didcomm/aip1"

// Packager adapts Pipe to the aries framework transport.Packager interface.
// The FromKey of an outbound envelope is our key and ToKeys have the
// recipient key first and the routing keys after it. Inbound envelopes are
// opened with the AgentKey.
type Packager struct {
	Crypto   Crypto
	AgentKey string
}

var _ transport.Packager = (*Packager)(nil)

func (p *Packager) PackMessage(env *transport.Envelope) (_ []byte, err error) {
	defer err2.Handle(&err, "pack message")

	if env == nil || len(env.FromKey) == 0 || len(env.ToKeys) == 0 {
		return nil, errors.New("envelope must have from and to keys")
	}
	pipe := Pipe{
		Crypto: p.Crypto,
		In:     string(env.FromKey),
		Out:    env.ToKeys[0],
		Route:  env.ToKeys[1:],
	}
	return try.To1(pipe.Pack(context.Background(), env.Message)), nil
}

func (p *Packager) UnpackMessage(encMessage []byte) (_ *transport.Envelope, err error) {
	defer err2.Handle(&err, "unpack message")

	in := try.To1(Unpack(context.Background(), p.Crypto, p.AgentKey, encMessage))
	return &transport.Envelope{
		MediaTypeProfile: MediaTypeProfile,
		Message:          in.Message,
		FromKey:          []byte(in.SenderKey),
		ToKeys:           []string{in.RecipientKey},
	}, nil
}
