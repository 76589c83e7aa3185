package common

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/agent/utils"
)

// Forward is the outer envelope of every agent to agent message. To is the
// recipient key of the inner envelope and Message is the base64 encoded
// ciphertext of it.
// https://github.com/hyperledger/aries-rfcs/blob/main/concepts/0094-cross-domain-messaging/README.md#corerouting10forward
type Forward struct {
	didcomm.Header
	To      string `json:"to,omitempty"`
	Message string `json:"message,omitempty"`
}

func init() {
	didcomm.Types.Add(pltype.RoutingForward, func() didcomm.MessageHdr { return &Forward{} })
}

// NewForward wraps the inner ciphertext to the forward envelope.
func NewForward(to string, inner []byte) *Forward {
	return &Forward{
		Header:  didcomm.NewHeader(pltype.RoutingForward),
		To:      to,
		Message: utils.EncodeB64(inner),
	}
}

// Inner returns the decoded ciphertext of the inner envelope.
func (f *Forward) Inner() ([]byte, error) {
	data, err := utils.DecodeB64(f.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: message: %v", didcomm.ErrMalformedEnvelope, err)
	}
	return data, nil
}

// DecodeForward decodes the plaintext of the outer envelope. Everything which
// isn't a forward with a recipient and a message is ErrMalformedEnvelope.
func DecodeForward(data []byte) (*Forward, error) {
	var fwd Forward
	if err := json.Unmarshal(data, &fwd); err != nil {
		return nil, fmt.Errorf("%w: %v", didcomm.ErrMalformedEnvelope, err)
	}
	if pltype.Normalize(fwd.Type()) != pltype.Normalize(pltype.RoutingForward) {
		return nil, fmt.Errorf("%w: not a forward: %q", didcomm.ErrMalformedEnvelope, fwd.Type())
	}
	if fwd.To == "" || fwd.Message == "" {
		return nil, fmt.Errorf("%w: to or message missing", didcomm.ErrMalformedEnvelope)
	}
	return &fwd, nil
}
