package decorator

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ErrSignatureInvalid is returned for every verification failure. The signed
// payload is never given to the caller with this error.
var ErrSignatureInvalid = errors.New("signature invalid")

// PrefixLen is the length of the block in front of the signed JSON payload.
// The block is reserved for a replay window counter and it isn't interpreted
// by the verifier.
const PrefixLen = 8

// Signer signs bytes with the private key of the verkey.
type Signer interface {
	Sign(ctx context.Context, verKey string, data []byte) ([]byte, error)
}

// Verifier verifies a signature with a verkey.
type Verifier interface {
	Verify(ctx context.Context, verKey string, data, signature []byte) (bool, error)
}

// Signature is the signature decorator, e.g. connection~sig. The wire names
// are the ones of Aries RFC 0234.
type Signature struct {
	Type       string `json:"@type,omitempty"`
	Signature  string `json:"signature,omitempty"`
	SignedData string `json:"sig_data,omitempty"`
	SignVerKey string `json:"signer,omitempty"`
}

type signOptions struct {
	stamp func() uint64
}

// SignOption modifies how the signed data is built.
type SignOption func(o *signOptions)

// WithTimestamp writes the current unix time in big endian to the prefix
// block. Some agents stamp the block, and this is for interop with them. The
// default is a zero filled block.
func WithTimestamp() SignOption {
	return func(o *signOptions) {
		o.stamp = func() uint64 { return uint64(time.Now().Unix()) }
	}
}

// Sign serializes data to JSON, prepends the prefix block, and signs the
// result with the verKey. Both the signed data and the signature are
// recorded in the decorator with the signer's verkey.
func Sign(
	ctx context.Context,
	s Signer,
	data any,
	verKey string,
	opts ...SignOption,
) (
	sig *Signature,
	err error,
) {
	defer err2.Handle(&err, "sign decorator")

	var o signOptions
	for _, opt := range opts {
		opt(&o)
	}

	payload := try.To1(json.Marshal(data))

	signedData := make([]byte, PrefixLen, PrefixLen+len(payload))
	if o.stamp != nil {
		binary.BigEndian.PutUint64(signedData, o.stamp())
	}
	signedData = append(signedData, payload...)

	signature := try.To1(s.Sign(ctx, verKey, signedData))

	return &Signature{
		Type:       pltype.AriesSignatureEd25519,
		SignedData: utils.EncodeB64(signedData),
		SignVerKey: verKey,
		Signature:  utils.EncodeB64(signature),
	}, nil
}

// Unpack verifies the decorator and unmarshals the signed payload to T. If
// expectedKey is given the signer of the decorator must be the same key. All
// failures return ErrSignatureInvalid and a zero T.
func Unpack[T any](
	ctx context.Context,
	v Verifier,
	sig *Signature,
	expectedKey string,
) (
	out T,
	err error,
) {
	var zero T
	if sig == nil {
		return zero, invalid("missing decorator")
	}
	if expectedKey != "" && sig.SignVerKey != expectedKey {
		glog.Warningf("signer %s isn't the expected %s", sig.SignVerKey, expectedKey)
		return zero, invalid("unexpected signer")
	}
	if sig.SignVerKey == "" {
		return zero, invalid("missing signer")
	}
	if sig.Type != "" && pltype.ProtocolMsg(sig.Type) != strings.ToLower(pltype.SignatureEd25519) {
		return zero, invalid("unsupported signature type %s", sig.Type)
	}

	data, err := utils.DecodeB64(sig.SignedData)
	if err != nil || len(data) < PrefixLen {
		return zero, invalid("missing or invalid signature data")
	}
	signature, err := utils.DecodeB64(sig.Signature)
	if err != nil || len(signature) == 0 {
		return zero, invalid("missing or invalid signature")
	}

	ok, err := v.Verify(ctx, sig.SignVerKey, data, signature)
	if err != nil {
		return zero, invalid("verify: %v", err)
	}
	if !ok {
		return zero, invalid("signature mismatch")
	}

	if glog.V(3) {
		glog.Infof("verified signature, prefix %x", data[:PrefixLen])
	}

	if err := json.Unmarshal(data[PrefixLen:], &out); err != nil {
		return zero, invalid("payload: %v", err)
	}
	return out, nil
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrSignatureInvalid, fmt.Sprintf(format, a...))
}
