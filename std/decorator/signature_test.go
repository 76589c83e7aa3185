package decorator

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// keyring is a test signer which names ed25519 keys with plain strings.
type keyring map[string]ed25519.PrivateKey

func newKeyring(names ...string) keyring {
	k := make(keyring)
	for _, n := range names {
		_, priv := try.To2(ed25519.GenerateKey(nil))
		k[n] = priv
	}
	return k
}

func (k keyring) Sign(_ context.Context, verKey string, data []byte) ([]byte, error) {
	priv, ok := k[verKey]
	if !ok {
		return nil, errors.New("no key")
	}
	return ed25519.Sign(priv, data), nil
}

func (k keyring) Verify(_ context.Context, verKey string, data, signature []byte) (bool, error) {
	priv, ok := k[verKey]
	if !ok {
		return false, errors.New("no key")
	}
	return ed25519.Verify(priv.Public().(ed25519.PublicKey), data, signature), nil
}

type payload struct {
	DID    string   `json:"DID"`
	Keys   []string `json:"keys,omitempty"`
	Number int      `json:"number"`
}

var ctx = context.Background()

func TestSignUnpack(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	keys := newKeyring("K1", "K2")
	data := payload{DID: "did:sov:123", Keys: []string{"a", "b"}, Number: 7}

	sig := try.To1(Sign(ctx, keys, data, "K1"))
	assert.Equal(sig.SignVerKey, "K1")
	assert.NotEmpty(sig.Signature)

	raw := try.To1(utils.DecodeB64(sig.SignedData))
	assert.DeepEqual(raw[:PrefixLen], make([]byte, PrefixLen))

	got := try.To1(Unpack[payload](ctx, keys, sig, "K1"))
	assert.DeepEqual(got, data)

	got = try.To1(Unpack[payload](ctx, keys, sig, ""))
	assert.DeepEqual(got, data)
}

func TestUnpack_wrongKey(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	keys := newKeyring("K1", "K2")
	data := payload{DID: "did:sov:123"}
	sig := try.To1(Sign(ctx, keys, data, "K1"))

	got, err := Unpack[payload](ctx, keys, sig, "K2")
	assert.That(errors.Is(err, ErrSignatureInvalid))
	assert.DeepEqual(got, payload{})

	// signer field swapped to a key which didn't sign
	sig.SignVerKey = "K2"
	got, err = Unpack[payload](ctx, keys, sig, "K2")
	assert.That(errors.Is(err, ErrSignatureInvalid))
	assert.DeepEqual(got, payload{})
}

func TestUnpack_tampered(t *testing.T) {
	keys := newKeyring("K1")
	good := try.To1(Sign(ctx, keys, payload{DID: "did:sov:1"}, "K1"))
	other := try.To1(Sign(ctx, keys, payload{DID: "did:sov:2"}, "K1"))

	tests := []struct {
		name string
		sig  *Signature
	}{
		{"nil", nil},
		{"data swapped", &Signature{Type: good.Type, Signature: good.Signature, SignedData: other.SignedData, SignVerKey: "K1"}},
		{"no signer", &Signature{Type: good.Type, Signature: good.Signature, SignedData: good.SignedData}},
		{"short data", &Signature{Type: good.Type, Signature: good.Signature, SignedData: utils.EncodeB64([]byte{1, 2}), SignVerKey: "K1"}},
		{"bad base64", &Signature{Type: good.Type, Signature: "***", SignedData: good.SignedData, SignVerKey: "K1"}},
		{"bad type", &Signature{Type: "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/signature/1.0/rsa", Signature: good.Signature, SignedData: good.SignedData, SignVerKey: "K1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			got, err := Unpack[payload](ctx, keys, tt.sig, "")
			assert.That(errors.Is(err, ErrSignatureInvalid))
			assert.Equal(got.DID, "")
		})
	}
}

func TestSign_withTimestamp(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	keys := newKeyring("K1")
	before := uint64(time.Now().Unix())
	sig := try.To1(Sign(ctx, keys, payload{DID: "x"}, "K1", WithTimestamp()))

	raw := try.To1(utils.DecodeB64(sig.SignedData))
	stamp := binary.BigEndian.Uint64(raw[:PrefixLen])
	assert.That(stamp >= before)

	got := try.To1(Unpack[payload](ctx, keys, sig, "K1"))
	assert.Equal(got.DID, "x")
}
