package ssi

import (
	"crypto/ed25519"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const (
	// SeedLen is the length of the ed25519 seed. String seeds must be
	// exactly this long.
	SeedLen = ed25519.SeedSize

	didLen = 16
)

var ErrInvalidKey = errors.New("invalid verkey")

// Key is an ed25519 key pair of the wallet. VerKey is the base58 coded public
// key which names the key in all the APIs.
type Key struct {
	VerKey string
	DID    string

	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func newKey(seed []byte) *Key {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Key{
		VerKey: base58.Encode(pub),
		DID:    base58.Encode(pub[:didLen]),
		pub:    pub,
		priv:   priv,
	}
}

// DecodeVerKey returns the ed25519 public key of the base58 verkey.
func DecodeVerKey(verKey string) (ed25519.PublicKey, error) {
	pub, err := base58.Decode(verKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, verKey)
	}
	return pub, nil
}

// toX25519Public converts the ed25519 public key to the curve25519 form for
// the box encryption.
func toX25519Public(pub ed25519.PublicKey) (*[32]byte, error) {
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	var out [32]byte
	copy(out[:], p.BytesMontgomery())
	return &out, nil
}

// x25519Private returns the curve25519 private key of the ed25519 key. It's
// the clamped first half of the SHA-512 of the seed, the same scalar ed25519
// uses.
func (k *Key) x25519Private() *[32]byte {
	h := sha512.Sum512(k.priv.Seed())
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	var out [32]byte
	copy(out[:], h[:32])
	return &out
}

func (k *Key) x25519Public() *[32]byte {
	pub, err := toX25519Public(k.pub)
	if err != nil {
		// own keys are always valid points
		panic(err)
	}
	return pub
}
