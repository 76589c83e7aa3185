package ssi

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/sec"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/nacl/box"
)

const nonceLen = 24

var _ sec.Crypto = (*Wallet)(nil)

func (w *Wallet) Sign(_ context.Context, verKey string, data []byte) (_ []byte, err error) {
	defer err2.Handle(&err, "sign")

	k := try.To1(w.Key(verKey))
	return ed25519.Sign(k.priv, data), nil
}

// Verify verifies with the public key only, the key doesn't need to be in
// the wallet.
func (w *Wallet) Verify(_ context.Context, verKey string, data, signature []byte) (bool, error) {
	pub, err := DecodeVerKey(verKey)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(pub, data, signature), nil
}

func (w *Wallet) AnonEncrypt(_ context.Context, recipientKey string, plaintext []byte) (_ []byte, err error) {
	defer err2.Handle(&err, "anon encrypt")

	to := try.To1(recipientX25519(recipientKey))
	return try.To1(box.SealAnonymous(nil, plaintext, to, rand.Reader)), nil
}

func (w *Wallet) AnonDecrypt(_ context.Context, recipientKey string, ciphertext []byte) (_ []byte, err error) {
	defer err2.Handle(&err, "anon decrypt")

	k := try.To1(w.Key(recipientKey))
	msg, ok := box.OpenAnonymous(nil, ciphertext, k.x25519Public(), k.x25519Private())
	if !ok {
		return nil, sec.ErrDecryptionFailed
	}
	return msg, nil
}

// AuthEncrypt boxes the plaintext from the sender to the recipient and seals
// the sender's verkey, the nonce, and the box anonymously for the recipient.
// Only the recipient learns who the sender is.
func (w *Wallet) AuthEncrypt(
	_ context.Context,
	senderKey, recipientKey string,
	plaintext []byte,
) (
	_ []byte,
	err error,
) {
	defer err2.Handle(&err, "auth encrypt")

	from := try.To1(w.Key(senderKey))
	to := try.To1(recipientX25519(recipientKey))

	var nonce [nonceLen]byte
	try.To1(rand.Read(nonce[:]))

	payload := make([]byte, 0, ed25519.PublicKeySize+nonceLen+len(plaintext)+box.Overhead)
	payload = append(payload, from.pub...)
	payload = append(payload, nonce[:]...)
	payload = box.Seal(payload, plaintext, &nonce, to, from.x25519Private())

	return try.To1(box.SealAnonymous(nil, payload, to, rand.Reader)), nil
}

func (w *Wallet) AuthDecrypt(
	_ context.Context,
	recipientKey string,
	ciphertext []byte,
) (
	senderKey string,
	plaintext []byte,
	err error,
) {
	defer err2.Handle(&err, "auth decrypt")

	k := try.To1(w.Key(recipientKey))
	payload, ok := box.OpenAnonymous(nil, ciphertext, k.x25519Public(), k.x25519Private())
	if !ok {
		return "", nil, sec.ErrDecryptionFailed
	}
	if len(payload) < ed25519.PublicKeySize+nonceLen+box.Overhead {
		return "", nil, fmt.Errorf("%w: payload too short", sec.ErrDecryptionFailed)
	}
	senderPub := ed25519.PublicKey(payload[:ed25519.PublicKeySize])
	from, err := toX25519Public(senderPub)
	if err != nil {
		return "", nil, fmt.Errorf("%w: sender key: %v", sec.ErrDecryptionFailed, err)
	}
	var nonce [nonceLen]byte
	copy(nonce[:], payload[ed25519.PublicKeySize:])

	plaintext, ok = box.Open(nil, payload[ed25519.PublicKeySize+nonceLen:], &nonce, from, k.x25519Private())
	if !ok {
		return "", nil, sec.ErrDecryptionFailed
	}
	return base58.Encode(senderPub), plaintext, nil
}

func recipientX25519(verKey string) (*[32]byte, error) {
	pub, err := DecodeVerKey(verKey)
	if err != nil {
		return nil, err
	}
	return toX25519Public(pub)
}
