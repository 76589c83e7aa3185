/*
Package sec is the envelope crypto of the agent to agent messages. Every message
travels in two envelopes: the inner one is authenticated encryption from the
sender's pairwise key to the recipient's pairwise key, and the outer one is a
forward message anonymously encrypted to the recipient's routing key. Pipe
packs and unpacks both layers with a Crypto implementation.
*/
package sec

import (
	"context"
	"errors"
)

// ErrDecryptionFailed is returned when an envelope cannot be opened with the
// key given. Nothing is known about the plaintext when this is returned.
var ErrDecryptionFailed = errors.New("decryption failed")

// Crypto is the key holder of the agent. All the private key operations go
// through it, and the keys are referred by base58 verkeys.
type Crypto interface {
	Sign(ctx context.Context, verKey string, data []byte) ([]byte, error)
	Verify(ctx context.Context, verKey string, data, signature []byte) (bool, error)

	AnonEncrypt(ctx context.Context, recipientKey string, plaintext []byte) ([]byte, error)
	AnonDecrypt(ctx context.Context, recipientKey string, ciphertext []byte) ([]byte, error)

	AuthEncrypt(ctx context.Context, senderKey, recipientKey string, plaintext []byte) ([]byte, error)
	AuthDecrypt(ctx context.Context, recipientKey string, ciphertext []byte) (senderKey string, plaintext []byte, err error)
}
