/*
Package did is the minimal sov DID document which the connections protocol
carries in its request and response messages. Only the first public key and the
first service are used: they are the pairwise verkey and the endpoint of the
other agent.
*/
package did

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr-tron/base58"
)

const (
	MethodPrefix = "did:sov:"

	Context        = "https://w3id.org/did/v1"
	KeyType        = "Ed25519VerificationKey2018"
	AuthType       = "Ed25519SignatureAuthentication2018"
	ServiceType    = "IndyAgent"
	ed25519KeySize = 32
)

var ErrInvalidDoc = errors.New("invalid DID document")

// Doc DID Document definition
type Doc struct {
	Context        string               `json:"@context,omitempty"`
	ID             string               `json:"id,omitempty"`
	PublicKey      []PublicKey          `json:"publicKey,omitempty"`
	Service        []Service            `json:"service,omitempty"`
	Authentication []VerificationMethod `json:"authentication,omitempty"`
	Created        *time.Time           `json:"created,omitempty"`
	Updated        *time.Time           `json:"updated,omitempty"`
}

// PublicKey DID doc public key
type PublicKey struct {
	ID              string `json:"id,omitempty"`
	Type            string `json:"type,omitempty"`
	Controller      string `json:"controller,omitempty"`
	PublicKeyBase58 string `json:"publicKeyBase58,omitempty"`
}

// Service DID doc service
type Service struct {
	ID              string         `json:"id,omitempty"`
	Type            string         `json:"type,omitempty"`
	Priority        uint           `json:"priority,omitempty"`
	RecipientKeys   []string       `json:"recipientKeys,omitempty"`
	RoutingKeys     []string       `json:"routingKeys,omitempty"`
	ServiceEndpoint string         `json:"serviceEndpoint"`
	Properties      map[string]any `json:"properties,omitempty"`
}

// VerificationMethod authentication verification method
type VerificationMethod struct {
	Type      string `json:"type,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

// URI returns the did:sov form of the plain DID.
func URI(did string) string {
	if strings.HasPrefix(did, MethodPrefix) {
		return did
	}
	return MethodPrefix + did
}

// NewDoc builds the DID document of our pairwise DID.
func NewDoc(did, verKey, endpoint string, routingKeys []string) *Doc {
	didURI := URI(did)
	didURIRef := didURI + "#1"
	return &Doc{
		Context: Context,
		ID:      didURI,
		PublicKey: []PublicKey{{
			ID:              didURIRef,
			Type:            KeyType,
			Controller:      didURI,
			PublicKeyBase58: verKey,
		}},
		Service: []Service{{
			ID:              didURI + ";indy",
			Type:            ServiceType,
			RecipientKeys:   []string{verKey},
			RoutingKeys:     routingKeys,
			ServiceEndpoint: endpoint,
		}},
		Authentication: []VerificationMethod{{
			Type:      AuthType,
			PublicKey: didURIRef,
		}},
	}
}

// Validate checks that the document has what a connection needs: a DID, an
// ed25519 verkey, and a service endpoint.
func (d *Doc) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: missing", ErrInvalidDoc)
	}
	if d.ID == "" {
		return fmt.Errorf("%w: id missing", ErrInvalidDoc)
	}
	if len(d.PublicKey) == 0 {
		return fmt.Errorf("%w: public key missing", ErrInvalidDoc)
	}
	key, err := base58.Decode(d.PublicKey[0].PublicKeyBase58)
	if err != nil || len(key) != ed25519KeySize {
		return fmt.Errorf("%w: public key isn't ed25519 verkey", ErrInvalidDoc)
	}
	if len(d.Service) == 0 || d.Service[0].ServiceEndpoint == "" {
		return fmt.Errorf("%w: service endpoint missing", ErrInvalidDoc)
	}
	return nil
}

// VerKey returns the verkey of the DID. Call Validate first.
func (d *Doc) VerKey() string {
	if len(d.PublicKey) == 0 {
		return ""
	}
	return d.PublicKey[0].PublicKeyBase58
}

func (d *Doc) Endpoint() string {
	if len(d.Service) == 0 {
		return ""
	}
	return d.Service[0].ServiceEndpoint
}

func (d *Doc) RoutingKeys() []string {
	if len(d.Service) == 0 {
		return nil
	}
	return d.Service[0].RoutingKeys
}
