/*
Package challenge is the message model of the ephemeral challenge protocol. A
challenge asks the other end to prove something without a connection state,
and the response carries the answer in the same thread.

The contents of a challenge and a response depend on the challenge type. The
contents are a closed set of Go types selected by the type field, and an
unknown type fails the unmarshal with ErrUnsupportedChallenge.
*/
package challenge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
)

var ErrUnsupportedChallenge = errors.New("unsupported challenge type")

// Type is the challenge type which selects the shape of the contents.
type Type string

const (
	TypeProof Type = "Proof"
)

// Status values of the challenge response.
const (
	StatusOK       = "OK"
	StatusRejected = "REJECTED"
)

// Contents is the challenge type specific part of a challenge. The set of
// implementations is closed to this package.
type Contents interface {
	ChallengeType() Type
	isContents()
}

// Answer is the challenge type specific part of a response.
type Answer interface {
	ChallengeType() Type
	isAnswer()
}

// ProofRequest asks the holder to present the named attributes.
type ProofRequest struct {
	Name                string               `json:"name"`
	Version             string               `json:"version"`
	Nonce               string               `json:"nonce"`
	RequestedAttributes map[string]Attribute `json:"requested_attributes,omitempty"`
}

type Attribute struct {
	Name         string           `json:"name"`
	Restrictions []map[string]any `json:"restrictions,omitempty"`
}

// ProofContents is the contents of a Proof challenge.
type ProofContents struct {
	ProofRequest ProofRequest `json:"proof_request"`
}

func (ProofContents) ChallengeType() Type { return TypeProof }
func (ProofContents) isContents()         {}

// ProofAnswer is the answer to a Proof challenge. The proof itself is opaque
// to this agent, it's verified by the application's Responder.
type ProofAnswer struct {
	Proof json.RawMessage `json:"proof"`
}

func (ProofAnswer) ChallengeType() Type { return TypeProof }
func (ProofAnswer) isAnswer()           {}

// Body is the challenge field of the Challenge message.
type Body struct {
	Type     Type     `json:"type"`
	Contents Contents `json:"contents"`
}

// ResponseBody is the response field of the Response message.
type ResponseBody struct {
	Type     Type   `json:"type"`
	Contents Answer `json:"contents"`
}

type Challenge struct {
	didcomm.Header
	Challenge Body `json:"challenge"`
}

type Response struct {
	didcomm.Header
	Status   string        `json:"status"`
	Response *ResponseBody `json:"response,omitempty"`
}

func init() {
	didcomm.Types.Add(pltype.ChallengeRequest, func() didcomm.MessageHdr { return &Challenge{} })
	didcomm.Types.Add(pltype.ChallengeResponse, func() didcomm.MessageHdr { return &Response{} })
}

// New returns a challenge with the contents.
func New(contents Contents) *Challenge {
	return &Challenge{
		Header: didcomm.NewHeader(pltype.ChallengeRequest),
		Challenge: Body{
			Type:     contents.ChallengeType(),
			Contents: contents,
		},
	}
}

// NewResponse returns the response to the challenge. A nil answer is a
// rejection.
func NewResponse(ch *Challenge, answer Answer) *Response {
	r := &Response{
		Header: didcomm.NewReplyHeader(pltype.ChallengeResponse, ch),
		Status: StatusRejected,
	}
	if answer != nil {
		r.Status = StatusOK
		r.Response = &ResponseBody{Type: answer.ChallengeType(), Contents: answer}
	}
	return r
}

type rawBody struct {
	Type     Type            `json:"type"`
	Contents json.RawMessage `json:"contents"`
}

func (b *Body) UnmarshalJSON(data []byte) error {
	var raw rawBody
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case TypeProof:
		var c ProofContents
		if err := unmarshalContents(raw.Contents, &c); err != nil {
			return err
		}
		b.Contents = c
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChallenge, raw.Type)
	}
	b.Type = raw.Type
	return nil
}

func (b *ResponseBody) UnmarshalJSON(data []byte) error {
	var raw rawBody
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case TypeProof:
		var a ProofAnswer
		if err := unmarshalContents(raw.Contents, &a); err != nil {
			return err
		}
		b.Contents = a
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChallenge, raw.Type)
	}
	b.Type = raw.Type
	return nil
}

func unmarshalContents(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("challenge contents missing")
	}
	return json.Unmarshal(data, v)
}
