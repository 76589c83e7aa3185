/*
Package pltype holds the message type identifiers of the agent to agent
protocols. A message type is a URI-like string:

	<namespace>/<protocol>/<version>/<message-name>

where the namespace is either the legacy Aries prefix or the didcomm.org one.
Both prefixes identify the same protocol family, see Normalize.
*/
package pltype

import (
	"strings"
)

// Namespace constants
const (
	Terminate = ""
	Nothing   = ""

	Aries       = "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec" // This will be for all Aries protocols
	DIDOrgAries = "https://didcomm.org"                // new namespace of the same protocols
)

// Routing protocol constants. Forward is the outer envelope message.
const (
	ProtocolRouting      = "routing"
	HandlerForward       = "forward"
	Routing              = Aries + "/" + ProtocolRouting
	RoutingForward       = Routing + "/1.0/" + HandlerForward
	DIDOrgRoutingForward = DIDOrgAries + "/" + ProtocolRouting + "/1.0/" + HandlerForward
)

// Notification protocol constants
const (
	ProtocolNotification      = "notification"
	HandlerProblemReport      = "problem-report"
	HandlerAck                = "ack"
	Notification              = Aries + "/" + ProtocolNotification
	NotificationProblemReport = Notification + "/1.0/" + HandlerProblemReport
	NotificationAck           = Notification + "/1.0/" + HandlerAck
)

// Connection protocol constants
const (
	Invitation                   = "invitation"
	HandlerRequest               = "request"
	HandlerResponse              = "response"
	HandlerConnectionProblem     = "problem_report"
	AriesProtocolConnection      = "connections"
	AriesConnection              = Aries + "/" + AriesProtocolConnection
	AriesConnectionInvitation    = AriesConnection + "/1.0/" + Invitation
	AriesConnectionRequest       = AriesConnection + "/1.0/" + HandlerRequest
	AriesConnectionResponse      = AriesConnection + "/1.0/" + HandlerResponse
	AriesConnectionProblemReport = AriesConnection + "/1.0/" + HandlerConnectionProblem
)

// Signature decorator types
const (
	ProtocolSignature     = "signature"
	SignatureEd25519      = "ed25519Sha512_single"
	AriesSignatureEd25519 = Aries + "/" + ProtocolSignature + "/1.0/" + SignatureEd25519
)

// Basic Message protocol constants
const (
	ProtocolBasicMessage = "basicmessage"
	HandlerMessage       = "message"
	BasicMessage         = Aries + "/" + ProtocolBasicMessage
	BasicMessageSend     = BasicMessage + "/1.0/" + HandlerMessage
)

// Trust Ping protocol constants
const (
	ProtocolTrustPing   = "trust_ping"
	HandlerPing         = "ping"
	HandlerPingResponse = "ping_response"
	TrustPing           = Aries + "/" + ProtocolTrustPing
	TrustPingPing       = TrustPing + "/1.0/" + HandlerPing
	TrustPingResponse   = TrustPing + "/1.0/" + HandlerPingResponse
)

// Ephemeral challenge protocol constants
const (
	ProtocolEphemeralChallenge = "ephemeral_challenge"
	HandlerChallenge           = "challenge"
	HandlerChallengeResponse   = "challenge_response"
	EphemeralChallenge         = Aries + "/" + ProtocolEphemeralChallenge
	ChallengeRequest           = EphemeralChallenge + "/1.0/" + HandlerChallenge
	ChallengeResponse          = EphemeralChallenge + "/1.0/" + HandlerChallengeResponse
)

// Normalize returns the canonical form of the message type: lower case and
// with the didcomm.org namespace mapped to the Aries one. Type lookups must use
// this form.
func Normalize(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	didOrg := strings.ToLower(DIDOrgAries)
	if strings.HasPrefix(t, didOrg) {
		t = strings.ToLower(Aries) + strings.TrimPrefix(t, didOrg)
	}
	return t
}

// Protocol returns the protocol family name of the message type, e.g.
// "connections". Empty string is returned if the type isn't well formed.
func Protocol(t string) string {
	return field(t, 1)
}

// ProtocolMsg returns the message name part of the type, e.g. "request".
func ProtocolMsg(t string) string {
	return field(t, 3)
}

// Version returns the version part of the type, e.g. "1.0".
func Version(t string) string {
	return field(t, 2)
}

func field(t string, where int) string {
	t = Normalize(t)
	ns := strings.ToLower(Aries)
	if !strings.HasPrefix(t, ns) {
		return ""
	}
	parts := strings.Split(t, "/")
	if len(parts) != 4 {
		return ""
	}
	return parts[where]
}
