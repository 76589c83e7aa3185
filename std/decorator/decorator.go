/*
Package decorator implements the Aries message decorators used by the
protocols of this module: the thread decorator (~thread) for message
correlation, and the signature decorator (field~sig) which signs a payload
independently of the transport encryption.
*/
package decorator

// Thread is the ~thread decorator. ID is the thread ID of the conversation
// and PID is the parent thread if the conversation is a sub-protocol.
type Thread struct {
	ID  string `json:"thid,omitempty"`
	PID string `json:"pthid,omitempty"`
}
