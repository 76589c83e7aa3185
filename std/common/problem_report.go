package common

import (
	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
)

// Problem codes used by this agent.
const (
	ProblemRequestNotAccepted  = "request_not_accepted"
	ProblemRequestProcessing   = "request_processing_error"
	ProblemResponseNotAccepted = "response_not_accepted"
	ProblemAbandoned           = "abandoned"
)

// ProblemReport is the problem report of both the notification protocol and
// the connections protocol. The latter uses problem-code and explain, the
// former the description.
type ProblemReport struct {
	didcomm.Header
	Description    *Code  `json:"description,omitempty"`
	ProblemCode    string `json:"problem-code,omitempty"`
	Explain        string `json:"explain,omitempty"`
	ExplainLongTxt string `json:"explain-ltxt,omitempty"` // ACApy
}

// Code represents a problem report code
type Code struct {
	Code string `json:"code"`
}

func init() {
	factory := func() didcomm.MessageHdr { return &ProblemReport{} }
	didcomm.Types.Add(pltype.NotificationProblemReport, factory)
	didcomm.Types.Add(pltype.AriesConnectionProblemReport, factory)
}

// NewProblemReport builds a problem report of type t in the thread of im.
func NewProblemReport(t string, im didcomm.MessageHdr, code, explain string) *ProblemReport {
	pr := &ProblemReport{
		Header:  didcomm.NewReplyHeader(t, im),
		Explain: explain,
	}
	if pltype.Protocol(t) == pltype.AriesProtocolConnection {
		pr.ProblemCode = code
	} else {
		pr.Description = &Code{Code: code}
	}
	return pr
}

// Code returns the problem code regardless of the protocol.
func (p *ProblemReport) Code() string {
	if p.ProblemCode != "" {
		return p.ProblemCode
	}
	if p.Description != nil {
		return p.Description.Code
	}
	return ""
}
