package common

import (
	"testing"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var problemJSON = `
{
  "@type": "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/notification/1.0/problem-report",
  "@id": "8e59230b-47e4-4abb-a5cc-28d1b09f0e96",
  "~thread": {
    "thid": "8225993b-73f9-404c-804b-139bd03893dc"
  },
  "description": { "code": "request_processing_error" },
  "explain-ltxt": "Error deserializing message: CredentialAck schema validation failed"
}`

func TestProblemReport_ReadJSON(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := try.To1(didcomm.Decode([]byte(problemJSON)))
	assert.Equal(m.ID(), "8e59230b-47e4-4abb-a5cc-28d1b09f0e96")
	assert.Equal(m.Thread().ID, "8225993b-73f9-404c-804b-139bd03893dc")

	pr, ok := m.(*ProblemReport)
	assert.That(ok)
	assert.NotEmpty(pr.ExplainLongTxt)
	assert.Equal(pr.Code(), ProblemRequestProcessing)
}

func TestNewProblemReport(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	im := &Ack{Header: didcomm.NewHeader(pltype.NotificationAck)}

	pr := NewProblemReport(pltype.AriesConnectionProblemReport, im,
		ProblemRequestNotAccepted, "bad DID doc")
	assert.Equal(pr.ProblemCode, ProblemRequestNotAccepted)
	assert.That(pr.Description == nil)
	assert.Equal(pr.Thread().ID, im.ID())

	got := try.To1(didcomm.Decode(didcomm.MustEncode(pr)))
	assert.DeepEqual(got, pr)

	pr = NewProblemReport(pltype.NotificationProblemReport, im, ProblemAbandoned, "")
	assert.Equal(pr.Code(), ProblemAbandoned)
	assert.Equal(pr.ProblemCode, "")
}
