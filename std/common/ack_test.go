package common

import (
	"testing"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

var ackJSON = `
  {
    "@type": "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/notification/1.0/ack",
    "@id": "3eb5fd37-48ac-4767-8cce-07ab5bbe9097",
    "~thread": { "thid": "3dc323d4-17ec-4a4a-9d3a-c903e94d253b" },
    "status": "OK"
  }`

func TestAck_ReadJSON(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := try.To1(didcomm.Decode([]byte(ackJSON)))
	assert.Equal(m.ID(), "3eb5fd37-48ac-4767-8cce-07ab5bbe9097")
	assert.Equal(m.Thread().ID, "3dc323d4-17ec-4a4a-9d3a-c903e94d253b")

	ack, ok := m.(*Ack)
	assert.That(ok)
	assert.Equal(ack.Status, AckOK)
}

func TestNewAck(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	im := &Ack{Header: didcomm.NewHeader(pltype.NotificationAck)}
	ack := NewAck(im, AckOK)
	assert.Equal(ack.Thread().ID, im.ID())
	assert.NotEqual(ack.ID(), im.ID())

	got := try.To1(didcomm.Decode(didcomm.MustEncode(ack)))
	assert.DeepEqual(got, ack)
}
