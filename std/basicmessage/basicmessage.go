/*
Package basicmessage is the Aries basic message protocol's message model.
*/
package basicmessage

import (
	"time"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/findy-network/findy-a2a/agent/pltype"
)

func init() {
	didcomm.Types.Add(pltype.BasicMessageSend, func() didcomm.MessageHdr { return &Basicmessage{} })
}

// New returns a basic message stamped with the current time.
func New(content string) *Basicmessage {
	return &Basicmessage{
		Header:   didcomm.NewHeader(pltype.BasicMessageSend),
		Content:  content,
		SentTime: AriesTime{Time: time.Now().UTC().Truncate(time.Microsecond)},
	}
}
