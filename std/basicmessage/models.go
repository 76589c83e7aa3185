package basicmessage

import (
	"errors"
	"strings"
	"time"

	"github.com/findy-network/findy-a2a/agent/didcomm"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// AriesTime is the sent_time format of basic messages. Other agents send both
// ISO8601 with a space and RFC3339, and both are accepted.
type AriesTime struct {
	time.Time
}

// use generate errors with ACAPy when sending basic messages
// const ISO8601 = "2006-01-02 15:04:05.999999999Z"
const ISO8601 = "2006-01-02 15:04:05.999999Z"

type Basicmessage struct {
	didcomm.Header
	Content  string    `json:"content"`
	SentTime AriesTime `json:"sent_time"`
}

func validateTimestamp(timeStr string) (t time.Time, err error) {
	acceptedFormats := []string{ISO8601, time.RFC3339}
	for _, fmt := range acceptedFormats {
		if t, err = time.Parse(fmt, timeStr); err == nil {
			break
		}
	}
	return
}

func (at *AriesTime) UnmarshalJSON(b []byte) (err error) {
	defer err2.Handle(&err, "sent_time")

	t := try.To1(validateTimestamp(strings.Trim(string(b), "\"")))

	*at = AriesTime{Time: t}
	return
}

func (at AriesTime) MarshalJSON() ([]byte, error) {
	t := at.Time.UTC()
	if y := t.Year(); y < 0 || y >= 10000 {
		// RFC 3339 is clear that years are 4 digits exactly.
		// See golang.org/issue/4556#c15 for more discussion.
		return nil, errors.New("Time.MarshalJSON: year outside of range [0,9999]")
	}

	b := make([]byte, 0, len(ISO8601)+2)
	b = append(b, '"')
	b = t.AppendFormat(b, ISO8601)
	b = append(b, '"')
	return b, nil
}

func (at AriesTime) String() string {
	return at.Time.String()
}
