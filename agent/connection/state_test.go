package connection

import (
	"errors"
	"testing"

	"github.com/lainio/err2/assert"
)

var allStates = []State{Invited, Negotiating, Connected, Abandoned, Error}
var allEvents = []Event{EventRequest, EventResponse, EventAbort, EventFail}

func TestState_Next(t *testing.T) {
	tests := []struct {
		from  State
		event Event
		want  State
		ok    bool
	}{
		{Invited, EventRequest, Negotiating, true},
		{Negotiating, EventRequest, Negotiating, true},
		{Negotiating, EventResponse, Connected, true},
		{Invited, EventAbort, Abandoned, true},
		{Negotiating, EventAbort, Abandoned, true},
		{Invited, EventFail, Error, true},
		{Negotiating, EventFail, Error, true},
		{Invited, EventResponse, Invited, false},
		{Connected, EventRequest, Connected, false},
		{Connected, EventAbort, Connected, false},
		{Abandoned, EventRequest, Abandoned, false},
		{Error, EventResponse, Error, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"-"+string(tt.event), func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			got, err := tt.from.Next(tt.event)
			assert.Equal(got, tt.want)
			assert.Equal(err == nil, tt.ok)
			if !tt.ok {
				assert.That(errors.Is(err, ErrInvalidState))
			}
		})
	}
}

func TestState_terminal(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	for _, s := range allStates {
		assert.That(s.IsValid())
		if !s.IsTerminal() {
			continue
		}
		for _, e := range allEvents {
			_, err := s.Next(e)
			assert.That(errors.Is(err, ErrInvalidState), "%s left by %s", s, e)
		}
	}
	assert.That(!State("unknown").IsValid())
}

// No event sequence leads from connected or abandoned back to invited or
// negotiating.
func TestState_noWayBack(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	reachable := func(from State) map[State]bool {
		seen := map[State]bool{from: true}
		queue := []State{from}
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			for _, e := range allEvents {
				if next, err := s.Next(e); err == nil && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
		return seen
	}
	for _, s := range []State{Connected, Abandoned} {
		r := reachable(s)
		assert.That(!r[Invited] && !r[Negotiating], "%s reaches back", s)
	}
}

func TestRecord_Transit(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	r := NewRecord("key", "did")
	assert.Equal(r.State, Invited)
	assert.NotEmpty(r.ID)

	assert.NoError(r.Transit(EventRequest))
	assert.NoError(r.Transit(EventResponse))
	assert.That(r.IsConnected())

	before := *r
	err := r.Transit(EventRequest)
	assert.That(errors.Is(err, ErrInvalidState))
	assert.DeepEqual(*r, before)
}

func TestRecord_Clone(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	r := NewRecord("key", "did")
	r.RoutingKeys = []string{"a"}
	c := r.Clone()
	c.RoutingKeys[0] = "b"
	c.State = Connected
	assert.Equal(r.RoutingKeys[0], "a")
	assert.Equal(r.State, Invited)
}
