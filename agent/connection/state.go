/*
Package connection is the connection state machine of the agent and the
connection record it drives. The record is owned by the local agent and only
the connection protocol handlers change its state, always through Transit.

@startuml
title Connection

[*] -> invited
invited -> negotiating: Request
negotiating -> negotiating: Request\n(same key)
negotiating -> connected: Response
invited -> abandoned: Abort
negotiating -> abandoned: Abort
invited -> error: Fail
negotiating -> error: Fail
connected --> [*]
abandoned --> [*]
error --> [*]
@enduml
*/
package connection

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("invalid state transition")

// State of the connection.
type State string

const (
	Invited     State = "invited"
	Negotiating State = "negotiating"
	Connected   State = "connected"
	Abandoned   State = "abandoned"
	Error       State = "error"
)

// Event drives the state machine.
type Event string

const (
	EventRequest  Event = "request"
	EventResponse Event = "response"
	EventAbort    Event = "abort"
	EventFail     Event = "fail"
)

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{Invited, EventRequest}:      Negotiating,
	{Negotiating, EventRequest}:  Negotiating,
	{Negotiating, EventResponse}: Connected,
	{Invited, EventAbort}:        Abandoned,
	{Negotiating, EventAbort}:    Abandoned,
	{Invited, EventFail}:         Error,
	{Negotiating, EventFail}:     Error,
}

// Next returns the state the event leads to. Missing edges are
// ErrInvalidState.
func (s State) Next(e Event) (State, error) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, fmt.Errorf("%w: %s --%s-->", ErrInvalidState, s, e)
	}
	return next, nil
}

// IsTerminal tells that no event moves the connection anymore.
func (s State) IsTerminal() bool {
	switch s {
	case Connected, Abandoned, Error:
		return true
	}
	return false
}

func (s State) IsValid() bool {
	switch s {
	case Invited, Negotiating, Connected, Abandoned, Error:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}
