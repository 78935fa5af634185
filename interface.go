package asyncfsm

import (
	"context"

	"github.com/enetx/g"
)

// StateMachine is the behaviour exposed by FSM.
type StateMachine interface {
	Trigger(context.Context, Event, ...any) (any, error)
	TriggerAsync(context.Context, Event, ...any) *Future[any]
	Current() State
	History() g.Slice[State]
	States() g.Slice[State]
	Alphabet() g.Slice[Event]
	Permitted() g.Slice[Event]
	CanTrigger(Event) bool
	ToDOT() g.String
	MarshalJSON() ([]byte, error)
}

// Interface compliance check.
var _ StateMachine = (*FSM)(nil)
