package asyncfsm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEntry is wrapped by ErrConfiguration when no entry state initializer is given.
	ErrMissingEntry = errors.New("asyncfsm: entry state initializer is nil")
	// ErrNilFuture is wrapped by ErrTransitionAction when an action returns no future.
	ErrNilFuture = errors.New("asyncfsm: action returned a nil future")
)

// ErrConfiguration is returned by New when the states, alphabet or transition
// table are malformed. Err holds the specific problem.
type ErrConfiguration struct {
	Err error
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("asyncfsm: invalid configuration: %v", e.Err)
}

func (e *ErrConfiguration) Unwrap() error { return e.Err }

// ErrUnknownState is returned when a state outside the declared set is referenced,
// either by a transition rule or by the entry state initializer.
type ErrUnknownState struct {
	State State
	// Event is the event whose rule referenced the state. Empty for the entry state.
	Event Event
}

func (e *ErrUnknownState) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("asyncfsm: unknown state %q referenced by a transition on event %q", e.State, e.Event)
	}

	return fmt.Sprintf("asyncfsm: unknown state %q", e.State)
}

// ErrUnknownEvent is returned when the transition table has a key outside the alphabet.
type ErrUnknownEvent struct {
	Event Event
}

func (e *ErrUnknownEvent) Error() string {
	return fmt.Sprintf("asyncfsm: transition table references event %q outside the alphabet", e.Event)
}

// ErrMissingAction is returned when a transition rule has no action.
type ErrMissingAction struct {
	Event Event
	From  State
	To    State
}

func (e *ErrMissingAction) Error() string {
	return fmt.Sprintf("asyncfsm: transition %q -> %q on event %q has no action", e.From, e.To, e.Event)
}

// ErrAmbiguousTransition is returned when more than one rule for the same
// event starts from the same state. Such a table has no single answer for
// which rule to fire, so it is rejected before the machine is built.
type ErrAmbiguousTransition struct {
	From  State
	Event Event
}

func (e *ErrAmbiguousTransition) Error() string {
	return fmt.Sprintf("asyncfsm: ambiguous transition from state %q on event %q; multiple rules declared",
		e.From, e.Event)
}

// ErrInitialization is returned by New when the entry state initializer fails,
// panics or returns an undeclared state. No machine is built.
type ErrInitialization struct {
	// State is whatever the initializer produced before failing; usually empty.
	State State
	Err   error
}

func (e *ErrInitialization) Error() string {
	return fmt.Sprintf("asyncfsm: initialization on state %q failed: %v", e.State, e.Err)
}

func (e *ErrInitialization) Unwrap() error { return e.Err }

// ErrInvalidEvent is returned when an event outside the alphabet is triggered.
type ErrInvalidEvent struct {
	Event Event
}

func (e *ErrInvalidEvent) Error() string {
	return fmt.Sprintf("asyncfsm: event %q does not belong to the alphabet", e.Event)
}

// ErrUndefinedTransition is returned when an alphabet event has no transitions at all.
type ErrUndefinedTransition struct {
	Event Event
}

func (e *ErrUndefinedTransition) Error() string {
	return fmt.Sprintf("asyncfsm: event %q has no transitions", e.Event)
}

// ErrNoApplicableTransition is returned when none of the event's rules starts
// from the current state.
type ErrNoApplicableTransition struct {
	Event Event
	From  State
}

func (e *ErrNoApplicableTransition) Error() string {
	return fmt.Sprintf("asyncfsm: no matching transition for event %q from state %q", e.Event, e.From)
}

// ErrTransitionAction is returned when the action gating a transition fails.
// The machine stays in From. Err is the action's own error.
type ErrTransitionAction struct {
	Event Event
	From  State
	To    State
	Err   error
}

func (e *ErrTransitionAction) Error() string {
	return fmt.Sprintf("asyncfsm: unable to perform action before changing from state %q to %q on event %q: %v",
		e.From, e.To, e.Event, e.Err)
}

func (e *ErrTransitionAction) Unwrap() error { return e.Err }

// ErrCallback describes a failure inside the state-changed observer. Observer
// failures never undo a committed transition; they are only logged.
type ErrCallback struct {
	// HookType is the kind of callback, e.g. "OnStateChanged".
	HookType string
	// State is the state passed to the callback.
	State State
	// Err is the error recovered from the callback.
	Err error
}

func (e *ErrCallback) Error() string {
	return fmt.Sprintf("asyncfsm: error in %s callback for state %q: %v", e.HookType, e.State, e.Err)
}

func (e *ErrCallback) Unwrap() error { return e.Err }

// ErrPanic carries a value recovered from a panicking action, initializer or observer.
type ErrPanic struct {
	Value any
	Stack []byte
}

func (e *ErrPanic) Error() string {
	return fmt.Sprintf("asyncfsm: panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *ErrPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}
