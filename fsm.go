// Package asyncfsm provides a table-driven finite state machine whose
// transitions are gated by asynchronous actions. A transition is committed,
// and the observer notified, only after its action has succeeded; a failed
// action leaves the machine exactly where it was. Transition requests on a
// machine are queued and processed one at a time. It is built with types and
// utilities from the github.com/enetx/g library.
package asyncfsm

import (
	"context"
	"runtime/debug"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

// New validates cfg, computes the entry state and returns a ready machine.
// The observer is called once with the entry state before New returns.
func New(cfg Config, opts ...Option) (*FSM, error) {
	stateSet := g.NewSet[State]()
	for _, s := range cfg.States {
		stateSet.Insert(s)
	}

	eventSet := g.NewSet[Event]()
	for _, e := range cfg.Alphabet {
		eventSet.Insert(e)
	}

	if err := cfg.validate(stateSet, eventSet); err != nil {
		return nil, err
	}

	table := make(Table, len(cfg.Table))
	for event, rules := range cfg.Table {
		table[event] = rules.Clone()
	}

	f := &FSM{
		states:    cfg.States.Clone(),
		alphabet:  cfg.Alphabet.Clone(),
		stateSet:  stateSet,
		eventSet:  eventSet,
		table:     table,
		onChanged: cfg.OnStateChanged,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	initial, err := callEntry(cfg.Entry)
	if err != nil {
		return nil, &ErrInitialization{State: initial, Err: err}
	}

	if !stateSet.Contains(initial) {
		return nil, &ErrInitialization{State: initial, Err: &ErrUnknownState{State: initial}}
	}

	f.initial = initial
	f.current = initial
	f.history = g.Slice[State]{initial}

	f.logger.Debug("state machine initialized", zap.String("state", string(initial)))
	f.notify(initial)

	return f, nil
}

func callEntry(entry EntryFunc) (state State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ErrPanic{Value: r, Stack: debug.Stack()}
		}
	}()

	return entry()
}

// Current returns the last committed state.
func (f *FSM) Current() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.current
}

// History returns a copy of the committed states, oldest first.
func (f *FSM) History() g.Slice[State] {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.history.Clone()
}

// States returns the declared states.
func (f *FSM) States() g.Slice[State] { return f.states.Clone() }

// Alphabet returns the declared events.
func (f *FSM) Alphabet() g.Slice[Event] { return f.alphabet.Clone() }

// Permitted returns, in alphabet order, the events that have a rule from the current state.
func (f *FSM) Permitted() g.Slice[Event] {
	current := f.Current()

	var permitted g.Slice[Event]
	for _, event := range f.alphabet {
		if f.match(event, current).IsSome() {
			permitted.Push(event)
		}
	}

	return permitted
}

// CanTrigger reports whether event has a rule from the current state. A queued
// request may still change the state before event is processed.
func (f *FSM) CanTrigger(event Event) bool {
	return f.match(event, f.Current()).IsSome()
}

// Trigger requests the transition for event and waits for it to settle.
// It returns the value produced by the transition's action.
// Returning early because ctx is done does not withdraw a dispatched transition.
func (f *FSM) Trigger(ctx context.Context, event Event, args ...any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	return f.TriggerAsync(ctx, event, args...).AwaitContext(ctx)
}

// TriggerAsync requests the transition for event and returns a future of the
// action's value. Events outside the alphabet or without transitions are
// rejected before the call returns. Otherwise the request is queued behind
// earlier ones, and its rule is chosen against the state they leave behind.
//
// args are handed to the action as is. Neither an action nor the observer may
// wait for another transition on the same machine, since that transition is
// queued behind the one they belong to; they can start one with TriggerAsync.
func (f *FSM) TriggerAsync(ctx context.Context, event Event, args ...any) *Future[any] {
	if ctx == nil {
		ctx = context.Background()
	}

	if !f.eventSet.Contains(event) {
		return Rejected[any](&ErrInvalidEvent{Event: event})
	}

	if len(f.table[event]) == 0 {
		return Rejected[any](&ErrUndefinedTransition{Event: event})
	}

	fut, promise := NewFuture[any]()
	f.enqueue(&request{ctx: ctx, event: event, args: args, promise: promise})

	return fut
}

// enqueue appends req and starts a worker if none is running.
func (f *FSM) enqueue(req *request) {
	f.qmu.Lock()
	f.queue = append(f.queue, req)

	if f.firing {
		f.qmu.Unlock()
		return
	}

	f.firing = true
	f.qmu.Unlock()

	go f.drain()
}

// drain processes queued requests in order and exits once the queue is empty.
func (f *FSM) drain() {
	for {
		f.qmu.Lock()
		if len(f.queue) == 0 {
			f.firing = false
			f.qmu.Unlock()
			return
		}

		req := f.queue[0]
		f.queue[0] = nil
		f.queue = f.queue[1:]
		f.qmu.Unlock()

		req.promise.Complete(f.fire(req))
	}
}

// fire runs a single transition attempt. Only the drain goroutine calls it.
func (f *FSM) fire(req *request) (any, error) {
	if err := req.ctx.Err(); err != nil {
		return nil, err
	}

	from := f.Current()

	match := f.match(req.event, from)
	if match.IsNone() {
		return nil, &ErrNoApplicableTransition{Event: req.event, From: from}
	}

	rule := match.Some()
	fields := []zap.Field{
		zap.String("event", string(req.event)),
		zap.String("from", string(rule.From)),
		zap.String("to", string(rule.To)),
	}

	f.logger.Debug("dispatching transition action", fields...)

	value, err := runAction(req.ctx, rule.Action, req.args)
	if err != nil {
		f.logger.Warn("transition action failed", append(fields, zap.Error(err))...)
		return nil, &ErrTransitionAction{Event: req.event, From: rule.From, To: rule.To, Err: err}
	}

	f.commit(rule.To)
	f.logger.Debug("transition committed", fields...)
	f.notify(rule.To)

	return value, nil
}

// match returns the rule for event that starts from state.
func (f *FSM) match(event Event, state State) g.Option[Rule] {
	for _, rule := range f.table[event] {
		if rule.From == state {
			return g.Some(rule)
		}
	}

	return g.None[Rule]()
}

// runAction invokes action and waits for its future. Actions run to completion.
func runAction(ctx context.Context, action Action, args []any) (value any, err error) {
	var fut *Future[any]

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &ErrPanic{Value: r, Stack: debug.Stack()}
			}
		}()

		fut = action(ctx, args...)
	}()

	if err != nil {
		return nil, err
	}

	if fut == nil {
		return nil, ErrNilFuture
	}

	return fut.Await()
}

func (f *FSM) commit(to State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = to
	f.history.Push(to)

	if f.historyLimit > 0 && len(f.history) > f.historyLimit {
		f.history = f.history[len(f.history)-f.historyLimit:].Clone()
	}
}

// notify calls the observer, logging instead of propagating a panic.
func (f *FSM) notify(state State) {
	if f.onChanged == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := &ErrCallback{
				HookType: "OnStateChanged",
				State:    state,
				Err:      &ErrPanic{Value: r, Stack: debug.Stack()},
			}
			f.logger.Error("state changed callback panicked", zap.String("state", string(state)), zap.Error(err))
		}
	}()

	f.onChanged(state)
}
