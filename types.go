package asyncfsm

import (
	"context"
	"sync"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

type (
	// State represents a finite state in the FSM.
	State g.String
	// Event represents a member of the FSM's alphabet; firing it requests a transition.
	Event g.String

	// Action performs the work that gates a transition. The transition is
	// committed only if the returned future resolves successfully.
	Action func(ctx context.Context, args ...any) *Future[any]
	// EntryFunc computes the initial state. It is called exactly once, from New.
	EntryFunc func() (State, error)
	// StateChangedFunc observes the initial state and every committed transition.
	// After construction it is called on the machine's worker goroutine, before
	// the next queued request starts. It must not wait on the machine: calling
	// Trigger from it deadlocks, TriggerAsync queues the follow-up safely.
	StateChangedFunc func(state State)

	// Rule is a single entry of the transition table.
	Rule struct {
		From   State
		To     State
		Action Action
	}

	// Table maps every event to the rules it may fire. At most one rule per
	// event may start from a given state.
	Table = g.Map[Event, g.Slice[Rule]]

	// FSM is a state machine whose transitions are gated by asynchronous actions.
	// Transition requests are queued and processed one at a time.
	FSM struct {
		states    g.Slice[State]
		alphabet  g.Slice[Event]
		stateSet  g.Set[State]
		eventSet  g.Set[Event]
		table     Table
		onChanged StateChangedFunc

		logger       *zap.Logger
		historyLimit int

		initial State

		mu      sync.RWMutex
		current State
		history g.Slice[State]

		qmu    sync.Mutex
		queue  []*request
		firing bool
	}

	// request is a transition attempt waiting in the queue.
	request struct {
		ctx     context.Context
		event   Event
		args    []any
		promise *Promise[any]
	}
)
