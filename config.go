package asyncfsm

import (
	"github.com/enetx/g"
	"github.com/enetx/g/cmp"
	"go.uber.org/zap"
)

// Config describes a machine: its universe of states and events, the
// transition table, the entry state initializer and the observer.
type Config struct {
	States   g.Slice[State]
	Alphabet g.Slice[Event]
	Table    Table
	Entry    EntryFunc
	// OnStateChanged may be nil. It runs on the machine's worker, so it must
	// not block on the machine: use TriggerAsync, not Trigger, to request a
	// follow-up transition from it.
	OnStateChanged StateChangedFunc
}

// Option tunes a machine built by New.
type Option func(*FSM)

// WithLogger sets the logger used for transition diagnostics. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(f *FSM) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHistoryLimit keeps only the last n committed states in History.
// Zero or a negative n keeps everything.
func WithHistoryLimit(n int) Option {
	return func(f *FSM) { f.historyLimit = n }
}

// validate checks the table against the declared states and alphabet.
// Events outside the alphabet are reported first, in sorted order; the rest
// are checked in alphabet order.
func (c Config) validate(states g.Set[State], alphabet g.Set[Event]) error {
	if c.Entry == nil {
		return &ErrConfiguration{Err: ErrMissingEntry}
	}

	var unknown g.Slice[Event]
	for event := range c.Table {
		if !alphabet.Contains(event) {
			unknown.Push(event)
		}
	}

	if len(unknown) > 0 {
		unknown.SortBy(cmp.Cmp)
		return &ErrConfiguration{Err: &ErrUnknownEvent{Event: unknown[0]}}
	}

	for _, event := range c.Alphabet {
		if err := validateRules(event, c.Table[event], states); err != nil {
			return &ErrConfiguration{Err: err}
		}
	}

	return nil
}

func validateRules(event Event, rules g.Slice[Rule], states g.Set[State]) error {
	seen := g.NewSet[State]()

	for _, rule := range rules {
		for _, s := range []State{rule.From, rule.To} {
			if !states.Contains(s) {
				return &ErrUnknownState{State: s, Event: event}
			}
		}

		if rule.Action == nil {
			return &ErrMissingAction{Event: event, From: rule.From, To: rule.To}
		}

		if seen.Contains(rule.From) {
			return &ErrAmbiguousTransition{From: rule.From, Event: event}
		}

		seen.Insert(rule.From)
	}

	return nil
}
