package asyncfsm

import "github.com/enetx/g"

// Builder assembles a Config with chained calls.
//
//	machine, err := asyncfsm.NewBuilder().
//		Initial("idle").
//		TransitionWith("idle", "load", "loading", fetch).
//		Transition("loading", "ready", "ready").
//		Build()
//
// States and the alphabet are derived from the declared transitions unless
// they are set explicitly.
type Builder struct {
	states    g.Slice[State]
	alphabet  g.Slice[Event]
	explicitS bool
	explicitA bool

	table     Table
	events    g.Slice[Event]
	initial   g.Option[State]
	entry     EntryFunc
	onChanged StateChangedFunc
	opts      []Option
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{table: make(Table), initial: g.None[State]()}
}

// States declares the machine's states.
func (b *Builder) States(states ...State) *Builder {
	b.states.Push(states...)
	b.explicitS = true

	return b
}

// Alphabet declares the machine's events.
func (b *Builder) Alphabet(events ...Event) *Builder {
	b.alphabet.Push(events...)
	b.explicitA = true

	return b
}

// Transition adds a rule that commits as soon as it is fired.
func (b *Builder) Transition(from State, event Event, to State) *Builder {
	return b.TransitionWith(from, event, to, Noop())
}

// TransitionWith adds a rule gated by action.
func (b *Builder) TransitionWith(from State, event Event, to State, action Action) *Builder {
	if _, ok := b.table[event]; !ok {
		b.events.Push(event)
	}

	b.table[event] = append(b.table[event], Rule{From: from, To: to, Action: action})

	return b
}

// Initial uses a fixed entry state.
func (b *Builder) Initial(state State) *Builder {
	b.initial = g.Some(state)
	b.entry = func() (State, error) { return state, nil }

	return b
}

// Entry sets the entry state initializer, replacing any Initial state.
func (b *Builder) Entry(entry EntryFunc) *Builder {
	b.initial = g.None[State]()
	b.entry = entry

	return b
}

// OnStateChanged sets the observer.
func (b *Builder) OnStateChanged(fn StateChangedFunc) *Builder {
	b.onChanged = fn
	return b
}

// Options appends options passed to New.
func (b *Builder) Options(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Config returns the configuration assembled so far.
func (b *Builder) Config() Config {
	cfg := Config{
		States:         b.states.Clone(),
		Alphabet:       b.alphabet.Clone(),
		Table:          make(Table, len(b.table)),
		Entry:          b.entry,
		OnStateChanged: b.onChanged,
	}

	for event, rules := range b.table {
		cfg.Table[event] = rules.Clone()
	}

	if !b.explicitA {
		cfg.Alphabet = b.events.Clone()
	}

	if !b.explicitS {
		cfg.States = b.derivedStates()
	}

	return cfg
}

// Build validates the configuration and creates the machine.
func (b *Builder) Build() (*FSM, error) {
	return New(b.Config(), b.opts...)
}

// derivedStates lists the initial state and every state named by a rule, in declaration order.
func (b *Builder) derivedStates() g.Slice[State] {
	seen := g.NewSet[State]()

	var states g.Slice[State]

	add := func(s State) {
		if !seen.Contains(s) {
			seen.Insert(s)
			states.Push(s)
		}
	}

	if b.initial.IsSome() {
		add(b.initial.Some())
	}

	for _, event := range b.events {
		for _, rule := range b.table[event] {
			add(rule.From)
			add(rule.To)
		}
	}

	return states
}
