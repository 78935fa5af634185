package asyncfsm_test

import (
	"context"
	"testing"

	. "github.com/enetx/asyncfsm"
	"github.com/enetx/g"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DerivesStatesAndAlphabet(t *testing.T) {
	cfg := NewBuilder().
		Initial("idle").
		Transition("idle", "load", "loading").
		Transition("loading", "ready", "ready").
		Transition("loading", "fail", "idle").
		Config()

	assert.Equal(t, g.SliceOf[State]("idle", "loading", "ready"), cfg.States)
	assert.Equal(t, g.SliceOf[Event]("load", "ready", "fail"), cfg.Alphabet)
	assert.Len(t, cfg.Table["loading"], 0)
	assert.Len(t, cfg.Table["load"], 1)
}

func TestBuilder_ExplicitUniverse(t *testing.T) {
	rec := &recorder{}

	machine, err := NewBuilder().
		States("idle", "loading", "ready", "archived").
		Alphabet("load", "ready", "archive").
		Entry(func() (State, error) { return "idle", nil }).
		TransitionWith("idle", "load", "loading", succeed("payload")).
		Transition("loading", "ready", "ready").
		OnStateChanged(rec.observe).
		Build()
	require.NoError(t, err)

	assert.Equal(t, g.SliceOf[State]("idle", "loading", "ready", "archived"), machine.States())
	assert.Equal(t, g.SliceOf[Event]("load", "ready", "archive"), machine.Alphabet())

	value, err := machine.Trigger(context.Background(), "load")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)

	_, err = machine.Trigger(context.Background(), "archive")
	var target *ErrUndefinedTransition
	require.ErrorAs(t, err, &target)

	assert.Equal(t, []State{"idle", "loading"}, rec.seen())
}

func TestBuilder_RejectsAmbiguousTable(t *testing.T) {
	machine, err := NewBuilder().
		Initial("idle").
		Transition("idle", "go", "a").
		Transition("idle", "go", "b").
		Build()

	require.Nil(t, machine)

	var target *ErrAmbiguousTransition
	require.ErrorAs(t, err, &target)
}

func TestBuilder_MissingEntry(t *testing.T) {
	_, err := NewBuilder().Transition("a", "go", "b").Build()
	require.ErrorIs(t, err, ErrMissingEntry)
}

func TestBuilder_ConfigIsIndependent(t *testing.T) {
	b := NewBuilder().Initial("a").Transition("a", "go", "b")
	cfg := b.Config()

	b.Transition("b", "go", "a")

	assert.Len(t, cfg.Table["go"], 1)
}
