package asyncfsm_test

import (
	"context"
	"testing"

	. "github.com/enetx/asyncfsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSM_ToDOT(t *testing.T) {
	machine, err := NewBuilder().
		Initial("idle").
		Transition("idle", "load", "loading").
		Transition("loading", "ready", "ready").
		Transition("loading", "retry", "loading").
		Transition("idle", "skip", "ready").
		Transition("loading", "reload", "loading").
		Build()
	require.NoError(t, err)

	_, err = machine.Trigger(context.Background(), "load")
	require.NoError(t, err)

	dot := string(machine.ToDOT())

	assert.Contains(t, dot, "digraph FSM {")
	assert.Contains(t, dot, `__start -> "idle" [label=" initial"];`)
	assert.Contains(t, dot, `"loading" [label="loading", fillcolor="#90ee90", shape=doublecircle];`)
	assert.Contains(t, dot, `"ready" [label="ready", fillcolor="#d3d3d3", shape=doublecircle];`)
	assert.Contains(t, dot, `"idle" [label="idle"];`)
	assert.Contains(t, dot, `"idle" -> "loading" [label=" load "];`)
	assert.Contains(t, dot, `"loading" -> "loading" [label=" retry\nreload "];`)
	assert.Contains(t, dot, `"idle" -> "ready" [label=" skip "];`)
}
