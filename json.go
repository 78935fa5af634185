package asyncfsm

import (
	"encoding/json"

	"github.com/enetx/g"
)

// Snapshot is a serializable, read-only view of the FSM's state.
type Snapshot struct {
	Current State          `json:"current"`
	History g.Slice[State] `json:"history"`
}

// Snapshot returns the current state and history taken under a single lock.
func (f *FSM) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return Snapshot{Current: f.current, History: f.history.Clone()}
}

// MarshalJSON implements the json.Marshaler interface.
func (f *FSM) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Snapshot())
}
