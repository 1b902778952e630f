// Package session keeps per-conversation state for the chat endpoint: the
// cookie that identifies a session, the stores that persist its state and the
// accumulator that grows the list of reported symptoms turn after turn.
package session

import (
	"context"
	"fmt"

	"github.com/giygas/symptoms-api/interfaces"
)

// Accumulator appends newly reported symptoms to a session's history
type Accumulator struct {
	store interfaces.SessionStore
}

// NewAccumulator creates an accumulator backed by store
func NewAccumulator(store interfaces.SessionStore) *Accumulator {
	return &Accumulator{store: store}
}

// Append adds symptoms to the session and returns the full history.
// Repeats are kept: a symptom reported twice counts twice in the history.
// Concurrent Appends on the same session are not serialized; the last Save wins.
func (a *Accumulator) Append(ctx context.Context, id string, symptoms []string) ([]string, error) {
	state, err := a.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state.CollectedSymptoms = append(state.CollectedSymptoms, symptoms...)

	if err := a.store.Save(ctx, id, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return state.CollectedSymptoms, nil
}

// Clear forgets everything reported in the session
func (a *Accumulator) Clear(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
