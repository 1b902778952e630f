package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
)

type failingStore struct {
	loadErr, saveErr, deleteErr error
}

func (f failingStore) Load(context.Context, string) (interfaces.SessionState, error) {
	return interfaces.SessionState{}, f.loadErr
}

func (f failingStore) Save(context.Context, string, interfaces.SessionState) error {
	return f.saveErr
}

func (f failingStore) Delete(context.Context, string) error {
	return f.deleteErr
}

func TestAccumulatorAppendKeepsRepeats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	acc := NewAccumulator(store)

	if _, err := acc.Append(ctx, "s1", []string{"fever"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := acc.Append(ctx, "s1", []string{"cough", "fever"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := []string{"fever", "cough", "fever"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Append = %v, want %v", got, want)
	}

	stored, _ := store.Load(ctx, "s1")
	if !reflect.DeepEqual(stored.CollectedSymptoms, want) {
		t.Errorf("Stored symptoms = %v, want %v", stored.CollectedSymptoms, want)
	}
}

func TestAccumulatorSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	acc := NewAccumulator(NewMemoryStore(time.Hour))

	_, _ = acc.Append(ctx, "a", []string{"fever"})
	got, _ := acc.Append(ctx, "b", []string{"rash"})

	if !reflect.DeepEqual(got, []string{"rash"}) {
		t.Errorf("Session b leaked state from a: %v", got)
	}
}

func TestAccumulatorAppendNothingCreatesEmptySession(t *testing.T) {
	ctx := context.Background()
	acc := NewAccumulator(NewMemoryStore(time.Hour))

	got, err := acc.Append(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty history, got %v", got)
	}
}

func TestAccumulatorClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	acc := NewAccumulator(store)

	_, _ = acc.Append(ctx, "s1", []string{"fever"})
	if err := acc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, _ := store.Load(ctx, "s1")
	if len(got.CollectedSymptoms) != 0 {
		t.Errorf("Expected cleared session, got %v", got.CollectedSymptoms)
	}
}

func TestAccumulatorStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	if _, err := NewAccumulator(failingStore{loadErr: boom}).Append(ctx, "s", nil); !errors.Is(err, boom) {
		t.Errorf("Expected load error, got %v", err)
	}
	if _, err := NewAccumulator(failingStore{saveErr: boom}).Append(ctx, "s", nil); !errors.Is(err, boom) {
		t.Errorf("Expected save error, got %v", err)
	}
	if err := NewAccumulator(failingStore{deleteErr: boom}).Clear(ctx, "s"); !errors.Is(err, boom) {
		t.Errorf("Expected delete error, got %v", err)
	}
}
