package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/giygas/symptoms-api/interfaces"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	state := interfaces.SessionState{CollectedSymptoms: []string{"fever"}}
	_ = store.Save(ctx, "s1", state)
	state.CollectedSymptoms[0] = "changed"

	loaded, _ := store.Load(ctx, "s1")
	if loaded.CollectedSymptoms[0] != "fever" {
		t.Errorf("Store aliased the caller's slice: %v", loaded.CollectedSymptoms)
	}

	loaded.CollectedSymptoms[0] = "changed again"
	again, _ := store.Load(ctx, "s1")
	if again.CollectedSymptoms[0] != "fever" {
		t.Errorf("Load returned the internal slice: %v", again.CollectedSymptoms)
	}
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	state, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.CollectedSymptoms) != 0 {
		t.Errorf("Expected empty state, got %v", state)
	}
	if store.Len() != 0 {
		t.Errorf("Loading must not create a session, got %d", store.Len())
	}
	if err := store.Delete(context.Background(), "missing"); err != nil {
		t.Errorf("Delete of unknown session: %v", err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	_ = store.Save(ctx, "old", interfaces.SessionState{})

	store.now = func() time.Time { return base.Add(20 * time.Minute) }
	_ = store.Save(ctx, "recent", interfaces.SessionState{})

	removed := store.Sweep(base.Add(40 * time.Minute))
	if removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 remaining session, got %d", store.Len())
	}
	if _, ok := store.sessions["recent"]; !ok {
		t.Error("Recent session should survive the sweep")
	}
}

func TestMemoryStoreLoadRefreshesLastSeen(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(30 * time.Minute)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	_ = store.Save(ctx, "s1", interfaces.SessionState{})

	store.now = func() time.Time { return base.Add(25 * time.Minute) }
	_, _ = store.Load(ctx, "s1")

	if removed := store.Sweep(base.Add(40 * time.Minute)); removed != 0 {
		t.Errorf("Recently read session was swept")
	}
}

func TestMemoryStoreZeroTTLNeverSweeps(t *testing.T) {
	store := NewMemoryStore(0)
	_ = store.Save(context.Background(), "s1", interfaces.SessionState{})

	if removed := store.Sweep(time.Now().Add(24 * 365 * time.Hour)); removed != 0 {
		t.Errorf("Expected no sweep with zero TTL, got %d", removed)
	}
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	acc := NewAccumulator(store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := acc.Append(ctx, id, []string{"fever"}); err != nil {
					t.Error(err)
				}
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Errorf("Expected 20 sessions, got %d", store.Len())
	}
	got, _ := store.Load(ctx, "a")
	if len(got.CollectedSymptoms) != 10 {
		t.Errorf("Sequential appends within one session lost data: %d", len(got.CollectedSymptoms))
	}
}
