package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/giygas/symptoms-api/config"
	"github.com/giygas/symptoms-api/dataset"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
	"github.com/giygas/symptoms-api/session"
)

func TestNewSessionStoreMemory(t *testing.T) {
	logging.InitTestLogger(&strings.Builder{})

	store, sweeper, closeStore, err := newSessionStore(&config.Config{
		SessionStore: config.SessionStoreMemory,
		SessionTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("newSessionStore returned error: %v", err)
	}
	defer closeStore()

	if _, ok := store.(*session.MemoryStore); !ok {
		t.Errorf("Expected a memory store, got %T", store)
	}
	if sweeper == nil {
		t.Error("Memory store must be swept")
	}
}

func TestNewSessionStoreRedis(t *testing.T) {
	logging.InitTestLogger(&strings.Builder{})
	mr := miniredis.RunT(t)

	store, sweeper, closeStore, err := newSessionStore(&config.Config{
		SessionStore:     config.SessionStoreRedis,
		SessionTTL:       time.Hour,
		SessionKeyPrefix: "test:",
		RedisAddr:        mr.Addr(),
	})
	if err != nil {
		t.Fatalf("newSessionStore returned error: %v", err)
	}
	defer closeStore()

	if sweeper != nil {
		t.Error("Redis expires keys itself, no sweeper expected")
	}
	if _, ok := store.(interfaces.SessionPinger); !ok {
		t.Error("Expected the redis store to be pinged by the health check")
	}

	ctx := context.Background()
	if err := store.Save(ctx, "abc", interfaces.SessionState{CollectedSymptoms: []string{"fever"}}); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("test:abc") {
		t.Error("Expected the session under the configured prefix")
	}
}

func TestNewSessionStoreRedisUnreachable(t *testing.T) {
	logging.InitTestLogger(&strings.Builder{})
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, _, err := newSessionStore(&config.Config{
		SessionStore: config.SessionStoreRedis,
		RedisAddr:    addr,
	})
	if err == nil {
		t.Error("Expected an error for an unreachable Redis")
	}
}

func TestSampleDatasetLoads(t *testing.T) {
	logging.InitTestLogger(&strings.Builder{})

	ds, err := dataset.NewFileLoader("files/nst.csv", "files/textLabel.csv", "files/mapping.json").Load()
	if err != nil {
		t.Fatalf("Sample dataset failed to load: %v", err)
	}
	if len(ds.Diseases) == 0 || len(ds.Labels) == 0 || len(ds.LabelToDisease) == 0 {
		t.Errorf("Sample dataset is incomplete: %d diseases, %d labels, %d mapped",
			len(ds.Diseases), len(ds.Labels), len(ds.LabelToDisease))
	}
}
