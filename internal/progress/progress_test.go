package progress

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/threadcraft/backend/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(storage.NewMemoryStore(time.Hour), "test-salt", filepath.Join(t.TempDir(), "progress.json"))
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, "session-abc", 7, "1234567890"); err != nil {
		t.Fatalf("save: %v", err)
	}

	record := store.Load(ctx, "session-abc")
	if record.Day != 7 || record.ThreadID != "1234567890" {
		t.Fatalf("expected {7 1234567890}, got %+v", record)
	}
}

func TestLoadDefaultsOnMiss(t *testing.T) {
	store := newTestStore(t)

	record := store.Load(context.Background(), "session-unknown")
	if record.Day != 0 || record.ThreadID != "" {
		t.Fatalf("expected zero record, got %+v", record)
	}
}

func TestResetClearsRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, "session-abc", 3, "1234567890"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Reset(ctx, "session-abc"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	record := store.Load(ctx, "session-abc")
	if record.Day != 0 || record.ThreadID != "" {
		t.Fatalf("expected zero record after reset, got %+v", record)
	}
}

func TestThreadIDIsSealedAtRest(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStore(time.Hour)
	store := NewStore(backend, "test-salt", filepath.Join(t.TempDir(), "progress.json"))

	if err := store.Save(ctx, "session-abc", 1, "1234567890"); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := backend.Get(ctx, store.recordKey("session-abc"))
	if err != nil {
		t.Fatalf("read backend: %v", err)
	}

	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("decode stored record: %v", err)
	}
	if stored.SealedThreadID == "1234567890" {
		t.Fatal("thread id must not be stored in the clear")
	}
	if stored.SealedThreadID == "" {
		t.Fatal("expected sealed thread id to be present")
	}
}

type writeFailingStore struct {
	*storage.MemoryStore
}

func (writeFailingStore) Set(context.Context, string, []byte) error {
	return errors.New("backend unavailable")
}

func TestSaveFallsBackToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewStore(writeFailingStore{storage.NewMemoryStore(time.Hour)}, "test-salt", path)

	if err := store.Save(ctx, "session-abc", 4, "1234567890"); err != nil {
		t.Fatalf("expected fallback save to succeed, got %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fallback file: %v", err)
	}

	var record fileRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("decode fallback file: %v", err)
	}
	if record.Day != 4 || record.ThreadID == nil || *record.ThreadID != "1234567890" {
		t.Fatalf("unexpected fallback contents: %+v", record)
	}
}

type unavailableStore struct {
	*storage.MemoryStore
}

func (unavailableStore) Set(context.Context, string, []byte) error {
	return errors.New("backend unavailable")
}

func (unavailableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend unavailable")
}

func TestFallbackIsScopedToWritingSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewStore(unavailableStore{storage.NewMemoryStore(time.Hour)}, "test-salt", path)

	if err := store.Save(ctx, "session-a", 4, "1234567890"); err != nil {
		t.Fatalf("expected fallback save to succeed, got %v", err)
	}

	record := store.Load(ctx, "session-a")
	if record.Day != 4 || record.ThreadID != "1234567890" {
		t.Fatalf("expected writer to read its fallback, got %+v", record)
	}

	record = store.Load(ctx, "session-b")
	if record.Day != 0 || record.ThreadID != "" {
		t.Fatalf("expected zero record for another session, got %+v", record)
	}
}

func TestFallbackFileUsesNullForMissingThread(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")
	store := NewStore(writeFailingStore{storage.NewMemoryStore(time.Hour)}, "test-salt", path)

	if err := store.Save(ctx, "session-abc", 0, ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fallback file: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode fallback file: %v", err)
	}
	if value, ok := decoded["thread_id"]; !ok || value != nil {
		t.Fatalf("expected thread_id to be null, got %v", value)
	}
}
