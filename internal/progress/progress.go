package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/storage"
	"github.com/threadcraft/backend/internal/vault"
)

const recordSuffix = "/progress"

// Record is the per-session posting state: the last completed day and the
// identifier of the active thread. An empty ThreadID means no thread has been
// started; day zero with a thread means the thread exists but nothing has
// been posted to it yet.
type Record struct {
	Day      int    `json:"day"`
	ThreadID string `json:"thread_id"`
}

// storedRecord is the at-rest shape in the backend. The thread identifier is
// sealed under the session-derived key so the backend only ever holds
// opaque values.
type storedRecord struct {
	Day            int    `json:"day"`
	SealedThreadID string `json:"thread_id,omitempty"`
}

// fileRecord is the layout of the local fallback file, rewritten wholesale on
// every save. Owner is the hashed session identifier of the writer; a load
// only honors the file when the owner matches, so one session's fallback is
// never served to another.
type fileRecord struct {
	Day      int     `json:"day"`
	ThreadID *string `json:"thread_id"`
	Owner    string  `json:"owner,omitempty"`
}

// Store persists progress records through the pluggable backend, falling back
// to a local JSON file when the backend rejects a write. Loss of progress
// always degrades to "start over", never to a failed request.
type Store struct {
	backend      storage.Store
	salt         string
	fallbackPath string
}

// NewStore constructs a progress store. fallbackPath is where progress is
// written when the backend is unavailable; it holds the most recent fallback
// write and is readable only by the session that wrote it.
func NewStore(backend storage.Store, salt, fallbackPath string) *Store {
	if backend == nil {
		panic("progress: storage backend must not be nil")
	}
	return &Store{backend: backend, salt: salt, fallbackPath: fallbackPath}
}

// Load returns the progress record for a session. It never fails: a missing
// record, a backend error, or undecryptable state all degrade to the zero
// record.
func (s *Store) Load(ctx context.Context, sessionID string) Record {
	logger := logging.FromContext(ctx)

	raw, err := s.backend.Get(ctx, s.recordKey(sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("progress load failed, using defaults", "error", err)
			if rec, ok := s.loadFallback(sessionID); ok {
				return rec
			}
		}
		return Record{}
	}

	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		logger.Error("progress record corrupted, using defaults", "error", err)
		return Record{}
	}

	record := Record{Day: stored.Day}
	if stored.SealedThreadID != "" {
		threadID, err := vault.OpenString(stored.SealedThreadID, sessionID)
		if err != nil {
			logger.Error("progress thread id undecryptable, using defaults", "error", err)
			return Record{}
		}
		record.ThreadID = threadID
	}
	return record
}

// Save writes the day counter and thread identifier atomically with respect
// to each other. When the backend write fails the record is persisted to the
// local fallback file instead, so progress is never silently dropped.
func (s *Store) Save(ctx context.Context, sessionID string, day int, threadID string) error {
	logger := logging.FromContext(ctx)

	stored := storedRecord{Day: day}
	if threadID != "" {
		sealed, err := vault.SealString(threadID, sessionID)
		if err != nil {
			return fmt.Errorf("seal thread id: %w", err)
		}
		stored.SealedThreadID = sealed
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode progress record: %w", err)
	}

	if err := s.backend.Set(ctx, s.recordKey(sessionID), raw); err != nil {
		logger.Warn("progress backend write failed, falling back to file", "error", err, "path", s.fallbackPath)
		if fileErr := s.saveFallback(sessionID, day, threadID); fileErr != nil {
			return fmt.Errorf("save progress: %w", errors.Join(err, fileErr))
		}
		return nil
	}

	return nil
}

// Reset returns the session to the zero record.
func (s *Store) Reset(ctx context.Context, sessionID string) error {
	return s.Save(ctx, sessionID, 0, "")
}

// Delete removes the progress record for a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.backend.Delete(ctx, s.recordKey(sessionID)); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

func (s *Store) recordKey(sessionID string) string {
	return vault.HashIdentifier(sessionID, s.salt) + recordSuffix
}

func (s *Store) saveFallback(sessionID string, day int, threadID string) error {
	if s.fallbackPath == "" {
		return errors.New("no fallback path configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.fallbackPath), 0o755); err != nil {
		return err
	}

	record := fileRecord{Day: day, Owner: vault.HashIdentifier(sessionID, s.salt)}
	if threadID != "" {
		record.ThreadID = &threadID
	}

	raw, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.fallbackPath, raw, 0o600)
}

func (s *Store) loadFallback(sessionID string) (Record, bool) {
	if s.fallbackPath == "" {
		return Record{}, false
	}

	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		return Record{}, false
	}

	var record fileRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return Record{}, false
	}

	if record.Owner != vault.HashIdentifier(sessionID, s.salt) {
		return Record{}, false
	}

	result := Record{Day: record.Day}
	if record.ThreadID != nil {
		result.ThreadID = *record.ThreadID
	}
	return result, true
}
