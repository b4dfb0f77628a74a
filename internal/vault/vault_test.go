package vault

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/threadcraft/backend/internal/storage"
)

func testBundle() Bundle {
	return Bundle{
		APIKey:            "key",
		APISecret:         "key-secret",
		AccessToken:       "token",
		AccessTokenSecret: "token-secret",
		BearerToken:       "bearer",
	}
}

func TestBundleRoundTrip(t *testing.T) {
	bundle := testBundle()

	ciphertext, err := Seal(bundle, "session-abc")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	decrypted, err := Open(ciphertext, "session-abc")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if decrypted != bundle {
		t.Fatalf("expected %+v got %+v", bundle, decrypted)
	}
}

func TestBundleKeySeparation(t *testing.T) {
	ciphertext, err := Seal(testBundle(), "session-one")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := Open(ciphertext, "session-two"); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed, got %v", err)
	}
}

func TestBundleValidate(t *testing.T) {
	if missing := testBundle().Validate(); len(missing) != 0 {
		t.Fatalf("expected complete bundle, got missing %v", missing)
	}

	bundle := testBundle()
	bundle.APISecret = ""
	bundle.BearerToken = "   "

	missing := bundle.Validate()
	if len(missing) != 2 || missing[0] != "api_secret" || missing[1] != "bearer_token" {
		t.Fatalf("unexpected missing fields: %v", missing)
	}
}

func TestVaultCreateLookupDestroy(t *testing.T) {
	ctx := context.Background()
	v := New(storage.NewMemoryStore(time.Hour), "test-salt")

	sessionID, err := v.Create(ctx, testBundle())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected non-empty session identifier")
	}

	bundle, err := v.Lookup(ctx, sessionID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if bundle != testBundle() {
		t.Fatalf("unexpected bundle: %+v", bundle)
	}

	deleted, err := v.Destroy(ctx, sessionID)
	if err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if !deleted {
		t.Fatal("expected destroy to delete the record")
	}

	if _, err := v.Lookup(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}

	deleted, err = v.Destroy(ctx, sessionID)
	if err != nil {
		t.Fatalf("second destroy: %v", err)
	}
	if deleted {
		t.Fatal("expected second destroy to be a no-op")
	}
}

func TestVaultLookupUnknownSession(t *testing.T) {
	ctx := context.Background()
	v := New(storage.NewMemoryStore(time.Hour), "test-salt")

	if _, err := v.Lookup(ctx, "never-issued"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := v.Lookup(ctx, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for empty identifier, got %v", err)
	}
}

func TestVaultLookupExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Hour)

	current := time.Now()
	store.WithNowFunc(func() time.Time { return current })

	v := New(store, "test-salt")
	sessionID, err := v.Create(ctx, testBundle())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	current = current.Add(25 * time.Hour)

	if _, err := v.Lookup(ctx, sessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to be absent, got %v", err)
	}
}

func TestVaultCreateRejectsIncompleteBundle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(time.Hour)
	v := New(store, "test-salt")

	bundle := testBundle()
	bundle.AccessToken = ""

	if _, err := v.Create(ctx, bundle); err == nil || !strings.Contains(err.Error(), "access_token") {
		t.Fatalf("expected incomplete-bundle error naming access_token, got %v", err)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, storage.ErrNotFound }
func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("backend unavailable")
}
func (failingStore) Delete(context.Context, string) (bool, error) { return false, nil }

func TestVaultCreateFailsWhenWriteFails(t *testing.T) {
	v := New(failingStore{}, "test-salt")

	sessionID, err := v.Create(context.Background(), testBundle())
	if err == nil {
		t.Fatal("expected error when backend write fails")
	}
	if sessionID != "" {
		t.Fatal("session identifier must not be returned when persistence failed")
	}
}
