package vault

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/threadcraft/backend/internal/storage"
)

// ErrSessionNotFound indicates the session identifier does not resolve to a
// stored, non-expired credential bundle. Unknown, expired, and destroyed
// sessions are indistinguishable.
var ErrSessionNotFound = errors.New("vault: session not found")

const sessionTokenBytes = 32

const credentialsSuffix = "/credentials"

// Bundle holds the five X/Twitter API credential fields a session owns. All
// five are mandatory; an incomplete bundle is never persisted.
type Bundle struct {
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
	BearerToken       string `json:"bearer_token"`
}

// Validate reports the names of any missing credential fields.
func (b Bundle) Validate() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"api_key", b.APIKey},
		{"api_secret", b.APISecret},
		{"access_token", b.AccessToken},
		{"access_token_secret", b.AccessTokenSecret},
		{"bearer_token", b.BearerToken},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Vault encrypts credential bundles and persists them through a pluggable
// storage backend, keyed by a salted hash of the session identifier.
type Vault struct {
	store storage.Store
	salt  string
}

// New constructs a Vault over the provided backend.
func New(store storage.Store, salt string) *Vault {
	if store == nil {
		panic("vault: storage backend must not be nil")
	}
	return &Vault{store: store, salt: salt}
}

// Seal serializes the bundle to canonical JSON and encrypts it under the
// session-derived key. The result is tamper-evident.
func Seal(bundle Bundle, sessionID string) (string, error) {
	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	return seal(plaintext, sessionID)
}

// Open decrypts a sealed bundle. It returns ErrDecryptFailed for malformed
// ciphertext, a wrong session identifier, or a failed integrity check, and
// never returns a partial bundle.
func Open(ciphertext, sessionID string) (Bundle, error) {
	plaintext, err := open(ciphertext, sessionID)
	if err != nil {
		return Bundle{}, err
	}

	var bundle Bundle
	if err := json.Unmarshal(plaintext, &bundle); err != nil {
		return Bundle{}, ErrDecryptFailed
	}
	return bundle, nil
}

// Create generates a fresh session identifier, encrypts the bundle under it,
// and persists the result. The identifier is returned only once the backend
// write has succeeded.
func (v *Vault) Create(ctx context.Context, bundle Bundle) (string, error) {
	if missing := bundle.Validate(); len(missing) > 0 {
		return "", fmt.Errorf("vault: incomplete bundle, missing %s", strings.Join(missing, ", "))
	}

	sessionID, err := newSessionID()
	if err != nil {
		return "", err
	}

	ciphertext, err := Seal(bundle, sessionID)
	if err != nil {
		return "", err
	}

	key := v.recordKey(sessionID)
	if err := v.store.Set(ctx, key, []byte(ciphertext)); err != nil {
		return "", fmt.Errorf("persist credentials: %w", err)
	}

	return sessionID, nil
}

// Lookup returns the decrypted bundle for a session. Unknown and expired
// identifiers yield ErrSessionNotFound; stored data that cannot be decrypted
// yields ErrDecryptFailed.
func (v *Vault) Lookup(ctx context.Context, sessionID string) (Bundle, error) {
	if sessionID == "" {
		return Bundle{}, ErrSessionNotFound
	}

	ciphertext, err := v.store.Get(ctx, v.recordKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Bundle{}, ErrSessionNotFound
		}
		return Bundle{}, fmt.Errorf("load credentials: %w", err)
	}

	return Open(string(ciphertext), sessionID)
}

// Destroy removes the credential bundle for a session. It is idempotent and
// reports whether a record was actually deleted.
func (v *Vault) Destroy(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	deleted, err := v.store.Delete(ctx, v.recordKey(sessionID))
	if err != nil {
		return false, fmt.Errorf("delete credentials: %w", err)
	}
	return deleted, nil
}

func (v *Vault) recordKey(sessionID string) string {
	return HashIdentifier(sessionID, v.salt) + credentialsSuffix
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
