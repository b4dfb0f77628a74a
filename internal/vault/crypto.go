package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrDecryptFailed indicates a ciphertext could not be decrypted: it is
// malformed, was sealed under a different session identifier, or has been
// tampered with. Callers treat it as corruption, never as absence.
var ErrDecryptFailed = errors.New("vault: decryption failed")

const nonceSize = 12

// keyInfo binds derived keys to this purpose so the same session identifier
// cannot be reused as key material for an unrelated scheme.
var keyInfo = []byte("threadcraft-credential-key")

// DeriveKey deterministically turns a session identifier into a 256-bit
// AES key. The identifier is the only secret input; nothing is stored, so
// losing the identifier permanently loses access to anything sealed with it.
func DeriveKey(sessionID string) [32]byte {
	var key [32]byte
	kdf := hkdf.New(sha256.New, []byte(sessionID), nil, keyInfo)
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		// HKDF over SHA-256 cannot fail for a 32-byte read.
		panic(err)
	}
	return key
}

// seal encrypts plaintext with AES-256-GCM under the session-derived key and
// returns a URL-safe base64 string with the random nonce prefixed.
func seal(plaintext []byte, sessionID string) (string, error) {
	key := DeriveKey(sessionID)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// open reverses seal. Any failure, from malformed base64 to a bad
// authentication tag, comes back as ErrDecryptFailed.
func open(ciphertext, sessionID string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(raw) <= nonceSize {
		return nil, ErrDecryptFailed
	}

	key := DeriveKey(sessionID)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, ErrDecryptFailed
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	plaintext, err := aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

// SealString encrypts an arbitrary string under the session-derived key. The
// progress store uses it to keep thread identifiers opaque at rest in the
// durable backend.
func SealString(value, sessionID string) (string, error) {
	return seal([]byte(value), sessionID)
}

// OpenString decrypts a string previously produced by SealString.
func OpenString(ciphertext, sessionID string) (string, error) {
	plaintext, err := open(ciphertext, sessionID)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// HashIdentifier maps a session identifier to the salted SHA-256 hex digest
// used as its storage key. Records are only ever addressed by this hash, so
// the backend never sees raw session tokens.
func HashIdentifier(sessionID, salt string) string {
	sum := sha256.Sum256([]byte(sessionID + salt))
	return hex.EncodeToString(sum[:])
}
