package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates no record exists for the requested key.
var ErrNotFound = errors.New("record not found")

// Store is the keyed blob store the vault and progress store persist through.
// Implementations must provide atomic per-key reads and writes; callers never
// assume anything beyond that.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) (bool, error)
}
