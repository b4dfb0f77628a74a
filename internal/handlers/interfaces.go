package handlers

import (
	"context"

	"github.com/threadcraft/backend/internal/progress"
	"github.com/threadcraft/backend/internal/thread"
	"github.com/threadcraft/backend/internal/twitter"
	"github.com/threadcraft/backend/internal/vault"
)

// SessionVault manages encrypted credential bundles keyed by session.
type SessionVault interface {
	Create(ctx context.Context, bundle vault.Bundle) (string, error)
	Lookup(ctx context.Context, sessionID string) (vault.Bundle, error)
	Destroy(ctx context.Context, sessionID string) (bool, error)
}

// ProgressStore captures the progress operations required by the HTTP handlers.
type ProgressStore interface {
	Load(ctx context.Context, sessionID string) progress.Record
	Reset(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}

// ThreadService runs the posting workflows against the platform.
type ThreadService interface {
	Start(ctx context.Context, client twitter.Client, sessionID, introText string) (thread.StartResult, error)
	PostNext(ctx context.Context, client twitter.Client, sessionID, problemName, gistURL string) (thread.PostResult, error)
	PreviewNext(ctx context.Context, sessionID, problemName, gistURL string) thread.Preview
}

// ThreadResolver adopts an existing thread and reconstructs its progress.
type ThreadResolver interface {
	Resolve(ctx context.Context, client twitter.Client, sessionID, input string) (thread.Resolution, error)
}

// ClientFactory builds a platform client for one credential bundle.
type ClientFactory func(bundle vault.Bundle) twitter.Client
