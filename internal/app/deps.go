package app

import (
	"time"

	"github.com/threadcraft/backend/internal/config"
	"github.com/threadcraft/backend/internal/handlers"
	"github.com/threadcraft/backend/internal/middleware"
	"github.com/threadcraft/backend/internal/progress"
	"github.com/threadcraft/backend/internal/storage"
	"github.com/threadcraft/backend/internal/thread"
	"github.com/threadcraft/backend/internal/twitter"
	"github.com/threadcraft/backend/internal/vault"
)

// Session creation triggers a live platform call, so it gets a tighter
// per-IP budget than the rest of the API.
const (
	sessionCreateLimit  = 5
	sessionCreateWindow = time.Minute
	sessionCreateBurst  = 5
	limiterEntryTTL     = 10 * time.Minute
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(store storage.Store, cfg config.Config) handlers.Dependencies {
	credVault := vault.New(store, cfg.Salt)
	progressStore := progress.NewStore(store, cfg.Salt, cfg.ProgressFile)

	clients := func(bundle vault.Bundle) twitter.Client {
		return twitter.NewHTTPClient(twitter.Credentials{
			APIKey:            bundle.APIKey,
			APISecret:         bundle.APISecret,
			AccessToken:       bundle.AccessToken,
			AccessTokenSecret: bundle.AccessTokenSecret,
			BearerToken:       bundle.BearerToken,
		}, cfg.TwitterBaseURL, cfg.TwitterTimeout)
	}

	return handlers.Dependencies{
		Vault:           credVault,
		Progress:        progressStore,
		Threads:         &thread.Service{Progress: progressStore},
		Resolver:        &thread.Resolver{Progress: progressStore},
		Clients:         clients,
		Limiter:         middleware.NewIPRateLimiter(sessionCreateLimit, sessionCreateWindow, sessionCreateBurst, limiterEntryTTL),
		SessionLifetime: cfg.SessionTTL,
	}
}
