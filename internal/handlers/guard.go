package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/vault"
)

// SessionIDHeader carries the caller's session identifier on every
// authenticated request.
const SessionIDHeader = "X-Session-ID"

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	bundleKey    contextKey = "credentialBundle"
)

// sessionGuard requires a live session on the request. On success the session
// identifier and decrypted bundle are placed on the request context for the
// wrapped handler.
func sessionGuard(v SessionVault) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.FromContext(ctx)

			sessionID := r.Header.Get(SessionIDHeader)
			if sessionID == "" {
				respondError(ctx, w, apperr.New(apperr.CodeNoSession))
				return
			}

			bundle, err := v.Lookup(ctx, sessionID)
			if err != nil {
				switch {
				case errors.Is(err, vault.ErrSessionNotFound):
					respondError(ctx, w, apperr.New(apperr.CodeSessionExpired))
				case errors.Is(err, vault.ErrDecryptFailed):
					logger.Warn("credential bundle failed to decrypt")
					respondError(ctx, w, apperr.New(apperr.CodeInvalidCredentials))
				default:
					logger.Error("session lookup failed", "error", err)
					respondError(ctx, w, apperr.Wrap(apperr.CodeServerError, err))
				}
				return
			}

			ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			ctx = context.WithValue(ctx, bundleKey, bundle)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromContext(ctx context.Context) (string, vault.Bundle, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	if !ok {
		return "", vault.Bundle{}, false
	}
	bundle, ok := ctx.Value(bundleKey).(vault.Bundle)
	if !ok {
		return "", vault.Bundle{}, false
	}
	return sessionID, bundle, true
}
