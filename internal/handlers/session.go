package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/vault"
)

// defaultSessionLifetime is reported on session creation when no lifetime is
// configured.
const defaultSessionLifetime = 24 * time.Hour

// SessionHandler implements the credential session lifecycle endpoints.
type SessionHandler struct {
	Vault    SessionVault
	Progress ProgressStore
	Clients  ClientFactory
	Limiter  RateLimiter
	Lifetime time.Duration
}

func (h SessionHandler) lifetimeSeconds() int {
	lifetime := h.Lifetime
	if lifetime <= 0 {
		lifetime = defaultSessionLifetime
	}
	return int(lifetime.Seconds())
}

type createSessionRequest struct {
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
	BearerToken       string `json:"bearer_token"`
}

type createSessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

type validateSessionResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Create handles POST /api/session/create requests. Credentials are verified
// against the platform before a session is issued.
func (h SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "session-create") {
		respondError(ctx, w, apperr.New(apperr.CodeRateLimited))
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid session create payload", "error", err)
		respondError(ctx, w, apperr.New(apperr.CodeMissingCredentials))
		return
	}

	bundle := vault.Bundle{
		APIKey:            strings.TrimSpace(req.APIKey),
		APISecret:         strings.TrimSpace(req.APISecret),
		AccessToken:       strings.TrimSpace(req.AccessToken),
		AccessTokenSecret: strings.TrimSpace(req.AccessTokenSecret),
		BearerToken:       strings.TrimSpace(req.BearerToken),
	}

	if missing := bundle.Validate(); len(missing) > 0 {
		respondError(ctx, w, apperr.Newf(apperr.CodeMissingCredentials,
			"Please provide all required API keys. Missing: %s", strings.Join(missing, ", ")))
		return
	}

	// A live lookup of the authenticated user proves the credentials work
	// before anything is stored.
	client := h.Clients(bundle)
	if _, err := client.Me(ctx); err != nil {
		logger.Warn("credential verification failed", "error", err)
		respondError(ctx, w, err)
		return
	}

	sessionID, err := h.Vault.Create(ctx, bundle)
	if err != nil {
		logger.Error("session create failed", "error", err)
		respondError(ctx, w, apperr.Wrap(apperr.CodeServerError, err))
		return
	}

	logger.Info("session created")
	respondJSON(ctx, w, http.StatusOK, createSessionResponse{
		Success:   true,
		SessionID: sessionID,
		Message:   "Successfully connected to X/Twitter! You can now start posting.",
		ExpiresIn: h.lifetimeSeconds(),
	})
}

// Validate handles GET /api/session/validate requests. The endpoint reports
// validity in the body and never returns an error status.
func (h SessionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	sessionID := r.Header.Get(SessionIDHeader)
	if sessionID == "" {
		respondJSON(ctx, w, http.StatusOK, validateSessionResponse{
			Valid:   false,
			Message: "No active session found. Please configure your API keys.",
		})
		return
	}

	if _, err := h.Vault.Lookup(ctx, sessionID); err != nil {
		respondJSON(ctx, w, http.StatusOK, validateSessionResponse{
			Valid:   false,
			Message: "Your session has expired. Please reconfigure your API keys.",
		})
		return
	}

	respondJSON(ctx, w, http.StatusOK, validateSessionResponse{
		Success: true,
		Valid:   true,
		Message: "Session is active.",
	})
}

// Destroy handles DELETE /api/session/destroy requests. It is idempotent and
// removes both the credential bundle and any progress tied to the session.
func (h SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	sessionID := r.Header.Get(SessionIDHeader)
	if sessionID != "" {
		if _, err := h.Vault.Destroy(ctx, sessionID); err != nil {
			logger.Error("session destroy failed", "error", err)
			respondError(ctx, w, apperr.Wrap(apperr.CodeServerError, err))
			return
		}
		if err := h.Progress.Delete(ctx, sessionID); err != nil {
			logger.Warn("progress cleanup failed", "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, envelope{
		Success: true,
		Message: "Session ended. Your credentials have been securely removed.",
	})
}
