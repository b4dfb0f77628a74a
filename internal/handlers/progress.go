package handlers

import (
	"net/http"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
)

// ProgressHandler exposes the per-session posting progress.
type ProgressHandler struct {
	Progress ProgressStore
}

type progressData struct {
	CurrentDay      int     `json:"current_day"`
	ThreadID        *string `json:"thread_id"`
	HasActiveThread bool    `json:"has_active_thread"`
	NextDay         int     `json:"next_day"`
}

// Get handles GET /api/progress requests.
func (h ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sessionID, _, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	record := h.Progress.Load(ctx, sessionID)

	data := progressData{
		CurrentDay: record.Day,
		NextDay:    record.Day + 1,
	}
	if record.ThreadID != "" {
		threadID := record.ThreadID
		data.ThreadID = &threadID
		data.HasActiveThread = true
	}

	respondData(ctx, w, "", data)
}

// Reset handles POST /api/progress/reset requests.
func (h ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sessionID, _, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	if err := h.Progress.Reset(ctx, sessionID); err != nil {
		logging.FromContext(ctx).Error("progress reset failed", "error", err)
		respondError(ctx, w, apperr.Wrap(apperr.CodeServerError, err))
		return
	}

	respondData(ctx, w, "Progress has been reset. You can now start a new thread.", nil)
}
