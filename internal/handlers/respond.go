package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
)

// envelope is the common response shape. Failures carry error_code and
// message; successes may carry a message and a data payload.
type envelope struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondData(ctx context.Context, w http.ResponseWriter, message string, data any) {
	respondJSON(ctx, w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondError normalizes any error into the failure envelope. Raw upstream
// error text never reaches the caller; only the taxonomy message does.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := apperr.Classify(err)
	respondJSON(ctx, w, appErr.Status(), envelope{
		Success:   false,
		ErrorCode: string(appErr.Code),
		Message:   appErr.Message,
	})
}
