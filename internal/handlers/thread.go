package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/thread"
)

// ThreadHandler implements the thread posting workflow endpoints.
type ThreadHandler struct {
	Threads  ThreadService
	Resolver ThreadResolver
	Clients  ClientFactory
}

type startThreadRequest struct {
	IntroText string `json:"intro_text"`
}

type continueThreadRequest struct {
	ThreadID string `json:"thread_id"`
}

type postSolutionRequest struct {
	GistURL     string `json:"gist_url"`
	ProblemName string `json:"problem_name"`
}

// Start handles POST /api/thread/start requests.
func (h ThreadHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sessionID, bundle, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	var req startThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid thread start payload", "error", err)
		respondError(ctx, w, apperr.New(apperr.CodeEmptyContent))
		return
	}

	result, err := h.Threads.Start(ctx, h.Clients(bundle), sessionID, req.IntroText)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, "Thread started successfully! You can now post Day 1.", map[string]any{
		"thread_id": result.ThreadID,
		"tweet_url": result.TweetURL,
	})
}

// Continue handles POST /api/thread/continue requests. The caller supplies a
// thread identifier or URL and the session's progress is rebuilt from the
// live thread.
func (h ThreadHandler) Continue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sessionID, bundle, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	var req continueThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid thread continue payload", "error", err)
		respondError(ctx, w, apperr.New(apperr.CodeMissingThreadID))
		return
	}

	resolution, err := h.Resolver.Resolve(ctx, h.Clients(bundle), sessionID, strings.TrimSpace(req.ThreadID))
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	message := fmt.Sprintf("Thread resumed! Found %d day(s) of progress. Ready to post Day %d.",
		resolution.Day, resolution.Day+1)
	respondData(ctx, w, message, map[string]any{
		"thread_id":   resolution.ThreadID,
		"current_day": resolution.Day,
		"next_day":    resolution.Day + 1,
		"tweet_url":   thread.CanonicalURL(resolution.ThreadID),
	})
}

// Post handles POST /api/solution/post requests.
func (h ThreadHandler) Post(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	sessionID, bundle, ok := sessionFromContext(ctx)
	if !ok {
		respondError(ctx, w, apperr.New(apperr.CodeNoSession))
		return
	}

	var req postSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid solution post payload", "error", err)
		respondError(ctx, w, apperr.New(apperr.CodeMissingGistURL))
		return
	}

	result, err := h.Threads.PostNext(ctx, h.Clients(bundle), sessionID, req.ProblemName, req.GistURL)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, fmt.Sprintf("Day %d posted successfully!", result.Day), map[string]any{
		"day":        result.Day,
		"tweet_id":   result.TweetID,
		"tweet_url":  result.TweetURL,
		"tweet_text": result.Text,
	})
}

// Preview handles POST /api/tweet/preview requests. No platform call is made.
func (h ThreadHandler) Preview(w http.ResponseWriter, r *http.Request) {
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

	var req postSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(ctx).Warn("invalid tweet preview payload", "error", err)
		respondError(ctx, w, apperr.New(apperr.CodeMissingGistURL))
		return
	}

	preview := h.Threads.PreviewNext(ctx, sessionID, req.ProblemName, req.GistURL)

	respondData(ctx, w, "", map[string]any{
		"preview":         preview.Text,
		"character_count": preview.CharacterCount,
		"is_valid":        preview.IsValid,
		"day":             preview.Day,
	})
}
