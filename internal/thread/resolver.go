package thread

import (
	"context"
	"strings"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/progress"
	"github.com/threadcraft/backend/internal/twitter"
)

// DefaultMaxReplies bounds how much of a conversation's reply history is
// inspected when reconstructing the day counter.
const DefaultMaxReplies = 100

// ProgressStore captures the persistence operations the thread workflow
// needs.
type ProgressStore interface {
	Load(ctx context.Context, sessionID string) progress.Record
	Save(ctx context.Context, sessionID string, day int, threadID string) error
	Reset(ctx context.Context, sessionID string) error
}

// Resolution is the outcome of resuming a thread: its canonical identifier
// and the reconstructed day counter.
type Resolution struct {
	ThreadID string
	Day      int
}

// Resolver reconciles local progress with an existing thread on the
// platform. The reply scan is a best-effort heuristic: it cannot see deleted
// or edited markers, so it is a convenience, not a source of truth.
type Resolver struct {
	Progress   ProgressStore
	MaxReplies int
}

// Resolve normalizes the thread reference, verifies the authenticated user
// owns the thread, reconstructs the day counter from the reply history, and
// persists the result. Ownership failures leave progress untouched.
func (r *Resolver) Resolve(ctx context.Context, client twitter.Client, sessionID, input string) (Resolution, error) {
	ctx, span := logging.StartSpan(ctx, "thread.resolve")
	defer span.End()

	logger := logging.FromContext(ctx)

	input = strings.TrimSpace(input)
	if input == "" {
		return Resolution{}, apperr.New(apperr.CodeMissingThreadID)
	}

	threadID, ok := ExtractID(input)
	if !ok {
		if IsThreadURL(input) {
			return Resolution{}, apperr.New(apperr.CodeInvalidThreadURL)
		}
		return Resolution{}, apperr.New(apperr.CodeInvalidThreadID)
	}

	me, err := client.Me(ctx)
	if err != nil {
		return Resolution{}, apperr.Classify(err)
	}

	tweet, err := client.GetTweet(ctx, threadID)
	if err != nil {
		if twitter.IsNotFound(err) {
			return Resolution{}, apperr.Wrap(apperr.CodeThreadNotFound, err)
		}
		return Resolution{}, apperr.Classify(err)
	}

	if tweet.AuthorID != me.ID {
		return Resolution{}, apperr.New(apperr.CodeNotOwner)
	}

	day := r.reconstructDay(ctx, client, threadID, me.Username)

	if err := r.Progress.Save(ctx, sessionID, day, threadID); err != nil {
		logger.Error("failed to persist resolved progress", "error", err)
		return Resolution{}, apperr.Wrap(apperr.CodeServerError, err)
	}

	return Resolution{ThreadID: threadID, Day: day}, nil
}

// reconstructDay scans the user's replies in the conversation for "Day N"
// markers. The maximum marker wins over the marker count, since retries can
// leave duplicate or out-of-order markers behind. With replies but no
// markers, every reply counts as one day. A failed reply query yields zero
// rather than failing the resume.
func (r *Resolver) reconstructDay(ctx context.Context, client twitter.Client, threadID, username string) int {
	maxReplies := r.MaxReplies
	if maxReplies <= 0 {
		maxReplies = DefaultMaxReplies
	}

	replies, err := client.SearchUserReplies(ctx, threadID, username, maxReplies)
	if err != nil {
		logging.FromContext(ctx).Warn("reply scan failed, assuming zero progress", "error", err)
		return 0
	}

	highest := 0
	found := false
	for _, reply := range replies {
		if day, ok := ExtractDay(reply.Text); ok {
			found = true
			if day > highest {
				highest = day
			}
		}
	}

	if found {
		return highest
	}
	return len(replies)
}
