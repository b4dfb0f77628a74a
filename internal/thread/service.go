package thread

import (
	"context"
	"strings"

	"github.com/threadcraft/backend/internal/apperr"
	"github.com/threadcraft/backend/internal/logging"
	"github.com/threadcraft/backend/internal/twitter"
)

// StartResult describes a newly created thread root.
type StartResult struct {
	ThreadID string
	TweetURL string
}

// PostResult describes one day's posted reply.
type PostResult struct {
	Day      int
	TweetID  string
	TweetURL string
	Text     string
}

// Preview is the side-effect-free rendering of the next day's post.
type Preview struct {
	Text           string
	CharacterCount int
	IsValid        bool
	Day            int
}

// Service orchestrates the posting workflow: it validates input before any
// external call, posts through the platform client, and persists progress on
// success.
type Service struct {
	Progress ProgressStore
}

// Start creates a thread root with replies restricted to mentioned users and
// resets progress to day zero on the new thread.
func (s *Service) Start(ctx context.Context, client twitter.Client, sessionID, introText string) (StartResult, error) {
	text := strings.TrimSpace(introText)
	if text == "" {
		return StartResult{}, apperr.New(apperr.CodeEmptyContent)
	}
	if n := Length(text); n > MaxPostLength {
		return StartResult{}, apperr.Newf(apperr.CodeTweetTooLong,
			"Your introduction is %d characters. Please keep it under %d characters.", n, MaxPostLength)
	}

	tweet, err := client.CreateTweet(ctx, text, twitter.CreateOptions{ReplySettings: twitter.ReplySettingsMentioned})
	if err != nil {
		return StartResult{}, apperr.Classify(err)
	}

	if err := s.Progress.Save(ctx, sessionID, 0, tweet.ID); err != nil {
		logging.FromContext(ctx).Error("thread created but progress save failed", "threadId", tweet.ID, "error", err)
		return StartResult{}, apperr.Wrap(apperr.CodeServerError, err)
	}

	return StartResult{ThreadID: tweet.ID, TweetURL: CanonicalURL(tweet.ID)}, nil
}

// PostNext posts the next day's update as a direct reply to the thread root
// and increments the persisted day counter. Two concurrent calls for the
// same session can compute the same day number; the load-modify-save cycle
// is deliberately unguarded.
func (s *Service) PostNext(ctx context.Context, client twitter.Client, sessionID, problemName, gistURL string) (PostResult, error) {
	problemName = strings.TrimSpace(problemName)
	gistURL = strings.TrimSpace(gistURL)

	if gistURL == "" {
		return PostResult{}, apperr.New(apperr.CodeMissingGistURL)
	}
	if problemName == "" {
		return PostResult{}, apperr.New(apperr.CodeMissingProblemName)
	}

	record := s.Progress.Load(ctx, sessionID)
	if record.ThreadID == "" {
		return PostResult{}, apperr.New(apperr.CodeNoThread)
	}

	day := record.Day + 1
	text := Compose(day, problemName, gistURL)
	if n := Length(text); n > MaxPostLength {
		return PostResult{}, apperr.Newf(apperr.CodeTweetTooLong,
			"Your tweet is %d characters. Please shorten the problem name.", n)
	}

	tweet, err := client.CreateTweet(ctx, text, twitter.CreateOptions{InReplyTo: record.ThreadID})
	if err != nil {
		return PostResult{}, apperr.Classify(err)
	}

	if err := s.Progress.Save(ctx, sessionID, day, record.ThreadID); err != nil {
		logging.FromContext(ctx).Error("reply posted but progress save failed", "day", day, "error", err)
		return PostResult{}, apperr.Wrap(apperr.CodeServerError, err)
	}

	return PostResult{
		Day:      day,
		TweetID:  tweet.ID,
		TweetURL: CanonicalURL(tweet.ID),
		Text:     text,
	}, nil
}

// PreviewNext composes the next day's post without posting or mutating any
// state.
func (s *Service) PreviewNext(ctx context.Context, sessionID, problemName, gistURL string) Preview {
	record := s.Progress.Load(ctx, sessionID)
	day := record.Day + 1

	text := Compose(day, strings.TrimSpace(problemName), strings.TrimSpace(gistURL))
	count := Length(text)

	return Preview{
		Text:           text,
		CharacterCount: count,
		IsValid:        count <= MaxPostLength,
		Day:            day,
	}
}
