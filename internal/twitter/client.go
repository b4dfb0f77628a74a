// Package twitter wraps the X/Twitter v2 API behind the small capability
// surface the rest of the service needs: post a tweet, fetch a tweet, search
// a conversation, and identify the authenticated user.
package twitter

import (
	"context"
	"errors"
	"fmt"
)

// ReplySettingsMentioned restricts replies on a created tweet to mentioned
// users, which is how thread roots are posted.
const ReplySettingsMentioned = "mentionedUsers"

// Tweet is the subset of tweet fields this service reads.
type Tweet struct {
	ID       string
	Text     string
	AuthorID string
}

// User identifies the authenticated account.
type User struct {
	ID              string
	Username        string
	Name            string
	ProfileImageURL string
}

// CreateOptions modifies tweet creation. InReplyTo attaches the tweet to an
// existing conversation; ReplySettings restricts who may reply.
type CreateOptions struct {
	InReplyTo     string
	ReplySettings string
}

// Client is the capability interface for the external platform. The HTTP
// implementation lives in this package; tests substitute fakes.
type Client interface {
	Me(ctx context.Context) (User, error)
	CreateTweet(ctx context.Context, text string, opts CreateOptions) (Tweet, error)
	GetTweet(ctx context.Context, id string) (Tweet, error)
	SearchUserReplies(ctx context.Context, conversationID, username string, maxResults int) ([]Tweet, error)
}

// APIError is an upstream failure with its HTTP status preserved. Its text
// carries the status code and detail so the boundary classifier can match
// markers like "401" or "rate limit".
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("twitter api: %d", e.StatusCode)
	}
	return fmt.Sprintf("twitter api: %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
