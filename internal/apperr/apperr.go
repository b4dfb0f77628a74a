// Package apperr defines the closed error taxonomy surfaced at the API
// boundary and the classifier that maps arbitrary upstream failures into it.
// Raw failure text never reaches a caller; every error leaves this package as
// a code plus a fixed human-readable message.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is a machine-readable error code from the closed taxonomy.
type Code string

const (
	// Session and credential boundary.
	CodeNoSession          Code = "NO_SESSION"
	CodeSessionExpired     Code = "SESSION_EXPIRED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"

	// Caller input and state errors.
	CodeMissingCredentials Code = "MISSING_CREDENTIALS"
	CodeEmptyContent       Code = "EMPTY_CONTENT"
	CodeTweetTooLong       Code = "TWEET_TOO_LONG"
	CodeMissingThreadID    Code = "MISSING_THREAD_ID"
	CodeInvalidThreadURL   Code = "INVALID_THREAD_URL"
	CodeInvalidThreadID    Code = "INVALID_THREAD_ID"
	CodeMissingGistURL     Code = "MISSING_GIST_URL"
	CodeMissingProblemName Code = "MISSING_PROBLEM_NAME"
	CodeNoThread           Code = "NO_THREAD"

	// Thread resolution.
	CodeThreadNotFound Code = "THREAD_NOT_FOUND"
	CodeNotOwner       Code = "NOT_OWNER"

	// Upstream-derived.
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"
	CodePermissionDenied     Code = "PERMISSION_DENIED"
	CodeRateLimited          Code = "RATE_LIMITED"
	CodeDuplicateTweet       Code = "DUPLICATE_TWEET"
	CodeConnectionError      Code = "CONNECTION_ERROR"
	CodeNotFound             Code = "NOT_FOUND"
	CodeUnknown              Code = "UNKNOWN_ERROR"
	CodeServerError          Code = "SERVER_ERROR"
)

var messages = map[Code]string{
	CodeNoSession:          "Please configure your settings first to start using the app.",
	CodeSessionExpired:     "Your session has expired. Please reconfigure your API keys.",
	CodeInvalidCredentials: "Unable to decrypt your credentials. Please reconfigure your API keys.",

	CodeMissingCredentials: "Please provide all required API keys.",
	CodeEmptyContent:       "Please enter some text for your thread introduction.",
	CodeTweetTooLong:       "Your tweet is too long. Please shorten it to 280 characters or less.",
	CodeMissingThreadID:    "Please provide a thread ID or URL.",
	CodeInvalidThreadURL:   "Could not extract a thread ID from that URL. Please check the link.",
	CodeInvalidThreadID:    "Thread ID must be a numeric value.",
	CodeMissingGistURL:     "Please provide a Gist URL for your solution.",
	CodeMissingProblemName: "Please provide the problem name.",
	CodeNoThread:           "No active thread found. Please start a new thread first.",

	CodeThreadNotFound: "Thread not found. Please check the thread ID or URL.",
	CodeNotOwner:       "This thread doesn't belong to your account. Please use a thread you created.",

	CodeAuthenticationFailed: "Your X/Twitter API credentials appear to be invalid. Please check your API keys in settings.",
	CodePermissionDenied:     "Your X/Twitter account does not have permission for this action. Please check your app permissions on the Twitter Developer Portal.",
	CodeRateLimited:          "You've hit the X/Twitter rate limit. Please wait a few minutes before trying again.",
	CodeDuplicateTweet:       "This tweet appears to be a duplicate. Please modify your content and try again.",
	CodeConnectionError:      "Unable to connect to X/Twitter. Please check your internet connection and try again.",
	CodeNotFound:             "The requested resource was not found. Please check your input and try again.",
	CodeUnknown:              "Something went wrong while processing your request. Please try again or check your settings.",
	CodeServerError:          "An unexpected error occurred. Please try again later.",
}

var statuses = map[Code]int{
	CodeNoSession:          http.StatusUnauthorized,
	CodeSessionExpired:     http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,

	CodeMissingCredentials: http.StatusBadRequest,
	CodeEmptyContent:       http.StatusBadRequest,
	CodeTweetTooLong:       http.StatusBadRequest,
	CodeMissingThreadID:    http.StatusBadRequest,
	CodeInvalidThreadURL:   http.StatusBadRequest,
	CodeInvalidThreadID:    http.StatusBadRequest,
	CodeMissingGistURL:     http.StatusBadRequest,
	CodeMissingProblemName: http.StatusBadRequest,
	CodeNoThread:           http.StatusBadRequest,

	CodeThreadNotFound: http.StatusNotFound,
	CodeNotOwner:       http.StatusForbidden,

	CodeAuthenticationFailed: http.StatusBadRequest,
	CodePermissionDenied:     http.StatusForbidden,
	CodeRateLimited:          http.StatusTooManyRequests,
	CodeDuplicateTweet:       http.StatusBadRequest,
	CodeConnectionError:      http.StatusBadGateway,
	CodeNotFound:             http.StatusNotFound,
	CodeUnknown:              http.StatusInternalServerError,
	CodeServerError:          http.StatusInternalServerError,
}

// Error pairs a taxonomy code with its fixed user-facing message. The
// underlying cause, when present, is kept for server-side logs only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New returns the taxonomy error for a code with its fixed message.
func New(code Code) *Error {
	return &Error{Code: code, Message: messages[code]}
}

// Newf returns a taxonomy error with a custom message. Used where the
// original surface interpolates caller-specific detail, such as naming the
// missing credential fields.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches the underlying cause for logging while leaving the
// user-facing code and message untouched.
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Message: messages[code], cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	if status, ok := statuses[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
