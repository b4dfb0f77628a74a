package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		description string
		want        Code
	}{
		{"401 Unauthorized", CodeAuthenticationFailed},
		{"request was unauthorized", CodeAuthenticationFailed},
		{"403 Forbidden", CodePermissionDenied},
		{"twitter api: 429 Too Many Requests", CodeRateLimited},
		{"you hit the rate limit", CodeRateLimited},
		{"duplicate content detected", CodeDuplicateTweet},
		{"tweet is too long", CodeTweetTooLong},
		{"text exceeds the character limit", CodeTweetTooLong},
		{"connection refused", CodeConnectionError},
		{"i/o timeout", CodeConnectionError},
		{"network unreachable", CodeConnectionError},
		{"tweet not found", CodeNotFound},
		{"404 Not Found", CodeNotFound},
		{"", CodeUnknown},
		{"something inexplicable", CodeUnknown},
	}

	for _, tc := range cases {
		got := Classify(errors.New(tc.description))
		if got.Code != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.description, got.Code, tc.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Contains both an auth marker and a not-found marker; the auth rule is
	// earlier in the list.
	got := Classify(errors.New("401 unauthorized: resource not found"))
	if got.Code != CodeAuthenticationFailed {
		t.Fatalf("expected AUTHENTICATION_FAILED, got %s", got.Code)
	}
}

func TestClassifyNilError(t *testing.T) {
	got := Classify(nil)
	if got.Code != CodeUnknown {
		t.Fatalf("expected UNKNOWN_ERROR for nil, got %s", got.Code)
	}
}

func TestClassifyPassesThroughTaxonomyErrors(t *testing.T) {
	original := New(CodeNotOwner)
	wrapped := fmt.Errorf("resolve thread: %w", original)

	got := Classify(wrapped)
	if got != original {
		t.Fatalf("expected original taxonomy error, got %+v", got)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNoSession, http.StatusUnauthorized},
		{CodeSessionExpired, http.StatusUnauthorized},
		{CodeEmptyContent, http.StatusBadRequest},
		{CodeNoThread, http.StatusBadRequest},
		{CodeThreadNotFound, http.StatusNotFound},
		{CodeNotOwner, http.StatusForbidden},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.code).Status(); got != tc.want {
			t.Errorf("Status(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestErrorMessageIsFixed(t *testing.T) {
	err := Wrap(CodeRateLimited, errors.New("HTTP 429: raw upstream detail"))
	if err.Message != messages[CodeRateLimited] {
		t.Fatalf("expected fixed message, got %q", err.Message)
	}
}
