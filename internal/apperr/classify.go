package apperr

import (
	"errors"
	"strings"
)

// classifyRules is the ordered rule list applied to an upstream failure's
// description; the first matching rule wins. Ordering matters: "unauthorized"
// must be checked before more generic markers, and the not-found markers come
// last among the specific ones so "404" in a URL path does not shadow an
// earlier signal.
var classifyRules = []struct {
	markers []string
	code    Code
}{
	{[]string{"unauthorized", "401"}, CodeAuthenticationFailed},
	{[]string{"forbidden", "403"}, CodePermissionDenied},
	{[]string{"rate limit", "429"}, CodeRateLimited},
	{[]string{"duplicate"}, CodeDuplicateTweet},
	{[]string{"too long", "character"}, CodeTweetTooLong},
	{[]string{"connection", "timeout", "network"}, CodeConnectionError},
	{[]string{"not found", "404"}, CodeNotFound},
}

// Classify maps an arbitrary upstream failure to the taxonomy. It is total:
// every error classifies to exactly one code, defaulting to UNKNOWN_ERROR.
// Errors that are already taxonomy errors pass through unchanged.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	description := ""
	if err != nil {
		description = strings.ToLower(err.Error())
	}

	for _, rule := range classifyRules {
		for _, marker := range rule.markers {
			if strings.Contains(description, marker) {
				return Wrap(rule.code, err)
			}
		}
	}

	return Wrap(CodeUnknown, err)
}
