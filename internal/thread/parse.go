// Package thread implements thread identifier normalization, day-marker
// reconstruction, and the posting workflow on top of the external platform
// client and the progress store.
package thread

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxPostLength is the platform's tweet length limit, counted in characters.
const MaxPostLength = 280

var (
	statusPattern = regexp.MustCompile(`/status/(\d+)`)
	dayPattern    = regexp.MustCompile(`(?i)Day\s+(\d+)`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
)

// ExtractID normalizes a thread reference to its canonical numeric
// identifier. Accepted forms: a bare numeric identifier, or an x.com /
// twitter.com status URL whose trailing path segment follows "/status/";
// query parameters are ignored. Returns ok=false when neither form matches.
func ExtractID(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if digitsOnly.MatchString(input) {
		return input, true
	}

	if !IsThreadURL(input) {
		return "", false
	}

	if match := statusPattern.FindStringSubmatch(input); match != nil {
		return match[1], true
	}
	return "", false
}

// IsThreadURL reports whether the input looks like a platform URL rather
// than a bare identifier.
func IsThreadURL(input string) bool {
	return strings.Contains(input, "x.com") || strings.Contains(input, "twitter.com")
}

// ExtractDay scans text for a "Day N" marker, case-insensitively, and
// returns the first marker's value.
func ExtractDay(text string) (int, bool) {
	match := dayPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	day, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return day, true
}

// Compose builds the tweet text for one day's post.
func Compose(day int, problemName, gistURL string) string {
	return fmt.Sprintf("Day %d\n\n%s\n\n%s", day, problemName, gistURL)
}

// Length counts a post's length the way the platform does, in characters
// rather than bytes.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}

// CanonicalURL renders the shareable URL for a tweet identifier.
func CanonicalURL(id string) string {
	return "https://x.com/user/status/" + id
}
