// Package format holds presentation helpers for CLI output.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// usernamePattern matches valid GitHub logins: alphanumeric with interior
// hyphens, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ValidUsername reports whether login is a syntactically valid GitHub
// username.
func ValidUsername(login string) bool {
	return usernamePattern.MatchString(login)
}

// CleanString collapses runs of whitespace and trims the result.
func CleanString(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Number formats a count with a compact suffix: 1.2K, 3.4M, 5.6B.
func Number(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
