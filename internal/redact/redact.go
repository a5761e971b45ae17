// Package redact removes sensitive information from strings before they
// are logged or returned in error responses. It keeps credentials,
// connection strings, tokens, and raw SQL out of log output.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled patterns, applied in order.
var (
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`)

	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Standard three-part base64url-encoded JWT token format.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)[\s\w,*()='"$]*`,
	)

	replacements = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{emailRegex, RedactedEmailPlaceholder},
		{sqlRegex, RedactedSQLPlaceholder},
	}
)

// String returns the input with all recognized sensitive fragments replaced
// by placeholders.
func String(input string) string {
	out := input
	for _, r := range replacements {
		out = r.pattern.ReplaceAllString(out, r.placeholder)
	}
	return out
}

// Error returns the redacted message of err, or an empty string for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
