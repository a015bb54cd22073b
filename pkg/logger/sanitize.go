package logger

import (
	"log/slog"
	"strings"
)

// SanitizedUsername masks a username for log lines (e.g., "a****e"). The
// durable audit trail keeps the full value; operational logs do not need it.
func SanitizedUsername(username string) string {
	if username == "" {
		return "[empty]"
	}
	if len(username) <= 2 {
		return strings.Repeat("*", len(username))
	}
	return string(username[0]) + strings.Repeat("*", len(username)-2) + string(username[len(username)-1])
}

// sensitiveParams are query parameter names that must never reach log lines.
var sensitiveParams = []string{"password", "token", "secret"}

// SanitizeQueryString reports whether a raw query string carries a sensitive
// parameter and should be redacted from request logs.
func SanitizeQueryString(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}
	lowered := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(lowered, param) {
			return true
		}
	}
	return false
}

// RedactedAttr returns a redacted slog attribute for sensitive values.
// In production, returns "[REDACTED]"; in development, returns the actual value.
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}
