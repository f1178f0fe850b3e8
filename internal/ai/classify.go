package ai

import (
	"net/http"
	"strings"
)

// classifyError maps a failed completion call to an outcome. statusCode is
// the HTTP status when one was received (0 for transport-level failures);
// message is the error text. Matching is on the lower-cased message, in
// priority order: rate limiting, then credential problems, then unknown.
func classifyError(statusCode int, message string) Outcome {
	msg := strings.ToLower(message)
	switch {
	case statusCode == http.StatusTooManyRequests,
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "429"):
		return Outcome{Kind: OutcomeRateLimited}
	case statusCode == http.StatusUnauthorized,
		statusCode == http.StatusForbidden:
		return Outcome{Kind: OutcomeAuthError}
	case strings.Contains(msg, "api key") &&
		(strings.Contains(msg, "invalid") ||
			strings.Contains(msg, "not valid") ||
			strings.Contains(msg, "could not be authenticated")):
		return Outcome{Kind: OutcomeAuthError}
	default:
		return Outcome{Kind: OutcomeUnknownError, Detail: message}
	}
}
