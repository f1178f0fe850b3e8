// Package ai provides the Gemini completion client and the outcome taxonomy
// for one question-answering attempt.
package ai

// OutcomeKind identifies which variant of Outcome holds.
type OutcomeKind int

const (
	// OutcomeAnswered carries generated answer text.
	OutcomeAnswered OutcomeKind = iota
	// OutcomeBlocked means the service refused to answer; Reason carries the block reason.
	OutcomeBlocked
	// OutcomeEmptyResponse means the service returned neither content nor a block reason.
	OutcomeEmptyResponse
	// OutcomeRateLimited means quota exhaustion or rate limiting.
	OutcomeRateLimited
	// OutcomeAuthError means the credential was rejected.
	OutcomeAuthError
	// OutcomeNotConfigured means the client was never configured with a credential.
	OutcomeNotConfigured
	// OutcomeNoContext means no document text was available to answer against.
	OutcomeNoContext
	// OutcomeUnknownError is any other failure; Detail carries the diagnostic.
	OutcomeUnknownError
)

// Outcome is the classified result of one completion attempt. Exactly one
// variant holds per call; Text, Reason, and Detail are set only for the
// variants that carry them.
type Outcome struct {
	Kind   OutcomeKind
	Text   string // OutcomeAnswered
	Reason string // OutcomeBlocked
	Detail string // OutcomeUnknownError; logged, not shown to users
}

// String returns the variant name, for logging.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAnswered:
		return "answered"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeEmptyResponse:
		return "empty_response"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeNotConfigured:
		return "not_configured"
	case OutcomeNoContext:
		return "no_context"
	case OutcomeUnknownError:
		return "unknown_error"
	default:
		return "invalid"
	}
}
