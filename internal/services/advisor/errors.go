package advisor

import "errors"

// Error taxonomy for the analysis pipeline. Every public entry point returns
// one of these (possibly wrapped); callers match with errors.Is.
var (
	// ErrMissingCredential means no API key is configured. Raised before any
	// network access.
	ErrMissingCredential = errors.New("advisor: api key not configured")

	// ErrNoRelevantData means the context assembler found zero qualifying
	// items for a required placeholder. The analysis must not proceed.
	ErrNoRelevantData = errors.New("advisor: no relevant data")

	// ErrDailyLimitExceeded is the budget gate preflight rejection. The
	// completion call is never made.
	ErrDailyLimitExceeded = errors.New("advisor: daily spend limit exceeded")

	// ErrNetwork wraps completion-call transport failures. Not retried.
	ErrNetwork = errors.New("advisor: completion call failed")

	// ErrNoJSONFound means the completion contains no {...} span at all.
	ErrNoJSONFound = errors.New("advisor: no json object in completion")

	// ErrMalformedJSON means the completion could not be parsed even after
	// the repair pipeline ran to exhaustion.
	ErrMalformedJSON = errors.New("advisor: malformed json in completion")

	// ErrNoValidResults means the completion parsed but every element failed
	// schema validation.
	ErrNoValidResults = errors.New("advisor: no valid results")

	// ErrUnknownFeature means the requested feature id is not registered.
	ErrUnknownFeature = errors.New("advisor: unknown feature")
)
