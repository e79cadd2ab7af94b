package behaviorsdk

import "fmt"

// ──────────────────────────────────────────────
// Error taxonomy — validation, provider, warnings
// ──────────────────────────────────────────────

// ValidationError is returned when a PersonaProfile or an input argument
// is out of contract (range violation, unknown enum value, empty text).
// It is always raised synchronously, before any external call, and is
// never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ProviderError wraps a failure of the external completion capability
// (timeout, rate limit, malformed response). The orchestrator propagates
// it unchanged; retry policy belongs to the caller.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Warning records a non-fatal humanization decision, e.g. an avoided word
// that had no safe replacement. Warnings are attached to the result
// instead of failing the turn.
type Warning struct {
	Rule   string // e.g. "vocabulary.fallback", "script.error"
	Detail string
}

func (w Warning) String() string {
	return w.Rule + ":" + w.Detail
}
