package retry

import "fmt"

// FailureKind separates "the AI call failed" from "the AI answered with
// something unusable".
type FailureKind string

const (
	// FailureInvocation means the last attempt failed in the generator call.
	FailureInvocation FailureKind = "invocation"
	// FailureContent means the last attempt returned unparseable or invalid content.
	FailureContent FailureKind = "content"
)

// ExhaustedError is the terminal error of Run.
type ExhaustedError struct {
	Feature  string
	Attempts int
	// LastRaw is the last model text received, size-capped. Empty when no
	// call succeeded.
	LastRaw string
	// Last is the error from the final attempt.
	Last error
	Kind FailureKind
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempt(s) (%s failure): %v", e.Feature, e.Attempts, e.Kind, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// InvalidContent reports whether the model answered but the answer was unusable.
func (e *ExhaustedError) InvalidContent() bool {
	return e.Kind == FailureContent
}
