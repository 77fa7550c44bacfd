package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// InvocationError represents a failure of the generative call itself
// (network, timeout, non-2xx, vendor error).
type InvocationError struct {
	Message string
	Cause   error
}

func (e *InvocationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("AI call failed: %s", e.Message)
}

func (e *InvocationError) Unwrap() error {
	return e.Cause
}

// ParseError represents model text that could not be decoded into the
// expected JSON shape.
type ParseError struct {
	Message string
	Snippet string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsCredentialError reports whether err came from a rejected API key or a
// permission failure. Retrying such calls only burns attempts.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "API key not valid") ||
		strings.Contains(msg, "API_KEY_INVALID") ||
		strings.Contains(msg, "PERMISSION_DENIED")
}

// Snippet caps s to limit bytes, marking the cut. A non-positive limit
// returns s unchanged.
func Snippet(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	// back off to a rune boundary
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…[truncated]"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
