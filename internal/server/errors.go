package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/types"
)

// Error codes returned in ErrorResponse.Error.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeAIInvalidResponse = "ai_invalid_response"
	CodeAIUnavailable     = "ai_unavailable"
	CodeTimeout           = "timeout"
	CodeNotFound          = "not_found"
	CodeStorageDisabled   = "storage_disabled"
	CodeRateLimited       = "rate_limit_exceeded"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// Snippet is the start of the unusable model output, for
	// ai_invalid_response only.
	Snippet   string `json:"snippet,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps a service error to a status and response body.
func classify(err error) (int, ErrorResponse) {
	var exhausted *retry.ExhaustedError
	switch {
	case errors.Is(err, types.ErrInvalidRequest):
		return http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Message: err.Error()}
	case errors.As(err, &exhausted) && exhausted.InvalidContent():
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeAIInvalidResponse,
			Message: "The AI service returned a response that could not be used. Please try again.",
			Snippet: exhausted.LastRaw,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: CodeTimeout, Message: "The request took too long. Please try again."}
	case errors.As(err, &exhausted):
		return http.StatusBadGateway, ErrorResponse{
			Error:   CodeAIUnavailable,
			Message: "The AI service is unavailable. Please try again later.",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal, Message: "internal server error"}
	}
}
