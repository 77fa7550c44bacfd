// Package types defines the validated results produced by the AI features.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata; validator.Validate is safe for concurrent use.
var validate = validator.New()

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	return validate.Struct(v)
}

// ErrInvalidRequest marks caller input rejected before any AI call is made.
var ErrInvalidRequest = errors.New("invalid request")

// ValidateRequest is Validate with failures wrapped in ErrInvalidRequest.
func ValidateRequest(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
