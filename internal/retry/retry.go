// Package retry runs the generate → strip → parse → validate cycle against a
// text generator with a small, fixed attempt budget.
package retry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/metrics"
	"github.com/jonathan/career-assistant/internal/shape"
)

// Attempt budgets used by the features.
const (
	// SingleObjectAttempts allows one retry for scoring/explanation-style objects.
	SingleObjectAttempts = 2
	// ArrayAttempts allows two retries for multi-item generation.
	ArrayAttempts = 3
)

// Options configures one Run.
type Options struct {
	// Feature labels logs and metrics ("ats", "coding", ...).
	Feature string
	// Descriptor is the shape contract; its Shape drives boundary extraction.
	Descriptor shape.Descriptor
	// MaxAttempts is the total number of calls allowed. Values below 1 mean 1.
	MaxAttempts int
	// EscalationPrompt, if set, replaces the prompt from the second attempt on.
	EscalationPrompt string
	// SnippetLimit caps the raw text kept on ExhaustedError.
	// Zero means llm.DefaultSnippetLimit.
	SnippetLimit int
	// IsFatal marks generator errors that should stop the loop immediately.
	IsFatal func(error) bool
	// Check, if set, runs on the value accepted by shape validation. An error
	// counts as invalid content and the attempt is retried.
	Check func(value any) error
	// Logger defaults to the zap global.
	Logger *zap.Logger
}

// Result is a validated model response.
type Result struct {
	// Value is the accepted value from shape.Validate.
	Value any
	// Raw is the model text the value came from.
	Raw string
	// Attempts is how many calls were made, including the successful one.
	Attempts int
	// Rejected lists array elements dropped by validation.
	Rejected []shape.Rejection
}

// Decode copies Value into out, which must be a pointer to a type whose JSON
// form matches the validated value.
func (r *Result) Decode(out any) error {
	data, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("failed to re-encode validated value: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("validated value does not fit %T: %w", out, err)
	}
	return nil
}

// Run calls gen until a response parses and validates or the attempt budget
// is spent. Attempts run strictly one after another with no delay. The only
// error it returns is *ExhaustedError.
func Run(ctx context.Context, gen llm.TextGenerator, prompt string, opts Options) (*Result, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	snippetLimit := opts.SnippetLimit
	if snippetLimit <= 0 {
		snippetLimit = llm.DefaultSnippetLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("retry").With(
		zap.String("feature", opts.Feature),
		zap.String("descriptor", opts.Descriptor.Name),
	)

	var (
		attempt int
		lastRaw string
		lastErr error
	)

	operation := func() (*Result, error) {
		attempt++
		current := prompt
		if attempt > 1 && opts.EscalationPrompt != "" {
			current = opts.EscalationPrompt
		}

		raw, err := gen.GenerateText(ctx, current)
		if err != nil {
			lastErr = &llm.InvocationError{Message: fmt.Sprintf("attempt %d", attempt), Cause: err}
			metrics.AIAttemptsTotal.WithLabelValues(opts.Feature, metrics.OutcomeInvocationError).Inc()
			if opts.IsFatal != nil && opts.IsFatal(err) {
				return nil, backoff.Permanent(lastErr)
			}
			return nil, lastErr
		}
		lastRaw = raw

		parsed, err := llm.NormalizeAndParse(raw, opts.Descriptor.Shape)
		if err != nil {
			lastErr = err
			metrics.AIAttemptsTotal.WithLabelValues(opts.Feature, metrics.OutcomeParseError).Inc()
			return nil, err
		}

		outcome := shape.Validate(parsed, opts.Descriptor)
		if !outcome.OK() {
			lastErr = outcome.Err
			metrics.AIAttemptsTotal.WithLabelValues(opts.Feature, metrics.OutcomeValidationError).Inc()
			return nil, outcome.Err
		}

		if opts.Check != nil {
			if err := opts.Check(outcome.Value); err != nil {
				lastErr = err
				metrics.AIAttemptsTotal.WithLabelValues(opts.Feature, metrics.OutcomeValidationError).Inc()
				return nil, err
			}
		}

		metrics.AIAttemptsTotal.WithLabelValues(opts.Feature, metrics.OutcomeSuccess).Inc()
		if len(outcome.Rejected) > 0 {
			logger.Debug("dropped invalid elements", zap.Int("dropped", len(outcome.Rejected)))
		}
		return &Result{
			Value:    outcome.Value,
			Raw:      raw,
			Attempts: attempt,
			Rejected: outcome.Rejected,
		}, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(maxAttempts-1)),
		ctx,
	)
	notify := func(err error, _ time.Duration) {
		logger.Warn("attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))
	}

	result, err := backoff.RetryNotifyWithData(operation, policy, notify)
	metrics.AIAttemptsPerRequest.WithLabelValues(opts.Feature).Observe(float64(attempt))
	if err == nil {
		return result, nil
	}

	if lastErr == nil {
		lastErr = err
	}
	exhausted := &ExhaustedError{
		Feature:  opts.Feature,
		Attempts: attempt,
		LastRaw:  llm.Snippet(lastRaw, snippetLimit),
		Last:     lastErr,
		Kind:     classify(lastErr, err),
	}
	metrics.AIRetryExhaustedTotal.WithLabelValues(opts.Feature, string(exhausted.Kind)).Inc()
	logger.Error("retry budget exhausted",
		zap.Int("attempts", attempt),
		zap.String("kind", string(exhausted.Kind)),
		zap.Error(lastErr))
	return nil, exhausted
}

// classify decides whether the run failed on the call or on the content.
// A cancelled context counts as a call failure.
func classify(last, final error) FailureKind {
	var invocation *llm.InvocationError
	if errors.As(last, &invocation) {
		return FailureInvocation
	}
	if errors.Is(final, context.Canceled) || errors.Is(final, context.DeadlineExceeded) {
		return FailureInvocation
	}
	return FailureContent
}
