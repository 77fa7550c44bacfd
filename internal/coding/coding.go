// Package coding generates coding practice questions, explains submitted
// solutions and grades program output against a question's test cases.
package coding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/shape"
	"github.com/jonathan/career-assistant/internal/types"
)

// Feature is the label used in logs, metrics and stored results.
const Feature = "coding"

// DefaultCount is used when a request does not say how many questions to make.
const DefaultCount = 3

const promptFile = "coding.json"

// Request asks for a new question set.
type Request struct {
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"gte=0,lte=10"`
}

// MoreRequest asks for questions in addition to ones already shown.
type MoreRequest struct {
	Topic      string   `json:"topic" validate:"required"`
	Difficulty string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Existing   []string `json:"existing"`
	Count      int      `json:"count" validate:"gte=0,lte=10"`
}

// ExplainRequest asks for a walkthrough of a solution.
type ExplainRequest struct {
	Statement string `json:"statement" validate:"required"`
	Code      string `json:"code" validate:"required"`
	Language  string `json:"language"`
}

// Service generates and explains coding questions.
type Service struct {
	gen          llm.TextGenerator
	generate     string
	addMore      string
	explain      string
	snippetLimit int
	logger       *zap.Logger
}

// NewService builds a Service. lib must contain coding.json.
func NewService(gen llm.TextGenerator, lib *prompts.Library, snippetLimit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		gen:          gen,
		generate:     lib.MustGet(promptFile, "generate"),
		addMore:      lib.MustGet(promptFile, "add-more"),
		explain:      lib.MustGet(promptFile, "explain"),
		snippetLimit: snippetLimit,
		logger:       logger.Named(Feature),
	}
}

// Generate returns up to req.Count questions. Malformed questions are
// dropped; the call fails only if none survive every attempt.
func (s *Service) Generate(ctx context.Context, req Request) ([]types.CodingQuestion, error) {
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		req.Count = DefaultCount
	}

	prompt := prompts.Format(s.generate, map[string]string{
		"Topic":      req.Topic,
		"Difficulty": req.Difficulty,
		"Count":      strconv.Itoa(req.Count),
	})

	descriptor := shape.CodingQuestions(0)
	var questions []types.CodingQuestion
	_, err := retry.Run(ctx, s.gen, prompt, s.options(descriptor, retry.ArrayAttempts, func(value any) error {
		qs, err := decodeQuestions(value, descriptor, s.logger)
		if err != nil {
			return err
		}
		questions = qs
		return nil
	}))
	if err != nil {
		return nil, err
	}

	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}
	s.logger.Info("generated coding questions", zap.Int("count", len(questions)))
	return questions, nil
}

// AddMore returns exactly req.Count questions whose statements differ from
// req.Existing and from each other. A short set after de-duplication is
// retried like any other validation failure.
func (s *Service) AddMore(ctx context.Context, req MoreRequest) ([]types.CodingQuestion, error) {
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		req.Count = DefaultCount
	}

	existing := make([]string, 0, len(req.Existing))
	for _, e := range req.Existing {
		existing = append(existing, "- "+strings.TrimSpace(e))
	}
	prompt := prompts.Format(s.addMore, map[string]string{
		"Topic":      req.Topic,
		"Difficulty": req.Difficulty,
		"Count":      strconv.Itoa(req.Count),
		"Existing":   strings.Join(existing, "\n"),
	})

	// Uncapped so duplicates are removed before the set is cut to Count.
	descriptor := shape.CodingQuestions(0)
	var questions []types.CodingQuestion
	_, err := retry.Run(ctx, s.gen, prompt, s.options(descriptor, retry.ArrayAttempts, func(value any) error {
		qs, err := decodeQuestions(value, descriptor, s.logger)
		if err != nil {
			return err
		}
		fresh := dedupe(qs, req.Existing)
		if len(fresh) < req.Count {
			return &shape.ValidationError{
				Descriptor: descriptor.Name,
				Expected:   req.Count,
				Received:   len(fresh),
				Message:    fmt.Sprintf("insufficient new questions after removing duplicates: expected %d, received %d", req.Count, len(fresh)),
			}
		}
		questions = fresh[:req.Count]
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("added coding questions", zap.Int("count", len(questions)))
	return questions, nil
}

// Explain asks the model to walk through a solution.
func (s *Service) Explain(ctx context.Context, req ExplainRequest) (*types.Explanation, error) {
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}
	language := req.Language
	if language == "" {
		language = "unspecified language"
	}

	prompt := prompts.Format(s.explain, map[string]string{
		"Statement": req.Statement,
		"Code":      req.Code,
		"Language":  language,
	})

	var explanation types.Explanation
	_, err := retry.Run(ctx, s.gen, prompt, s.options(shape.Explanation(), retry.SingleObjectAttempts, func(value any) error {
		var e types.Explanation
		if err := (&retry.Result{Value: value}).Decode(&e); err != nil {
			return err
		}
		if err := types.Validate(&e); err != nil {
			return fmt.Errorf("explanation failed validation: %w", err)
		}
		explanation = e
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return &explanation, nil
}

func (s *Service) options(d shape.Descriptor, attempts int, check func(any) error) retry.Options {
	return retry.Options{
		Feature:      Feature,
		Descriptor:   d,
		MaxAttempts:  attempts,
		SnippetLimit: s.snippetLimit,
		IsFatal:      llm.IsCredentialError,
		Logger:       s.logger,
		Check:        check,
	}
}

// decodeQuestions converts shape-validated elements to typed questions,
// dropping any that do not decode.
func decodeQuestions(value any, d shape.Descriptor, logger *zap.Logger) ([]types.CodingQuestion, error) {
	elements, ok := value.([]any)
	if !ok {
		return nil, &shape.ValidationError{Descriptor: d.Name, Message: "expected a JSON array"}
	}

	questions := make([]types.CodingQuestion, 0, len(elements))
	for i, element := range elements {
		var q types.CodingQuestion
		if err := (&retry.Result{Value: element}).Decode(&q); err != nil {
			logger.Debug("dropping undecodable question", zap.Int("index", i), zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &shape.ValidationError{Descriptor: d.Name, Expected: d.Count, Message: "no valid elements"}
	}
	if d.Count > 0 && len(questions) < d.Count {
		return nil, &shape.ValidationError{
			Descriptor: d.Name,
			Expected:   d.Count,
			Received:   len(questions),
			Message:    fmt.Sprintf("insufficient valid elements: expected %d, received %d", d.Count, len(questions)),
		}
	}
	return questions, nil
}

// dedupe drops questions whose statement matches an existing statement or an
// earlier question in the set.
func dedupe(questions []types.CodingQuestion, existing []string) []types.CodingQuestion {
	seen := make(map[string]bool, len(existing)+len(questions))
	for _, e := range existing {
		seen[statementKey(e)] = true
	}

	fresh := make([]types.CodingQuestion, 0, len(questions))
	for _, q := range questions {
		key := statementKey(q.Statement)
		if seen[key] {
			continue
		}
		seen[key] = true
		fresh = append(fresh, q)
	}
	return fresh
}

func statementKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
