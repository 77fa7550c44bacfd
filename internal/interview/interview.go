// Package interview generates interview questions with model answers.
package interview

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/shape"
	"github.com/jonathan/career-assistant/internal/types"
)

// Feature is the label used in logs, metrics and stored results.
const Feature = "interview"

// Defaults applied when a request or constructor leaves them unset.
const (
	DefaultCount   = 5
	DefaultWorkers = 3
)

const promptFile = "interview.json"

// Request asks for questions on one topic.
type Request struct {
	Role       string `json:"role" validate:"required"`
	Experience string `json:"experience"`
	Topic      string `json:"topic" validate:"required"`
	Count      int    `json:"count" validate:"gte=0,lte=20"`
}

// BatchRequest asks for questions on several topics for the same role.
type BatchRequest struct {
	Role       string   `json:"role" validate:"required"`
	Experience string   `json:"experience"`
	Topics     []string `json:"topics" validate:"required,min=1,max=10,dive,required"`
	Count      int      `json:"count" validate:"gte=0,lte=20"`
}

// Service generates interview Q&A.
type Service struct {
	gen          llm.TextGenerator
	template     string
	snippetLimit int
	workers      int
	logger       *zap.Logger
}

// NewService builds a Service. workers bounds concurrent topics in
// GenerateBatch; zero means DefaultWorkers.
func NewService(gen llm.TextGenerator, lib *prompts.Library, snippetLimit, workers int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Service{
		gen:          gen,
		template:     lib.MustGet(promptFile, "generate"),
		snippetLimit: snippetLimit,
		workers:      workers,
		logger:       logger.Named(Feature),
	}
}

// Generate returns req.Count question/answer pairs. Pairs with an empty
// question or answer are dropped; fewer than req.Count valid pairs is a
// validation failure and is retried.
func (s *Service) Generate(ctx context.Context, req Request) ([]types.InterviewQA, error) {
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		req.Count = DefaultCount
	}
	experience := req.Experience
	if experience == "" {
		experience = "an unspecified amount"
	}

	prompt := prompts.Format(s.template, map[string]string{
		"Role":       req.Role,
		"Experience": experience,
		"Topic":      req.Topic,
		"Count":      strconv.Itoa(req.Count),
	})

	result, err := retry.Run(ctx, s.gen, prompt, retry.Options{
		Feature:      Feature,
		Descriptor:   shape.InterviewQuestions(req.Count),
		MaxAttempts:  retry.ArrayAttempts,
		SnippetLimit: s.snippetLimit,
		IsFatal:      llm.IsCredentialError,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}

	var pairs []types.InterviewQA
	if err := result.Decode(&pairs); err != nil {
		return nil, err
	}
	s.logger.Info("generated interview questions",
		zap.String("topic", req.Topic),
		zap.Int("count", len(pairs)),
		zap.Int("attempts", result.Attempts))
	return pairs, nil
}

// GenerateBatch runs Generate for every topic, at most s.workers at a time.
// Each topic gets its own retry budget. Results keep the order of
// req.Topics; the first failure cancels the remaining topics.
func (s *Service) GenerateBatch(ctx context.Context, req BatchRequest) ([]types.InterviewSet, error) {
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}

	sets := make([]types.InterviewSet, len(req.Topics))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, topic := range req.Topics {
		g.Go(func() error {
			pairs, err := s.Generate(gCtx, Request{
				Role:       req.Role,
				Experience: req.Experience,
				Topic:      topic,
				Count:      req.Count,
			})
			if err != nil {
				return fmt.Errorf("topic %q: %w", topic, err)
			}
			sets[i] = types.InterviewSet{Topic: topic, Questions: pairs}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
