// Package ats scores a resume against a job description the way an applicant
// tracking system would.
package ats

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/shape"
	"github.com/jonathan/career-assistant/internal/types"
)

// Feature is the label used in logs, metrics and stored results.
const Feature = "ats"

const promptFile = "ats.json"

// Request is a resume/job pair to score.
type Request struct {
	ResumeText     string `json:"resumeText" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Service scores resumes.
type Service struct {
	gen              llm.TextGenerator
	scoreTemplate    string
	escalateTemplate string
	snippetLimit     int
	logger           *zap.Logger
}

// NewService builds a Service. lib must contain ats.json.
func NewService(gen llm.TextGenerator, lib *prompts.Library, snippetLimit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		gen:              gen,
		scoreTemplate:    lib.MustGet(promptFile, "score"),
		escalateTemplate: lib.MustGet(promptFile, "escalate"),
		snippetLimit:     snippetLimit,
		logger:           logger.Named(Feature),
	}
}

// rawReport accepts fractional scores from the model.
type rawReport struct {
	OverallScore    float64            `json:"overallScore"`
	SectionScores   map[string]float64 `json:"sectionScores"`
	Summary         string             `json:"summary"`
	MatchedKeywords []string           `json:"matchedKeywords"`
	MissingKeywords []string           `json:"missingKeywords"`
	Suggestions     []string           `json:"suggestions"`
}

// Score asks the model for an ATS report. The first attempt uses the normal
// prompt; the retry uses a stricter raw-JSON-only prompt.
func (s *Service) Score(ctx context.Context, req Request) (*types.ATSReport, error) {
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}

	data := map[string]string{
		"ResumeText":     req.ResumeText,
		"JobDescription": req.JobDescription,
	}

	var report *types.ATSReport
	_, err := retry.Run(ctx, s.gen, prompts.Format(s.scoreTemplate, data), retry.Options{
		Feature:          Feature,
		Descriptor:       shape.Scoring(),
		MaxAttempts:      retry.SingleObjectAttempts,
		EscalationPrompt: prompts.Format(s.escalateTemplate, data),
		SnippetLimit:     s.snippetLimit,
		IsFatal:          llm.IsCredentialError,
		Logger:           s.logger,
		Check: func(value any) error {
			r, err := toReport(value)
			if err != nil {
				return err
			}
			report = r
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resume scored", zap.Int("overall_score", report.OverallScore))
	return report, nil
}

func toReport(value any) (*types.ATSReport, error) {
	var raw rawReport
	if err := (&retry.Result{Value: value}).Decode(&raw); err != nil {
		return nil, err
	}

	report := &types.ATSReport{
		OverallScore:    clampScore(raw.OverallScore),
		SectionScores:   make(map[string]int, len(raw.SectionScores)),
		Summary:         raw.Summary,
		MatchedKeywords: nonNil(raw.MatchedKeywords),
		MissingKeywords: nonNil(raw.MissingKeywords),
		Suggestions:     nonNil(raw.Suggestions),
	}
	for section, score := range raw.SectionScores {
		report.SectionScores[section] = clampScore(score)
	}

	if err := types.Validate(report); err != nil {
		return nil, fmt.Errorf("ats report failed validation: %w", err)
	}
	return report, nil
}

// clampScore rounds to the nearest integer within [0, 100].
func clampScore(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
