// Package templates generates professional email templates.
package templates

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/retry"
	"github.com/jonathan/career-assistant/internal/shape"
	"github.com/jonathan/career-assistant/internal/types"
)

// Feature is the label used in logs, metrics and stored results.
const Feature = "templates"

const promptFile = "templates.json"

// urlPattern finds http(s) URLs in generated text.
var urlPattern = regexp.MustCompile(`https?://[^\s<>()"']+`)

// Request describes the email to write.
type Request struct {
	Purpose   string `json:"purpose" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Tone      string `json:"tone"`
	Details   string `json:"details"`
}

// Service writes email templates.
type Service struct {
	gen          llm.TextGenerator
	template     string
	domains      *config.DomainRegistry
	snippetLimit int
	logger       *zap.Logger
}

// NewService builds a Service. Only links on domains are kept in results.
func NewService(gen llm.TextGenerator, lib *prompts.Library, domains *config.DomainRegistry, snippetLimit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		gen:          gen,
		template:     lib.MustGet(promptFile, "email"),
		domains:      domains,
		snippetLimit: snippetLimit,
		logger:       logger.Named(Feature),
	}
}

// Generate writes an email. URLs in the body that are not on a trusted
// domain are removed; Links lists the trusted URLs, without duplicates.
func (s *Service) Generate(ctx context.Context, req Request) (*types.EmailTemplate, error) {
	if err := types.ValidateRequest(&req); err != nil {
		return nil, err
	}
	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}

	prompt := prompts.Format(s.template, map[string]string{
		"Purpose":        req.Purpose,
		"Recipient":      req.Recipient,
		"Tone":           tone,
		"Details":        req.Details,
		"TrustedDomains": strings.Join(s.domains.Domains(), ", "),
	})

	var email types.EmailTemplate
	_, err := retry.Run(ctx, s.gen, prompt, retry.Options{
		Feature:      Feature,
		Descriptor:   shape.EmailTemplate(),
		MaxAttempts:  retry.SingleObjectAttempts,
		SnippetLimit: s.snippetLimit,
		IsFatal:      llm.IsCredentialError,
		Logger:       s.logger,
		Check: func(value any) error {
			var e types.EmailTemplate
			if err := (&retry.Result{Value: value}).Decode(&e); err != nil {
				return err
			}
			if err := types.Validate(&e); err != nil {
				return fmt.Errorf("email template failed validation: %w", err)
			}
			email = e
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	cleaned, dropped := s.filterLinks(email)
	if dropped > 0 {
		s.logger.Warn("removed untrusted links", zap.Int("dropped", dropped))
	}
	return cleaned, nil
}

// filterLinks strips untrusted URLs from the body and rebuilds Links from
// the trusted URLs in the original Links and the body.
func (s *Service) filterLinks(email types.EmailTemplate) (*types.EmailTemplate, int) {
	dropped := 0
	seen := make(map[string]bool)
	links := []string{}
	keep := func(u string) bool {
		if !s.domains.Allows(u) {
			return false
		}
		if !seen[u] {
			seen[u] = true
			links = append(links, u)
		}
		return true
	}

	for _, link := range email.Links {
		if !keep(trimURL(strings.TrimSpace(link))) {
			dropped++
		}
	}

	body := urlPattern.ReplaceAllStringFunc(email.Body, func(match string) string {
		u := trimURL(match)
		if keep(u) {
			return match
		}
		dropped++
		return match[len(u):]
	})

	return &types.EmailTemplate{
		Subject: strings.TrimSpace(email.Subject),
		Body:    strings.TrimSpace(body),
		Links:   links,
	}, dropped
}

// trimURL drops sentence punctuation the URL pattern picks up at the end.
func trimURL(u string) string {
	return strings.TrimRight(u, ".,;:!?")
}
