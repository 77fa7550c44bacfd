package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/ats"
	"github.com/jonathan/career-assistant/internal/coding"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/jonathan/career-assistant/internal/server"
	"github.com/jonathan/career-assistant/internal/templates"
)

// loadSettings resolves the effective configuration; --api-key wins over the
// environment and the config file.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	return cfg, nil
}

// verbosePrinter returns a stderr printer when --verbose is set, else nil.
func verbosePrinter(cmd *cobra.Command) *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}

var errMissingAPIKey = errors.New("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")

// newLLMClient is replaced in tests.
var newLLMClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

// app is the set of feature services built from one configuration.
type app struct {
	client   llm.Client
	services server.Services
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	if cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}

	client, err := newLLMClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	lib, err := prompts.Load()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	domains := config.NewDomainRegistry(cfg.TrustedDomains)
	standard := llm.ForTier(client, llm.TierStandard)

	return &app{
		client: client,
		services: server.Services{
			ATS:       ats.NewService(llm.ForTier(client, llm.TierAdvanced), lib, cfg.SnippetLimit, logger),
			Coding:    coding.NewService(standard, lib, cfg.SnippetLimit, logger),
			Interview: interview.NewService(standard, lib, cfg.SnippetLimit, cfg.InterviewWorkers, logger),
			Templates: templates.NewService(llm.ForTier(client, llm.TierLite), lib, domains, cfg.SnippetLimit, logger),
		},
	}, nil
}

func (a *app) Close() error {
	return a.client.Close()
}

// writeResult writes v as indented JSON to path, or to out when path is
// empty, and checks it against schemaFile when that schema can be found.
// Stdout output is checked before printing; a file is checked once written.
func writeResult(out io.Writer, path string, v any, schemaFile string) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	schemaPath := ""
	if schemaFile != "" {
		schemaPath = schemas.ResolveSchemaPath("schemas/" + schemaFile)
	}

	if path == "" {
		if schemaPath != "" {
			if err := checkSchema(schemaPath, jsonBytes); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(out, string(jsonBytes))
		return err
	}

	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if schemaPath != "" {
		if err := schemaFailure(schemas.ValidateJSON(schemaPath, path)); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(out, "Output: %s\n", path)
	return nil
}

// checkSchema validates an in-memory document against the schema file.
func checkSchema(schemaPath string, doc []byte) error {
	schemaContent, err := os.ReadFile(schemaPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not read schema %s: %v\n", schemaPath, err)
		return nil
	}
	return schemaFailure(schemas.ValidateJSONString(string(schemaContent), string(doc)))
}

// schemaFailure fails only when the document violates the schema; a schema
// that cannot be loaded is reported on stderr and ignored.
func schemaFailure(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Errorf("generated JSON does not validate against schema: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate output against schema: %v\n", err)
	return nil
}
