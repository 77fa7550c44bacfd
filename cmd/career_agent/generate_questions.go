package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/coding"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/logging"
	"github.com/jonathan/career-assistant/internal/observability"
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate coding or interview practice questions",
	Long:  "Generate coding problems (--kind coding) or interview questions with model answers (--kind interview) and print them as JSON.",
	RunE:  runGenerateQuestions,
}

// Question kinds accepted by --kind.
const (
	kindCoding    = "coding"
	kindInterview = "interview"
)

type generateQuestionsOptions struct {
	Kind       string
	Topic      string
	Difficulty string
	Role       string
	Experience string
	Count      int
	OutputFile string
	Printer    *observability.Printer
}

var genOpts generateQuestionsOptions

func init() {
	f := generateQuestionsCmd.Flags()
	f.StringVar(&genOpts.Kind, "kind", kindCoding, "Question kind: coding or interview")
	f.StringVarP(&genOpts.Topic, "topic", "t", "", "Topic, e.g. \"graphs\" or \"system design\" (required)")
	f.StringVar(&genOpts.Difficulty, "difficulty", "medium", "Coding difficulty: easy, medium or hard")
	f.StringVar(&genOpts.Role, "role", "", "Target role (interview only)")
	f.StringVar(&genOpts.Experience, "experience", "", "Experience level (interview only)")
	f.IntVarP(&genOpts.Count, "count", "n", 0, "Number of questions (default depends on kind)")
	f.StringVarP(&genOpts.OutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = generateQuestionsCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(generateQuestionsCmd)
}

func runGenerateQuestions(cmd *cobra.Command, _ []string) error {
	if err := genOpts.validate(); err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger, flush := logging.Init(cfg.LogLevel)
	defer flush()

	genOpts.Printer = verbosePrinter(cmd)
	return generateQuestions(cmd.Context(), cmd.OutOrStdout(), cfg, logger, genOpts)
}

func (o generateQuestionsOptions) validate() error {
	switch o.Kind {
	case kindCoding:
		return nil
	case kindInterview:
		if o.Role == "" {
			return fmt.Errorf("--role is required with --kind interview")
		}
		return nil
	default:
		return fmt.Errorf("unknown --kind %q (want coding or interview)", o.Kind)
	}
}

func generateQuestions(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger, opts generateQuestionsOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if opts.Kind == kindInterview {
		questions, err := a.services.Interview.Generate(ctx, interview.Request{
			Role:       opts.Role,
			Experience: opts.Experience,
			Topic:      opts.Topic,
			Count:      opts.Count,
		})
		if err != nil {
			return fmt.Errorf("failed to generate interview questions: %w", err)
		}
		if opts.Printer != nil {
			opts.Printer.PrintInterviewQuestions(questions)
		}
		return writeResult(out, opts.OutputFile, questions, "interview_questions.schema.json")
	}

	questions, err := a.services.Coding.Generate(ctx, coding.Request{
		Topic:      opts.Topic,
		Difficulty: opts.Difficulty,
		Count:      opts.Count,
	})
	if err != nil {
		return fmt.Errorf("failed to generate coding questions: %w", err)
	}
	if opts.Printer != nil {
		opts.Printer.PrintCodingQuestions(questions)
	}
	return writeResult(out, opts.OutputFile, questions, "coding_questions.schema.json")
}
