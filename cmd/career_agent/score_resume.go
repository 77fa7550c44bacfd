package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-assistant/internal/ats"
	"github.com/jonathan/career-assistant/internal/config"
	"github.com/jonathan/career-assistant/internal/logging"
	"github.com/jonathan/career-assistant/internal/observability"
)

var scoreResumeCmd = &cobra.Command{
	Use:   "score-resume",
	Short: "Score a resume against a job description",
	Long:  "Score a plain-text resume against a plain-text job description and print an ATS report that validates against the ats_report schema.",
	RunE:  runScoreResume,
}

type scoreResumeOptions struct {
	ResumeFile string
	JobFile    string
	OutputFile string
	Printer    *observability.Printer
}

var scoreOpts scoreResumeOptions

func init() {
	scoreResumeCmd.Flags().StringVarP(&scoreOpts.ResumeFile, "resume", "r", "", "Path to resume text file (required)")
	scoreResumeCmd.Flags().StringVarP(&scoreOpts.JobFile, "job", "j", "", "Path to job description text file (required)")
	scoreResumeCmd.Flags().StringVarP(&scoreOpts.OutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = scoreResumeCmd.MarkFlagRequired("resume")
	_ = scoreResumeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreResumeCmd)
}

func runScoreResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger, flush := logging.Init(cfg.LogLevel)
	defer flush()

	scoreOpts.Printer = verbosePrinter(cmd)
	return scoreResume(cmd.Context(), cmd.OutOrStdout(), cfg, logger, scoreOpts)
}

func scoreResume(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger, opts scoreResumeOptions) error {
	resume, err := os.ReadFile(opts.ResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	job, err := os.ReadFile(opts.JobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	report, err := a.services.ATS.Score(ctx, ats.Request{
		ResumeText:     string(resume),
		JobDescription: string(job),
	})
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}

	if opts.Printer != nil {
		opts.Printer.PrintATSReport(report)
	}
	return writeResult(out, opts.OutputFile, report, "ats_report.schema.json")
}
