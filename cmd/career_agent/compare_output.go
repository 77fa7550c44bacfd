package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/ionorm"
	"github.com/jonathan/career-assistant/internal/observability"
)

var compareOutputCmd = &cobra.Command{
	Use:   "compare-output",
	Short: "Compare a program output with the expected output",
	Long:  "Normalize an expected and an actual program output the way the grader does and report whether they match. Exits non-zero on mismatch.",
	RunE:  runCompareOutput,
}

type compareOutputOptions struct {
	Expected     string
	Actual       string
	ExpectedFile string
	ActualFile   string
	Format       string
	Type         string
	Printer      *observability.Printer
}

var compareOpts compareOutputOptions

var errOutputMismatch = errors.New("outputs do not match")

func init() {
	f := compareOutputCmd.Flags()
	f.StringVar(&compareOpts.Expected, "expected", "", "Expected output text")
	f.StringVar(&compareOpts.Actual, "actual", "", "Actual output text")
	f.StringVar(&compareOpts.ExpectedFile, "expected-file", "", "Read the expected output from a file")
	f.StringVar(&compareOpts.ActualFile, "actual-file", "", "Read the actual output from a file")
	f.StringVar(&compareOpts.Format, "format", string(ionorm.SingleLine), "Output format: single_line, multi_line or matrix")
	f.StringVar(&compareOpts.Type, "type", "", "Declared return type, e.g. int[], boolean, string")
	compareOutputCmd.MarkFlagsMutuallyExclusive("expected", "expected-file")
	compareOutputCmd.MarkFlagsMutuallyExclusive("actual", "actual-file")

	rootCmd.AddCommand(compareOutputCmd)
}

func runCompareOutput(cmd *cobra.Command, _ []string) error {
	compareOpts.Printer = verbosePrinter(cmd)
	return compareOutput(cmd.OutOrStdout(), compareOpts)
}

func compareOutput(out io.Writer, opts compareOutputOptions) error {
	expected, err := textOrFile(opts.Expected, opts.ExpectedFile)
	if err != nil {
		return err
	}
	actual, err := textOrFile(opts.Actual, opts.ActualFile)
	if err != nil {
		return err
	}

	c := ionorm.ValidateOutput(expected, actual, ionorm.ParseFormat(opts.Format), opts.Type)
	if opts.Printer != nil {
		opts.Printer.PrintComparison(c)
	}
	if c.Passed {
		_, _ = fmt.Fprintf(out, "PASS\n  value: %q\n", c.Actual)
		return nil
	}
	_, _ = fmt.Fprintf(out, "FAIL\n  expected: %q\n  actual:   %q\n", c.Expected, c.Actual)
	return errOutputMismatch
}

func textOrFile(text, path string) (string, error) {
	if path == "" {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
