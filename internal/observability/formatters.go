// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/career-assistant/internal/ionorm"
	"github.com/jonathan/career-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, then a "... and N more" line.
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintATSReport outputs the overall score, per-section scores and keywords.
func (p *Printer) PrintATSReport(report *types.ATSReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %d/100\n", report.OverallScore))
	sb.WriteString(fmt.Sprintf("Summary:  %s\n", report.Summary))
	sb.WriteString("\n")

	if len(report.SectionScores) > 0 {
		sections := make([]string, 0, len(report.SectionScores))
		for name := range report.SectionScores {
			sections = append(sections, name)
		}
		sort.Strings(sections)

		sb.WriteString("Sections:\n")
		for _, name := range sections {
			sb.WriteString(fmt.Sprintf("  %-14s %3d\n", name, report.SectionScores[name]))
		}
		sb.WriteString("\n")
	}

	if len(report.MatchedKeywords) > 0 {
		sb.WriteString("Matched keywords:\n")
		writeList(&sb, report.MatchedKeywords, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(report.MissingKeywords) > 0 {
		sb.WriteString("Missing keywords:\n")
		writeList(&sb, report.MissingKeywords, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(report.Suggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		writeList(&sb, report.Suggestions, 3)
	}

	p.printBox("ATS REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCodingQuestions outputs the title and difficulty of each question.
func (p *Printer) PrintCodingQuestions(questions []types.CodingQuestion) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d questions:\n\n", len(questions)))

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := questions[i]
		title := q.Title
		if title == "" {
			title = q.Statement
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Difficulty: %s", q.Difficulty))
		if len(q.TestCases) > 0 {
			sb.WriteString(fmt.Sprintf("  Test cases: %d", len(q.TestCases)))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more questions", len(questions)-maxItemsToShow))
	}

	p.printBox("CODING QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterviewQuestions outputs each question with the start of its answer.
func (p *Printer) PrintInterviewQuestions(questions []types.InterviewQA) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d questions:\n\n", len(questions)))

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		qa := questions[i]
		sb.WriteString(fmt.Sprintf("Q: %s\n", qa.Question))
		sb.WriteString(fmt.Sprintf("A: %s\n", truncate(qa.Answer, 50)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more questions", len(questions)-maxItemsToShow))
	}

	p.printBox("INTERVIEW QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs both normalized values of an output comparison.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintComparison(c ionorm.Comparison) {
	if c.Passed {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ OUTPUTS MATCH")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString("Expected:\n")
	for _, line := range strings.Split(c.Expected, "\n") {
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}
	sb.WriteString("\nActual:\n")
	for _, line := range strings.Split(c.Actual, "\n") {
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}

	p.printBox("⚠ OUTPUT MISMATCH", strings.TrimSuffix(sb.String(), "\n"))
}
