// Package ionorm canonicalizes test-case inputs and program outputs so two
// values can be compared as plain strings regardless of formatting.
//
// The rules are deliberately textual: "[1, 2]" and "1 2" compare equal, but
// "1.0" and "1" do not.
package ionorm

import (
	"regexp"
	"strings"
)

// Format is the layout of a value's text.
type Format string

const (
	// SingleLine values occupy one logical line (the default).
	SingleLine Format = "single_line"
	// MultiLine values have one parameter or item per line.
	MultiLine Format = "multi_line"
	// Matrix values have one row per line, or a nested array on one line.
	Matrix Format = "matrix"
)

// ParseFormat maps a declared format name to a Format, defaulting to SingleLine.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case MultiLine:
		return MultiLine
	case Matrix:
		return Matrix
	default:
		return SingleLine
	}
}

// Declared type names with special handling.
const (
	TypeBoolean = "boolean"
	TypeString  = "string"
)

// NullSentinel is the canonical form of an absent value.
const NullSentinel = "null"

// NormalizeInput canonicalizes a test-case input. types lists the declared
// parameter types in order; in multi_line input a line declared "string" is
// only trimmed.
func NormalizeInput(raw string, format Format, types []string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	switch format {
	case MultiLine:
		lines := splitLines(raw)
		for i, line := range lines {
			if isStringType(typeAt(types, i)) {
				lines[i] = line
				continue
			}
			lines[i] = normalizeArrayText(line)
		}
		return strings.Join(lines, "\n")
	case Matrix:
		return normalizeMatrix(raw)
	default:
		return normalizeArrayText(raw)
	}
}

// NormalizeOutput canonicalizes a program or expected output. Empty text and
// none/null/undefined become "null"; booleans become "true"/"false".
func NormalizeOutput(raw string, format Format, typ string) string {
	text := strings.TrimSpace(raw)
	if isNullish(text) {
		return NullSentinel
	}

	if strings.EqualFold(strings.TrimSpace(typ), TypeBoolean) {
		switch strings.ToLower(text) {
		case "true", "1":
			return "true"
		case "false", "0":
			return "false"
		}
	}

	switch format {
	case MultiLine:
		lines := splitLines(text)
		for i, line := range lines {
			lines[i] = normalizeArrayText(line)
		}
		return strings.Join(lines, "\n")
	case Matrix:
		return normalizeMatrix(text)
	default:
		return normalizeArrayText(text)
	}
}

// Comparison is the result of ValidateOutput.
type Comparison struct {
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ValidateOutput normalizes both sides and compares them for exact equality.
func ValidateOutput(expected, actual string, format Format, typ string) Comparison {
	exp := NormalizeOutput(expected, format, typ)
	act := NormalizeOutput(actual, format, typ)
	return Comparison{
		Passed:   exp == act,
		Expected: exp,
		Actual:   act,
	}
}

// normalizeArrayText turns "[1, 2,3]" into "1 2 3". Text without both
// brackets is only trimmed.
func normalizeArrayText(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "[") || !strings.Contains(text, "]") {
		return text
	}
	text = strings.NewReplacer("[", " ", "]", " ", ",", " ").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

var (
	nestedRows = regexp.MustCompile(`^\[\s*\[(.*)\]\s*\]$`)
	rowSep     = regexp.MustCompile(`\]\s*,\s*\[`)
)

// normalizeMatrix writes one row per line. A nested array on a single line
// ("[[1,2], [3,4]]") is first split into rows.
func normalizeMatrix(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "\n") {
		if m := nestedRows.FindStringSubmatch(text); m != nil {
			rows := rowSep.Split(m[1], -1)
			for i, row := range rows {
				rows[i] = normalizeArrayText("[" + row + "]")
			}
			return strings.Join(rows, "\n")
		}
	}

	lines := splitLines(text)
	for i, line := range lines {
		if looksLikeRow(line) {
			lines[i] = normalizeArrayText(line)
		}
	}
	return strings.Join(lines, "\n")
}

func looksLikeRow(line string) bool {
	return strings.HasPrefix(line, "[") && strings.Contains(line, "]")
}

// splitLines splits on \n (dropping \r) and trims every line.
func splitLines(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	}
	return lines
}

func isNullish(text string) bool {
	switch strings.ToLower(text) {
	case "", "none", "null", "undefined":
		return true
	}
	return false
}

func isStringType(typ string) bool {
	return strings.EqualFold(strings.TrimSpace(typ), TypeString)
}

func typeAt(types []string, i int) string {
	if i < len(types) {
		return types[i]
	}
	return ""
}
