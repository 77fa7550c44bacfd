package llm

import (
	"regexp"
	"strings"
)

// Shape is the top-level JSON kind a caller expects from the model.
type Shape string

const (
	// ShapeObject expects a single JSON object.
	ShapeObject Shape = "object"
	// ShapeArray expects a JSON array.
	ShapeArray Shape = "array"
)

// Delimiters returns the open/close characters bounding the shape.
func (s Shape) Delimiters() (open, close byte) {
	if s == ShapeArray {
		return '[', ']'
	}
	return '{', '}'
}

var (
	fenceOpener = regexp.MustCompile("(?i)^\\s*```(?:json)?\\s*")
	fenceCloser = regexp.MustCompile("\\s*```\\s*$")
)

// StripFences removes a leading ``` / ```json opener and a trailing ``` closer.
func StripFences(text string) string {
	text = fenceOpener.ReplaceAllString(text, "")
	return fenceCloser.ReplaceAllString(text, "")
}

// StripFencesAndBoundaries converts raw model output into the most plausible
// JSON substring for shape. Fences go first, then the text is cut to the span
// from the first opening delimiter to the last closing one. When no ordered
// pair exists the fence-stripped text is returned as is.
//
// Delimiters inside string values are not special-cased: an object whose last
// value contains '}' followed by trailing prose containing '}' is cut at the
// prose brace.
func StripFencesAndBoundaries(raw string, shape Shape) string {
	text := StripFences(raw)

	open, close := shape.Delimiters()
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
