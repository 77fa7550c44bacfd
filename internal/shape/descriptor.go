// Package shape checks decoded model output against the minimum structure a
// feature needs before the value is trusted downstream.
package shape

import (
	"encoding/json"
	"sort"

	"github.com/jonathan/career-assistant/internal/llm"
)

// Descriptor declares what a decoded value must look like.
type Descriptor struct {
	// Name identifies the contract in diagnostics ("ats-score", ...).
	Name string
	// Shape is the expected top-level kind.
	Shape llm.Shape
	// Required lists top-level object keys that must be present and truthy.
	Required []string
	// Element holds the per-element rules for array results.
	Element ElementRules
	// Count, when positive, is the minimum number of valid elements an array
	// must yield. Extra valid elements are cut to Count.
	Count int
}

// ElementRules are the per-element checks for array results. Elements that
// fail them are dropped, not fatal.
type ElementRules struct {
	// NonEmpty keys must hold a string with at least one non-space character.
	NonEmpty []string
	// Arrays keys must hold a JSON array (empty is fine).
	Arrays []string
}

func (r ElementRules) empty() bool {
	return len(r.NonEmpty) == 0 && len(r.Arrays) == 0
}

// jsonSchema renders the rules as a JSON Schema document. Keys are sorted so
// identical rules produce identical documents.
func (r ElementRules) jsonSchema() string {
	properties := make(map[string]any, len(r.NonEmpty)+len(r.Arrays))
	required := make([]string, 0, len(r.NonEmpty)+len(r.Arrays))

	for _, key := range r.NonEmpty {
		properties[key] = map[string]any{"type": "string", "pattern": `\S`}
		required = append(required, key)
	}
	for _, key := range r.Arrays {
		properties[key] = map[string]any{"type": "array"}
		required = append(required, key)
	}
	sort.Strings(required)

	doc := map[string]any{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}
	out, _ := json.Marshal(doc) // maps of strings always marshal
	return string(out)
}

// WithCount returns a copy of d requiring at least n valid elements.
func (d Descriptor) WithCount(n int) Descriptor {
	d.Count = n
	return d
}

// Scoring is the ATS score contract.
func Scoring() Descriptor {
	return Descriptor{
		Name:     "ats-score",
		Shape:    llm.ShapeObject,
		Required: []string{"overallScore", "sectionScores", "summary"},
	}
}

// Explanation is the contract for a single solution explanation.
func Explanation() Descriptor {
	return Descriptor{
		Name:     "explanation",
		Shape:    llm.ShapeObject,
		Required: []string{"explanation", "timeComplexity"},
	}
}

// EmailTemplate is the contract for a generated email.
func EmailTemplate() Descriptor {
	return Descriptor{
		Name:     "email-template",
		Shape:    llm.ShapeObject,
		Required: []string{"subject", "body"},
	}
}

// CodingQuestions is the contract for a generated coding question set. A
// positive count makes a short set a failure.
func CodingQuestions(count int) Descriptor {
	return Descriptor{
		Name:  "coding-questions",
		Shape: llm.ShapeArray,
		Element: ElementRules{
			NonEmpty: []string{"statement", "difficulty"},
			Arrays:   []string{"constraints", "examples"},
		},
		Count: count,
	}
}

// InterviewQuestions is the contract for generated interview Q&A pairs.
func InterviewQuestions(count int) Descriptor {
	return Descriptor{
		Name:  "interview-questions",
		Shape: llm.ShapeArray,
		Element: ElementRules{
			NonEmpty: []string{"question", "answer"},
		},
		Count: count,
	}
}
