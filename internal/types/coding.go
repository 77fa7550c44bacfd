package types

import (
	"bytes"
	"encoding/json"
)

// FlexString holds a value the model may send as a JSON string or as any
// other JSON value. Strings are kept as-is; anything else keeps its compact
// JSON text, so [1, 2] becomes "[1,2]".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = ""
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*f = FlexString(buf.String())
	return nil
}

// Example is a worked example attached to a coding question.
type Example struct {
	Input       FlexString `json:"input"`
	Output      FlexString `json:"output"`
	Explanation string     `json:"explanation,omitempty"`
}

// UnmarshalJSON accepts either an example object or a bare string, which
// becomes the example's Input.
func (e *Example) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Example{Input: FlexString(s)}
		return nil
	}
	type plain Example
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Example(p)
	return nil
}

// TestCase is one input/expected-output pair used for grading.
type TestCase struct {
	Input          FlexString `json:"input"`
	ExpectedOutput FlexString `json:"expectedOutput"`
}

// CodingQuestion is a generated practice problem.
type CodingQuestion struct {
	Title       string     `json:"title,omitempty"`
	Statement   string     `json:"statement" validate:"required"`
	Difficulty  string     `json:"difficulty" validate:"required"`
	Constraints []string   `json:"constraints"`
	Examples    []Example  `json:"examples"`
	InputFormat string     `json:"inputFormat,omitempty"`
	ParamTypes  []string   `json:"paramTypes,omitempty"`
	ReturnType  string     `json:"returnType,omitempty"`
	TestCases   []TestCase `json:"testCases,omitempty"`
}

// Explanation is the model's walkthrough of a submitted solution.
type Explanation struct {
	Explanation     string   `json:"explanation" validate:"required"`
	TimeComplexity  string   `json:"timeComplexity" validate:"required"`
	SpaceComplexity string   `json:"spaceComplexity,omitempty"`
	Improvements    []string `json:"improvements,omitempty"`
}

// CaseResult is the comparison for one test case.
type CaseResult struct {
	Index    int    `json:"index"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

// GradeReport summarizes a graded submission.
type GradeReport struct {
	Results   []CaseResult `json:"results"`
	Passed    int          `json:"passed"`
	Total     int          `json:"total"`
	AllPassed bool         `json:"allPassed"`
}
