package coding

import (
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/ionorm"
	"github.com/jonathan/career-assistant/internal/types"
)

// GradeRequest pairs a question with the outputs a submission produced, one
// per test case in order.
type GradeRequest struct {
	Question types.CodingQuestion `json:"question"`
	Outputs  []string             `json:"outputs"`
}

// Grade compares each output with the expected output of the matching test
// case. A missing output is treated as empty and normalizes to "null".
func Grade(req GradeRequest) (*types.GradeReport, error) {
	cases := req.Question.TestCases
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: question has no test cases", types.ErrInvalidRequest)
	}
	if len(req.Outputs) > len(cases) {
		return nil, fmt.Errorf("%w: %d outputs for %d test cases", types.ErrInvalidRequest, len(req.Outputs), len(cases))
	}

	inputFormat := ionorm.ParseFormat(req.Question.InputFormat)
	outputFormat := outputFormatFor(req.Question.ReturnType)

	report := &types.GradeReport{
		Results: make([]types.CaseResult, 0, len(cases)),
		Total:   len(cases),
	}
	for i, tc := range cases {
		var actual string
		if i < len(req.Outputs) {
			actual = req.Outputs[i]
		}

		cmp := ionorm.ValidateOutput(string(tc.ExpectedOutput), actual, outputFormat, req.Question.ReturnType)
		report.Results = append(report.Results, types.CaseResult{
			Index:    i,
			Input:    ionorm.NormalizeInput(string(tc.Input), inputFormat, req.Question.ParamTypes),
			Expected: cmp.Expected,
			Actual:   cmp.Actual,
			Passed:   cmp.Passed,
		})
		if cmp.Passed {
			report.Passed++
		}
	}
	report.AllPassed = report.Passed == report.Total
	return report, nil
}

// outputFormatFor picks Matrix for two-dimensional return types.
func outputFormatFor(returnType string) ionorm.Format {
	if strings.Contains(returnType, "[][]") {
		return ionorm.Matrix
	}
	return ionorm.SingleLine
}
