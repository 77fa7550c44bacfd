//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATSReport_Validation(t *testing.T) {
	tests := []struct {
		name    string
		report  ATSReport
		wantErr bool
	}{
		{
			name: "valid",
			report: ATSReport{
				OverallScore:  78,
				SectionScores: map[string]int{"skills": 80},
				Summary:       "Good fit",
			},
		},
		{
			name: "score out of range",
			report: ATSReport{
				OverallScore:  120,
				SectionScores: map[string]int{"skills": 80},
				Summary:       "x",
			},
			wantErr: true,
		},
		{
			name: "section score out of range",
			report: ATSReport{
				OverallScore:  50,
				SectionScores: map[string]int{"skills": -1},
				Summary:       "x",
			},
			wantErr: true,
		},
		{
			name:    "missing sections and summary",
			report:  ATSReport{OverallScore: 50},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.report)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCodingQuestion_UnmarshalLooseExamples(t *testing.T) {
	data := `{
		"statement": "Sum two numbers",
		"difficulty": "easy",
		"constraints": ["-10^9 <= a, b <= 10^9"],
		"examples": ["a = 1, b = 2", {"input": [1, 2], "output": 3, "explanation": "1 + 2"}],
		"testCases": [{"input": "1 2", "expectedOutput": null}]
	}`

	var q CodingQuestion
	require.NoError(t, json.Unmarshal([]byte(data), &q))

	require.Len(t, q.Examples, 2)
	assert.Equal(t, FlexString("a = 1, b = 2"), q.Examples[0].Input)
	assert.Equal(t, FlexString("[1,2]"), q.Examples[1].Input)
	assert.Equal(t, FlexString("3"), q.Examples[1].Output)
	assert.Equal(t, "1 + 2", q.Examples[1].Explanation)
	assert.Equal(t, FlexString(""), q.TestCases[0].ExpectedOutput)
	assert.NoError(t, Validate(&q))
}

func TestFlexString_Marshal(t *testing.T) {
	out, err := json.Marshal(TestCase{Input: "[1,2]", ExpectedOutput: "3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"input": "[1,2]", "expectedOutput": "3"}`, string(out))
}

func TestInterviewQA_Validation(t *testing.T) {
	assert.NoError(t, Validate(&InterviewQA{Question: "Q", Answer: "A"}))
	assert.Error(t, Validate(&InterviewQA{Question: "Q"}))
}

func TestEmailTemplate_Validation(t *testing.T) {
	assert.NoError(t, Validate(&EmailTemplate{Subject: "Hi", Body: "Hello"}))
	assert.Error(t, Validate(&EmailTemplate{Body: "Hello"}))
}

func TestExplanation_Validation(t *testing.T) {
	assert.NoError(t, Validate(&Explanation{Explanation: "loop", TimeComplexity: "O(n)"}))
	assert.Error(t, Validate(&Explanation{Explanation: "loop"}))
}

func TestValidateRequest_WrapsSentinel(t *testing.T) {
	err := ValidateRequest(&InterviewQA{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.NoError(t, ValidateRequest(&InterviewQA{Question: "q", Answer: "a"}))
}
