package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"ats_report.schema.json",
	"coding_questions.schema.json",
	"explanation.schema.json",
	"interview_questions.schema.json",
	"email_template.schema.json",
	"grade_report.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON: %s", schemaFile)

			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			_, hasType := schemaObj["type"]
			assert.True(t, hasType, "schema should declare a type")
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err)

			_, err = schemas.Compile(string(data))
			assert.NoError(t, err)
		})
	}
}

func TestSchemaFiles_AcceptValidDocuments(t *testing.T) {
	docs := map[string]string{
		"ats_report.schema.json":          "ats_report.json",
		"coding_questions.schema.json":    "coding_questions.json",
		"interview_questions.schema.json": "interview_questions.json",
		"email_template.schema.json":      "email_template.json",
	}

	for schemaFile, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			err := schemas.ValidateJSON(schemaFile, filepath.Join("..", "testdata", "valid", doc))
			assert.NoError(t, err)
		})
	}
}

func TestSchemaFiles_RejectInvalidDocuments(t *testing.T) {
	tests := []struct {
		schema string
		doc    string
		field  string
	}{
		{"ats_report.schema.json", "ats_report_out_of_range.json", "overallScore"},
		{"interview_questions.schema.json", "interview_questions_missing_answer.json", "0.answer"},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			err := schemas.ValidateJSON(tt.schema, filepath.Join("..", "testdata", "invalid", tt.doc))

			var validationErr *schemas.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields(), tt.field)
		})
	}
}

func TestGradeReportSchema_MatchesEmptyReport(t *testing.T) {
	data, err := os.ReadFile("grade_report.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(data), `{"results": [], "passed": 0, "total": 0, "allPassed": false}`)
	assert.NoError(t, err)
}
