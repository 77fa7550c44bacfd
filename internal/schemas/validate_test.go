package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionSchema = `{
  "type": "object",
  "required": ["statement", "difficulty"],
  "properties": {
    "statement": {"type": "string", "minLength": 1},
    "difficulty": {"type": "string", "minLength": 1},
    "examples": {"type": "array"}
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateJSON_Valid(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", questionSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"statement": "Reverse a list", "difficulty": "easy", "examples": []}`)

	assert.NoError(t, ValidateJSON(schemaPath, jsonPath))
}

func TestValidateJSON_MissingField(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", questionSchema)
	jsonPath := writeFile(t, dir, "doc.json", `{"statement": "Reverse a list"}`)

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, []string{"difficulty"}, validationErr.Fields())
}

func TestValidateJSON_NotFound(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.json", questionSchema)

	err := ValidateJSON(filepath.Join(dir, "missing_schema.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(schemaPath, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(questionSchema, `{"statement": "a", "difficulty": "b"}`))

	err := ValidateJSONString(questionSchema, `{"statement": "", "difficulty": "b"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"statement"}, validationErr.Fields())
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestCompile_ValidateValue(t *testing.T) {
	schema, err := Compile(questionSchema)
	require.NoError(t, err)

	assert.NoError(t, schema.ValidateValue(map[string]any{
		"statement":  "Two sum",
		"difficulty": "medium",
		"examples":   []any{},
	}))

	err = schema.ValidateValue(map[string]any{"statement": "Two sum", "examples": "none"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"difficulty", "examples"}, validationErr.Fields())
	assert.Contains(t, validationErr.Error(), "validation failed")
}

func TestCached_ReusesCompiledSchema(t *testing.T) {
	first, err := Cached(questionSchema)
	require.NoError(t, err)
	second, err := Cached(questionSchema)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestResolveSchemaPath(t *testing.T) {
	assert.Equal(t, "", ResolveSchemaPath("schemas/does_not_exist.schema.json"))
	// the repo schemas live two levels up from this package
	assert.NotEmpty(t, ResolveSchemaPath("schemas/ats_report.schema.json"))
}
