package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, DefaultListLimit, clampLimit(-4))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxListLimit, clampLimit(MaxListLimit+1))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS results")
	assert.Contains(t, schemaSQL, "content     JSONB NOT NULL")
}

func TestResult_JSONKeepsRawContent(t *testing.T) {
	r := Result{
		ID:        uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Feature:   "ats",
		Content:   json.RawMessage(`{"overallScore":78}`),
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "550e8400-e29b-41d4-a716-446655440000",
		"feature": "ats",
		"content": {"overallScore": 78},
		"created_at": "2026-01-02T03:04:05Z"
	}`, string(out))
}
