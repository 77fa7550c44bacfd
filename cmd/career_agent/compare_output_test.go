package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareOutput(t *testing.T) {
	tests := []struct {
		name   string
		opts   compareOutputOptions
		passed bool
	}{
		{"array spacing", compareOutputOptions{Expected: "[1, 2, 3]", Actual: "1 2 3", Type: "int[]"}, true},
		{"python None", compareOutputOptions{Expected: "null", Actual: "None"}, true},
		{"boolean digits", compareOutputOptions{Expected: "true", Actual: "1", Type: "boolean"}, true},
		{"matrix", compareOutputOptions{Expected: "[[1,2],[3,4]]", Actual: "[1, 2]\n[3, 4]", Format: "matrix"}, true},
		{"float vs int", compareOutputOptions{Expected: "1.0", Actual: "1", Type: "float"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := compareOutput(&out, tt.opts)
			if tt.passed {
				require.NoError(t, err)
				assert.Contains(t, out.String(), "PASS")
				return
			}
			assert.ErrorIs(t, err, errOutputMismatch)
			assert.Contains(t, out.String(), "FAIL")
		})
	}
}

func TestCompareOutput_FromFiles(t *testing.T) {
	var out bytes.Buffer

	err := compareOutput(&out, compareOutputOptions{
		ExpectedFile: writeTemp(t, "expected.txt", "[4, 5]\n"),
		ActualFile:   writeTemp(t, "actual.txt", "4 5"),
		Type:         "int[]",
	})

	require.NoError(t, err)
}

func TestCompareOutput_MissingFile(t *testing.T) {
	err := compareOutput(&bytes.Buffer{}, compareOutputOptions{ExpectedFile: "nope.txt"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
