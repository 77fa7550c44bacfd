package ionorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format Format
		types  []string
		want   string
	}{
		{"empty", "   ", SingleLine, nil, ""},
		{"array single line", "[1, 2,3]", SingleLine, []string{"int[]"}, "1 2 3"},
		{"plain scalar", "  42 ", SingleLine, []string{"int"}, "42"},
		{"string brackets stripped", "[abc]", SingleLine, []string{"string"}, "abc"},
		{"multi line trims", "  5 \n  hello  ", MultiLine, []string{"int", "string"}, "5\nhello"},
		{"multi line array per line", "[1, 2]\n 3 ", MultiLine, []string{"int[]", "int"}, "1 2\n3"},
		{"multi line string line untouched", "[x]\n[1,2]", MultiLine, []string{"string", "int[]"}, "[x]\n1 2"},
		{"matrix rows", "[1, 2]\n[3, 4]", Matrix, nil, "1 2\n3 4"},
		{"matrix nested single line", "[[1,2],[3,4]]", Matrix, nil, "1 2\n3 4"},
		{"matrix nested spaced separators", "[[1,2] , [3,4]]", Matrix, nil, "1 2\n3 4"},
		{"matrix nested spaced ends", "[ [1, 2],[3, 4] ]", Matrix, nil, "1 2\n3 4"},
		{"matrix plain rows", "1 2\n3 4", Matrix, nil, "1 2\n3 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInput(tt.raw, tt.format, tt.types))
		})
	}
}

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format Format
		typ    string
		want   string
	}{
		{"empty is null", "", SingleLine, "int", NullSentinel},
		{"None is null", "None", SingleLine, "int", NullSentinel},
		{"undefined is null", " undefined ", SingleLine, "int", NullSentinel},
		{"NULL is null", "NULL", SingleLine, "int", NullSentinel},
		{"boolean one", "1", SingleLine, "boolean", "true"},
		{"boolean True", "True", SingleLine, "boolean", "true"},
		{"boolean zero", "0", SingleLine, "boolean", "false"},
		{"boolean other falls through", "maybe", SingleLine, "boolean", "maybe"},
		{"one is not boolean for int", "1", SingleLine, "int", "1"},
		{"array", "[1,2,3]", SingleLine, "int[]", "1 2 3"},
		{"nested array flattens", "[[1, 2], [3]]", SingleLine, "int[][]", "1 2 3"},
		{"string brackets stripped", " [a] ", SingleLine, "string", "a"},
		{"numbers stay textual", "1.0", SingleLine, "float", "1.0"},
		{"multi line", "[1,2]\n 7", MultiLine, "int[]", "1 2\n7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOutput(tt.raw, tt.format, tt.typ))
		})
	}
}

func TestNormalize_ArrayRoundTrip(t *testing.T) {
	inputs := [][]string{
		{"1", "2", "3"},
		{"-4", "0"},
		{"a", "b", "c", "d"},
	}
	for _, items := range inputs {
		bracketed := "[" + strings.Join(items, ", ") + "]"
		spaced := strings.Join(items, " ")

		assert.Equal(t, spaced, NormalizeOutput(bracketed, SingleLine, "int[]"))
		assert.Equal(t, NormalizeOutput(spaced, SingleLine, "int[]"), NormalizeOutput(bracketed, SingleLine, "int[]"))
		assert.Equal(t, spaced, NormalizeInput(bracketed, SingleLine, nil))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"[1, 2]", "None", "true", "  x  ", "[[1],[2]]"} {
		once := NormalizeOutput(raw, SingleLine, "")
		assert.Equal(t, once, NormalizeOutput(once, SingleLine, ""), raw)
	}
}

func TestValidateOutput(t *testing.T) {
	c := ValidateOutput("[1, 2, 3]", "1 2 3", SingleLine, "int[]")
	assert.True(t, c.Passed)
	assert.Equal(t, "1 2 3", c.Expected)
	assert.Equal(t, "1 2 3", c.Actual)

	c = ValidateOutput("None", "", SingleLine, "int")
	assert.True(t, c.Passed)
	assert.Equal(t, NullSentinel, c.Actual)

	c = ValidateOutput("true", "1", SingleLine, "boolean")
	assert.True(t, c.Passed)

	c = ValidateOutput("[a, b]", "a b", SingleLine, "string")
	assert.True(t, c.Passed)
	assert.Equal(t, "a b", c.Expected)

	c = ValidateOutput("1.0", "1", SingleLine, "float")
	assert.False(t, c.Passed)
	assert.Equal(t, "1.0", c.Expected)
	assert.Equal(t, "1", c.Actual)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, MultiLine, ParseFormat("multi_line"))
	assert.Equal(t, Matrix, ParseFormat(" MATRIX "))
	assert.Equal(t, SingleLine, ParseFormat(""))
	assert.Equal(t, SingleLine, ParseFormat("weird"))
}
