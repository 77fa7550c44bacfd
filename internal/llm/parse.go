package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSnippetLimit caps raw model text carried on errors.
const DefaultSnippetLimit = 1000

// NormalizeAndParse strips raw model output and decodes it as JSON. Objects
// decode to map[string]any and arrays to []any; a decoded value of the wrong
// kind is a ParseError just like undecodable text.
func NormalizeAndParse(raw string, shape Shape) (any, error) {
	text := StripFencesAndBoundaries(raw, shape)
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Message: "empty model response"}
	}

	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, &ParseError{
			Message: "response is not valid JSON",
			Snippet: Snippet(text, DefaultSnippetLimit),
			Cause:   err,
		}
	}

	switch shape {
	case ShapeArray:
		if _, ok := value.([]any); !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("expected a JSON array, got %s", kindOf(value)),
				Snippet: Snippet(text, DefaultSnippetLimit),
			}
		}
	default:
		if _, ok := value.(map[string]any); !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("expected a JSON object, got %s", kindOf(value)),
				Snippet: Snippet(text, DefaultSnippetLimit),
			}
		}
	}

	return value, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
