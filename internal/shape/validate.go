package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/schemas"
)

// ValidationError is a decoded value that does not meet its descriptor.
type ValidationError struct {
	Descriptor string
	Fields     []string // missing or invalid fields, when known
	Expected   int      // required element count, arrays only
	Received   int      // valid element count, arrays only
	Message    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation error in %s: %s: %s", e.Descriptor, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("validation error in %s: %s", e.Descriptor, e.Message)
}

// Rejection records why an array element was dropped.
type Rejection struct {
	Index  int
	Fields []string
}

// Outcome is the result of Validate. On success Value holds the accepted
// value: the object itself, or the filtered (and possibly cut) element slice.
type Outcome struct {
	Value    any
	Rejected []Rejection
	Err      *ValidationError
}

// OK reports whether validation passed.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Error returns the failure as an error, or nil.
func (o Outcome) Error() error {
	if o.Err == nil {
		return nil
	}
	return o.Err
}

// Validate checks parsed against d. It never mutates parsed.
func Validate(parsed any, d Descriptor) Outcome {
	if d.Shape == llm.ShapeArray {
		return validateArray(parsed, d)
	}
	return validateObject(parsed, d)
}

func validateObject(parsed any, d Descriptor) Outcome {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return Outcome{Err: &ValidationError{
			Descriptor: d.Name,
			Message:    "expected a JSON object",
		}}
	}

	var missing []string
	for _, key := range d.Required {
		if !truthy(obj[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Outcome{Err: &ValidationError{
			Descriptor: d.Name,
			Fields:     missing,
			Message:    "missing required fields",
		}}
	}

	return Outcome{Value: obj}
}

func validateArray(parsed any, d Descriptor) Outcome {
	items, ok := parsed.([]any)
	if !ok {
		return Outcome{Err: &ValidationError{
			Descriptor: d.Name,
			Expected:   d.Count,
			Message:    "expected a JSON array",
		}}
	}

	accepted := make([]any, 0, len(items))
	var rejected []Rejection

	if d.Element.empty() {
		accepted = append(accepted, items...)
	} else {
		schema, err := schemas.Cached(d.Element.jsonSchema())
		if err != nil {
			return Outcome{Err: &ValidationError{
				Descriptor: d.Name,
				Message:    fmt.Sprintf("invalid element rules: %v", err),
			}}
		}
		for i, item := range items {
			fields, ok := checkElement(schema, item)
			if !ok {
				rejected = append(rejected, Rejection{Index: i, Fields: fields})
				continue
			}
			accepted = append(accepted, item)
		}
	}

	if len(accepted) == 0 {
		return Outcome{Rejected: rejected, Err: &ValidationError{
			Descriptor: d.Name,
			Expected:   max(d.Count, 1),
			Received:   0,
			Message:    fmt.Sprintf("no valid elements (received %d, all rejected)", len(items)),
		}}
	}

	if d.Count > 0 {
		if len(accepted) < d.Count {
			return Outcome{Rejected: rejected, Err: &ValidationError{
				Descriptor: d.Name,
				Expected:   d.Count,
				Received:   len(accepted),
				Message:    fmt.Sprintf("insufficient valid elements: expected %d, received %d", d.Count, len(accepted)),
			}}
		}
		accepted = accepted[:d.Count]
	}

	return Outcome{Value: accepted, Rejected: rejected}
}

// checkElement reports whether item passes the element schema, with the
// offending field names when it does not.
func checkElement(schema *schemas.Schema, item any) ([]string, bool) {
	if _, ok := item.(map[string]any); !ok {
		return []string{"(root)"}, false
	}
	err := schema.ValidateValue(item)
	if err == nil {
		return nil, true
	}
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields(), false
	}
	return []string{"(root)"}, false
}

// truthy follows JavaScript truthiness for decoded JSON: null, false, 0 and
// "" are falsy; every object and array, even empty, is truthy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
