package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedOutput indicates the model response contains no parseable
	// JSON object at all.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrSchemaViolation indicates valid JSON that lacks the required
	// top-level key.
	ErrSchemaViolation = errors.New("model output violates schema")
)

// extractObject locates the JSON object embedded in free-form model output by
// taking the substring from the first '{' to the last '}' inclusive. Models
// routinely wrap their answer in prose; this is the defined recovery policy,
// not a best-effort fallback.
func extractObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}
	return raw[start : end+1], nil
}

// ParseMealPlan extracts and validates a full weekly meal plan from raw model
// output. A plan without a "week" key is a total failure — partial plans are
// never accepted or defaulted.
func ParseMealPlan(raw string) (*MealPlan, error) {
	object, err := extractObject(raw)
	if err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if _, ok := probe["week"]; !ok {
		return nil, fmt.Errorf("%w: missing top-level key %q", ErrSchemaViolation, "week")
	}

	var mealPlan MealPlan
	if err := json.Unmarshal([]byte(object), &mealPlan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if mealPlan.Week == nil {
		mealPlan.Week = []DayPlan{}
	}
	return &mealPlan, nil
}

// ParseModification extracts and validates a modification result from raw
// model output.
func ParseModification(raw string) (*ModificationResult, error) {
	object, err := extractObject(raw)
	if err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if _, ok := probe["modifications"]; !ok {
		return nil, fmt.Errorf("%w: missing top-level key %q", ErrSchemaViolation, "modifications")
	}

	var result ModificationResult
	if err := json.Unmarshal([]byte(object), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return &result, nil
}
