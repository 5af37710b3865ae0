package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/threadscan/internal/flags"
)

// Schema validation errors. Any of these triggers the per-flag fallback.
var (
	// ErrNotJSON indicates the model output was not a JSON object.
	ErrNotJSON = errors.New("output is not valid JSON")

	// ErrMissingField indicates a required field was absent.
	ErrMissingField = errors.New("output omits a required field")

	// ErrBadEnum indicates a value outside the enumerated set.
	ErrBadEnum = errors.New("output value outside enumerated set")

	// ErrEmptySummary indicates a blank summary for a genuine flag.
	ErrEmptySummary = errors.New("output summary is empty")
)

var (
	openFenceRe  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```$")
)

// requiredFields is the exact response schema key set.
var requiredFields = []string{"is_genuine", "owner", "priority", "summary", "confidence"}

// ParseClassification validates raw model output against the fixed
// response schema. Accidental markdown fences are stripped; everything
// else is strict — invalid JSON, a missing field, a wrong type, or an
// enum violation rejects the whole output.
func ParseClassification(raw string) (flags.Classification, error) {
	var zero flags.Classification

	cleaned := strings.TrimSpace(raw)
	cleaned = openFenceRe.ReplaceAllString(cleaned, "")
	cleaned = closeFenceRe.ReplaceAllString(cleaned, "")

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	for _, key := range requiredFields {
		if _, ok := fields[key]; !ok {
			return zero, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	var c flags.Classification
	if err := json.Unmarshal(fields["is_genuine"], &c.IsGenuine); err != nil {
		return zero, fmt.Errorf("%w: is_genuine: %v", ErrNotJSON, err)
	}
	if err := json.Unmarshal(fields["owner"], &c.Owner); err != nil {
		return zero, fmt.Errorf("%w: owner: %v", ErrNotJSON, err)
	}
	if err := json.Unmarshal(fields["priority"], &c.Priority); err != nil {
		return zero, fmt.Errorf("%w: priority: %v", ErrNotJSON, err)
	}
	if err := json.Unmarshal(fields["summary"], &c.Summary); err != nil {
		return zero, fmt.Errorf("%w: summary: %v", ErrNotJSON, err)
	}
	if err := json.Unmarshal(fields["confidence"], &c.Confidence); err != nil {
		return zero, fmt.Errorf("%w: confidence: %v", ErrNotJSON, err)
	}

	if !flags.ValidLevel(c.Priority) {
		return zero, fmt.Errorf("%w: priority %q", ErrBadEnum, c.Priority)
	}
	if !flags.ValidLevel(c.Confidence) {
		return zero, fmt.Errorf("%w: confidence %q", ErrBadEnum, c.Confidence)
	}
	if strings.TrimSpace(c.Summary) == "" {
		return zero, ErrEmptySummary
	}

	return c, nil
}
