// internal/progress/describe.go
package progress

import (
	"strings"
	"time"

	"carecase-workers/internal/models"
)

const (
	// FuturePlaceholder is shown for steps the record has not reached.
	FuturePlaceholder = "This step is not yet available."
	// MissingValue fills placeholders whose record field is empty.
	MissingValue = "to be scheduled"

	displayDateLayout = "January 2, 2006"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Describe returns the narrative for step in the given state.
func Describe(step StepDefinition, state StepState, rec *models.ApplicationRecord) string {
	var tmpl string
	switch state {
	case StatePast:
		tmpl = step.Past
	case StateCurrent:
		tmpl = step.Current
	default:
		tmpl = step.Future
		if tmpl == "" {
			tmpl = FuturePlaceholder
		}
	}
	return render(tmpl, rec)
}

// render fills {{field}} placeholders from the record's dates. Unknown or
// empty fields become MissingValue.
func render(tmpl string, rec *models.ApplicationRecord) string {
	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(rest[:start])
		field := strings.TrimSpace(rest[start+2 : end])
		b.WriteString(formatDate(rec.Date(field)))
		rest = rest[end+2:]
	}
	b.WriteString(rest)
	return b.String()
}

func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MissingValue
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return raw
}
