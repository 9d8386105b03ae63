// internal/progress/progress.go
package progress

import (
	"fmt"
	"sort"

	"carecase-workers/internal/models"
)

// StepState is the display state of one step in a linear stepper.
type StepState string

const (
	StatePast    StepState = "past"
	StateCurrent StepState = "current"
	StateFuture  StepState = "future"
)

// Table maps a backend status string to a zero-based step index.
// Keys are matched verbatim.
type Table map[string]int

// StepDefinition describes one step of a domain's stepper. The step index is
// its position in the owning Variant's Steps slice.
type StepDefinition struct {
	Title string
	// Narratives per state. Placeholders of the form {{field}} are filled
	// from the record's date fields.
	Past    string
	Current string
	Future  string
	// Action is exposed only while the step is current.
	Action  string
	Dynamic bool
}

// Variant is one stepper shape for a domain.
type Variant struct {
	Name  string
	Steps []StepDefinition
	Table Table
}

// Extension is an alternate Variant chosen when Applies holds for the record.
type Extension struct {
	Variant
	Applies func(rec *models.ApplicationRecord) bool
}

// Domain is the per-application-type configuration of the mapper.
type Domain struct {
	ID         models.DomainID
	Name       string
	Endpoint   string
	Base       Variant
	Extensions []Extension
}

// ResolvedStep is a step annotated with its computed state and narrative.
type ResolvedStep struct {
	Index       int       `json:"index"`
	Title       string    `json:"title"`
	State       StepState `json:"state"`
	Description string    `json:"description"`
	Action      string    `json:"action,omitempty"`
	Dynamic     bool      `json:"dynamic,omitempty"`
}

// Resolution is the mapper output for one record.
type Resolution struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId,omitempty"`
	Status        string          `json:"status"`
	Variant       string          `json:"variant"`
	Recognized    bool            `json:"recognized"`
	ActiveStep    int             `json:"activeStep"`
	Steps         []ResolvedStep  `json:"steps"`
}

// Current returns the step marked current.
func (r *Resolution) Current() ResolvedStep {
	return r.Steps[r.ActiveStep]
}

// ActiveStep returns the step index for status, or 0 when the status is
// empty or not present in the table.
func ActiveStep(status string, table Table) int {
	if idx, ok := table[status]; ok {
		return idx
	}
	return 0
}

// Partition returns the state of each of n steps relative to active.
func Partition(active, n int) []StepState {
	states := make([]StepState, n)
	for i := range states {
		switch {
		case i < active:
			states[i] = StatePast
		case i == active:
			states[i] = StateCurrent
		default:
			states[i] = StateFuture
		}
	}
	return states
}

// SelectVariant picks the first extension that applies to rec, else Base.
func (d *Domain) SelectVariant(rec *models.ApplicationRecord) Variant {
	for _, ext := range d.Extensions {
		if ext.Applies != nil && ext.Applies(rec) {
			return ext.Variant
		}
	}
	return d.Base
}

// Resolve computes the stepper for rec. A nil record resolves as an empty
// status.
func (d *Domain) Resolve(rec *models.ApplicationRecord) *Resolution {
	if rec == nil {
		rec = &models.ApplicationRecord{Domain: d.ID}
	}

	variant := d.SelectVariant(rec)
	_, recognized := variant.Table[rec.Status]
	active := ActiveStep(rec.Status, variant.Table)
	states := Partition(active, len(variant.Steps))

	steps := make([]ResolvedStep, len(variant.Steps))
	for i, def := range variant.Steps {
		step := ResolvedStep{
			Index:       i,
			Title:       def.Title,
			State:       states[i],
			Description: Describe(def, states[i], rec),
			Dynamic:     def.Dynamic,
		}
		if states[i] == StateCurrent {
			step.Action = def.Action
		}
		steps[i] = step
	}

	return &Resolution{
		Domain:        d.ID,
		ApplicationID: rec.ID,
		Status:        rec.Status,
		Variant:       variant.Name,
		Recognized:    recognized,
		ActiveStep:    active,
		Steps:         steps,
	}
}

// Variants returns Base followed by every extension variant.
func (d *Domain) Variants() []Variant {
	out := make([]Variant, 0, 1+len(d.Extensions))
	out = append(out, d.Base)
	for _, ext := range d.Extensions {
		out = append(out, ext.Variant)
	}
	return out
}

// Vocabulary lists every status any variant recognizes, ordered by the
// lowest step index it maps to, then the highest, then by name.
func (d *Domain) Vocabulary() []string {
	lo, hi := map[string]int{}, map[string]int{}
	for _, v := range d.Variants() {
		for status, idx := range v.Table {
			if cur, ok := lo[status]; !ok || idx < cur {
				lo[status] = idx
			}
			if cur, ok := hi[status]; !ok || idx > cur {
				hi[status] = idx
			}
		}
	}

	out := make([]string, 0, len(lo))
	for status := range lo {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if lo[a] != lo[b] {
			return lo[a] < lo[b]
		}
		if hi[a] != hi[b] {
			return hi[a] < hi[b]
		}
		return a < b
	})
	return out
}

// Recognizes reports whether any variant maps status.
func (d *Domain) Recognizes(status string) bool {
	for _, v := range d.Variants() {
		if _, ok := v.Table[status]; ok {
			return true
		}
	}
	return false
}

// Validate checks that every variant's table points inside its step list.
func (d *Domain) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("domain id is required")
	}
	for _, v := range d.Variants() {
		if len(v.Steps) == 0 {
			return fmt.Errorf("domain %s variant %q has no steps", d.ID, v.Name)
		}
		for i, step := range v.Steps {
			if step.Title == "" {
				return fmt.Errorf("domain %s variant %q step %d has no title", d.ID, v.Name, i)
			}
		}
		for status, idx := range v.Table {
			if idx < 0 || idx >= len(v.Steps) {
				return fmt.Errorf("domain %s variant %q maps %q to step %d outside [0,%d)",
					d.ID, v.Name, status, idx, len(v.Steps))
			}
		}
	}
	return nil
}
