// internal/records/transitions.go
package records

import (
	"errors"
	"fmt"
	"sort"

	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
)

// ErrInvalidTransition is wrapped by CheckTransition failures.
var ErrInvalidTransition = errors.New("status transition not allowed")

// exitStatuses may be entered from any status that still has a successor.
var exitStatuses = []string{models.StatusRejected, models.StatusCancelled}

// successors returns, for each status, the statuses that directly follow it
// in at least one of the domain's variants.
func successors(d *progress.Domain) map[string]map[string]bool {
	next := make(map[string]map[string]bool)
	for _, v := range d.Variants() {
		ordered := orderedStatuses(v.Table)
		for i, status := range ordered {
			if next[status] == nil {
				next[status] = make(map[string]bool)
			}
			if i+1 < len(ordered) {
				next[status][ordered[i+1]] = true
			}
		}
	}
	return next
}

func orderedStatuses(t progress.Table) []string {
	out := make([]string, 0, len(t))
	for status := range t {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool {
		if t[out[i]] != t[out[j]] {
			return t[out[i]] < t[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// AllowedTransitions lists the statuses a record in status from may move to.
// A status outside the domain vocabulary may only restart at the first step.
func AllowedTransitions(d *progress.Domain, from string) []string {
	for _, exit := range exitStatuses {
		if from == exit {
			return nil
		}
	}

	next := successors(d)
	targets, known := next[from]
	if !known {
		first := orderedStatuses(d.Base.Table)
		if len(first) == 0 {
			return nil
		}
		return append([]string{first[0]}, exitStatuses...)
	}
	if len(targets) == 0 {
		return nil
	}

	out := make([]string, 0, len(targets)+len(exitStatuses))
	for status := range targets {
		out = append(out, status)
	}
	sort.Strings(out)
	return append(out, exitStatuses...)
}

// CheckTransition reports whether domain d allows moving from -> to.
func CheckTransition(d *progress.Domain, from, to string) error {
	for _, allowed := range AllowedTransitions(d, from) {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q -> %q", ErrInvalidTransition, d.ID, from, to)
}

// PlanUpdate validates a transition for rec and builds the write for it.
func PlanUpdate(d *progress.Domain, rec *models.ApplicationRecord, to, actor string) (StatusUpdate, error) {
	if err := CheckTransition(d, rec.Status, to); err != nil {
		return StatusUpdate{}, err
	}
	return StatusUpdate{
		Domain:        d.ID,
		ApplicationID: rec.ID,
		From:          rec.Status,
		To:            to,
		Actor:         actor,
		FollowUp:      to == models.StatusFollowUpRequired,
	}, nil
}
