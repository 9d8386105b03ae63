// internal/records/transitions_test.go
package records

import (
	"testing"

	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domain(t *testing.T, id models.DomainID) *progress.Domain {
	t.Helper()
	d, ok := progress.Lookup(id)
	require.True(t, ok)
	return d
}

func TestAllowedTransitions_LinearAdvance(t *testing.T) {
	ct := domain(t, models.DomainCancerTreatment)

	assert.Equal(t, []string{"Interview Process", "Rejected", "Cancelled"}, AllowedTransitions(ct, "Pending"))
	assert.Equal(t, []string{"Case Summary Generation", "Rejected", "Cancelled"}, AllowedTransitions(ct, "Interview Process"))
	assert.Empty(t, AllowedTransitions(ct, "Completed"))
}

func TestAllowedTransitions_PostTreatmentBranches(t *testing.T) {
	pt := domain(t, models.DomainPostTreatment)

	assert.Equal(t, []string{"Closed", "Follow-up Required", "Rejected", "Cancelled"}, AllowedTransitions(pt, "Completed"))
	assert.Equal(t, []string{"Closed", "Rejected", "Cancelled"}, AllowedTransitions(pt, "Follow-up Required"))
	assert.Empty(t, AllowedTransitions(pt, "Closed"))
}

func TestAllowedTransitions_ExitStatusesAreTerminal(t *testing.T) {
	hv := domain(t, models.DomainHomeVisit)
	assert.Empty(t, AllowedTransitions(hv, "Rejected"))
	assert.Empty(t, AllowedTransitions(hv, "Cancelled"))
}

func TestAllowedTransitions_UnknownStatusRestarts(t *testing.T) {
	hv := domain(t, models.DomainHomeVisit)
	assert.Equal(t, []string{"Pending", "Rejected", "Cancelled"}, AllowedTransitions(hv, ""))
	assert.Equal(t, []string{"Pending", "Rejected", "Cancelled"}, AllowedTransitions(hv, "On Hold"))
}

func TestCheckTransition(t *testing.T) {
	is := domain(t, models.DomainIndividualScreening)

	assert.NoError(t, CheckTransition(is, "Pending", "Approved"))
	assert.NoError(t, CheckTransition(is, "Approved", "Cancelled"))
	assert.ErrorIs(t, CheckTransition(is, "Pending", "Completed"), ErrInvalidTransition)
	assert.ErrorIs(t, CheckTransition(is, "Approved", "Approved"), ErrInvalidTransition)
	assert.ErrorIs(t, CheckTransition(is, "Approved", "approved"), ErrInvalidTransition)
}

func TestPlanUpdate_SetsFollowUpFlag(t *testing.T) {
	pt := domain(t, models.DomainPostTreatment)
	rec := &models.ApplicationRecord{ID: "pt-1", Domain: models.DomainPostTreatment, Status: "Completed"}

	u, err := PlanUpdate(pt, rec, "Follow-up Required", "rhu")
	require.NoError(t, err)
	assert.True(t, u.FollowUp)
	assert.Equal(t, "Completed", u.From)
	assert.Equal(t, "rhu", u.Actor)

	u, err = PlanUpdate(pt, rec, "Closed", "rhu")
	require.NoError(t, err)
	assert.False(t, u.FollowUp)

	_, err = PlanUpdate(pt, rec, "Pending", "rhu")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Every status a transition can reach must resolve to exactly one current
// step once the follow-up flag is applied.
func TestTransitions_ReachableStatusesResolve(t *testing.T) {
	for _, d := range progress.Domains() {
		for _, from := range d.Vocabulary() {
			for _, to := range AllowedTransitions(d, from) {
				rec := &models.ApplicationRecord{Domain: d.ID, Status: to, FollowUpRequiredPreviously: to == models.StatusFollowUpRequired}
				res := d.Resolve(rec)
				current := 0
				for _, s := range res.Steps {
					if s.State == progress.StateCurrent {
						current++
					}
				}
				assert.Equal(t, 1, current, "%s %s -> %s", d.ID, from, to)
			}
		}
	}
}
