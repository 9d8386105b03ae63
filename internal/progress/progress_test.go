// internal/progress/progress_test.go
package progress

import (
	"encoding/json"
	"testing"

	"carecase-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func record(domain models.DomainID, status string) *models.ApplicationRecord {
	return &models.ApplicationRecord{
		ID:     "app-001",
		Domain: domain,
		Status: status,
	}
}

func mustLookup(t *testing.T, id models.DomainID) *Domain {
	t.Helper()
	d, ok := Lookup(id)
	require.True(t, ok, "domain %s not registered", id)
	return d
}

func statesOf(res *Resolution) []StepState {
	out := make([]StepState, len(res.Steps))
	for i, s := range res.Steps {
		out[i] = s.State
	}
	return out
}

// ==========================
// ActiveStep
// ==========================

func TestActiveStep_MappedStatuses(t *testing.T) {
	for _, d := range Domains() {
		for _, v := range d.Variants() {
			for status, idx := range v.Table {
				assert.Equal(t, idx, ActiveStep(status, v.Table), "%s/%s/%s", d.ID, v.Name, status)
			}
		}
	}
}

func TestActiveStep_Fallback(t *testing.T) {
	table := cancerTreatment.Base.Table

	tests := []struct {
		name   string
		status string
	}{
		{"empty", ""},
		{"unknown", "Unknown Value"},
		{"wrong casing", "approved"},
		{"trailing space", "Approved "},
		{"rejected", models.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, ActiveStep(tt.status, table))
		})
	}
}

func TestActiveStep_NilTable(t *testing.T) {
	assert.Equal(t, 0, ActiveStep("Approved", nil))
}

func TestActiveStep_Idempotent(t *testing.T) {
	table := homeVisit.Base.Table
	for _, status := range []string{"Processing", "Completed", "", "nope"} {
		first := ActiveStep(status, table)
		second := ActiveStep(status, table)
		assert.Equal(t, first, second, status)
	}
}

// ==========================
// Partition
// ==========================

func TestPartition_NoGapNoOverlap(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for active := 0; active < n; active++ {
			states := Partition(active, n)
			require.Len(t, states, n)

			currents := 0
			for i, s := range states {
				switch {
				case i < active:
					assert.Equal(t, StatePast, s)
				case i == active:
					assert.Equal(t, StateCurrent, s)
					currents++
				default:
					assert.Equal(t, StateFuture, s)
				}
			}
			assert.Equal(t, 1, currents)
		}
	}
}

func TestPartition_Empty(t *testing.T) {
	assert.Empty(t, Partition(0, 0))
}

// ==========================
// Resolve
// ==========================

func TestResolve_IndividualScreeningPending(t *testing.T) {
	d := mustLookup(t, models.DomainIndividualScreening)

	res := d.Resolve(record(d.ID, "Pending"))

	assert.Equal(t, 0, res.ActiveStep)
	assert.True(t, res.Recognized)
	assert.Equal(t, []StepState{StateCurrent, StateFuture, StateFuture}, statesOf(res))
	assert.Equal(t, pendingStep.Current, res.Steps[0].Description)
	assert.Equal(t, FuturePlaceholder, res.Steps[1].Description)
	assert.Equal(t, FuturePlaceholder, res.Steps[2].Description)
	assert.Empty(t, res.Steps[1].Action, "action only exposed on current step")
}

func TestResolve_HormonalReplacementApproved(t *testing.T) {
	d := mustLookup(t, models.DomainHormonalReplacement)
	rec := record(d.ID, "Approved")
	rec.Dates = map[string]string{"released_date": "2025-03-14"}

	res := d.Resolve(rec)

	assert.Equal(t, 1, res.ActiveStep)
	assert.Equal(t, []StepState{StatePast, StateCurrent, StateFuture}, statesOf(res))
	assert.Equal(t, pendingStep.Past, res.Steps[0].Description)
	assert.Contains(t, res.Steps[1].Description, "March 14, 2025")
	assert.Equal(t, FuturePlaceholder, res.Steps[2].Description)
}

func TestResolve_CancerTreatmentUnknownStatus(t *testing.T) {
	d := mustLookup(t, models.DomainCancerTreatment)

	res := d.Resolve(record(d.ID, "Unknown Value"))

	assert.Equal(t, 0, res.ActiveStep)
	assert.False(t, res.Recognized)
	assert.Equal(t, "Unknown Value", res.Status)
	assert.Len(t, res.Steps, 5)
	assert.Equal(t, StateCurrent, res.Steps[0].State)
}

func TestResolve_HomeVisitCompleted(t *testing.T) {
	d := mustLookup(t, models.DomainHomeVisit)

	res := d.Resolve(record(d.ID, "Completed"))

	assert.Equal(t, 3, res.ActiveStep)
	assert.Equal(t, []StepState{StatePast, StatePast, StatePast, StateCurrent}, statesOf(res))
	assert.Contains(t, res.Current().Description, "Case completed")
}

func TestResolve_CancerTreatmentCaseSummaryExposesUpload(t *testing.T) {
	d := mustLookup(t, models.DomainCancerTreatment)

	res := d.Resolve(record(d.ID, "Case Summary Generation"))

	assert.Equal(t, 2, res.ActiveStep)
	assert.Equal(t, "upload-case-summary", res.Current().Action)
	assert.Contains(t, res.Steps[1].Description, "Your interview was held on")
}

func TestResolve_NilRecord(t *testing.T) {
	d := mustLookup(t, models.DomainPreCancerousMeds)

	res := d.Resolve(nil)

	assert.Equal(t, 0, res.ActiveStep)
	assert.False(t, res.Recognized)
	assert.Equal(t, models.DomainPreCancerousMeds, res.Domain)
}

func TestResolve_NullStatusFromJSON(t *testing.T) {
	d := mustLookup(t, models.DomainIndividualScreening)

	var rec models.ApplicationRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","status":null}`), &rec))

	res := d.Resolve(&rec)
	assert.Equal(t, 0, res.ActiveStep)
}

func TestResolve_Idempotent(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)
	rec := record(d.ID, "Follow-up Required")

	assert.Equal(t, d.Resolve(rec), d.Resolve(rec))
}

func TestResolve_ExactlyOneCurrentForEveryMappedStatus(t *testing.T) {
	for _, d := range Domains() {
		for _, status := range d.Vocabulary() {
			for _, followUp := range []bool{false, true} {
				rec := record(d.ID, status)
				rec.FollowUpRequiredPreviously = followUp

				res := d.Resolve(rec)

				currents := 0
				for i, s := range res.Steps {
					assert.Equal(t, i, s.Index)
					if s.State == StateCurrent {
						currents++
						assert.Equal(t, res.ActiveStep, i)
					}
				}
				assert.Equal(t, 1, currents, "%s/%s", d.ID, status)
				assert.True(t, res.Recognized, "%s/%s", d.ID, status)
			}
		}
	}
}

// ==========================
// Post-treatment variants
// ==========================

func TestPostTreatment_StandardVariant(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)

	for status, want := range map[string]int{"Pending": 0, "Approved": 1, "Completed": 2} {
		res := d.Resolve(record(d.ID, status))
		assert.Equal(t, "standard", res.Variant, status)
		assert.Len(t, res.Steps, 3, status)
		assert.Equal(t, want, res.ActiveStep, status)
	}
}

func TestPostTreatment_FollowUpRequiredExtendsSteps(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)
	rec := record(d.ID, "Follow-up Required")
	rec.Dates = map[string]string{"follow_up_date": "2025-06-01"}

	res := d.Resolve(rec)

	assert.Equal(t, "with-follow-up", res.Variant)
	assert.Len(t, res.Steps, len(d.Base.Steps)+2)
	assert.Equal(t, 3, res.ActiveStep)
	assert.Equal(t, "Follow-up Required", res.Steps[3].Title)
	assert.Equal(t, "Closed", res.Steps[4].Title)
	assert.True(t, res.Steps[3].Dynamic)
	assert.True(t, res.Steps[4].Dynamic)
	assert.Equal(t, "upload-result", res.Current().Action)
	assert.Contains(t, res.Current().Description, "June 1, 2025")
}

func TestPostTreatment_ClosedAfterFollowUp(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)
	rec := record(d.ID, "Closed")
	rec.FollowUpRequiredPreviously = true

	res := d.Resolve(rec)

	assert.Equal(t, "with-follow-up", res.Variant)
	assert.Len(t, res.Steps, 5)
	assert.Equal(t, 4, res.ActiveStep)
	assert.Equal(t, StatePast, res.Steps[3].State)
}

func TestPostTreatment_ClosedWithoutFollowUp(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)

	res := d.Resolve(record(d.ID, "Closed"))

	assert.Equal(t, "closed", res.Variant)
	assert.Len(t, res.Steps, 4)
	assert.Equal(t, 3, res.ActiveStep)
	assert.Equal(t, "Closed", res.Current().Title)
}

func TestSelectVariant_FirstMatchWins(t *testing.T) {
	d := &Domain{
		ID:   "test",
		Base: Variant{Name: "base", Steps: []StepDefinition{{Title: "a"}}},
		Extensions: []Extension{
			{Variant: Variant{Name: "first"}, Applies: func(*models.ApplicationRecord) bool { return true }},
			{Variant: Variant{Name: "second"}, Applies: func(*models.ApplicationRecord) bool { return true }},
			{Variant: Variant{Name: "nil-predicate"}},
		},
	}

	assert.Equal(t, "first", d.SelectVariant(&models.ApplicationRecord{}).Name)
}

// ==========================
// Validate / Vocabulary
// ==========================

func TestValidate_RejectsOutOfRangeIndex(t *testing.T) {
	d := &Domain{
		ID: "broken",
		Base: Variant{
			Name:  "standard",
			Steps: []StepDefinition{{Title: "Pending"}},
			Table: Table{"Pending": 0, "Approved": 1},
		},
	}

	err := d.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"Approved"`)
}

func TestValidate_RejectsUntitledStep(t *testing.T) {
	d := &Domain{
		ID:   "broken",
		Base: Variant{Name: "standard", Steps: []StepDefinition{{}}},
	}
	assert.Error(t, d.Validate())
}

func TestValidate_RejectsMissingID(t *testing.T) {
	assert.Error(t, (&Domain{}).Validate())
}

func TestRecognizes(t *testing.T) {
	d := mustLookup(t, models.DomainPostTreatment)

	assert.True(t, d.Recognizes("Follow-up Required"))
	assert.True(t, d.Recognizes("Closed"))
	assert.False(t, d.Recognizes("Rejected"))
	assert.False(t, d.Recognizes(""))
}
