// internal/progress/domains_test.go
package progress

import (
	"testing"

	"carecase-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomains_AllValid(t *testing.T) {
	for _, d := range Domains() {
		assert.NoError(t, d.Validate(), d.ID)
		assert.NotEmpty(t, d.Name, d.ID)
		assert.NotEmpty(t, d.Endpoint, d.ID)
	}
}

func TestDomains_Order(t *testing.T) {
	var ids []models.DomainID
	for _, d := range Domains() {
		ids = append(ids, d.ID)
	}

	assert.Equal(t, []models.DomainID{
		models.DomainCancerTreatment,
		models.DomainIndividualScreening,
		models.DomainHormonalReplacement,
		models.DomainPreCancerousMeds,
		models.DomainPostTreatment,
		models.DomainHomeVisit,
	}, ids)
}

func TestDomains_ReturnsCopy(t *testing.T) {
	list := Domains()
	list[0] = nil

	assert.NotNil(t, Domains()[0])
}

func TestLookup_Unknown(t *testing.T) {
	d, ok := Lookup("dental")
	assert.False(t, ok)
	assert.Nil(t, d)
}

// The status vocabulary is a wire contract with the backend; casing and
// spelling must stay verbatim.
func TestDomains_StatusVocabulary(t *testing.T) {
	tests := []struct {
		domain models.DomainID
		table  Table
	}{
		{models.DomainCancerTreatment, Table{
			"Pending": 0, "Interview Process": 1, "Case Summary Generation": 2, "Approved": 3, "Completed": 4,
		}},
		{models.DomainIndividualScreening, Table{"Pending": 0, "Approved": 1, "Completed": 2}},
		{models.DomainHormonalReplacement, Table{"Pending": 0, "Approved": 1, "Completed": 2}},
		{models.DomainPreCancerousMeds, Table{"Pending": 0, "Approved": 1, "Completed": 2}},
		{models.DomainHomeVisit, Table{"Pending": 0, "Processing": 1, "Recommendation": 2, "Completed": 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.domain), func(t *testing.T) {
			d, ok := Lookup(tt.domain)
			require.True(t, ok)
			assert.Equal(t, tt.table, d.Base.Table)
			assert.Len(t, d.Base.Steps, len(tt.table))
			assert.Empty(t, d.Extensions)
		})
	}
}

func TestDomains_PostTreatmentVocabulary(t *testing.T) {
	d, ok := Lookup(models.DomainPostTreatment)
	require.True(t, ok)

	assert.Equal(t, []string{"Pending", "Approved", "Completed", "Follow-up Required", "Closed"}, d.Vocabulary())

	variants := map[string]Variant{}
	for _, v := range d.Variants() {
		variants[v.Name] = v
	}
	require.Contains(t, variants, "with-follow-up")
	require.Contains(t, variants, "closed")

	assert.Equal(t, 3, variants["with-follow-up"].Table["Follow-up Required"])
	assert.Equal(t, 4, variants["with-follow-up"].Table["Closed"])
	assert.Equal(t, 3, variants["closed"].Table["Closed"])
	assert.Len(t, variants["standard"].Steps, 3)
}

func TestDomains_StepTitlesMatchStatuses(t *testing.T) {
	for _, d := range Domains() {
		for _, v := range d.Variants() {
			for status, idx := range v.Table {
				assert.Equal(t, status, v.Steps[idx].Title, "%s/%s", d.ID, v.Name)
			}
		}
	}
}

func TestDomains_VariantStepsDoNotAlias(t *testing.T) {
	d, ok := Lookup(models.DomainPostTreatment)
	require.True(t, ok)

	assert.Len(t, d.Base.Steps, 3)
	assert.Equal(t, "Completed", d.Base.Steps[len(d.Base.Steps)-1].Title)
}
