// internal/roster/entry.go
package roster

import (
	"time"

	"carecase-workers/internal/models"
)

// DefaultIndex is the Elasticsearch index holding progress snapshots.
const DefaultIndex = "application-progress"

// Entry is the progress snapshot stored for partner and RHU rosters.
type Entry struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId"`
	PatientID     string          `json:"patientId,omitempty"`
	PartnerID     string          `json:"partnerId,omitempty"`
	Status        string          `json:"status"`
	Variant       string          `json:"variant"`
	Recognized    bool            `json:"recognized"`
	ActiveStep    int             `json:"activeStep"`
	CurrentStep   string          `json:"currentStep"`
	Description   string          `json:"description"`
	IndexedAt     time.Time       `json:"indexedAt"`
}

// DocumentID is the stable id of an application's snapshot.
func DocumentID(domain models.DomainID, applicationID string) string {
	return string(domain) + ":" + applicationID
}
