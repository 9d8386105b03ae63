// internal/models/application.go
package models

import "time"

// DomainID identifies one application type.
type DomainID string

const (
	DomainCancerTreatment     DomainID = "cancer-treatment"
	DomainIndividualScreening DomainID = "individual-screening"
	DomainHormonalReplacement DomainID = "hormonal-replacement"
	DomainPreCancerousMeds    DomainID = "precancerous-meds"
	DomainPostTreatment       DomainID = "post-treatment"
	DomainHomeVisit           DomainID = "home-visit"
)

// Status values shared by several domains.
const (
	StatusPending               = "Pending"
	StatusInterviewProcess      = "Interview Process"
	StatusCaseSummaryGeneration = "Case Summary Generation"
	StatusApproved              = "Approved"
	StatusProcessing            = "Processing"
	StatusRecommendation        = "Recommendation"
	StatusCompleted             = "Completed"
	StatusFollowUpRequired      = "Follow-up Required"
	StatusClosed                = "Closed"
	StatusRejected              = "Rejected"
	StatusCancelled             = "Cancelled"
)

// ApplicationRecord is the backend-owned application a beneficiary submitted.
// Status is authoritative and only changes through status writes.
type ApplicationRecord struct {
	ID                         string            `json:"id"`
	Domain                     DomainID          `json:"domain"`
	PatientID                  string            `json:"patientId,omitempty"`
	PartnerID                  string            `json:"partnerId,omitempty"`
	Status                     string            `json:"status"`
	FollowUpRequiredPreviously bool              `json:"followUpRequiredPreviously"`
	Dates                      map[string]string `json:"dates,omitempty"`
	UpdatedAt                  time.Time         `json:"updatedAt"`
}

// Date returns the raw value of a date field such as "interview_date".
func (r *ApplicationRecord) Date(field string) string {
	if r == nil || r.Dates == nil {
		return ""
	}
	return r.Dates[field]
}

// StatusChange is one row of an application's status history.
type StatusChange struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Domain        DomainID  `json:"domain"`
	FromStatus    string    `json:"fromStatus"`
	ToStatus      string    `json:"toStatus"`
	Actor         string    `json:"actor,omitempty"`
	ChangedAt     time.Time `json:"changedAt"`
}
