// internal/workers/application/update-application-status/models.go
package updateapplicationstatus

import (
	"time"

	"carecase-workers/internal/models"
)

type Input struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId"`
	Status        string          `json:"status"`
	Actor         string          `json:"actor,omitempty"`
}

type Output struct {
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	ActiveStep     int       `json:"activeStep"`
	Variant        string    `json:"variant"`
	CurrentStep    string    `json:"currentStep"`
	ChangedAt      time.Time `json:"changedAt"`
}
