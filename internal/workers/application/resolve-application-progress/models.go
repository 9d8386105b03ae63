// internal/workers/application/resolve-application-progress/models.go
package resolveapplicationprogress

import (
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
)

type Input struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId"`
}

type Output struct {
	Domain        models.DomainID         `json:"domain"`
	ApplicationID string                  `json:"applicationId"`
	Status        string                  `json:"status"`
	Variant       string                  `json:"variant"`
	Recognized    bool                    `json:"recognized"`
	ActiveStep    int                     `json:"activeStep"`
	CurrentStep   string                  `json:"currentStep"`
	Action        string                  `json:"action,omitempty"`
	Steps         []progress.ResolvedStep `json:"steps"`
}

// NewOutput flattens a resolution into job variables.
func NewOutput(res *progress.Resolution) *Output {
	current := res.Current()
	return &Output{
		Domain:        res.Domain,
		ApplicationID: res.ApplicationID,
		Status:        res.Status,
		Variant:       res.Variant,
		Recognized:    res.Recognized,
		ActiveStep:    res.ActiveStep,
		CurrentStep:   current.Title,
		Action:        current.Action,
		Steps:         res.Steps,
	}
}
