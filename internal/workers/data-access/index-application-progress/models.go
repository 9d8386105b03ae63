// internal/workers/data-access/index-application-progress/models.go
package indexapplicationprogress

import "carecase-workers/internal/models"

type Input struct {
	Domain        models.DomainID `json:"domain"`
	ApplicationID string          `json:"applicationId"`
}

type Output struct {
	DocumentID string `json:"documentId"`
	Index      string `json:"index"`
	Result     string `json:"result"` // "created" or "updated"
}
