// internal/workers/data-access/query-application-progress/models.go
package queryapplicationprogress

import (
	"carecase-workers/internal/models"
	"carecase-workers/internal/roster"
)

type Input struct {
	Domain     models.DomainID `json:"domain,omitempty"`
	PartnerID  string          `json:"partnerId,omitempty"`
	Status     string          `json:"status,omitempty"`
	ActiveStep *int            `json:"activeStep,omitempty"`
	Recognized *bool           `json:"recognized,omitempty"`
	Keywords   string          `json:"keywords,omitempty"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []roster.Entry `json:"data"`
	TotalHits int64          `json:"totalHits"`
	From      int            `json:"from"`
	Size      int            `json:"size"`
	Took      int64          `json:"took"` // milliseconds
}

func (in *Input) query() roster.Query {
	return roster.Query{
		Domain:     in.Domain,
		PartnerID:  in.PartnerID,
		Status:     in.Status,
		ActiveStep: in.ActiveStep,
		Recognized: in.Recognized,
		Keywords:   in.Keywords,
		From:       in.Pagination.From,
		Size:       in.Pagination.Size,
	}
}
