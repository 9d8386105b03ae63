// internal/roster/query.go
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"carecase-workers/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrMissingIndex = errors.New("index name is required")

// Query filters the roster. Zero values mean "any".
type Query struct {
	Domain     models.DomainID `json:"domain,omitempty"`
	PartnerID  string          `json:"partnerId,omitempty"`
	Status     string          `json:"status,omitempty"`
	ActiveStep *int            `json:"activeStep,omitempty"`
	Recognized *bool           `json:"recognized,omitempty"`
	Keywords   string          `json:"keywords,omitempty"`
	From       int             `json:"from,omitempty"`
	Size       int             `json:"size,omitempty"`
}

// normalize clamps paging to the supported window.
func (q Query) normalize() Query {
	if q.From < 0 {
		q.From = 0
	}
	switch {
	case q.Size < 1:
		q.Size = DefaultPageSize
	case q.Size > MaxPageSize:
		q.Size = MaxPageSize
	}
	return q
}

// Body builds the search request body for q.
func (q Query) Body() map[string]interface{} {
	var must, filter []interface{}

	if q.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"currentStep^2", "description", "applicationId", "patientId"},
				"type":   "best_fields",
			},
		})
	}

	term := func(field string, value interface{}) {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{field: value},
		})
	}
	if q.Domain != "" {
		term("domain", string(q.Domain))
	}
	if q.PartnerID != "" {
		term("partnerId", q.PartnerID)
	}
	if q.Status != "" {
		term("status", q.Status)
	}
	if q.ActiveStep != nil {
		term("activeStep", *q.ActiveStep)
	}
	if q.Recognized != nil {
		term("recognized", *q.Recognized)
	}

	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	var query map[string]interface{}
	if len(boolQuery) == 0 {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		query = map[string]interface{}{"bool": boolQuery}
	}

	return map[string]interface{}{
		"query": query,
		"sort": []interface{}{
			map[string]interface{}{"indexedAt": map[string]interface{}{"order": "desc"}},
		},
	}
}

// BuildRequest builds the search request for q against index.
func BuildRequest(index string, q Query) (*esapi.SearchRequest, error) {
	if index == "" {
		return nil, ErrMissingIndex
	}
	q = q.normalize()

	body, err := json.Marshal(q.Body())
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return &esapi.SearchRequest{
		Index:          []string{index},
		Body:           bytes.NewReader(body),
		From:           &q.From,
		Size:           &q.Size,
		TrackTotalHits: true,
	}, nil
}
