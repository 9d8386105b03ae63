// internal/records/backend.go
package records

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "carecase-workers/internal/common/http"
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
)

// BackendStore reads records from the case-management REST backend, one
// detail endpoint per domain. It cannot write.
type BackendStore struct {
	client *commonhttp.Client
}

func NewBackendStore(client *commonhttp.Client) *BackendStore {
	return &BackendStore{client: client}
}

func (s *BackendStore) Get(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error) {
	d, ok := progress.Lookup(domain)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}

	var payload map[string]interface{}
	err := s.client.GetJSON(ctx, d.Endpoint+"/"+url.PathEscape(id), nil, &payload)
	if err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch %s/%s: %w", domain, id, err)
	}

	if payload == nil {
		return nil, ErrNotFound
	}
	if raw, wrapped := payload["data"]; wrapped {
		switch inner := raw.(type) {
		case nil:
			return nil, ErrNotFound
		case map[string]interface{}:
			payload = inner
		default:
			return nil, fmt.Errorf("fetch %s/%s: unexpected data payload %T", domain, id, raw)
		}
	}
	return recordFromPayload(domain, id, payload), nil
}

func (s *BackendStore) UpdateStatus(context.Context, StatusUpdate) (*models.ApplicationRecord, error) {
	return nil, ErrReadOnly
}

// recordFromPayload keeps the status, the follow-up flag and every date
// field. A null or missing status becomes "".
func recordFromPayload(domain models.DomainID, id string, payload map[string]interface{}) *models.ApplicationRecord {
	rec := &models.ApplicationRecord{
		ID:     id,
		Domain: domain,
		Dates:  map[string]string{},
	}

	for k, v := range payload {
		switch {
		case k == "status":
			rec.Status, _ = v.(string)
		case k == "follow_up_required_previously":
			rec.FollowUpRequiredPreviously, _ = v.(bool)
		case k == "patient_id":
			rec.PatientID, _ = v.(string)
		case k == "partner_id":
			rec.PartnerID, _ = v.(string)
		case k == "updated_at":
			if s, ok := v.(string); ok {
				rec.UpdatedAt, _ = time.Parse(time.RFC3339, s)
			}
		case isDateField(k):
			if s, ok := v.(string); ok {
				rec.Dates[k] = s
			}
		}
	}
	return rec
}

func isDateField(key string) bool {
	return strings.HasSuffix(key, "_date") || strings.HasPrefix(key, "date_")
}
