// Package records reads application records from their system of record and
// applies status writes to them.
package records

import (
	"context"
	"errors"
	"time"

	"carecase-workers/internal/models"
)

var (
	ErrNotFound      = errors.New("application not found")
	ErrReadOnly      = errors.New("record source is read-only")
	ErrUnknownDomain = errors.New("unknown application domain")
	ErrNoHistory     = errors.New("record source keeps no status history")
	// ErrConflict means the record's status changed between read and write.
	ErrConflict = errors.New("application status changed concurrently")
)

// StatusUpdate is one status write. From is the status the caller observed;
// the write fails with ErrConflict when the stored status differs.
type StatusUpdate struct {
	Domain        models.DomainID
	ApplicationID string
	From          string
	To            string
	Actor         string
	// FollowUp marks the record as having passed through Follow-up Required.
	FollowUp bool
	At       time.Time
}

// Store is the record source used by workers and the API.
type Store interface {
	Get(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error)
	UpdateStatus(ctx context.Context, update StatusUpdate) (*models.ApplicationRecord, error)
}

// FreshReader is implemented by stores that front a cache. GetFresh reads
// the system of record directly.
type FreshReader interface {
	GetFresh(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error)
}

// HistoryReader is implemented by stores that keep status history.
type HistoryReader interface {
	History(ctx context.Context, domain models.DomainID, id string) ([]models.StatusChange, error)
}
