// internal/records/service.go
package records

import (
	"context"
	"errors"

	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/metrics"
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
)

// Load looks up the domain and fetches the record. Failures come back as
// *errors.StandardError.
func Load(ctx context.Context, store Store, domainID models.DomainID, id string) (*progress.Domain, *models.ApplicationRecord, error) {
	d, ok := progress.Lookup(domainID)
	if !ok {
		return nil, nil, apperrors.NewUnknownDomainError(string(domainID))
	}

	rec, err := store.Get(ctx, domainID, id)
	if err != nil {
		return nil, nil, fetchError(domainID, id, err)
	}
	return d, rec, nil
}

// Resolve loads a record and maps its status onto the domain's stepper.
func Resolve(ctx context.Context, store Store, domainID models.DomainID, id string) (*progress.Resolution, *models.ApplicationRecord, error) {
	d, rec, err := Load(ctx, store, domainID, id)
	if err != nil {
		return nil, nil, err
	}
	res := d.Resolve(rec)
	metrics.RecordResolution(string(res.Domain), res.Variant, res.Recognized)
	return res, rec, nil
}

// ApplyStatus moves a record to status to when its domain allows it and
// returns the record before and after the write. The transition is planned
// against the system of record, never a cached copy.
func ApplyStatus(ctx context.Context, store Store, domainID models.DomainID, id, to, actor string) (before, after *models.ApplicationRecord, err error) {
	d, ok := progress.Lookup(domainID)
	if !ok {
		return nil, nil, apperrors.NewUnknownDomainError(string(domainID))
	}

	rec, err := getFresh(ctx, store, domainID, id)
	if err != nil {
		return nil, nil, fetchError(domainID, id, err)
	}

	update, err := PlanUpdate(d, rec, to, actor)
	if err != nil {
		return nil, nil, apperrors.NewInvalidStatusTransitionError(string(domainID), rec.Status, to)
	}

	updated, err := store.UpdateStatus(ctx, update)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, nil, apperrors.NewApplicationNotFoundError(string(domainID), id)
		case errors.Is(err, ErrReadOnly):
			return nil, nil, apperrors.NewRecordSourceReadOnlyError("backend")
		case errors.Is(err, ErrConflict):
			return nil, nil, apperrors.NewStatusConflictError(string(domainID), id, rec.Status)
		default:
			return nil, nil, apperrors.NewStatusUpdateFailedError(err)
		}
	}
	return rec, updated, nil
}

func getFresh(ctx context.Context, store Store, domainID models.DomainID, id string) (*models.ApplicationRecord, error) {
	if fr, ok := store.(FreshReader); ok {
		return fr.GetFresh(ctx, domainID, id)
	}
	return store.Get(ctx, domainID, id)
}

func fetchError(domainID models.DomainID, id string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.NewApplicationNotFoundError(string(domainID), id)
	case errors.Is(err, ErrUnknownDomain):
		return apperrors.NewUnknownDomainError(string(domainID))
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("records", err)
	default:
		return apperrors.NewRecordFetchFailedError(err)
	}
}
