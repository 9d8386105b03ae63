// Package recordstest provides an in-memory records.Store for tests.
package recordstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carecase-workers/internal/models"
	"carecase-workers/internal/records"
)

// MemoryStore keeps records and their status history in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*models.ApplicationRecord
	history map[string][]models.StatusChange

	// Err, when set, is returned by every call.
	Err     error
	Gets    int
	Updates []records.StatusUpdate
}

func NewMemoryStore(recs ...*models.ApplicationRecord) *MemoryStore {
	m := &MemoryStore{
		records: map[string]*models.ApplicationRecord{},
		history: map[string][]models.StatusChange{},
	}
	for _, r := range recs {
		m.Put(r)
	}
	return m
}

// Put stores a copy of rec.
func (m *MemoryStore) Put(rec *models.ApplicationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[records.CacheKey(rec.Domain, rec.ID)] = &cp
}

func (m *MemoryStore) Get(_ context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.records[records.CacheKey(domain, id)]
	if !ok {
		return nil, records.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, u records.StatusUpdate) (*models.ApplicationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = append(m.Updates, u)
	if m.Err != nil {
		return nil, m.Err
	}
	key := records.CacheKey(u.Domain, u.ApplicationID)
	rec, ok := m.records[key]
	if !ok {
		return nil, records.ErrNotFound
	}
	if rec.Status != u.From {
		return nil, records.ErrConflict
	}

	at := u.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	rec.Status = u.To
	rec.FollowUpRequiredPreviously = rec.FollowUpRequiredPreviously || u.FollowUp
	rec.UpdatedAt = at
	m.history[key] = append(m.history[key], models.StatusChange{
		ID:            fmt.Sprintf("%s-%d", key, len(m.history[key])+1),
		ApplicationID: u.ApplicationID,
		Domain:        u.Domain,
		FromStatus:    u.From,
		ToStatus:      u.To,
		Actor:         u.Actor,
		ChangedAt:     at,
	})
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) History(_ context.Context, domain models.DomainID, id string) ([]models.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	key := records.CacheKey(domain, id)
	if _, ok := m.records[key]; !ok {
		return nil, records.ErrNotFound
	}
	return append([]models.StatusChange(nil), m.history[key]...), nil
}
