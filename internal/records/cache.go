// internal/records/cache.go
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedStore is a Redis read-through cache in front of another Store.
// Redis failures fall back to the wrapped store.
type CachedStore struct {
	next   Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "record-cache"}),
	}
}

// CacheKey returns the Redis key of a record.
func CacheKey(domain models.DomainID, id string) string {
	return fmt.Sprintf("application:%s:%s", domain, id)
}

func (s *CachedStore) Get(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error) {
	key := CacheKey(domain, id)

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var rec models.ApplicationRecord
		if jsonErr := json.Unmarshal([]byte(val), &rec); jsonErr == nil {
			return &rec, nil
		}
		s.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err})
	}

	return s.GetFresh(ctx, domain, id)
}

// GetFresh skips the cached copy, reads the wrapped store and refills the
// cache with the result.
func (s *CachedStore) GetFresh(ctx context.Context, domain models.DomainID, id string) (*models.ApplicationRecord, error) {
	rec, err := s.next.Get(ctx, domain, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, CacheKey(domain, id), rec)
	return rec, nil
}

func (s *CachedStore) fill(ctx context.Context, key string, rec *models.ApplicationRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

func (s *CachedStore) UpdateStatus(ctx context.Context, update StatusUpdate) (*models.ApplicationRecord, error) {
	rec, err := s.next.UpdateStatus(ctx, update)
	if err != nil {
		// The cached status no longer matches the stored one.
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
			s.Invalidate(ctx, update.Domain, update.ApplicationID)
		}
		return nil, err
	}
	s.Invalidate(ctx, update.Domain, update.ApplicationID)
	return rec, nil
}

// Invalidate drops the cached copy of a record.
func (s *CachedStore) Invalidate(ctx context.Context, domain models.DomainID, id string) {
	key := CacheKey(domain, id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", map[string]interface{}{"key": key, "error": err})
	}
}

// History delegates when the wrapped store keeps history.
func (s *CachedStore) History(ctx context.Context, domain models.DomainID, id string) ([]models.StatusChange, error) {
	if h, ok := s.next.(HistoryReader); ok {
		return h.History(ctx, domain, id)
	}
	return nil, ErrNoHistory
}
