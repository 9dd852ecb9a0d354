package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

const (
	listCacheKey = "onedo:habits"
	listCacheTTL = 30 * time.Minute
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

// CachedHabitRepository keeps the ordered habit list in redis. Every write
// drops the cached list; cache failures fall through to the wrapped store.
type CachedHabitRepository struct {
	next  domain.HabitRepository
	cache *redis.Client
}

func NewCachedHabitRepository(next domain.HabitRepository, cache *redis.Client) *CachedHabitRepository {
	return &CachedHabitRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedHabitRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, listCacheKey).Err(); err != nil {
		logger.Warn("cache invalidation failed", "key", listCacheKey, "err", err)
	}
}

func (r *CachedHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	val, err := r.cache.Get(ctx, listCacheKey).Bytes()
	if err == nil {
		var habits []*domain.Habit
		if err := json.Unmarshal(val, &habits); err == nil {
			return habits, nil
		}

		logger.Warn("corrupted cached habit list, dropping key", "key", listCacheKey)
		r.invalidate(ctx)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("redis read failed", "err", err)
	}

	habits, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(habits); err == nil {
		if setErr := r.cache.Set(ctx, listCacheKey, data, listCacheTTL).Err(); setErr != nil {
			logger.Warn("redis write failed", "err", setErr)
		}
	}

	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Replace forwards to stores that support swapping the whole collection.
func (r *CachedHabitRepository) Replace(ctx context.Context, habits []*domain.Habit) error {
	replacer, ok := r.next.(interface {
		Replace(context.Context, []*domain.Habit) error
	})
	if !ok {
		return fmt.Errorf("%T cannot replace its collection", r.next)
	}
	if err := replacer.Replace(ctx, habits); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}
