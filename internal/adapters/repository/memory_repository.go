package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

var _ domain.HabitRepository = (*InMemoryHabitRepository)(nil)

// InMemoryHabitRepository stores clones, so callers never share a habit
// with the store.
type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[habit.ID]; exists {
		return domain.ErrHabitAlreadyExists
	}

	if habit.Version < 1 {
		habit.Version = 1
	}
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit.Clone(), nil
}

func (r *InMemoryHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := make([]*domain.Habit, 0, len(r.store))
	for _, h := range r.store {
		habits = append(habits, h.Clone())
	}

	domain.SortByPosition(habits)

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}

	delete(r.store, id)
	return nil
}

// Replace swaps the whole collection, e.g. after an import.
func (r *InMemoryHabitRepository) Replace(ctx context.Context, habits []*domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = make(map[string]*domain.Habit, len(habits))
	for _, h := range habits {
		r.store[h.ID] = h.Clone()
	}
	return nil
}
