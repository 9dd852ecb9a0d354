package domain

import (
	"context"
	"errors"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrHabitConflict      = errors.New("habit version conflict")
	ErrHabitAlreadyExists = errors.New("habit already exists")
)

type HabitRepository interface {
	// Create persists a new habit, including its completion history.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its unique identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// List returns every habit in the user's persisted order
	// (SortOrder ascending, then CreatedAt).
	List(ctx context.Context) ([]*Habit, error)

	// Update replaces a stored habit.
	// Implementations must reject a stale Version with ErrHabitConflict and
	// bump Version on success.
	Update(ctx context.Context, habit *Habit) error

	// Delete permanently removes a habit and its completion history.
	Delete(ctx context.Context, id string) error
}
