package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/comitanigiacomo/onedo/internal/adapters/kvstore"
	"github.com/comitanigiacomo/onedo/internal/core/domain"
	"github.com/comitanigiacomo/onedo/internal/logger"
)

// BlobStore persists one opaque payload. Load returns kvstore.ErrNotFound
// before the first Save.
type BlobStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

var _ domain.HabitRepository = (*SnapshotHabitRepository)(nil)

// SnapshotHabitRepository keeps the whole collection as one snapshot blob.
// Every call re-reads the blob, so separate processes sharing a file or a
// redis key see each other's writes.
type SnapshotHabitRepository struct {
	blobs          BlobStore
	discardCorrupt bool

	mu  sync.Mutex
	mem *InMemoryHabitRepository
}

func NewSnapshotHabitRepository(blobs BlobStore, discardCorrupt bool) *SnapshotHabitRepository {
	return &SnapshotHabitRepository{
		blobs:          blobs,
		discardCorrupt: discardCorrupt,
		mem:            NewInMemoryHabitRepository(),
	}
}

func (r *SnapshotHabitRepository) load(ctx context.Context) error {
	data, err := r.blobs.Load(ctx)
	if errors.Is(err, kvstore.ErrNotFound) {
		return r.mem.Replace(ctx, nil)
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	habits, err := domain.DecodeSnapshot(data)
	if err != nil {
		if !r.discardCorrupt {
			return err
		}
		logger.Warn("discarding unreadable habit data", "err", err, "bytes", len(data))
		return r.mem.Replace(ctx, nil)
	}

	return r.mem.Replace(ctx, habits)
}

func (r *SnapshotHabitRepository) persist(ctx context.Context) error {
	habits, err := r.mem.List(ctx)
	if err != nil {
		return err
	}
	data, err := domain.EncodeSnapshot(habits)
	if err != nil {
		return err
	}
	if err := r.blobs.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// write runs fn against a fresh copy of the stored collection and saves
// the result only when fn succeeds.
func (r *SnapshotHabitRepository) write(ctx context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return r.persist(ctx)
}

func (r *SnapshotHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	return r.write(ctx, func() error { return r.mem.Create(ctx, habit) })
}

func (r *SnapshotHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r.mem.GetByID(ctx, id)
}

func (r *SnapshotHabitRepository) List(ctx context.Context) ([]*domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r.mem.List(ctx)
}

func (r *SnapshotHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	version := habit.Version
	err := r.write(ctx, func() error { return r.mem.Update(ctx, habit) })
	if err != nil && habit.Version != version {
		// Save failed after the in-memory bump.
		habit.Version = version
	}
	return err
}

func (r *SnapshotHabitRepository) Delete(ctx context.Context, id string) error {
	return r.write(ctx, func() error { return r.mem.Delete(ctx, id) })
}

func (r *SnapshotHabitRepository) Replace(ctx context.Context, habits []*domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.mem.Replace(ctx, habits); err != nil {
		return err
	}
	return r.persist(ctx)
}
