package memory

import (
	"context"
	"sync"

	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
)

type ArchiveRepository struct {
	mu     sync.RWMutex
	items  map[string]tournament.Archive
	orders []string
}

func NewArchiveRepository() *ArchiveRepository {
	return &ArchiveRepository{
		items: make(map[string]tournament.Archive),
	}
}

func (r *ArchiveRepository) Insert(_ context.Context, archive tournament.Archive) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[archive.ID]; !ok {
		r.orders = append(r.orders, archive.ID)
	}
	archive.State = *archive.State.Clone()
	r.items[archive.ID] = archive

	return nil
}

func (r *ArchiveRepository) List(_ context.Context) ([]tournament.Archive, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Archive, 0, len(r.orders))
	for _, id := range r.orders {
		item := r.items[id]
		item.State = *item.State.Clone()
		out = append(out, item)
	}

	return out, nil
}

func (r *ArchiveRepository) GetByID(_ context.Context, archiveID string) (tournament.Archive, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[archiveID]
	if !ok {
		return tournament.Archive{}, false, nil
	}
	item.State = *item.State.Clone()

	return item, true, nil
}
