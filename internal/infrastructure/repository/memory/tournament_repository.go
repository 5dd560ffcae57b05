package memory

import (
	"context"
	"sync"

	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
)

// TournamentRepository holds the single live tournament in memory. Every
// read and write exchanges deep copies so callers never share state with
// the stored aggregate.
type TournamentRepository struct {
	mu    sync.RWMutex
	state *tournament.State
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{}
}

func (r *TournamentRepository) Get(_ context.Context) (*tournament.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state == nil {
		return nil, false, nil
	}

	return r.state.Clone(), true, nil
}

func (r *TournamentRepository) Save(_ context.Context, state *tournament.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state.Clone()

	return nil
}

func (r *TournamentRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = nil

	return nil
}
