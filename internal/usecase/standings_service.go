package usecase

import (
	"context"
	"fmt"

	"github.com/matchrota/pickup-tournament/internal/domain/standings"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/cache"
)

const (
	teamStandingsCacheKey   = standingsCachePrefix + "teams"
	playerStandingsCacheKey = standingsCachePrefix + "players"
)

// StandingsService serves the live tournament's leaderboards. Tables are
// recomputed from history on demand and cached until the next recorded
// match invalidates them.
type StandingsService struct {
	repo  tournament.Repository
	store *cache.Store
}

func NewStandingsService(repo tournament.Repository, store *cache.Store) *StandingsService {
	return &StandingsService{repo: repo, store: store}
}

func (s *StandingsService) TeamStandings(ctx context.Context) ([]standings.TeamRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.TeamStandings")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, teamStandingsCacheKey, func() (any, error) {
		state, err := s.liveState(ctx)
		if err != nil {
			return nil, err
		}
		return standings.TeamTable(state.History, state.TeamCount), nil
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]standings.TeamRow)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry for %s", teamStandingsCacheKey)
	}
	return rows, nil
}

func (s *StandingsService) PlayerStandings(ctx context.Context) ([]standings.PlayerRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.PlayerStandings")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, playerStandingsCacheKey, func() (any, error) {
		state, err := s.liveState(ctx)
		if err != nil {
			return nil, err
		}
		return standings.PlayerTable(state.History), nil
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]standings.PlayerRow)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry for %s", playerStandingsCacheKey)
	}
	return rows, nil
}

func (s *StandingsService) liveState(ctx context.Context) (*tournament.State, error) {
	state, exists, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get live tournament: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no live tournament", ErrNotFound)
	}
	return state, nil
}
