package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/rotation"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/cache"
	"github.com/matchrota/pickup-tournament/internal/platform/id"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
)

const standingsCachePrefix = "standings:"

type CreateInput struct {
	TeamCount int
	// Rosters assigns named players per team. Mutually exclusive with
	// PlayerPool, which is shuffled and dealt round-robin across teams.
	Rosters    map[match.TeamID][]string
	PlayerPool []string
	// Opening overrides the first pairing; zero value means teams 1 vs 2.
	Opening [2]match.TeamID
}

type RecordMatchInput struct {
	HomeTeam  match.TeamID
	AwayTeam  match.TeamID
	HomeScore int
	AwayScore int
	Scorers   []string
	Assists   []string
	// Substitutions maps a fielded player to the resting player replacing
	// them for this match only.
	Substitutions map[string]string
}

// TournamentService manages the single live tournament: creation, match
// recording through the rotation engine, and archiving on finish.
type TournamentService struct {
	repo        tournament.Repository
	archiveRepo tournament.ArchiveRepository
	engine      *rotation.Engine
	store       *cache.Store
	ids         id.Generator
	logger      *logging.Logger
	rng         *rand.Rand
	now         func() time.Time
}

func NewTournamentService(
	repo tournament.Repository,
	archiveRepo tournament.ArchiveRepository,
	engine *rotation.Engine,
	store *cache.Store,
	ids id.Generator,
	logger *logging.Logger,
	rng *rand.Rand,
) *TournamentService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TournamentService{
		repo:        repo,
		archiveRepo: archiveRepo,
		engine:      engine,
		store:       store,
		ids:         ids,
		logger:      logger,
		rng:         rng,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *TournamentService) Create(ctx context.Context, input CreateInput) (*tournament.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Create")
	defer span.End()

	if _, exists, err := s.repo.Get(ctx); err != nil {
		return nil, fmt.Errorf("check live tournament: %w", err)
	} else if exists {
		return nil, fmt.Errorf("%w: a live tournament already exists", ErrConflict)
	}

	rosters, err := s.resolveRosters(input)
	if err != nil {
		return nil, err
	}

	opening := input.Opening
	if opening == ([2]match.TeamID{}) {
		opening = [2]match.TeamID{1, 2}
	}

	state, err := tournament.New(input.TeamCount, rosters, match.NewPairing(opening[0], opening[1]), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save tournament: %w", err)
	}
	s.store.DeletePrefix(ctx, standingsCachePrefix)

	s.logger.InfoContext(ctx, "tournament created",
		"teams", state.TeamCount,
		"opening", state.CurrentMatch,
	)
	return state, nil
}

func (s *TournamentService) Get(ctx context.Context) (*tournament.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	state, exists, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get live tournament: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no live tournament", ErrNotFound)
	}
	return state, nil
}

func (s *TournamentService) RecordMatch(ctx context.Context, input RecordMatchInput) (*tournament.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.RecordMatch")
	defer span.End()

	state, exists, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get live tournament: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: no live tournament", ErrNotFound)
	}

	players, original, err := applySubstitutions(state, input.Substitutions)
	if err != nil {
		return nil, err
	}

	result := match.Result{
		Teams:           [2]match.TeamID{input.HomeTeam, input.AwayTeam},
		Score:           [2]int{input.HomeScore, input.AwayScore},
		Scorers:         append([]string(nil), input.Scorers...),
		Assists:         append([]string(nil), input.Assists...),
		Players:         players,
		OriginalPlayers: original,
	}

	if err := s.engine.RecordMatch(state, result); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save tournament: %w", err)
	}
	s.store.DeletePrefix(ctx, standingsCachePrefix)

	s.logger.InfoContext(ctx, "match recorded",
		"teams", result.Teams,
		"score", result.Score,
		"next", state.CurrentMatch,
	)
	return state, nil
}

func (s *TournamentService) Finish(ctx context.Context) (tournament.Archive, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Finish")
	defer span.End()

	state, exists, err := s.repo.Get(ctx)
	if err != nil {
		return tournament.Archive{}, fmt.Errorf("get live tournament: %w", err)
	}
	if !exists {
		return tournament.Archive{}, fmt.Errorf("%w: no live tournament", ErrNotFound)
	}

	archiveID, err := s.ids.NewID("arc")
	if err != nil {
		return tournament.Archive{}, fmt.Errorf("generate archive id: %w", err)
	}

	archive := tournament.Archive{
		ID:         archiveID,
		FinishedAt: s.now(),
		State:      *state.Clone(),
	}
	if err := s.archiveRepo.Insert(ctx, archive); err != nil {
		return tournament.Archive{}, fmt.Errorf("insert archive: %w", err)
	}
	if err := s.repo.Clear(ctx); err != nil {
		return tournament.Archive{}, fmt.Errorf("clear live tournament: %w", err)
	}
	s.store.DeletePrefix(ctx, standingsCachePrefix)

	s.logger.InfoContext(ctx, "tournament archived",
		"archive_id", archive.ID,
		"matches", len(archive.State.History),
	)
	return archive, nil
}

func (s *TournamentService) resolveRosters(input CreateInput) (map[match.TeamID][]string, error) {
	if input.TeamCount < tournament.MinTeams || input.TeamCount > tournament.MaxTeams {
		return nil, fmt.Errorf("%w: %d", tournament.ErrTeamCountOutOfRange, input.TeamCount)
	}
	if len(input.Rosters) > 0 && len(input.PlayerPool) > 0 {
		return nil, fmt.Errorf("%w: rosters and player pool are mutually exclusive", ErrInvalidInput)
	}
	if len(input.PlayerPool) > 0 {
		return s.dealPlayerPool(input.TeamCount, input.PlayerPool), nil
	}

	rosters := make(map[match.TeamID][]string, input.TeamCount)
	for teamID := match.TeamID(1); int(teamID) <= input.TeamCount; teamID++ {
		rosters[teamID] = append([]string(nil), input.Rosters[teamID]...)
	}
	for teamID := range input.Rosters {
		if _, ok := rosters[teamID]; !ok {
			return nil, fmt.Errorf("%w: %d", tournament.ErrUnknownTeam, teamID)
		}
	}
	return rosters, nil
}

// dealPlayerPool shuffles the imported list and deals it round-robin so
// team sizes differ by at most one.
func (s *TournamentService) dealPlayerPool(teamCount int, pool []string) map[match.TeamID][]string {
	shuffled := append([]string(nil), pool...)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	rosters := make(map[match.TeamID][]string, teamCount)
	for teamID := match.TeamID(1); int(teamID) <= teamCount; teamID++ {
		rosters[teamID] = []string{}
	}
	for i, name := range shuffled {
		teamID := match.TeamID(i%teamCount + 1)
		rosters[teamID] = append(rosters[teamID], name)
	}
	return rosters
}

// applySubstitutions swaps fielded players for resting ones, returning
// the substituted rosters alongside the untouched originals used for
// stats attribution.
func applySubstitutions(state *tournament.State, subs map[string]string) (players, original map[match.TeamID][]string, err error) {
	original = make(map[match.TeamID][]string, 2)
	players = make(map[match.TeamID][]string, 2)
	for _, teamID := range state.CurrentMatch {
		roster := append([]string(nil), state.Rosters[teamID]...)
		original[teamID] = roster
		players[teamID] = append([]string(nil), roster...)
	}
	if len(subs) == 0 {
		return players, original, nil
	}

	pool := make(map[string]bool, len(state.SubstitutePool()))
	for _, name := range state.SubstitutePool() {
		pool[name] = true
	}

	for out, in := range subs {
		if !pool[in] {
			return nil, nil, fmt.Errorf("%w: %s is not in the substitute pool", ErrInvalidInput, in)
		}
		replaced := false
		for teamID, roster := range players {
			for i, name := range roster {
				if name == out {
					players[teamID][i] = in
					replaced = true
					break
				}
			}
			if replaced {
				break
			}
		}
		if !replaced {
			return nil, nil, fmt.Errorf("%w: %s is not on the field", ErrInvalidInput, out)
		}
		delete(pool, in)
	}
	return players, original, nil
}
