package usecase

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/rotation"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/cache"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
)

type stubTournamentRepository struct {
	state    *tournament.State
	getCalls int
	err      error
}

func (r *stubTournamentRepository) Get(context.Context) (*tournament.State, bool, error) {
	r.getCalls++
	if r.err != nil {
		return nil, false, r.err
	}
	if r.state == nil {
		return nil, false, nil
	}
	return r.state.Clone(), true, nil
}

func (r *stubTournamentRepository) Save(_ context.Context, state *tournament.State) error {
	if r.err != nil {
		return r.err
	}
	r.state = state.Clone()
	return nil
}

func (r *stubTournamentRepository) Clear(context.Context) error {
	if r.err != nil {
		return r.err
	}
	r.state = nil
	return nil
}

type stubArchiveRepository struct {
	items []tournament.Archive
	err   error
}

func (r *stubArchiveRepository) Insert(_ context.Context, archive tournament.Archive) error {
	if r.err != nil {
		return r.err
	}
	r.items = append(r.items, archive)
	return nil
}

func (r *stubArchiveRepository) List(context.Context) ([]tournament.Archive, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]tournament.Archive(nil), r.items...), nil
}

func (r *stubArchiveRepository) GetByID(_ context.Context, id string) (tournament.Archive, bool, error) {
	if r.err != nil {
		return tournament.Archive{}, false, r.err
	}
	for _, item := range r.items {
		if item.ID == id {
			return item, true, nil
		}
	}
	return tournament.Archive{}, false, nil
}

type stubIDGenerator struct {
	next string
}

func (g *stubIDGenerator) NewID(string) (string, error) {
	return g.next, nil
}

func newTournamentService(repo *stubTournamentRepository, archiveRepo *stubArchiveRepository, seed int64) *TournamentService {
	return NewTournamentService(
		repo,
		archiveRepo,
		rotation.NewEngine(rand.New(rand.NewSource(seed))),
		cache.NewStore(time.Minute),
		&stubIDGenerator{next: "arc_test"},
		logging.NewNop(),
		rand.New(rand.NewSource(seed)),
	)
}

func liveState(t *testing.T, teamCount int, rosters map[match.TeamID][]string) *tournament.State {
	t.Helper()
	state, err := tournament.New(teamCount, rosters, match.NewPairing(1, 2), time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	return state
}

func TestTournamentService_Create(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepository{}
	service := newTournamentService(repo, &stubArchiveRepository{}, 1)

	state, err := service.Create(context.Background(), CreateInput{
		TeamCount: 3,
		Rosters: map[match.TeamID][]string{
			1: {"Ana", "Bo"},
			2: {"Cy"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, state.TeamCount)
	require.Equal(t, match.NewPairing(1, 2), state.CurrentMatch)
	require.Empty(t, state.History)
	require.NotNil(t, repo.state)

	// every configured team owns a roster slice, even an empty one
	require.Len(t, state.Rosters, 3)

	_, err = service.Create(context.Background(), CreateInput{TeamCount: 3})
	require.ErrorIs(t, err, ErrConflict)
}

func TestTournamentService_Create_InvalidConfig(t *testing.T) {
	t.Parallel()

	service := newTournamentService(&stubTournamentRepository{}, &stubArchiveRepository{}, 1)

	_, err := service.Create(context.Background(), CreateInput{TeamCount: 1})
	require.ErrorIs(t, err, tournament.ErrTeamCountOutOfRange)

	_, err = service.Create(context.Background(), CreateInput{
		TeamCount:  2,
		Rosters:    map[match.TeamID][]string{1: {"Ana"}},
		PlayerPool: []string{"Bo"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Create(context.Background(), CreateInput{
		TeamCount: 2,
		Rosters:   map[match.TeamID][]string{5: {"Ana"}},
	})
	require.ErrorIs(t, err, tournament.ErrUnknownTeam)

	_, err = service.Create(context.Background(), CreateInput{
		TeamCount:  0,
		PlayerPool: []string{"Ana", "Bo"},
	})
	require.ErrorIs(t, err, tournament.ErrTeamCountOutOfRange)

	_, err = service.Create(context.Background(), CreateInput{
		TeamCount:  9,
		PlayerPool: []string{"Ana", "Bo"},
	})
	require.ErrorIs(t, err, tournament.ErrTeamCountOutOfRange)
}

func TestTournamentService_Create_DealsPlayerPool(t *testing.T) {
	t.Parallel()

	pool := []string{"Ana", "Bo", "Cy", "Dee", "Ed", "Fin", "Gus"}
	service := newTournamentService(&stubTournamentRepository{}, &stubArchiveRepository{}, 7)

	state, err := service.Create(context.Background(), CreateInput{
		TeamCount:  3,
		PlayerPool: pool,
	})
	require.NoError(t, err)

	seen := map[string]int{}
	for teamID, roster := range state.Rosters {
		require.LessOrEqual(t, len(roster), 3, "team %d over-dealt", teamID)
		require.GreaterOrEqual(t, len(roster), 2, "team %d under-dealt", teamID)
		for _, name := range roster {
			seen[name]++
		}
	}
	require.Len(t, seen, len(pool))
	for name, count := range seen {
		require.Equal(t, 1, count, "player %s dealt %d times", name, count)
	}
}

func TestTournamentService_RecordMatch_AppliesSubstitutions(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepository{state: liveState(t, 3, map[match.TeamID][]string{
		1: {"Ana", "Bo"},
		2: {"Cy", "Dee"},
		3: {"Ed", "Fin"},
	})}
	service := newTournamentService(repo, &stubArchiveRepository{}, 1)

	state, err := service.RecordMatch(context.Background(), RecordMatchInput{
		HomeTeam:      1,
		AwayTeam:      2,
		HomeScore:     2,
		AwayScore:     0,
		Scorers:       []string{"Ana", "Ed"},
		Substitutions: map[string]string{"Bo": "Ed"},
	})
	require.NoError(t, err)
	require.Len(t, state.History, 1)

	recorded := state.History[0]
	require.Equal(t, []string{"Ana", "Ed"}, recorded.Players[1])
	require.Equal(t, []string{"Ana", "Bo"}, recorded.OriginalPlayers[1])
	require.Equal(t, []string{"Cy", "Dee"}, recorded.Players[2])

	// rosters stay as configured, the swap is match-scoped
	require.Equal(t, []string{"Ana", "Bo"}, state.Rosters[1])
}

func TestTournamentService_RecordMatch_RejectsBadSubstitutions(t *testing.T) {
	t.Parallel()

	base := map[match.TeamID][]string{
		1: {"Ana", "Bo"},
		2: {"Cy", "Dee"},
		3: {"Ed", "Fin"},
	}

	tests := []struct {
		name string
		subs map[string]string
	}{
		{name: "incoming player not resting", subs: map[string]string{"Ana": "Cy"}},
		{name: "outgoing player not on the field", subs: map[string]string{"Ed": "Fin"}},
		{name: "unknown incoming player", subs: map[string]string{"Ana": "Zoe"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &stubTournamentRepository{state: liveState(t, 3, base)}
			service := newTournamentService(repo, &stubArchiveRepository{}, 1)

			_, err := service.RecordMatch(context.Background(), RecordMatchInput{
				HomeTeam:      1,
				AwayTeam:      2,
				Substitutions: tc.subs,
			})
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Empty(t, repo.state.History)
		})
	}
}

func TestTournamentService_RecordMatch_NoLiveTournament(t *testing.T) {
	t.Parallel()

	service := newTournamentService(&stubTournamentRepository{}, &stubArchiveRepository{}, 1)

	_, err := service.RecordMatch(context.Background(), RecordMatchInput{HomeTeam: 1, AwayTeam: 2})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTournamentService_RecordMatch_EngineRejectionKeepsState(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepository{state: liveState(t, 3, map[match.TeamID][]string{})}
	service := newTournamentService(repo, &stubArchiveRepository{}, 1)

	_, err := service.RecordMatch(context.Background(), RecordMatchInput{
		HomeTeam: 1,
		AwayTeam: 3,
	})
	require.ErrorIs(t, err, rotation.ErrPairingMismatch)
	require.Empty(t, repo.state.History)
}

func TestTournamentService_Finish(t *testing.T) {
	t.Parallel()

	repo := &stubTournamentRepository{state: liveState(t, 2, map[match.TeamID][]string{
		1: {"Ana"},
		2: {"Bo"},
	})}
	archiveRepo := &stubArchiveRepository{}
	service := newTournamentService(repo, archiveRepo, 1)
	service.now = func() time.Time { return time.Date(2026, 6, 13, 22, 0, 0, 0, time.UTC) }

	archive, err := service.Finish(context.Background())
	require.NoError(t, err)
	require.Equal(t, "arc_test", archive.ID)
	require.Equal(t, time.Date(2026, 6, 13, 22, 0, 0, 0, time.UTC), archive.FinishedAt)
	require.Len(t, archiveRepo.items, 1)
	require.Nil(t, repo.state)

	_, err = service.Finish(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTournamentService_RepositoryErrorsPropagate(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("storage down")
	repo := &stubTournamentRepository{err: repoErr}
	service := newTournamentService(repo, &stubArchiveRepository{}, 1)

	_, err := service.Get(context.Background())
	require.ErrorIs(t, err, repoErr)
}
