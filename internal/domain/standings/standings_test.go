package standings

import (
	"math/rand"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
)

func TestTeamTable_WinAndDrawScenario(t *testing.T) {
	t.Parallel()

	history := []match.Result{
		{Teams: [2]match.TeamID{1, 2}, Score: [2]int{2, 1}},
		{Teams: [2]match.TeamID{1, 2}, Score: [2]int{0, 0}},
	}

	got := TeamTable(history, 2)
	want := []TeamRow{
		{TeamID: 1, Played: 2, Wins: 1, Draws: 1, Losses: 0, GoalsFor: 2, GoalsAgainst: 1, GoalDiff: 1, Points: 4},
		{TeamID: 2, Played: 2, Wins: 0, Draws: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 2, GoalDiff: -1, Points: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("team table mismatch (-want +got):\n%s", diff)
	}
}

func TestTeamTable_ZeroRowsForIdleTeams(t *testing.T) {
	t.Parallel()

	history := []match.Result{
		{Teams: [2]match.TeamID{1, 2}, Score: [2]int{1, 0}},
	}

	got := TeamTable(history, 4)
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
	for _, row := range got[2:] {
		if row.Played != 0 || row.Points != 0 {
			t.Fatalf("idle team must keep a zeroed row: %+v", row)
		}
	}
}

func TestTeamTable_SortOrder(t *testing.T) {
	t.Parallel()

	// Teams 2 and 3 finish level on points; goal difference, then goals
	// scored, then team id settle the order.
	history := []match.Result{
		{Teams: [2]match.TeamID{2, 1}, Score: [2]int{3, 0}},
		{Teams: [2]match.TeamID{3, 1}, Score: [2]int{1, 0}},
	}

	got := TeamTable(history, 3)
	if got[0].TeamID != 2 || got[1].TeamID != 3 || got[2].TeamID != 1 {
		t.Fatalf("unexpected order: %v, %v, %v", got[0].TeamID, got[1].TeamID, got[2].TeamID)
	}
}

func TestPlayerTable_LegacyRosterFallback(t *testing.T) {
	t.Parallel()

	// A record without original_players attributes stats via players.
	history := []match.Result{
		{
			Teams:   [2]match.TeamID{1, 2},
			Score:   [2]int{1, 0},
			Scorers: []string{"Alice"},
			Players: map[match.TeamID][]string{
				1: {"Alice"},
				2: {"Bob"},
			},
		},
	}

	got := PlayerTable(history)
	want := []PlayerRow{
		{Name: "Alice", Played: 1, Wins: 1, Goals: 1, Rating: 3},
		{Name: "Bob", Played: 1, Losses: 1, Rating: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("player table mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerTable_SubstitutedOutPlayerKeepsCredit(t *testing.T) {
	t.Parallel()

	history := []match.Result{
		{
			Teams: [2]match.TeamID{1, 2},
			Score: [2]int{0, 2},
			Players: map[match.TeamID][]string{
				1: {"Sub"}, // Alice was replaced mid-match
				2: {"Bob"},
			},
			OriginalPlayers: map[match.TeamID][]string{
				1: {"Alice"},
				2: {"Bob"},
			},
		},
	}

	got := PlayerTable(history)
	names := make(map[string]PlayerRow, len(got))
	for _, row := range got {
		names[row.Name] = row
	}
	if _, ok := names["Sub"]; ok {
		t.Fatalf("substitute must not appear when original rosters exist")
	}
	if row := names["Alice"]; row.Played != 1 || row.Losses != 1 {
		t.Fatalf("substituted-out player keeps played credit: %+v", row)
	}
}

func TestPlayerTable_UnknownScorerIgnored(t *testing.T) {
	t.Parallel()

	history := []match.Result{
		{
			Teams:   [2]match.TeamID{1, 2},
			Score:   [2]int{1, 0},
			Scorers: []string{"Stranger"},
			Players: map[match.TeamID][]string{
				1: {"Alice"},
				2: {"Bob"},
			},
		},
	}

	got := PlayerTable(history)
	for _, row := range got {
		if row.Name == "Stranger" {
			t.Fatalf("scorer outside both rosters must not create a row")
		}
	}
}

func TestAggregation_IdempotentAndOrderIndependent(t *testing.T) {
	t.Parallel()

	history := randomHistory(t, 40, 4)

	first := TeamTable(history, 4)
	second := TeamTable(history, 4)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("team table not idempotent:\n%s", diff)
	}

	firstPlayers := PlayerTable(history)
	secondPlayers := PlayerTable(history)
	if diff := cmp.Diff(firstPlayers, secondPlayers); diff != "" {
		t.Fatalf("player table not idempotent:\n%s", diff)
	}

	shuffled := append([]match.Result(nil), history...)
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if diff := cmp.Diff(first, TeamTable(shuffled, 4)); diff != "" {
		t.Fatalf("team table depends on history order:\n%s", diff)
	}
	if diff := cmp.Diff(firstPlayers, PlayerTable(shuffled)); diff != "" {
		t.Fatalf("player table depends on history order:\n%s", diff)
	}
}

func TestAggregation_Laws(t *testing.T) {
	t.Parallel()

	history := randomHistory(t, 60, 5)

	for _, row := range TeamTable(history, 5) {
		if row.Points != 3*row.Wins+row.Draws {
			t.Fatalf("points law violated: %+v", row)
		}
		if row.GoalDiff != row.GoalsFor-row.GoalsAgainst {
			t.Fatalf("goal difference law violated: %+v", row)
		}
		if row.Wins+row.Draws+row.Losses != row.Played {
			t.Fatalf("conservation violated for team row: %+v", row)
		}
	}

	for _, row := range PlayerTable(history) {
		if row.Wins+row.Draws+row.Losses != row.Played {
			t.Fatalf("conservation violated for player row: %+v", row)
		}
		if row.Rating != row.Wins+row.Assists+2*row.Goals {
			t.Fatalf("rating law violated: %+v", row)
		}
	}
}

// randomHistory fabricates plausible finished matches over teamCount
// teams with a stable roster of fake player names per team.
func randomHistory(t *testing.T, n, teamCount int) []match.Result {
	t.Helper()

	faker := gofakeit.New(11)
	rng := rand.New(rand.NewSource(11))

	rosters := make(map[match.TeamID][]string, teamCount)
	for id := match.TeamID(1); int(id) <= teamCount; id++ {
		roster := make([]string, 0, 4)
		for p := 0; p < 4; p++ {
			roster = append(roster, faker.Name())
		}
		rosters[id] = roster
	}

	history := make([]match.Result, 0, n)
	for i := 0; i < n; i++ {
		a := match.TeamID(rng.Intn(teamCount) + 1)
		b := match.TeamID(rng.Intn(teamCount) + 1)
		for b == a {
			b = match.TeamID(rng.Intn(teamCount) + 1)
		}

		score := [2]int{rng.Intn(5), rng.Intn(5)}
		players := map[match.TeamID][]string{
			a: rosters[a],
			b: rosters[b],
		}

		var scorers, assists []string
		pool := append(append([]string(nil), rosters[a]...), rosters[b]...)
		for g := 0; g < score[0]+score[1]; g++ {
			scorers = append(scorers, pool[rng.Intn(len(pool))])
			if rng.Intn(2) == 0 {
				assists = append(assists, pool[rng.Intn(len(pool))])
			}
		}

		history = append(history, match.Result{
			Teams:           [2]match.TeamID{a, b},
			Score:           score,
			Scorers:         scorers,
			Assists:         assists,
			Players:         players,
			OriginalPlayers: players,
		})
	}
	return history
}
