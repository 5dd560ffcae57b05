package match

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordNormalize_LegacyFallback(t *testing.T) {
	t.Parallel()

	rec := Record{
		Teams:   []string{"1", "2"},
		Score:   []int{1, 0},
		Scorers: []string{"Alice"},
		Players: map[string][]string{
			"1": {"Alice"},
			"2": {"Bob"},
		},
	}

	res, err := rec.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if res.Teams != [2]TeamID{1, 2} {
		t.Fatalf("unexpected teams: %v", res.Teams)
	}
	// Without original_players the field rosters double as the stats
	// rosters, so aggregation never branches on record age.
	if diff := cmp.Diff(res.Players, res.OriginalPlayers); diff != "" {
		t.Fatalf("legacy fallback not applied:\n%s", diff)
	}
}

func TestRecordNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
	}{
		{name: "missing teams", rec: Record{Score: []int{1, 0}}},
		{name: "missing score", rec: Record{Teams: []string{"1", "2"}}},
		{name: "one team only", rec: Record{Teams: []string{"1"}, Score: []int{1, 0}}},
		{name: "garbage team id", rec: Record{Teams: []string{"x", "2"}, Score: []int{0, 0}}},
		{name: "zero team id", rec: Record{Teams: []string{"0", "2"}, Score: []int{0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.rec.Normalize(); !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
		})
	}
}

func TestNormalizeAll_SkipsBadRowsAndReportsThem(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Teams: []string{"1", "2"}, Score: []int{2, 1}},
		{Score: []int{1, 1}}, // missing teams
		{Teams: []string{"1", "2"}, Score: []int{0, 0}},
		{Teams: []string{"bad", "2"}, Score: []int{1, 0}},
	}

	results, skipped := NormalizeAll(records)
	if len(results) != 2 {
		t.Fatalf("expected 2 normalized rows, got %d", len(results))
	}
	if diff := cmp.Diff([]int{1, 3}, skipped); diff != "" {
		t.Fatalf("unexpected skipped indexes:\n%s", diff)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	t.Parallel()

	res := Result{
		Teams:   [2]TeamID{2, 3},
		Score:   [2]int{2, 2},
		Scorers: []string{"Alice", "Bob"},
		Assists: []string{"Carol"},
		Players: map[TeamID][]string{
			2: {"Alice", "Sub"},
			3: {"Bob"},
		},
		OriginalPlayers: map[TeamID][]string{
			2: {"Alice", "Carol"},
			3: {"Bob"},
		},
	}

	back, err := RecordFromResult(res).Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if diff := cmp.Diff(res, back); diff != "" {
		t.Fatalf("round trip mismatch (-orig +back):\n%s", diff)
	}
}

func TestNewPairing_Canonical(t *testing.T) {
	t.Parallel()

	if NewPairing(3, 1) != NewPairing(1, 3) {
		t.Fatalf("pairing must normalize to ascending order")
	}
	p := NewPairing(2, 4)
	if !p.Contains(2) || !p.Contains(4) || p.Contains(3) {
		t.Fatalf("contains misbehaves for %v", p)
	}
	if !p.SameTeams(4, 2) {
		t.Fatalf("SameTeams must ignore order")
	}
}

func TestResult_CloneIsDeep(t *testing.T) {
	t.Parallel()

	res := Result{
		Teams:           [2]TeamID{1, 2},
		Score:           [2]int{2, 1},
		Scorers:         []string{"Ana", "Ana"},
		Assists:         []string{"Bo"},
		Players:         map[TeamID][]string{1: {"Ana"}, 2: {"Bo"}},
		OriginalPlayers: map[TeamID][]string{1: {"Ana"}, 2: {"Cy"}},
	}

	clone := res.Clone()
	clone.Scorers[0] = "Mallory"
	clone.Assists[0] = "Mallory"
	clone.Players[1][0] = "Mallory"
	clone.OriginalPlayers[2] = append(clone.OriginalPlayers[2], "Mallory")

	if res.Scorers[0] != "Ana" || res.Assists[0] != "Bo" {
		t.Fatalf("clone shares attribution slices: %v %v", res.Scorers, res.Assists)
	}
	if res.Players[1][0] != "Ana" || len(res.OriginalPlayers[2]) != 1 {
		t.Fatalf("clone shares roster maps: %v %v", res.Players, res.OriginalPlayers)
	}
}
