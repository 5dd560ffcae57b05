package memory

import (
	"context"
	"testing"
	"time"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
)

func testState(t *testing.T) *tournament.State {
	t.Helper()
	state, err := tournament.New(3, map[match.TeamID][]string{
		1: {"Ana"},
		2: {"Bo"},
		3: {"Cy"},
	}, match.NewPairing(1, 2), time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	return state
}

func TestTournamentRepository_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTournamentRepository()

	if _, exists, err := repo.Get(ctx); err != nil || exists {
		t.Fatalf("expected empty slot, exists=%t err=%v", exists, err)
	}

	state := testState(t)
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, exists, err := repo.Get(ctx)
	if err != nil || !exists {
		t.Fatalf("Get after Save: exists=%t err=%v", exists, err)
	}
	if got.TeamCount != 3 || got.CurrentMatch != match.NewPairing(1, 2) {
		t.Fatalf("unexpected state: %+v", got)
	}

	// mutating the returned snapshot must not leak into the stored state
	got.Rosters[1][0] = "Mallory"
	got.Streak[1] = 99
	again, _, _ := repo.Get(ctx)
	if again.Rosters[1][0] != "Ana" || again.Streak[1] != 0 {
		t.Fatalf("snapshot mutation leaked into repository: %+v", again)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, exists, _ := repo.Get(ctx); exists {
		t.Fatalf("expected empty slot after Clear")
	}
}

func TestArchiveRepository_InsertListGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewArchiveRepository()

	first := tournament.Archive{ID: "arc_a", FinishedAt: time.Date(2026, 6, 13, 22, 0, 0, 0, time.UTC), State: *testState(t)}
	second := tournament.Archive{ID: "arc_b", FinishedAt: time.Date(2026, 6, 20, 22, 0, 0, 0, time.UTC), State: *testState(t)}

	if err := repo.Insert(ctx, first); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := repo.Insert(ctx, second); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "arc_a" || items[1].ID != "arc_b" {
		t.Fatalf("unexpected listing: %+v", items)
	}

	got, exists, err := repo.GetByID(ctx, "arc_b")
	if err != nil || !exists {
		t.Fatalf("GetByID: exists=%t err=%v", exists, err)
	}
	if got.FinishedAt != second.FinishedAt {
		t.Fatalf("unexpected archive: %+v", got)
	}

	got.State.Rosters[1][0] = "Mallory"
	again, _, _ := repo.GetByID(ctx, "arc_b")
	if again.State.Rosters[1][0] != "Ana" {
		t.Fatalf("snapshot mutation leaked into repository")
	}

	if _, exists, _ := repo.GetByID(ctx, "arc_missing"); exists {
		t.Fatalf("expected miss for unknown archive")
	}
}
