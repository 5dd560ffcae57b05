package rotation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
)

const restStreak = 3

var (
	ErrPairingMismatch = errors.New("result teams do not match the scheduled pairing")
	ErrNegativeScore   = errors.New("score cannot be negative")
	ErrTooManyScorers  = errors.New("more scorers than goals")
	ErrUnknownRoster   = errors.New("result roster keyed by team outside the pairing")
)

// Engine decides who plays next after each finished match. The random
// source only breaks a drawn opening match, and is injected so tests can
// force either outcome.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// RecordMatch appends the result, updates streak counters and computes
// the next pairing. Validation runs up front so a rejected result leaves
// the state untouched.
//
// Streak counters intentionally follow the long-standing house rule:
// both participants count up every match they appear in, and only the
// winner's counter resets when it is forced to rest.
func (e *Engine) RecordMatch(state *tournament.State, result match.Result) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := validateResult(state, result); err != nil {
		return err
	}

	state.History = append(state.History, result)
	a, b := result.Teams[0], result.Teams[1]
	state.Streak[a]++
	state.Streak[b]++

	winner, decided := result.Winner()
	if !decided {
		winner = e.breakDraw(state, a, b)
	}
	loser := a
	if winner == a {
		loser = b
	}

	next, hasNext := nextOpponent(state, result.Teams)
	switch {
	case hasNext && state.Streak[winner] >= restStreak:
		// Three in a row: the winner sits out and its counter restarts.
		state.CurrentMatch = match.NewPairing(next, loser)
		state.Streak[winner] = 0
	case hasNext:
		state.CurrentMatch = match.NewPairing(winner, next)
	default:
		// Two-team tournament: the same pairing plays again.
		state.CurrentMatch = match.NewPairing(winner, loser)
	}
	return nil
}

// breakDraw picks a drawn match's nominal winner. The opening match is a
// coin flip; afterwards continuity favors the side that skipped the
// previous match over the one that just played it.
func (e *Engine) breakDraw(state *tournament.State, a, b match.TeamID) match.TeamID {
	if len(state.History) == 1 {
		if e.rng.Intn(2) == 0 {
			return a
		}
		return b
	}
	prev := state.History[len(state.History)-2]
	if prev.Teams[0] == a || prev.Teams[1] == a {
		return b
	}
	return a
}

// nextOpponent is the lowest team ID outside the pairing; with only two
// teams there is nobody to rotate in.
func nextOpponent(state *tournament.State, playing [2]match.TeamID) (match.TeamID, bool) {
	for id := match.TeamID(1); int(id) <= state.TeamCount; id++ {
		if id != playing[0] && id != playing[1] {
			return id, true
		}
	}
	return 0, false
}

func validateResult(state *tournament.State, result match.Result) error {
	if !state.CurrentMatch.SameTeams(result.Teams[0], result.Teams[1]) {
		return fmt.Errorf("%w: got %v, scheduled %v", ErrPairingMismatch, result.Teams, state.CurrentMatch)
	}
	if result.Score[0] < 0 || result.Score[1] < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeScore, result.Score)
	}
	if len(result.Scorers) > result.TotalGoals() {
		return fmt.Errorf("%w: %d scorers for %d goals", ErrTooManyScorers, len(result.Scorers), result.TotalGoals())
	}
	for _, rosters := range []map[match.TeamID][]string{result.Players, result.OriginalPlayers} {
		for id := range rosters {
			if !state.CurrentMatch.Contains(id) {
				return fmt.Errorf("%w: team %d", ErrUnknownRoster, id)
			}
		}
	}
	return nil
}
