package tournament

import (
	"errors"
	"fmt"
	"time"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
)

const (
	MinTeams      = 2
	MaxTeams      = 8
	MaxRosterSize = 6
)

var (
	ErrTeamCountOutOfRange = errors.New("team count out of range")
	ErrRosterTooLarge      = errors.New("roster exceeds max players per team")
	ErrDuplicatePlayer     = errors.New("player assigned to more than one team")
	ErrUnknownTeam         = errors.New("unknown team id")
	ErrInvalidOpeningPair  = errors.New("opening match must pair two distinct teams")
)

// State is the mutable aggregate for one live tournament. History is
// append-only; CurrentMatch and Streak are recomputed by the rotation
// engine after every recorded match.
type State struct {
	CreatedAt    time.Time
	TeamCount    int
	Rosters      map[match.TeamID][]string
	History      []match.Result
	CurrentMatch match.Pairing
	Streak       map[match.TeamID]int
}

// New builds a fresh tournament state with empty history and zeroed
// streak counters, validating every configuration invariant.
func New(teamCount int, rosters map[match.TeamID][]string, opening match.Pairing, createdAt time.Time) (*State, error) {
	s := &State{
		CreatedAt:    createdAt,
		TeamCount:    teamCount,
		Rosters:      rosters,
		CurrentMatch: opening,
		Streak:       make(map[match.TeamID]int, teamCount),
	}
	for id := match.TeamID(1); int(id) <= teamCount; id++ {
		s.Streak[id] = 0
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opening[0] == opening[1] {
		return nil, ErrInvalidOpeningPair
	}
	return s, nil
}

// Validate checks the configuration invariants: 2..8 teams, rosters keyed
// within 1..N and capped at MaxRosterSize, and the player partition (no
// name on two teams).
func (s *State) Validate() error {
	if s.TeamCount < MinTeams || s.TeamCount > MaxTeams {
		return fmt.Errorf("%w: %d", ErrTeamCountOutOfRange, s.TeamCount)
	}

	seen := make(map[string]match.TeamID)
	for id, roster := range s.Rosters {
		if !s.KnownTeam(id) {
			return fmt.Errorf("%w: %d", ErrUnknownTeam, id)
		}
		if len(roster) > MaxRosterSize {
			return fmt.Errorf("%w: team %d has %d players", ErrRosterTooLarge, id, len(roster))
		}
		for _, name := range roster {
			if owner, ok := seen[name]; ok && owner != id {
				return fmt.Errorf("%w: %s on teams %d and %d", ErrDuplicatePlayer, name, owner, id)
			}
			seen[name] = id
		}
	}

	if !s.KnownTeam(s.CurrentMatch[0]) || !s.KnownTeam(s.CurrentMatch[1]) {
		return fmt.Errorf("%w: current match %v", ErrUnknownTeam, s.CurrentMatch)
	}
	return nil
}

func (s *State) KnownTeam(id match.TeamID) bool {
	return id >= 1 && int(id) <= s.TeamCount
}

// RestingTeams lists the teams outside the current pairing in ascending
// ID order; their players form the substitution pool.
func (s *State) RestingTeams() []match.TeamID {
	var out []match.TeamID
	for id := match.TeamID(1); int(id) <= s.TeamCount; id++ {
		if !s.CurrentMatch.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// PlayingRoster is the union of the current pairing's rosters.
func (s *State) PlayingRoster() []string {
	var out []string
	out = append(out, s.Rosters[s.CurrentMatch[0]]...)
	out = append(out, s.Rosters[s.CurrentMatch[1]]...)
	return out
}

// SubstitutePool is the union of the resting teams' rosters.
func (s *State) SubstitutePool() []string {
	var out []string
	for _, id := range s.RestingTeams() {
		out = append(out, s.Rosters[id]...)
	}
	return out
}

// Clone deep-copies the state so repositories can hand out snapshots
// without sharing mutable maps or slices.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		CreatedAt:    s.CreatedAt,
		TeamCount:    s.TeamCount,
		CurrentMatch: s.CurrentMatch,
		Rosters:      cloneRosters(s.Rosters),
		Streak:       make(map[match.TeamID]int, len(s.Streak)),
	}
	for id, n := range s.Streak {
		out.Streak[id] = n
	}
	out.History = make([]match.Result, len(s.History))
	for i, res := range s.History {
		out.History[i] = res.Clone()
	}
	return out
}

// Archive is a finished tournament preserved in history storage.
type Archive struct {
	ID         string
	FinishedAt time.Time
	State      State
}

func cloneRosters(rosters map[match.TeamID][]string) map[match.TeamID][]string {
	out := make(map[match.TeamID][]string, len(rosters))
	for id, names := range rosters {
		out[id] = append([]string(nil), names...)
	}
	return out
}
