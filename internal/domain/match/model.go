package match

// TeamID identifies a team within a tournament. IDs form a dense 1..N
// range assigned at tournament creation and never change afterwards.
type TeamID int

// Pairing is the two teams scheduled to play a match, kept in ascending
// order so the same pairing always compares equal.
type Pairing [2]TeamID

func NewPairing(a, b TeamID) Pairing {
	if b < a {
		a, b = b, a
	}
	return Pairing{a, b}
}

func (p Pairing) Contains(t TeamID) bool {
	return p[0] == t || p[1] == t
}

// SameTeams reports whether the pairing covers the given two teams in
// either order.
func (p Pairing) SameTeams(a, b TeamID) bool {
	return p == NewPairing(a, b)
}

// Result is one finished match in canonical in-memory form. Players holds
// the rosters actually on the field after substitutions, OriginalPlayers
// the pre-substitution rosters used for stats attribution.
type Result struct {
	Teams           [2]TeamID
	Score           [2]int
	Scorers         []string
	Assists         []string
	Players         map[TeamID][]string
	OriginalPlayers map[TeamID][]string
}

// Winner returns the winning team, or false on a draw.
func (r Result) Winner() (TeamID, bool) {
	switch {
	case r.Score[0] > r.Score[1]:
		return r.Teams[0], true
	case r.Score[1] > r.Score[0]:
		return r.Teams[1], true
	default:
		return 0, false
	}
}

func (r Result) TotalGoals() int {
	return r.Score[0] + r.Score[1]
}

// Clone deep-copies the result so holders of a snapshot cannot mutate
// the original's slices or roster maps.
func (r Result) Clone() Result {
	out := r
	out.Scorers = append([]string(nil), r.Scorers...)
	out.Assists = append([]string(nil), r.Assists...)
	out.Players = cloneRosterMap(r.Players)
	out.OriginalPlayers = cloneRosterMap(r.OriginalPlayers)
	return out
}

func cloneRosterMap(rosters map[TeamID][]string) map[TeamID][]string {
	if rosters == nil {
		return nil
	}
	out := make(map[TeamID][]string, len(rosters))
	for id, names := range rosters {
		out[id] = append([]string(nil), names...)
	}
	return out
}

// StatsRosters returns the rosters used for per-player attribution:
// the pre-substitution rosters when recorded, otherwise the field rosters.
// Legacy records without original_players are normalized through here.
func (r Result) StatsRosters() map[TeamID][]string {
	if len(r.OriginalPlayers) > 0 {
		return r.OriginalPlayers
	}
	return r.Players
}
