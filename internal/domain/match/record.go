package match

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedRecord marks a persisted match record that cannot be
// normalized into a Result (missing teams or score).
var ErrMalformedRecord = errors.New("malformed match record")

// Record is the persisted shape of one match. Team IDs are stored as
// strings and rosters as string-keyed maps; original_players is absent
// from records written before substitutions existed.
type Record struct {
	Teams           []string            `json:"teams"`
	Score           []int               `json:"score"`
	Scorers         []string            `json:"scorers"`
	Assists         []string            `json:"assists"`
	Players         map[string][]string `json:"players,omitempty"`
	OriginalPlayers map[string][]string `json:"original_players,omitempty"`
}

// Normalize converts a persisted record into the canonical Result,
// applying the original_players fallback exactly once so aggregation
// never has to branch on record age.
func (r Record) Normalize() (Result, error) {
	if len(r.Teams) != 2 {
		return Result{}, fmt.Errorf("%w: expected 2 teams, got %d", ErrMalformedRecord, len(r.Teams))
	}
	if len(r.Score) != 2 {
		return Result{}, fmt.Errorf("%w: expected 2 score entries, got %d", ErrMalformedRecord, len(r.Score))
	}

	var teams [2]TeamID
	for i, raw := range r.Teams {
		id, err := parseTeamID(raw)
		if err != nil {
			return Result{}, err
		}
		teams[i] = id
	}

	players, err := normalizeRosters(r.Players)
	if err != nil {
		return Result{}, err
	}
	original, err := normalizeRosters(r.OriginalPlayers)
	if err != nil {
		return Result{}, err
	}
	if len(original) == 0 {
		original = players
	}

	return Result{
		Teams:           teams,
		Score:           [2]int{r.Score[0], r.Score[1]},
		Scorers:         append([]string(nil), r.Scorers...),
		Assists:         append([]string(nil), r.Assists...),
		Players:         players,
		OriginalPlayers: original,
	}, nil
}

// NormalizeAll converts every well-formed record and reports the indexes
// of records it had to skip. One bad row never blocks the rest.
func NormalizeAll(records []Record) ([]Result, []int) {
	results := make([]Result, 0, len(records))
	var skipped []int
	for i, rec := range records {
		res, err := rec.Normalize()
		if err != nil {
			skipped = append(skipped, i)
			continue
		}
		results = append(results, res)
	}
	return results, skipped
}

// RecordFromResult produces the persisted shape for a canonical result.
func RecordFromResult(res Result) Record {
	return Record{
		Teams:           []string{formatTeamID(res.Teams[0]), formatTeamID(res.Teams[1])},
		Score:           []int{res.Score[0], res.Score[1]},
		Scorers:         append([]string(nil), res.Scorers...),
		Assists:         append([]string(nil), res.Assists...),
		Players:         rostersToStrings(res.Players),
		OriginalPlayers: rostersToStrings(res.OriginalPlayers),
	}
}

func parseTeamID(raw string) (TeamID, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid team id %q", ErrMalformedRecord, raw)
	}
	return TeamID(id), nil
}

func formatTeamID(id TeamID) string {
	return strconv.Itoa(int(id))
}

func normalizeRosters(raw map[string][]string) (map[TeamID][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[TeamID][]string, len(raw))
	for key, names := range raw {
		id, err := parseTeamID(key)
		if err != nil {
			return nil, err
		}
		out[id] = append([]string(nil), names...)
	}
	return out, nil
}

func rostersToStrings(rosters map[TeamID][]string) map[string][]string {
	if len(rosters) == 0 {
		return nil
	}
	out := make(map[string][]string, len(rosters))
	for id, names := range rosters {
		out[formatTeamID(id)] = append([]string(nil), names...)
	}
	return out
}
