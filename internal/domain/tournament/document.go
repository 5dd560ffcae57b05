package tournament

import (
	"fmt"
	"strconv"
	"time"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
)

// Document is the persisted shape of a tournament: the same structure the
// original JSON exports carried, so old archives stay readable.
type Document struct {
	Date    string              `json:"date"`
	Teams   int                 `json:"teams"`
	Players map[string][]string `json:"players"`
	History []match.Record      `json:"history"`
	Streak  map[string]int      `json:"streak"`
}

const documentDateLayout = "2006-01-02"

// DocumentFromState serializes a state into its persisted shape.
func DocumentFromState(s *State) Document {
	doc := Document{
		Date:    s.CreatedAt.Format(documentDateLayout),
		Teams:   s.TeamCount,
		Players: make(map[string][]string, len(s.Rosters)),
		History: make([]match.Record, 0, len(s.History)),
		Streak:  make(map[string]int, len(s.Streak)),
	}
	for id, roster := range s.Rosters {
		doc.Players[strconv.Itoa(int(id))] = append([]string(nil), roster...)
	}
	for _, res := range s.History {
		doc.History = append(doc.History, match.RecordFromResult(res))
	}
	for id, n := range s.Streak {
		doc.Streak[strconv.Itoa(int(id))] = n
	}
	return doc
}

// HydrateState rebuilds an in-memory state from a persisted document.
// Malformed history rows are skipped and their indexes reported so a bad
// record never hides the rest of an archive.
func (d Document) HydrateState() (*State, []int, error) {
	createdAt, err := time.Parse(documentDateLayout, d.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("parse tournament date %q: %w", d.Date, err)
	}

	s := &State{
		CreatedAt: createdAt,
		TeamCount: d.Teams,
		Rosters:   make(map[match.TeamID][]string, len(d.Players)),
		Streak:    make(map[match.TeamID]int, len(d.Streak)),
	}
	for key, roster := range d.Players {
		id, err := parseDocTeamID(key)
		if err != nil {
			return nil, nil, err
		}
		s.Rosters[id] = append([]string(nil), roster...)
	}
	for key, n := range d.Streak {
		id, err := parseDocTeamID(key)
		if err != nil {
			return nil, nil, err
		}
		s.Streak[id] = n
	}

	history, skipped := match.NormalizeAll(d.History)
	s.History = history
	return s, skipped, nil
}

func parseDocTeamID(key string) (match.TeamID, error) {
	id, err := strconv.Atoi(key)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid team id key %q in tournament document", key)
	}
	return match.TeamID(id), nil
}
