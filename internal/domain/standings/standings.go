package standings

import (
	"sort"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
)

// TeamRow is one line of the team table. Points and GoalDifference are
// derived after the fold: Points = 3*Wins + Draws, GD = GF - GA.
type TeamRow struct {
	TeamID       match.TeamID
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
	Points       int
}

// PlayerRow is one line of the player leaderboard.
// Rating = Wins + Assists + 2*Goals.
type PlayerRow struct {
	Name    string
	Played  int
	Wins    int
	Draws   int
	Losses  int
	Goals   int
	Assists int
	Rating  int
}

// TeamTable folds the match history into a table row per team 1..N.
// Teams with no matches keep their zeroed row. The fold is commutative,
// so the order of history does not change the numbers.
func TeamTable(history []match.Result, teamCount int) []TeamRow {
	rows := make(map[match.TeamID]*TeamRow, teamCount)
	for id := match.TeamID(1); int(id) <= teamCount; id++ {
		rows[id] = &TeamRow{TeamID: id}
	}

	for _, m := range history {
		a, ok1 := rows[m.Teams[0]]
		b, ok2 := rows[m.Teams[1]]
		if !ok1 || !ok2 {
			continue
		}
		a.Played++
		b.Played++
		a.GoalsFor += m.Score[0]
		a.GoalsAgainst += m.Score[1]
		b.GoalsFor += m.Score[1]
		b.GoalsAgainst += m.Score[0]
		switch {
		case m.Score[0] > m.Score[1]:
			a.Wins++
			b.Losses++
		case m.Score[1] > m.Score[0]:
			b.Wins++
			a.Losses++
		default:
			a.Draws++
			b.Draws++
		}
	}

	out := make([]TeamRow, 0, teamCount)
	for id := match.TeamID(1); int(id) <= teamCount; id++ {
		row := rows[id]
		row.GoalDiff = row.GoalsFor - row.GoalsAgainst
		row.Points = 3*row.Wins + row.Draws
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDiff != out[j].GoalDiff {
			return out[i].GoalDiff > out[j].GoalDiff
		}
		if out[i].GoalsFor != out[j].GoalsFor {
			return out[i].GoalsFor > out[j].GoalsFor
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// PlayerTable folds the match history into a leaderboard row per player
// name. Rows appear lazily the first time a name shows up in a roster;
// scorer or assist names outside both rosters are ignored rather than
// creating spurious rows. Win/draw/loss attribution recomputes the
// winner from the score instead of trusting stored fields.
func PlayerTable(history []match.Result) []PlayerRow {
	rows := make(map[string]*PlayerRow)
	var order []string

	row := func(name string) *PlayerRow {
		if r, ok := rows[name]; ok {
			return r
		}
		r := &PlayerRow{Name: name}
		rows[name] = r
		order = append(order, name)
		return r
	}

	for _, m := range history {
		rosters := m.StatsRosters()

		for _, teamID := range m.Teams {
			for _, name := range rosters[teamID] {
				row(name).Played++
			}
		}

		winner, decided := m.Winner()
		for _, teamID := range m.Teams {
			for _, name := range rosters[teamID] {
				r := row(name)
				switch {
				case !decided:
					r.Draws++
				case teamID == winner:
					r.Wins++
				default:
					r.Losses++
				}
			}
		}

		for _, name := range m.Scorers {
			if r, ok := rows[name]; ok {
				r.Goals++
			}
		}
		for _, name := range m.Assists {
			if r, ok := rows[name]; ok {
				r.Assists++
			}
		}
	}

	out := make([]PlayerRow, 0, len(order))
	for _, name := range order {
		r := rows[name]
		r.Rating = r.Wins + r.Assists + 2*r.Goals
		out = append(out, *r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Assists != out[j].Assists {
			return out[i].Assists > out[j].Assists
		}
		return out[i].Name < out[j].Name
	})
	return out
}
