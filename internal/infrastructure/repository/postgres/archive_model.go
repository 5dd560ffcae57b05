package postgres

import (
	"time"
)

type archiveTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	FinishedAt time.Time  `db:"finished_at"`
	PlayedOn   time.Time  `db:"played_on"`
	TeamCount  int        `db:"team_count"`
	MatchCount int        `db:"match_count"`
	Document   []byte     `db:"document"`
	CreatedAt  time.Time  `db:"created_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}
