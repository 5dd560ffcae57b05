package postgres

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
)

// ArchiveRepository stores finished tournaments as JSONB documents with a
// few indexed columns for listing.
type ArchiveRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewArchiveRepository(db *sqlx.DB, logger *logging.Logger) *ArchiveRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveRepository{db: db, logger: logger}
}

func (r *ArchiveRepository) Insert(ctx context.Context, archive tournament.Archive) error {
	doc := tournament.DocumentFromState(&archive.State)
	encoded, err := sonic.Marshal(doc)
	if err != nil {
		return crerr.Wrap(err, "marshal tournament document")
	}

	const query = `
		INSERT INTO tournament_archives
			(public_id, finished_at, played_on, team_count, match_count, document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query,
		archive.ID,
		archive.FinishedAt,
		archive.State.CreatedAt,
		archive.State.TeamCount,
		len(archive.State.History),
		encoded,
		time.Now().UTC(),
	); err != nil {
		return crerr.Wrapf(err, "insert archive %s", archive.ID)
	}

	return nil
}

func (r *ArchiveRepository) List(ctx context.Context) ([]tournament.Archive, error) {
	const query = `
		SELECT id, public_id, finished_at, played_on, team_count, match_count, document, created_at, deleted_at
		FROM tournament_archives
		WHERE deleted_at IS NULL
		ORDER BY finished_at DESC, public_id`

	var rows []archiveTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, crerr.Wrap(err, "select archives")
	}

	out := make([]tournament.Archive, 0, len(rows))
	for _, row := range rows {
		archive, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, archive)
	}

	return out, nil
}

func (r *ArchiveRepository) GetByID(ctx context.Context, archiveID string) (tournament.Archive, bool, error) {
	const query = `
		SELECT id, public_id, finished_at, played_on, team_count, match_count, document, created_at, deleted_at
		FROM tournament_archives
		WHERE public_id = $1 AND deleted_at IS NULL`

	var row archiveTableModel
	if err := r.db.GetContext(ctx, &row, query, archiveID); err != nil {
		if isNotFound(err) {
			return tournament.Archive{}, false, nil
		}
		return tournament.Archive{}, false, crerr.Wrapf(err, "get archive %s", archiveID)
	}

	archive, err := r.hydrate(ctx, row)
	if err != nil {
		return tournament.Archive{}, false, err
	}

	return archive, true, nil
}

// hydrate decodes the stored document back into domain state. Malformed
// history rows are dropped with a warning rather than failing the whole
// archive.
func (r *ArchiveRepository) hydrate(ctx context.Context, row archiveTableModel) (tournament.Archive, error) {
	var doc tournament.Document
	if err := sonic.Unmarshal(row.Document, &doc); err != nil {
		return tournament.Archive{}, crerr.Wrapf(err, "decode document for archive %s", row.PublicID)
	}

	state, skipped, err := doc.HydrateState()
	if err != nil {
		return tournament.Archive{}, crerr.Wrapf(err, "hydrate archive %s", row.PublicID)
	}
	if len(skipped) > 0 {
		r.logger.WarnContext(ctx, "skipped malformed match records",
			"archive_id", row.PublicID,
			"indexes", skipped,
		)
	}

	return tournament.Archive{
		ID:         row.PublicID,
		FinishedAt: row.FinishedAt,
		State:      *state,
	}, nil
}
