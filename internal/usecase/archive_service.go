package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/matchrota/pickup-tournament/internal/domain/match"
	"github.com/matchrota/pickup-tournament/internal/domain/standings"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
)

const defaultArchiveWorkers = 4

// ArchiveSummary is one row of the history listing. Champion is the team
// leading the archived table, zero when no match was played.
type ArchiveSummary struct {
	ID         string
	FinishedAt time.Time
	PlayedOn   time.Time
	TeamCount  int
	MatchCount int
	Champion   match.TeamID
}

// ArchiveDetail is a single archived tournament with both leaderboards
// recomputed from its history.
type ArchiveDetail struct {
	Archive tournament.Archive
	Teams   []standings.TeamRow
	Players []standings.PlayerRow
}

type ArchiveService struct {
	repo    tournament.ArchiveRepository
	logger  *logging.Logger
	workers int
}

func NewArchiveService(repo tournament.ArchiveRepository, logger *logging.Logger, workers int) *ArchiveService {
	if workers <= 0 {
		workers = defaultArchiveWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveService{repo: repo, logger: logger, workers: workers}
}

// List returns archived tournaments newest first. Summaries are computed
// concurrently since each one folds the archive's full history.
func (s *ArchiveService) List(ctx context.Context) ([]ArchiveSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.List")
	defer span.End()

	archives, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	if len(archives) == 0 {
		return []ArchiveSummary{}, nil
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	summaries := make([]ArchiveSummary, len(archives))

	var workers sync.WaitGroup
	for i, archive := range archives {
		i, archive := i, archive
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			summaries[i] = summarize(archive)
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit archive summary task: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].FinishedAt.Equal(summaries[j].FinishedAt) {
			return summaries[i].FinishedAt.After(summaries[j].FinishedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

func (s *ArchiveService) Get(ctx context.Context, archiveID string) (ArchiveDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Get")
	defer span.End()

	archive, exists, err := s.repo.GetByID(ctx, archiveID)
	if err != nil {
		return ArchiveDetail{}, fmt.Errorf("get archive: %w", err)
	}
	if !exists {
		return ArchiveDetail{}, fmt.Errorf("%w: archive=%s", ErrNotFound, archiveID)
	}

	return ArchiveDetail{
		Archive: archive,
		Teams:   standings.TeamTable(archive.State.History, archive.State.TeamCount),
		Players: standings.PlayerTable(archive.State.History),
	}, nil
}

// Export renders the archived tournament as its canonical JSON document.
func (s *ArchiveService) Export(ctx context.Context, archiveID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Export")
	defer span.End()

	archive, exists, err := s.repo.GetByID(ctx, archiveID)
	if err != nil {
		return nil, fmt.Errorf("get archive: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: archive=%s", ErrNotFound, archiveID)
	}

	doc := tournament.DocumentFromState(&archive.State)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode archive document: %w", err)
	}

	s.logger.DebugContext(ctx, "archive exported",
		"archive_id", archiveID,
		"bytes", buf.Len(),
	)
	return append([]byte(nil), buf.Bytes()...), nil
}

func summarize(archive tournament.Archive) ArchiveSummary {
	summary := ArchiveSummary{
		ID:         archive.ID,
		FinishedAt: archive.FinishedAt,
		PlayedOn:   archive.State.CreatedAt,
		TeamCount:  archive.State.TeamCount,
		MatchCount: len(archive.State.History),
	}
	if summary.MatchCount > 0 {
		table := standings.TeamTable(archive.State.History, archive.State.TeamCount)
		summary.Champion = table[0].TeamID
	}
	return summary
}
