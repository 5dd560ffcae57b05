package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchrota/pickup-tournament/internal/config"
	"github.com/matchrota/pickup-tournament/internal/domain/rotation"
	"github.com/matchrota/pickup-tournament/internal/domain/tournament"
	"github.com/matchrota/pickup-tournament/internal/infrastructure/repository/memory"
	"github.com/matchrota/pickup-tournament/internal/infrastructure/repository/postgres"
	"github.com/matchrota/pickup-tournament/internal/interfaces/httpapi"
	"github.com/matchrota/pickup-tournament/internal/platform/cache"
	idgen "github.com/matchrota/pickup-tournament/internal/platform/id"
	"github.com/matchrota/pickup-tournament/internal/platform/logging"
	"github.com/matchrota/pickup-tournament/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup closes the database pool when one was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() error { return nil }

	liveRepo := memory.NewTournamentRepository()

	var archiveRepo tournament.ArchiveRepository
	if cfg.DBURL != "" {
		db, err := otelsqlx.Open("postgres", cfg.DBURL,
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		archiveRepo = postgres.NewArchiveRepository(db, logger)
		cleanup = db.Close
		logger.Info("archive storage", "backend", "postgres")
	} else {
		archiveRepo = memory.NewArchiveRepository()
		logger.Info("archive storage", "backend", "memory")
	}

	store := cache.NewStore(cfg.CacheTTL)

	tournamentSvc := usecase.NewTournamentService(
		liveRepo,
		archiveRepo,
		rotation.NewEngine(nil),
		store,
		idgen.NewRandomGenerator(),
		logger,
		nil,
	)
	standingsSvc := usecase.NewStandingsService(liveRepo, store)
	archiveSvc := usecase.NewArchiveService(archiveRepo, logger, cfg.ArchiveWorkers)

	handler := httpapi.NewHandler(tournamentSvc, standingsSvc, archiveSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
