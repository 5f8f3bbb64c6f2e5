package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/rdelcourt/guardpost/internal/config"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/memory"
	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/postgres"
	"github.com/rdelcourt/guardpost/internal/interfaces/httpapi"
	"github.com/rdelcourt/guardpost/internal/platform/cache"
	idgen "github.com/rdelcourt/guardpost/internal/platform/id"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
	"github.com/rdelcourt/guardpost/internal/usecase"
)

// NewHTTPServer assembles the full service: repositories, use cases, HTTP
// handler and middleware chain. The returned cleanup closes the database
// handle when one was opened and is safe to call after Shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	memberRepo, ledger, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	settings := usecase.DrawSettings{
		ExcludedRank: cfg.ExcludedRank,
		ResetPhrase:  cfg.ResetConfirmPhrase,
		HorizonWeeks: cfg.DrawHorizonWeeks,
	}

	drawSvc := usecase.NewDrawService(memberRepo, ledger, idgen.NewRandomGenerator(), settings, logger)
	if cfg.CacheEnabled {
		drawSvc.SetCache(cache.NewStore(cfg.CacheTTL))
	}

	rosterSvc := usecase.NewRosterService(memberRepo, cfg.ExcludedRank, logger)

	reconcileSvc := usecase.NewReconcileService(memberRepo, ledger, logger)
	reconcileSvc.SetDefaultWorkers(cfg.ReconcileMaxWorkers)

	handler := httpapi.NewHandler(drawSvc, rosterSvc, reconcileSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

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

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (member.Repository, schedule.Ledger, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using in-memory repositories")
		memberRepo := memory.NewMemberRepository(memory.SeedMembers())
		return memberRepo, memory.NewScheduleRepository(), func() error { return nil }, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL))
	return postgres.NewMemberRepository(db), postgres.NewScheduleRepository(db), db.Close, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
