package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/afl-stats/external/csvsource"
	"github.com/riskibarqy/afl-stats/external/footywire"
	"github.com/riskibarqy/afl-stats/internal/config"
	"github.com/riskibarqy/afl-stats/internal/domain/fact"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/domain/source"
	cacherepo "github.com/riskibarqy/afl-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/afl-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/afl-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/afl-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/afl-stats/internal/platform/cache"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
	"github.com/riskibarqy/afl-stats/internal/platform/resilience"
	"github.com/riskibarqy/afl-stats/internal/usecase"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	cfg    config.Config
	logger *logging.Logger
	db     *sqlx.DB

	Session   *usecase.QueryService
	Insights  *usecase.InsightsService
	Ingestion *usecase.IngestionService
	Facts     fact.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	aliases := source.DefaultAliasSet()
	if cfg.AliasFile != "" {
		data, err := os.ReadFile(cfg.AliasFile)
		if err != nil {
			return nil, fmt.Errorf("read alias file: %w", err)
		}
		if aliases, err = source.ParseAliasYAML(data); err != nil {
			return nil, fmt.Errorf("parse alias file %s: %w", cfg.AliasFile, err)
		}
	}

	a := &App{cfg: cfg, logger: logger}

	loaders := make([]source.Loader, 0, 3)
	if cfg.HasFileSources() {
		loaders = append(loaders, csvsource.NewLoader(csvsource.Config{
			Paths: map[source.Kind][]string{
				source.KindDetails: cfg.DetailsPaths,
				source.KindStats:   cfg.StatsPaths,
				source.KindPrice:   cfg.PricesPaths,
			},
			Workers: cfg.LoaderWorkers,
			Logger:  logger,
		}))
	}
	if len(cfg.PricesHTMLPaths) > 0 {
		loaders = append(loaders, footywire.NewLoader(cfg.PricesHTMLPaths, logger))
	}

	var facts fact.Repository = memory.NewFactRepository()
	if cfg.DBEnabled {
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		a.db = db

		breaker := resilience.NewCircuitBreaker(cfg.DBCircuit)
		facts = postgres.NewFactRepository(db, breaker)
		loaders = append(loaders, postgres.NewRawRowRepository(db, breaker, logger))
	}
	if cfg.CacheEnabled {
		facts = cacherepo.NewFactRepository(facts, cfg.CacheTTL)
	}
	a.Facts = facts

	var results *cache.Store[query.Result]
	if cfg.CacheEnabled {
		results = cache.NewStore[query.Result](cfg.CacheTTL, cfg.CacheMaxEntries)
	}
	a.Session = usecase.NewQueryService(cfg.DefaultFilter(), usecase.NewAggregationService(results, logger), logger)
	a.Insights = usecase.NewInsightsService(a.Session)
	a.Ingestion = usecase.NewIngestionService(
		loaders,
		usecase.NewNormalizeService(aliases, logger),
		usecase.NewMergeService(logger),
		facts,
		a.Session,
		logger,
	)

	logger.InfoContext(ctx, "app wired",
		"loaders", len(loaders),
		"db_enabled", cfg.DBEnabled,
		"cache_enabled", cfg.CacheEnabled,
	)
	return a, nil
}

// Start restores the last saved dataset, or ingests from the configured
// sources when nothing has been saved.
func (a *App) Start(ctx context.Context) error {
	restored, err := a.Ingestion.Restore(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "restore dataset failed", "error", err)
	}
	if restored {
		return nil
	}
	if !a.cfg.HasFileSources() && a.db == nil {
		a.logger.WarnContext(ctx, "no input sources configured, starting with an empty dataset")
		return nil
	}
	if _, err := a.Ingestion.Ingest(ctx); err != nil {
		return fmt.Errorf("initial ingest: %w", err)
	}
	return nil
}

func (a *App) HTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Session, a.Insights, a.Ingestion, a.logger)
	server := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, a.logger, a.cfg.CORSAllowedOrigins),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	return server, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
