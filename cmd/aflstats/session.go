package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/afl-stats/internal/app"
	"github.com/riskibarqy/afl-stats/internal/config"
	"github.com/riskibarqy/afl-stats/internal/domain/query"
	"github.com/riskibarqy/afl-stats/internal/platform/logging"
	"github.com/riskibarqy/afl-stats/internal/usecase"
)

type globalOptions struct {
	details    []string
	stats      []string
	prices     []string
	pricesHTML []string
	aliasFile  string
	useDB      bool
	asJSON     bool
	logLevel   string
}

func (o *globalOptions) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringSliceVar(&o.details, "details", nil, "player details CSV files or globs")
	flags.StringSliceVar(&o.stats, "stats", nil, "match stats CSV files or globs")
	flags.StringSliceVar(&o.prices, "prices", nil, "SuperCoach price CSV files or globs")
	flags.StringSliceVar(&o.pricesHTML, "prices-html", nil, "saved FootyWire SuperCoach price pages")
	flags.StringVar(&o.aliasFile, "aliases", "", "YAML file with extra column aliases")
	flags.BoolVar(&o.useDB, "db", false, "read and write facts in postgres (DB_URL)")
	flags.BoolVar(&o.asJSON, "json", false, "print JSON instead of tables")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level")
}

// config overlays the command line onto the environment configuration.
func (o *globalOptions) config() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if len(o.details) > 0 {
		cfg.DetailsPaths = o.details
	}
	if len(o.stats) > 0 {
		cfg.StatsPaths = o.stats
	}
	if len(o.prices) > 0 {
		cfg.PricesPaths = o.prices
	}
	if len(o.pricesHTML) > 0 {
		cfg.PricesHTMLPaths = o.pricesHTML
	}
	if o.aliasFile != "" {
		cfg.AliasFile = o.aliasFile
	}
	if o.useDB {
		if cfg.DBURL == "" {
			return config.Config{}, fmt.Errorf("--db requires DB_URL")
		}
		cfg.DBEnabled = true
	}
	return cfg, nil
}

// session is a wired app plus the report of the load that filled it.
type session struct {
	app    *app.App
	result *usecase.IngestResult
	out    io.Writer
	asJSON bool
}

func (o *globalOptions) open(ctx context.Context, cmd *cobra.Command, cfg config.Config) (*session, error) {
	logger := logging.NewConsole(cmd.ErrOrStderr(), logging.ParseLevel(o.logLevel))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{app: a, out: cmd.OutOrStdout(), asJSON: o.asJSON}, nil
}

// load ingests the configured files, or restores the last saved dataset
// when no file is given and --db is set.
func (s *session) load(ctx context.Context, cfg config.Config) error {
	if !cfg.HasFileSources() && cfg.DBEnabled {
		ok, err := s.app.Ingestion.Restore(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	result, err := s.app.Ingestion.Ingest(ctx)
	if err != nil {
		return err
	}
	s.result = &result
	return nil
}

func (s *session) close() {
	_ = s.app.Close()
}

// filter applies the shared filter flags to the session.
func (s *session) filter(ctx context.Context, state query.FilterState) error {
	_, err := s.app.Session.ApplyFilter(ctx, state)
	return err
}

func (o *globalOptions) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	cfg, err := o.config()
	if err != nil {
		return err
	}
	s, err := o.open(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.load(ctx, cfg); err != nil {
		return err
	}
	return fn(ctx, s)
}
