package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/holiday-engine/chile"
	"github.com/warp/holiday-engine/config"
	"github.com/warp/holiday-engine/factory"
	"github.com/warp/holiday-engine/generic"
	"github.com/warp/holiday-engine/logging"
	"github.com/warp/holiday-engine/store/sqlite"
	"github.com/warp/holiday-engine/translations"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath      string
	dbPath          string
	locale          string
	translationsDir string
	logLevel        string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &options{}

	c := &cobra.Command{
		Use:           "holidays",
		Short:         "Compute public holidays",
		Long:          "holidays computes the public holidays of Chile and its regions, and of data-defined calendars.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	pf := c.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML configuration file")
	pf.StringVar(&opts.dbPath, "db", "", "SQLite database path (\":memory:\" for in-memory)")
	pf.StringVar(&opts.locale, "locale", "", "display locale, e.g. es_CL")
	pf.StringVar(&opts.translationsDir, "translations", "", "directory of holiday name files")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	c.AddCommand(newServeCmd(opts))
	c.AddCommand(newListCmd(opts))
	c.AddCommand(newCheckCmd(opts))
	c.AddCommand(newRegionsCmd(opts))
	return c
}

// config loads the configuration file, if any, and applies flag overrides.
func (o *options) config() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.locale != "" {
		cfg.DefaultLocale = o.locale
	}
	if o.translationsDir != "" {
		cfg.TranslationsDir = o.translationsDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// ENGINE WIRING
// =============================================================================

// engine is the registry plus what it was built from.
type engine struct {
	cfg      config.Config
	logger   *zap.Logger
	names    *translations.Table
	registry *generic.Registry
	factory  *factory.CalendarFactory
	store    *sqlite.Store // nil unless opened
}

// newEngine builds the name table and registers the built-in regions.
func newEngine(cfg config.Config) (*engine, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}

	names, err := translations.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in translations: %w", err)
	}
	if cfg.TranslationsDir != "" {
		extra, err := translations.Load(os.DirFS(cfg.TranslationsDir), names.Fallback())
		if err != nil {
			return nil, err
		}
		names = names.Merge(extra)
		logger.Debug("loaded translations", zap.String("dir", cfg.TranslationsDir), zap.Int("keys", len(extra.Keys())))
	}

	reg := generic.NewRegistry(cfg.DefaultLocale)
	if err := chile.Register(reg, names); err != nil {
		return nil, err
	}

	return &engine{
		cfg:      cfg,
		logger:   logger,
		names:    names,
		registry: reg,
		factory:  factory.NewCalendarFactory(reg, names),
	}, nil
}

// openDB opens the database without touching the registry.
func (e *engine) openDB() error {
	store, err := sqlite.New(e.cfg.DBPath)
	if err != nil {
		return err
	}
	e.store = store
	return nil
}

// openStore opens the database and registers its stored calendars.
func (e *engine) openStore(ctx context.Context) error {
	if err := e.openDB(); err != nil {
		return err
	}

	loaded, skipped, err := e.factory.LoadStored(ctx, e.store, e.registry)
	if err != nil {
		return err
	}
	for id, err := range skipped {
		e.logger.Warn("skipping calendar", zap.String("id", id), zap.Error(err))
	}
	e.logger.Debug("calendars loaded", zap.Strings("ids", loaded))
	return nil
}

func (e *engine) close() {
	if e.store != nil {
		e.store.Close()
	}
	_ = e.logger.Sync()
}

// setup is the common prelude of the offline commands: stored calendars
// are only consulted when --db is given.
func (o *options) setup(ctx context.Context) (*engine, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		if err := e.openStore(ctx); err != nil {
			e.close()
			return nil, err
		}
	}
	return e, nil
}
