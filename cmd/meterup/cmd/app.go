package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/lachiem1/meterUp/internal/billapi"
	"github.com/lachiem1/meterUp/internal/config"
	"github.com/lachiem1/meterUp/internal/logging"
	"github.com/lachiem1/meterUp/internal/lookup"
	"github.com/lachiem1/meterUp/internal/session"
	"github.com/lachiem1/meterUp/internal/storage"
)

// app holds everything a command needs. close releases the logger and the
// history database.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	engine   *lookup.Engine
	db       *sql.DB
	history  *storage.HistoryRepo
	settings *storage.SettingsRepo
}

type appOptions struct {
	// logToFile sends logs to the user config dir unless an output is
	// configured explicitly.
	logToFile bool
	// openHistory opens the history database even when recording is off.
	openHistory bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if withHistory {
		cfg.History.Enabled = true
	}
	if opts.logToFile && (cfg.Log.Output == "" || cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout") {
		path, err := logging.DefaultFile()
		if err != nil {
			return nil, err
		}
		cfg.Log.Output = path
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.History.Enabled || opts.openHistory {
		path, err := cfg.DBPath()
		if err != nil {
			a.close()
			return nil, err
		}
		db, err := storage.Open(ctx, path)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open history db: %w", err)
		}
		a.db = db
		a.history = storage.NewHistoryRepo(db)
		a.settings = storage.NewSettingsRepo(db)
		logger.Debug("history db opened", zap.String("path", path), zap.Bool("encrypted", storage.Encrypted))
	}

	client := billapi.New(billapi.Options{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.HTTPTimeout,
		Logger:   logger.Named("billapi"),
	})
	engineOpts := lookup.Options{
		BillerCode: cfg.BillerCode,
		Logger:     logger.Named("lookup"),
	}
	if cfg.History.Enabled {
		engineOpts.Recorder = a.history
	}
	a.engine = lookup.New(client, session.New(), engineOpts)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}
