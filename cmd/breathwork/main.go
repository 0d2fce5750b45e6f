package main

import (
	"database/sql"
	"fmt"
	"os"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/breathwork-go"
	"github.com/benjamonnguyen/breathwork-go/runner"
	"github.com/benjamonnguyen/breathwork-go/settings"
	"github.com/benjamonnguyen/breathwork-go/sqlite"
)

const Version = "0.1.0"

var (
	isProd   bool
	logLevel string
)

// app is filled in by the root command before any subcommand runs.
type app struct {
	cfg    breathwork.Config
	logger *log.Logger
	db     *sql.DB
}

func main() {
	a := &app{}
	cmd := NewCommand(a)
	err := cmd.Execute()
	if a.db != nil {
		_ = a.db.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func NewCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breathwork",
		Short: "breathwork runs guided breathing sessions in the terminal",
		Long: `breathwork runs guided breathing sessions in the terminal.

Each round is a series of paced breaths, an empty-lung hold and a recovery
hold. Finished sessions are kept in a local history.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := breathwork.LoadConfig(isProd)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.BoolVarP(&isProd, "prod", "p", false, "load .env instead of .env.dev")
	globalFlags.StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		NewStartCommand(a),
		NewColdCommand(a),
		NewHistoryCommand(a),
		NewStatsCommand(a),
		NewSettingsCommand(a),
		NewSafetyCommand(a),
	)
	return cmd
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		Prefix:          breathwork.AppName,
	})
	return logger, nil
}

func (a *app) loadSettings() (settings.Settings, error) {
	s, err := settings.Load(a.cfg.SettingsPath)
	if err != nil {
		return s, fmt.Errorf("failed to load settings from %s: %w", a.cfg.SettingsPath, err)
	}
	return s, nil
}

func (a *app) saveSettings(s settings.Settings) error {
	if err := settings.Save(a.cfg.SettingsPath, s); err != nil {
		return err
	}
	a.logger.Debug("saved settings", "path", a.cfg.SettingsPath)
	return nil
}

// store opens the database on first use.
func (a *app) store() (breathwork.SessionRepo, *runner.Recorder, error) {
	if a.db == nil {
		a.logger.Debug("opening db", "path", a.cfg.DatabasePath)
		db, err := sqlite.Open(a.cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		a.db = db
	}

	tx, dbGetter := txStdLib.NewTransactor(a.db, txStdLib.NestedTransactionsSavepoints)
	repo := sqlite.NewSessionRepo(dbGetter, a.logger)
	return repo, runner.NewRecorder(repo, tx, a.logger), nil
}
