// Package cli defines the cobra command tree for the hb CLI.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scbrown/habits/internal/config"
	"github.com/scbrown/habits/internal/habits"
	"github.com/scbrown/habits/internal/logging"
	"github.com/scbrown/habits/internal/store"
)

var (
	dbPath       string
	backendName  string
	redisAddr    string
	redisDB      int
	storageKey   string
	jsonOutput   bool
	outputFormat string
	logLevel     string
	verbose      bool
)

func defaultDBPath() string {
	return filepath.Join(config.Dir(), "habits.db")
}

// rootCmd is the top-level hb command.
var rootCmd = &cobra.Command{
	Use:   "hb",
	Short: "Habits - track recurring habits from the command line",
	Long: `hb keeps a list of habits (a title and a cadence: daily, weekly, monthly
or custom) in a local store. Habits can be archived when no longer active,
removed, exported to JSON for backup and imported again.

State is kept in a SQLite database at ~/.habits/habits.db (configurable via
--db flag or hb config db_path). A Redis instance can be used instead with
--backend redis. Unreadable stored state is reset to an empty list on
startup. All output commands support --json for machine-readable output.`,
	Example: `  # Track a new habit
  hb add "Drink water" --cadence daily

  # See what you are tracking
  hb list
  hb list --all --format yaml

  # Back up and restore
  hb export -o habits.json
  hb import habits.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return nil
		}
		flags := cmd.Flags()
		if cfg.DBPath != "" && !flags.Changed("db") {
			dbPath = cfg.DBPath
		}
		if cfg.Backend != "" && !flags.Changed("backend") {
			backendName = cfg.Backend
		}
		if cfg.RedisAddr != "" && !flags.Changed("redis-addr") {
			redisAddr = cfg.RedisAddr
		}
		if cfg.RedisDB != 0 && !flags.Changed("redis-db") {
			redisDB = cfg.RedisDB
		}
		if cfg.StorageKey != "" && !flags.Changed("key") {
			storageKey = cfg.StorageKey
		}
		if cfg.DefaultFormat != "" && !flags.Changed("format") && !flags.Changed("json") {
			outputFormat = cfg.DefaultFormat
		}
		if cfg.LogLevel != "" && logLevel == "" {
			logLevel = cfg.LogLevel
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", defaultDBPath(), "path to SQLite database")
	pf.StringVar(&backendName, "backend", "sqlite", "storage backend: sqlite or redis")
	pf.StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address (with --backend redis)")
	pf.IntVar(&redisDB, "redis-db", 0, "Redis database number (with --backend redis)")
	pf.StringVar(&storageKey, "key", habits.DefaultKey, "storage key holding the habit state")
	pf.BoolVar(&jsonOutput, "json", false, "output in JSON format")
	pf.StringVar(&outputFormat, "format", "table", "output format: table, json or yaml")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")
}

// openBackend returns the durable store selected by the current configuration.
func openBackend(ctx context.Context) (store.Store, error) {
	switch backendName {
	case "", "sqlite":
		return store.NewSQLite(dbPath)
	case "redis":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return store.NewRedis(ctx, store.RedisOptions{Addr: redisAddr, DB: redisDB})
	default:
		return nil, fmt.Errorf("unknown backend %q (use sqlite or redis)", backendName)
	}
}

// newLogger builds the CLI logger. --verbose wins over log_level.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return logging.New("debug")
	}
	return logging.New(logLevel)
}

// openHabits opens the backend, builds the habit store and loads it. The
// returned close function releases the backend and flushes the logger.
func openHabits(ctx context.Context) (*habits.Store, func(), error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	backend, err := openBackend(ctx)
	if err != nil {
		logger.Sync()
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closeFn := func() {
		backend.Close()
		logger.Sync()
	}

	hs := habits.New(backend,
		habits.WithKey(storageKey),
		habits.WithLogger(logger.With(zap.String("backend", backendName))),
		habits.WithMigration(0, habits.MigrateUnversioned),
	)
	if err := hs.Init(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load habits: %w", err)
	}
	return hs, closeFn, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
