package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/config"
	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/logging"
	"github.com/abhisek/quizbucket/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizbucket",
	Short: "Spaced-repetition multiple-choice drill",
	Long: `quizbucket drills a fixed set of multiple-choice questions.

Questions are served from a small bucket of not-yet-mastered items. Every
answer earns exact partial credit, and a question leaves the rotation once
the mean of its scores reaches the mastery threshold. Progress is saved on
exit, including after Ctrl+C.`,
	SilenceUsage: true,
	RunE:         runLearn,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default: ./quizbucket.yaml)")
	pf.String("questions", "", "Question corpus JSON file")
	pf.String("stats", "", "Stats JSON file (default: $XDG_DATA_HOME/quizbucket/stats.json)")
	pf.String("db", "", `Keep stats in this SQLite database instead of a JSON file ("auto" for the default location)`)
	pf.Int("bucket-size", 0, "Maximum number of questions in rotation")
	pf.String("threshold", "", `Mastery threshold as a fraction, e.g. "9/10"`)
	pf.String("log-file", "", "Write JSON logs to this file")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.BoolP("verbose", "v", false, "Also log to stderr")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings merges config file, environment and flags, and builds the
// logger. Flags win.
func loadSettings(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("questions") {
		cfg.Questions, _ = flags.GetString("questions")
	}
	if flags.Changed("stats") {
		cfg.Stats, _ = flags.GetString("stats")
	}
	if flags.Changed("db") {
		cfg.DB, _ = flags.GetString("db")
	}
	if flags.Changed("bucket-size") {
		cfg.BucketSize, _ = flags.GetInt("bucket-size")
	}
	if flags.Changed("threshold") {
		cfg.Threshold, _ = flags.GetString("threshold")
	}
	if flags.Changed("log-file") {
		cfg.Log.File, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.Log.Console = true
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// statsStore is what every stats backend offers.
type statsStore interface {
	learn.StatsSource
	learn.StatsSink
	Reset(ctx context.Context) error
}

// backend is the opened stats store. db is set only for SQLite, which
// also carries the session log.
type backend struct {
	stats statsStore
	db    *store.Store
	where string
}

func (b *backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// openBackend picks SQLite when a database is configured and the JSON
// stats file otherwise.
func openBackend(cfg *config.Config) (*backend, error) {
	if cfg.DB == "auto" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
		cfg.DB = p
	}
	if cfg.DB != "" {
		if err := store.EnsureDir(cfg.DB); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		st, err := store.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &backend{stats: st, db: st, where: cfg.DB}, nil
	}

	path, err := resolveStatsPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve stats path: %w", err)
	}
	return &backend{stats: store.NewJSONFile(path), where: path}, nil
}

// resolveStatsPath returns the configured stats file, or the default file
// in the per-user data directory.
func resolveStatsPath(cfg *config.Config) (string, error) {
	if cfg.Stats != "" {
		return cfg.Stats, store.EnsureDir(cfg.Stats)
	}
	return store.DataPath("stats.json")
}
