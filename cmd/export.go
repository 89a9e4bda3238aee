package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Copy stats to a JSON file or a SQLite database",
	Long: `Copy the current stats into another store.

The destination is a SQLite database when --to sqlite is given or the file
ends in .db, and a stats JSON file otherwise. Existing stats at the
destination are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("to", "", "Destination kind: json or sqlite")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	ctx := cmd.Context()
	stats, err := be.stats.LoadStats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	if stats == nil {
		return fmt.Errorf("no stats recorded in %s", be.where)
	}

	dst := args[0]
	kind, _ := cmd.Flags().GetString("to")
	if kind == "" {
		kind = "json"
		if hasDBExt(dst) {
			kind = "sqlite"
		}
	}

	if kind != "json" && kind != "sqlite" {
		return fmt.Errorf("unknown destination kind %q: use json or sqlite", kind)
	}
	if err := store.EnsureDir(dst); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var sink learn.StatsSink = store.NewJSONFile(dst)
	if kind == "sqlite" {
		st, err := store.Open(dst)
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}
		defer st.Close()
		sink = st
	}

	if err := sink.SaveStats(ctx, stats); err != nil {
		return fmt.Errorf("export stats: %w", err)
	}
	log.Info("stats exported", zap.String("from", be.where), zap.String("to", dst), zap.Int("questions", stats.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d histories to %s\n", stats.Len(), dst)
	return nil
}

func hasDBExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
