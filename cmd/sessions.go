package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbucket/internal/store"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List past learning sessions (SQLite only)",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Number of sessions to show (0 for all)")
}

func runSessions(cmd *cobra.Command, args []string) error {
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
	if be.db == nil {
		return errors.New("the session log is kept only in SQLite; pass --db or set db in the config")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	recs, err := be.db.ListSessions(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	renderSessions(cmd.OutOrStdout(), recs)
	return nil
}

func renderSessions(w io.Writer, recs []store.SessionRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Started", "Duration", "Answered", "Score", "Mastered", "Note")

	for _, r := range recs {
		duration := "-"
		note := ""
		switch {
		case r.EndedAt.IsZero():
			note = "not closed"
		case r.Interrupted:
			note = "interrupted"
		}
		if !r.EndedAt.IsZero() {
			duration = r.EndedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.Row(
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			duration,
			strconv.Itoa(r.Answered),
			r.TotalScore.String(),
			strconv.Itoa(r.Graduated),
			note,
		)
	}
	fmt.Fprintln(w, t.Render())
}
