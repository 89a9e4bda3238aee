package cmd

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/mastery"
	"github.com/abhisek/quizbucket/internal/store"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-question mastery",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("due", false, "Only list questions that are not mastered yet")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	lc, err := cfg.LearnConfig()
	if err != nil {
		return fmt.Errorf("learn config: %w", err)
	}
	questions, err := store.ReadCorpusFile(cfg.Questions)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	model, err := learn.Load(cmd.Context(), questions, be.stats, lc)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	dueOnly, _ := cmd.Flags().GetBool("due")
	renderStats(cmd.OutOrStdout(), model, dueOnly)
	return nil
}

// renderStats prints one row per question and a mastery tally.
func renderStats(w io.Writer, model *learn.Model, dueOnly bool) {
	threshold := model.Config().MasteryThreshold
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("#", "State", "Attempts", "Mastery", "Last", "Question")

	for id := 0; id < model.Len(); id++ {
		h, err := model.History(id)
		if err != nil {
			continue
		}
		state := mastery.StateOf(h, threshold)
		if dueOnly && state == mastery.StateMastered {
			continue
		}
		q, _ := model.Question(id)

		last := "-"
		if a, ok := h.Latest(); ok {
			last = a.Rate.String()
		}
		t.Row(strconv.Itoa(id+1), string(state), strconv.Itoa(h.Len()), h.MasteryScore().String(), last, truncate(q.Prompt(), 48))
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Mastered %d of %d (threshold %s, bucket size %d)\n",
		model.Mastered(), model.Len(), threshold, model.Config().BucketSize)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
