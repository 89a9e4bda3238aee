package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/app"
	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/session"
	"github.com/abhisek/quizbucket/internal/store"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start a learning session (the default command)",
	Long: `Serve due questions until everything is mastered or you quit.

Select options by number or letter, e.g. "1 3" or "a,c". Stats are saved
when the session ends, on Ctrl+C and on SIGTERM.`,
	RunE: runLearn,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, learnCmd} {
		c.Flags().Bool("plain", false, "Line-based prompts instead of the full-screen UI")
	}
}

func runLearn(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	lc, err := cfg.LearnConfig()
	if err != nil {
		return fmt.Errorf("learn config: %w", err)
	}
	lc.Logger = log

	questions, err := store.ReadCorpusFile(cfg.Questions)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := learn.Load(ctx, questions, be.stats, lc)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	tracker := session.NewTracker(time.Now())
	if be.db != nil {
		if err := be.db.StartSession(ctx, tracker.ID(), tracker.StartedAt()); err != nil {
			log.Warn("session log unavailable", zap.Error(err))
		}
	}
	log.Info("session started",
		zap.String("session", tracker.ID()),
		zap.Int("questions", model.Len()),
		zap.Int("mastered", model.Mastered()),
		zap.String("stats", be.where))

	out := cmd.OutOrStdout()
	plain, _ := cmd.Flags().GetBool("plain")
	var runErr error
	if plain || !interactive(cmd) {
		runErr = session.RunPlain(ctx, model, tracker, cmd.InOrStdin(), out, time.Now)
	} else {
		runErr = app.Run(ctx, app.Options{Model: model, Tracker: tracker, Now: time.Now, Logger: log})
	}
	if ctx.Err() != nil {
		tracker.MarkInterrupted()
		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}
	}
	stop()

	// The session context may already be cancelled; saving must still run.
	saveCtx := context.WithoutCancel(ctx)
	saveErr := model.Save(saveCtx, be.stats)
	if saveErr != nil {
		log.Error("save failed", zap.Error(saveErr))
	}

	sum := tracker.Summary(time.Now())
	if be.db != nil {
		rec := store.SessionRecord{
			ID:          sum.ID,
			EndedAt:     sum.StartedAt.Add(sum.Duration),
			Answered:    sum.Answered,
			Graduated:   len(sum.Graduated),
			TotalScore:  sum.TotalScore,
			Interrupted: sum.Interrupted,
		}
		if err := be.db.EndSession(saveCtx, rec); err != nil {
			log.Warn("session log not updated", zap.Error(err))
		}
	}
	if plain || !interactive(cmd) || sum.Interrupted {
		fmt.Fprintln(out)
		session.PrintSummary(out, sum)
	}

	if saveErr != nil {
		return errors.Join(runErr, fmt.Errorf("save stats: %w", saveErr))
	}
	return runErr
}

// interactive reports whether stdin and stdout are both terminals.
func interactive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(in.Fd()) && isatty.IsTerminal(out.Fd())
}
