package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all answer history",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm that the history should be deleted")
}

func runReset(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errors.New("reset deletes every recorded answer; rerun with --yes to confirm")
	}

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

	if err := be.stats.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}
	log.Info("stats reset", zap.String("stats", be.where))
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared stats in %s\n", be.where)
	return nil
}
