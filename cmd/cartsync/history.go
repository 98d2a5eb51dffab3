package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cartsync/internal/config"
	"cartsync/internal/database"
	"cartsync/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past sync runs",
		Long: `History lists the recorded sync runs, newest first. Passing a run ID
prints that run's full report instead.

Examples:
  # List the last ten runs
  cartsync history

  # Show one run in full
  cartsync history 4f6b2c1a-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int("limit", 10, "Number of runs to list (0 means all)")
	cmd.Flags().String("db-dir", "", "Run history directory (default: "+config.XDGDataDir()+")")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		runReport, err := db.GetRunReport(ctx, args[0])
		if err != nil {
			return err
		}
		if runReport == nil {
			return fmt.Errorf("run %q not recorded", args[0])
		}
		writer := report.NewSimpleWriter(cmd.OutOrStdout())
		_, err = writer.Write(runReport)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		mode := ""
		if run.DryRun {
			mode = "  (dry run)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  list=%q  total=%d added=%d failed=%d review=%d%s\n",
			run.Timestamp.Format("2006-01-02 15:04"), run.RunID, run.ListName,
			run.Total, run.Added, run.Failed, run.NeedsReview, mode)
		if run.BotBlocked > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "    bot block: %d items never attempted\n", run.BotBlocked)
		}
	}

	return nil
}
