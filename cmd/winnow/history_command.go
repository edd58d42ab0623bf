package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"winnow/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past cleanup runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent cleanup runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No cleanup runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.StartedAt.Local().Format(time.RFC3339),
					yesNo(run.DryRun),
					strconv.Itoa(run.FilesDeleted),
					strconv.Itoa(run.FoldersDeleted),
					humanize.Bytes(uint64(run.BytesReclaimed)),
					strconv.Itoa(run.Failures),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Dry Run", "Files", "Folders", "Reclaimed", "Failures"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one cleanup run with its full report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			run, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load run %d: %w", id, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %d (%s)\n", run.ID, run.UUID)
			fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Finished:  %s\n", run.FinishedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Dry run:   %s\n", yesNo(run.DryRun))
			fmt.Fprintf(out, "Group key: %s\n", run.GroupKey)
			fmt.Fprintf(out, "Groups: %d  Duplicates: %d  Files: %d  Folders: %d  Reclaimed: %s  Failures: %d\n",
				run.Groups, run.DuplicatesFound, run.FilesDeleted, run.FoldersDeleted,
				humanize.Bytes(uint64(run.BytesReclaimed)), run.Failures)
			if run.Report != "" {
				fmt.Fprintln(out)
				fmt.Fprint(out, run.Report)
			}
			return nil
		},
	}
}
