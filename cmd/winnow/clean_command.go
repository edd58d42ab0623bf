package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"winnow/internal/cleanuprun"
	"winnow/internal/history"
	"winnow/internal/logging"
	"winnow/internal/services/jellyfin"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "clean",
		Aliases: []string{"run"},
		Short:   "Scan the library and delete duplicate movie files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			client := jellyfin.NewConfiguredClient(cfg)
			runner := cleanuprun.New(cfg, client, store, nil, logger)

			result, err := runner.Run(cmd.Context(), dryRun)
			if errors.Is(err, cleanuprun.ErrBusy) {
				return errors.New("another cleanup is already running")
			}
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			report := result.Report
			if text := report.Text(); text != "" {
				fmt.Fprint(out, text)
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were removed.")
			}
			fmt.Fprintf(out, "Groups: %d  Duplicates: %d  Files deleted: %d  Folders deleted: %d  Reclaimed: %s\n",
				report.Groups, report.Duplicates, report.FilesDeleted, report.FoldersDeleted,
				humanize.Bytes(uint64(report.BytesReclaimed)))
			if report.Failures > 0 {
				fmt.Fprintf(out, "Failures: %d (see log for details)\n", report.Failures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be deleted without touching files")
	return cmd
}
