package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/engine"
	"github.com/bianoble/todosync/internal/merge"
)

var (
	syncDryRun   bool
	syncStrategy string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge the local list with the remote copy",
	Long: `Pulls the remote list, merges it with the local one against the list
recorded at the last sync, writes the result to both sides and records it
as the new base.

On a conflict nothing is written. --strategy local or --strategy remote
resolves conflicts by keeping one side whole.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := engine.ParseStrategy(syncStrategy)
		if err != nil {
			return err
		}
		p, err := loadProject()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		eng, err := p.syncEngine(logger)
		if err != nil {
			return err
		}

		result, err := eng.Sync(commandContext(cmd), engine.SyncOptions{DryRun: syncDryRun, Strategy: strategy})
		if err != nil {
			var conflict *merge.ConflictError
			if errors.As(err, &conflict) && verbose {
				fmt.Fprintln(os.Stderr, conflict.Diagnostic())
			}
			return err
		}

		if syncDryRun {
			info("Dry run — no files written.")
		}
		if result.LocalWritten {
			info("  updated  %s", p.cfg.Todo.Path)
		}
		if result.Pushed {
			info("  pushed   %s", eng.Remote.Name())
		}
		if result.Merge != nil {
			detail("%s", result.Merge.Lines)
		}
		if result.Conflict != nil {
			detail("conflict overridden: %s", result.Conflict.Error())
		}
		detail("run %s, base %s", result.RunID, shortHash(result.Base))

		info("Sync complete: %s.", result.Outcome)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "show what would change without writing anything")
	syncCmd.Flags().StringVar(&syncStrategy, "strategy", "merge", "conflict handling: merge (fail), local or remote")
	rootCmd.AddCommand(syncCmd)
}
