package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/engine"
)

var archiveDryRun bool

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Move completed tasks to the done file",
	Long: `Appends every completed task ('x ' at the start of the line) to the done
file and rewrites the todo file without them. Blank lines are dropped.
Run 'todosync sync' afterwards to publish the shorter list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}

		eng := &engine.ArchiveEngine{
			Root:        p.root,
			TodoPath:    p.cfg.Todo.Path,
			DonePath:    p.cfg.Todo.DonePath,
			LineEndings: p.cfg.Todo.LineEndings,
			Logger:      logger,
		}
		result, err := eng.Archive(commandContext(cmd), engine.ArchiveOptions{DryRun: archiveDryRun})
		if err != nil {
			return err
		}

		if archiveDryRun {
			info("Dry run — no files written.")
		}
		for _, line := range result.Archived {
			detail("%s", line)
		}
		info("Archived %d completed tasks to %s, %d remaining.", len(result.Archived), p.cfg.Todo.DonePath, result.Remaining)
		return nil
	},
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveDryRun, "dry-run", false, "show what would be archived without writing files")
	rootCmd.AddCommand(archiveCmd)
}
