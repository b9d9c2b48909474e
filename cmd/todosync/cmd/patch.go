package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/patch"
)

var patchOutput string

var patchCmd = &cobra.Command{
	Use:   "patch PATCHFILE TARGET",
	Short: "Apply a patch file to a todo list",
	Long: `Applies the hunks in PATCHFILE (as printed by 'todosync diff') to TARGET,
locating each hunk near its expected position. Hunks that cannot be
placed are skipped and reported; the command fails only when none apply.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patchText, err := readInput(args[0])
		if err != nil {
			return err
		}
		target, err := readInput(args[1])
		if err != nil {
			return err
		}

		patches, err := patch.FromText(patchText)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}

		res := patch.Apply(patches, target, merge.DefaultConfig().PatchOptions())
		for i, ok := range res.Applied {
			status := "applied"
			if !ok {
				status = "skipped"
			}
			detail("hunk %d %s  %s", i+1, status, headerLine(patches[i]))
		}

		if len(patches) > 0 && res.AppliedCount() == 0 {
			return fmt.Errorf("no hunk of %s could be placed in %s", args[0], args[1])
		}
		if err := writeOutput(patchOutput, res.Text); err != nil {
			return fmt.Errorf("writing patched text: %w", err)
		}
		if patchOutput != "" {
			info("Applied %d of %d hunks to %s.", res.AppliedCount(), len(patches), patchOutput)
		}
		return nil
	},
}

func headerLine(p patch.Patch) string {
	head, _, _ := strings.Cut(p.String(), "\n")
	return head
}

func init() {
	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "write the patched list to this file instead of stdout")
	rootCmd.AddCommand(patchCmd)
}
