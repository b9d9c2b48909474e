package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/patch"
	"github.com/bianoble/todosync/internal/textdiff"
)

var diffEdits bool

var diffCmd = &cobra.Command{
	Use:   "diff BASE LOCAL",
	Short: "Print the patch that turns BASE into LOCAL",
	Long: `Diffs two todo lists and prints the resulting patch in the
'@@ -a,b +c,d @@' text form read by 'todosync patch'. With --edits the
cleaned-up edit script is printed instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := readInput(args[0])
		if err != nil {
			return err
		}
		local, err := readInput(args[1])
		if err != nil {
			return err
		}

		cfg := merge.DefaultConfig()
		edits := textdiff.Cleanup(textdiff.Compute(base, local, cfg.DiffOptions()), cfg.CleanupOptions())

		if diffEdits {
			fmt.Print(textdiff.Pretty(edits))
			return nil
		}

		patches := patch.Make(base, edits, cfg.PatchOptions())
		fmt.Print(patch.ToText(patches))
		detail("%d hunks, edit distance %d", len(patches), textdiff.Levenshtein(edits))
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffEdits, "edits", false, "print the edit script instead of the patch")
	rootCmd.AddCommand(diffCmd)
}
