package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/merge"
	"github.com/bianoble/todosync/internal/textdiff"
)

var (
	mergeOutput          string
	mergeMatchDistance   int
	mergeDeleteThreshold float64
	mergeMatchThreshold  float64
	mergeCleanup         string
	mergeNoNormalize     bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge BASE LOCAL REMOTE",
	Short: "Three-way merge of todo lists",
	Long: `Merges the changes LOCAL made to BASE into REMOTE and prints the result
(or writes it to --output). Any argument may be '-' to read stdin.

When the changes cannot be placed the command exits non-zero and writes
nothing; --verbose prints the full diagnostic.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		texts := make([]string, 3)
		for i, path := range args {
			text, err := readInput(path)
			if err != nil {
				return err
			}
			texts[i] = text
		}

		cfg, err := mergeFlagsConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}

		out, err := merge.New(cfg, logger).Merge(texts[0], texts[1], texts[2])
		if err != nil {
			var conflict *merge.ConflictError
			if errors.As(err, &conflict) && verbose {
				fmt.Fprintln(os.Stderr, conflict.Diagnostic())
			}
			return err
		}

		if err := writeOutput(mergeOutput, out.Merged); err != nil {
			return fmt.Errorf("writing merge result: %w", err)
		}
		if mergeOutput != "" {
			info("Merged into %s (%s).", mergeOutput, out.Lines)
		}
		if !out.Trivial {
			detail("%d of %d changes applied", countTrue(out.Applied), len(out.Applied))
		}
		return nil
	},
}

// mergeFlagsConfig starts from the defaults and applies every flag the user
// set.
func mergeFlagsConfig(cmd *cobra.Command) (merge.Config, error) {
	cfg := merge.DefaultConfig()
	flags := cmd.Flags()
	if flags.Changed("match-distance") {
		cfg.MatchDistance = mergeMatchDistance
	}
	if flags.Changed("delete-threshold") {
		cfg.DeleteThreshold = mergeDeleteThreshold
	}
	if flags.Changed("match-threshold") {
		cfg.MatchThreshold = mergeMatchThreshold
	}
	if flags.Changed("cleanup") {
		cfg.Cleanup = textdiff.CleanupMode(mergeCleanup)
	}
	if mergeNoNormalize {
		cfg.NormalizeCompletions = false
	}
	if err := cfg.Validate(); err != nil {
		return merge.Config{}, err
	}
	return cfg, nil
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func init() {
	def := merge.DefaultConfig()
	f := mergeCmd.Flags()
	f.StringVarP(&mergeOutput, "output", "o", "", "write the merged list to this file instead of stdout")
	f.IntVar(&mergeMatchDistance, "match-distance", def.MatchDistance, "how far (bytes) a change may drift from its expected position")
	f.Float64Var(&mergeDeleteThreshold, "delete-threshold", def.DeleteThreshold, "tolerance when deleting large blocks (0 exact, 1 anything)")
	f.Float64Var(&mergeMatchThreshold, "match-threshold", def.MatchThreshold, "fuzziness accepted when locating a change (0 exact, 1 anything)")
	f.StringVar(&mergeCleanup, "cleanup", string(def.Cleanup), "diff cleanup: semantic, efficiency or none")
	f.BoolVar(&mergeNoNormalize, "no-normalize", false, "keep doubled completion markers")
	rootCmd.AddCommand(mergeCmd)
}
