package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/config"
)

var initForce bool

// initTemplate is the default todosync.yaml scaffold.
const initTemplate = `# todosync configuration
version: 1

todo:
  path: todo.txt
  done_path: done.txt
  line_endings: unix          # unix | windows

remote:
  # A file in a synced folder (most common)
  type: local
  path: ../Dropbox/todo/todo.txt

  # Or a file served over HTTP: GET to pull, PUT to push
  # type: url
  # url: https://example.com/todo.txt
  # timeout: 30s
  # max_size: 1048576

# merge:
#   match_distance: 200       # how far (bytes) a change may drift
#   delete_threshold: 0.3     # tolerance when deleting large blocks
#   match_threshold: 0.5
#   patch_margin: 4
#   cleanup: semantic         # semantic | efficiency | none
#   normalize_completions: true

state:
  path: .todosync/todosync.state
  snapshot_dir: .todosync/snapshots
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter todosync.yaml configuration",
	Long: `Creates a todosync.yaml file in the current directory with a commented
template for a local-folder remote and a documented URL alternative.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if outPath == "" {
			outPath = config.FileName
		}
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Point 'remote' at the shared copy of your list")
		info("  2. Run 'todosync status' to compare the two copies")
		info("  3. Run 'todosync sync' to merge them")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
