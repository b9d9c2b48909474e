package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	logFormat  string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "todosync",
	Short: "Keep a todo.txt list in step with a shared copy",
	Long: `todosync merges a local todo.txt with a remote copy that may have been
edited elsewhere. Changes made on both sides since the last sync are
combined with a three-way merge; when the edits cannot be reconciled the
sync stops and nothing is written.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("todosync %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: nearest todosync.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format on stderr: text or json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
