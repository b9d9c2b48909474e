package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/engine"
	"github.com/bianoble/todosync/internal/snapshot"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about todosync configuration",
	Long: `Displays the todosync version, the configuration chain, the todo, done
and state paths, the remote, and the snapshot store size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A missing or invalid config still prints what is known.
		p, loadErr := loadProject()

		var (
			cfg    *config.Config
			layers []config.ConfigLayerInfo
			store  *snapshot.Store
			path   = configPath
		)
		if loadErr == nil {
			cfg, layers, path = p.cfg, p.layers, p.configPath
			store, _ = p.snapshots()
		}

		result, err := engine.Info(version, cfg, store, path, layers)
		if err != nil {
			return err
		}

		fmt.Printf("todosync %s\n", result.Version)
		fmt.Printf("  state version: %d\n", result.StateVersion)

		if len(result.ConfigChain) > 1 {
			fmt.Println("  config chain:")
			for _, layer := range result.ConfigChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Printf("    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		} else {
			fmt.Printf("  config:        %s\n", result.ConfigPath)
		}
		if loadErr != nil {
			fmt.Printf("  config error:  %s\n", loadErr)
			return nil
		}

		fmt.Printf("  todo:          %s\n", result.TodoPath)
		fmt.Printf("  done:          %s\n", result.DonePath)
		fmt.Printf("  remote:        %s (%s)\n", result.Remote, result.RemoteType)
		fmt.Printf("  state:         %s\n", result.StatePath)
		fmt.Printf("  snapshots:     %s\n", result.SnapshotDir)
		fmt.Printf("  snapshot size: %s (%d stored)\n", humanSize(result.SnapshotSize), result.SnapshotCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
