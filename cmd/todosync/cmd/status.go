package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/todosync/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the local and remote lists with the last sync",
	Long: `Reports whether the local list, the remote list or both changed since
the last sync (in-sync, local-changes, remote-changes, diverged), or
never-synced when no base has been recorded yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		s, err := eng.Status(commandContext(cmd))
		if err != nil {
			return err
		}

		fmt.Printf("%-8s %-14s %s\n", "SIDE", "HASH", "LOCATION")
		fmt.Printf("%-8s %-14s %s\n", "local", presence(s.LocalExists, s.LocalHash), p.cfg.Todo.Path)
		fmt.Printf("%-8s %-14s %s\n", "remote", presence(s.RemoteExists, s.RemoteHash), s.RemoteName)
		if s.BaseHash != "" {
			fmt.Printf("%-8s %-14s %s\n", "base", shortHash(s.BaseHash), p.cfg.State.Path)
		}
		fmt.Println()
		fmt.Printf("State: %s\n", s.Class)
		switch s.Class {
		case engine.StatusLocalChanges, engine.StatusRemoteChanges, engine.StatusDiverged:
			info("Run 'todosync sync' to bring both lists in step.")
		case engine.StatusNeverSynced:
			info("Run 'todosync sync' to record a first base.")
		}
		if !s.LastSync.IsZero() {
			detail("last sync %s (%s, run %s)", s.LastSync.Format("2006-01-02 15:04:05 MST"), s.LastOutcome, s.LastRunID)
		}
		return nil
	},
}

func presence(exists bool, hash string) string {
	if !exists {
		return "(missing)"
	}
	return shortHash(hash)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
