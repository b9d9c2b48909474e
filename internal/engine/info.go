package engine

import (
	"github.com/bianoble/todosync/internal/config"
	"github.com/bianoble/todosync/internal/snapshot"
	"github.com/bianoble/todosync/internal/state"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds tool information for the info command.
type InfoResult struct {
	Version       string
	ConfigPath    string
	TodoPath      string
	DonePath      string
	StatePath     string
	SnapshotDir   string
	RemoteType    string
	Remote        string
	ConfigChain   []ConfigLayerStatus
	SnapshotSize  int64
	SnapshotCount int
	StateVersion  int
}

// Info gathers tool information.
func Info(version string, cfg *config.Config, store *snapshot.Store, configPath string, layers []config.ConfigLayerInfo) (*InfoResult, error) {
	r := &InfoResult{
		Version:      version,
		ConfigPath:   configPath,
		StateVersion: state.CurrentVersion,
	}

	if cfg != nil {
		r.TodoPath = cfg.Todo.Path
		r.DonePath = cfg.Todo.DonePath
		r.StatePath = cfg.State.Path
		r.RemoteType = cfg.Remote.Type
		r.Remote = cfg.Remote.Path
		if cfg.Remote.Type == "url" {
			r.Remote = cfg.Remote.URL
		}
	}

	if store != nil {
		r.SnapshotDir = store.Path()
		if size, err := store.Size(); err == nil {
			r.SnapshotSize = size
		}
		if hashes, err := store.List(); err == nil {
			r.SnapshotCount = len(hashes)
		}
	}

	for _, l := range layers {
		r.ConfigChain = append(r.ConfigChain, ConfigLayerStatus{
			Level:  string(l.Level),
			Path:   l.Path,
			Loaded: l.Loaded,
		})
	}

	return r, nil
}
