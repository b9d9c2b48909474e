package config

import "time"

// Config represents the todosync.yaml configuration file.
type Config struct {
	Version int          `yaml:"version"`
	Todo    TodoConfig   `yaml:"todo"`
	Remote  RemoteConfig `yaml:"remote"`
	Merge   MergeConfig  `yaml:"merge,omitempty"`
	State   StateConfig  `yaml:"state"`
}

// TodoConfig locates the local task files.
type TodoConfig struct {
	Path        string `yaml:"path,omitempty"`
	DonePath    string `yaml:"done_path,omitempty"`
	LineEndings string `yaml:"line_endings,omitempty"` // "unix", "windows"
}

// RemoteConfig describes where the shared copy of todo.txt lives.
type RemoteConfig struct {
	Type string `yaml:"type"` // "local", "url"

	// Local remote fields.
	Path string `yaml:"path,omitempty"`

	// URL remote fields.
	URL     string        `yaml:"url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	MaxSize int64         `yaml:"max_size,omitempty"`
}

// MergeConfig tunes the three-way merge. Unset fields keep the merge
// engine's defaults; pointers distinguish "unset" from an explicit zero.
type MergeConfig struct {
	MatchDistance        *int           `yaml:"match_distance,omitempty"`
	DeleteThreshold      *float64       `yaml:"delete_threshold,omitempty"`
	MatchThreshold       *float64       `yaml:"match_threshold,omitempty"`
	PatchMargin          *int           `yaml:"patch_margin,omitempty"`
	DiffTimeout          *time.Duration `yaml:"diff_timeout,omitempty"`
	Cleanup              string         `yaml:"cleanup,omitempty"` // "semantic", "efficiency", "none"
	EditCost             *int           `yaml:"edit_cost,omitempty"`
	LineMode             *bool          `yaml:"line_mode,omitempty"`
	NormalizeCompletions *bool          `yaml:"normalize_completions,omitempty"`
}

// StateConfig locates the sync bookkeeping.
type StateConfig struct {
	Path        string `yaml:"path,omitempty"`
	SnapshotDir string `yaml:"snapshot_dir,omitempty"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultTodoPath    = "todo.txt"
	DefaultDonePath    = "done.txt"
	DefaultLineEndings = "unix"
	DefaultStatePath   = ".todosync/todosync.state"
	DefaultSnapshotDir = ".todosync/snapshots"
)

// ApplyDefaults fills unset file locations.
func ApplyDefaults(cfg *Config) {
	if cfg.Todo.Path == "" {
		cfg.Todo.Path = DefaultTodoPath
	}
	if cfg.Todo.DonePath == "" {
		cfg.Todo.DonePath = DefaultDonePath
	}
	if cfg.Todo.LineEndings == "" {
		cfg.Todo.LineEndings = DefaultLineEndings
	}
	if cfg.State.Path == "" {
		cfg.State.Path = DefaultStatePath
	}
	if cfg.State.SnapshotDir == "" {
		cfg.State.SnapshotDir = DefaultSnapshotDir
	}
}
