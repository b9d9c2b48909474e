package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FileName is the project config file name.
const FileName = "todosync.yaml"

const configDirName = "todosync"

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelSystem  ConfigLevel = "system"
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level config path (required).
	ProjectPath string

	// SystemConfigPath overrides the default system config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	SystemConfigPath string

	// UserConfigPath overrides the default user config path.
	// Empty means use the OS default. Set to a nonexistent path to skip.
	UserConfigPath string
}

// DiscoverPaths returns the config layers to check, lowest precedence
// (system) first and the project file last. A file reachable through more
// than one level is listed once, at its lowest level.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	var layers []ConfigLayerInfo
	seen := make(map[string]bool)

	add := func(level ConfigLevel, path string) {
		if path == "" {
			return
		}
		key, err := filepath.Abs(path)
		if err != nil {
			key = path
		}
		if seen[key] {
			return
		}
		seen[key] = true
		layers = append(layers, ConfigLayerInfo{Path: path, Level: level})
	}

	add(LevelSystem, firstNonEmpty(opts.SystemConfigPath, defaultSystemConfigPath()))
	add(LevelUser, firstNonEmpty(opts.UserConfigPath, defaultUserConfigPath()))
	add(LevelProject, opts.ProjectPath)

	return layers
}

// FindProject walks up from dir looking for a todosync.yaml, the way git
// looks for its repository. It returns the path of the first one found.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// ErrNoProject is returned by FindProject when no config file exists in the
// directory or any of its parents.
var ErrNoProject = errors.New("no " + FileName + " found in this directory or any parent — run 'todosync init' first")

func defaultSystemConfigPath() string {
	if runtime.GOOS == "windows" {
		pd := os.Getenv("ProgramData")
		if pd == "" {
			pd = `C:\ProgramData`
		}
		return filepath.Join(pd, configDirName, FileName)
	}
	return filepath.Join("/etc", configDirName, FileName)
}

func defaultUserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, FileName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// EnvNoInherit returns true if TODOSYNC_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	return envBoolTrue("TODOSYNC_NO_INHERIT")
}

// envBoolTrue returns true if the env var is set to "1" or "true" (case-insensitive).
func envBoolTrue(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true"
}
