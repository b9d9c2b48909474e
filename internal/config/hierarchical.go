package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	// ProjectPath is the project config file. It must exist.
	ProjectPath string

	// SystemConfigPath and UserConfigPath override the OS defaults.
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads the project file alone.
	NoInherit bool
}

// HierarchicalResult is a merged config plus where each layer came from.
type HierarchicalResult struct {
	Config *Config
	Layers []ConfigLayerInfo
}

// LoadHierarchical loads the system, user and project layers, merges them
// and validates the result. Missing system and user files are skipped; a
// layer that exists but does not parse is an error.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	if opts.NoInherit {
		cfg, err := Load(opts.ProjectPath)
		if err != nil {
			return nil, err
		}
		return &HierarchicalResult{
			Config: cfg,
			Layers: []ConfigLayerInfo{{Path: opts.ProjectPath, Level: LevelProject, Loaded: true}},
		}, nil
	}

	layers := DiscoverPaths(DiscoverOptions{
		ProjectPath:      opts.ProjectPath,
		SystemConfigPath: opts.SystemConfigPath,
		UserConfigPath:   opts.UserConfigPath,
	})

	var configs []*Config
	for i := range layers {
		layer := &layers[i]
		if layer.Level != LevelProject {
			if _, err := os.Stat(layer.Path); errors.Is(err, fs.ErrNotExist) {
				continue
			}
		}

		cfg, err := Parse(layer.Path)
		if err != nil {
			layer.Err = err
			return nil, fmt.Errorf("%s config: %w", layer.Level, err)
		}
		layer.Loaded = true
		configs = append(configs, cfg)
	}

	if len(configs) == 0 || !layers[len(layers)-1].Loaded {
		return nil, fmt.Errorf("project config %s was not loaded", opts.ProjectPath)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(merged)
	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}
