package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base:
//   - version: must agree if both declare it (non-zero); fatal error on mismatch
//   - todo, state: field by field, set overlay fields win
//   - remote: an overlay that names a type replaces the base remote entirely
//   - merge: field by field, set overlay fields win
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.Todo = TodoConfig{
		Path:        pick(base.Todo.Path, overlay.Todo.Path),
		DonePath:    pick(base.Todo.DonePath, overlay.Todo.DonePath),
		LineEndings: pick(base.Todo.LineEndings, overlay.Todo.LineEndings),
	}

	// Remotes are replaced whole, never mixed.
	result.Remote = base.Remote
	if overlay.Remote.Type != "" {
		result.Remote = overlay.Remote
	}

	result.Merge = mergeSettings(base.Merge, overlay.Merge)

	result.State = StateConfig{
		Path:        pick(base.State.Path, overlay.State.Path),
		SnapshotDir: pick(base.State.SnapshotDir, overlay.State.SnapshotDir),
	}

	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0 && overlay == 0:
		*out = 0 // neither declares; validation will catch this
	case base == 0:
		*out = overlay
	case overlay == 0:
		*out = base
	case base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d — all config layers must agree on version", base, overlay)
	}
	return nil
}

func mergeSettings(base, overlay MergeConfig) MergeConfig {
	return MergeConfig{
		MatchDistance:        pickPtr(base.MatchDistance, overlay.MatchDistance),
		DeleteThreshold:      pickPtr(base.DeleteThreshold, overlay.DeleteThreshold),
		MatchThreshold:       pickPtr(base.MatchThreshold, overlay.MatchThreshold),
		PatchMargin:          pickPtr(base.PatchMargin, overlay.PatchMargin),
		DiffTimeout:          pickPtr(base.DiffTimeout, overlay.DiffTimeout),
		Cleanup:              pick(base.Cleanup, overlay.Cleanup),
		EditCost:             pickPtr(base.EditCost, overlay.EditCost),
		LineMode:             pickPtr(base.LineMode, overlay.LineMode),
		NormalizeCompletions: pickPtr(base.NormalizeCompletions, overlay.NormalizeCompletions),
	}
}

func pick(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func pickPtr[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}
