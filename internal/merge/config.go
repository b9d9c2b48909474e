package merge

import (
	"fmt"
	"time"

	"github.com/bianoble/todosync/internal/patch"
	"github.com/bianoble/todosync/internal/textdiff"
)

// Config holds every tunable of a merge. It is passed per call.
type Config struct {
	// MatchDistance is how far, in bytes, a hunk may drift from its
	// expected offset in the remote text.
	MatchDistance int

	// DeleteThreshold is the fraction of a large deletion that may differ
	// from what the hunk expects.
	DeleteThreshold float64

	// MatchThreshold is the fuzziness accepted when locating a hunk.
	MatchThreshold float64

	// Margin is the context kept around each change, in bytes.
	Margin int

	// DiffTimeout bounds the diff phase. Zero means no deadline.
	DiffTimeout time.Duration

	Cleanup  textdiff.CleanupMode
	EditCost int

	LineMode bool

	// NormalizeCompletions collapses doubled completion markers in the
	// merged text.
	NormalizeCompletions bool
}

// DefaultConfig returns the tuning the todo.txt apps have shipped with.
func DefaultConfig() Config {
	return Config{
		MatchDistance:        200,
		DeleteThreshold:      0.3,
		MatchThreshold:       0.5,
		Margin:               4,
		DiffTimeout:          0,
		Cleanup:              textdiff.CleanupSemantic,
		EditCost:             textdiff.DefaultEditCost,
		LineMode:             true,
		NormalizeCompletions: true,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.MatchDistance < 0:
		return fmt.Errorf("match distance must not be negative, got %d", c.MatchDistance)
	case c.DeleteThreshold < 0 || c.DeleteThreshold > 1:
		return fmt.Errorf("delete threshold must be within [0, 1], got %g", c.DeleteThreshold)
	case c.MatchThreshold < 0 || c.MatchThreshold > 1:
		return fmt.Errorf("match threshold must be within [0, 1], got %g", c.MatchThreshold)
	case c.Margin < 0:
		return fmt.Errorf("margin must not be negative, got %d", c.Margin)
	case c.DiffTimeout < 0:
		return fmt.Errorf("diff timeout must not be negative, got %s", c.DiffTimeout)
	case c.EditCost < 0:
		return fmt.Errorf("edit cost must not be negative, got %d", c.EditCost)
	}
	if _, err := textdiff.ParseCleanupMode(string(c.Cleanup)); err != nil {
		return err
	}
	return nil
}

// DiffOptions returns the diff engine settings.
func (c Config) DiffOptions() textdiff.Options {
	return textdiff.Options{LineMode: c.LineMode, Timeout: c.DiffTimeout}
}

// CleanupOptions returns the cleanup settings. An empty mode means semantic.
func (c Config) CleanupOptions() textdiff.CleanupOptions {
	mode := c.Cleanup
	if mode == "" {
		mode = textdiff.CleanupSemantic
	}
	return textdiff.CleanupOptions{Mode: mode, EditCost: c.EditCost}
}

// PatchOptions returns the builder and applier settings.
func (c Config) PatchOptions() patch.Options {
	opts := patch.DefaultOptions()
	opts.Margin = c.Margin
	opts.MatchThreshold = c.MatchThreshold
	opts.MatchDistance = c.MatchDistance
	opts.DeleteThreshold = c.DeleteThreshold
	return opts
}
