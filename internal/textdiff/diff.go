package textdiff

import (
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Options controls Compute.
type Options struct {
	// LineMode diffs large inputs line by line first and refines the
	// changed regions character by character afterwards. Faster, slightly
	// less minimal.
	LineMode bool

	// Timeout bounds the bisection phase. Zero means no deadline, which
	// keeps the output a pure function of the inputs.
	Timeout time.Duration
}

// DefaultOptions returns line mode on and no deadline.
func DefaultOptions() Options {
	return Options{LineMode: true}
}

// Compute returns an edit script transforming oldText into newText. It is
// total: empty or identical inputs yield an empty or single-Equal script.
// The script is reasonably minimal but may contain short alternating edits;
// run Cleanup before building patches from it.
func Compute(oldText, newText string, opts Options) []Edit {
	if oldText == newText {
		if oldText == "" {
			return nil
		}
		return []Edit{{Op: OpEqual, Text: oldText}}
	}

	dmp := newLibrary(opts)
	return FromLibrary(dmp.DiffMain(oldText, newText, opts.LineMode))
}

func newLibrary(opts Options) *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = opts.Timeout
	return dmp
}
