// Package patch turns an edit script into context-anchored hunks and
// applies those hunks to a text that may have drifted from the one they
// were built against.
//
// Application is best effort: each hunk is located with a fuzzy bitap
// search around its expected offset, and hunks that cannot be placed are
// skipped and reported. Judging whether the result is trustworthy is left
// to the caller.
//
// All offsets and lengths are byte offsets into UTF-8 text.
package patch

import (
	"github.com/bianoble/todosync/internal/textdiff"
)

// Options tunes building and applying patches.
type Options struct {
	// Margin is the number of context bytes kept around each change.
	Margin int

	// MatchMaxBits is the longest pattern the bitap matcher handles. Hunks
	// whose base span exceeds it are split into fragments before applying.
	MatchMaxBits int

	// MatchThreshold is the fuzziness accepted when locating a hunk:
	// 0.0 requires an exact match, 1.0 accepts anything.
	MatchThreshold float64

	// MatchDistance is how far from the expected offset a match may be
	// found. A match MatchDistance bytes away costs as much as a fully
	// mismatched pattern; 0 requires the exact offset.
	MatchDistance int

	// DeleteThreshold is the fraction of an oversized deletion that may
	// differ from the expected text before the hunk is rejected.
	DeleteThreshold float64
}

// DefaultOptions returns the matcher's stock tuning.
func DefaultOptions() Options {
	return Options{
		Margin:          4,
		MatchMaxBits:    32,
		MatchThreshold:  0.5,
		MatchDistance:   1000,
		DeleteThreshold: 0.5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.MatchMaxBits <= 0 {
		o.MatchMaxBits = d.MatchMaxBits
	}
	// A margin of half the pattern budget or more leaves no room for the
	// change itself.
	if 2*o.Margin >= o.MatchMaxBits {
		o.Margin = d.Margin
		o.MatchMaxBits = max(o.MatchMaxBits, d.MatchMaxBits)
	}
	return o
}

// Patch is one hunk. Its leading and trailing Equal edits are the context
// window; the other edits are the change itself.
type Patch struct {
	Edits []textdiff.Edit

	// Start1 and Length1 locate the hunk in the text it was built from;
	// Start2 and Length2 locate it in the text it produces.
	Start1, Start2   int
	Length1, Length2 int
}

// Delta is the change in length the hunk causes.
func (p Patch) Delta() int {
	return p.Length2 - p.Length1
}

// Before returns the text the hunk expects to find.
func (p Patch) Before() string {
	return textdiff.Source(p.Edits)
}

// After returns the text the hunk leaves behind.
func (p Patch) After() string {
	return textdiff.Target(p.Edits)
}

func (p Patch) clone() Patch {
	c := p
	c.Edits = append([]textdiff.Edit(nil), p.Edits...)
	return c
}

func clonePatches(patches []Patch) []Patch {
	out := make([]Patch, len(patches))
	for i, p := range patches {
		out[i] = p.clone()
	}
	return out
}
