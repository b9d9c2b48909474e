package patch

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/bianoble/todosync/internal/textdiff"
)

// Result is the outcome of Apply.
type Result struct {
	// Text is the patched text. Regions whose hunk could not be placed are
	// left as they were.
	Text string

	// Applied has one entry per input hunk. A hunk that was split into
	// fragments for matching counts as applied when any fragment landed.
	Applied []bool
}

// AppliedCount returns how many hunks were applied.
func (r Result) AppliedCount() int {
	n := 0
	for _, ok := range r.Applied {
		if ok {
			n++
		}
	}
	return n
}

// Apply applies patches to text in order, locating each hunk near its
// expected offset. It never fails: hunks that cannot be placed are skipped
// and reported in Result.Applied.
func Apply(patches []Patch, text string, opts Options) Result {
	opts = opts.withDefaults()
	if len(patches) == 0 {
		return Result{Text: text, Applied: []bool{}}
	}

	patches = clonePatches(patches)
	padding := addPadding(patches, opts)
	text = padding + text + padding
	frags := splitMax(patches, opts)

	dmp := diffmatchpatch.New()
	dmp.MatchThreshold = opts.MatchThreshold
	dmp.MatchDistance = opts.MatchDistance
	dmp.MatchMaxBits = opts.MatchMaxBits

	applied := make([]bool, len(patches))
	// delta is the offset between where the previous fragment was expected
	// and where it was found; later fragments are expected to shift with it.
	delta := 0
	for _, f := range frags {
		expected := f.Start2 + delta
		before := f.Before()

		start, end := -1, -1
		if len(before) > opts.MatchMaxBits {
			// Only a large deletion produces an oversized pattern: match
			// its head and tail separately.
			start = dmp.MatchMain(text, before[:opts.MatchMaxBits], expected)
			if start != -1 {
				end = dmp.MatchMain(text, before[len(before)-opts.MatchMaxBits:],
					expected+len(before)-opts.MatchMaxBits)
				if end == -1 || start >= end {
					start = -1
				}
			}
		} else {
			start = dmp.MatchMain(text, before, expected)
		}

		if start == -1 {
			delta -= f.Delta()
			continue
		}
		delta = start - expected

		var found string
		if end == -1 {
			found = text[start:min(start+len(before), len(text))]
		} else {
			found = text[start:min(end+opts.MatchMaxBits, len(text))]
		}

		if before == found {
			text = text[:start] + f.After() + text[start+len(before):]
			applied[f.origin] = true
			continue
		}

		patched, ok := applyFuzzy(dmp, text, start, before, found, f.Patch, opts)
		if ok {
			text = patched
			applied[f.origin] = true
		}
	}

	return Result{Text: stripPadding(text, padding), Applied: applied}
}

// stripPadding removes the sentinel added by addPadding. A fuzzy splice can
// eat into the sentinel, so any remaining sentinel bytes at either end are
// trimmed individually.
func stripPadding(text, padding string) string {
	if len(text) >= 2*len(padding) && strings.HasPrefix(text, padding) && strings.HasSuffix(text, padding) {
		return text[len(padding) : len(text)-len(padding)]
	}
	return strings.Trim(text, padding)
}

// applyFuzzy splices p into text at start when the located window found
// differs from the expected text before. Offsets inside p are translated
// through a diff of before against found.
func applyFuzzy(dmp *diffmatchpatch.DiffMatchPatch, text string, start int, before, found string, p Patch, opts Options) (string, bool) {
	if !utf8.ValidString(before) || !utf8.ValidString(found) {
		return text, false
	}

	mapping := textdiff.FromLibrary(dmp.DiffMain(before, found, false))
	if len(before) > opts.MatchMaxBits &&
		float64(textdiff.Levenshtein(mapping))/float64(len(before)) > opts.DeleteThreshold {
		// The end points match but the content between them does not.
		return text, false
	}
	mapping = textdiff.CleanupLossless(mapping)

	index1 := 0
	for _, e := range p.Edits {
		if e.Op != textdiff.OpEqual {
			index2 := textdiff.XIndex(mapping, index1)
			at := clamp(start+index2, 0, len(text))
			switch e.Op {
			case textdiff.OpInsert:
				text = text[:at] + e.Text + text[at:]
			case textdiff.OpDelete:
				to := clamp(start+textdiff.XIndex(mapping, index1+len(e.Text)), at, len(text))
				text = text[:at] + text[to:]
			}
		}
		if e.Op != textdiff.OpDelete {
			index1 += len(e.Text)
		}
	}
	return text, true
}

// addPadding bumps every hunk forward by opts.Margin and pads the first and
// last hunk with sentinel context, so changes at either end of the text
// still have something to anchor on. It returns the sentinel string.
func addPadding(patches []Patch, opts Options) string {
	n := opts.Margin
	var sb strings.Builder
	for x := 1; x <= n; x++ {
		sb.WriteByte(byte(x))
	}
	padding := sb.String()

	for i := range patches {
		patches[i].Start1 += n
		patches[i].Start2 += n
	}

	first := &patches[0]
	if len(first.Edits) == 0 || first.Edits[0].Op != textdiff.OpEqual {
		first.Edits = append([]textdiff.Edit{{Op: textdiff.OpEqual, Text: padding}}, first.Edits...)
		first.Start1 -= n
		first.Start2 -= n
		first.Length1 += n
		first.Length2 += n
	} else if n > len(first.Edits[0].Text) {
		extra := n - len(first.Edits[0].Text)
		first.Edits[0].Text = padding[len(first.Edits[0].Text):] + first.Edits[0].Text
		first.Start1 -= extra
		first.Start2 -= extra
		first.Length1 += extra
		first.Length2 += extra
	}

	last := &patches[len(patches)-1]
	if len(last.Edits) == 0 || last.Edits[len(last.Edits)-1].Op != textdiff.OpEqual {
		last.Edits = append(last.Edits, textdiff.Edit{Op: textdiff.OpEqual, Text: padding})
		last.Length1 += n
		last.Length2 += n
	} else if tail := &last.Edits[len(last.Edits)-1]; n > len(tail.Text) {
		extra := n - len(tail.Text)
		tail.Text += padding[:extra]
		last.Length1 += extra
		last.Length2 += extra
	}

	return padding
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
