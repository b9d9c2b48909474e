package patch

import (
	"strings"
	"unicode/utf8"

	"github.com/bianoble/todosync/internal/textdiff"
)

// Make builds hunks that turn base into the target text described by
// edits. edits must reconstruct base (textdiff.Source(edits) == base).
//
// Hunks carry a rolling context: each hunk is anchored in the text as it
// looks after every earlier hunk was applied, so applying the list in order
// to base reproduces the target exactly.
func Make(base string, edits []textdiff.Edit, opts Options) []Patch {
	opts = opts.withDefaults()
	if len(edits) == 0 {
		return nil
	}

	var patches []Patch
	var cur Patch
	count1, count2 := 0, 0
	// prepatch is the text the current hunk is anchored in; postpatch is
	// the same text with the current hunk applied.
	prepatch, postpatch := base, base

	for i, e := range edits {
		if len(cur.Edits) == 0 && e.Op != textdiff.OpEqual {
			cur.Start1 = count1
			cur.Start2 = count2
		}

		switch e.Op {
		case textdiff.OpInsert:
			cur.Edits = append(cur.Edits, e)
			cur.Length2 += len(e.Text)
			postpatch = postpatch[:count2] + e.Text + postpatch[count2:]
		case textdiff.OpDelete:
			cur.Edits = append(cur.Edits, e)
			cur.Length1 += len(e.Text)
			postpatch = postpatch[:count2] + postpatch[count2+len(e.Text):]
		case textdiff.OpEqual:
			if len(e.Text) <= 2*opts.Margin && len(cur.Edits) != 0 && i != len(edits)-1 {
				// Small equality inside a hunk.
				cur.Edits = append(cur.Edits, e)
				cur.Length1 += len(e.Text)
				cur.Length2 += len(e.Text)
			}
			if len(e.Text) >= 2*opts.Margin && len(cur.Edits) != 0 {
				patches = append(patches, addContext(cur, prepatch, opts))
				cur = Patch{}
				prepatch = postpatch
				count1 = count2
			}
		}

		if e.Op != textdiff.OpInsert {
			count1 += len(e.Text)
		}
		if e.Op != textdiff.OpDelete {
			count2 += len(e.Text)
		}
	}

	if len(cur.Edits) != 0 {
		patches = append(patches, addContext(cur, prepatch, opts))
	}
	return patches
}

// addContext surrounds p with enough of text to make its base pattern
// unique, then one more margin.
func addContext(p Patch, text string, opts Options) Patch {
	if text == "" {
		return p
	}

	pattern := text[p.Start2 : p.Start2+p.Length1]
	padding := 0
	for strings.Index(text, pattern) != strings.LastIndex(text, pattern) &&
		len(pattern) < opts.MatchMaxBits-2*opts.Margin {
		padding += opts.Margin
		lo := max(0, p.Start2-padding)
		hi := min(len(text), p.Start2+p.Length1+padding)
		pattern = text[lo:hi]
	}
	padding += opts.Margin

	prefixStart := runeFloor(text, max(0, p.Start2-padding))
	prefix := text[prefixStart:p.Start2]
	if prefix != "" {
		p.Edits = append([]textdiff.Edit{{Op: textdiff.OpEqual, Text: prefix}}, p.Edits...)
	}
	suffixEnd := runeCeil(text, min(len(text), p.Start2+p.Length1+padding))
	suffix := text[p.Start2+p.Length1 : suffixEnd]
	if suffix != "" {
		p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpEqual, Text: suffix})
	}

	p.Start1 -= len(prefix)
	p.Start2 -= len(prefix)
	p.Length1 += len(prefix) + len(suffix)
	p.Length2 += len(prefix) + len(suffix)
	return p
}

// runeFloor moves i back to the first byte of the rune containing s[i].
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves i forward to the first byte of the next rune, unless s[i]
// already starts one.
func runeCeil(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
