// Package textdiff computes character-level edit scripts between two texts
// and post-processes them into semantically coherent edits.
//
// An edit script is an ordered []Edit. Invariants:
//   - Source(edits) reproduces the old text (Equal + Delete operands).
//   - Target(edits) reproduces the new text (Equal + Insert operands).
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an edit operation from the old text to the new text.
type Op int8

// Edit operations. The values match diffmatchpatch.Operation.
const (
	OpDelete Op = -1
	OpEqual  Op = 0
	OpInsert Op = 1
)

func (o Op) String() string {
	switch o {
	case OpDelete:
		return "Delete"
	case OpInsert:
		return "Insert"
	case OpEqual:
		return "Equal"
	}
	return fmt.Sprintf("Op(%d)", int8(o))
}

// Edit is a single operation carrying a contiguous substring.
type Edit struct {
	Op   Op
	Text string
}

func (e Edit) String() string {
	return fmt.Sprintf("%s(%q)", e.Op, e.Text)
}

// Source returns the old text described by edits.
func Source(edits []Edit) string {
	var sb strings.Builder
	for _, e := range edits {
		if e.Op != OpInsert {
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

// Target returns the new text described by edits.
func Target(edits []Edit) string {
	var sb strings.Builder
	for _, e := range edits {
		if e.Op != OpDelete {
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

// Validate checks that edits transform oldText into newText and that every
// edit carries a known op. It returns the first violation found.
func Validate(oldText, newText string, edits []Edit) error {
	for i, e := range edits {
		switch e.Op {
		case OpEqual, OpInsert, OpDelete:
		default:
			return fmt.Errorf("edit[%d]: unknown op %d", i, int8(e.Op))
		}
	}
	if got := Source(edits); got != oldText {
		return fmt.Errorf("edits do not reconstruct the old text: got %d bytes, want %d", len(got), len(oldText))
	}
	if got := Target(edits); got != newText {
		return fmt.Errorf("edits do not reconstruct the new text: got %d bytes, want %d", len(got), len(newText))
	}
	return nil
}

// Levenshtein returns the number of inserted, deleted or substituted bytes
// described by edits. A delete next to an insert counts as a substitution.
func Levenshtein(edits []Edit) int {
	total := 0
	insertions, deletions := 0, 0
	for _, e := range edits {
		switch e.Op {
		case OpInsert:
			insertions += len(e.Text)
		case OpDelete:
			deletions += len(e.Text)
		case OpEqual:
			total += max(insertions, deletions)
			insertions, deletions = 0, 0
		}
	}
	return total + max(insertions, deletions)
}

// XIndex maps loc, a byte offset in the old text, to the equivalent offset
// in the new text. A location inside a deletion maps to the start of it.
func XIndex(edits []Edit, loc int) int {
	chars1, chars2 := 0, 0
	lastChars1, lastChars2 := 0, 0
	var last Edit
	found := false
	for _, e := range edits {
		if e.Op != OpInsert {
			chars1 += len(e.Text)
		}
		if e.Op != OpDelete {
			chars2 += len(e.Text)
		}
		if chars1 > loc {
			last = e
			found = true
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if found && last.Op == OpDelete {
		return lastChars2
	}
	return lastChars2 + (loc - lastChars1)
}

// Pretty renders edits one per line with +/-/space markers. Used in
// conflict diagnostics.
func Pretty(edits []Edit) string {
	var sb strings.Builder
	for _, e := range edits {
		switch e.Op {
		case OpInsert:
			sb.WriteString("+")
		case OpDelete:
			sb.WriteString("-")
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%q\n", e.Text))
	}
	return sb.String()
}

// FromLibrary converts diffmatchpatch diffs into edits.
func FromLibrary(diffs []diffmatchpatch.Diff) []Edit {
	if len(diffs) == 0 {
		return nil
	}
	edits := make([]Edit, len(diffs))
	for i, d := range diffs {
		edits[i] = Edit{Op: Op(d.Type), Text: d.Text}
	}
	return edits
}

// ToLibrary converts edits into diffmatchpatch diffs.
func ToLibrary(edits []Edit) []diffmatchpatch.Diff {
	if len(edits) == 0 {
		return nil
	}
	diffs := make([]diffmatchpatch.Diff, len(edits))
	for i, e := range edits {
		diffs[i] = diffmatchpatch.Diff{Type: diffmatchpatch.Operation(e.Op), Text: e.Text}
	}
	return diffs
}
