package patch

import (
	"github.com/bianoble/todosync/internal/textdiff"
)

// fragment is a piece of a hunk small enough for the bitap matcher.
type fragment struct {
	Patch
	origin int // index of the hunk it was cut from
}

// splitMax cuts hunks whose base span exceeds opts.MatchMaxBits into
// fragments, each re-anchored with its own margin of context.
func splitMax(patches []Patch, opts Options) []fragment {
	size := opts.MatchMaxBits
	var out []fragment

	for idx, big := range patches {
		if big.Length1 <= size {
			out = append(out, fragment{Patch: big, origin: idx})
			continue
		}

		start1, start2 := big.Start1, big.Start2
		rest := append([]textdiff.Edit(nil), big.Edits...)
		precontext := ""

		for len(rest) != 0 {
			p := Patch{
				Start1: start1 - len(precontext),
				Start2: start2 - len(precontext),
			}
			empty := true
			if precontext != "" {
				p.Length1 = len(precontext)
				p.Length2 = len(precontext)
				p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpEqual, Text: precontext})
			}

			for len(rest) != 0 && p.Length1 < size-opts.Margin {
				e := rest[0]
				switch {
				case e.Op == textdiff.OpInsert:
					// Insertions cost nothing to match.
					p.Length2 += len(e.Text)
					start2 += len(e.Text)
					p.Edits = append(p.Edits, e)
					rest = rest[1:]
					empty = false
				case e.Op == textdiff.OpDelete && len(p.Edits) == 1 &&
					p.Edits[0].Op == textdiff.OpEqual && len(e.Text) > 2*size:
					// A large deletion passes in one piece; the applier
					// matches its head and tail separately.
					p.Length1 += len(e.Text)
					start1 += len(e.Text)
					p.Edits = append(p.Edits, e)
					rest = rest[1:]
					empty = false
				default:
					// Deletion or equality: take as much as fits.
					n := cutPoint(e.Text, size-p.Length1-opts.Margin)
					piece := e.Text[:n]
					p.Length1 += len(piece)
					start1 += len(piece)
					if e.Op == textdiff.OpEqual {
						p.Length2 += len(piece)
						start2 += len(piece)
					} else {
						empty = false
					}
					p.Edits = append(p.Edits, textdiff.Edit{Op: e.Op, Text: piece})
					if piece == e.Text {
						rest = rest[1:]
					} else {
						rest[0].Text = e.Text[n:]
					}
				}
			}

			// Head context for the next fragment.
			precontext = textdiff.Target(p.Edits)
			precontext = precontext[runeFloor(precontext, max(0, len(precontext)-opts.Margin)):]

			// Tail context for this fragment.
			postcontext := textdiff.Source(rest)
			if len(postcontext) > opts.Margin {
				postcontext = postcontext[:runeCeil(postcontext, opts.Margin)]
			}
			if postcontext != "" {
				p.Length1 += len(postcontext)
				p.Length2 += len(postcontext)
				if last := len(p.Edits) - 1; last >= 0 && p.Edits[last].Op == textdiff.OpEqual {
					p.Edits[last].Text += postcontext
				} else {
					p.Edits = append(p.Edits, textdiff.Edit{Op: textdiff.OpEqual, Text: postcontext})
				}
			}

			if !empty {
				out = append(out, fragment{Patch: p, origin: idx})
			}
		}
	}
	return out
}

// cutPoint returns how many bytes of s to take when at most n fit. The cut
// lands on a rune boundary and always makes progress.
func cutPoint(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	n = max(n, 1)
	cut := runeFloor(s, n)
	if cut == 0 {
		cut = runeCeil(s, n)
	}
	return cut
}
