package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bianoble/todosync/internal/patch"
	"github.com/bianoble/todosync/internal/textdiff"
)

// ErrConflict is matched by every *ConflictError via errors.Is.
var ErrConflict = errors.New("merge conflict")

// Reason names the check that rejected a merge.
type Reason string

const (
	// ReasonNoPatchApplied means none of the local changes could be
	// located in the remote text.
	ReasonNoPatchApplied Reason = "no-patch-applied"

	// ReasonTooLong means the merged text grew more than local and
	// remote grew together.
	ReasonTooLong Reason = "too-long"
)

// LineStats are the line counts the size check works on.
type LineStats struct {
	Base, Local, Remote, Merged int
}

// Budget is the largest merged line count the size check accepts.
func (s LineStats) Budget() int {
	return s.Local + s.Remote - s.Base
}

// Exceeded reports whether the merged text is longer than Budget.
func (s LineStats) Exceeded() bool {
	return s.Merged > s.Budget()
}

func (s LineStats) String() string {
	return fmt.Sprintf("%d lines in merge from files: %d (base) -> %d (local) and %d (remote)",
		s.Merged, s.Base, s.Local, s.Remote)
}

// ConflictError is returned when a merge is rejected. It carries everything
// needed to reproduce and inspect the failed attempt.
type ConflictError struct {
	Reasons []Reason

	Base, Local, Remote string

	Edits   []textdiff.Edit
	Patches []patch.Patch
	Merged  string
	Applied []bool
	Lines   LineStats
}

func (e *ConflictError) Error() string {
	if e.Has(ReasonTooLong) {
		return "merged file is too long; not enough commonality in local and remote lists"
	}
	return "no local change could be placed in the remote list"
}

// Is makes errors.Is(err, ErrConflict) hold.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Has reports whether r is among the reasons for the rejection.
func (e *ConflictError) Has(r Reason) bool {
	for _, got := range e.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// Diagnostic renders the full dump of the failed attempt.
func (e *ConflictError) Diagnostic() string {
	var sb strings.Builder
	reasons := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		reasons[i] = string(r)
	}
	fmt.Fprintf(&sb, "--- merge conflict (%s) ---\n", strings.Join(reasons, ", "))
	fmt.Fprintf(&sb, "%s\n", e.Lines)
	section(&sb, "Base", e.Base)
	section(&sb, "Local", e.Local)
	section(&sb, "Remote", e.Remote)
	section(&sb, "Diffs", textdiff.Pretty(e.Edits))
	section(&sb, "Patches", patch.ToText(e.Patches))
	section(&sb, "Merged", e.Merged)
	fmt.Fprintf(&sb, "Results:\n%v\n", e.Applied)
	return sb.String()
}

func section(sb *strings.Builder, title, body string) {
	sb.WriteString(title)
	sb.WriteString(":\n")
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteByte('\n')
	}
}
