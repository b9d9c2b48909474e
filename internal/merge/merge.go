// Package merge reconciles a locally edited todo.txt file with a remote
// copy that diverged from the same base.
//
// The local changes are diffed against the base, turned into
// context-anchored patches and applied to the remote text. The result is
// then checked: at least one patch must have landed and the merged text
// must not have grown more than both sides grew together. A merge failing
// either check is rejected with a *ConflictError rather than returned.
package merge

import (
	"log/slog"
	"strings"

	"github.com/bianoble/todosync/internal/patch"
	"github.com/bianoble/todosync/internal/textdiff"
)

// Outcome is an accepted merge.
type Outcome struct {
	Merged string

	// Trivial is set when one side was unchanged (or both sides made the
	// same change) and no patching took place.
	Trivial bool

	Edits   []textdiff.Edit
	Patches []patch.Patch
	Applied []bool
	Lines   LineStats

	// Normalized is set when doubled completion markers were collapsed.
	Normalized bool
}

// Merger runs three-way merges with a fixed configuration, usually
// DefaultConfig with a few fields adjusted. A Merger holds no mutable state
// and may be shared between goroutines.
type Merger struct {
	Config Config
	Logger *slog.Logger
}

// New returns a Merger. A nil logger discards output and a zero Config
// means DefaultConfig. A partial Config is used as given, so callers
// tuning single fields should start from DefaultConfig.
func New(cfg Config, logger *slog.Logger) *Merger {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Merger{Config: cfg, Logger: logger}
}

// ThreeWay merges local and remote against base with cfg. It returns the
// merged text or a *ConflictError.
func ThreeWay(base, local, remote string, cfg Config) (string, error) {
	out, err := New(cfg, nil).Merge(base, local, remote)
	if err != nil {
		return "", err
	}
	return out.Merged, nil
}

// Merge merges local and remote against base.
func (m *Merger) Merge(base, local, remote string) (*Outcome, error) {
	logger := m.logger()

	switch {
	case local == base:
		logger.Debug("local unchanged, taking remote")
		return m.trivial(base, local, remote, remote), nil
	case remote == base, local == remote:
		logger.Debug("remote unchanged or identical to local, taking local")
		return m.trivial(base, local, remote, local), nil
	}

	// Patching splices byte offsets; keep every input valid UTF-8.
	base = strings.ToValidUTF8(base, "\uFFFD")
	local = strings.ToValidUTF8(local, "\uFFFD")
	remote = strings.ToValidUTF8(remote, "\uFFFD")

	cfg := m.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	edits := textdiff.Compute(base, local, cfg.DiffOptions())
	edits = textdiff.Cleanup(edits, cfg.CleanupOptions())

	popts := cfg.PatchOptions()
	patches := patch.Make(base, edits, popts)
	res := patch.Apply(patches, remote, popts)

	out := &Outcome{
		Merged:  res.Text,
		Edits:   edits,
		Patches: patches,
		Applied: res.Applied,
	}

	var reasons []Reason
	if len(patches) > 0 && res.AppliedCount() == 0 {
		reasons = append(reasons, ReasonNoPatchApplied)
	}

	if cfg.NormalizeCompletions && HasDoubleCompletion(out.Merged) {
		out.Merged = NormalizeCompletions(out.Merged)
		out.Normalized = true
	}

	out.Lines = LineStats{
		Base:   CountLines(base),
		Local:  CountLines(local),
		Remote: CountLines(remote),
		Merged: CountLines(out.Merged),
	}
	if out.Lines.Exceeded() {
		reasons = append(reasons, ReasonTooLong)
	}

	logger.Debug("merge attempted",
		"patches", len(patches),
		"applied", res.AppliedCount(),
		"normalized", out.Normalized,
		"lines", out.Lines.String())

	if len(reasons) > 0 {
		cerr := &ConflictError{
			Reasons: reasons,
			Base:    base,
			Local:   local,
			Remote:  remote,
			Edits:   edits,
			Patches: patches,
			Merged:  out.Merged,
			Applied: res.Applied,
			Lines:   out.Lines,
		}
		logger.Warn("merge rejected", "reasons", reasons, "lines", out.Lines.String())
		return nil, cerr
	}
	return out, nil
}

func (m *Merger) trivial(base, local, remote, merged string) *Outcome {
	return &Outcome{
		Merged:  merged,
		Trivial: true,
		Applied: []bool{},
		Lines: LineStats{
			Base:   CountLines(base),
			Local:  CountLines(local),
			Remote: CountLines(remote),
			Merged: CountLines(merged),
		},
	}
}

func (m *Merger) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}

// CountLines counts lines the way the size check does: one more than the
// number of newlines, so "" is one line and a trailing newline opens a new,
// empty one.
func CountLines(s string) int {
	return 1 + strings.Count(s, "\n")
}
