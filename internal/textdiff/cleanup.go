package textdiff

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// CleanupMode selects how a raw edit script is post-processed.
type CleanupMode string

const (
	// CleanupSemantic folds short equalities into the surrounding
	// insert/delete pairs so edits follow word and line boundaries.
	CleanupSemantic CleanupMode = "semantic"

	// CleanupEfficiency folds equalities shorter than EditCost that sit
	// between edits, trading minimality for fewer operations.
	CleanupEfficiency CleanupMode = "efficiency"

	// CleanupNone only normalizes the script: adjacent edits of the same
	// op are coalesced and empty edits dropped.
	CleanupNone CleanupMode = "none"
)

// DefaultEditCost is the cost of an empty edit in efficiency cleanup.
const DefaultEditCost = 4

// CleanupOptions controls Cleanup.
type CleanupOptions struct {
	Mode     CleanupMode
	EditCost int // efficiency mode only; 0 means DefaultEditCost
}

// ParseCleanupMode validates a mode name. The empty string means semantic.
func ParseCleanupMode(s string) (CleanupMode, error) {
	switch CleanupMode(s) {
	case "":
		return CleanupSemantic, nil
	case CleanupSemantic, CleanupEfficiency, CleanupNone:
		return CleanupMode(s), nil
	}
	return "", fmt.Errorf("unknown cleanup mode '%s' — must be one of: semantic, efficiency, none", s)
}

// Cleanup post-processes edits according to opts. The result still
// reconstructs both texts.
func Cleanup(edits []Edit, opts CleanupOptions) []Edit {
	if len(edits) == 0 {
		return edits
	}
	switch opts.Mode {
	case CleanupEfficiency:
		cost := opts.EditCost
		if cost <= 0 {
			cost = DefaultEditCost
		}
		return CleanupEfficiencyCost(edits, cost)
	case CleanupNone:
		return CleanupMerge(edits)
	default:
		return CleanupSemanticEdits(edits)
	}
}

// CleanupSemanticEdits removes semantically trivial equalities.
func CleanupSemanticEdits(edits []Edit) []Edit {
	dmp := diffmatchpatch.New()
	return FromLibrary(dmp.DiffCleanupSemantic(ToLibrary(edits)))
}

// CleanupEfficiencyCost removes operationally trivial equalities, where an
// empty edit costs editCost.
func CleanupEfficiencyCost(edits []Edit, editCost int) []Edit {
	dmp := diffmatchpatch.New()
	dmp.DiffEditCost = editCost
	return FromLibrary(dmp.DiffCleanupEfficiency(ToLibrary(edits)))
}

// CleanupMerge coalesces adjacent edits of the same op and factors out
// common prefixes and suffixes of insert/delete pairs.
func CleanupMerge(edits []Edit) []Edit {
	dmp := diffmatchpatch.New()
	return FromLibrary(dmp.DiffCleanupMerge(ToLibrary(edits)))
}

// CleanupLossless shifts single edits sideways so they line up with word
// or line boundaries, without changing the set of edits.
func CleanupLossless(edits []Edit) []Edit {
	dmp := diffmatchpatch.New()
	return FromLibrary(dmp.DiffCleanupSemanticLossless(ToLibrary(edits)))
}
