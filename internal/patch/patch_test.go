package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/todosync/internal/textdiff"
)

func build(t *testing.T, base, target string) []Patch {
	t.Helper()
	edits := textdiff.Compute(base, target, textdiff.DefaultOptions())
	edits = textdiff.Cleanup(edits, textdiff.CleanupOptions{Mode: textdiff.CleanupSemantic})
	require.NoError(t, textdiff.Validate(base, target, edits))
	return Make(base, edits, DefaultOptions())
}

func TestMakeEmpty(t *testing.T) {
	assert.Empty(t, Make("abc", nil, DefaultOptions()))
	assert.Empty(t, build(t, "abc", "abc"))
}

func TestMakeInsertAtStart(t *testing.T) {
	patches := build(t, "L1\nL2", "x L1\nL2")
	require.Len(t, patches, 1)

	p := patches[0]
	assert.Equal(t, []textdiff.Edit{
		{Op: textdiff.OpInsert, Text: "x "},
		{Op: textdiff.OpEqual, Text: "L1\nL2"},
	}, p.Edits)
	assert.Equal(t, 0, p.Start1)
	assert.Equal(t, 5, p.Length1)
	assert.Equal(t, 7, p.Length2)
	assert.Equal(t, 2, p.Delta())
}

func TestMakeAddsUniqueContext(t *testing.T) {
	base := "abcabcabcabc\nabcXabc"
	patches := build(t, base, "abcabcabcabc\nabcYabc")
	require.Len(t, patches, 1)

	before := patches[0].Before()
	assert.Equal(t, 1, strings.Count(base, before), "context %q should be unique in base", before)
}

func TestMakeSeparatesDistantChanges(t *testing.T) {
	base := "first task +alpha\nsecond task +beta\nthird task +gamma"
	target := "x first task +alpha\nsecond task +beta\nthird task +gamma @home"
	patches := build(t, base, target)
	assert.Len(t, patches, 2)
}

func TestApplyReproducesTarget(t *testing.T) {
	cases := []struct{ base, target string }{
		{"", "new file\n"},
		{"old file\n", ""},
		{"abc\ndef", "abc\nx def"},
		{"L1\nL2", "x L1\nL2"},
		{"fix spellnig\ndef", "x fix spellnig\nx def"},
		{"café\nnaïve", "café au lait\nnaïve ☕"},
		{
			"(A) Sell VTX +RetireEarly @Internet\nBuy energy-efficient bulbs +RetireEarly\nCall Mom +FamilialPeace @Phone",
			"x 2012-11-09 Sell VTX +RetireEarly @Internet\nx 2012-11-09 Buy energy-efficient bulbs +RetireEarly\nCall Mom +FamilialPeace @Phone\nFind a new job +RetireEarly",
		},
		{strings.Repeat("long line with lots of words in it\n", 5), "short\n"},
	}
	for _, tc := range cases {
		patches := build(t, tc.base, tc.target)
		res := Apply(patches, tc.base, DefaultOptions())
		assert.Equal(t, tc.target, res.Text)
		require.Len(t, res.Applied, len(patches))
		for i, ok := range res.Applied {
			assert.True(t, ok, "patch %d should apply to its own base", i)
		}
	}
}

func TestApplyNoPatches(t *testing.T) {
	res := Apply(nil, "remote", DefaultOptions())
	assert.Equal(t, "remote", res.Text)
	assert.Empty(t, res.Applied)
	assert.NotNil(t, res.Applied)
}

func TestApplyToDriftedText(t *testing.T) {
	patches := build(t, "L1\nL2", "x L1\nL2")
	res := Apply(patches, "L1\nL2 @home", DefaultOptions())
	assert.Equal(t, "x L1\nL2 @home", res.Text)
	assert.Equal(t, []bool{true}, res.Applied)
	assert.Equal(t, 1, res.AppliedCount())
}

func TestApplyShiftedOffset(t *testing.T) {
	base := "buy milk\ncall bob\nwater plants"
	patches := build(t, base, "buy milk\nx call bob\nwater plants")

	remote := "(A) new top task +urgent\nanother new one\nbuy milk\ncall bob\nwater plants"
	res := Apply(patches, remote, DefaultOptions())
	assert.Equal(t, "(A) new top task +urgent\nanother new one\nbuy milk\nx call bob\nwater plants", res.Text)
	assert.Equal(t, []bool{true}, res.Applied)
}

func TestApplySkipsUnplaceableHunk(t *testing.T) {
	patches := build(t, "alpha beta gamma delta", "alpha beta GAMMA delta")
	opts := DefaultOptions()
	opts.MatchThreshold = 0.1

	res := Apply(patches, "nothing in common here at all", opts)
	assert.Equal(t, "nothing in common here at all", res.Text)
	assert.Equal(t, []bool{false}, res.Applied)
	assert.Zero(t, res.AppliedCount())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	patches := build(t, "abc\ndef", "abc\nx def")
	snapshot := ToText(patches)
	_ = Apply(patches, "abc\ndef", DefaultOptions())
	assert.Equal(t, snapshot, ToText(patches))
}

func TestSplitMaxFragmentsLongHunks(t *testing.T) {
	base := strings.Repeat("0123456789", 10)
	target := "X" + base[1:50] + "Y" + base[51:]
	patches := build(t, base, target)

	frags := splitMax(clonePatches(patches), DefaultOptions())
	for _, f := range frags {
		if f.Length1 > DefaultOptions().MatchMaxBits {
			t.Errorf("fragment exceeds pattern budget: %d bytes", f.Length1)
		}
		assert.Less(t, f.origin, len(patches))
	}

	res := Apply(patches, base, DefaultOptions())
	assert.Equal(t, target, res.Text)
}

func TestSplitMaxLargeDeletion(t *testing.T) {
	base := "keep\n" + strings.Repeat("remove me please ", 10) + "\nkeep too"
	target := "keep\n\nkeep too"
	patches := build(t, base, target)

	res := Apply(patches, base, DefaultOptions())
	assert.Equal(t, target, res.Text)
	for _, ok := range res.Applied {
		assert.True(t, ok)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	o := Options{MatchDistance: 200, DeleteThreshold: 0.3}.withDefaults()
	assert.Equal(t, 4, o.Margin)
	assert.Equal(t, 32, o.MatchMaxBits)
	assert.Equal(t, 200, o.MatchDistance)
	assert.InDelta(t, 0.3, o.DeleteThreshold, 1e-9)
}
