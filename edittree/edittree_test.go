// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edittree

import (
	"testing"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/sequence"
)

func TestGrowTrivialPassOnly(t *testing.T) {
	// Canonical views: messenger.Seq = "gcau", guide.Seq = "cgua" pair
	// base-for-base (g-c, c-g, a-u, u-a), so an unbroken run of passes
	// reaches COMPLETE with both cursors exhausted together.
	messenger := sequence.New("m", "uacg", true, sequence.Messenger)
	guide := sequence.New("g1", "cgua", true, sequence.Guide)

	cfg := config.Default()
	cfg.MismatchThresholdEditing = 0
	cfg.BulkCofold = true

	et := New("g1", 0, guide, messenger, 0, cfg)
	et.Grow()

	if err := et.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Insert and delete legality are keyed off the messenger's own
	// cursor base, not the guide's: the leading 'g' is not U, so an
	// insertion is legal at the root too, and the trailing 'u' later
	// in the walk makes a deletion legal there. So the all-pass path is
	// not the tree's only COMPLETE branch; it is the one this test pins.
	var c *Node
	for _, n := range et.Nodes {
		if n.Type == Complete && n.ActionLog == "RPPPP" {
			c = n
			break
		}
	}
	if c == nil {
		t.Fatal("no COMPLETE node with the all-pass action log \"RPPPP\"")
	}
	if c.Mismatches != 0 {
		t.Fatalf("Mismatches = %d, want 0", c.Mismatches)
	}
	if c.Sequence != "gcau" {
		t.Fatalf("Sequence = %q, want %q", c.Sequence, "gcau")
	}

	stub := fold.NewStub(-5)
	if err := et.Score(stub); err != nil {
		t.Fatalf("Score: %v", err)
	}
	et.PropagateMaxDownstream()
	// The stub oracle folds every cofold string to the same MFE, so every
	// terminal sits at the cohort minimum and gets the unnormalized
	// Boltzmann weight 1; weights are not divided among the terminals.
	if c.ProbabilityProduct <= 0 || c.ProbabilityProduct > 1 {
		t.Fatalf("ProbabilityProduct = %v, want a value in (0, 1]", c.ProbabilityProduct)
	}
}

func TestGrowInsertion(t *testing.T) {
	// guide.Seq = "acgua": the leading 'a' has no messenger counterpart
	// and forces an insertion before the rest lines up exactly as in
	// TestGrowTrivialPassOnly.
	messenger := sequence.New("m", "uacg", true, sequence.Messenger)
	guide := sequence.New("g1", "acgua", true, sequence.Guide)

	cfg := config.Default()
	cfg.MismatchThresholdEditing = 0
	cfg.BulkCofold = true

	et := New("g1", 0, guide, messenger, 0, cfg)
	et.Grow()

	// Reaching the end of either the messenger or the guide independently
	// completes a branch (spec.md §4.3), so more than one COMPLETE node is
	// expected here: for example "RIPPPD", which deletes the messenger's
	// trailing 'u' and stops with the guide's last base unused, and
	// "RIPPPP", which passes that 'u' after the leading insertion and
	// exhausts both cursors together. Only the latter reaches the full
	// edited sequence.
	var found *Node
	for _, n := range et.Nodes {
		if n.Type == Complete && n.Sequence == "ugcau" {
			found = n
			break
		}
	}
	if found == nil {
		t.Fatal("no COMPLETE node reached the full edited sequence \"ugcau\"")
	}
	if found.Mismatches != 0 {
		t.Fatalf("Mismatches = %d, want 0", found.Mismatches)
	}
	foundInsert := false
	for i := 0; i < len(found.ActionLog); i++ {
		if found.ActionLog[i] == byte(ActionInsert) {
			foundInsert = true
		}
	}
	if !foundInsert {
		t.Fatalf("ActionLog %q never inserts", found.ActionLog)
	}
}

func TestGrowLeafOnMismatchBudget(t *testing.T) {
	// messenger.Seq = "ug": the root's leading 'u' makes deletion legal
	// (insertion is only legal on a non-U cursor base, so it is not, and
	// pass also survives here since 'u' pairs with the guide's leading
	// 'a'). The deletion branch is what matters: it consumes the 'u' and
	// lands the cursor on 'g', which cannot pair with that same guide
	// base, so pass is blocked there by the zero mismatch budget; and
	// insertion is forbidden immediately after a delete while deletion
	// itself requires a U cursor base, which 'g' is not. That node has
	// no legal child at all and must be classified LEAF.
	messenger := sequence.New("m", "gu", true, sequence.Messenger)
	guide := sequence.New("g1", "ac", true, sequence.Guide)

	cfg := config.Default()
	cfg.MismatchThresholdEditing = 0
	cfg.BulkCofold = true

	et := New("g1", 0, guide, messenger, 0, cfg)
	et.Grow()

	var leaf *Node
	for _, n := range et.Nodes {
		if n.Type == Leaf {
			leaf = n
			break
		}
	}
	if leaf == nil {
		t.Fatal("no LEAF node reached")
	}
	if leaf.Action != ActionDelete {
		t.Fatalf("leaf Action = %q, want %q", leaf.Action, ActionDelete)
	}
	if got := et.candidates(leaf); len(got) != 0 {
		t.Fatalf("leaf has %d candidates, want 0", len(got))
	}
}

func TestMergeCompatibleSuffixes(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"RPDD", "RIDD", true},
		{"RPIP", "RPPI", true},
		{"RPII", "RDII", true},
		{"RPPP", "RIPP", true},
		{"RPI", "RPD", false},
		{"R", "RP", false},
	}
	for _, c := range cases {
		if got := mergeCompatible(c.a, c.b); got != c.want {
			t.Errorf("mergeCompatible(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestDeleteRunChainsConsecutiveU(t *testing.T) {
	newMIndex, log := deleteRun("uuugca", 0)
	if newMIndex != 3 {
		t.Fatalf("newMIndex = %d, want 3", newMIndex)
	}
	if log != "DDD" {
		t.Fatalf("log = %q, want %q", log, "DDD")
	}
}

func TestSelectProgressedRanksAndCaps(t *testing.T) {
	cfg := config.Default()
	cfg.ProbabilityThreshold = 0
	cfg.MinMFEToProgress = -7
	cfg.SequencesToProgress = 2

	et := &Tree{Config: cfg}
	mk := func(seq string, mfe, prob float64) *Node {
		return &Node{Type: Complete, Sequence: seq, MFE: mfe, ProbabilityProduct: prob}
	}
	et.Nodes = []*Node{
		mk("a", -10, 0.9),
		mk("b", -8, 0.1),
		mk("c", -5, 0.5), // excluded: MFE not below MinMFEToProgress
	}

	got := et.SelectProgressed()
	if len(got) != 2 {
		t.Fatalf("got %d progressed sequences, want 2", len(got))
	}
	if got[0].MFE != -10 || got[1].MFE != -8 {
		t.Fatalf("progressed MFEs = [%v, %v], want [-10, -8]", got[0].MFE, got[1].MFE)
	}
}
