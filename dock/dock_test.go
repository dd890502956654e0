// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dock

import (
	"testing"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/sequence"
)

func TestAlignGuidePerfectMatch(t *testing.T) {
	// messenger and guide are fully complementary base-for-base, so
	// the maximal anchor length should be feasible at dock position 0.
	mes := splitConvert("gcau")
	guide := splitConvert("cgua")

	best := alignGuide(mes, guide, 0)
	if got, want := best[0], 3; got != want {
		t.Fatalf("best[0] = %d, want %d (anchor length 4)", got, want)
	}
}

func TestAlignGuideMismatchBudget(t *testing.T) {
	// A single mismatch at position 1 should still be tolerated with a
	// budget of one, so dock position 0 stays feasible (the cumulative
	// mismatch count never exceeds one, so even the full length 4 is).
	mes := splitConvert("gcau")
	guide := splitConvert("ccua") // position 1: c vs c, mismatch

	best := alignGuide(mes, guide, 1)
	if _, ok := best[0]; !ok {
		t.Fatalf("expected dock position 0 to be feasible")
	}
}

func TestGIndexStopsAtMismatchThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.MismatchThresholdAnchor = 1
	cfg.GuideEndAllowance = 0

	// transcript and guide pair for the first three bases, then
	// mismatch; with a threshold of one mismatch GIndex should land
	// just before the point the mismatch run begins to bite.
	transcript := "gcaaaaaaaaaaaaaaaaaaaa"
	guide := "cguggggggggggggggggggg"

	idx, ok := GIndex(transcript, guide, 0, cfg)
	if !ok {
		t.Fatal("expected a valid gIndex")
	}
	if idx < 0 || idx > len(guide) {
		t.Fatalf("gIndex %d out of range", idx)
	}
}

func TestCofoldStringWholeGuide(t *testing.T) {
	cfg := config.Default()
	cfg.CofoldMode = config.WholeGuide

	messenger := "gcaugcaugcau"
	guide := "cguacgua"
	got := CofoldString(messenger, guide, 0, 3, cfg)
	want := reverseString(messenger[:len(guide)]) + "&" + guide
	if got != want {
		t.Fatalf("CofoldString = %q, want %q", got, want)
	}
}

func TestCofoldStringIncludesFinalBase(t *testing.T) {
	// spec.md §9(c): gIndex on the guide's last base must not be
	// silently dropped by the TO_INDEX / TO_INDEX_PLUS slice bound.
	cfg := config.Default()
	messenger := "gcaugcaugcau"
	guide := "cguacgua"
	lastIdx := len(guide) - 1

	cfg.CofoldMode = config.ToIndex
	got := CofoldString(messenger, guide, 0, lastIdx, cfg)
	want := reverseString(messenger[:len(guide)]) + "&" + guide
	if got != want {
		t.Fatalf("ToIndex at last gIndex = %q, want %q (guide truncated)", got, want)
	}

	cfg.CofoldMode = config.ToIndexPlus
	got = CofoldString(messenger, guide, 0, lastIdx, cfg)
	want = reverseString(messenger[:len(guide)]) + "&" + guide
	if got != want {
		t.Fatalf("ToIndexPlus at last gIndex = %q, want %q (guide truncated)", got, want)
	}
}

func TestSelectGuidesExcludesAllGuidesWhenExhausted(t *testing.T) {
	messenger := sequence.New("m", "uacg", true, sequence.Messenger)
	guide := sequence.New("g1", "cgua", true, sequence.Guide)
	pool := map[string]sequence.Sequence{"g1": guide}

	cfg := config.Default()
	out, err := SelectGuides(messenger, pool, []string{"g1"}, []string{"g1"}, 0, false, fold.NewStub(-5), cfg)
	if err != nil {
		t.Fatalf("SelectGuides: %v", err)
	}
	if out != nil {
		t.Fatalf("expected no duplexes once every guide has been used, got %d", len(out))
	}
}
