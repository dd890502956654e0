// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dock implements the docking engine (spec.md §4.2): anchor
// alignment of a guide RNA pool against a messenger transcript,
// MFE-based ranking and filtering, and gIndex determination, the
// starting editing base for a guide once it has been selected.
//
// This is a direct port of original_source/minicircle_editing/docking.py.
package dock

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/sequence"
)

// Duplex is the docking engine's output: a guide anchored at a
// position on the messenger, ready to seed an edit tree (spec.md §3).
type Duplex struct {
	GuideName string
	DockIndex int
	Messenger sequence.Sequence
	GIndex    int
}

// baseCode maps a lowercase RNA base to the integer encoding used for
// complementary-pair detection: complementary bases differ by exactly
// 1 modulo 10 (spec.md §4.2.1).
func baseCode(b byte) int {
	switch b {
	case 'g':
		return 1
	case 'c':
		return 2
	case 'a':
		return 11
	case 'u':
		return 12
	default:
		return -100 // never complements anything
	}
}

func splitConvert(seq string) []int {
	codes := make([]int, len(seq))
	for i := 0; i < len(seq); i++ {
		codes[i] = baseCode(seq[i])
	}
	return codes
}

func complementary(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d%10 == 1
}

// alignGuide computes, for each candidate dock position (index into
// messenger), the longest feasible anchor length (0-based row index
// into the cumulative-mismatch matrix, i.e. anchorLength-1) of the
// guide's anchor prefix at that position, within mismatchThreshold
// mismatches. This implements the shift-and-cumulative-sum matrix
// construction of spec.md §4.2.1 directly (rather than building the
// shifted matrix and reading it back out, which is mathematically
// identical but indirect): matrix.At(i, j) after the row-i left-shift
// by i equals the original compatibility of guide[i] against
// messenger[j+i], so accumulating down column j from row 0 to row k
// gives exactly the mismatch count spec.md §4.2.1 describes for
// anchoring the guide's first k+1 bases at messenger position j.
func alignGuide(messenger, guideAnchor []int, mismatchThreshold int) map[int]int {
	guideLen := len(guideAnchor)
	mesLen := len(messenger)
	if guideLen == 0 || mesLen == 0 {
		return map[int]int{}
	}

	shifted := mat.NewDense(guideLen, mesLen, nil)
	for i := 0; i < guideLen; i++ {
		for j := 0; j < mesLen; j++ {
			src := j + i
			if src < mesLen && complementary(guideAnchor[i], messenger[src]) {
				shifted.Set(i, j, 0)
			} else {
				// either a real mismatch, or the sentinel padding
				// introduced by the left shift running off the end of
				// the row: both force a mismatch contribution.
				shifted.Set(i, j, 1)
			}
		}
	}

	best := make(map[int]int)
	col := make([]float64, guideLen)
	for j := 0; j < mesLen; j++ {
		for i := 0; i < guideLen; i++ {
			col[i] = shifted.At(i, j)
		}
		floats.CumSum(col, col)
		for i := 0; i < guideLen; i++ {
			if col[i] <= float64(mismatchThreshold) {
				best[j] = i
			}
		}
	}
	return best
}

// AlignAll aligns every guide in pool (other than those named in
// excluded) against transcript and returns, per guide, a map from dock
// index to the longest feasible anchor found at that position, given as
// anchor length minus one (spec.md §4.2.1's alignAll operation).
func AlignAll(transcript string, pool map[string]sequence.Sequence, order []string, excluded map[string]bool, cfg config.Config) map[string]map[int]int {
	mes := splitConvert(transcript)

	out := make(map[string]map[int]int, len(order))
	for _, name := range order {
		if excluded[name] {
			continue
		}
		g, ok := pool[name]
		if !ok {
			continue
		}
		anchorLen := cfg.MaxAnchor
		if anchorLen > g.Length {
			anchorLen = g.Length
		}
		guideAnchor := splitConvert(g.Seq[:anchorLen])
		out[name] = alignGuide(mes, guideAnchor, cfg.MismatchThresholdAnchor)
	}
	return out
}

// candidate is one (guide, dock) anchor survivor prior to MFE scoring.
type candidate struct {
	GuideName string
	DockIndex int
	AnchorLen int
}

// topAnchors flattens the per-guide alignment maps, keeps every
// candidate whose anchor length is at least the guidesToCofold-th
// largest anchor length overall (ties included), and returns them
// ordered by descending anchor length, guide order as the tiebreak
// (spec.md §4.2.1's ranking step).
func topAnchors(aligned map[string]map[int]int, order []string, guidesToCofold int) []candidate {
	var all []candidate
	for _, name := range order {
		docks, ok := aligned[name]
		if !ok {
			continue
		}
		for dock, anchorIdx := range docks {
			all = append(all, candidate{GuideName: name, DockIndex: dock, AnchorLen: anchorIdx + 1})
		}
	}
	if len(all) == 0 {
		return nil
	}

	lengths := make([]int, len(all))
	for i, c := range all {
		lengths[i] = c.AnchorLen
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	k := guidesToCofold - 1
	if k >= len(lengths) {
		k = len(lengths) - 1
	}
	threshold := lengths[k]

	orderIndex := make(map[string]int, len(order))
	for i, n := range order {
		orderIndex[n] = i
	}

	var survivors []candidate
	for _, c := range all {
		if c.AnchorLen >= threshold {
			survivors = append(survivors, c)
		}
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].AnchorLen != survivors[j].AnchorLen {
			return survivors[i].AnchorLen > survivors[j].AnchorLen
		}
		return orderIndex[survivors[i].GuideName] < orderIndex[survivors[j].GuideName]
	})
	return survivors
}

// phi is the standard normal CDF, used for position-bias normalization
// (spec.md §4.2.2), computed with gonum/stat/distuv rather than a
// hand-rolled erf approximation.
func phi(z float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.CDF(z)
}

// normalize applies spec.md §4.2.2's position-biased normalization:
// adjustedMFE = mfe * 2*(1 - Φ(|dock-currentMIndex|/(2*editingWindow))).
func normalize(mfe float64, dock, currentMIndex, editingWindow int) float64 {
	z := math.Abs(float64(dock-currentMIndex)) / float64(2*editingWindow)
	factor := 2 * (1 - phi(z))
	return mfe * factor
}

// scored is a (guide, dock) candidate after MFE evaluation.
type scored struct {
	GuideName    string
	DockIndex    int
	MFE          float64
	AdjustedMFE  float64
}

// shouldNormalize reports whether position-bias normalization applies
// for the given docking mode and call context (initial round or not),
// per spec.md §4.2.2 and §9(a): NoWeighting never normalizes.
func shouldNormalize(mode config.DockingMode, initial bool) bool {
	switch mode {
	case config.NoWeighting:
		return false
	case config.Initiation:
		return initial
	case config.CurrentSite:
		return !initial
	case config.InitiationAndCurrent:
		return true
	default:
		return false
	}
}

func sortCandidates(cands []scored, mode config.DockingMode, initial bool, currentMIndex, editingWindow int) []scored {
	if shouldNormalize(mode, initial) {
		for i := range cands {
			cands[i].AdjustedMFE = normalize(cands[i].MFE, cands[i].DockIndex, currentMIndex, editingWindow)
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].AdjustedMFE < cands[j].AdjustedMFE })
		return cands
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].MFE < cands[j].MFE })
	return cands
}

// GIndex scans base pairs from dock forward counting mismatches
// against the Watson-Crick+wobble pairing set, stopping once
// mismatches reach mismatchThreshold, and returns the starting editing
// base (spec.md §4.2.3). It returns ok=false if the candidate must be
// discarded (too few guide bases remain before the guide's end).
func GIndex(transcript, guide string, mIndex int, cfg config.Config) (idx int, ok bool) {
	matchSet := map[[2]byte]bool{
		{'g', 'c'}: true, {'c', 'g'}: true,
		{'a', 'u'}: true, {'u', 'a'}: true,
		{'g', 'u'}: true, {'u', 'g'}: true,
	}

	anchorLength := 0
	mismatches := 0
	consecutiveMismatches := 0

	end := mIndex + len(guide)
	if end > len(transcript) {
		end = len(transcript)
	}
	n := end - mIndex
	if n > len(guide) {
		n = len(guide)
	}

	for i := 0; i < n; i++ {
		m := transcript[mIndex+i]
		g := guide[i]
		if matchSet[[2]byte{m, g}] {
			consecutiveMismatches = 0
		} else {
			mismatches++
			consecutiveMismatches++
		}
		anchorLength++
		if mismatches == cfg.MismatchThresholdAnchor {
			break
		}
	}

	gIdx := anchorLength - consecutiveMismatches
	if gIdx+cfg.GuideEndAllowance >= len(guide) {
		return 0, false
	}
	return gIdx, true
}

// CofoldString builds the string to send to the folding oracle,
// following cfg.CofoldMode (spec.md §4.2.2). dockIdx is the messenger
// position the guide's first base aligns to; gIndex, if non-negative,
// is the current editing cursor into the guide: pass -1 when no
// gIndex context is available (initial docking), in which case a
// cfg.ProportionToDock-sized guide prefix is used instead.
func CofoldString(messenger, guide string, dockIdx, gIndex int, cfg config.Config) string {
	halfWindow := cfg.EditingWindow / 2

	var guideTrimmed, mrnaTrimmed string
	haveGIndex := gIndex >= 0

	if haveGIndex {
		guideIndex := gIndex
		if guideIndex > len(guide)-1 {
			guideIndex = len(guide) - 1
		}
		switch cfg.CofoldMode {
		case config.WholeGuide:
			guideTrimmed = guide
		case config.ToIndex:
			guideTrimmed = guide[:guideIndex+1]
		case config.ToIndexPlus:
			upper := guideIndex + 1 + cfg.EditingWindow
			if upper > len(guide) {
				upper = len(guide)
			}
			guideTrimmed = guide[:upper]
		case config.EditingWindow:
			idxLower := guideIndex + 1 - halfWindow
			if idxLower < 0 {
				idxLower = 0
			}
			idxUpper := guideIndex + halfWindow
			if idxUpper > len(guide) {
				idxUpper = len(guide)
			}
			if idxUpper < idxLower {
				idxUpper = idxLower
			}
			guideTrimmed = guide[idxLower:idxUpper]

			mLower := dockIdx + gIndex + 1 - halfWindow
			if mLower < 0 {
				mLower = 0
			}
			mUpper := dockIdx + gIndex + halfWindow
			if mUpper > len(messenger) {
				mUpper = len(messenger)
			}
			if mUpper < mLower {
				mUpper = mLower
			}
			mrnaTrimmed = messenger[mLower:mUpper]
		}
	} else {
		trimmedIndex := int(float64(len(guide)) * cfg.ProportionToDock)
		if trimmedIndex > len(guide) {
			trimmedIndex = len(guide)
		}
		guideTrimmed = guide[:trimmedIndex]
	}

	if !haveGIndex || cfg.CofoldMode != config.EditingWindow {
		lower := dockIdx
		if lower < 0 {
			lower = 0
		}
		upper := lower + len(guideTrimmed)
		if upper > len(messenger) {
			upper = len(messenger)
		}
		if upper < lower {
			upper = lower
		}
		mrnaTrimmed = messenger[lower:upper]
	}

	mrnaTrimmed = reverseString(mrnaTrimmed)
	return mrnaTrimmed + "&" + guideTrimmed
}

func reverseString(s string) string {
	r := []byte(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func excludedSet(excluded []string) map[string]bool {
	m := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		m[e] = true
	}
	return m
}

// ExcludedGuides determines which guides to exclude from docking based
// on cfg.PreviousGRNAExclusion and the path of guides already used
// (spec.md §4.2.3's get_excluded_guides).
func ExcludedGuides(previousGuides []string, cfg config.Config) []string {
	if len(previousGuides) == 0 {
		return nil
	}
	switch cfg.PreviousGRNAExclusion {
	case config.ExcludeAll:
		return previousGuides
	case config.ExcludeOne:
		return []string{previousGuides[len(previousGuides)-1]}
	default:
		return nil
	}
}

// SelectGuides performs the full docking operation (spec.md §4.2):
// anchor alignment, MFE scoring via oracle, normalization/sorting,
// filtering, and gIndex determination, returning up to the configured
// number of Duplex candidates with at most one dock per guide.
func SelectGuides(
	messenger sequence.Sequence,
	pool map[string]sequence.Sequence,
	order []string,
	previousGuides []string,
	currentMIndex int,
	initial bool,
	oracle fold.Oracle,
	cfg config.Config,
) ([]Duplex, error) {
	if previousGuides != nil && len(pool) == len(previousGuides) {
		return nil, nil
	}

	excluded := excludedSet(ExcludedGuides(previousGuides, cfg))
	aligned := AlignAll(messenger.Seq, pool, order, excluded, cfg)
	anchors := topAnchors(aligned, order, cfg.GuidesToCofold)
	if len(anchors) == 0 {
		return nil, nil
	}

	cofoldStrings := make([]string, len(anchors))
	for i, c := range anchors {
		g := pool[c.GuideName]
		cofoldStrings[i] = CofoldString(messenger.Seq, g.Seq, c.DockIndex, -1, cfg)
	}
	results, err := oracle.CofoldBatch(cofoldStrings)
	if err != nil {
		return nil, err
	}

	cands := make([]scored, len(anchors))
	for i, c := range anchors {
		cands[i] = scored{GuideName: c.GuideName, DockIndex: c.DockIndex, MFE: results[i].MFE}
	}
	cands = sortCandidates(cands, cfg.DockingMode, initial, currentMIndex, cfg.EditingWindow)

	var filtered []scored
	for _, c := range cands {
		if c.MFE < cfg.MinimumMFE {
			filtered = append(filtered, c)
		}
	}

	numGuides := cfg.MaxNoGRNAsSubsequent
	if initial {
		numGuides = cfg.NoOfGRNAsFirst
	}

	usedGuides := make(map[string]bool)
	var out []Duplex
	for _, c := range filtered {
		if len(out) == numGuides {
			break
		}
		if usedGuides[c.GuideName] {
			continue
		}
		g := pool[c.GuideName]
		gIdx, ok := GIndex(messenger.Seq, g.Seq, c.DockIndex, cfg)
		if !ok {
			continue
		}
		if gIdx < cfg.MinAnchor {
			continue
		}
		usedGuides[c.GuideName] = true
		out = append(out, Duplex{
			GuideName: c.GuideName,
			DockIndex: c.DockIndex,
			Messenger: messenger,
			GIndex:    gIdx,
		})
	}
	return out, nil
}
