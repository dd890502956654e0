// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edittree

import "sort"

// Progressed is one edited sequence carried forward to seed the next
// guide-tree level (spec.md §4.4).
type Progressed struct {
	Sequence    string
	Node        *Node
	Probability float64
	MFE         float64
}

// SelectProgressed ranks the tree's COMPLETE nodes by probability
// product, filters by cfg.ProbabilityThreshold and cfg.MinMFEToProgress,
// and returns at most cfg.SequencesToProgress survivors, highest
// probability first (spec.md §4.4's progression step).
func (t *Tree) SelectProgressed() []Progressed {
	cfg := t.Config

	var candidates []Progressed
	for _, n := range t.Nodes {
		if n.Type != Complete {
			continue
		}
		if n.ProbabilityProduct < cfg.ProbabilityThreshold {
			continue
		}
		if n.MFE >= cfg.MinMFEToProgress {
			continue
		}
		candidates = append(candidates, Progressed{
			Sequence:    n.Sequence,
			Node:        n,
			Probability: n.ProbabilityProduct,
			MFE:         n.MFE,
		})
	}

	// spec.md §4.6: probability_product desc, mfe asc, mismatches asc,
	// gIndex desc, edit_level asc.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.MFE != b.MFE {
			return a.MFE < b.MFE
		}
		if a.Node.Mismatches != b.Node.Mismatches {
			return a.Node.Mismatches < b.Node.Mismatches
		}
		if a.Node.GIndex != b.Node.GIndex {
			return a.Node.GIndex > b.Node.GIndex
		}
		return a.Node.EditLevel < b.Node.EditLevel
	})

	if len(candidates) > cfg.SequencesToProgress {
		candidates = candidates[:cfg.SequencesToProgress]
	}
	return candidates
}
