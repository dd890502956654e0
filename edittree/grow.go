// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edittree

import (
	"fmt"
	"strings"
)

// mergeCompatible reports whether two action logs, both ending in at
// least two actions, converge on the same state along suffixes the
// editing algorithm treats as interchangeable (spec.md §4.3): adjacent
// deletions, insertions, or an insert/pass pair taken in either order
// all reach the same edited sequence regardless of which happened
// first, so the two paths merge into one node instead of staying as
// duplicate siblings.
func mergeCompatible(logA, logB string) bool {
	suffix := func(s string) string {
		if len(s) < 2 {
			return s
		}
		return s[len(s)-2:]
	}
	a, b := suffix(logA), suffix(logB)
	const (
		dd = "DD"
		ip = "IP"
		pi = "PI"
		ii = "II"
		pp = "PP"
	)
	allowed := map[string]bool{dd: true, ip: true, pi: true, ii: true, pp: true}
	if !allowed[a] || !allowed[b] {
		return false
	}
	// IP and PI converge on the same state only with each other or
	// themselves; DD/II/PP only ever converge with themselves.
	if (a == ip || a == pi) && (b == ip || b == pi) {
		return true
	}
	return a == b
}

// pendingChild is a candidate node not yet committed to the tree,
// awaiting the merge-dedup pass across the whole growth frontier.
type pendingChild struct {
	parent *Node
	node   *Node
}

func (t *Tree) key(n *Node) string {
	return fmt.Sprintf("%d\x00%d\x00%s", n.MIndex, n.GIndex, n.Sequence)
}

// deleteRun consumes every consecutive U starting at mIndex, producing
// the single D-chain expansion step spec.md §4.3 describes: a run of
// deletable U's is collapsed into one child rather than one node per
// base, avoiding a purely linear blow-up of D-only nodes.
func deleteRun(messenger string, mIndex int) (newMIndex int, log string) {
	i := mIndex
	for i < len(messenger) && messenger[i] == 'u' {
		i++
	}
	return i, strings.Repeat("D", i-mIndex)
}

// candidates generates the legal child candidates of n, per spec.md
// §4.3's transition rules, without yet committing them to the tree.
func (t *Tree) candidates(n *Node) []*Node {
	mes := t.Messenger.Seq
	gd := t.Guide.Seq
	cfg := t.Config

	var out []*Node

	if n.MIndex < len(mes) && n.GIndex < len(gd) {
		m, g := mes[n.MIndex], gd[n.GIndex]
		mismatchDelta := 0
		if !isPair(m, g) {
			mismatchDelta = 1
		}
		mismatches := n.Mismatches + mismatchDelta
		if mismatches <= cfg.MismatchThresholdEditing {
			out = append(out, &Node{
				Action:     ActionPass,
				ActionLog:  n.ActionLog + "P",
				MIndex:     n.MIndex + 1,
				GIndex:     n.GIndex + 1,
				Mismatches: mismatches,
				Sequence:   n.Sequence + string(m),
			})
		}
	}

	if n.Action != ActionDelete && n.GIndex < len(gd) && n.MIndex < len(mes) && mes[n.MIndex] != 'u' {
		out = append(out, &Node{
			Action:     ActionInsert,
			ActionLog:  n.ActionLog + "I",
			MIndex:     n.MIndex,
			GIndex:     n.GIndex + 1,
			Mismatches: n.Mismatches,
			Sequence:   n.Sequence + "u",
		})
	}

	if n.Action != ActionInsert && n.MIndex < len(mes) && mes[n.MIndex] == 'u' {
		newMIndex, log := deleteRun(mes, n.MIndex)
		out = append(out, &Node{
			Action:     ActionDelete,
			ActionLog:  n.ActionLog + log,
			MIndex:     newMIndex,
			GIndex:     n.GIndex,
			Mismatches: n.Mismatches,
			Sequence:   n.Sequence,
		})
	}

	return out
}

// classify sets n.Type based on whether either index stream is
// exhausted and, if not, whether the tree can legally grow it further
// (spec.md §4.3): either cursor reaching the end of its sequence is
// independently sufficient to terminate a branch, since there is then
// nothing left on that side to pair, insert, or delete against.
func (t *Tree) classify(n *Node) {
	mes := t.Messenger.Seq
	gd := t.Guide.Seq
	if n.MIndex >= len(mes) || n.GIndex >= len(gd) {
		n.Type = Complete
		return
	}
	if len(t.candidates(n)) == 0 {
		n.Type = Leaf
		return
	}
	n.Type = Active
}

// Grow expands the tree breadth-first from the root until no ACTIVE
// nodes remain, merging siblings that converge on the same state
// (spec.md §4.3, §4.4). It does not score nodes; call Score
// afterwards.
func (t *Tree) Grow() {
	t.classify(t.Root())

	frontier := []int{0}
	for len(frontier) > 0 {
		seen := make(map[string]int) // state key -> committed node ID, this round
		var pending []pendingChild
		var nextFrontier []int

		for _, id := range frontier {
			n := t.Nodes[id]
			if n.Type != Active {
				continue
			}
			for _, c := range t.candidates(n) {
				pending = append(pending, pendingChild{parent: n, node: c})
			}
		}

		for _, p := range pending {
			key := t.key(p.node)
			if existingID, ok := seen[key]; ok {
				existing := t.Nodes[existingID]
				if mergeCompatible(existing.ActionLog, p.node.ActionLog) {
					existing.MergeParents = append(existing.MergeParents, p.parent.ID)
					p.parent.Children = append(p.parent.Children, existing.ID)
					existing.Type = Merged
					continue
				}
			}
			committed := t.addChild(p.parent, p.node)
			seen[key] = committed.ID
			t.classify(committed)
			if committed.Type == Active {
				nextFrontier = append(nextFrontier, committed.ID)
			}
		}

		frontier = nextFrontier
	}
}
