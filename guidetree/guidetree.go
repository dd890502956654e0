// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package guidetree implements the guide-tree engine (spec.md §4.4,
// §4.7): it repeatedly docks guides against the frontier of partially
// edited transcripts, grows and scores an edit tree per docked
// duplex, and carries the surviving edited sequences forward as the
// next frontier, until either the transcript is exhausted or the
// MAX_GUIDE_LEVELS frontier cap is hit. Identical edited sequences
// reached by different guide paths share a single downstream node,
// making the result a DAG of GuideNodes rather than a tree.
package guidetree

import (
	"fmt"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/dock"
	"github.com/schnauferlab/grnaedit/edittree"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/sequence"
)

// Node is one vertex in the guide-tree DAG: a messenger state reached
// after zero or more guide applications.
type Node struct {
	ID         int
	Parents    []int
	Children   []int
	GuideName  string // guide applied to reach this node; empty at the root
	DockIndex  int
	GIndex     int
	Level      int
	Sequence   sequence.Sequence
	PathGuides []string // guides used along the path that first reached this node

	// ErrorsAccumulated totals the mismatches absorbed by every edit
	// tree along the path that first reached this node: a QC signal
	// ported from original_source/guide_node.py's total_errors field,
	// absent from the distilled spec but useful to keep (spec.md's
	// supplemented-feature allowance).
	ErrorsAccumulated int
}

// editKey identifies one (guide, dock position, input state) edit-tree
// computation for memoization.
type editKey struct {
	guideName    string
	dockIndex    int
	initSequence string
	initGIndex   int
}

// Tree is the full guide-tree DAG grown from one messenger transcript.
type Tree struct {
	Nodes []*Node

	Pool   map[string]sequence.Sequence
	Order  []string
	Config config.Config
	Oracle fold.Oracle

	editCache  map[editKey][]edittree.Progressed
	childCache map[string]int // edited sequence canonical view -> node ID

	// CacheHits counts edit-tree memo hits, a growth-efficiency signal.
	CacheHits int

	// OnEditTree, if set, is called once for every freshly grown (i.e.
	// not memo-cache-hit) edit tree, in case the caller wants to
	// persist a per-duplex report (spec.md §6).
	OnEditTree func(t *edittree.Tree)
}

// New creates a Tree rooted at messenger, unedited.
func New(messenger sequence.Sequence, pool map[string]sequence.Sequence, order []string, cfg config.Config, oracle fold.Oracle) *Tree {
	t := &Tree{
		Pool:       pool,
		Order:      order,
		Config:     cfg,
		Oracle:     oracle,
		editCache:  make(map[editKey][]edittree.Progressed),
		childCache: make(map[string]int),
	}
	root := &Node{ID: 0, DockIndex: 0, GIndex: 0, Level: 0, Sequence: messenger}
	t.Nodes = append(t.Nodes, root)
	return t
}

// Grow runs the iterative guide-application loop until the frontier is
// empty or config.MaxGuideLevels is reached (spec.md §4.7).
func (t *Tree) Grow() error {
	frontier := []int{0}

	for level := 0; level < config.MaxGuideLevels && len(frontier) > 0; level++ {
		initial := level == 0
		seenThisLevel := make(map[int]bool)
		var next []int

		for _, id := range frontier {
			node := t.Nodes[id]
			currentMIndex := node.DockIndex + node.GIndex

			duplexes, err := dock.SelectGuides(node.Sequence, t.Pool, t.Order, node.PathGuides, currentMIndex, initial, t.Oracle, t.Config)
			if err != nil {
				return fmt.Errorf("guidetree: level %d: %w", level, err)
			}

			// spec.md §4.7: beyond the initial round, always try the
			// first min_no_grnas_subsequent guides; keep trying further
			// guides (up to max_no_grnas_subsequent) only as long as
			// none of them has produced a progressed sequence yet.
			anyProgressed := false
			for gi, d := range duplexes {
				if !initial && gi >= t.Config.MinNoGRNAsSubsequent &&
					(gi >= t.Config.MaxNoGRNAsSubsequent || anyProgressed) {
					break
				}

				progressed, err := t.editAndScore(d)
				if err != nil {
					return fmt.Errorf("guidetree: %s/%d: %w", d.GuideName, d.DockIndex, err)
				}
				if len(progressed) > 0 {
					anyProgressed = true
				}
				for _, p := range progressed {
					childID := t.linkChild(node, d, p, level+1)
					if !seenThisLevel[childID] {
						seenThisLevel[childID] = true
						next = append(next, childID)
					}
				}
			}
		}

		frontier = next
	}
	return nil
}

func (t *Tree) editAndScore(d dock.Duplex) ([]edittree.Progressed, error) {
	guide := t.Pool[d.GuideName]
	key := editKey{
		guideName:    d.GuideName,
		dockIndex:    d.DockIndex,
		initSequence: d.Messenger.Seq,
		initGIndex:   d.GIndex,
	}
	if cached, ok := t.editCache[key]; ok {
		t.CacheHits++
		return cached, nil
	}

	et := edittree.New(d.GuideName, d.DockIndex, guide, d.Messenger, d.GIndex, t.Config)
	et.Grow()
	if err := et.Score(t.Oracle); err != nil {
		return nil, err
	}
	et.PropagateMaxDownstream()
	if err := et.Validate(); err != nil {
		return nil, err
	}

	if t.OnEditTree != nil {
		t.OnEditTree(et)
	}

	progressed := et.SelectProgressed()
	t.editCache[key] = progressed
	return progressed, nil
}

// linkChild attaches the edited sequence p to node's children, reusing
// an existing GuideNode for that exact edited sequence if the frontier
// has already reached it by another path (spec.md §4.4's DAG sharing).
func (t *Tree) linkChild(parent *Node, d dock.Duplex, p edittree.Progressed, level int) int {
	full := parent.Sequence.Seq[:d.DockIndex] + p.Sequence + parent.Sequence.Seq[p.Node.MIndex:]
	edited := sequence.New(parent.Sequence.Name, full, false, sequence.Messenger)
	key := edited.Seq

	if existingID, ok := t.childCache[key]; ok {
		existing := t.Nodes[existingID]
		if !hasInt(existing.Parents, parent.ID) {
			existing.Parents = append(existing.Parents, parent.ID)
		}
		if !hasInt(parent.Children, existingID) {
			parent.Children = append(parent.Children, existingID)
		}
		return existingID
	}

	pathGuides := make([]string, len(parent.PathGuides)+1)
	copy(pathGuides, parent.PathGuides)
	pathGuides[len(parent.PathGuides)] = d.GuideName

	child := &Node{
		ID:                len(t.Nodes),
		Parents:           []int{parent.ID},
		GuideName:         d.GuideName,
		DockIndex:         d.DockIndex,
		GIndex:            p.Node.GIndex,
		Level:             level,
		Sequence:          edited,
		PathGuides:        pathGuides,
		ErrorsAccumulated: parent.ErrorsAccumulated + p.Node.Mismatches,
	}
	t.Nodes = append(t.Nodes, child)
	t.childCache[key] = child.ID
	parent.Children = append(parent.Children, child.ID)
	return child.ID
}

func hasInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Leaves returns every node with no children: the frontier of fully
// progressed edited transcripts at the point growth stopped.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	for _, n := range t.Nodes {
		if len(n.Children) == 0 {
			out = append(out, n)
		}
	}
	return out
}
