// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edittree implements the edit-tree engine (spec.md §4.3,
// §4.4): given a single docked guide/messenger duplex, it grows the
// DAG of editing decisions (pass/insert/delete) that could transform
// the messenger toward full complementarity with the guide, merges
// decision paths that converge on the same edited sequence, and scores
// each path's relative likelihood from folding free energy.
package edittree

import (
	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/sequence"
)

// Action is a single editing decision taken at one tree node.
type Action byte

const (
	// ActionRoot marks the tree's root; it is not a real edit.
	ActionRoot Action = 'R'
	// ActionPass carries the current messenger base forward unedited
	// (or, within the mismatch budget, forward despite a mismatch).
	ActionPass Action = 'P'
	// ActionInsert inserts a U base not present in the messenger.
	ActionInsert Action = 'I'
	// ActionDelete removes a U base present in the messenger.
	ActionDelete Action = 'D'
)

// NodeType is the state-machine label of spec.md §4.3.
type NodeType int

const (
	Root NodeType = iota
	Active
	Leaf
	Complete
	Merged
)

func (t NodeType) String() string {
	switch t {
	case Root:
		return "ROOT"
	case Active:
		return "ACTIVE"
	case Leaf:
		return "LEAF"
	case Complete:
		return "COMPLETE"
	case Merged:
		return "MERGED"
	default:
		return "UNKNOWN"
	}
}

// Node is one vertex of an edit tree. Nodes are stored densely in
// Tree.Nodes and referenced by index so that the whole tree is a
// single slice with no pointer-graph allocation per node.
type Node struct {
	ID     int
	Parent int // -1 for the root
	// MergeParents holds additional parents once two decision paths
	// converge on the same (MIndex, GIndex, Sequence) state and are
	// merged into a single node (spec.md §4.3's MERGED state).
	MergeParents []int
	Children     []int

	Action    Action
	ActionLog string // concatenation of every Action from the root, inclusive
	EditLevel int     // depth from root; root is 0

	MIndex int // next unconsumed messenger base
	GIndex int // next unconsumed guide base

	Mismatches int
	Sequence   string // edited messenger bases, in Messenger.Seq traversal order (3'->5')

	Type NodeType

	MFE                      float64
	Probability              float64 // conditional on reaching Parent
	ProbabilityProduct       float64 // cumulative along the path from root
	MaxDownstreamProbability float64
}

// IsTerminal reports whether n can never gain children.
func (n *Node) IsTerminal() bool {
	return n.Type == Leaf || n.Type == Complete || n.Type == Merged
}

// Tree is the full edit tree grown from a single docked duplex.
type Tree struct {
	GuideName string
	DockIndex int
	Guide     sequence.Sequence
	Messenger sequence.Sequence
	Config    config.Config

	Nodes []*Node
}

// New creates the tree's root node at the docked position, per
// spec.md §4.3's tree-initialization step.
func New(guideName string, dockIndex int, guide, messenger sequence.Sequence, gIndex int, cfg config.Config) *Tree {
	t := &Tree{
		GuideName: guideName,
		DockIndex: dockIndex,
		Guide:     guide,
		Messenger: messenger,
		Config:    cfg,
	}
	root := &Node{
		ID:                 0,
		Parent:             -1,
		Action:             ActionRoot,
		ActionLog:          "R",
		MIndex:             dockIndex,
		GIndex:             gIndex,
		Sequence:           "",
		Type:               Root,
		ProbabilityProduct: 1,
	}
	t.Nodes = append(t.Nodes, root)
	return t
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.Nodes[0] }

func (t *Tree) addChild(parent *Node, n *Node) *Node {
	n.ID = len(t.Nodes)
	n.Parent = parent.ID
	n.EditLevel = parent.EditLevel + 1
	t.Nodes = append(t.Nodes, n)
	parent.Children = append(parent.Children, n.ID)
	return n
}

// isPair reports Watson-Crick or G-U wobble complementarity between a
// messenger base and a guide base.
func isPair(m, g byte) bool {
	switch {
	case m == 'g' && g == 'c', m == 'c' && g == 'g':
		return true
	case m == 'a' && g == 'u', m == 'u' && g == 'a':
		return true
	case m == 'g' && g == 'u', m == 'u' && g == 'g':
		return true
	}
	return false
}
