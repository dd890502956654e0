// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edittree

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Validate checks the tree is a sound DAG: no cycles, and every merged
// node actually has more than one parent recorded. It builds a
// gonum/graph/simple.DirectedGraph mirroring the tree's edges and
// leans on graph/topo.Sort to detect cycles, rather than hand-rolling
// a visited/in-progress coloring walk.
func (t *Tree) Validate() error {
	g := simple.NewDirectedGraph()
	for _, n := range t.Nodes {
		g.AddNode(simple.Node(n.ID))
	}
	for _, n := range t.Nodes {
		for _, cid := range n.Children {
			if !g.HasEdgeFromTo(int64(n.ID), int64(cid)) {
				g.SetEdge(g.NewEdge(simple.Node(n.ID), simple.Node(cid)))
			}
		}
	}

	if _, err := topo.Sort(g); err != nil {
		return fmt.Errorf("edittree: %s/%d: not a DAG: %w", t.GuideName, t.DockIndex, err)
	}

	for _, n := range t.Nodes {
		if n.Type == Merged && len(n.MergeParents) == 0 {
			return fmt.Errorf("edittree: %s/%d: node %d marked MERGED with no recorded merge parents", t.GuideName, t.DockIndex, n.ID)
		}
	}
	return nil
}
