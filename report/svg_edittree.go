// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/schnauferlab/grnaedit/edittree"
)

func editLevel(n *edittree.Node) float64 {
	return float64(len(n.ActionLog) - 1)
}

var nodeTypeColor = map[edittree.NodeType]color.Color{
	edittree.Root:     color.Gray16{0x0000},
	edittree.Active:    color.RGBA{B: 0xff, A: 0xff},
	edittree.Leaf:      color.RGBA{R: 0xbb, G: 0xbb, A: 0xff},
	edittree.Complete:  color.RGBA{G: 0x99, A: 0xff},
	edittree.Merged:    color.RGBA{R: 0xff, G: 0x99, A: 0xff},
}

// WriteEditTreeSVG renders t as a dendrogram: one scatter point per
// node at (edit level, lane index), coloured by node type, with a
// line segment drawn from every node to its parent (and to each merge
// parent). Lane assignment is simply the node's position in creation
// order within its level, which keeps the layout deterministic without
// needing a full tree-layout algorithm.
func WriteEditTreeSVG(path string, t *edittree.Tree) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s @ %d", t.GuideName, t.DockIndex)
	p.X.Label.Text = "edit level"
	p.Y.Label.Text = "lane"

	lane := make([]float64, len(t.Nodes))
	laneCount := make(map[int]int)
	for i, n := range t.Nodes {
		level := int(editLevel(n))
		lane[i] = float64(laneCount[level])
		laneCount[level]++
	}

	byType := make(map[edittree.NodeType]plotter.XYs)
	for i, n := range t.Nodes {
		byType[n.Type] = append(byType[n.Type], plotter.XY{X: editLevel(n), Y: lane[i]})
	}
	for _, typ := range []edittree.NodeType{edittree.Root, edittree.Active, edittree.Leaf, edittree.Complete, edittree.Merged} {
		pts := byType[typ]
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("report: scatter for %s: %w", typ, err)
		}
		sc.GlyphStyle.Color = nodeTypeColor[typ]
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
	}

	var edges plotter.XYs
	addEdge := func(parentID, childID int) {
		edges = append(edges,
			plotter.XY{X: editLevel(t.Nodes[parentID]), Y: lane[parentID]},
			plotter.XY{X: editLevel(t.Nodes[childID]), Y: lane[childID]},
		)
	}
	for _, n := range t.Nodes {
		if n.Parent >= 0 {
			addEdge(n.Parent, n.ID)
		}
		for _, mp := range n.MergeParents {
			addEdge(mp, n.ID)
		}
	}
	if len(edges) > 0 {
		for i := 0; i+1 < len(edges); i += 2 {
			seg := plotter.XYs{edges[i], edges[i+1]}
			ln, err := plotter.NewLine(seg)
			if err != nil {
				return fmt.Errorf("report: edge line: %w", err)
			}
			ln.LineStyle.Width = vg.Points(0.5)
			ln.LineStyle.Color = color.Gray16{0x8888}
			p.Add(ln)
		}
	}

	return p.Save(12*vg.Centimeter, 12*vg.Centimeter, path)
}
