// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"image/color"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/graphics/rings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/schnauferlab/grnaedit/guidetree"
)

// level is one guide-tree level rendered as a single arc segment
// around the ring, playing the role carta.go gives each chromosome:
// the top-level feat.Feature that every other ring is laid out
// against.
type level struct {
	idx, start, end int
}

func (l *level) Start() int             { return l.start }
func (l *level) End() int               { return l.end }
func (l *level) Len() int               { return l.end - l.start }
func (l *level) Name() string           { return fmt.Sprintf("L%d", l.idx) }
func (l *level) Description() string    { return "guide-tree level" }
func (l *level) Location() feat.Feature { return nil }

// levelScore attaches a guide-tree level's node count to its arc
// segment, satisfying rings.Scorer the same way carta.go's feature
// type attaches a BED bin's event count.
type levelScore struct {
	*level
	nodeCount float64
}

func (s *levelScore) Scores() []float64 { return []float64{s.nodeCount} }

// WriteGuideTreeSVG renders t as a ring plot: one arc segment per
// guide-tree level, with an inner score track showing how many
// GuideNodes survive at that level (biogo/graphics/rings, grounded on
// cmd/carta/carta.go's genome ring-plot layout).
func WriteGuideTreeSVG(path string, t *guidetree.Tree) error {
	maxLevel := 0
	for _, n := range t.Nodes {
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}

	levels := make([]feat.Feature, maxLevel+1)
	counts := make([]int, maxLevel+1)
	for _, n := range t.Nodes {
		counts[n.Level]++
	}
	for i := 0; i <= maxLevel; i++ {
		levels[i] = &level{idx: i, start: i, end: i + 1}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("guide tree: %d nodes across %d levels", len(t.Nodes), maxLevel+1)
	p.HideAxes()

	const (
		diameter = 12 * vg.Centimeter
		gap      = 0.01

		levelsInner = 90. / 100.
		levelsOuter = 1.

		countsInner = 60. / 100.
		countsOuter = 85. / 100.
	)
	radius := diameter / 2

	sty := plotter.DefaultLineStyle
	sty.Width /= 2

	hs, err := rings.NewGappedBlocks(
		levels,
		rings.Arc{rings.Complete / 4 * rings.CounterClockwise, rings.Complete * rings.Clockwise},
		radius*levelsInner, radius*levelsOuter, gap,
	)
	if err != nil {
		return fmt.Errorf("report: guide tree ring: %w", err)
	}
	hs.LineStyle = sty
	p.Add(hs)

	font, err := vg.MakeFont("Helvetica", radius*(6./100.))
	if err != nil {
		return fmt.Errorf("report: font: %w", err)
	}
	lb, err := rings.NewLabels(hs, radius*levelsOuter*1.08, rings.NameLabels(hs.Set)...)
	if err != nil {
		return fmt.Errorf("report: guide tree labels: %w", err)
	}
	lb.TextStyle = draw.TextStyle{Color: color.Gray16{0}, Font: font}
	p.Add(lb)

	scores := make([]rings.Scorer, maxLevel+1)
	for i := 0; i <= maxLevel; i++ {
		scores[i] = &levelScore{level: levels[i].(*level), nodeCount: float64(counts[i])}
	}
	ct, err := rings.NewScores(scores, hs, radius*countsInner, radius*countsOuter,
		&rings.Trace{
			LineStyles: func() []draw.LineStyle {
				ls := []draw.LineStyle{sty}
				ls[0].Color = color.RGBA{G: 0x99, A: 0xff}
				return ls
			}(),
			Join: true,
		},
	)
	if err != nil {
		return fmt.Errorf("report: guide tree score track: %w", err)
	}
	p.Add(ct)

	return p.Save(diameter, diameter, path)
}
