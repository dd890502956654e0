// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edittree

import (
	"math"

	"github.com/schnauferlab/grnaedit/dock"
	"github.com/schnauferlab/grnaedit/fold"
)

// Boltzmann constants for converting folding free energy into a
// relative probability (spec.md §4.3.2): k in kcal/(mol*K), T in K.
const (
	boltzmannK = 1.986e-3
	temperatureK = 310
)

// boltzmannWeights converts a set of sibling MFE values into Boltzmann
// factors relative to the cohort's minimum (most stable) MFE, per
// spec.md §4.5: the most stable sibling gets weight 1.0 and every
// other sibling is penalized by exp((mfeMin-mfe)/(k*T)). Weights are
// not normalized to sum to 1, so a path's probability_product reflects
// its fold stability relative to its siblings' best, not a share
// diluted by cohort size.
func boltzmannWeights(mfes []float64) []float64 {
	weights := make([]float64, len(mfes))
	if len(mfes) == 0 {
		return weights
	}
	mfeMin := mfes[0]
	for _, mfe := range mfes[1:] {
		if mfe < mfeMin {
			mfeMin = mfe
		}
	}
	for i, mfe := range mfes {
		weights[i] = math.Exp((mfeMin - mfe) / (boltzmannK * temperatureK))
	}
	return weights
}

// Score folds and probability-weights every non-root node of the
// tree, following cfg.BulkCofold (spec.md §4.3.2): bulk mode cofolds
// only the terminal nodes' full accumulated sequence and scores them
// against each other directly; step mode, run over the already grown
// tree, cofolds every node against the other children of its first
// parent, multiplying step probabilities along each path.
func (t *Tree) Score(oracle fold.Oracle) error {
	if t.Config.BulkCofold {
		return t.scoreBulk(oracle)
	}
	return t.scoreStep(oracle)
}

func (t *Tree) cofoldString(n *Node) string {
	mes := t.Messenger.Seq
	edited := mes[:t.Root().MIndex] + n.Sequence + mes[n.MIndex:]
	return dock.CofoldString(edited, t.Guide.Seq, t.DockIndex, n.GIndex, t.Config)
}

func (t *Tree) scoreStep(oracle fold.Oracle) error {
	t.Root().ProbabilityProduct = 1

	byParent := make(map[int][]*Node)
	for _, n := range t.Nodes {
		if n.Parent < 0 {
			continue
		}
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}

	for parentID := 0; parentID < len(t.Nodes); parentID++ {
		children := byParent[parentID]
		if len(children) == 0 {
			continue
		}
		strings := make([]string, len(children))
		for i, c := range children {
			strings[i] = t.cofoldString(c)
		}
		results, err := oracle.CofoldBatch(strings)
		if err != nil {
			return err
		}
		mfes := make([]float64, len(children))
		for i, r := range results {
			children[i].MFE = r.MFE
			mfes[i] = r.MFE
		}
		weights := boltzmannWeights(mfes)
		parent := t.Nodes[parentID]
		for i, c := range children {
			c.Probability = weights[i]
			c.ProbabilityProduct = parent.ProbabilityProduct * weights[i]
		}
	}
	return nil
}

func (t *Tree) scoreBulk(oracle fold.Oracle) error {
	t.Root().ProbabilityProduct = 1

	var terminals []*Node
	for _, n := range t.Nodes {
		if n.IsTerminal() {
			terminals = append(terminals, n)
		}
	}
	if len(terminals) == 0 {
		return nil
	}

	strs := make([]string, len(terminals))
	for i, n := range terminals {
		strs[i] = t.cofoldString(n)
	}
	results, err := oracle.CofoldBatch(strs)
	if err != nil {
		return err
	}
	mfes := make([]float64, len(terminals))
	for i, r := range results {
		terminals[i].MFE = r.MFE
		mfes[i] = r.MFE
	}
	weights := boltzmannWeights(mfes)
	for i, n := range terminals {
		n.Probability = weights[i]
		n.ProbabilityProduct = weights[i]
	}
	return nil
}

// PropagateMaxDownstream computes, for every node, the largest
// ProbabilityProduct reachable among its descendants (or its own, for
// terminal nodes). spec.md §9's REDESIGN FLAG replaces the original
// recursive memoized implementation with this iterative reverse pass:
// because every child is appended to Tree.Nodes strictly after its
// parent, a single reverse scan of the arena already visits every node
// after all of its children, with no recursion and no cache.
func (t *Tree) PropagateMaxDownstream() {
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := t.Nodes[i]
		if len(n.Children) == 0 {
			n.MaxDownstreamProbability = n.ProbabilityProduct
			continue
		}
		best := 0.0
		for _, cid := range n.Children {
			if p := t.Nodes[cid].MaxDownstreamProbability; p > best {
				best = p
			}
		}
		n.MaxDownstreamProbability = best
	}
}
