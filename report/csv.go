// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report persists the two run artifacts spec.md §6 defines
// for every docked duplex: a tabular CSV dump of the edit tree and
// guide tree, and an SVG rendering of each, written the way the
// teacher's own cmd tools render and persist their output (CSV via
// encoding/csv, plots via gonum/plot and biogo/graphics/rings).
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/schnauferlab/grnaedit/edittree"
	"github.com/schnauferlab/grnaedit/guidetree"
)

// WriteEditTreeCSV dumps every node of t to path as a flat table, one
// row per node, parent-before-child (the tree's natural construction
// order).
func WriteEditTreeCSV(path string, t *edittree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"id", "parent", "merge_parents", "action", "action_log",
		"mindex", "gindex", "mismatches", "sequence", "type",
		"mfe", "probability", "probability_product", "max_downstream_probability",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("report: write header to %q: %w", path, err)
	}

	for _, n := range t.Nodes {
		row := []string{
			strconv.Itoa(n.ID),
			strconv.Itoa(n.Parent),
			fmt.Sprint(n.MergeParents),
			string(n.Action),
			n.ActionLog,
			strconv.Itoa(n.MIndex),
			strconv.Itoa(n.GIndex),
			strconv.Itoa(n.Mismatches),
			n.Sequence,
			n.Type.String(),
			strconv.FormatFloat(n.MFE, 'f', -1, 64),
			strconv.FormatFloat(n.Probability, 'g', -1, 64),
			strconv.FormatFloat(n.ProbabilityProduct, 'g', -1, 64),
			strconv.FormatFloat(n.MaxDownstreamProbability, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: write row to %q: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteGuideTreeCSV dumps every node of t to path as a flat table.
func WriteGuideTreeCSV(path string, t *guidetree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"id", "parents", "guide_name", "dock_index", "gindex",
		"level", "sequence_name", "sequence", "errors_accumulated",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("report: write header to %q: %w", path, err)
	}

	for _, n := range t.Nodes {
		row := []string{
			strconv.Itoa(n.ID),
			fmt.Sprint(n.Parents),
			n.GuideName,
			strconv.Itoa(n.DockIndex),
			strconv.Itoa(n.GIndex),
			strconv.Itoa(n.Level),
			n.Sequence.Name,
			n.Sequence.Seq5to3,
			strconv.Itoa(n.ErrorsAccumulated),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: write row to %q: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
