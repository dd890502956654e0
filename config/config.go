// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config defines the immutable run configuration consumed by
// every engine in the editing-pathway reconstructor. There is no
// process-wide mutable configuration state; a Config value is threaded
// into each engine at construction, per spec.md §9's design note.
package config

import "fmt"

// CofoldMode selects how much of a guide RNA to include when building
// a cofold string for the folding oracle.
type CofoldMode int

const (
	WholeGuide CofoldMode = iota
	ToIndex
	ToIndexPlus
	EditingWindow
)

// DockingMode selects whether gRNA selection is weighted in favour of
// particular docking sites.
type DockingMode int

const (
	Initiation DockingMode = iota
	CurrentSite
	InitiationAndCurrent
	NoWeighting
)

// GRNAExclusion determines which previously-used guides are excluded
// from subsequent docking rounds.
type GRNAExclusion int

const (
	ExcludeAll GRNAExclusion = iota
	ExcludeOne
	ExcludeNone
)

// MaxGuideLevels is the hard frontier cap on guide-tree growth
// (spec.md §4.7).
const MaxGuideLevels = 30

// Config is the full set of runtime knobs listed in spec.md §6.
type Config struct {
	NoOfGRNAsFirst         int
	MinNoGRNAsSubsequent   int
	MaxNoGRNAsSubsequent   int
	GuidesToCofold         int
	CofoldMode             CofoldMode
	GuideEndAllowance      int
	SequencesToProgress    int
	MismatchThresholdAnchor   int
	MismatchThresholdEditing  int
	EditingWindow          int
	MaxAnchor              int
	MinAnchor              int
	ProbabilityThreshold   float64
	DockingMode            DockingMode
	PreviousGRNAExclusion  GRNAExclusion
	BulkCofold             bool
	ShortSequenceEditing   bool
	ProportionToDock       float64
	MinimumMFE             float64
	MinMFEToProgress       float64
}

// Default returns the configuration used by the original run_settings
// module, ported field-for-field from original_source/run_settings.py.
func Default() Config {
	return Config{
		NoOfGRNAsFirst:           1,
		MinNoGRNAsSubsequent:     2,
		MaxNoGRNAsSubsequent:     5,
		GuidesToCofold:           50,
		CofoldMode:               ToIndexPlus,
		GuideEndAllowance:        3,
		SequencesToProgress:      1,
		MismatchThresholdAnchor:  2,
		MismatchThresholdEditing: 2,
		EditingWindow:            7,
		MaxAnchor:                15,
		MinAnchor:                8,
		ProbabilityThreshold:     0.01,
		DockingMode:              CurrentSite,
		PreviousGRNAExclusion:    ExcludeAll,
		BulkCofold:               true,
		ShortSequenceEditing:     true,
		ProportionToDock:         0.5,
		MinimumMFE:               -7,
		MinMFEToProgress:         -30,
	}
}

// Validate reports a configuration error if the given Config cannot
// produce a meaningful run (e.g. an anchor range that can never be
// satisfied, or a progression count of zero).
func (c Config) Validate() error {
	switch {
	case c.MaxAnchor <= 0 || c.MinAnchor <= 0:
		return fmt.Errorf("config: anchor bounds must be positive: max=%d min=%d", c.MaxAnchor, c.MinAnchor)
	case c.MinAnchor > c.MaxAnchor:
		return fmt.Errorf("config: min_anchor %d exceeds max_anchor %d", c.MinAnchor, c.MaxAnchor)
	case c.SequencesToProgress <= 0:
		return fmt.Errorf("config: sequences_to_progress must be positive")
	case c.GuidesToCofold <= 0:
		return fmt.Errorf("config: guides_to_cofold must be positive")
	case c.MinNoGRNAsSubsequent <= 0:
		return fmt.Errorf("config: min_no_grnas_subsequent must be positive")
	case c.MaxNoGRNAsSubsequent < c.MinNoGRNAsSubsequent:
		return fmt.Errorf("config: max_no_grnas_subsequent must be >= min_no_grnas_subsequent")
	case c.EditingWindow < 0:
		return fmt.Errorf("config: editing_window must be non-negative")
	}
	return nil
}
