// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grnaedit reconstructs the U-insertion/U-deletion editing
// pathway by which a population of guide RNAs transforms an unedited
// messenger transcript into its mature edited form. See SPEC_FULL.md
// for the full design; this file holds the error taxonomy shared by
// every engine package (spec.md §7).
package grnaedit

import "errors"

// ErrIO marks a fatal failure reading a sequence input file: missing
// file, or a file that fails spec.md §6's format/alphabet checks.
// Fatal: aborts the current guide-tree build.
var ErrIO = errors.New("grnaedit: sequence input failure")

// ErrDegenerateFold marks a cofold string with an empty fragment (a
// dock at or past a sequence boundary). The adapter must detect and
// reject this before ever invoking the external oracle.
var ErrDegenerateFold = errors.New("grnaedit: degenerate cofold input")

// ErrFoldOracle wraps a failure from the external folding routine.
// Batch folding does not propagate it: the failed slot gets MFE = +Inf,
// so the node it belongs to is never selected for progression, and the
// rest of the batch is folded as usual. The node's type is not changed
// (it is not relabelled LEAF).
var ErrFoldOracle = errors.New("grnaedit: fold oracle failure")
