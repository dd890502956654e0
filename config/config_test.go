// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestValidateCatchesBadAnchorBounds(t *testing.T) {
	c := Default()
	c.MinAnchor = 20
	c.MaxAnchor = 10
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for min_anchor > max_anchor")
	}
}

func TestValidateCatchesZeroProgressCount(t *testing.T) {
	c := Default()
	c.SequencesToProgress = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for sequences_to_progress == 0")
	}
}

func TestValidateCatchesInvertedGuideCounts(t *testing.T) {
	c := Default()
	c.MinNoGRNAsSubsequent = 5
	c.MaxNoGRNAsSubsequent = 2
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for max < min guides subsequent")
	}
}
