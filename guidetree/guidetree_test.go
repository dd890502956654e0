// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package guidetree

import (
	"testing"

	"github.com/schnauferlab/grnaedit/config"
	"github.com/schnauferlab/grnaedit/dock"
	"github.com/schnauferlab/grnaedit/edittree"
	"github.com/schnauferlab/grnaedit/fold"
	"github.com/schnauferlab/grnaedit/sequence"
)

func TestEditAndScoreCachesRepeatedKey(t *testing.T) {
	messenger := sequence.New("m", "uacg", true, sequence.Messenger)
	guide := sequence.New("g1", "cgua", true, sequence.Guide)

	cfg := config.Default()
	cfg.MismatchThresholdEditing = 0
	cfg.BulkCofold = true

	pool := map[string]sequence.Sequence{"g1": guide}
	gt := New(messenger, pool, []string{"g1"}, cfg, fold.NewStub(-5))

	d := dock.Duplex{GuideName: "g1", DockIndex: 0, Messenger: messenger, GIndex: 0}

	first, err := gt.editAndScore(d)
	if err != nil {
		t.Fatalf("editAndScore (first): %v", err)
	}
	if gt.CacheHits != 0 {
		t.Fatalf("CacheHits = %d, want 0 after first call", gt.CacheHits)
	}

	second, err := gt.editAndScore(d)
	if err != nil {
		t.Fatalf("editAndScore (second): %v", err)
	}
	if gt.CacheHits != 1 {
		t.Fatalf("CacheHits = %d, want 1 after repeated call", gt.CacheHits)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result length differs: %d vs %d", len(first), len(second))
	}
}

func TestLinkChildSharesNodeForIdenticalSequence(t *testing.T) {
	messenger := sequence.New("m", "uacg", true, sequence.Messenger)
	cfg := config.Default()
	gt := New(messenger, nil, nil, cfg, fold.NewStub(-5))

	parentA := &Node{ID: 0, Sequence: messenger}
	parentB := &Node{ID: 1, Sequence: messenger}
	gt.Nodes = append(gt.Nodes, parentA, parentB)

	d := dock.Duplex{GuideName: "g1", DockIndex: 0, Messenger: messenger, GIndex: 0}
	p := edittree.Progressed{
		Sequence: "",
		Node:     &edittree.Node{MIndex: 0, GIndex: 0},
	}

	id1 := gt.linkChild(parentA, d, p, 1)
	id2 := gt.linkChild(parentB, d, p, 1)
	if id1 != id2 {
		t.Fatalf("expected shared child node, got distinct ids %d and %d", id1, id2)
	}
	shared := gt.Nodes[id1]
	if len(shared.Parents) != 2 {
		t.Fatalf("shared node has %d parents, want 2", len(shared.Parents))
	}
}
