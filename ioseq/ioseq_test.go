// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioseq

import (
	"errors"
	"strings"
	"testing"

	grnaedit "github.com/schnauferlab/grnaedit"
)

func TestReadMessengerValid(t *testing.T) {
	s, err := readMessenger(strings.NewReader("mito12\nACGUACGU\n"), "test")
	if err != nil {
		t.Fatalf("readMessenger: %v", err)
	}
	if s.Name != "mito12" {
		t.Fatalf("Name = %q, want %q", s.Name, "mito12")
	}
	if s.Seq5to3 != "acguacgu" {
		t.Fatalf("Seq5to3 = %q, want %q", s.Seq5to3, "acguacgu")
	}
}

func TestReadMessengerRejectsBadAlphabet(t *testing.T) {
	_, err := readMessenger(strings.NewReader("name\nACGT\n"), "test")
	if !errors.Is(err, grnaedit.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}

func TestReadMessengerRejectsTooFewLines(t *testing.T) {
	_, err := readMessenger(strings.NewReader("onlyheader\n"), "test")
	if !errors.Is(err, grnaedit.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}

func TestReadGuides(t *testing.T) {
	guides, err := readGuides(strings.NewReader("g1\nacgu\ng2\nuuuu\n"), "test")
	if err != nil {
		t.Fatalf("readGuides: %v", err)
	}
	if len(guides) != 2 {
		t.Fatalf("got %d guides, want 2", len(guides))
	}
	if guides["g1"].Seq5to3 != "acgu" {
		t.Fatalf("g1 Seq5to3 = %q, want %q", guides["g1"].Seq5to3, "acgu")
	}
}

func TestReadGuidesRejectsOddLineCount(t *testing.T) {
	_, err := readGuides(strings.NewReader("g1\nacgu\ng2\n"), "test")
	if !errors.Is(err, grnaedit.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}
