// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sequence

import "testing"

func TestNewGuideOrientation(t *testing.T) {
	s := New("g1", "ACGU", true, Guide)
	if s.Seq5to3 != "acgu" {
		t.Fatalf("Seq5to3 = %q, want %q", s.Seq5to3, "acgu")
	}
	if s.Seq3to5 != "ugca" {
		t.Fatalf("Seq3to5 = %q, want %q", s.Seq3to5, "ugca")
	}
	if s.Seq != s.Seq5to3 {
		t.Fatalf("Guide canonical view should be Seq5to3")
	}
	if s.Length != 4 {
		t.Fatalf("Length = %d, want 4", s.Length)
	}
}

func TestNewMessengerOrientation(t *testing.T) {
	s := New("m1", "ACGU", true, Messenger)
	if s.Seq != s.Seq3to5 {
		t.Fatalf("Messenger canonical view should be Seq3to5")
	}
	if s.Seq3to5 != "ugca" {
		t.Fatalf("Seq3to5 = %q, want %q", s.Seq3to5, "ugca")
	}
}

func TestNewFrom3to5Input(t *testing.T) {
	s := New("m1", "ugca", false, Messenger)
	if s.Seq5to3 != "acgu" {
		t.Fatalf("Seq5to3 = %q, want %q", s.Seq5to3, "acgu")
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"acgu", true},
		{"ACGU", true},
		{"acgt", false},
		{"acgux", false},
		{"", true},
	}
	for _, c := range cases {
		if got := Valid(c.in); got != c.ok {
			t.Errorf("Valid(%q) = %v, want %v", c.in, got, c.ok)
		}
	}
}
