// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sequence defines the immutable oriented base sequence used
// throughout the editing-pathway reconstructor: messenger transcripts
// and guide RNAs over the fixed alphabet {a, c, g, u}.
package sequence

import "strings"

// Kind distinguishes a messenger transcript from a guide RNA. The two
// kinds differ in which orientation is their canonical comparison view.
type Kind int

const (
	// Messenger is an mRNA transcript; its canonical view is 3'->5'.
	Messenger Kind = iota
	// Guide is a guide RNA; its canonical view is 5'->3'.
	Guide
)

func (k Kind) String() string {
	switch k {
	case Messenger:
		return "messenger"
	case Guide:
		return "guide"
	default:
		return "unknown"
	}
}

// Sequence is an immutable, oriented string over {a, c, g, u}. It is
// never mutated after construction; derived sequences (after an edit)
// are always built as new Sequence values.
//
// Seq5to3 and Seq3to5 are reverses of one another and share Length.
// Seq is the canonical comparison view: Seq3to5 for a Messenger, Seq5to3
// for a Guide.
type Sequence struct {
	Name    string
	Kind    Kind
	Seq5to3 string
	Seq3to5 string
	Seq     string
	Length  int
}

// New builds a Sequence from raw input. If seqIs5to3 is false, bases is
// treated as the 3'->5' orientation and reversed to produce Seq5to3.
// Bases is lowercased on entry, matching the import-time normalization
// spec.md §6 requires of all sequence input.
func New(name, bases string, seqIs5to3 bool, kind Kind) Sequence {
	lower := strings.ToLower(bases)

	var seq5to3 string
	if seqIs5to3 {
		seq5to3 = lower
	} else {
		seq5to3 = reverse(lower)
	}
	seq3to5 := reverse(seq5to3)

	s := Sequence{
		Name:    name,
		Kind:    kind,
		Seq5to3: seq5to3,
		Seq3to5: seq3to5,
		Length:  len(seq5to3),
	}
	if kind == Messenger {
		s.Seq = s.Seq3to5
	} else {
		s.Seq = s.Seq5to3
	}
	return s
}

func reverse(s string) string {
	r := []byte(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// IsRNABase reports whether b is one of a, c, g, u (lowercase only, the
// alphabet this system operates on per spec.md §1 Non-goals).
func IsRNABase(b byte) bool {
	switch b {
	case 'a', 'c', 'g', 'u':
		return true
	default:
		return false
	}
}

// Valid reports whether every base of bases belongs to the fixed
// alphabet. Import adapters must call this before constructing a
// Sequence from user-supplied text.
func Valid(bases string) bool {
	for i := 0; i < len(bases); i++ {
		if !IsRNABase(bases[i] | 0x20) {
			return false
		}
	}
	return true
}
