// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioseq reads the two FASTA-like sequence input files spec.md
// §6 defines: a two-line unedited mRNA file, an alternating
// header/sequence guide-pool file, and an optional two-line reference
// edited mRNA file used only for QC. The formats are not standard
// multi-record FASTA (no '>' record markers), so these readers are
// hand-rolled bufio scanners in the style of loopy.go's own ad hoc
// line-oriented file readers, rather than a general FASTA parser.
package ioseq

import (
	"bufio"
	"fmt"
	"io"
	"os"

	grnaedit "github.com/schnauferlab/grnaedit"
	"github.com/schnauferlab/grnaedit/sequence"
)

// ReadMessenger reads a two-line mRNA file (header, sequence) from path
// and returns it as a Messenger-kind Sequence. The header line becomes
// the sequence name; the sequence line is validated against the fixed
// {a,c,g,u} alphabet after lowercasing.
func ReadMessenger(path string) (sequence.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return sequence.Sequence{}, fmt.Errorf("ioseq: open %q: %w: %v", path, grnaedit.ErrIO, err)
	}
	defer f.Close()
	return readMessenger(f, path)
}

func readMessenger(r io.Reader, path string) (sequence.Sequence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return sequence.Sequence{}, fmt.Errorf("ioseq: read %q: %w: %v", path, grnaedit.ErrIO, err)
	}
	if len(lines) < 2 {
		return sequence.Sequence{}, fmt.Errorf("%w: %q: expected header and sequence lines, got %d lines", grnaedit.ErrIO, path, len(lines))
	}

	name := lines[0]
	bases := lines[1]
	if !sequence.Valid(bases) {
		return sequence.Sequence{}, fmt.Errorf("%w: %q: sequence contains characters outside {a,c,g,u}", grnaedit.ErrIO, path)
	}

	return sequence.New(name, bases, true, sequence.Messenger), nil
}

// ReadGuides reads a guide-pool file of alternating header/sequence
// lines from path and returns a map from guide name to its Sequence
// (Guide-kind, 5'->3' canonical orientation).
func ReadGuides(path string) (map[string]sequence.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioseq: open %q: %w: %v", path, grnaedit.ErrIO, err)
	}
	defer f.Close()
	return readGuides(f, path)
}

func readGuides(r io.Reader, path string) (map[string]sequence.Sequence, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ioseq: read %q: %w: %v", path, grnaedit.ErrIO, err)
	}
	if len(lines)%2 != 0 {
		return nil, fmt.Errorf("%w: %q: expected alternating header/sequence lines, got odd count %d", grnaedit.ErrIO, path, len(lines))
	}

	guides := make(map[string]sequence.Sequence, len(lines)/2)
	for i := 0; i+1 < len(lines); i += 2 {
		name := lines[i]
		bases := lines[i+1]
		if !sequence.Valid(bases) {
			return nil, fmt.Errorf("%w: %q: guide %q contains characters outside {a,c,g,u}", grnaedit.ErrIO, path, name)
		}
		guides[name] = sequence.New(name, bases, true, sequence.Guide)
	}
	return guides, nil
}

// ReadEditedReference reads the optional reference edited mRNA file
// used only for QC comparison (spec.md §6). It is read with the same
// two-line format as the unedited mRNA.
func ReadEditedReference(path string) (sequence.Sequence, error) {
	return ReadMessenger(path)
}
