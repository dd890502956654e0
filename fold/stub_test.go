// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fold

import (
	"errors"
	"strings"
	"testing"

	grnaedit "github.com/schnauferlab/grnaedit"
)

func TestStubReturnsRegisteredResult(t *testing.T) {
	s := NewStub(-1)
	s.Set("aaaa&uuuu", Result{Alignment: "((((....))))", MFE: -9.5})

	r, err := s.Cofold("aaaa&uuuu")
	if err != nil {
		t.Fatalf("Cofold: %v", err)
	}
	if r.MFE != -9.5 {
		t.Fatalf("MFE = %v, want -9.5", r.MFE)
	}
}

func TestStubFallsBackToDefault(t *testing.T) {
	s := NewStub(-3.25)
	r, err := s.Cofold("aaaa&uuuu")
	if err != nil {
		t.Fatalf("Cofold: %v", err)
	}
	if r.MFE != -3.25 {
		t.Fatalf("MFE = %v, want -3.25", r.MFE)
	}
}

func TestStubRejectsDegenerateInput(t *testing.T) {
	s := NewStub(-1)
	_, err := s.Cofold("noamp")
	if !errors.Is(err, grnaedit.ErrDegenerateFold) {
		t.Fatalf("err = %v, want ErrDegenerateFold", err)
	}
}

func TestStubCofoldBatchPreservesOrder(t *testing.T) {
	s := NewStub(0)
	inputs := make([]string, 250)
	for i := range inputs {
		inputs[i] = "a&" + strings.Repeat("u", i+1)
		s.Set(inputs[i], Result{MFE: -float64(i)})
	}
	results, err := s.CofoldBatch(inputs)
	if err != nil {
		t.Fatalf("CofoldBatch: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(inputs))
	}
	for i, r := range results {
		if r.MFE != -float64(i) {
			t.Fatalf("results[%d].MFE = %v, want %v", i, r.MFE, -float64(i))
		}
	}
}
