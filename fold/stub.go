// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fold

import "sync"

// Stub is a deterministic Oracle used in tests: it returns a
// pre-registered MFE for a given cofold string (or a default if none
// was registered), with no external process invocation. This is the
// substitute spec.md §9's "Fold oracle dependency" design note calls
// for: the core treats folding as a pure function, so tests wire in a
// pure lookup rather than calling ViennaRNA.
type Stub struct {
	mu       sync.Mutex
	byInput  map[string]Result
	Default  Result
	CallLog  []string
}

// NewStub returns a Stub whose unregistered inputs fold to defaultMFE
// with an empty alignment.
func NewStub(defaultMFE float64) *Stub {
	return &Stub{
		byInput: make(map[string]Result),
		Default: Result{MFE: defaultMFE},
	}
}

// Set registers the Result to return for an exact cofold string.
func (s *Stub) Set(cofoldString string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byInput[cofoldString] = r
}

// Cofold implements Oracle.
func (s *Stub) Cofold(cofoldString string) (Result, error) {
	if err := checkDegenerate(cofoldString); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallLog = append(s.CallLog, cofoldString)
	if r, ok := s.byInput[cofoldString]; ok {
		return r, nil
	}
	return s.Default, nil
}

// CofoldBatch implements Oracle.
func (s *Stub) CofoldBatch(cofoldStrings []string) ([]Result, error) {
	return runBatch(cofoldStrings, s.Cofold)
}
