// Copyright ©2024 The grnaedit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fold wraps the external minimum-free-energy (MFE) folding
// oracle: cofold(mrna_fragment, guide_fragment) -> (alignment, mfe).
// The oracle is pure and deterministic per input; this package is the
// sole caller of it, and may batch calls through a bounded worker pool
// (spec.md §4.1, §5).
package fold

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	grnaedit "github.com/schnauferlab/grnaedit"
)

// Result is a single cofold outcome.
type Result struct {
	Alignment string
	MFE       float64
}

// Oracle is anything that can fold a batch of cofold strings, in
// order, returning one Result (or per-item error) per input. A
// production Oracle shells out to an external folding program; tests
// use Stub, a deterministic lookup table.
type Oracle interface {
	// Cofold folds a single "mrna&guide" string.
	Cofold(cofoldString string) (Result, error)
	// CofoldBatch folds many cofold strings, using the bounded worker
	// pool when the batch is large enough to be worth parallelizing
	// (spec.md §5: pool used only when len(inputs) > 100). Results are
	// returned in input order regardless of completion order.
	CofoldBatch(cofoldStrings []string) ([]Result, error)
}

// parallelThreshold is the batch size above which CofoldBatch fans
// work out across the worker pool, per spec.md §5.
const parallelThreshold = 100

// poolSize returns the worker pool size: max(1, NumCPU-1), per
// spec.md §5.
func poolSize() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// runBatch is the shared bounded-worker-pool fan-out/fan-in used by
// any Oracle implementation's CofoldBatch: a buffered job channel feeds
// poolSize() workers, each calling fold on its job and writing the
// result back into a pre-sized results slice at the job's original
// index, so output order is stable regardless of completion order
// (spec.md §5's ordering guarantee). This mirrors the teacher corpus's
// bounded parallel-map idiom rather than pulling in a third-party pool
// library for what is, at bottom, a single indexed channel drain.
//
// Per spec.md §7, an individual oracle exception is not fatal to the
// batch: the failing slot is degraded to Result{MFE: +Inf} (never the
// most probable, never selected) and every other fold proceeds.
func runBatch(inputs []string, fold func(string) (Result, error)) ([]Result, error) {
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}
	if len(inputs) <= parallelThreshold {
		for i, s := range inputs {
			r, err := fold(s)
			if err != nil {
				r = Result{MFE: math.Inf(1)}
			}
			results[i] = r
		}
		return results, nil
	}

	type job struct {
		idx int
		s   string
	}
	jobs := make(chan job, len(inputs))
	for i, s := range inputs {
		jobs <- job{i, s}
	}
	close(jobs)

	var wg sync.WaitGroup
	workers := poolSize()
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				r, err := fold(j.s)
				if err != nil {
					r = Result{MFE: math.Inf(1)}
				}
				results[j.idx] = r
			}
		}()
	}
	wg.Wait()

	return results, nil
}

// checkDegenerate rejects a cofold string whose mRNA fragment (the
// text before '&') is empty, per spec.md §7: such strings must never
// reach the external oracle.
func checkDegenerate(cofoldString string) error {
	i := indexByte(cofoldString, '&')
	if i <= 0 {
		return fmt.Errorf("%w: %q", grnaedit.ErrDegenerateFold, cofoldString)
	}
	return nil
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
