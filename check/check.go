// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package check grades an implementation of the
// llmath functions against a set of vectors.
package check

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/SnellerInc/llmath"
	"github.com/SnellerInc/llmath/internal/ulp"
	"github.com/SnellerInc/llmath/internal/worst"
	"github.com/SnellerInc/llmath/vectors"
	"github.com/google/uuid"
)

// DefaultBudget is the ULP budget applied to
// vectors that do not carry their own.
func DefaultBudget(fn string) uint64 {
	switch fn {
	case "isinf", "isnan":
		return 0
	case "expm1", "log1p":
		return 2
	}
	return 4
}

// Checker runs vectors through Impl.
type Checker struct {
	// Impl is the implementation under test.
	Impl llmath.Funcs
	// Ref computes expected values for vectors
	// without one. Usually llmath.Native().
	Ref llmath.Funcs
	// Workers is the number of goroutines
	// evaluating vectors; zero means GOMAXPROCS.
	Workers int
	// Keep is the number of worst samples kept
	// per function; zero means DefaultKeep and
	// a negative value keeps none.
	Keep int
	// Logf, if set, receives progress messages.
	Logf func(f string, args ...any)
}

// DefaultKeep is the default for Checker.Keep.
const DefaultKeep = 5

func (c *Checker) logf(f string, args ...any) {
	if c.Logf != nil {
		c.Logf(f, args...)
	}
}

type outcome struct {
	got, want float64
	dist      uint64
	budget    uint64
	ok        bool
}

// progressEvery is how often (in vectors)
// progress is logged
const progressEvery = 1 << 16

// Run evaluates every vector in set.
// It returns an error only if ctx is
// cancelled before the run completes;
// vectors over budget are reported in
// the Report, not as errors.
func (c *Checker) Run(ctx context.Context, set *vectors.Set) (*Report, error) {
	impl := llmath.BindTo(c.Impl)
	ref := llmath.BindTo(c.Ref)

	// resolve symbols up front so workers
	// never touch the tables' maps
	n := len(set.Vectors)
	syms := make([]llmath.Symbol, n)
	refs := make([]llmath.Symbol, n)
	for i := range set.Vectors {
		var ok bool
		syms[i], ok = impl.Lookup(set.Vectors[i].Func)
		if !ok {
			return nil, fmt.Errorf("vector %d: %w: unknown function %q", i, vectors.ErrBadVector, set.Vectors[i].Func)
		}
		refs[i], _ = ref.Lookup(set.Vectors[i].Func)
	}

	par := c.Workers
	if par <= 0 {
		par = runtime.GOMAXPROCS(0)
	}
	if par > n {
		par = n
	}

	out := make([]outcome, n)
	var done uint64
	var wg sync.WaitGroup
	worker := func(jobs <-chan int) {
		defer wg.Done()
		for i := range jobs {
			if ctx.Err() != nil {
				continue
			}
			v := &set.Vectors[i]
			out[i] = evaluate(v, syms[i], refs[i])
			if cur := atomic.AddUint64(&done, 1); cur%progressEvery == 0 {
				c.logf("%s: %d/%d vectors", set.Name, cur, n)
			}
		}
	}

	jobs := make(chan int, 2*par)
	wg.Add(par)
	for w := 0; w < par; w++ {
		go worker(jobs)
	}
feed:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check %s: %w", set.Name, err)
	}

	return c.report(set, out), nil
}

func evaluate(v *vectors.Vector, sym, ref llmath.Symbol) outcome {
	x := float64(v.In)
	var o outcome
	o.got = sym.Call(x)
	if v.Want != nil {
		o.want = float64(*v.Want)
	} else {
		o.want = ref.Call(x)
	}
	o.budget = v.Budget(DefaultBudget(sym.Name))
	o.dist = ulp.Distance(o.got, o.want)
	o.ok = o.dist <= o.budget
	// an exact budget also pins the sign of zero
	if o.ok && o.budget == 0 && o.got == 0 && math.Signbit(o.got) != math.Signbit(o.want) {
		o.ok = false
		o.dist = 1
	}
	return o
}

func (c *Checker) report(set *vectors.Set, out []outcome) *Report {
	r := &Report{
		RunID:       uuid.New().String(),
		Corpus:      set.Name,
		Fingerprint: fmt.Sprintf("%016x", set.Fingerprint()),
		Impl:        c.Impl.Impl.String(),
		Ref:         c.Ref.Impl.String(),
		FMA:         llmath.HasFMA(),
	}
	keep := c.Keep
	if keep == 0 {
		keep = DefaultKeep
	}
	byFunc := make(map[string]*FuncResult)
	samples := make(map[string]*worst.Tracker[Sample])
	for i := range out {
		v := &set.Vectors[i]
		fr := byFunc[v.Func]
		if fr == nil {
			fr = &FuncResult{Func: v.Func}
			byFunc[v.Func] = fr
			samples[v.Func] = worst.New(keep, lessSample)
		}
		fr.Count++
		o := &out[i]
		// NaN mismatches are failures, not
		// a very large error to rank by
		if o.dist != ulp.NaNMismatch {
			samples[v.Func].Offer(Sample{
				In:   v.In,
				Got:  vectors.Float(o.got),
				Want: vectors.Float(o.want),
				ULP:  o.dist,
			})
			if o.dist > fr.MaxULP || fr.Count == 1 {
				fr.MaxULP = o.dist
				fr.WorstIn = v.In
			}
		}
		if !o.ok {
			fr.Failed++
			r.Failures = append(r.Failures, Failure{
				Func:   v.Func,
				In:     v.In,
				Got:    vectors.Float(o.got),
				Want:   vectors.Float(o.want),
				ULP:    o.dist,
				Budget: o.budget,
			})
		}
	}
	for fn, tr := range samples {
		byFunc[fn].Worst = tr.Sorted()
	}
	r.setFuncs(byFunc)
	return r
}
