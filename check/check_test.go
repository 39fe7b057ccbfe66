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

package check

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SnellerInc/llmath"
	"github.com/SnellerInc/llmath/vectors"
	"github.com/google/uuid"
	"sigs.k8s.io/yaml"
)

func sweepAll(t *testing.T, n int) *vectors.Set {
	t.Helper()
	set := vectors.Builtin()
	for _, fn := range llmath.Names() {
		r, ok := vectors.Domain(fn)
		if !ok {
			t.Fatalf("no domain for %s", fn)
		}
		vs, err := vectors.Sweep(fn, r, n, 1)
		if err != nil {
			t.Fatal(err)
		}
		set.Append(vs...)
	}
	return set
}

func TestFallbackConforms(t *testing.T) {
	set := sweepAll(t, 20000)
	for _, workers := range []int{1, 0} {
		c := &Checker{
			Impl:    llmath.Fallback(),
			Ref:     llmath.Native(),
			Workers: workers,
			Logf:    t.Logf,
		}
		r, err := c.Run(context.Background(), set)
		if err != nil {
			t.Fatal(err)
		}
		if !r.OK() {
			var buf bytes.Buffer
			r.WriteSummary(&buf)
			t.Fatalf("fallback does not conform:\n%s", buf.String())
		}
		if len(r.Funcs) != len(llmath.Names()) {
			t.Errorf("got results for %d functions", len(r.Funcs))
		}
		total := 0
		for i := range r.Funcs {
			f := &r.Funcs[i]
			total += f.Count
			if len(f.Worst) == 0 || len(f.Worst) > DefaultKeep {
				t.Errorf("%s: kept %d worst samples", f.Func, len(f.Worst))
				continue
			}
			if f.Worst[0].ULP != f.MaxULP {
				t.Errorf("%s: worst sample %d ulp; max %d ulp", f.Func, f.Worst[0].ULP, f.MaxULP)
			}
			for j := 1; j < len(f.Worst); j++ {
				if f.Worst[j].ULP > f.Worst[j-1].ULP {
					t.Errorf("%s: worst samples out of order", f.Func)
				}
			}
		}
		if total != len(set.Vectors) {
			t.Errorf("counted %d vectors; set has %d", total, len(set.Vectors))
		}
		if _, err := uuid.Parse(r.RunID); err != nil {
			t.Errorf("bad run id %q: %v", r.RunID, err)
		}
		if r.Impl != "fallback" || r.Ref != "native" {
			t.Errorf("impl/ref = %s/%s", r.Impl, r.Ref)
		}
	}
}

func TestNativeConforms(t *testing.T) {
	// the builtin corpus states C99 behavior,
	// which package math also implements
	c := &Checker{Impl: llmath.Native(), Ref: llmath.Native()}
	r, err := c.Run(context.Background(), vectors.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if !r.OK() {
		var buf bytes.Buffer
		r.WriteSummary(&buf)
		t.Fatalf("native does not conform:\n%s", buf.String())
	}
}

// brokenFuncs misbehaves in the ways the
// checker has to catch
func brokenFuncs() llmath.Funcs {
	f := llmath.Fallback()
	f.Expm1 = func(x float64) float64 { return math.Exp(x) - 1 }
	f.Log1p = func(x float64) float64 {
		if x == 0 {
			return 0 // drops the sign of -0
		}
		return llmath.Log1p(x)
	}
	f.Atanh = func(x float64) float64 {
		if x > 1 {
			return math.Inf(1)
		}
		return llmath.Atanh(x)
	}
	return f
}

func TestDetectsFailures(t *testing.T) {
	set := &vectors.Set{Name: "broken"}
	set.Append(
		vectors.Vector{Func: "expm1", In: 1e-10},
		vectors.Vector{Func: "log1p", In: vectors.Float(math.Copysign(0, -1))}.Expect(math.Copysign(0, -1)),
		vectors.Vector{Func: "atanh", In: 2}.Expect(math.NaN()),
		vectors.Vector{Func: "acosh", In: 2},
	)
	zero := uint64(0)
	set.Vectors[1].MaxULP = &zero

	c := &Checker{Impl: brokenFuncs(), Ref: llmath.Native()}
	r, err := c.Run(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}
	if r.OK() {
		t.Fatal("broken implementation passed")
	}
	failed := make(map[string]bool)
	for _, f := range r.Failures {
		failed[f.Func] = true
	}
	for _, fn := range []string{"expm1", "log1p", "atanh"} {
		if !failed[fn] {
			t.Errorf("%s failure not reported", fn)
		}
	}
	if failed["acosh"] {
		t.Error("acosh should have passed")
	}
	res, ok := r.Func("expm1")
	if !ok || res.Failed != 1 || res.MaxULP < 1000 {
		t.Errorf("expm1 result = %+v", res)
	}

	c.Keep = -1
	r, err = c.Run(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}
	for i := range r.Funcs {
		if len(r.Funcs[i].Worst) != 0 {
			t.Errorf("%s: Keep=-1 kept samples", r.Funcs[i].Func)
		}
	}
}

func TestCancel(t *testing.T) {
	set := sweepAll(t, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Checker{Impl: llmath.Fallback(), Ref: llmath.Native(), Workers: 2}
	_, err := c.Run(ctx, set)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v; wanted context.Canceled", err)
	}
}

func TestUnknownFunction(t *testing.T) {
	set := &vectors.Set{Name: "bad", Vectors: []vectors.Vector{{Func: "cbrt", In: 1}}}
	c := &Checker{Impl: llmath.Fallback(), Ref: llmath.Native()}
	if _, err := c.Run(context.Background(), set); !errors.Is(err, vectors.ErrBadVector) {
		t.Fatalf("got %v; wanted ErrBadVector", err)
	}
}

func TestEncode(t *testing.T) {
	c := &Checker{Impl: brokenFuncs(), Ref: llmath.Native()}
	set := vectors.Builtin()
	r, err := c.Run(context.Background(), set)
	if err != nil {
		t.Fatal(err)
	}
	var js bytes.Buffer
	if err := r.Encode(&js, "json"); err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("%v\n%s", err, js.String())
	}
	if back.RunID != r.RunID || len(back.Funcs) != len(r.Funcs) || len(back.Failures) != len(r.Failures) {
		t.Errorf("json round trip lost data")
	}

	var ym bytes.Buffer
	if err := r.Encode(&ym, "yaml"); err != nil {
		t.Fatal(err)
	}
	var yback Report
	if err := yaml.Unmarshal(ym.Bytes(), &yback); err != nil {
		t.Fatalf("%v\n%s", err, ym.String())
	}
	if yback.Fingerprint != r.Fingerprint || yback.Corpus != "c99" {
		t.Errorf("yaml round trip lost data: %+v", yback)
	}

	if err := r.Encode(&js, "xml"); err == nil {
		t.Error("unknown format accepted")
	}

	var sum bytes.Buffer
	if err := r.WriteSummary(&sum); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sum.String(), "FAIL") {
		t.Errorf("summary does not list failures:\n%s", sum.String())
	}
}
