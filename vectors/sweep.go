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

package vectors

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/SnellerInc/llmath"
	"github.com/SnellerInc/llmath/internal/ulp"
)

// Range is a closed interval of inputs.
type Range struct {
	Lo, Hi float64
}

// domains are the finite input ranges worth sweeping;
// outside of them every function is a constant or NaN
var domains = map[string]Range{
	"isinf": {-math.MaxFloat64, math.MaxFloat64},
	"isnan": {-math.MaxFloat64, math.MaxFloat64},
	"acosh": {1, math.MaxFloat64},
	"asinh": {-math.MaxFloat64, math.MaxFloat64},
	"atanh": {-1, 1},
	"expm1": {-40, 709.78},
	"log1p": {-1, math.MaxFloat64},
}

// Domain returns the sweep range for fn.
func Domain(fn string) (Range, bool) {
	sym, ok := llmath.Lookup(fn)
	if !ok {
		return Range{}, false
	}
	r, ok := domains[sym.Name]
	return r, ok
}

// Sweep returns n vectors for fn with inputs
// drawn from r, without expected values.
// The edges of r (and zero, if r contains it)
// are always included. Inputs are drawn half
// uniformly and half with a log-uniform
// magnitude, so tiny and huge arguments are
// both well represented. The result depends
// only on the arguments.
func Sweep(fn string, r Range, n int, seed int64) ([]Vector, error) {
	sym, ok := llmath.Lookup(fn)
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", ErrBadVector, fn)
	}
	if !(r.Lo <= r.Hi) || llmath.IsNaN(r.Lo) || llmath.IsNaN(r.Hi) {
		return nil, fmt.Errorf("%w: empty range [%g, %g]", ErrBadVector, r.Lo, r.Hi)
	}
	edges := []float64{r.Lo, r.Hi, ulp.Next(r.Lo, 1), ulp.Next(r.Hi, -1)}
	if r.Lo < 0 && r.Hi > 0 {
		edges = append(edges, 0)
	}
	out := make([]Vector, 0, n)
	for _, x := range edges {
		if len(out) == n {
			return out, nil
		}
		if x >= r.Lo && x <= r.Hi {
			out = append(out, Vector{Func: sym.Name, In: Float(x)})
		}
	}
	rnd := rand.New(rand.NewSource(seed))
	for len(out) < n {
		out = append(out, Vector{Func: sym.Name, In: Float(sample(rnd, r))})
	}
	return out, nil
}

const (
	minExp = -1074
	maxExp = 1023
)

func sample(rnd *rand.Rand, r Range) float64 {
	for i := 0; i < 32; i++ {
		var x float64
		if rnd.Intn(2) == 0 {
			u := rnd.Float64()
			x = r.Lo*(1-u) + r.Hi*u
		} else {
			x = math.Ldexp(1+rnd.Float64(), minExp+rnd.Intn(maxExp-minExp))
			if r.Lo < 0 && (r.Hi <= 0 || rnd.Intn(2) == 0) {
				x = -x
			}
		}
		if x >= r.Lo && x <= r.Hi {
			return x
		}
	}
	return r.Lo
}
