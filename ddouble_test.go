// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package llmath

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(256).SetFloat64(x)
}

// relerr returns |(r.hi+r.lo)-want|/|want| as a float64
func relerr(r ddouble, want *big.Float) float64 {
	got := bigf(r.hi)
	got.Add(got, bigf(r.lo))
	got.Sub(got, want)
	got.Quo(got, want)
	f, _ := got.Float64()
	return math.Abs(f)
}

func TestDoubleDouble(t *testing.T) {
	saved := useFMA
	defer func() { useFMA = saved }()

	const (
		mulBound = 0x1p-100
		divBound = 0x1p-98
	)
	r := rand.New(rand.NewSource(3))
	for _, fma := range []bool{false, true} {
		useFMA = fma
		for i := 0; i < 20000; i++ {
			x := math.Ldexp(0.5+r.Float64(), r.Intn(64)-32)
			y := math.Ldexp(0.5+r.Float64(), r.Intn(64)-32)
			if r.Intn(2) == 0 {
				y = -y
			}

			want := bigf(x)
			want.Mul(want, bigf(y))
			if e := relerr(dd(x, 0).mulf(y), want); e > mulBound {
				t.Fatalf("fma=%v: %g*%g mulf: relative error %g", fma, x, y, e)
			}
			if e := relerr(dd(x, 0).mul(dd(y, 0)), want); e > mulBound {
				t.Fatalf("fma=%v: %g*%g mul: relative error %g", fma, x, y, e)
			}

			sq := bigf(x)
			sq.Mul(sq, sq)
			if e := relerr(dd(x, 0).squ(), sq); e > mulBound {
				t.Fatalf("fma=%v: %g^2: relative error %g", fma, x, e)
			}

			q := bigf(x)
			q.Quo(q, bigf(y))
			if e := relerr(dd(x, 0).div(dd(y, 0)), q); e > divBound {
				t.Fatalf("fma=%v: %g/%g: relative error %g", fma, x, y, e)
			}
		}
	}
}

func TestSums(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 20000; i++ {
		x := math.Ldexp(r.Float64(), r.Intn(100)-50)
		y := math.Ldexp(r.Float64(), r.Intn(100)-50)
		if r.Intn(2) == 0 {
			y = -y
		}
		want := bigf(x)
		want.Add(want, bigf(y))
		s := twoSum(x, y)
		got := bigf(s.hi)
		got.Add(got, bigf(s.lo))
		if got.Cmp(want) != 0 {
			t.Fatalf("twoSum(%g, %g) = %v+%v is not exact", x, y, s.hi, s.lo)
		}
		if math.Abs(x) >= math.Abs(y) {
			s = quickSum(x, y)
			got = bigf(s.hi)
			got.Add(got, bigf(s.lo))
			if got.Cmp(want) != 0 {
				t.Fatalf("quickSum(%g, %g) = %v+%v is not exact", x, y, s.hi, s.lo)
			}
		}
	}
}
