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

import "math"

// The double-double arithmetic in this file follows the SLEEF library
// <https://github.com/shibatch/sleef>, which is distributed under the
// following conditions:
//
//	Copyright Naoki Shibata and contributors 2010 - 2021.
//
// Distributed under the Boost Software License, Version 1.0.
//
//	(See accompanying file LICENSE.txt or copy at
//	      http://www.boost.org/LICENSE_1_0.txt)

// ddouble is an unevaluated sum hi+lo with |lo| <= ulp(hi)/2
// (after normalization).
type ddouble struct {
	hi float64
	lo float64
}

func dd(hi, lo float64) ddouble { return ddouble{hi, lo} }

// upper clears the low 27 bits of the mantissa so that
// products of two upper halves are exact (Dekker split).
func upper(d float64) float64 {
	return math.Float64frombits(math.Float64bits(d) & 0xfffffffff8000000)
}

func mla(x, y, z float64) float64 {
	return math.FMA(x, y, z)
}

// twoSum returns x+y exactly, for any ordering of |x| and |y|.
func twoSum(x, y float64) ddouble {
	var r ddouble
	r.hi = x + y
	v := r.hi - x
	r.lo = (x - (r.hi - v)) + (y - v)
	return r
}

// quickSum returns x+y exactly; requires |x| >= |y|.
func quickSum(x, y float64) ddouble {
	var r ddouble
	r.hi = x + y
	r.lo = x - r.hi + y
	return r
}

// add requires |x| >= |y|.
func (x ddouble) add(y ddouble) ddouble {
	var r ddouble
	r.hi = x.hi + y.hi
	r.lo = x.hi - r.hi + y.hi + x.lo + y.lo
	return r
}

// addf requires |x| >= |y|.
func (x ddouble) addf(y float64) ddouble {
	var r ddouble
	r.hi = x.hi + y
	r.lo = x.hi - r.hi + y + x.lo
	return r
}

// add2 has no ordering requirement on |x| and |y|.
func (x ddouble) add2(y ddouble) ddouble {
	var r ddouble
	r.hi = x.hi + y.hi
	v := r.hi - x.hi
	r.lo = (x.hi - (r.hi - v)) + (y.hi - v)
	r.lo += x.lo + y.lo
	return r
}

// add2f has no ordering requirement on |x| and |y|.
func (x ddouble) add2f(y float64) ddouble {
	var r ddouble
	r.hi = x.hi + y
	v := r.hi - x.hi
	r.lo = (x.hi - (r.hi - v)) + (y - v)
	r.lo += x.lo
	return r
}

// fadd2To returns x+y with no ordering requirement.
func fadd2To(x float64, y ddouble) ddouble {
	var r ddouble
	r.hi = x + y.hi
	v := r.hi - x
	r.lo = (x - (r.hi - v)) + (y.hi - v) + y.lo
	return r
}

func (x ddouble) scale(s float64) ddouble {
	return ddouble{x.hi * s, x.lo * s}
}

func (x ddouble) value() float64 { return x.hi + x.lo }

func (x ddouble) mulf(y float64) ddouble {
	var r ddouble
	r.hi = x.hi * y
	if useFMA {
		r.lo = math.FMA(x.hi, y, -r.hi) + x.lo*y
		return r
	}
	xh := upper(x.hi)
	xl := x.hi - xh
	yh := upper(y)
	yl := y - yh
	r.lo = xh*yh - r.hi + xl*yh + xh*yl + xl*yl + x.lo*y
	return r
}

func (x ddouble) mul(y ddouble) ddouble {
	var r ddouble
	r.hi = x.hi * y.hi
	if useFMA {
		r.lo = math.FMA(x.hi, y.hi, -r.hi) + x.hi*y.lo + x.lo*y.hi
		return r
	}
	xh := upper(x.hi)
	xl := x.hi - xh
	yh := upper(y.hi)
	yl := y.hi - yh
	r.lo = xh*yh - r.hi + xl*yh + xh*yl + xl*yl + x.hi*y.lo + x.lo*y.hi
	return r
}

func (x ddouble) squ() ddouble {
	var r ddouble
	r.hi = x.hi * x.hi
	if useFMA {
		r.lo = math.FMA(x.hi, x.hi, -r.hi) + x.hi*(x.lo+x.lo)
		return r
	}
	xh := upper(x.hi)
	xl := x.hi - xh
	r.lo = xh*xh - r.hi + (xh+xh)*xl + xl*xl + x.hi*(x.lo+x.lo)
	return r
}

// div returns x/d.
func (x ddouble) div(d ddouble) ddouble {
	t := 1.0 / d.hi
	var q ddouble
	q.hi = x.hi * t
	if useFMA {
		// u is the error of x.hi*t plus the error of t as 1/d.hi,
		// both recovered exactly
		u := math.FMA(x.hi, t, -q.hi) + q.hi*math.FMA(-d.hi, t, 1)
		q.lo = t*(x.lo-q.hi*d.lo) + u
		return q
	}
	dh := upper(d.hi)
	dl := d.hi - dh
	th := upper(t)
	tl := t - th
	nhh := upper(x.hi)
	nhl := x.hi - nhh
	u := -q.hi + nhh*th + nhh*tl + nhl*th + nhl*tl + q.hi*(1-dh*th-dh*tl-dl*th-dl*tl)
	q.lo = t*(x.lo-q.hi*d.lo) + u
	return q
}
