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

// The polynomial coefficients and reductions in this file come from
// the SLEEF library <https://github.com/shibatch/sleef>; see ddouble.go
// for the license notice.

const (
	dblMin = 2.2250738585072014e-308
	rln2   = 1.44269504088896340735992468100189213742664595415298593413544940693
	l2u    = 0.69314718055966295651160180568695068359375
	l2l    = 0.28235290563031577122588448175013436025525412068e-12

	// largest x for which e^x-1 is finite
	expm1Overflow = 709.782712893383996732223
	// below this e^x-1 rounds to -1
	expm1Saturate = -36.736800569677101399113302437
	// above this 1+x rounds to x, and the
	// reduction below would overflow
	log1pLarge = 1.0e+307
)

// ln2DD is log(2) as a double-double.
var ln2DD = dd(0.693147180559945286226764, 2.319046813846299558417771e-17)

func ilogb2k(d float64) int64 {
	return int64((math.Float64bits(d)>>52)&0x7ff) - 0x3ff
}

// ldexp3k is a fast ldexp with no denormal handling.
func ldexp3k(d float64, e int64) float64 {
	return math.Float64frombits(uint64(int64(math.Float64bits(d)) + (e << 52)))
}

func pow2i(q int64) float64 {
	return math.Float64frombits(uint64((q + 0x3ff) << 52))
}

// ldexp2k is ldexp for a short range of exponents.
func ldexp2k(d float64, e int64) float64 {
	return d * pow2i(e>>1) * pow2i(e-(e>>1))
}

func rintki(x float64) int64 {
	if x < 0 {
		return int64(x - 0.5)
	}
	return int64(x + 0.5)
}

func poly3(x, x2, c2, c1, c0 float64) float64 {
	return mla(x2, c2, mla(x, c1, c0))
}

func poly4(x, x2, c3, c2, c1, c0 float64) float64 {
	return mla(x2, mla(x, c3, c2), mla(x, c1, c0))
}

func poly7(x, x2, x4, c6, c5, c4, c3, c2, c1, c0 float64) float64 {
	return mla(x4, poly3(x, x2, c6, c5, c4), poly4(x, x2, c3, c2, c1, c0))
}

// logTail evaluates the odd series of log((1+x)/(1-x))
// beyond its linear term, in powers of x.hi^2.
func logTail(x ddouble) float64 {
	x2 := x.hi * x.hi
	x4 := x2 * x2
	x8 := x4 * x4
	t := poly7(x2, x4, x8,
		0.1532076988502701353e+0,
		0.1525629051003428716e+0,
		0.1818605932937785996e+0,
		0.2222214519839380009e+0,
		0.2857142932794299317e+0,
		0.3999999999635251990e+0,
		0.6666666666667333541e+0,
	)
	return x2 * x.hi * t
}

// ln computes the natural logarithm of d.
//
// d is reduced to m*2^e with m in [0.75, 1.5) and
// log(m) = 2*atanh((m-1)/(m+1)) is summed in double-double.
func ln(d float64) float64 {
	o := d < dblMin
	if o {
		d *= float64(int64(1<<32)) * float64(int64(1<<32))
	}

	e := ilogb2k(d * (1.0 / 0.75))
	m := ldexp3k(d, -e)

	if o {
		e -= 64
	}

	x := twoSum(-1.0, m).div(twoSum(1.0, m))
	s := ln2DD.mulf(float64(e))
	s = s.add(x.scale(2.0))
	s = s.addf(logTail(x))
	r := s.value()

	switch {
	case math.IsInf(d, 1):
		r = math.Inf(1)
	case d < 0 || d != d:
		r = math.NaN()
	case d == 0:
		r = math.Inf(-1)
	}
	return r
}

// Log1p returns log(1+x), the natural logarithm of 1 plus
// its argument. It is more accurate than log(1+x) when
// x is near zero.
//
// Special cases are:
//
//	Log1p(±0) = ±0
//	Log1p(-1) = -Inf
//	Log1p(+Inf) = +Inf
//	Log1p(x < -1) = NaN
//	Log1p(NaN) = NaN
func Log1p(x float64) float64 {
	dp1 := x + 1.0
	o := dp1 < dblMin
	if o {
		dp1 *= float64(int64(1<<32)) * float64(int64(1<<32))
	}

	// 1+x = m*2^e where m is formed without
	// rounding away the low bits of x
	e := ilogb2k(dp1 * (1.0 / 0.75))
	t := ldexp3k(1.0, -e)
	m := mla(x, t, t-1.0)

	if o {
		e -= 64
	}

	q := dd(m, 0).div(quickSum(2.0, m))
	s := ln2DD.mulf(float64(e))
	s = s.add(q.scale(2.0))
	s = s.addf(logTail(q))
	r := s.value()

	switch {
	case x > log1pLarge:
		r = ln(x)
	case x < -1.0 || x != x:
		r = math.NaN()
	case x == -1.0:
		r = math.Inf(-1)
	case isNegZero(x):
		r = math.Copysign(0, -1)
	}
	return r
}

// expk2 returns e^d in double-double for a double-double d.
func expk2(d ddouble) ddouble {
	q := rintki(d.value() * rln2)
	s := d.add2f(float64(q) * -l2u)
	s = s.add2f(float64(q) * -l2l)

	u := +0.1602472219709932072e-9
	u = mla(u, s.hi, +0.2092255183563157007e-8)
	u = mla(u, s.hi, +0.2505230023782644465e-7)
	u = mla(u, s.hi, +0.2755724800902135303e-6)
	u = mla(u, s.hi, +0.2755731892386044373e-5)
	u = mla(u, s.hi, +0.2480158735605815065e-4)
	u = mla(u, s.hi, +0.1984126984148071858e-3)
	u = mla(u, s.hi, +0.1388888888886763255e-2)
	u = mla(u, s.hi, +0.8333333333333347095e-2)
	u = mla(u, s.hi, +0.4166666666666669905e-1)

	t := s.mulf(u).add2f(+0.1666666666666666574e+0)
	t = s.mul(t).add2f(0.5)
	t = s.add2(s.squ().mul(t))
	t = fadd2To(1.0, t)

	t.hi = ldexp2k(t.hi, q)
	t.lo = ldexp2k(t.lo, q)

	if d.hi < -1000 {
		return dd(0, 0)
	}
	return t
}

// Expm1 returns e**x - 1, the base-e exponential of x minus 1.
// It is more accurate than Exp(x) - 1 when x is near zero.
//
// Special cases are:
//
//	Expm1(+Inf) = +Inf
//	Expm1(-Inf) = -1
//	Expm1(±0) = ±0
//	Expm1(NaN) = NaN
//
// Very large values overflow to -1 or +Inf.
func Expm1(x float64) float64 {
	if x != x {
		return x
	}
	r := expk2(dd(x, 0)).add2f(-1.0).value()

	switch {
	case x > expm1Overflow:
		r = math.Inf(1)
	case x < expm1Saturate:
		r = -1.0
	case isNegZero(x):
		r = math.Copysign(0, -1)
	}
	return r
}
