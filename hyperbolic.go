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

package llmath

import "math"

// The argument reductions below are the ones used by
// FreeBSD's msun (e_acosh.c, s_asinh.c, e_atanh.c),
// which came with this notice:
//
// ====================================================
// Copyright (C) 1993 by Sun Microsystems, Inc. All rights reserved.
//
// Developed at SunPro, a Sun Microsystems, Inc. business.
// Permission to use, copy, modify, and distribute this
// software is freely granted, provided that this notice
// is preserved.
// ====================================================

const (
	ln2 = 6.93147180559945286227e-01
	// below this, asinh(x) and atanh(x) round to x
	nearZero = 1.0 / (1 << 28)
	// above this, sqrt(x*x±1) rounds to |x|
	large = 1 << 28
)

// Acosh returns the inverse hyperbolic cosine of x.
//
//	acosh(x) = log(x + sqrt(x*x-1))
//
// is evaluated as log(x)+ln2 for huge x,
// log(2x-1/(x+sqrt(x*x-1))) for x > 2 and
// log1p(t+sqrt(2t+t*t)) with t = x-1 otherwise.
//
// Special cases are:
//
//	Acosh(+Inf) = +Inf
//	Acosh(x) = NaN if x < 1
//	Acosh(NaN) = NaN
func Acosh(x float64) float64 {
	switch {
	case x < 1 || x != x:
		return math.NaN()
	case x == 1:
		return 0
	case x >= large:
		return ln(x) + ln2
	case x > 2:
		return ln(2*x - 1/(x+math.Sqrt(x*x-1)))
	}
	t := x - 1
	return Log1p(t + math.Sqrt(2*t+t*t))
}

// Asinh returns the inverse hyperbolic sine of x.
//
// Special cases are:
//
//	Asinh(±0) = ±0
//	Asinh(±Inf) = ±Inf
//	Asinh(NaN) = NaN
func Asinh(x float64) float64 {
	if x != x || IsInf(x) {
		return x
	}
	a := fabs(x)
	var r float64
	switch {
	case a > large:
		r = ln(a) + ln2
	case a > 2:
		r = ln(2*a + 1/(math.Sqrt(a*a+1)+a))
	case a < nearZero:
		return x
	default:
		r = Log1p(a + a*a/(1+math.Sqrt(1+a*a)))
	}
	return mulsign(r, x)
}

// Atanh returns the inverse hyperbolic tangent of x.
//
// For |x| >= 0.5 it uses 0.5*log1p(2|x|/(1-|x|)),
// otherwise 0.5*log1p(2|x|+2|x|*|x|/(1-|x|)).
//
// Special cases are:
//
//	Atanh(1) = +Inf
//	Atanh(±0) = ±0
//	Atanh(-1) = -Inf
//	Atanh(x) = NaN if x < -1 or x > 1
//	Atanh(NaN) = NaN
func Atanh(x float64) float64 {
	switch {
	case x < -1 || x > 1 || x != x:
		return math.NaN()
	case x == 1:
		return math.Inf(1)
	case x == -1:
		return math.Inf(-1)
	}
	a := fabs(x)
	var r float64
	switch {
	case a < nearZero:
		return x
	case a < 0.5:
		t := a + a
		r = 0.5 * Log1p(t+t*a/(1-a))
	default:
		r = 0.5 * Log1p((a+a)/(1-a))
	}
	return mulsign(r, x)
}
