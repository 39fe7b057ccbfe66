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

// Package ulp measures the distance between
// float64 values in units in the last place.
package ulp

import "math"

// NaNMismatch is the distance between a NaN
// and any non-NaN value.
const NaNMismatch = math.MaxUint64

// ordered maps x onto a signed integer that is
// monotonic in x, with +0 and -0 both mapping to 0
func ordered(x float64) int64 {
	b := int64(math.Float64bits(x))
	if b < 0 {
		b = math.MinInt64 - b
	}
	return b
}

// Distance returns the number of representable
// float64 values between a and b, counting one
// endpoint. Infinities sit one step beyond
// ±MaxFloat64. Two NaNs are at distance 0;
// a NaN and a number are at distance NaNMismatch.
func Distance(a, b float64) uint64 {
	an, bn := a != a, b != b
	if an || bn {
		if an && bn {
			return 0
		}
		return NaNMismatch
	}
	oa, ob := ordered(a), ordered(b)
	if oa < ob {
		oa, ob = ob, oa
	}
	// the difference can exceed MaxInt64 but always
	// fits in a uint64, so wraparound gives the right answer
	return uint64(oa) - uint64(ob)
}

// Within reports whether got is at most n ULP from want.
func Within(got, want float64, n uint64) bool {
	return Distance(got, want) <= n
}

// Next returns the float64 n steps above x
// (or below, for negative n), crossing zero
// without stopping at -0.
func Next(x float64, n int64) float64 {
	o := ordered(x) + n
	if o < 0 {
		return math.Float64frombits(uint64(math.MinInt64 - o))
	}
	return math.Float64frombits(uint64(o))
}
