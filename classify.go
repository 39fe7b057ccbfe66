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

import (
	"math"

	"golang.org/x/exp/constraints"
)

// IsNaN reports whether x is an IEEE-754 "not-a-number" value.
func IsNaN[F constraints.Float](x F) bool {
	return x != x
}

// IsInf reports whether x is positive or negative infinity.
func IsInf[F constraints.Float](x F) bool {
	// x-x is NaN only for infinities and NaNs
	d := x - x
	return d != d && x == x
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite[F constraints.Float](x F) bool {
	return x-x == 0
}

func isNegZero(x float64) bool {
	return x == 0 && math.Signbit(x)
}

func fabs(x float64) float64 {
	return math.Float64frombits(math.Float64bits(x) &^ (1 << 63))
}

// mulsign returns x with its sign flipped when y is negative.
func mulsign(x, y float64) float64 {
	return math.Float64frombits(math.Float64bits(x) ^ (math.Float64bits(y) & (1 << 63)))
}
