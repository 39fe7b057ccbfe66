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

// Package llmath provides portable implementations
// of the C99 math functions that some host runtimes
// cannot rely on the platform C library to supply:
// isinf, isnan, acosh, asinh, atanh, expm1 and log1p.
//
// Every function is a pure function of its argument.
// Domain errors are reported the way C99 reports them
// to callers that do not inspect errno: the result is
// NaN, or a signed infinity at a pole. Nothing in this
// package returns an error or panics on bad input.
//
// Hosts that link against these functions by name
// should go through Lookup (or a Table returned by
// BindTo); hosts that just want "the best available"
// implementation should use Default.
package llmath
