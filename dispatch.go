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
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"sync"
)

// Impl identifies a set of implementations of the shim functions.
type Impl uint32

const (
	// The pure-Go implementations in this package.
	ImplFallback Impl = iota

	// The platform implementations from package math.
	ImplNative

	// Choose based on the environment variable
	// (LLMATH_IMPL), defaulting to ImplNative.
	ImplDetect = Impl(0xFFFFFFFF)
)

const implEnvVar = "LLMATH_IMPL"

func (i Impl) String() string {
	switch i {
	case ImplFallback:
		return "fallback"
	case ImplNative:
		return "native"
	case ImplDetect:
		return "detect"
	}
	return fmt.Sprintf("Impl(%d)", uint32(i))
}

// ParseImpl parses the string form of an Impl.
func ParseImpl(s string) (Impl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fallback", "shim", "go":
		return ImplFallback, nil
	case "native", "math", "platform":
		return ImplNative, nil
	case "detect", "auto", "":
		return ImplDetect, nil
	}
	return ImplDetect, fmt.Errorf("llmath: unknown implementation %q", s)
}

// Funcs is a resolved set of shim functions.
type Funcs struct {
	// Impl is ImplFallback or ImplNative;
	// never ImplDetect.
	Impl Impl

	IsInf func(float64) bool
	IsNaN func(float64) bool
	Acosh func(float64) float64
	Asinh func(float64) float64
	Atanh func(float64) float64
	Expm1 func(float64) float64
	Log1p func(float64) float64
}

// Fallback returns the implementations from this package.
func Fallback() Funcs {
	return Funcs{
		Impl:  ImplFallback,
		IsInf: IsInf[float64],
		IsNaN: IsNaN[float64],
		Acosh: Acosh,
		Asinh: Asinh,
		Atanh: Atanh,
		Expm1: Expm1,
		Log1p: Log1p,
	}
}

// Native returns the implementations from package math.
func Native() Funcs {
	return Funcs{
		Impl:  ImplNative,
		IsInf: func(x float64) bool { return math.IsInf(x, 0) },
		IsNaN: math.IsNaN,
		Acosh: math.Acosh,
		Asinh: math.Asinh,
		Atanh: math.Atanh,
		Expm1: math.Expm1,
		Log1p: math.Log1p,
	}
}

// Select returns the Funcs for i, resolving
// ImplDetect against the environment.
func Select(i Impl) Funcs {
	if i == ImplDetect {
		i = implFromEnv()
	}
	if i == ImplFallback {
		return Fallback()
	}
	return Native()
}

func implFromEnv() Impl {
	env := os.Getenv(implEnvVar)
	if env == "" {
		return ImplNative
	}
	i, err := ParseImpl(env)
	if err != nil {
		log.Printf("%s: %v; using %s", implEnvVar, err, ImplNative)
		return ImplNative
	}
	if i == ImplDetect {
		return ImplNative
	}
	return i
}

var (
	defaultOnce  sync.Once
	defaultFuncs Funcs
)

// Default returns Select(ImplDetect), resolved
// once per process.
func Default() Funcs {
	defaultOnce.Do(func() {
		defaultFuncs = Select(ImplDetect)
	})
	return defaultFuncs
}
