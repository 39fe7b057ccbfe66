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

// Package vectors defines conformance vectors
// for the llmath shim functions and the file
// format they are stored in.
//
// A vector file is YAML (or JSON) of the form
//
//	name: c99
//	vectors:
//	  - {func: acosh, in: "1", want: "0"}
//	  - {func: log1p, in: "-0", want: "-0"}
//	  - {func: expm1, in: "0x1p-30", max_ulp: 1}
//	  - {func: atanh, in: "1", want: "+Inf", max_ulp: 0}
//
// Numbers are strings so that NaN, infinities,
// negative zero and hex floats survive exactly.
// A vector without "want" is graded against a
// reference implementation.
package vectors

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/SnellerInc/llmath"
	"github.com/dchest/siphash"
	"sigs.k8s.io/yaml"
)

// ErrBadVector is wrapped by every error
// describing malformed vector data.
var ErrBadVector = errors.New("bad vector")

// Float is a float64 that encodes as a string.
type Float float64

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Both quoted strings and bare JSON numbers
// are accepted.
func (f *Float) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrBadVector, err)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: number %q: %v", ErrBadVector, s, err)
	}
	*f = Float(v)
	return nil
}

// Vector is one input to one shim function.
type Vector struct {
	Func string `json:"func"`
	In   Float  `json:"in"`
	// Want is the expected result; nil
	// means "whatever the reference says".
	// Predicates expect 1 or 0.
	Want *Float `json:"want,omitempty"`
	// MaxULP is the error budget; nil means
	// the checker's default for Func. A budget
	// of zero also requires the sign of a zero
	// result to match.
	MaxULP *uint64 `json:"max_ulp,omitempty"`
}

// Budget returns v.MaxULP, or def if unset.
func (v *Vector) Budget(def uint64) uint64 {
	if v.MaxULP == nil {
		return def
	}
	return *v.MaxULP
}

// Expect returns v with Want set to w.
func (v Vector) Expect(w float64) Vector {
	f := Float(w)
	v.Want = &f
	return v
}

// Set is a named collection of vectors.
type Set struct {
	Name    string   `json:"name"`
	Vectors []Vector `json:"vectors"`
}

// Parse decodes a vector set from YAML or JSON
// and validates it.
func Parse(data []byte) (*Set, error) {
	s := new(Set)
	if err := yaml.Unmarshal(data, s); err != nil {
		// yaml flattens the errors of Float.UnmarshalJSON
		// into strings, so this wraps in every case
		return nil, fmt.Errorf("%w: %v", ErrBadVector, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes s as YAML.
func (s *Set) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Validate checks that every vector names
// a known function.
func (s *Set) Validate() error {
	for i := range s.Vectors {
		v := &s.Vectors[i]
		sym, ok := llmath.Lookup(v.Func)
		if !ok {
			return fmt.Errorf("%w: vector %d: unknown function %q", ErrBadVector, i, v.Func)
		}
		if sym.IsPredicate() && v.Want != nil && *v.Want != 0 && *v.Want != 1 {
			return fmt.Errorf("%w: vector %d: %s expects 0 or 1, not %s", ErrBadVector, i, v.Func, *v.Want)
		}
		// normalize link names to C99 names
		v.Func = sym.Name
	}
	return nil
}

// Append adds vs to the set.
func (s *Set) Append(vs ...Vector) {
	s.Vectors = append(s.Vectors, vs...)
}

// Count returns the number of vectors per function.
func (s *Set) Count() map[string]int {
	m := make(map[string]int)
	for i := range s.Vectors {
		m[s.Vectors[i].Func]++
	}
	return m
}

var fingerprintKey = [2]uint64{0x6c6c6d6174682d76, 0x6563746f72732d31}

// Fingerprint returns a hash of the vectors
// (not the name) of s. Two sets with equal
// fingerprints grade identically.
func (s *Set) Fingerprint() uint64 {
	buf := make([]byte, 0, len(s.Vectors)*32)
	for i := range s.Vectors {
		v := &s.Vectors[i]
		buf = append(buf, v.Func...)
		buf = append(buf, 0)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(v.In)))
		if v.Want != nil {
			buf = append(buf, 1)
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(*v.Want)))
		} else {
			buf = append(buf, 0)
		}
		if v.MaxULP != nil {
			buf = append(buf, 1)
			buf = binary.LittleEndian.AppendUint64(buf, *v.MaxULP)
		} else {
			buf = append(buf, 0)
		}
	}
	return siphash.Hash(fingerprintKey[0], fingerprintKey[1], buf)
}
