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
	"strings"

	"golang.org/x/exp/slices"
)

// linkPrefix is the prefix used by translated C code
// that links against this shim instead of libm.
const linkPrefix = "_pypy_math_"

// Symbol is a named shim function as a host
// runtime would bind it. Exactly one of Unary
// and Pred is set.
type Symbol struct {
	Name  string
	Unary func(float64) float64
	Pred  func(float64) bool
}

// IsPredicate reports whether s is a classification
// function (isinf, isnan) returning a C int flag.
func (s Symbol) IsPredicate() bool { return s.Pred != nil }

// Call evaluates s at x. Predicates return 1 or 0.
func (s Symbol) Call(x float64) float64 {
	if s.Pred != nil {
		if s.Pred(x) {
			return 1
		}
		return 0
	}
	return s.Unary(x)
}

// Table maps C names to one implementation of the shim.
type Table struct {
	impl   Impl
	byName map[string]Symbol
	list   []Symbol
}

// BindTo builds the symbol table for f.
func BindTo(f Funcs) *Table {
	list := []Symbol{
		{Name: "isinf", Pred: f.IsInf},
		{Name: "isnan", Pred: f.IsNaN},
		{Name: "acosh", Unary: f.Acosh},
		{Name: "asinh", Unary: f.Asinh},
		{Name: "atanh", Unary: f.Atanh},
		{Name: "expm1", Unary: f.Expm1},
		{Name: "log1p", Unary: f.Log1p},
	}
	slices.SortFunc(list, func(a, b Symbol) bool {
		return a.Name < b.Name
	})
	t := &Table{
		impl:   f.Impl,
		byName: make(map[string]Symbol, len(list)),
		list:   list,
	}
	for i := range list {
		t.byName[list[i].Name] = list[i]
	}
	return t
}

// Impl returns the implementation the table is bound to.
func (t *Table) Impl() Impl { return t.impl }

// Lookup finds a symbol by its C99 name ("acosh"),
// its link name ("_pypy_math_acosh") or its libc
// export name ("Xacosh").
func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.byName[canonicalName(name)]
	return s, ok
}

// Symbols returns every symbol, sorted by name.
// The returned slice must not be modified.
func (t *Table) Symbols() []Symbol { return t.list }

func canonicalName(name string) string {
	if strings.HasPrefix(name, linkPrefix) {
		return name[len(linkPrefix):]
	}
	if len(name) > 1 && name[0] == 'X' {
		return name[1:]
	}
	return name
}

var fallbackTable = BindTo(Fallback())

// Lookup finds a symbol in the table
// bound to this package's implementations.
func Lookup(name string) (Symbol, bool) {
	return fallbackTable.Lookup(name)
}

// Symbols lists the shim functions of this package.
func Symbols() []Symbol {
	return fallbackTable.Symbols()
}

// Names returns the C99 names of the shim functions.
func Names() []string {
	names := make([]string, len(fallbackTable.list))
	for i := range fallbackTable.list {
		names[i] = fallbackTable.list[i].Name
	}
	return names
}
