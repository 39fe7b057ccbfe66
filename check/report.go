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

package check

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/SnellerInc/llmath/vectors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"
)

// Report is the result of one Checker.Run.
type Report struct {
	RunID  string `json:"run_id"`
	Corpus string `json:"corpus"`
	// Fingerprint identifies the vectors;
	// see vectors.Set.Fingerprint.
	Fingerprint string       `json:"fingerprint"`
	Impl        string       `json:"impl"`
	Ref         string       `json:"ref"`
	FMA         bool         `json:"fma"`
	Funcs       []FuncResult `json:"funcs"`
	Failures    []Failure    `json:"failures,omitempty"`
}

// FuncResult summarizes the vectors for one function.
type FuncResult struct {
	Func    string        `json:"func"`
	Count   int           `json:"count"`
	Failed  int           `json:"failed"`
	MaxULP  uint64        `json:"max_ulp"`
	WorstIn vectors.Float `json:"worst_in"`
	// Worst holds the largest errors seen,
	// largest first.
	Worst []Sample `json:"worst,omitempty"`
}

// Sample is one evaluated vector.
type Sample struct {
	In   vectors.Float `json:"in"`
	Got  vectors.Float `json:"got"`
	Want vectors.Float `json:"want"`
	ULP  uint64        `json:"ulp"`
}

// lessSample orders by error, then by input
// so that ties rank the same on every run
func lessSample(a, b Sample) bool {
	if a.ULP != b.ULP {
		return a.ULP < b.ULP
	}
	return a.In > b.In
}

// Failure is a vector that exceeded its budget.
type Failure struct {
	Func   string        `json:"func"`
	In     vectors.Float `json:"in"`
	Got    vectors.Float `json:"got"`
	Want   vectors.Float `json:"want"`
	ULP    uint64        `json:"ulp"`
	Budget uint64        `json:"budget"`
}

func (r *Report) setFuncs(m map[string]*FuncResult) {
	names := maps.Keys(m)
	slices.Sort(names)
	r.Funcs = make([]FuncResult, 0, len(names))
	for _, name := range names {
		r.Funcs = append(r.Funcs, *m[name])
	}
	slices.SortStableFunc(r.Failures, func(a, b Failure) bool {
		return a.Func < b.Func
	})
}

// OK reports whether every vector was within budget.
func (r *Report) OK() bool { return len(r.Failures) == 0 }

// Func returns the result for fn, if any
// vectors exercised it.
func (r *Report) Func(fn string) (FuncResult, bool) {
	for i := range r.Funcs {
		if r.Funcs[i].Func == fn {
			return r.Funcs[i], true
		}
	}
	return FuncResult{}, false
}

// Encode writes r to w in the given format,
// which is "json" or "yaml".
func (r *Report) Encode(w io.Writer, format string) error {
	var buf []byte
	var err error
	switch format {
	case "json":
		buf, err = json.MarshalIndent(r, "", "  ")
		buf = append(buf, '\n')
	case "yaml", "yml":
		buf, err = yaml.Marshal(r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// WriteSummary writes a short human-readable
// table of r to w.
func (r *Report) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s (%s) impl=%s ref=%s fma=%v\n", r.Corpus, r.Fingerprint, r.Impl, r.Ref, r.FMA)
	if err != nil {
		return err
	}
	for i := range r.Funcs {
		f := &r.Funcs[i]
		_, err = fmt.Fprintf(w, "  %-6s %8d vectors %6d failed  max %d ulp at %s\n",
			f.Func, f.Count, f.Failed, f.MaxULP, f.WorstIn)
		if err != nil {
			return err
		}
	}
	for i := range r.Failures {
		f := &r.Failures[i]
		_, err = fmt.Fprintf(w, "  FAIL %s(%s) = %s; wanted %s (%d > %d ulp)\n",
			f.Func, f.In, f.Got, f.Want, f.ULP, f.Budget)
		if err != nil {
			return err
		}
	}
	return nil
}
