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

// Command llmathcheck grades an implementation
// of the llmath functions against conformance
// vectors and random sweeps of each function's
// domain.
//
// Usage:
//
//	llmathcheck [flags] [vectors.yaml ...]
//
// Vector files may be YAML or JSON, optionally
// zstd-compressed (".zst"). With no files, only
// the builtin C99 corpus is used (see -builtin).
// The exit status is 1 if any vector is over budget.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/SnellerInc/llmath"
	"github.com/SnellerInc/llmath/check"
	"github.com/SnellerInc/llmath/vectors"
)

var (
	dashimpl    string
	dashref     string
	dashbuiltin bool
	dashsweep   int
	dashseed    int64
	dashfuncs   string
	dashworkers int
	dashformat  string
	dasho       string
	dashdump    string
	dashv       bool
)

func init() {
	flag.StringVar(&dashimpl, "impl", "fallback", "implementation under test (fallback, native, detect)")
	flag.StringVar(&dashref, "ref", "native", "reference implementation for vectors without expectations")
	flag.BoolVar(&dashbuiltin, "builtin", true, "include the builtin C99 corpus")
	flag.IntVar(&dashsweep, "sweep", 0, "number of random inputs to sweep per function")
	flag.Int64Var(&dashseed, "seed", 1, "random seed for -sweep")
	flag.StringVar(&dashfuncs, "funcs", "", "comma-separated functions to check (default all)")
	flag.IntVar(&dashworkers, "workers", 0, "number of worker goroutines (default GOMAXPROCS)")
	flag.StringVar(&dashformat, "format", "text", "report format (text, json, yaml)")
	flag.StringVar(&dasho, "o", "", "write the report to this file instead of stdout")
	flag.StringVar(&dashdump, "dump", "", "save the assembled vectors to this file (.yaml or .yaml.zst)")
	flag.BoolVar(&dashv, "v", false, "log progress")
}

func exitf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// config is everything main gets from flags
type config struct {
	impl, ref llmath.Impl
	builtin   bool
	files     []string
	sweep     int
	seed      int64
	funcs     []string
	workers   int
	format    string
	dump      string
	logf      func(string, ...any)
}

var errNonConforming = errors.New("implementation does not conform")

func parseFuncs(list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}
	var out []string
	for _, name := range strings.Split(list, ",") {
		sym, ok := llmath.Lookup(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown function %q (have %s)", name, strings.Join(llmath.Names(), ", "))
		}
		out = append(out, sym.Name)
	}
	return out, nil
}

// assemble builds the vector set described by c
func assemble(c *config) (*vectors.Set, error) {
	set := &vectors.Set{Name: "llmathcheck"}
	var names []string
	if c.builtin {
		b := vectors.Builtin()
		names = append(names, b.Name)
		set.Append(b.Vectors...)
	}
	for _, file := range c.files {
		s, err := vectors.Load(file)
		if err != nil {
			return nil, err
		}
		names = append(names, s.Name)
		set.Append(s.Vectors...)
	}
	if c.sweep > 0 {
		fns := c.funcs
		if len(fns) == 0 {
			fns = llmath.Names()
		}
		for i, fn := range fns {
			r, _ := vectors.Domain(fn)
			vs, err := vectors.Sweep(fn, r, c.sweep, c.seed+int64(i))
			if err != nil {
				return nil, err
			}
			set.Append(vs...)
		}
		names = append(names, fmt.Sprintf("sweep(%d,seed=%d)", c.sweep, c.seed))
	}
	if len(c.funcs) > 0 {
		keep := make(map[string]bool)
		for _, fn := range c.funcs {
			keep[fn] = true
		}
		filtered := set.Vectors[:0]
		for _, v := range set.Vectors {
			if keep[v.Func] {
				filtered = append(filtered, v)
			}
		}
		set.Vectors = filtered
	}
	if len(names) > 0 {
		set.Name = strings.Join(names, "+")
	}
	if len(set.Vectors) == 0 {
		return nil, fmt.Errorf("no vectors to check")
	}
	return set, nil
}

func run(ctx context.Context, c *config, w io.Writer) error {
	set, err := assemble(c)
	if err != nil {
		return err
	}
	if c.dump != "" {
		if err := vectors.Save(c.dump, set); err != nil {
			return err
		}
	}
	chk := &check.Checker{
		Impl:    llmath.Select(c.impl),
		Ref:     llmath.Select(c.ref),
		Workers: c.workers,
		Logf:    c.logf,
	}
	if c.logf != nil {
		c.logf("checking %d vectors from %s: impl=%s ref=%s", len(set.Vectors), set.Name, chk.Impl.Impl, chk.Ref.Impl)
	}
	rep, err := chk.Run(ctx, set)
	if err != nil {
		return err
	}
	if c.format == "text" {
		err = rep.WriteSummary(w)
	} else {
		err = rep.Encode(w, c.format)
	}
	if err != nil {
		return err
	}
	if !rep.OK() {
		return fmt.Errorf("%w: %d vectors over budget", errNonConforming, len(rep.Failures))
	}
	return nil
}

func main() {
	flag.Parse()
	var c config
	var err error
	c.impl, err = llmath.ParseImpl(dashimpl)
	if err != nil {
		exitf("-impl: %s", err)
	}
	c.ref, err = llmath.ParseImpl(dashref)
	if err != nil {
		exitf("-ref: %s", err)
	}
	c.funcs, err = parseFuncs(dashfuncs)
	if err != nil {
		exitf("-funcs: %s", err)
	}
	switch dashformat {
	case "text", "json", "yaml":
	default:
		exitf("-format: unknown format %q", dashformat)
	}
	c.builtin = dashbuiltin
	c.files = flag.Args()
	c.sweep = dashsweep
	c.seed = dashseed
	c.workers = dashworkers
	c.format = dashformat
	c.dump = dashdump
	if dashv {
		c.logf = log.Printf
	}

	out := io.Writer(os.Stdout)
	var f *os.File
	if dasho != "" {
		f, err = os.Create(dasho)
		if err != nil {
			exitf("%s", err)
		}
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, &c, out)
	stop()
	if f != nil {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		exitf("%s", err)
	}
}
