// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchagg groups benchmark runs by configuration and
// aggregates repetitions of the same configuration.
//
// The usual entry point is MinMeanMax, which turns a flat list of runs
// into one Triple per configuration, ordered for plotting. Aggregate
// exposes the underlying element-wise aggregation.
package benchagg

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/tpool-lab/poolbench/benchrun"
)

// A Func is an aggregation function over repetitions.
type Func int

const (
	Min Func = iota
	Mean
	Max
)

var funcNames = [...]string{Min: "min", Mean: "mean", Max: "max"}

func (f Func) String() string {
	if f < 0 || int(f) >= len(funcNames) {
		return fmt.Sprintf("Func(%d)", int(f))
	}
	return funcNames[f]
}

// ParseFunc returns the Func called name ("min", "mean" or "max").
func ParseFunc(name string) (Func, error) {
	for f, n := range funcNames {
		if n == name {
			return Func(f), nil
		}
	}
	return 0, fmt.Errorf("invalid aggregation function %q", name)
}

// apply aggregates xs, which must be non-empty.
func (f Func) apply(xs []float64) float64 {
	switch f {
	case Min:
		lo, _ := stats.Bounds(xs)
		return lo
	case Max:
		_, hi := stats.Bounds(xs)
		return hi
	case Mean:
		return stats.Mean(xs)
	}
	panic(fmt.Sprintf("bad aggregation function %v", f))
}

func (f Func) valid() bool {
	return f >= 0 && int(f) < len(funcNames)
}

func sameKeys(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func sameSyscalls(a, b *benchrun.Run) bool {
	if len(a.SyscallMetrics) != len(b.SyscallMetrics) {
		return false
	}
	for _, sm := range a.SyscallMetrics {
		if _, ok := b.Syscall(sm.Name()); !ok {
			return false
		}
	}
	return true
}

// checkComparable verifies that runs may be aggregated together: they
// must share the workload, thread config, I/O keys and syscall names.
func checkComparable(runs []*benchrun.Run) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to aggregate")
	}
	first := runs[0]
	if err := first.Validate(); err != nil {
		return err
	}
	for _, r := range runs[1:] {
		switch {
		case r.Workload != first.Workload:
			return fmt.Errorf("cannot aggregate workloads %q and %q", first.Workload, r.Workload)
		case !r.ThreadConfig.Equal(first.ThreadConfig):
			return fmt.Errorf("cannot aggregate thread configs %v and %v", first.ThreadConfig, r.ThreadConfig)
		case !sameKeys(r.IOThroughput, first.IOThroughput):
			return fmt.Errorf("%s: runs have different io_throughput keys", first.ParamsString())
		case !sameSyscalls(r, first):
			return fmt.Errorf("%s: runs traced different syscalls", first.ParamsString())
		}
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Aggregate combines repetitions of one configuration into a single
// run. Each scalar field is aggregated with fn directly. Syscall
// metrics are regrouped by name and their total time and call count
// are aggregated independently; the average call time is recomputed
// from the aggregated values. I/O throughput is aggregated per key.
//
// All runs must share workload, thread config, I/O keys and syscall
// names; otherwise Aggregate returns an error. Use GroupByConfig to
// split runs first, and benchrun.FillSyscalls if traces may omit rare
// syscalls.
func Aggregate(runs []*benchrun.Run, fn Func) (*benchrun.Run, error) {
	if !fn.valid() {
		return nil, fmt.Errorf("invalid aggregation function %v", fn)
	}
	if err := checkComparable(runs); err != nil {
		return nil, err
	}
	first := runs[0]
	col := func(get func(r *benchrun.Run) float64) float64 {
		xs := make([]float64, len(runs))
		for i, r := range runs {
			xs[i] = get(r)
		}
		return fn.apply(xs)
	}

	out := &benchrun.Run{
		Workload:     first.Workload,
		ThreadConfig: first.ThreadConfig.Clone(),
		RuntimeS:     col(func(r *benchrun.Run) float64 { return r.RuntimeS }),
		AvgLatencyMs: col(func(r *benchrun.Run) float64 { return r.AvgLatencyMs }),
		IOWait:       col(func(r *benchrun.Run) float64 { return r.IOWait }),
	}

	// Regroup the flattened syscall metrics by name, keeping the
	// order in which names first appear.
	var order []string
	totals := make(map[string][]float64)
	calls := make(map[string][]float64)
	for _, r := range runs {
		for _, sm := range r.SyscallMetrics {
			name := sm.Name()
			if _, ok := totals[name]; !ok {
				order = append(order, name)
			}
			totals[name] = append(totals[name], sm.TotalTimeMs())
			calls[name] = append(calls[name], sm.NrCalls())
		}
	}
	if len(order) > 0 {
		out.SyscallMetrics = make([]benchrun.SyscallMetrics, len(order))
		for i, name := range order {
			out.SyscallMetrics[i] = benchrun.NewSyscallMetrics(name, fn.apply(totals[name]), fn.apply(calls[name]))
		}
	}

	if first.IOThroughput != nil {
		out.IOThroughput = make(map[string]float64, len(first.IOThroughput))
		for key := range first.IOThroughput {
			out.IOThroughput[key] = col(func(r *benchrun.Run) float64 { return r.IOThroughput[key] })
		}
	}
	return out, nil
}

// A Triple holds the element-wise minimum, mean and maximum of the
// repetitions of one configuration.
type Triple struct {
	Min, Mean, Max *benchrun.Run
}

// Workload returns the workload of t.
func (t Triple) Workload() string { return t.Mean.Workload }

// MinMeanMax returns one Triple per distinct configuration in runs.
// Triples are sorted by the size of the first pool (in the natural
// order of benchrun.ThreadConfig); configurations with equal sizes
// keep the order in which they first appear in runs.
func MinMeanMax(runs []*benchrun.Run) ([]Triple, error) {
	groups := GroupByConfig(runs)
	triples := make([]Triple, 0, len(groups))
	for _, g := range groups {
		var t Triple
		for _, agg := range []struct {
			fn  Func
			dst **benchrun.Run
		}{{Min, &t.Min}, {Mean, &t.Mean}, {Max, &t.Max}} {
			r, err := Aggregate(g.Runs, agg.fn)
			if err != nil {
				return nil, err
			}
			*agg.dst = r
		}
		triples = append(triples, t)
	}
	sort.SliceStable(triples, func(i, j int) bool {
		return firstSize(triples[i]) < firstSize(triples[j])
	})
	return triples, nil
}

// firstSize orders configurations without pools before all others.
func firstSize(t Triple) int {
	_, size, ok := t.Mean.ThreadConfig.First()
	if !ok {
		return math.MinInt
	}
	return size
}
