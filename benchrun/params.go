// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"github.com/aclements/go-gg/generic/slice"
)

// Params returns the distinct workloads of runs, in order of first
// appearance, and for every pool name the sorted set of sizes used.
func Params(runs []*Run) (workloads []string, pools map[string][]int) {
	pools = make(map[string][]int)
	for _, r := range runs {
		workloads = append(workloads, r.Workload)
		for name, size := range r.ThreadConfig {
			pools[name] = append(pools[name], size)
		}
	}
	if workloads != nil {
		workloads = slice.Nub(workloads).([]string)
	}
	for name, sizes := range pools {
		sizes = slice.Nub(sizes).([]int)
		slice.Sort(sizes)
		pools[name] = sizes
	}
	return workloads, pools
}

func syscallNames(r *Run) []string {
	names := make([]string, len(r.SyscallMetrics))
	for i, sm := range r.SyscallMetrics {
		names[i] = sm.name
	}
	return names
}

// SyscallNames returns the sorted names of all syscalls traced in any
// of runs.
func SyscallNames(runs []*Run) []string {
	var all []string
	for _, r := range runs {
		all = append(all, syscallNames(r)...)
	}
	if len(all) == 0 {
		return nil
	}
	all = slice.Nub(all).([]string)
	slice.Sort(all)
	return all
}

// CommonSyscallNames returns the sorted names of the syscalls traced in
// every one of runs.
func CommonSyscallNames(runs []*Run) []string {
	if len(runs) == 0 {
		return nil
	}
	count := make(map[string]int)
	for _, r := range runs {
		for _, name := range slice.Nub(syscallNames(r)).([]string) {
			count[name]++
		}
	}
	var names []string
	for name, n := range count {
		if n == len(runs) {
			names = append(names, name)
		}
	}
	slice.Sort(names)
	return names
}

// FillSyscalls returns copies of runs in which every run carries every
// syscall name that appears in any run. Syscalls a run did not trace
// are appended with zero time and calls.
//
// This makes runs whose traces happened to miss a rare syscall
// acceptable to benchagg.Aggregate.
func FillSyscalls(runs []*Run) []*Run {
	names := SyscallNames(runs)
	out := make([]*Run, len(runs))
	for i, r := range runs {
		r2 := r.Clone()
		for _, name := range names {
			if _, ok := r2.Syscall(name); !ok {
				r2.SyscallMetrics = append(r2.SyscallMetrics, NewSyscallMetrics(name, 0, 0))
			}
		}
		out[i] = r2
	}
	return out
}
