// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchrun defines the common data model for worker-pool
// benchmark runs.
//
// A Run is one execution of the benchmark under one configuration.
// Runs are produced by the trace parsers in package tracefmt, stored as
// JSON arrays, and consumed read-only by package benchagg and package
// benchchart. Callers must not modify a Run after it has been
// constructed; derived runs are always built as fresh values.
package benchrun

import (
	"fmt"
	"sort"
	"strings"
)

// Keys of Run.IOThroughput.
const (
	ReadBytes  = "read_bytes"
	WriteBytes = "write_bytes"
)

// A SyscallMetrics records the time spent in one system call during a
// run.
//
// The zero value is a metric with an empty name. Use NewSyscallMetrics
// to construct one; the average call time is computed at construction
// and cannot be changed afterwards.
type SyscallMetrics struct {
	name        string
	totalTimeMs float64
	nrCalls     float64
	avgCallMs   float64
}

// NewSyscallMetrics returns the metrics for syscall name. If nrCalls
// is 0, the average call time is 0.
func NewSyscallMetrics(name string, totalTimeMs, nrCalls float64) SyscallMetrics {
	var avg float64
	if nrCalls != 0 {
		avg = totalTimeMs / nrCalls
	}
	return SyscallMetrics{name, totalTimeMs, nrCalls, avg}
}

// Name returns the system call name, for example "write".
func (m SyscallMetrics) Name() string { return m.name }

// TotalTimeMs returns the total time spent in the call, in milliseconds.
func (m SyscallMetrics) TotalTimeMs() float64 { return m.totalTimeMs }

// NrCalls returns the number of calls. Aggregated metrics may carry a
// fractional count.
func (m SyscallMetrics) NrCalls() float64 { return m.nrCalls }

// AvgCallTimeMs returns TotalTimeMs / NrCalls, or 0 if there were no
// calls.
func (m SyscallMetrics) AvgCallTimeMs() float64 { return m.avgCallMs }

func (m SyscallMetrics) String() string {
	return fmt.Sprintf("%s(total=%vms calls=%v avg=%vms)", m.name, m.totalTimeMs, m.nrCalls, m.avgCallMs)
}

// A ThreadConfig maps pool names to pool sizes.
//
// The natural enumeration order of a ThreadConfig is ascending by pool
// name. Every function in this module that enumerates a ThreadConfig
// uses that order, so two configs with the same content always behave
// identically.
type ThreadConfig map[string]int

// Names returns the pool names of c in natural order.
func (c ThreadConfig) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// First returns the first pool name and size of c in natural order.
// It returns false if c is empty.
func (c ThreadConfig) First() (name string, size int, ok bool) {
	names := c.Names()
	if len(names) == 0 {
		return "", 0, false
	}
	return names[0], c[names[0]], true
}

// Equal reports whether c and o have the same pools and sizes.
func (c ThreadConfig) Equal(o ThreadConfig) bool {
	if len(c) != len(o) {
		return false
	}
	for name, size := range c {
		if osize, ok := o[name]; !ok || osize != size {
			return false
		}
	}
	return true
}

// Clone returns a copy of c.
func (c ThreadConfig) Clone() ThreadConfig {
	if c == nil {
		return nil
	}
	c2 := make(ThreadConfig, len(c))
	for k, v := range c {
		c2[k] = v
	}
	return c2
}

// String returns the pool assignments of c as "name:size-name:size".
func (c ThreadConfig) String() string {
	var b strings.Builder
	for i, name := range c.Names() {
		if i > 0 {
			b.WriteByte('-')
		}
		fmt.Fprintf(&b, "%s:%d", name, c[name])
	}
	return b.String()
}

// A Run is the result of one benchmark execution.
type Run struct {
	// Workload names the benchmark workload.
	Workload string

	// ThreadConfig is the pool configuration the run used.
	ThreadConfig ThreadConfig

	// RuntimeS is the wall-clock runtime in seconds.
	RuntimeS float64

	// AvgLatencyMs is the average task latency in milliseconds,
	// or -1 if the benchmark did not report one.
	AvgLatencyMs float64

	// SyscallMetrics lists the traced system calls. Names are
	// unique within a run.
	SyscallMetrics []SyscallMetrics

	// IOThroughput holds byte totals keyed by ReadBytes and
	// WriteBytes.
	IOThroughput map[string]float64

	// IOWait is the total I/O wait in clock ticks.
	IOWait float64
}

// ParamsString returns the configuration identity of r, used to group
// repetitions of the same configuration. It has the form
// "<workload>-<pool>:<size>-<pool>:<size>...".
func (r *Run) ParamsString() string {
	var b strings.Builder
	b.WriteString(r.Workload)
	for _, name := range r.ThreadConfig.Names() {
		fmt.Fprintf(&b, "-%s:%d", name, r.ThreadConfig[name])
	}
	return b.String()
}

// Syscall returns the metrics for the named system call.
func (r *Run) Syscall(name string) (SyscallMetrics, bool) {
	for _, sm := range r.SyscallMetrics {
		if sm.name == name {
			return sm, true
		}
	}
	return SyscallMetrics{}, false
}

// Clone returns a deep copy of r.
func (r *Run) Clone() *Run {
	r2 := *r
	r2.ThreadConfig = r.ThreadConfig.Clone()
	r2.SyscallMetrics = append([]SyscallMetrics(nil), r.SyscallMetrics...)
	if r.IOThroughput != nil {
		r2.IOThroughput = make(map[string]float64, len(r.IOThroughput))
		for k, v := range r.IOThroughput {
			r2.IOThroughput[k] = v
		}
	}
	return &r2
}

// Validate checks the invariants of a single run.
func (r *Run) Validate() error {
	seen := make(map[string]bool, len(r.SyscallMetrics))
	for _, sm := range r.SyscallMetrics {
		if seen[sm.name] {
			return fmt.Errorf("run %s: duplicate syscall %q", r.ParamsString(), sm.name)
		}
		seen[sm.name] = true
	}
	return nil
}
