// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"fmt"
	"strings"
)

// A Metric extracts a scalar from a Run.
//
// Metrics are resolved once, by LookupMetric or by constructing one of
// the derived metrics below, and then applied to many runs.
type Metric struct {
	// Name labels the metric in charts and tables.
	Name string

	// Value computes the metric for a run.
	Value func(r *Run) float64
}

// Syscall metric fields accepted by LookupMetric and SyscallMetric.
const (
	FieldTotalTime = "total_time_ms"
	FieldNrCalls   = "nr_calls"
	FieldAvgCall   = "avg_call_time_ms"
)

var runMetrics = map[string]func(r *Run) float64{
	"runtime_s":      func(r *Run) float64 { return r.RuntimeS },
	"avg_latency_ms": func(r *Run) float64 { return r.AvgLatencyMs },
	"iowait":         func(r *Run) float64 { return r.IOWait },
	ReadBytes:        func(r *Run) float64 { return r.IOThroughput[ReadBytes] },
	WriteBytes:       func(r *Run) float64 { return r.IOThroughput[WriteBytes] },
}

// LookupMetric resolves a metric by name. Valid names are the scalar
// run fields "runtime_s", "avg_latency_ms" and "iowait", the I/O keys
// "read_bytes" and "write_bytes", and syscall metrics of the form
// "<syscall>-<field>" (see SyscallMetric).
func LookupMetric(name string) (Metric, error) {
	if f, ok := runMetrics[name]; ok {
		return Metric{name, f}, nil
	}
	if i := strings.LastIndexByte(name, '-'); i > 0 {
		return SyscallMetric(name[:i], name[i+1:])
	}
	return Metric{}, fmt.Errorf("unknown metric %q", name)
}

// SyscallMetric returns a metric that reads field of the named syscall.
// field must be one of FieldTotalTime, FieldNrCalls or FieldAvgCall.
// Runs that did not trace the syscall yield 0.
func SyscallMetric(syscall, field string) (Metric, error) {
	var get func(SyscallMetrics) float64
	switch field {
	case FieldTotalTime:
		get = SyscallMetrics.TotalTimeMs
	case FieldNrCalls:
		get = SyscallMetrics.NrCalls
	case FieldAvgCall:
		get = SyscallMetrics.AvgCallTimeMs
	default:
		return Metric{}, fmt.Errorf("unknown syscall field %q", field)
	}
	return Metric{
		Name: syscall + "-" + field,
		Value: func(r *Run) float64 {
			sm, ok := r.Syscall(syscall)
			if !ok {
				return 0
			}
			return get(sm)
		},
	}, nil
}

func ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

func syscallTotal(r *Run, name string) float64 {
	sm, _ := r.Syscall(name)
	return sm.TotalTimeMs()
}

// Derived metrics. Divisions by zero yield 0.
var (
	// BytesPerSecond is read plus written bytes per second of runtime.
	BytesPerSecond = Metric{"written bytes / second", func(r *Run) float64 {
		return ratio(r.IOThroughput[ReadBytes]+r.IOThroughput[WriteBytes], r.RuntimeS)
	}}

	// WrittenBytesPerWriteMs is written bytes per millisecond spent
	// in write(2).
	WrittenBytesPerWriteMs = Metric{"written bytes / write syscall ms", func(r *Run) float64 {
		return ratio(r.IOThroughput[WriteBytes], syscallTotal(r, "write"))
	}}

	// IOWaitTotal is the total I/O wait in ticks.
	IOWaitTotal = Metric{"total iowait", func(r *Run) float64 { return r.IOWait }}

	// IOWaitPerFsyncMs is I/O wait ticks per millisecond spent in
	// fsync(2).
	IOWaitPerFsyncMs = Metric{"iowait/fsync", func(r *Run) float64 {
		return ratio(r.IOWait, syscallTotal(r, "fsync"))
	}}
)
