// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchrun

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type jsonSyscall struct {
	Name          string  `json:"name"`
	TotalTimeMs   float64 `json:"total_time_ms"`
	NrCalls       float64 `json:"nr_calls"`
	AvgCallTimeMs float64 `json:"avg_call_time_ms"`
}

type jsonRun struct {
	Workload       string             `json:"workload"`
	ThreadConfig   ThreadConfig       `json:"thread_config"`
	RuntimeS       float64            `json:"runtime_s"`
	AvgLatencyMs   float64            `json:"avg_latency_ms"`
	SyscallMetrics []SyscallMetrics   `json:"syscall_metrics"`
	IOThroughput   map[string]float64 `json:"io_throughput"`
	IOWait         float64            `json:"iowait"`
}

// MarshalJSON encodes m including its derived average call time.
func (m SyscallMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSyscall{m.name, m.totalTimeMs, m.nrCalls, m.avgCallMs})
}

// UnmarshalJSON decodes m. Any stored average is ignored and
// recomputed from the total time and call count.
func (m *SyscallMetrics) UnmarshalJSON(data []byte) error {
	var js jsonSyscall
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	if js.Name == "" {
		return fmt.Errorf("syscall metrics without name")
	}
	*m = NewSyscallMetrics(js.Name, js.TotalTimeMs, js.NrCalls)
	return nil
}

func (r *Run) MarshalJSON() ([]byte, error) {
	sms := r.SyscallMetrics
	if sms == nil {
		sms = []SyscallMetrics{}
	}
	return json.Marshal(jsonRun{
		Workload:       r.Workload,
		ThreadConfig:   r.ThreadConfig,
		RuntimeS:       r.RuntimeS,
		AvgLatencyMs:   r.AvgLatencyMs,
		SyscallMetrics: sms,
		IOThroughput:   r.IOThroughput,
		IOWait:         r.IOWait,
	})
}

func (r *Run) UnmarshalJSON(data []byte) error {
	var jr jsonRun
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	*r = Run{
		Workload:       jr.Workload,
		ThreadConfig:   jr.ThreadConfig,
		RuntimeS:       jr.RuntimeS,
		AvgLatencyMs:   jr.AvgLatencyMs,
		SyscallMetrics: jr.SyscallMetrics,
		IOThroughput:   jr.IOThroughput,
		IOWait:         jr.IOWait,
	}
	return r.Validate()
}

// Decode reads a JSON array of runs from r.
func Decode(r io.Reader) ([]*Run, error) {
	var runs []*Run
	if err := json.NewDecoder(r).Decode(&runs); err != nil {
		return nil, err
	}
	for i, run := range runs {
		if run == nil {
			return nil, fmt.Errorf("run %d is null", i)
		}
	}
	return runs, nil
}

// Encode writes runs to w as an indented JSON array.
func Encode(w io.Writer, runs []*Run) error {
	if runs == nil {
		runs = []*Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(runs)
}

// ReadFile reads the runs stored in the named JSON file.
func ReadFile(path string) ([]*Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	runs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return runs, nil
}

// ReadFiles reads and concatenates the runs of several JSON files.
func ReadFiles(paths ...string) ([]*Run, error) {
	var all []*Run
	for _, path := range paths {
		runs, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, runs...)
	}
	return all, nil
}

// WriteFile writes runs to the named file, replacing it.
func WriteFile(path string, runs []*Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, runs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
