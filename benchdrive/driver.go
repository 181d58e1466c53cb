// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdrive runs an external worker-pool benchmark binary
// across a matrix of benchmarks, worker variants and pool sizes.
//
// Runs are strictly sequential: page-cache state and I/O contention
// would otherwise leak between configurations.
package benchdrive

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"
)

// DefaultMarker is the substring that marks pool scaling events in the
// output of an adaptive run.
const DefaultMarker = "creator pid"

// A Driver runs benchmark combinations.
type Driver struct {
	// Binary is the benchmark executable. It is invoked as
	//	Binary <worker_function> <workload_name> <output_dir> <num_items> <pool_size>
	Binary string

	// CacheDropper, if non-nil, drops the page cache before every run.
	CacheDropper CacheDropper

	// Marker selects scale lines. If empty, DefaultMarker is used.
	Marker string

	// Logf, if non-nil, receives progress messages.
	Logf func(format string, args ...interface{})

	// Metrics, if non-nil, records every run.
	Metrics *Metrics

	// SampleIO is the interval at which the I/O accounting of the
	// benchmark process is sampled. Zero disables sampling.
	SampleIO time.Duration

	// ProcRoot is the proc mount point used for sampling. If empty,
	// procfs.DefaultMountPoint is used.
	ProcRoot string
}

func (d *Driver) logf(format string, args ...interface{}) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}

func (d *Driver) marker() string {
	if d.Marker == "" {
		return DefaultMarker
	}
	return d.Marker
}

// Run runs every combination of m in order. A benchmark process that
// exits with a non-zero status is recorded and logged, and the batch
// continues. Failing to start a process, to drop the page cache, or a
// cancelled ctx ends the batch with an error; the results gathered so
// far are returned with it.
func (d *Driver) Run(ctx context.Context, m *Matrix) (Results, error) {
	cs, err := m.Combinations()
	if err != nil {
		return nil, err
	}
	results := make(Results)
	for _, c := range cs {
		r, err := d.RunOne(ctx, m.Benchmarks[c.Benchmark], c)
		if err != nil {
			return results, fmt.Errorf("%s: %w", c.Key(), err)
		}
		results[c.Key()] = r
	}
	return results, nil
}

// RunOne runs the single combination c of benchmark b.
func (d *Driver) RunOne(ctx context.Context, b *Benchmark, c Combination) (*Result, error) {
	if d.CacheDropper != nil {
		if err := d.CacheDropper.DropCaches(ctx); err != nil {
			return nil, err
		}
	}
	d.logf("running %s", c.Key())

	cmd := exec.CommandContext(ctx, d.Binary,
		c.Variant, b.WorkloadName, b.FilesDir,
		strconv.Itoa(b.AmountFiles), strconv.Itoa(c.Size))
	var out bytes.Buffer
	if c.Size == 0 {
		cmd.Stdout = &out
		cmd.Stderr = &out
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	r := new(Result)
	err := d.wait(cmd, r)
	r.RuntimeSeconds = time.Since(start).Seconds()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		r.ExitCode = exitErr.ExitCode()
		d.logf("%s: benchmark exited with status %d", c.Key(), r.ExitCode)
	case err != nil:
		return nil, err
	}

	if c.Size == 0 {
		r.ScaleLines = scanLines(&out, d.marker())
	}
	d.logf("%s took %.3f seconds", c.Key(), r.RuntimeSeconds)
	if d.Metrics != nil {
		d.Metrics.observe(c, r)
	}
	return r, nil
}

// wait waits for cmd to exit. With sampling enabled it polls the I/O
// accounting of the process meanwhile and stores the last successful
// sample in r.
func (d *Driver) wait(cmd *exec.Cmd, r *Result) error {
	if d.SampleIO <= 0 {
		return cmd.Wait()
	}
	root := d.ProcRoot
	if root == "" {
		root = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(root)
	if err != nil {
		d.logf("I/O sampling disabled: %v", err)
		return cmd.Wait()
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	tick := time.NewTicker(d.SampleIO)
	defer tick.Stop()
	pid := cmd.Process.Pid
	for {
		select {
		case err := <-done:
			return err
		case <-tick.C:
			// The process may exit between ticks; keep the last
			// sample taken while it was alive.
			if s, err := sampleIO(fs, pid); err == nil {
				r.IO = &s
			}
		}
	}
}

// scanLines returns the lines of out containing marker.
func scanLines(out *bytes.Buffer, marker string) []string {
	var lines []string
	s := bufio.NewScanner(out)
	s.Buffer(nil, 1<<20)
	for s.Scan() {
		if strings.Contains(s.Text(), marker) {
			lines = append(lines, s.Text())
		}
	}
	return lines
}
