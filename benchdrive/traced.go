// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchdrive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/tpool-lab/poolbench/tracefmt"
)

// A Tracer runs traced benchmark configurations through a wrapper
// shell script that starts the benchmark under systemtap and pidstat.
// For pool size n the script writes its reports with the path prefix
// <outDir>/t=<n>.
type Tracer struct {
	// Script is the wrapper script, run with Shell.
	Script string

	// Shell runs Script. If empty, "bash" is used.
	Shell string

	CacheDropper CacheDropper
	Logf         func(format string, args ...interface{})
}

// Run traces every pool size of b, in order, writing the reports to
// outDir. The script is invoked as
//
//	Shell Script <worker_function> <workload_name> <files_dir> <amount_files> static <n> <outDir>/t=<n>
//
// and its output is passed line by line to Logf. Unlike Driver.Run, a
// failing script ends the batch, since its reports would be incomplete.
func (t *Tracer) Run(ctx context.Context, b *Benchmark, outDir string) error {
	for _, n := range b.WorkerThreads {
		if err := t.runOne(ctx, b, n, outDir); err != nil {
			return fmt.Errorf("t=%d: %w", n, err)
		}
	}
	return nil
}

func (t *Tracer) runOne(ctx context.Context, b *Benchmark, n int, outDir string) error {
	if t.CacheDropper != nil {
		if err := t.CacheDropper.DropCaches(ctx); err != nil {
			return err
		}
	}
	shell := t.Shell
	if shell == "" {
		shell = "bash"
	}
	prefix := tracefmt.ConfigPrefix(outDir, n)
	cmd := exec.CommandContext(ctx, shell, t.Script,
		b.WorkerFunction, b.WorkloadName, b.FilesDir,
		strconv.Itoa(b.AmountFiles), "static", strconv.Itoa(n), prefix)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	t.copyLog(stdout)
	return cmd.Wait()
}

// copyLog logs r line by line until EOF.
func (t *Tracer) copyLog(r io.Reader) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		if t.Logf != nil {
			t.Logf("%s", s.Text())
		}
	}
	// Drain the rest so the script never blocks on a full pipe.
	io.Copy(io.Discard, r)
}
