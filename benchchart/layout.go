// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"context"
	"fmt"
	"path"

	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/storage/fs"
)

// Subdirectories of a chart layout.
const (
	AvgSyscallDir   = "graphs_runtime-avgsysc"
	TotalSyscallDir = "graphs_runtime-totalsysc"
	DerivedDir      = "graphs_runtime-derived"
)

// A Layout is the standard set of charts for one result file: runtime
// against pool size, paired with the average and total time of every
// syscall traced in all runs and with each derived metric.
type Layout struct {
	// Pool is the pool whose size is the x coordinate.
	Pool string

	// Workload selects the workload to chart. If empty, the first
	// workload in the runs is used.
	Workload string

	// Logf, if non-nil, is called for every chart written.
	Logf func(format string, args ...interface{})
}

// A Figure is one chart of a layout and the file it is written to.
type Figure struct {
	Name  string
	Chart Chart
}

var derivedFigures = []struct {
	file   string
	metric benchrun.Metric
}{
	{"throughput-perwrite_bytes-ms", benchrun.WrittenBytesPerWriteMs},
	{"throughput-bytes_sec", benchrun.BytesPerSecond},
	{"iowait", benchrun.IOWaitTotal},
	{"iowait-fsync-ratio", benchrun.IOWaitPerFsyncMs},
}

// Figures returns the charts of the layout for runs.
func (l *Layout) Figures(runs []*benchrun.Run) ([]Figure, error) {
	workloads, pools := benchrun.Params(runs)
	if len(workloads) == 0 {
		return nil, fmt.Errorf("no runs")
	}
	if _, ok := pools[l.Pool]; !ok {
		return nil, fmt.Errorf("no run configures pool %q", l.Pool)
	}
	workload := l.Workload
	if workload == "" {
		workload = workloads[0]
	}
	runtime, err := benchrun.LookupMetric("runtime_s")
	if err != nil {
		return nil, err
	}

	var figs []Figure
	add := func(dir, file string, secondary benchrun.Metric) {
		figs = append(figs, Figure{
			Name: path.Join(dir, fmt.Sprintf("runtime-%s-%s.png", l.Pool, file)),
			Chart: Chart{
				Workload:  workload,
				X:         l.Pool,
				Y:         runtime,
				Secondary: secondary,
			},
		})
	}
	for _, field := range []struct{ dir, name string }{
		{AvgSyscallDir, benchrun.FieldAvgCall},
		{TotalSyscallDir, benchrun.FieldTotalTime},
	} {
		for _, syscall := range benchrun.CommonSyscallNames(runs) {
			m, err := benchrun.SyscallMetric(syscall, field.name)
			if err != nil {
				return nil, err
			}
			add(field.dir, syscall+"_errors", m)
		}
	}
	for _, d := range derivedFigures {
		add(DerivedDir, d.file, d.metric)
	}
	return figs, nil
}

// Write aggregates runs and writes every figure of the layout to dst.
func (l *Layout) Write(ctx context.Context, dst fs.FS, runs []*benchrun.Run) error {
	figs, err := l.Figures(runs)
	if err != nil {
		return err
	}
	triples, err := benchagg.MinMeanMax(runs)
	if err != nil {
		return err
	}
	for _, fig := range figs {
		if err := writeFigure(ctx, dst, fig, triples); err != nil {
			return err
		}
		if l.Logf != nil {
			l.Logf("wrote %s", fig.Name)
		}
	}
	return nil
}

func writeFigure(ctx context.Context, dst fs.FS, fig Figure, triples []benchagg.Triple) error {
	p, err := fig.Chart.Plot(triples)
	if err != nil {
		return fmt.Errorf("%s: %w", fig.Name, err)
	}
	w, err := dst.NewWriter(ctx, fig.Name, map[string]string{
		"workload":  fig.Chart.Title(),
		"secondary": fig.Chart.Secondary.Name,
	})
	if err != nil {
		return err
	}
	if err := p.WritePNG(w); err != nil {
		w.CloseWithError(err)
		return fmt.Errorf("%s: %w", fig.Name, err)
	}
	return w.Close()
}
