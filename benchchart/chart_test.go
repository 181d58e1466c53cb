// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"bytes"
	"context"
	"image/png"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/storage/fs"
	"gonum.org/v1/plot/plotter"
)

func run(workload string, size int, runtime float64, syscalls ...benchrun.SyscallMetrics) *benchrun.Run {
	return &benchrun.Run{
		Workload:       workload,
		ThreadConfig:   benchrun.ThreadConfig{"num_io": size},
		RuntimeS:       runtime,
		AvgLatencyMs:   -1,
		SyscallMetrics: syscalls,
		IOThroughput:   map[string]float64{benchrun.ReadBytes: 100, benchrun.WriteBytes: 200},
		IOWait:         runtime,
	}
}

func testRuns() []*benchrun.Run {
	sc := benchrun.NewSyscallMetrics
	return []*benchrun.Run{
		run("seq", 1, 4, sc("write", 10, 1), sc("fsync", 4, 2)),
		run("seq", 1, 6, sc("write", 30, 3), sc("fsync", 2, 2)),
		run("seq", 2, 2, sc("write", 20, 2), sc("fsync", 1, 1)),
		run("seq", 2, 3, sc("write", 20, 2), sc("fsync", 3, 1)),
		run("rand", 2, 9, sc("write", 1, 1), sc("fsync", 1, 1)),
	}
}

func metric(t *testing.T, name string) benchrun.Metric {
	t.Helper()
	m, err := benchrun.LookupMetric(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewSeries(t *testing.T) {
	triples, err := benchagg.MinMeanMax(testRuns())
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSeries(triples, "num_io", metric(t, "runtime_s"))
	if err != nil {
		t.Fatal(err)
	}
	wantXYs := plotter.XYs{{X: 1, Y: 5}, {X: 2, Y: 2.5}, {X: 2, Y: 9}}
	if diff := cmp.Diff(wantXYs, s.XYs); diff != "" {
		t.Errorf("XYs (-want +got):\n%s", diff)
	}
	if lo, hi := s.YError(0); lo != 1 || hi != 1 {
		t.Errorf("errors of first point = %v, %v; want 1, 1", lo, hi)
	}
	if lo, hi := s.YRange(); lo != 2 || hi != 9 {
		t.Errorf("YRange = %v, %v; want 2, 9", lo, hi)
	}

	if _, err := NewSeries(triples, "num_cpu", metric(t, "runtime_s")); err == nil {
		t.Errorf("NewSeries on a missing pool succeeded")
	}
}

func TestMissingSyscallPlotsZero(t *testing.T) {
	sc := benchrun.NewSyscallMetrics
	// The min run was aggregated from a trace without fsync.
	tr := benchagg.Triple{
		Min:  run("seq", 1, 1, sc("write", 1, 1)),
		Mean: run("seq", 1, 2, sc("write", 2, 1), sc("fsync", 4, 2)),
		Max:  run("seq", 1, 3, sc("write", 3, 1), sc("fsync", 6, 2)),
	}
	s, err := NewSeries([]benchagg.Triple{tr}, "num_io", metric(t, "fsync-total_time_ms"))
	if err != nil {
		t.Fatal(err)
	}
	if lo, hi := s.YError(0); lo != 4 || hi != 2 {
		t.Errorf("errors = %v, %v; want 4 (down to zero), 2", lo, hi)
	}
}

func TestChartWorkloadFilter(t *testing.T) {
	triples, err := benchagg.MinMeanMax(testRuns())
	if err != nil {
		t.Fatal(err)
	}
	c := &Chart{X: "num_io", Y: metric(t, "runtime_s"), Secondary: benchrun.IOWaitPerFsyncMs}
	p, err := c.Plot(triples)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title() != "all" || p.Primary.Len() != 3 {
		t.Errorf("title %q with %d points, want all with 3", c.Title(), p.Primary.Len())
	}

	c.Workload = "seq"
	p, err = c.Plot(triples)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title() != "seq" || p.Primary.Len() != 2 || p.Secondary.Len() != 2 {
		t.Errorf("title %q with %d/%d points, want seq with 2", c.Title(), p.Primary.Len(), p.Secondary.Len())
	}

	c.Workload = "none"
	if _, err := c.Plot(triples); err == nil {
		t.Errorf("chart of an unknown workload succeeded")
	}
}

func TestPrimaryOnlyChart(t *testing.T) {
	triples, err := benchagg.MinMeanMax(testRuns())
	if err != nil {
		t.Fatal(err)
	}
	c := &Chart{Workload: "seq", X: "num_io", Y: metric(t, "runtime_s")}
	p, err := c.Plot(triples)
	if err != nil {
		t.Fatalf("single-axis chart: %v", err)
	}
	if p.Secondary != nil || p.right != nil {
		t.Errorf("single-axis chart has a secondary series")
	}
	if p.Primary.Len() != 2 {
		t.Errorf("got %d points, want 2", p.Primary.Len())
	}
	var buf bytes.Buffer
	if err := p.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}

	if _, err := (&Chart{X: "num_io"}).Plot(triples); err == nil {
		t.Errorf("chart without a primary metric succeeded")
	}
}

func TestWritePNG(t *testing.T) {
	triples, err := benchagg.MinMeanMax(testRuns())
	if err != nil {
		t.Fatal(err)
	}
	c := &Chart{Workload: "seq", X: "num_io", Y: metric(t, "runtime_s"), Secondary: metric(t, "write-avg_call_time_ms")}
	p, err := c.Plot(triples)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := p.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1500 || b.Dy() != 1000 {
		t.Errorf("image is %dx%d, want 1500x1000", b.Dx(), b.Dy())
	}
}

func TestLayout(t *testing.T) {
	runs := testRuns()
	l := &Layout{Pool: "num_io"}
	figs, err := l.Figures(runs)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range figs {
		names = append(names, f.Name)
		if f.Chart.Workload != "seq" {
			t.Errorf("%s charts workload %q, want seq", f.Name, f.Chart.Workload)
		}
	}
	want := []string{
		"graphs_runtime-avgsysc/runtime-num_io-fsync_errors.png",
		"graphs_runtime-avgsysc/runtime-num_io-write_errors.png",
		"graphs_runtime-totalsysc/runtime-num_io-fsync_errors.png",
		"graphs_runtime-totalsysc/runtime-num_io-write_errors.png",
		"graphs_runtime-derived/runtime-num_io-throughput-perwrite_bytes-ms.png",
		"graphs_runtime-derived/runtime-num_io-throughput-bytes_sec.png",
		"graphs_runtime-derived/runtime-num_io-iowait.png",
		"graphs_runtime-derived/runtime-num_io-iowait-fsync-ratio.png",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("figures (-want +got):\n%s", diff)
	}

	if testing.Short() {
		return
	}
	mem := fs.NewMemFS()
	if err := l.Write(context.Background(), mem, runs); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sortedCopy(want), mem.Files()); diff != "" {
		t.Errorf("written files (-want +got):\n%s", diff)
	}

	if _, err := (&Layout{Pool: "num_cpu"}).Figures(runs); err == nil {
		t.Errorf("layout over a missing pool succeeded")
	}
}

func sortedCopy(xs []string) []string {
	out := append([]string(nil), xs...)
	sort.Strings(out)
	return out
}
