// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchexport

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func testRuns() []*benchrun.Run {
	return []*benchrun.Run{
		{
			Workload:     "seq-write",
			ThreadConfig: benchrun.ThreadConfig{"num_io": 2},
			RuntimeS:     1.5,
			AvgLatencyMs: -1,
			SyscallMetrics: []benchrun.SyscallMetrics{
				benchrun.NewSyscallMetrics("write", 100, 10),
				benchrun.NewSyscallMetrics("fsync", 6, 3),
			},
			IOThroughput: map[string]float64{benchrun.ReadBytes: 0, benchrun.WriteBytes: 4096},
			IOWait:       7,
		},
		{
			Workload:     "noop",
			ThreadConfig: benchrun.ThreadConfig{"num_cpu": 1},
			RuntimeS:     0.25,
			AvgLatencyMs: 2,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testRuns()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"workload,params,runtime_s,avg_latency_ms,iowait,read_bytes,write_bytes,syscall,total_time_ms,nr_calls,avg_call_time_ms",
		"seq-write,seq-write-num_io:2,1.5,-1,7,0,4096,write,100,10,10",
		"seq-write,seq-write-num_io:2,1.5,-1,7,0,4096,fsync,6,3,2",
		"noop,noop-num_cpu:1,0.25,2,0,0,0,,0,0,0",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWriteParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")
	runs := testRuns()
	if err := WriteParquetFile(path, runs); err != nil {
		t.Fatal(err)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(Row), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.ReadStop()

	got := make([]Row, pr.GetNumRows())
	if err := pr.Read(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Rows(runs), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWriteParquet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteParquet(&buf, testRuns()); err != nil {
		t.Fatal(err)
	}
	// A Parquet file starts and ends with the magic "PAR1".
	b := buf.Bytes()
	if !bytes.HasPrefix(b, []byte("PAR1")) || !bytes.HasSuffix(b, []byte("PAR1")) {
		t.Errorf("output is not framed as Parquet (%d bytes)", len(b))
	}
}
