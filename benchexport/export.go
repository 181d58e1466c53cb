// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchexport flattens runs into rows for spreadsheets and
// columnar analysis tools.
//
// Every run becomes one row per traced system call; a run without
// syscall metrics becomes a single row with an empty Syscall column.
package benchexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// A Row is one (run, syscall) pair.
type Row struct {
	Workload      string  `parquet:"name=workload, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Params        string  `parquet:"name=params, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	RuntimeS      float64 `parquet:"name=runtime_s, type=DOUBLE"`
	AvgLatencyMs  float64 `parquet:"name=avg_latency_ms, type=DOUBLE"`
	IOWait        float64 `parquet:"name=iowait, type=DOUBLE"`
	ReadBytes     float64 `parquet:"name=read_bytes, type=DOUBLE"`
	WriteBytes    float64 `parquet:"name=write_bytes, type=DOUBLE"`
	Syscall       string  `parquet:"name=syscall, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TotalTimeMs   float64 `parquet:"name=total_time_ms, type=DOUBLE"`
	NrCalls       float64 `parquet:"name=nr_calls, type=DOUBLE"`
	AvgCallTimeMs float64 `parquet:"name=avg_call_time_ms, type=DOUBLE"`
}

var header = []string{
	"workload", "params", "runtime_s", "avg_latency_ms", "iowait",
	"read_bytes", "write_bytes",
	"syscall", "total_time_ms", "nr_calls", "avg_call_time_ms",
}

func (r *Row) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		r.Workload, r.Params, f(r.RuntimeS), f(r.AvgLatencyMs), f(r.IOWait),
		f(r.ReadBytes), f(r.WriteBytes),
		r.Syscall, f(r.TotalTimeMs), f(r.NrCalls), f(r.AvgCallTimeMs),
	}
}

// Rows flattens runs in order.
func Rows(runs []*benchrun.Run) []Row {
	var rows []Row
	for _, r := range runs {
		base := Row{
			Workload:     r.Workload,
			Params:       r.ParamsString(),
			RuntimeS:     r.RuntimeS,
			AvgLatencyMs: r.AvgLatencyMs,
			IOWait:       r.IOWait,
			ReadBytes:    r.IOThroughput[benchrun.ReadBytes],
			WriteBytes:   r.IOThroughput[benchrun.WriteBytes],
		}
		if len(r.SyscallMetrics) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, sm := range r.SyscallMetrics {
			row := base
			row.Syscall = sm.Name()
			row.TotalTimeMs = sm.TotalTimeMs()
			row.NrCalls = sm.NrCalls()
			row.AvgCallTimeMs = sm.AvgCallTimeMs()
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteCSV writes runs to w as CSV with a header line.
func WriteCSV(w io.Writer, runs []*benchrun.Run) error {
	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, row := range Rows(runs) {
		cw.Write(row.record())
	}
	cw.Flush()
	return cw.Error()
}

// parallelism is the number of goroutines parquet-go uses to encode
// columns.
const parallelism = 4

func writeParquet(pw *writer.ParquetWriter, runs []*benchrun.Run) error {
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range Rows(runs) {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("stop parquet writer: %w", err)
	}
	return nil
}

// WriteParquet writes runs to w in Parquet format.
func WriteParquet(w io.Writer, runs []*benchrun.Run) error {
	pw, err := writer.NewParquetWriterFromWriter(w, new(Row), parallelism)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	return writeParquet(pw, runs)
}

// WriteParquetFile writes runs to the Parquet file at path.
func WriteParquetFile(path string, runs []*benchrun.Run) error {
	file, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	if err := writeParquetFile(file, runs); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeParquetFile(file source.ParquetFile, runs []*benchrun.Run) error {
	pw, err := writer.NewParquetWriter(file, new(Row), parallelism)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	return writeParquet(pw, runs)
}
