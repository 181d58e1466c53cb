// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Poolbench runs a thread-pool benchmark binary over a matrix of
// benchmarks, worker variants and pool sizes and records the wall-clock
// time of every run.
//
// Usage:
//
//	poolbench [flags] output.json
//
// Benchmarks are read from the file named by -benchmarks, a JSON
// object mapping a benchmark name to
//
//	{"workload_name": ..., "worker_function": ..., "amount_files": N,
//	 "worker_threads": [n, ...], "files_dir": ...}
//
// Each combination invokes
//
//	binary <worker_function> <workload_name> <files_dir> <amount_files> <pool_size>
//
// Pool size 0 runs the adaptive pool; lines of its output containing
// the -marker substring are kept as scale events.
//
// The results are written to output.json as one object keyed by
// "<benchmark>/<variant>/<size>". A run that exits with a non-zero
// status is recorded with its exit code and does not stop the batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/tpool-lab/poolbench/benchdrive"
)

var (
	flagBenchmarks = flag.String("benchmarks", "benchmarks.json", "read benchmark definitions from `file`")
	flagBinary     = flag.String("binary", "./benchmark", "benchmark executable `path`")
	flagNames      = flag.String("run", "", "comma-separated benchmark `names` to run (default all)")
	flagVariants   = flag.String("variants", "", "comma-separated worker `functions` overriding each benchmark's")
	flagSizes      = flag.String("sizes", "", "comma-separated pool `sizes` overriding each benchmark's; 0 is adaptive")
	flagMarker     = flag.String("marker", benchdrive.DefaultMarker, "keep adaptive output lines containing `substring`")
	flagDropCmd    = flag.String("drop-cmd", "", "drop the page cache before each run with `command`")
	flagSysDrop    = flag.Bool("sysdrop", false, "drop the page cache through /proc/sys/vm/drop_caches before each run")
	flagSampleIO   = flag.Duration("sample-io", 0, "sample the benchmark's /proc I/O accounting every `interval`")
	flagProm       = flag.String("prom", "", "write run metrics as a Prometheus textfile to `file`")
	flagVerbose    = flag.Bool("v", false, "log every run")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: poolbench [flags] output.json\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, f := range splitList(s) {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad pool size %q", f)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func main() {
	log.SetPrefix("poolbench: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if *flagDropCmd != "" && *flagSysDrop {
		log.Fatal("-drop-cmd and -sysdrop are mutually exclusive")
	}

	benchmarks, err := benchdrive.LoadBenchmarks(*flagBenchmarks)
	if err != nil {
		log.Fatal(err)
	}
	sizes, err := parseSizes(*flagSizes)
	if err != nil {
		log.Fatal(err)
	}
	m := &benchdrive.Matrix{
		Benchmarks: benchmarks,
		Names:      splitList(*flagNames),
		Variants:   splitList(*flagVariants),
		Sizes:      sizes,
	}

	d := &benchdrive.Driver{
		Binary:   *flagBinary,
		Marker:   *flagMarker,
		SampleIO: *flagSampleIO,
	}
	switch {
	case *flagDropCmd != "":
		d.CacheDropper = benchdrive.NewCommandDropper(strings.Fields(*flagDropCmd)...)
	case *flagSysDrop:
		d.CacheDropper = benchdrive.NewSysDropper()
	}
	if *flagVerbose {
		d.Logf = log.Printf
	}
	if *flagProm != "" {
		d.Metrics = benchdrive.NewMetrics()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := d.Run(ctx, m)
	// Keep whatever finished, even if the batch was interrupted.
	if len(results) > 0 {
		if err := results.WriteFile(flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
	}
	if d.Metrics != nil {
		if err := d.Metrics.WriteTextfile(*flagProm); err != nil {
			log.Fatal(err)
		}
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
