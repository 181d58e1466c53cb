// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Poolstat summarizes repeated benchmark runs.
//
// Usage:
//
//	poolstat [flags] [result.json...]
//
// For every configuration and every selected metric poolstat prints
// the element-wise minimum, mean and maximum over the repetitions, and
// the median with a distribution-free confidence interval. Metrics are
// named as in a run file ("runtime_s", "read_bytes") or as
// "<syscall>-<field>", for example "fsync-avg_call_time_ms".
//
// With -db, runs are also loaded from a run archive written by
// tracejson. -q narrows them with space-separated key:value terms,
// where the keys are workload, params and upload:
//
//	poolstat -db sqlite3:runs.db -q 'workload:seq-write upload:20261017.1'
//
// At least one run file is required without -db.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/internal/runsource"
	_ "github.com/tpool-lab/poolbench/storage/db/sqlite3"
)

var (
	flagMetrics    = flag.String("metrics", "runtime_s", "comma-separated `metrics` to summarize")
	flagConfidence = flag.Float64("confidence", benchagg.DefaultConfidence, "confidence `level` of the median interval")
	flagSparse     = flag.Bool("sparse", false, "treat syscalls missing from a run as never called")
	flagHTML       = flag.Bool("html", false, "print results as an HTML document")
	flagDB         = flag.String("db", "", "load runs from the archive `driver:dsn` (sqlite3 or mysql)")
	flagQuery      = flag.String("q", "", "select archived runs matching `query`")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: poolstat [flags] result.json...\n")
	fmt.Fprintf(os.Stderr, "       poolstat [flags] -db driver:dsn [-q query] [result.json...]\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	log.SetPrefix("poolstat: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 && *flagDB == "" {
		flag.Usage()
	}
	if c := *flagConfidence; c <= 0 || c >= 1 {
		log.Fatalf("confidence %v not in (0, 1)", c)
	}

	var metrics []benchrun.Metric
	for _, name := range strings.Split(*flagMetrics, ",") {
		m, err := benchrun.LookupMetric(strings.TrimSpace(name))
		if err != nil {
			log.Fatal(err)
		}
		metrics = append(metrics, m)
	}

	src := &runsource.Source{
		Files:  flag.Args(),
		DB:     *flagDB,
		Query:  *flagQuery,
		Sparse: *flagSparse,
	}
	runs, err := src.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	tables, err := summarize(runs, metrics, *flagConfidence)
	if err != nil {
		log.Fatal(err)
	}
	var buf bytes.Buffer
	if *flagHTML {
		err = formatHTML(&buf, tables)
	} else {
		err = formatText(&buf, tables)
	}
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(buf.Bytes())
}
