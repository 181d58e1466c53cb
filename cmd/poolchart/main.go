// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Poolchart draws runtime charts from a run file.
//
// Usage:
//
//	poolchart [flags] result.json dest
//	poolchart [flags] -db driver:dsn [-q query] [result.json] dest
//
// Every chart plots the runtime of the selected workload against the
// size of one pool, with min/max error bars, and pairs it with a second
// metric on a right-hand axis. The charts are written under dest in
// three subdirectories:
//
//	graphs_runtime-avgsysc    average call time of each traced syscall
//	graphs_runtime-totalsysc  total time of each traced syscall
//	graphs_runtime-derived    throughput and iowait metrics
//
// dest is a local directory, gs://bucket/prefix or s3://bucket/prefix.
//
// With -db the runs come from a run archive written by tracejson,
// optionally narrowed by a query such as "workload:seq-write".
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tpool-lab/poolbench/benchchart"
	"github.com/tpool-lab/poolbench/internal/runsource"
	_ "github.com/tpool-lab/poolbench/storage/db/sqlite3"
	"github.com/tpool-lab/poolbench/storage/fs"
	_ "github.com/tpool-lab/poolbench/storage/fs/gcs"
	_ "github.com/tpool-lab/poolbench/storage/fs/local"
	_ "github.com/tpool-lab/poolbench/storage/fs/s3"
)

var (
	flagPool     = flag.String("pool", "num_io", "plot against the size of pool `name`")
	flagWorkload = flag.String("workload", "", "chart `workload` (default the first in the file)")
	flagSparse   = flag.Bool("sparse", false, "treat syscalls missing from a run as never called")
	flagVerbose  = flag.Bool("v", false, "log every chart written")
	flagDB       = flag.String("db", "", "also load runs from the archive `driver:dsn`")
	flagQuery    = flag.String("q", "", "select archived runs matching `query`")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: poolchart [flags] result.json dest\n")
	fmt.Fprintf(os.Stderr, "       poolchart [flags] -db driver:dsn [-q query] [result.json] dest\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	log.SetPrefix("poolchart: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	switch n := flag.NArg(); {
	case n == 2:
	case n == 1 && *flagDB != "":
	default:
		flag.Usage()
	}
	args := flag.Args()
	dest := args[len(args)-1]

	ctx := context.Background()
	src := &runsource.Source{
		Files:  args[:len(args)-1],
		DB:     *flagDB,
		Query:  *flagQuery,
		Sparse: *flagSparse,
	}
	runs, err := src.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	dst, err := fs.Open(ctx, dest)
	if err != nil {
		log.Fatal(err)
	}
	l := &benchchart.Layout{
		Pool:     *flagPool,
		Workload: *flagWorkload,
	}
	if *flagVerbose {
		l.Logf = log.Printf
	}
	if err := l.Write(ctx, dst, runs); err != nil {
		log.Fatal(err)
	}
}
