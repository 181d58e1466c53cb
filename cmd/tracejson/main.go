// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tracejson converts the reports of traced benchmark runs into a run
// file.
//
// Usage:
//
//	tracejson [flags] resultdir reps benchmark
//
// With reps 1 the reports are read from resultdir itself; otherwise
// repetition i is read from resultdir/i. The runs are written to
// resultdir/result-all-<benchmark>.json and can additionally be
// archived in a database or exported as CSV or Parquet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tpool-lab/poolbench/benchdrive"
	"github.com/tpool-lab/poolbench/benchexport"
	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/storage/db"
	_ "github.com/tpool-lab/poolbench/storage/db/sqlite3"
	"github.com/tpool-lab/poolbench/tracefmt"
)

var (
	flagBenchmarks = flag.String("benchmarks", "benchmarks.json", "read benchmark definitions from `file`")
	flagPool       = flag.String("pool", "num_io", "thread config `name` of the traced pool")
	flagDB         = flag.String("db", "", "also archive the runs in the database `driver:dsn` (sqlite3 or mysql)")
	flagCSV        = flag.String("csv", "", "also export the runs as CSV to `file`")
	flagParquet    = flag.String("parquet", "", "also export the runs as Parquet to `file`")
	flagReplace    = flag.String("replace", "", "with -db, replace the runs of upload `id` instead of creating a new upload")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tracejson [flags] resultdir reps benchmark\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	log.SetPrefix("tracejson: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
	}
	base, name := flag.Arg(0), flag.Arg(2)
	reps, err := strconv.Atoi(flag.Arg(1))
	if err != nil {
		log.Fatalf("bad repetition count %q", flag.Arg(1))
	}

	benchmarks, err := benchdrive.LoadBenchmarks(*flagBenchmarks)
	if err != nil {
		log.Fatal(err)
	}
	b, err := benchmarks.Get(name)
	if err != nil {
		log.Fatal(err)
	}

	runs, err := tracefmt.CollectReps(base, reps, name, *flagPool, b.WorkerThreads)
	if err != nil {
		log.Fatal(err)
	}
	if err := benchrun.WriteFile(filepath.Join(base, "result-all-"+name+".json"), runs); err != nil {
		log.Fatal(err)
	}

	if *flagReplace != "" && *flagDB == "" {
		log.Fatal("-replace requires -db")
	}
	if *flagCSV != "" {
		if err := writeCSV(*flagCSV, runs); err != nil {
			log.Fatal(err)
		}
	}
	if *flagParquet != "" {
		if err := benchexport.WriteParquetFile(*flagParquet, runs); err != nil {
			log.Fatal(err)
		}
	}
	if *flagDB != "" {
		id, err := archive(context.Background(), *flagDB, *flagReplace, runs)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("archived %d runs as upload %s", len(runs), id)
	}
}

func writeCSV(path string, runs []*benchrun.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := benchexport.WriteCSV(f, runs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// archive stores runs in the database named by source, as a new
// upload or, if replace is set, in place of the runs of that upload.
// It returns the upload ID.
func archive(ctx context.Context, source, replace string, runs []*benchrun.Run) (string, error) {
	d, err := db.Open(source)
	if err != nil {
		return "", err
	}
	defer d.Close()
	return store(ctx, d, replace, runs)
}

func store(ctx context.Context, d *db.DB, replace string, runs []*benchrun.Run) (string, error) {
	var (
		u   *db.Upload
		err error
	)
	if replace != "" {
		u, err = d.ReplaceUpload(replace)
	} else {
		u, err = d.NewUpload(ctx)
	}
	if err != nil {
		return "", err
	}
	for _, r := range runs {
		if err := u.InsertRun(r); err != nil {
			u.Abort()
			return "", err
		}
	}
	return u.ID, u.Commit()
}
