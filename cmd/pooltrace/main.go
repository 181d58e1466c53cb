// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Pooltrace runs a benchmark under the tracing wrapper script once per
// configured pool size.
//
// Usage:
//
//	pooltrace [flags] benchmark
//
// The reports land in a new directory run-<benchmark>-<YYYY-MM-DD-HH:MM>,
// ready for tracejson. The wrapper usually needs root for systemtap,
// so run "sudo -v" first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/tpool-lab/poolbench/benchdrive"
)

var (
	flagBenchmarks = flag.String("benchmarks", "benchmarks.json", "read benchmark definitions from `file`")
	flagScript     = flag.String("script", "single_run_with_metrics.sh", "tracing wrapper `script`")
	flagShell      = flag.String("shell", "bash", "run the wrapper script with `shell`")
	flagDropCmd    = flag.String("drop-cmd", "sudo clear_page_cache", "drop the page cache before each run with `command`; empty disables")
	flagOut        = flag.String("o", ".", "create the run directory in `dir`")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: pooltrace [flags] benchmark\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	log.SetPrefix("pooltrace: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	name := flag.Arg(0)

	benchmarks, err := benchdrive.LoadBenchmarks(*flagBenchmarks)
	if err != nil {
		log.Fatal(err)
	}
	b, err := benchmarks.Get(name)
	if err != nil {
		log.Fatal(err)
	}

	dir := filepath.Join(*flagOut, fmt.Sprintf("run-%s-%s", name, time.Now().Format("2006-01-02-15:04")))
	if err := os.Mkdir(dir, 0777); err != nil {
		log.Fatal(err)
	}

	t := &benchdrive.Tracer{
		Script: *flagScript,
		Shell:  *flagShell,
		Logf:   log.Printf,
	}
	if args := strings.Fields(*flagDropCmd); len(args) > 0 {
		t.CacheDropper = benchdrive.NewCommandDropper(args...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := t.Run(ctx, b, dir); err != nil {
		log.Fatal(err)
	}
	log.Printf("benchmark done: %s", dir)
}
