// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/storage/db"
	"github.com/tpool-lab/poolbench/storage/db/dbtest"
)

func run(workload string, size int, syscalls ...string) *benchrun.Run {
	r := &benchrun.Run{
		Workload:     workload,
		ThreadConfig: benchrun.ThreadConfig{"num_io": size},
		RuntimeS:     float64(size),
	}
	for _, name := range syscalls {
		r.SyscallMetrics = append(r.SyscallMetrics, benchrun.NewSyscallMetrics(name, 1, 1))
	}
	return r
}

func archive(t *testing.T, d *db.DB, runs ...*benchrun.Run) {
	t.Helper()
	u, err := d.NewUpload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range runs {
		if err := u.InsertRun(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadArchive(t *testing.T) {
	d, cleanup := dbtest.NewDB(t)
	defer cleanup()
	archive(t, d, run("seq", 1, "write"), run("rand", 2), run("seq", 4, "write", "fsync"))

	ctx := context.Background()
	for _, tc := range []struct {
		query string
		want  int
	}{
		{"", 3},
		{"workload:seq", 2},
		{"workload:seq params:seq-num_io:4", 1},
	} {
		s := &Source{Archive: d, Query: tc.query}
		runs, err := s.Load(ctx)
		if err != nil {
			t.Errorf("Load(%q): %v", tc.query, err)
			continue
		}
		if len(runs) != tc.want {
			t.Errorf("Load(%q) = %d runs, want %d", tc.query, len(runs), tc.want)
		}
	}

	for _, s := range []*Source{
		{Archive: d, Query: "workload:none"},
		{Archive: d, Query: "bogus"},
		{Query: "workload:seq"},
		{},
	} {
		if _, err := s.Load(ctx); err == nil {
			t.Errorf("Load(%+v) succeeded", s)
		}
	}

	s := &Source{Archive: d, Query: "workload:seq", Sparse: true}
	runs, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := runs[0].Syscall("fsync"); !ok {
		t.Errorf("sparse load did not fill fsync")
	}
}

func TestLoadFilesAndDB(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "result.json")
	if err := benchrun.WriteFile(file, []*benchrun.Run{run("seq", 8)}); err != nil {
		t.Fatal(err)
	}

	source := "sqlite3:" + filepath.Join(dir, "runs.db")
	d, err := db.Open(source)
	if err != nil {
		t.Fatal(err)
	}
	archive(t, d, run("seq", 1), run("seq", 2))
	d.Close()

	runs, err := (&Source{Files: []string{file}, DB: source}).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var sizes []int
	for _, r := range runs {
		sizes = append(sizes, r.ThreadConfig["num_io"])
	}
	if len(sizes) != 3 || sizes[0] != 8 || sizes[1] != 1 || sizes[2] != 2 {
		t.Errorf("loaded sizes %v, want [8 1 2]", sizes)
	}

	if _, err := (&Source{DB: "nodriver"}).Load(context.Background()); err == nil {
		t.Errorf("malformed database source accepted")
	}
}
