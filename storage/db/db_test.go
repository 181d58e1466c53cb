// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db_test

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tpool-lab/poolbench/benchrun"
	. "github.com/tpool-lab/poolbench/storage/db"
	"github.com/tpool-lab/poolbench/storage/db/dbtest"
)

func TestSplitQueryWords(t *testing.T) {
	for _, test := range []struct {
		q    string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"hello\\ world", []string{"hello world"}},
		{`"key:value two" and\ more`, []string{"key:value two", "and more"}},
		{`one" two"\ three four`, []string{"one two three", "four"}},
		{`"4'7\""`, []string{`4'7"`}},
	} {
		have := SplitQueryWords(test.q)
		if !reflect.DeepEqual(have, test.want) {
			t.Errorf("splitQueryWords(%q) = %+v, want %+v", test.q, have, test.want)
		}
	}
}

// TestUploadIDs verifies that NewUpload generates the correct sequence of upload IDs.
func TestUploadIDs(t *testing.T) {
	ctx := context.Background()

	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	defer SetNow(time.Time{})

	tests := []struct {
		sec int64
		id  string
	}{
		{0, "19700101.1"},
		{0, "19700101.2"},
		{86400, "19700102.1"},
		{86400, "19700102.2"},
		{86400, "19700102.3"},
		{86400, "19700102.4"},
		{86400, "19700102.5"},
		{86400, "19700102.6"},
		{86400, "19700102.7"},
		{86400, "19700102.8"},
		{86400, "19700102.9"},
		{86400, "19700102.10"},
		{86400, "19700102.11"},
	}
	for _, test := range tests {
		SetNow(time.Unix(test.sec, 0))
		u, err := db.NewUpload(ctx)
		if err != nil {
			t.Fatalf("NewUpload: %v", err)
		}
		if err := u.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if u.ID != test.id {
			t.Fatalf("u.ID = %q, want %q", u.ID, test.id)
		}
	}
	if n, err := db.CountUploads(); err != nil || n != len(tests) {
		t.Errorf("CountUploads() = %d, %v; want %d", n, err, len(tests))
	}
}

func run(workload string, size int, runtime float64) *benchrun.Run {
	return &benchrun.Run{
		Workload:     workload,
		ThreadConfig: benchrun.ThreadConfig{"num_io": size},
		RuntimeS:     runtime,
		AvgLatencyMs: -1,
		SyscallMetrics: []benchrun.SyscallMetrics{
			benchrun.NewSyscallMetrics("write", 10*runtime, 4),
		},
		IOThroughput: map[string]float64{benchrun.ReadBytes: 1, benchrun.WriteBytes: 2},
	}
}

// queryRuntimes returns the upload IDs and runtimes matched by query.
func queryRuntimes(t *testing.T, db *DB, query string) []string {
	t.Helper()
	q := db.Query(query)
	defer q.Close()
	var got []string
	for q.Next() {
		got = append(got, fmt.Sprintf("%s %s %v", q.UploadID(), q.Run().ParamsString(), q.Run().RuntimeS))
	}
	if err := q.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	return got
}

// TestReplaceUpload verifies that replacing an upload drops its old runs.
func TestReplaceUpload(t *testing.T) {
	SetNow(time.Unix(0, 0))
	defer SetNow(time.Time{})
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := db.NewUpload(context.Background())
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	for _, rt := range []float64{1, 2} {
		if err := u.InsertRun(run("seq", 1, rt)); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := []string{"19700101.1 seq-num_io:1 1", "19700101.1 seq-num_io:1 2"}
	if diff := cmp.Diff(want, queryRuntimes(t, db, "workload:seq")); diff != "" {
		t.Errorf("before replace (-want +got):\n%s", diff)
	}

	for _, id := range []string{u.ID, "new"} {
		u, err := db.ReplaceUpload(id)
		if err != nil {
			t.Fatalf("ReplaceUpload: %v", err)
		}
		if err := u.InsertRun(run("seq", 1, 3)); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
		if err := u.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}

	// Uploads created by ReplaceUpload carry no date and sort first.
	want = []string{"new seq-num_io:1 3", "19700101.1 seq-num_io:1 3"}
	if diff := cmp.Diff(want, queryRuntimes(t, db, "workload:seq")); diff != "" {
		t.Errorf("after replace (-want +got):\n%s", diff)
	}
}

// TestNewUpload verifies that NewUpload and InsertRun wrote the correct rows to the database.
func TestNewUpload(t *testing.T) {
	SetNow(time.Unix(0, 0))
	defer SetNow(time.Time{})
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := db.NewUpload(context.Background())
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	for _, size := range []int{1, 2} {
		if err := u.InsertRun(run("rand-read", size, 1)); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rows, err := DBSQL(db).Query("SELECT UploadID, RunID, Workload, Params FROM Runs ORDER BY RunID")
	if err != nil {
		t.Fatalf("sql.Query: %v", err)
	}
	defer rows.Close()

	want := []string{"rand-read-num_io:1", "rand-read-num_io:2"}
	i := 0
	for rows.Next() {
		var uploadid, workload, params string
		var runid int64
		if err := rows.Scan(&uploadid, &runid, &workload, &params); err != nil {
			t.Fatalf("rows.Scan: %v", err)
		}
		if uploadid != "19700101.1" {
			t.Errorf("uploadid = %q, want %q", uploadid, "19700101.1")
		}
		if runid != int64(i) {
			t.Errorf("runid = %d, want %d", runid, i)
		}
		if workload != "rand-read" {
			t.Errorf("workload = %q", workload)
		}
		if i < len(want) && params != want[i] {
			t.Errorf("params = %q, want %q", params, want[i])
		}
		i++
	}
	if i != len(want) {
		t.Errorf("have %d runs, want %d", i, len(want))
	}
	if err := rows.Err(); err != nil {
		t.Errorf("rows.Err: %v", err)
	}
}

func TestAbort(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := db.NewUpload(context.Background())
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	if err := u.InsertRun(run("seq", 1, 1)); err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if err := u.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if n, err := db.CountUploads(); err != nil || n != 0 {
		t.Errorf("CountUploads() = %d, %v after abort; want 0", n, err)
	}
}

func TestQuery(t *testing.T) {
	SetNow(time.Unix(0, 0))
	defer SetNow(time.Time{})
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	u, err := db.NewUpload(context.Background())
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	for i := 0; i < 64; i++ {
		workload := []string{"seq-write", "rand-read"}[i%2]
		if err := u.InsertRun(run(workload, 1<<(i%4), float64(i))); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	tests := []struct {
		q    string
		want int // -1 means we want an error
	}{
		{"", 64},
		{"workload:seq-write", 32},
		{"workload:seq-write params:seq-write-num_io:4", 16},
		{"params:rand-read-num_io:2", 16},
		{"workload:seq-write params:rand-read-num_io:2", 0},
		{"upload:19700101.1", 64},
		{"upload:19700101.2", 0},
		{`workload:"seq-write"`, 32},
		{"bogus query", -1},
		{"size:4", -1},
	}
	for _, test := range tests {
		t.Run("query="+test.q, func(t *testing.T) {
			q := db.Query(test.q)
			if test.want < 0 {
				if q.Next() {
					t.Fatal("Next() = true, want false")
				}
				if err := q.Err(); err == nil {
					t.Fatal("Err() = nil, want error")
				}
				return
			}
			defer func() {
				if err := q.Close(); err != nil {
					t.Errorf("Close: %v", err)
				}
			}()
			n := 0
			last := -1.0
			for q.Next() {
				if rt := q.Run().RuntimeS; rt <= last {
					t.Errorf("run %v returned after %v", rt, last)
				} else {
					last = rt
				}
				n++
			}
			if err := q.Err(); err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
			if n != test.want {
				t.Errorf("got %d runs, want %d", n, test.want)
			}
		})
	}
}

func TestQueryRuns(t *testing.T) {
	db, cleanup := dbtest.NewDB(t)
	defer cleanup()

	ctx := context.Background()
	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	in := []*benchrun.Run{run("a b", 1, 1), run("c", 2, 2), run("a b", 4, 3)}
	for _, r := range in {
		if err := u.InsertRun(r); err != nil {
			t.Fatalf("InsertRun: %v", err)
		}
	}
	if err := u.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := db.QueryRuns(ctx, "a b")
	if err != nil {
		t.Fatal(err)
	}
	opt := cmp.AllowUnexported(benchrun.SyscallMetrics{})
	if diff := cmp.Diff([]*benchrun.Run{in[0], in[2]}, got, opt); diff != "" {
		t.Errorf("QueryRuns (-want +got):\n%s", diff)
	}

	all, err := db.QueryRuns(ctx, "")
	if err != nil || len(all) != 3 {
		t.Errorf("QueryRuns(\"\") = %d runs, %v; want 3", len(all), err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := db.QueryRuns(cctx, ""); err == nil {
		t.Errorf("QueryRuns with canceled context succeeded")
	}
}

func TestOpen(t *testing.T) {
	for _, src := range []string{"", "runs.db", "nodriver:x"} {
		if db, err := Open(src); err == nil {
			db.Close()
			t.Errorf("Open(%q) succeeded", src)
		}
	}

	src := "sqlite3:" + filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(src)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	u, err := db.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.InsertRun(run("seq", 2, 1)); err != nil {
		t.Fatal(err)
	}
	if err := u.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// The runs survive reopening the archive.
	db, err = Open(src)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.QueryAll(ctx, "upload:"+u.ID)
	if err != nil || len(got) != 1 || got[0].Workload != "seq" {
		t.Errorf("QueryAll(upload:%s) = %d runs, %v; want the seq run", u.ID, len(got), err)
	}
	if _, err := db.QueryAll(ctx, "color:red"); err == nil {
		t.Errorf("QueryAll with an unknown key succeeded")
	}
}
