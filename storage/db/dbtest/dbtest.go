// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens scratch run archives for tests.
package dbtest

import (
	"flag"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/tpool-lab/poolbench/storage/db"
	_ "github.com/tpool-lab/poolbench/storage/db/sqlite3"
)

var mysqlDSN = flag.String("mysql", "", "run database tests against the MySQL `dsn` instead of in-memory SQLite; the database must be empty")

// NewDB makes a connection to a testing database, either in-memory
// sqlite3 or MySQL depending on the -mysql flag. cleanup must be
// called when done with the testing database, instead of calling
// db.Close().
func NewDB(t *testing.T) (*db.DB, func()) {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *mysqlDSN != "" {
		driverName, dataSourceName = "mysql", *mysqlDSN
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	cleanup := func() { d.Close() }

	// Make sure the database really is empty.
	uploads, err := d.CountUploads()
	if err != nil {
		cleanup()
		t.Fatal(err)
	}
	if uploads != 0 {
		cleanup()
		t.Fatalf("found %d row(s) in Uploads, want 0", uploads)
	}
	return d, cleanup
}
