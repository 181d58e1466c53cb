// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives benchmark runs in a SQL database.
//
// Runs are stored in uploads. Every upload has an ID of the form
// YYYYMMDD.N, where N counts the uploads made on that day, and holds
// the runs inserted before it was committed.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tpool-lab/poolbench/benchrun"
)

// DB is a high-level interface to a run archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lastUpload    *sql.Stmt
	insertUpload  *sql.Stmt
	insertRun     *sql.Stmt
	clearUploadID *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open opens the database named by source, of the form
// "driver:dataSourceName", for example "sqlite3:runs.db".
func Open(source string) (*DB, error) {
	driverName, dataSourceName, ok := strings.Cut(source, ":")
	if !ok || driverName == "" {
		return nil, fmt.Errorf("database %q is not of the form driver:dsn", source)
	}
	return OpenSQL(driverName, dataSourceName)
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID VARCHAR(20) PRIMARY KEY,
	Day VARCHAR(8),
	Seq BIGINT UNSIGNED
{{if not .sqlite3}}
	, Index (Day, Seq)
{{end}}
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS UploadDaySeq ON Uploads(Day, Seq);
{{end}}
CREATE TABLE IF NOT EXISTS Runs (
	UploadID VARCHAR(20),
	RunID BIGINT UNSIGNED,
	Workload VARCHAR(255),
	Params VARCHAR(1024),
	Content BLOB,
	PRIMARY KEY (UploadID, RunID),
{{if not .sqlite3}}
	Index (Workload(100), Params(100)),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RunsWorkloadParams ON Runs(Workload, Params);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.lastUpload, err = db.sql.Prepare("SELECT Seq FROM Uploads WHERE Day = ? ORDER BY Seq DESC LIMIT 1")
	if err != nil {
		return err
	}
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(UploadID, Day, Seq) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(UploadID, RunID, Workload, Params, Content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.clearUploadID, err = db.sql.Prepare("DELETE FROM Runs WHERE UploadID = ?")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// An Upload is a collection of runs that share an upload ID.
type Upload struct {
	// ID is the value of the upload ID.
	ID string
	// runid is the index of the next run to insert.
	runid int64
	// db is the underlying database that this upload is going to.
	db *DB
	// tx is the transaction used by the upload.
	tx *sql.Tx

	// prepared statements; these are valid until the upload is
	// committed or aborted.
	insertRun *sql.Stmt
}

// NewUpload returns an upload for storing new runs.
// All runs written to the Upload will have the same upload ID.
func (db *DB) NewUpload(ctx context.Context) (*Upload, error) {
	day := now().UTC().Format("20060102")

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	var lastID int64
	err = tx.Stmt(db.lastUpload).QueryRowContext(ctx, day).Scan(&lastID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	}
	id := fmt.Sprintf("%s.%d", day, lastID+1)
	if _, err := tx.Stmt(db.insertUpload).ExecContext(ctx, id, day, lastID+1); err != nil {
		return nil, err
	}

	u := &Upload{
		ID:        id,
		db:        db,
		tx:        tx,
		insertRun: tx.Stmt(db.insertRun),
	}
	tx = nil
	return u, nil
}

// ReplaceUpload returns an upload for storing runs under id. Runs
// previously stored under id are removed when the upload is
// committed.
func (db *DB) ReplaceUpload(id string) (*Upload, error) {
	tx, err := db.sql.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Stmt(db.clearUploadID).Exec(id); err != nil {
		tx.Rollback()
		return nil, err
	}
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM Uploads WHERE UploadID = ?", id).Scan(&n); err != nil {
		tx.Rollback()
		return nil, err
	}
	if n == 0 {
		if _, err := tx.Stmt(db.insertUpload).Exec(id, nil, nil); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	return &Upload{
		ID:        id,
		db:        db,
		tx:        tx,
		insertRun: tx.Stmt(db.insertRun),
	}, nil
}

// InsertRun inserts a single run in an existing upload.
func (u *Upload) InsertRun(r *benchrun.Run) error {
	content, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := u.insertRun.Exec(u.ID, u.runid, r.Workload, r.ParamsString(), content); err != nil {
		return err
	}
	u.runid++
	return nil
}

// Commit finishes processing the upload.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort cleans up resources associated with the upload.
// It does not attempt to clean up partial database state.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// A Query is an iterator over the runs matching a query.
type Query struct {
	rows *sql.Rows

	// from last call to Next
	uploadID string
	run      *benchrun.Run
	err      error
}

// Query searches for runs matching the given query string. The query
// is a space-separated list of key:value terms, all of which must
// match. Valid keys are "workload", "params" and "upload". An empty
// query matches every run. Runs are returned in upload and insertion
// order.
func (db *DB) Query(q string) *Query {
	var (
		where []string
		args  []interface{}
	)
	for _, word := range splitQueryWords(q) {
		key, value, ok := strings.Cut(word, ":")
		if !ok {
			return &Query{err: fmt.Errorf("query term %q is not of the form key:value", word)}
		}
		col, ok := queryColumns[key]
		if !ok {
			return &Query{err: fmt.Errorf("unknown query key %q", key)}
		}
		where = append(where, col+" = ?")
		args = append(args, value)
	}
	return db.query(where, args)
}

func (db *DB) query(where []string, args []interface{}) *Query {
	query := "SELECT Runs.UploadID, Runs.Content FROM Runs JOIN Uploads USING (UploadID)"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY Uploads.Day, Uploads.Seq, Runs.UploadID, Runs.RunID"
	rows, err := db.sql.Query(query, args...)
	if err != nil {
		return &Query{err: err}
	}
	return &Query{rows: rows}
}

var queryColumns = map[string]string{
	"workload": "Runs.Workload",
	"params":   "Runs.Params",
	"upload":   "Runs.UploadID",
}

// Next prepares the next run for reading. It returns false when there
// are no more runs or an error occurs.
func (q *Query) Next() bool {
	if q.err != nil || q.rows == nil {
		return false
	}
	if !q.rows.Next() {
		return false
	}
	var content []byte
	if q.err = q.rows.Scan(&q.uploadID, &content); q.err != nil {
		return false
	}
	r := new(benchrun.Run)
	if q.err = json.Unmarshal(content, r); q.err != nil {
		q.err = fmt.Errorf("upload %s: %w", q.uploadID, q.err)
		return false
	}
	q.run = r
	return true
}

// Run returns the most recent run generated by a call to Next.
func (q *Query) Run() *benchrun.Run { return q.run }

// UploadID returns the upload of the most recent run.
func (q *Query) UploadID() string { return q.uploadID }

// Err returns the error state of the query.
func (q *Query) Err() error {
	if q.err != nil {
		return q.err
	}
	if q.rows != nil {
		return q.rows.Err()
	}
	return nil
}

// Close frees resources associated with the query.
func (q *Query) Close() error {
	if q.rows != nil {
		return q.rows.Close()
	}
	return q.Err()
}

// QueryRuns returns every archived run of workload, or every run if
// workload is empty.
func (db *DB) QueryRuns(ctx context.Context, workload string) ([]*benchrun.Run, error) {
	if workload == "" {
		return collect(ctx, db.query(nil, nil))
	}
	return collect(ctx, db.query([]string{"Runs.Workload = ?"}, []interface{}{workload}))
}

// QueryAll returns every run matching q, in the syntax of Query.
func (db *DB) QueryAll(ctx context.Context, q string) ([]*benchrun.Run, error) {
	return collect(ctx, db.Query(q))
}

func collect(ctx context.Context, it *Query) ([]*benchrun.Run, error) {
	defer it.Close()
	var runs []*benchrun.Run
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runs = append(runs, it.Run())
	}
	return runs, it.Err()
}

// splitQueryWords splits q into words using shell syntax (whitespace
// can be escaped with double quotes or with a backslash).
func splitQueryWords(q string) []string {
	var words []string
	word := make([]byte, len(q))
	w := 0
	quoting := false
	for r := 0; r < len(q); r++ {
		switch c := q[r]; {
		case c == '"' && quoting:
			quoting = false
		case quoting:
			if c == '\\' {
				r++
			}
			if r < len(q) {
				word[w] = q[r]
				w++
			}
		case c == '"':
			quoting = true
		case c == ' ', c == '\t':
			if w > 0 {
				words = append(words, string(word[:w]))
			}
			w = 0
		case c == '\\':
			r++
			fallthrough
		default:
			if r < len(q) {
				word[w] = q[r]
				w++
			}
		}
	}
	if w > 0 {
		words = append(words, string(word[:w]))
	}
	return words
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.lastUpload, db.insertUpload, db.insertRun, db.clearUploadID} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
