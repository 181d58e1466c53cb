// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runsource loads the runs a command works on, from run files,
// the run archive, or both.
package runsource

import (
	"context"
	"errors"

	"github.com/tpool-lab/poolbench/benchrun"
	"github.com/tpool-lab/poolbench/storage/db"
)

// A Source names where runs come from.
type Source struct {
	// Files are run files, read in order.
	Files []string

	// DB is an archive of the form "driver:dsn". Its runs follow
	// those of Files.
	DB string

	// Archive, if non-nil, is used instead of opening DB.
	Archive *db.DB

	// Query selects archived runs, as in db.Query. Empty selects all.
	Query string

	// Sparse fills syscalls missing from a run with zeros.
	Sparse bool
}

// Load returns the runs of s. It is an error for s to yield no runs.
func (s *Source) Load(ctx context.Context) ([]*benchrun.Run, error) {
	var runs []*benchrun.Run
	if len(s.Files) > 0 {
		rs, err := benchrun.ReadFiles(s.Files...)
		if err != nil {
			return nil, err
		}
		runs = rs
	}

	archive := s.Archive
	if archive == nil && s.DB != "" {
		d, err := db.Open(s.DB)
		if err != nil {
			return nil, err
		}
		defer d.Close()
		archive = d
	}
	switch {
	case archive != nil:
		rs, err := archive.QueryAll(ctx, s.Query)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rs...)
	case s.Query != "":
		return nil, errors.New("a query needs a database")
	}

	if len(runs) == 0 {
		return nil, errors.New("no runs")
	}
	if s.Sparse {
		runs = benchrun.FillSyscalls(runs)
	}
	return runs, nil
}
