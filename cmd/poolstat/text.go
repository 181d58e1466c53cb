// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tpool-lab/poolbench/internal/texttab"
)

// formatText writes a fixed-width text formatting of the tables to w.
// Warnings are collected below each table and referenced by number.
func formatText(w io.Writer, tables []*table) error {
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintf(w, "\n")
		}
		var tab texttab.Table
		tab.Row().Cells(t.Metric, "n", "min", "mean", "max", "median", fmt.Sprintf("%g CI", t.Confidence))
		var notes []string
		for _, r := range t.Rows {
			tab.Row().Cell(r.Config).Cell(strconv.Itoa(r.N), texttab.Right)
			for _, v := range []string{r.Min, r.Mean, r.Max, r.Median} {
				tab.Cell(v, texttab.Right)
			}
			ci := r.Interval
			for _, warn := range r.Warnings {
				notes = append(notes, warn)
				ci += fmt.Sprintf(" (%d)", len(notes))
			}
			tab.Cell(ci)
		}
		if err := tab.Format(w); err != nil {
			return err
		}
		for j, note := range notes {
			if _, err := fmt.Fprintf(w, "(%d) %s\n", j+1, note); err != nil {
				return err
			}
		}
	}
	return nil
}
