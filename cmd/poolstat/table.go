// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"

	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
)

// A table summarizes one metric across configurations.
type table struct {
	Metric     string
	Confidence float64
	Rows       []row
}

// A row summarizes one configuration.
type row struct {
	Config         string
	N              int
	Min, Mean, Max string
	Median         string
	Interval       string
	Warnings       []string
}

func summarize(runs []*benchrun.Run, metrics []benchrun.Metric, confidence float64) ([]*table, error) {
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs")
	}
	groups := benchagg.GroupByConfig(runs)

	// Aggregate each group once and reuse it for every metric.
	aggs := make([][3]*benchrun.Run, len(groups))
	for i, g := range groups {
		for j, fn := range []benchagg.Func{benchagg.Min, benchagg.Mean, benchagg.Max} {
			r, err := benchagg.Aggregate(g.Runs, fn)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", g.Key, err)
			}
			aggs[i][j] = r
		}
	}

	var tables []*table
	for _, m := range metrics {
		t := &table{Metric: m.Name, Confidence: confidence}
		for i, g := range groups {
			s := benchagg.Summarize(g, m, confidence)
			r := row{
				Config:   g.Key,
				N:        len(g.Runs),
				Min:      format(m.Value(aggs[i][0])),
				Mean:     format(m.Value(aggs[i][1])),
				Max:      format(m.Value(aggs[i][2])),
				Median:   format(s.Center),
				Interval: interval(s.Lo, s.Hi),
			}
			for _, w := range s.Warnings {
				r.Warnings = append(r.Warnings, w.Error())
			}
			t.Rows = append(t.Rows, r)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func format(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func interval(lo, hi float64) string {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return "[-∞, ∞]"
	}
	return fmt.Sprintf("[%s, %s]", format(lo), format(hi))
}
