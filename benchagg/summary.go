// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchagg

import (
	"github.com/tpool-lab/poolbench/benchrun"
	"golang.org/x/perf/benchmath"
)

// DefaultConfidence is the confidence level used by Summarize callers
// that have no preference.
const DefaultConfidence = 0.95

// Values returns m applied to every run of g, in run order.
func (g *Group) Values(m benchrun.Metric) []float64 {
	xs := make([]float64, len(g.Runs))
	for i, r := range g.Runs {
		xs[i] = m.Value(r)
	}
	return xs
}

// Summarize returns the median of m over the repetitions in g and a
// distribution-free confidence interval around it. With too few
// repetitions for the requested confidence the interval is unbounded
// and Summary.Warnings says so.
func Summarize(g *Group, m benchrun.Metric, confidence float64) benchmath.Summary {
	s := benchmath.NewSample(g.Values(m), &benchmath.DefaultThresholds)
	return benchmath.AssumeNothing.Summary(s, confidence)
}
