// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"fmt"
	"math"

	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
	"gonum.org/v1/plot/plotter"
)

// A Series is one metric plotted against a pool size. Each point is
// the metric of the mean run, with error bars reaching down to the
// metric of the min run and up to the metric of the max run.
//
// Series implements plotter.XYer and plotter.YErrorer.
type Series struct {
	Name string
	plotter.XYs
	Errs plotter.YErrors
}

// NewSeries builds the series of metric m over triples, using the size
// of pool x as the x coordinate. Every triple must configure pool x.
func NewSeries(triples []benchagg.Triple, x string, m benchrun.Metric) (*Series, error) {
	s := &Series{
		Name: m.Name,
		XYs:  make(plotter.XYs, len(triples)),
		Errs: make(plotter.YErrors, len(triples)),
	}
	for i, t := range triples {
		size, ok := t.Mean.ThreadConfig[x]
		if !ok {
			return nil, fmt.Errorf("%s: no pool %q in thread config", t.Mean.ParamsString(), x)
		}
		mean := m.Value(t.Mean)
		s.XYs[i].X = float64(size)
		s.XYs[i].Y = mean
		s.Errs[i].Low = math.Abs(mean - m.Value(t.Min))
		s.Errs[i].High = math.Abs(m.Value(t.Max) - mean)
	}
	return s, nil
}

// YError implements plotter.YErrorer.
func (s *Series) YError(i int) (float64, float64) {
	return s.Errs[i].Low, s.Errs[i].High
}

// YRange returns the extent of s including its error bars. An empty
// series has the range [0, 0].
func (s *Series) YRange() (lo, hi float64) {
	if len(s.XYs) == 0 {
		return 0, 0
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, p := range s.XYs {
		lo = math.Min(lo, p.Y-s.Errs[i].Low)
		hi = math.Max(hi, p.Y+s.Errs[i].High)
	}
	return lo, hi
}

// scaled returns s with every y value v replaced by f(v) and its errors
// multiplied by k.
func (s *Series) scaled(f func(float64) float64, k float64) *Series {
	out := &Series{
		Name: s.Name,
		XYs:  make(plotter.XYs, len(s.XYs)),
		Errs: make(plotter.YErrors, len(s.Errs)),
	}
	for i, p := range s.XYs {
		out.XYs[i].X = p.X
		out.XYs[i].Y = f(p.Y)
		out.Errs[i].Low = s.Errs[i].Low * k
		out.Errs[i].High = s.Errs[i].High * k
	}
	return out
}
