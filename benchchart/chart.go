// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders aggregated benchmark runs as PNG charts.
//
// Every chart plots a primary metric against the size of one pool on
// the left axis and a secondary metric against the same x values on a
// right axis of its own. Both series carry asymmetric error bars
// spanning the min and max repetitions.
package benchchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/tpool-lab/poolbench/benchagg"
	"github.com/tpool-lab/poolbench/benchrun"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure geometry.
const (
	Width  = 15 * vg.Inch
	Height = 10 * vg.Inch
	DPI    = 100
)

var (
	primaryColor   = color.NRGBA{0x1f, 0x77, 0xb4, 0xff}
	secondaryColor = color.NRGBA{0xff, 0x7f, 0x0e, 0xff}
	gridColor      = color.NRGBA{0x80, 0x80, 0x80, 0x80}
)

// A Chart describes a dual-axis chart of aggregated runs.
type Chart struct {
	// Workload restricts the chart to triples of one workload. The
	// empty string plots every triple and titles the chart "all".
	Workload string

	// X is the pool whose size is the x coordinate.
	X string

	// Y is plotted on the left axis.
	Y benchrun.Metric

	// Secondary, if set, is plotted on the right axis. A zero
	// Secondary draws a single-axis chart.
	Secondary benchrun.Metric
}

// Title returns the chart title.
func (c *Chart) Title() string {
	if c.Workload == "" {
		return "all"
	}
	return c.Workload
}

func (c *Chart) selectTriples(triples []benchagg.Triple) []benchagg.Triple {
	if c.Workload == "" {
		return triples
	}
	var sel []benchagg.Triple
	for _, t := range triples {
		if t.Workload() == c.Workload {
			sel = append(sel, t)
		}
	}
	return sel
}

// A Plot is a rendered chart ready to be written out.
type Plot struct {
	plot  *plot.Plot
	right *rightAxis

	// Primary and Secondary are the plotted series, in the units of
	// their own metric. Secondary is nil on a single-axis chart.
	Primary, Secondary *Series
}

// Plot lays out the chart for triples.
func (c *Chart) Plot(triples []benchagg.Triple) (*Plot, error) {
	if c.Y.Value == nil {
		return nil, fmt.Errorf("chart needs a primary metric")
	}
	triples = c.selectTriples(triples)
	if len(triples) == 0 {
		return nil, fmt.Errorf("no runs of workload %q", c.Workload)
	}
	prim, err := NewSeries(triples, c.X, c.Y)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = c.Title()
	p.Title.TextStyle.Font.Size = 20
	p.X.Label.Text = c.X
	p.Y.Label.Text = c.Y.Name
	p.Y.Label.TextStyle.Color = primaryColor
	p.Y.Tick.Label.Color = primaryColor
	p.X.Tick.Marker = xTicks(prim.XYs)

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Width = vg.Points(0.25)
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Width = vg.Points(0.25)
	p.Add(grid)

	if err := addSeries(p, prim, primaryColor); err != nil {
		return nil, err
	}
	plo, phi := padRange(prim.YRange())
	p.Y.Min, p.Y.Max = plo, phi
	if c.Secondary.Value == nil {
		return &Plot{plot: p, Primary: prim}, nil
	}

	sec, err := NewSeries(triples, c.X, c.Secondary)
	if err != nil {
		return nil, err
	}
	slo, shi := padRange(sec.YRange())
	k := (phi - plo) / (shi - slo)
	toPrimary := func(v float64) float64 { return plo + (v-slo)*k }
	if err := addSeries(p, sec.scaled(toPrimary, k), secondaryColor); err != nil {
		return nil, err
	}
	p.Y.Min, p.Y.Max = plo, phi

	right := &rightAxis{
		label:     c.Secondary.Name,
		ticks:     plot.DefaultTicks{}.Ticks(slo, shi),
		toPrimary: toPrimary,
		tickStyle: p.Y.Tick.Label,
		lineStyle: p.Y.LineStyle,
	}
	right.tickStyle.Color = secondaryColor
	right.labelStyle = p.Y.Label.TextStyle
	right.labelStyle.Color = secondaryColor
	p.Add(right)

	return &Plot{plot: p, right: right, Primary: prim, Secondary: sec}, nil
}

func addSeries(p *plot.Plot, s *Series, clr color.Color) error {
	line, points, err := plotter.NewLinePoints(s)
	if err != nil {
		return err
	}
	line.Color = clr
	line.Width = vg.Points(1.5)
	points.Color = clr
	errs, err := plotter.NewYErrorBars(s)
	if err != nil {
		return err
	}
	errs.Color = clr
	p.Add(line, points, errs)
	p.Legend.Add(s.Name, line)
	p.Legend.Top = true
	return nil
}

// padRange widens [lo, hi] by 5% on each side. A degenerate range is
// widened around its value.
func padRange(lo, hi float64) (float64, float64) {
	if lo == hi {
		d := math.Abs(lo) * 0.05
		if d == 0 {
			d = 1
		}
		return lo - d, hi + d
	}
	d := (hi - lo) * 0.05
	return lo - d, hi + d
}

// xTicks labels every distinct x value.
func xTicks(xys plotter.XYs) plot.ConstantTicks {
	var ticks plot.ConstantTicks
	seen := make(map[float64]bool)
	for _, p := range xys {
		if seen[p.X] {
			continue
		}
		seen[p.X] = true
		ticks = append(ticks, plot.Tick{Value: p.X, Label: strconv.FormatFloat(p.X, 'g', -1, 64)})
	}
	return ticks
}

// Draw draws p onto c, leaving room on the right for the secondary
// axis if there is one.
func (p *Plot) Draw(c draw.Canvas) {
	if p.right == nil {
		p.plot.Draw(c)
		return
	}
	p.plot.Draw(draw.Crop(c, 0, -p.right.width(), 0, 0))
}

// WritePNG renders p as a PNG image.
func (p *Plot) WritePNG(w io.Writer) error {
	img := vgimg.NewWith(vgimg.UseWH(Width, Height), vgimg.UseDPI(DPI), vgimg.UseBackgroundColor(color.White))
	p.Draw(draw.New(img))
	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}
