// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	tickLength = 8
	labelGap   = 5
)

// rightAxis draws a second y axis along the right edge of the data
// area. Tick values are in secondary units and toPrimary places them
// on the plot's own y scale.
type rightAxis struct {
	label     string
	ticks     []plot.Tick
	toPrimary func(float64) float64

	tickStyle  text.Style
	labelStyle text.Style
	lineStyle  draw.LineStyle
}

// width is the horizontal space the axis needs beyond the data area.
func (a *rightAxis) width() vg.Length {
	var w vg.Length
	for _, t := range a.ticks {
		if t.Label != "" {
			if tw := a.tickStyle.Width(t.Label); tw > w {
				w = tw
			}
		}
	}
	w += vg.Points(tickLength + 2*labelGap)
	if a.label != "" {
		w += a.labelStyle.Height(a.label) + vg.Points(labelGap)
	}
	return w
}

// Plot implements plot.Plotter.
func (a *rightAxis) Plot(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	x := c.Max.X
	c.StrokeLine2(a.lineStyle, x, c.Min.Y, x, c.Max.Y)

	sty := a.tickStyle
	sty.XAlign = draw.XLeft
	sty.YAlign = draw.YCenter
	var labelW vg.Length
	for _, t := range a.ticks {
		y := trY(a.toPrimary(t.Value))
		if !c.ContainsY(y) {
			continue
		}
		l := vg.Points(tickLength)
		if t.Label == "" {
			l /= 2
		}
		c.StrokeLine2(a.lineStyle, x, y, x+l, y)
		if t.Label == "" {
			continue
		}
		c.FillText(sty, vg.Point{X: x + vg.Points(tickLength+labelGap), Y: y}, t.Label)
		if w := sty.Width(t.Label); w > labelW {
			labelW = w
		}
	}

	if a.label == "" {
		return
	}
	lsty := a.labelStyle
	lsty.Rotation = -math.Pi / 2
	lsty.XAlign = draw.XCenter
	lsty.YAlign = draw.YTop
	lx := x + vg.Points(tickLength+2*labelGap) + labelW
	c.FillText(lsty, vg.Point{X: lx, Y: (c.Min.Y + c.Max.Y) / 2}, a.label)
}
