// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package reports

import "math"

// Geometry sets the chart canvas and margins in SVG user units. The bottom
// margin leaves room for the rotated category labels.
type Geometry struct {
	Width, Height            float64
	Left, Right, Top, Bottom float64
	LabelAngle               float64
	MaxLabel                 int // Runes kept before truncating a label
}

// DefaultGeometry is used by the reports page.
var DefaultGeometry = Geometry{
	Width: 720, Height: 380,
	Left: 48, Right: 16, Top: 16, Bottom: 140,
	LabelAngle: -45,
	MaxLabel:   28,
}

// Bar is one laid-out bar.
type Bar struct {
	X, Y, Width, Height float64
	LabelX, LabelY      float64
	Label               string // Possibly truncated
	Name                string // Full label
	Value               int64
}

// Tick is one y-axis gridline.
type Tick struct {
	Y     float64
	Value int64
}

// Chart is a dataset laid out for SVG rendering.
type Chart struct {
	Geometry
	Bars       []Bar
	Ticks      []Tick
	PlotLeft   float64
	PlotRight  float64
	PlotTop    float64
	PlotBottom float64
}

// Layout positions rows as vertical bars on an integer axis.
func Layout(rows []Row, g Geometry) Chart {
	c := Chart{
		Geometry:   g,
		PlotLeft:   g.Left,
		PlotRight:  g.Width - g.Right,
		PlotTop:    g.Top,
		PlotBottom: g.Height - g.Bottom,
	}
	if len(rows) == 0 {
		return c
	}

	var max int64
	for _, r := range rows {
		if r.Value > max {
			max = r.Value
		}
	}
	step := niceStep(max)
	top := step * int64(math.Ceil(float64(max)/float64(step)))
	if top == 0 {
		top = step
	}

	plotH := c.PlotBottom - c.PlotTop
	scale := func(v int64) float64 { return c.PlotBottom - plotH*float64(v)/float64(top) }

	for v := int64(0); v <= top; v += step {
		c.Ticks = append(c.Ticks, Tick{Y: scale(v), Value: v})
	}

	band := (c.PlotRight - c.PlotLeft) / float64(len(rows))
	width := band * 0.7
	for i, r := range rows {
		v := r.Value
		if v < 0 {
			v = 0
		}
		x := c.PlotLeft + float64(i)*band + (band-width)/2
		y := scale(v)
		c.Bars = append(c.Bars, Bar{
			X: x, Y: y, Width: width, Height: c.PlotBottom - y,
			LabelX: x + width/2,
			LabelY: c.PlotBottom + 12,
			Label:  truncate(r.Name, g.MaxLabel),
			Name:   r.Name,
			Value:  r.Value,
		})
	}
	return c
}

// niceStep picks a 1, 2 or 5 times power-of-ten step giving about four
// intervals up to max. The result is at least 1.
func niceStep(max int64) int64 {
	if max <= 4 {
		return 1
	}
	raw := float64(max) / 4
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch f := raw / mag; {
	case f <= 1:
		step = mag
	case f <= 2:
		step = 2 * mag
	case f <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	return int64(step)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
