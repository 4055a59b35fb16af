// Package render draws the input-space partition a verification call
// produces as an SVG of rectangles, one per enumerated mapping, for the
// iospace tool (spec.md §6, "[SUPPLEMENT]" F).
//
// Grounded on dshills/dungo's pkg/export/svg.go: an Options struct with
// sane defaults, a bytes.Buffer-backed svgo canvas, and a sorted,
// deterministic draw loop so repeated runs over the same input produce
// byte-identical output.
package render

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/lattisworks/vote/bound"
	"github.com/lattisworks/vote/ensemble"
	"github.com/lattisworks/vote/mapping"
	"github.com/lattisworks/vote/outcome"
)

// Options configures a partition rendering.
type Options struct {
	Width, Height int    // canvas size in pixels
	Margin        int    // border around the plotted region
	XDim, YDim    int    // which two input dimensions to plot
	Title         string // optional header text
	ShowGrid      bool   // draw axis ticks
}

// DefaultOptions returns sane defaults for a two-dimensional partition
// plot: an 800x800 canvas plotting input dimensions 0 and 1.
func DefaultOptions() Options {
	return Options{
		Width:    800,
		Height:   800,
		Margin:   40,
		XDim:     0,
		YDim:     1,
		ShowGrid: true,
	}
}

// Collect runs ensemble.Forall over inputs and returns every mapping the
// post-process stage produced, in visit order. Each mapping's Inputs is
// one cell of the partition Forall enumerated; its Outputs is that
// cell's precise, post-processed output vector.
//
// Collect always returns true from the predicate it installs, so it
// visits the complete partition regardless of any verification verdict
// — iospace wants the whole picture, not a short-circuited one.
func Collect(e *ensemble.Ensemble, inputs []bound.Bound) []*mapping.Mapping {
	var cells []*mapping.Mapping
	ensemble.Forall(e, inputs, func(m *mapping.Mapping) outcome.Outcome {
		cells = append(cells, mapping.Copy(m))
		return outcome.PASS
	})
	return cells
}

// Partition renders cells as an SVG: one rectangle per cell, projected
// onto (opts.XDim, opts.YDim), filled by a color derived from that
// cell's dominant output dimension. cells with an unbounded projected
// extent on either axis are clipped to the bounding box of every finite
// cell edge before scaling, since an SVG canvas has no way to draw
// ±Inf.
func Partition(cells []*mapping.Mapping, opts Options) ([]byte, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("render.Partition: no cells to draw")
	}
	for _, c := range cells {
		if opts.XDim >= c.NIn() || opts.YDim >= c.NIn() {
			return nil, fmt.Errorf("render.Partition: dimension out of range for %d-input mapping", c.NIn())
		}
	}

	xlo, xhi, ylo, yhi := projectedBounds(cells, opts.XDim, opts.YDim)

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#ffffff")

	plotW := opts.Width - 2*opts.Margin
	plotH := opts.Height - 2*opts.Margin

	scaleX := func(x bound.R) int {
		if xhi == xlo {
			return opts.Margin + plotW/2
		}
		return opts.Margin + int(float64(plotW)*(x-xlo)/(xhi-xlo))
	}
	scaleY := func(y bound.R) int {
		if yhi == ylo {
			return opts.Margin + plotH/2
		}
		// Flip: input-space "up" is screen "up", SVG y grows downward.
		return opts.Margin + plotH - int(float64(plotH)*(y-ylo)/(yhi-ylo))
	}

	// Sort by area, descending, so small cells draw on top of (not
	// hidden behind) any larger cell that happens to enclose them.
	ordered := make([]*mapping.Mapping, len(cells))
	copy(ordered, cells)
	sort.SliceStable(ordered, func(i, j int) bool {
		return cellArea(ordered[i], opts) > cellArea(ordered[j], opts)
	})

	for _, c := range ordered {
		drawCell(canvas, c, opts, xlo, xhi, ylo, yhi, scaleX, scaleY)
	}

	if opts.ShowGrid {
		drawAxes(canvas, opts)
	}
	if opts.Title != "" {
		canvas.Text(opts.Width/2, 20, opts.Title, "text-anchor:middle;font-size:16px;font-family:sans-serif")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// drawCell draws a single cell's rectangle, filled with the color
// cellColor picks from the cell's argmax output dimension.
func drawCell(canvas *svg.SVG, c *mapping.Mapping, opts Options, xlo, xhi, ylo, yhi bound.R, scaleX, scaleY func(bound.R) int) {
	lox, hix := clip(c.Inputs[opts.XDim], xlo, xhi)
	loy, hiy := clip(c.Inputs[opts.YDim], ylo, yhi)

	x0, x1 := scaleX(lox), scaleX(hix)
	y0, y1 := scaleY(hiy), scaleY(loy) // hiy maps to the smaller screen y

	color := cellColor(c)
	canvas.Rect(x0, y0, maxInt(x1-x0, 1), maxInt(y1-y0, 1),
		fmt.Sprintf("fill:%s;stroke:#333;stroke-width:1;opacity:0.75", color))
}

// cellColor picks a fill color from the mapping's argmax output
// dimension, falling back to a neutral gray for multi-way ties.
func cellColor(m *mapping.Mapping) string {
	palette := []string{"#4299e1", "#48bb78", "#f56565", "#ed8936", "#9f7aea", "#ecc94b", "#38b2ac"}
	k := mapping.Argmax(m)
	if k == mapping.Inconclusive || k < 0 {
		return "#a0aec0"
	}
	return palette[k%len(palette)]
}

// projectedBounds returns the tightest finite rectangle covering every
// cell's projection onto (xDim, yDim), ignoring infinite edges.
func projectedBounds(cells []*mapping.Mapping, xDim, yDim int) (xlo, xhi, ylo, yhi bound.R) {
	xlo, xhi = math.Inf(1), math.Inf(-1)
	ylo, yhi = math.Inf(1), math.Inf(-1)

	for _, c := range cells {
		ib := c.Inputs[xDim]
		if isFinite(ib.Lo) && ib.Lo < xlo {
			xlo = ib.Lo
		}
		if isFinite(ib.Hi) && ib.Hi > xhi {
			xhi = ib.Hi
		}
		jb := c.Inputs[yDim]
		if isFinite(jb.Lo) && jb.Lo < ylo {
			ylo = jb.Lo
		}
		if isFinite(jb.Hi) && jb.Hi > yhi {
			yhi = jb.Hi
		}
	}

	if xlo > xhi {
		xlo, xhi = -1, 1
	}
	if ylo > yhi {
		ylo, yhi = -1, 1
	}
	return xlo, xhi, ylo, yhi
}

// clip narrows b to [lo, hi] on whichever edges are infinite, so an
// unbounded leaf cell (e.g. the outermost split in a tree) still draws
// as a finite rectangle against the plotted frame.
func clip(b bound.Bound, lo, hi bound.R) (bound.R, bound.R) {
	l, h := b.Lo, b.Hi
	if !isFinite(l) || l < lo {
		l = lo
	}
	if !isFinite(h) || h > hi {
		h = hi
	}
	return l, h
}

func cellArea(c *mapping.Mapping, opts Options) bound.R {
	lo, hi := clip(c.Inputs[opts.XDim], -1e18, 1e18)
	w := hi - lo
	lo, hi = clip(c.Inputs[opts.YDim], -1e18, 1e18)
	h := hi - lo
	return w * h
}

func drawAxes(canvas *svg.SVG, opts Options) {
	canvas.Line(opts.Margin, opts.Height-opts.Margin, opts.Width-opts.Margin, opts.Height-opts.Margin, "stroke:#000;stroke-width:1")
	canvas.Line(opts.Margin, opts.Margin, opts.Margin, opts.Height-opts.Margin, "stroke:#000;stroke-width:1")
}

func isFinite(x bound.R) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

