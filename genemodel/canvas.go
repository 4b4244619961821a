// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genemodel

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// A canvas is a drawing surface in pixel coordinates with y growing
// downward.
type canvas interface {
	polygon(xs, ys []float64, fill color.RGBA)
	rect(x, y, w, h float64, fill color.RGBA)
	line(x1, y1, x2, y2, width float64, stroke color.RGBA)
	// curve strokes a quadratic Bézier curve from (x1, y1) to
	// (x2, y2) with control point (cx, cy).
	curve(x1, y1, cx, cy, x2, y2, width float64, stroke color.RGBA)
	// text draws s with its baseline at y. anchor is "start",
	// "middle", or "end".
	text(x, y float64, s string, size float64, anchor string)
	finish() error
}

// errWriter records the first write error, since svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

type svgCanvas struct {
	ew *errWriter
	s  *svg.SVG
}

func newSVGCanvas(w io.Writer, width, height int) *svgCanvas {
	ew := &errWriter{w: w}
	s := svg.New(ew)
	s.Start(width, height)
	s.Rect(0, 0, width, height, "fill:white")
	return &svgCanvas{ew, s}
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func ints(xs []float64) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = round(x)
	}
	return out
}

func round(x float64) int {
	return int(math.Round(x))
}

func (c *svgCanvas) polygon(xs, ys []float64, fill color.RGBA) {
	c.s.Polygon(ints(xs), ints(ys), "fill:"+cssColor(fill)+";stroke:none")
}

func (c *svgCanvas) rect(x, y, w, h float64, fill color.RGBA) {
	c.s.Rect(round(x), round(y), round(w), round(h), "fill:"+cssColor(fill)+";stroke:none")
}

func (c *svgCanvas) line(x1, y1, x2, y2, width float64, stroke color.RGBA) {
	c.s.Line(round(x1), round(y1), round(x2), round(y2), fmt.Sprintf("stroke:%s;stroke-width:%g", cssColor(stroke), width))
}

func (c *svgCanvas) curve(x1, y1, cx, cy, x2, y2, width float64, stroke color.RGBA) {
	c.s.Qbez(round(x1), round(y1), round(cx), round(cy), round(x2), round(y2), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", cssColor(stroke), width))
}

func (c *svgCanvas) text(x, y float64, s string, size float64, anchor string) {
	c.s.Text(round(x), round(y), s, fmt.Sprintf("font-family:sans-serif;font-size:%gpx;text-anchor:%s", size, anchor))
}

func (c *svgCanvas) finish() error {
	c.s.End()
	return c.ew.err
}

// pngCanvas rasterizes onto an RGBA image. Text is always drawn in
// the 7x13 bitmap face regardless of size.
type pngCanvas struct {
	w   io.Writer
	img *image.RGBA
	z   *vector.Rasterizer
}

func newPNGCanvas(w io.Writer, width, height int) *pngCanvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &pngCanvas{w, img, vector.NewRasterizer(width, height)}
}

func (c *pngCanvas) fill(col color.RGBA) {
	b := c.img.Bounds()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *pngCanvas) polygon(xs, ys []float64, fill color.RGBA) {
	if len(xs) < 3 {
		return
	}
	c.z.MoveTo(float32(xs[0]), float32(ys[0]))
	for i := 1; i < len(xs); i++ {
		c.z.LineTo(float32(xs[i]), float32(ys[i]))
	}
	c.z.ClosePath()
	c.fill(fill)
}

func (c *pngCanvas) rect(x, y, w, h float64, fill color.RGBA) {
	c.polygon([]float64{x, x + w, x + w, x}, []float64{y, y, y + h, y + h}, fill)
}

// segment adds a stroked segment to the rasterizer path as a thin
// quadrilateral.
func (c *pngCanvas) segment(x1, y1, x2, y2, width float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.z.MoveTo(float32(x1+nx), float32(y1+ny))
	c.z.LineTo(float32(x2+nx), float32(y2+ny))
	c.z.LineTo(float32(x2-nx), float32(y2-ny))
	c.z.LineTo(float32(x1-nx), float32(y1-ny))
	c.z.ClosePath()
}

func (c *pngCanvas) line(x1, y1, x2, y2, width float64, stroke color.RGBA) {
	c.segment(x1, y1, x2, y2, width)
	c.fill(stroke)
}

func (c *pngCanvas) curve(x1, y1, cx, cy, x2, y2, width float64, stroke color.RGBA) {
	const steps = 32
	px, py := x1, y1
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		x := u*u*x1 + 2*u*t*cx + t*t*x2
		y := u*u*y1 + 2*u*t*cy + t*t*y2
		c.segment(px, py, x, y, width)
		px, py = x, y
	}
	c.fill(stroke)
}

func (c *pngCanvas) text(x, y float64, s string, size float64, anchor string) {
	face := basicfont.Face7x13
	adv := font.MeasureString(face, s).Round()
	switch anchor {
	case "middle":
		x -= float64(adv) / 2
	case "end":
		x -= float64(adv)
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(round(x), round(y)),
	}
	d.DrawString(s)
}

func (c *pngCanvas) finish() error {
	return png.Encode(c.w, c.img)
}
