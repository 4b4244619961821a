// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image/color"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// histogram bins xs into nbins equal bins spanning [lo, hi]. edges has
// nbins+1 elements. Values equal to hi are counted in the last bin.
func histogram(xs []float64, lo, hi float64, nbins int) (edges []float64, counts []int) {
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h := stats.NewLinearHist(lo, hi, nbins)
	for _, x := range xs {
		h.Add(x)
	}
	_, bins, high := h.Counts()
	counts = make([]int, nbins)
	for i, c := range bins {
		counts[i] = int(c)
	}
	// Bins are half-open, so the maximum lands in the overflow.
	counts[nbins-1] += int(high)
	return vec.Linspace(lo, hi, nbins+1), counts
}

// histTable returns a table with one group per histogram bar. Each
// group has two rows, at the left and right edges of the bar.
func histTable(edges []float64, counts []int) table.Grouping {
	n := len(counts)
	bin := make([]int, 0, 2*n)
	x := make([]float64, 0, 2*n)
	count := make([]float64, 0, 2*n)
	zero := make([]float64, 2*n)
	for i, c := range counts {
		bin = append(bin, i, i)
		x = append(x, edges[i], edges[i+1])
		count = append(count, float64(c), float64(c))
	}
	t := new(table.Builder).
		Add("bin", bin).
		Add("x", x).
		Add("count", count).
		Add("bottom", zero).
		Done()
	return table.GroupBy(t, "bin")
}

// addBars layers the bars of a histogram table onto p.
func addBars(p *gg.Plot, hist table.Grouping, fill color.RGBA) {
	defer p.Save().Restore()
	p.SetData(hist)
	p.Add(gg.LayerArea{
		X:     "x",
		Upper: "count",
		Lower: "bottom",
		Fill:  p.Const(fill),
	})
}

// addTag places label at (x, y) in data coordinates.
func addTag(p *gg.Plot, x, y float64, label string) {
	defer p.Save().Restore()
	p.SetData(new(table.Builder).
		Add("x", []float64{x}).
		Add("y", []float64{y}).
		Add("label", []string{label}).
		Done())
	p.Add(gg.LayerTags{X: "x", Y: "y", Label: "label"})
}
