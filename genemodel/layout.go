// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genemodel

import "math"

// scaling maps genomic positions to horizontal plot coordinates.
// Exons and introns are shrunk by different factors so short exons
// stay visible next to long introns.
type scaling struct {
	start int
	// graph[i] is the coordinate of base start+i, before
	// normalization to the plot width.
	graph []float64
	total float64

	// Plot coordinates the graph is mapped onto.
	x0, x1 float64
}

func newScaling(a *Artifact, exonScale, intronScale float64, x0, x1 float64) *scaling {
	s := &scaling{start: a.Start(), x0: x0, x1: x1}
	n := a.End() - a.Start() + 1
	s.graph = make([]float64, n)
	exon := 0
	pos := 0.0
	for i := range s.graph {
		base := s.start + i
		for exon < len(a.Exons) && a.Exons[exon].End < base {
			exon++
		}
		s.graph[i] = pos
		if exon < len(a.Exons) && a.Exons[exon].Start <= base {
			pos += 1 / exonScale
		} else {
			pos += 1 / intronScale
		}
	}
	s.total = pos
	return s
}

// x returns the plot coordinate of the left edge of base pos.
func (s *scaling) x(pos int) float64 {
	i := pos - s.start
	var g float64
	switch {
	case i < 0:
		g = 0
	case i >= len(s.graph):
		g = s.total
	default:
		g = s.graph[i]
	}
	if s.total == 0 {
		return s.x0
	}
	return s.x0 + (s.x1-s.x0)*g/s.total
}

// xEnd returns the plot coordinate of the right edge of base pos.
func (s *scaling) xEnd(pos int) float64 {
	return s.x(pos + 1)
}

// transform returns the plotted height of a read density value.
func transform(v float64, logged bool) float64 {
	if logged {
		return math.Log10(1 + v)
	}
	return v
}
