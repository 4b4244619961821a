// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samples

import (
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/misoplot/sashimi/internal/failure"
)

// Request controls how a sample set is summarized and drawn.
type Request struct {
	// PlotMean selects the posterior mean as the point estimate.
	// Otherwise the MAP draw is used.
	PlotMean bool

	// WidthPercent, if non-nil, requests a central credible
	// interval containing this percentage of the posterior mass.
	// It must be in (0, 100].
	WidthPercent *float64

	// FigDims is the figure size in pixels. Zero values mean the
	// size from the settings file.
	FigDims [2]int
}

// Summary is the point estimate and optional credible interval of
// each isoform's Psi.
type Summary struct {
	Estimates []float64

	// Interval is nil if no interval was requested.
	Interval *Interval
}

// Interval is a central credible interval per isoform.
type Interval struct {
	// Width is the percentage of posterior mass in the interval.
	Width float64

	Low, High []float64
}

// Summarize computes the point estimates and, if requested, credible
// intervals of s.
func Summarize(s *Set, req Request) (*Summary, error) {
	if len(s.Samples) == 0 {
		return nil, failure.Invalidf("no samples to summarize")
	}
	if w := req.WidthPercent; w != nil && !(*w > 0 && *w <= 100) {
		return nil, failure.Invalidf("credible interval width %v%% is not in (0, 100]", *w)
	}

	n := s.NumIsoforms()
	sum := &Summary{Estimates: make([]float64, n)}
	if req.WidthPercent != nil {
		sum.Interval = &Interval{
			Width: *req.WidthPercent,
			Low:   make([]float64, n),
			High:  make([]float64, n),
		}
	}
	for i := 0; i < n; i++ {
		sample := stats.Sample{Xs: s.Isoform(i)}
		if req.PlotMean {
			sum.Estimates[i] = sample.Mean()
		} else {
			sum.Estimates[i] = s.MAP[i]
		}
		if sum.Interval != nil {
			sample.Sort()
			tail := (1 - sum.Interval.Width/100) / 2
			sum.Interval.Low[i] = sample.Quantile(tail)
			sum.Interval.High[i] = sample.Quantile(1 - tail)
		}
	}
	return sum, nil
}

// String formats the summary of every isoform on one line.
func (s *Summary) String() string {
	var b strings.Builder
	for i, est := range s.Estimates {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%.3f", est)
		if s.Interval != nil {
			fmt.Fprintf(&b, " [%.3f, %.3f]", s.Interval.Low[i], s.Interval.High[i])
		}
	}
	return b.String()
}
