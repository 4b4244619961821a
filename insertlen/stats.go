// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package insertlen

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"

	"github.com/misoplot/sashimi/internal/failure"
)

// Stats summarizes an insert length distribution.
type Stats struct {
	Mean float64

	// StdDev is the sample standard deviation (n-1 denominator).
	StdDev float64

	// Dispersion is the index of dispersion, variance/mean, using
	// the sample variance. It is 1 for Poisson-distributed data.
	Dispersion float64

	// N is the number of read pairs.
	N int

	Min, Max float64
}

// ComputeStats computes the summary statistics of lengths. It fails
// if lengths is empty or has mean 0.
func ComputeStats(lengths []float64) (Stats, error) {
	if len(lengths) == 0 {
		return Stats{}, failure.Invalidf("empty insert length distribution")
	}
	s := stats.Sample{Xs: lengths}
	mean := s.Mean()
	if mean == 0 {
		return Stats{}, failure.Invalidf("insert length mean is 0; dispersion is undefined")
	}
	variance := s.Variance()
	min, max := s.Bounds()
	return Stats{
		Mean:       mean,
		StdDev:     s.StdDev(),
		Dispersion: variance / mean,
		N:          len(lengths),
		Min:        min,
		Max:        max,
	}, nil
}

// String formats the statistics the way they are annotated on plots.
func (s Stats) String() string {
	return fmt.Sprintf("μ: %.1f σ: %.1f d: %.1f", s.Mean, s.StdDev, s.Dispersion)
}
