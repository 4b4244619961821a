// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/misoplot/sashimi/eventindex"
	"github.com/misoplot/sashimi/genemodel"
	"github.com/misoplot/sashimi/insertlen"
	"github.com/misoplot/sashimi/internal/failure"
	"github.com/misoplot/sashimi/internal/outfile"
	"github.com/misoplot/sashimi/samples"
	"github.com/misoplot/sashimi/settings"
)

// prepare checks that the input files and output directory exist and
// loads the settings file.
func prepare(settingsFile, outDir string, inputs ...string) (*settings.Settings, error) {
	for i := 0; i+1 < len(inputs); i += 2 {
		if err := failure.RequireFile(inputs[i], inputs[i+1]); err != nil {
			return nil, err
		}
	}
	if err := failure.RequireFile("settings file", settingsFile); err != nil {
		return nil, err
	}
	if err := failure.RequireDir("output directory", outDir); err != nil {
		return nil, err
	}
	return settings.Load(settingsFile)
}

func writeSVG(path string, p *gg.Plot, width, height int) error {
	err := outfile.Write(path, func(w io.Writer) error {
		return p.WriteSVG(w, width, height)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// plotInsertLen plots the histogram of the insert length file and
// returns the path of the plot.
func plotInsertLen(file, settingsFile, outDir string) (string, error) {
	s, err := prepare(settingsFile, outDir, "insert length file", file)
	if err != nil {
		return "", err
	}
	dist, err := insertlen.Load(file)
	if err != nil {
		return "", err
	}
	st, err := insertlen.ComputeStats(dist.Lengths)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	log.Printf("%s: %d read pairs, min %g, max %g", file, st.N, st.Min, st.Max)

	edges, counts := histogram(dist.Lengths, st.Min, st.Max, s.InsertLenBins)
	hist := histTable(edges, counts)
	base := filepath.Base(file)

	// Scales must be set before any layer is added.
	p := gg.NewPlot(hist)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	addBars(p, hist, settings.ColorOrBlack(s.BarColor))
	lo, hi := edges[0], edges[len(edges)-1]
	addTag(p, lo+0.75*(hi-lo), 0.9*float64(maxInt(counts)), st.String())
	p.Add(gg.Title(fmt.Sprintf("%s (%d read-pairs)", base, st.N)))
	p.Add(gg.AxisLabel("x", "Insert length (nt)"))
	p.Add(gg.AxisLabel("y", "No. read pairs"))

	path := filepath.Join(outDir, base+".svg")
	w, h := s.FigPixels()
	if err := writeSVG(path, p, w, h); err != nil {
		return "", err
	}
	return path, nil
}

// plotPosterior plots the posterior distribution of the first
// isoform's Psi in the .miso file and returns the path of the plot.
func plotPosterior(file, settingsFile, outDir string, req samples.Request) (string, error) {
	s, err := prepare(settingsFile, outDir, "MISO file", file)
	if err != nil {
		return "", err
	}
	set, err := samples.Load(file)
	if err != nil {
		return "", err
	}
	sum, err := samples.Summarize(set, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	log.Printf("%s: %d samples, Psi %s", file, len(set.Samples), sum)

	edges, counts := histogram(set.Isoform(0), 0, 1, s.PosteriorBins)
	hist := histTable(edges, counts)
	top := float64(maxInt(counts))

	p := gg.NewPlot(hist)
	p.SetScale("y", gg.NewLinearScaler().Include(0))
	if iv := sum.Interval; iv != nil {
		addBand(p, iv.Low[0], iv.High[0], top)
	}
	addBars(p, hist, settings.ColorOrBlack(s.BarColor))

	est := sum.Estimates[0]
	kind := "MAP"
	if req.PlotMean {
		kind = "mean"
	}
	label := fmt.Sprintf("%s Ψ = %.2f", kind, est)
	if iv := sum.Interval; iv != nil {
		label += fmt.Sprintf(" [%.2f, %.2f]", iv.Low[0], iv.High[0])
	}
	addEstimate(p, est, top)
	addTag(p, est, top, label)

	name := strings.TrimSuffix(filepath.Base(file), ".miso")
	p.Add(gg.Title(fmt.Sprintf("%s (%s)", name, set.Params.IsoformName(0))))
	p.Add(gg.AxisLabel("x", "Ψ"))
	p.Add(gg.AxisLabel("y", "Frequency"))

	w, h := s.FigPixels()
	if req.FigDims[0] > 0 && req.FigDims[1] > 0 {
		w, h = req.FigDims[0], req.FigDims[1]
	}
	path := filepath.Join(outDir, name+".svg")
	if err := writeSVG(path, p, w, h); err != nil {
		return "", err
	}
	return path, nil
}

// addBand shades the credible interval [lo, hi] behind the bars.
func addBand(p *gg.Plot, lo, hi, top float64) {
	defer p.Save().Restore()
	p.SetData(new(table.Builder).
		Add("x", []float64{lo, hi}).
		Add("count", []float64{top, top}).
		Add("bottom", []float64{0, 0}).
		Done())
	p.Add(gg.LayerArea{
		X:     "x",
		Upper: "count",
		Lower: "bottom",
		Fill:  p.Const(color.RGBA{220, 220, 220, 255}),
	})
}

// addEstimate marks the point estimate above the bars.
func addEstimate(p *gg.Plot, x, top float64) {
	defer p.Save().Restore()
	p.SetData(new(table.Builder).
		Add("x", []float64{x}).
		Add("count", []float64{top}).
		Done())
	p.Add(gg.LayerPoints{X: "x", Y: "count"})
}

// plotEvent draws the sashimi plot of event, whose gene model is
// found through the index in indexDir. It returns the path of the
// plot.
func plotEvent(event, indexDir, settingsFile, outDir string) (string, error) {
	s, err := prepare(settingsFile, outDir)
	if err != nil {
		return "", err
	}
	artifact, err := eventindex.Resolve(indexDir, event)
	if err != nil {
		return "", err
	}
	log.Printf("event %s: gene model %s", event, artifact)
	return genemodel.PlotDensityFromFile(s, artifact, event, outDir)
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
