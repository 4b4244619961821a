// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genemodel

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/misoplot/sashimi/internal/failure"
	"github.com/misoplot/sashimi/internal/outfile"
	"github.com/misoplot/sashimi/settings"
)

// Margins around the plotting area, in pixels.
const (
	marginLeft   = 60
	marginRight  = 20
	marginTop    = 30
	marginBottom = 20

	geneTrackHeight = 40
	exonHeight      = 16
)

var (
	black = color.RGBA{0, 0, 0, 255}
	grey  = color.RGBA{128, 128, 128, 255}
)

// PlotDensityFromFile loads the artifact at artifactPath and writes a
// sashimi plot of it to outDir. It returns the path of the written
// file. The file is named after event with the extension of
// s.OutputFormat.
func PlotDensityFromFile(s *settings.Settings, artifactPath, event, outDir string) (string, error) {
	a, err := Load(artifactPath)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, OutputName(event, s.OutputFormat))
	err = outfile.Write(path, func(w io.Writer) error {
		return Render(w, a, s, event)
	})
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// OutputName returns the file name of the plot of event. Path
// separators in event are replaced so the plot stays in its output
// directory.
func OutputName(event, format string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, event)
	return name + "." + format
}

// Render draws a and writes it to w in s.OutputFormat.
func Render(w io.Writer, a *Artifact, s *settings.Settings, event string) error {
	width, height := s.FigPixels()
	var c canvas
	switch s.OutputFormat {
	case "svg":
		c = newSVGCanvas(w, width, height)
	case "png":
		c = newPNGCanvas(w, width, height)
	default:
		return failure.Configf("unknown output format %q", s.OutputFormat)
	}
	p := &plotter{c: c, s: s, a: a, width: float64(width), height: float64(height)}
	p.draw(event)
	return c.finish()
}

type plotter struct {
	c             canvas
	s             *settings.Settings
	a             *Artifact
	width, height float64
	sc            *scaling

	// ymax is the transformed density at the top of every track.
	ymax float64
}

func (p *plotter) draw(event string) {
	a, s := p.a, p.s
	p.sc = newScaling(a, s.ExonScale, s.IntronScale, marginLeft, p.width-marginRight)

	title := fmt.Sprintf("%s (%s:%d-%d", event, a.Chrom, a.Start(), a.End())
	if a.Strand != "" {
		title += " " + a.Strand
	}
	title += ")"
	p.c.text(p.width/2, marginTop-10, title, s.FontSize*1.2, "middle")

	if s.YMax > 0 {
		p.ymax = transform(float64(s.YMax), s.Logged)
	} else {
		for _, smp := range a.Samples {
			for _, d := range smp.Density {
				p.ymax = math.Max(p.ymax, transform(d, s.Logged))
			}
		}
	}
	if p.ymax == 0 {
		p.ymax = 1
	}

	trackTop := float64(marginTop)
	trackBottom := p.height - marginBottom - geneTrackHeight
	if n := len(a.Samples); n > 0 {
		th := (trackBottom - trackTop) / float64(n)
		for i := range a.Samples {
			p.drawSample(i, trackTop+float64(i)*th, th)
		}
	}
	p.drawGene(trackBottom + geneTrackHeight/2)
}

// label returns the label of sample i, preferring the configured
// sample labels.
func (p *plotter) label(i int) string {
	smp := &p.a.Samples[i]
	label := smp.Label
	if i < len(p.s.SampleLabels) {
		label = p.s.SampleLabels[i]
	}
	if smp.Psi != nil {
		label += fmt.Sprintf("  Ψ = %.2f", *smp.Psi)
		if smp.CI != nil {
			label += fmt.Sprintf(" [%.2f, %.2f]", smp.CI[0], smp.CI[1])
		}
	}
	return label
}

func (p *plotter) drawSample(i int, top, th float64) {
	a, s, sc := p.a, p.s, p.sc
	smp := &a.Samples[i]
	col := settings.ColorOrBlack(s.Color(i))

	// Leave room for labels above and junction arcs below.
	base := top + th*0.7
	peak := top + s.FontSize + 6
	scale := (base - peak) / p.ymax
	height := func(pos int) float64 {
		v := transform(smp.Density[pos-a.Start()], s.Logged)
		return math.Min(v, p.ymax) * scale
	}

	xs := []float64{sc.x(a.Start())}
	ys := []float64{base}
	for pos := a.Start(); pos <= a.End(); pos++ {
		h := height(pos)
		xs = append(xs, sc.x(pos), sc.xEnd(pos))
		ys = append(ys, base-h, base-h)
	}
	xs = append(xs, sc.xEnd(a.End()))
	ys = append(ys, base)
	p.c.polygon(xs, ys, col)

	// Y axis with its top value.
	p.c.line(marginLeft-4, base, marginLeft-4, peak, 1, black)
	p.c.text(marginLeft-8, base, "0", s.FontSize, "end")
	p.c.text(marginLeft-8, peak+s.FontSize/2, yTick(p.ymax, s.Logged), s.FontSize, "end")

	p.c.text(marginLeft, top+s.FontSize+2, p.label(i), s.FontSize, "start")

	arc := th * 0.25
	for k, j := range smp.Junctions {
		x1, x2 := sc.xEnd(j.Start), sc.x(j.End)
		y1, y2 := base-height(j.Start), base-height(j.End)
		var cy float64
		if k%2 == 0 {
			cy = math.Min(y1, y2) - arc
		} else {
			y1, y2 = base, base
			cy = base + arc
		}
		w := 1 + math.Log10(1+float64(j.Count))
		p.c.curve(x1, y1, (x1+x2)/2, cy, x2, y2, w, col)
		if s.NumberJunctions {
			// Midpoint of the quadratic curve.
			my := 0.25*y1 + 0.5*cy + 0.25*y2
			if k%2 == 0 {
				my -= 2
			} else {
				my += s.FontSize
			}
			p.c.text((x1+x2)/2, my, fmt.Sprint(j.Count), s.FontSize, "middle")
		}
	}
}

// yTick formats the untransformed value of the top of the density
// axis.
func yTick(ymax float64, logged bool) string {
	if logged {
		ymax = math.Pow(10, ymax) - 1
	}
	return fmt.Sprintf("%.0f", ymax)
}

func (p *plotter) drawGene(y float64) {
	a, sc := p.a, p.sc
	p.c.line(sc.x(a.Start()), y, sc.xEnd(a.End()), y, 1, grey)
	for _, e := range a.Exons {
		x := sc.x(e.Start)
		p.c.rect(x, y-exonHeight/2, sc.xEnd(e.End)-x, exonHeight, black)
	}
}
