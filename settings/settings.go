// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings reads sashimi plot settings files.
//
// A settings file is an INI file with a [data] and a [plotting]
// section:
//
//	[data]
//	bam_prefix = ./bam/
//	bam_files = ["heart.bam", "liver.bam"]
//
//	[plotting]
//	fig_width = 7
//	fig_height = 5
//	insert_len_bins = 70
//	colors = ["#CC0000", "#FF8800"]
//
// Keys this package does not know about are ignored, so the same file
// can drive other tools.
package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	ini "github.com/lars-t-hansen/ini"

	"github.com/misoplot/sashimi/internal/failure"
)

// Settings is the parsed contents of a settings file. It is not
// modified after loading.
type Settings struct {
	// Data section.
	BamPrefix  string
	MisoPrefix string
	BamFiles   []string
	MisoFiles  []string

	// InsertLenBins is the number of histogram bins in insert
	// length plots.
	InsertLenBins int

	// PosteriorBins is the number of histogram bins in posterior
	// plots.
	PosteriorBins int

	// FigWidth and FigHeight give the figure size in inches.
	FigWidth, FigHeight float64

	// IntronScale and ExonScale divide the genomic length of
	// introns and exons when laying out a gene model.
	IntronScale, ExonScale float64

	// Logged plots read densities on a log10(1+x) scale.
	Logged bool

	FontSize float64

	// YMax fixes the top of the density axis. 0 means the
	// maximum density of all samples.
	YMax int

	// NumberJunctions labels junction arcs with read counts.
	NumberJunctions bool

	// Colors and SampleLabels are per-sample and used in order.
	Colors       []string
	SampleLabels []string

	// BarColor is the fill of histogram bars.
	BarColor string

	// OutputFormat is "svg" or "png". Only gene-model plots can
	// be written as PNG.
	OutputFormat string
}

// PixelsPerInch converts FigWidth and FigHeight to pixels.
const PixelsPerInch = 100

// Default returns the settings used for keys absent from a file.
func Default() *Settings {
	return &Settings{
		InsertLenBins:   30,
		PosteriorBins:   40,
		FigWidth:        7,
		FigHeight:       5,
		IntronScale:     30,
		ExonScale:       4,
		FontSize:        10,
		NumberJunctions: true,
		BarColor:        "k",
		OutputFormat:    "svg",
	}
}

// FigPixels returns the figure size in pixels.
func (s *Settings) FigPixels() (w, h int) {
	return int(s.FigWidth * PixelsPerInch), int(s.FigHeight * PixelsPerInch)
}

// Color returns the color string for sample i, cycling through
// Colors. It returns "k" if no colors are configured.
func (s *Settings) Color(i int) string {
	if len(s.Colors) == 0 {
		return "k"
	}
	return s.Colors[i%len(s.Colors)]
}

// A field binds an INI field to a Settings member.
type field struct {
	f   *ini.Field
	set func(s *Settings, v string) error
}

var (
	parser = ini.NewParser()
	fields = map[string]map[string]field{}
)

func addField(section *ini.Section, sname, name string, set func(s *Settings, v string) error) {
	if fields[sname] == nil {
		fields[sname] = map[string]field{}
	}
	fields[sname][name] = field{section.AddString(name), set}
}

func init() {
	data := parser.AddSection("data")
	addField(data, "data", "bam_prefix", func(s *Settings, v string) error {
		s.BamPrefix = v
		return nil
	})
	addField(data, "data", "miso_prefix", func(s *Settings, v string) error {
		s.MisoPrefix = v
		return nil
	})
	addField(data, "data", "bam_files", listSetter(func(s *Settings) *[]string { return &s.BamFiles }))
	addField(data, "data", "miso_files", listSetter(func(s *Settings) *[]string { return &s.MisoFiles }))

	plotting := parser.AddSection("plotting")
	addField(plotting, "plotting", "insert_len_bins", intSetter(func(s *Settings) *int { return &s.InsertLenBins }, 1))
	addField(plotting, "plotting", "posterior_bins", intSetter(func(s *Settings) *int { return &s.PosteriorBins }, 1))
	addField(plotting, "plotting", "ymax", intSetter(func(s *Settings) *int { return &s.YMax }, 0))
	addField(plotting, "plotting", "fig_width", floatSetter(func(s *Settings) *float64 { return &s.FigWidth }))
	addField(plotting, "plotting", "fig_height", floatSetter(func(s *Settings) *float64 { return &s.FigHeight }))
	addField(plotting, "plotting", "intron_scale", floatSetter(func(s *Settings) *float64 { return &s.IntronScale }))
	addField(plotting, "plotting", "exon_scale", floatSetter(func(s *Settings) *float64 { return &s.ExonScale }))
	addField(plotting, "plotting", "font_size", floatSetter(func(s *Settings) *float64 { return &s.FontSize }))
	addField(plotting, "plotting", "logged", boolSetter(func(s *Settings) *bool { return &s.Logged }))
	addField(plotting, "plotting", "number_junctions", boolSetter(func(s *Settings) *bool { return &s.NumberJunctions }))
	addField(plotting, "plotting", "colors", listSetter(func(s *Settings) *[]string { return &s.Colors }))
	addField(plotting, "plotting", "sample_labels", listSetter(func(s *Settings) *[]string { return &s.SampleLabels }))
	addField(plotting, "plotting", "bar_color", func(s *Settings, v string) error {
		s.BarColor = unquote(v)
		return nil
	})
	addField(plotting, "plotting", "output_format", func(s *Settings, v string) error {
		v = strings.ToLower(unquote(v))
		if v != "svg" && v != "png" {
			return fmt.Errorf("unknown output format %q", v)
		}
		s.OutputFormat = v
		return nil
	})
}

func intSetter(member func(*Settings) *int, min int) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		// Python writers sometimes emit "70.0".
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if int(x) < min {
			return fmt.Errorf("must be at least %d", min)
		}
		*member(s) = int(x)
		return nil
	}
}

func floatSetter(member func(*Settings) *float64) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		if x <= 0 {
			return fmt.Errorf("must be positive")
		}
		*member(s) = x
		return nil
	}
}

func boolSetter(member func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*member(s) = b
		return nil
	}
}

func listSetter(member func(*Settings) *[]string) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		l, err := ParseList(v)
		if err != nil {
			return err
		}
		*member(s) = l
		return nil
	}
}

// ParseList parses a list value. Lists may be written the way Python
// prints them, ["a", "b"], or as a plain comma- or space-separated
// sequence of words, a, b.
func ParseList(v string) ([]string, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")
	words, err := shellquote.Split(v)
	if err != nil {
		return nil, err
	}
	// shellquote leaves separating commas attached to words.
	out := []string{}
	for _, w := range words {
		for _, part := range strings.Split(w, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Load reads a settings file.
func Load(path string) (*Settings, error) {
	f, err := failure.Open("settings file", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads settings from r.
func Parse(r io.Reader) (*Settings, error) {
	known, err := filterKnown(r)
	if err != nil {
		return nil, err
	}
	store, err := parser.Parse(bytes.NewReader(known))
	if err != nil {
		return nil, failure.Wrap(failure.ErrInvalidInput, err, "malformed settings")
	}

	s := Default()
	for sname, sfields := range fields {
		for name, fld := range sfields {
			if !fld.f.Present(store) {
				continue
			}
			v := strings.TrimSpace(fld.f.StringVal(store))
			if err := fld.set(s, v); err != nil {
				return nil, failure.Invalidf("[%s] %s = %q: %v", sname, name, v, err)
			}
		}
	}
	return s, nil
}

// filterKnown rewrites an INI file to contain only the sections and
// fields declared in parser, one "name=value" per line. The parser
// only understands declared fields, and settings files routinely
// carry keys for other tools.
func filterKnown(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	var section map[string]field
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			name := strings.TrimSpace(line[1 : len(line)-1])
			section = fields[name]
			if section != nil {
				fmt.Fprintf(&out, "[%s]\n", name)
			}
			continue
		}
		if section == nil {
			continue
		}
		i := strings.IndexAny(line, "=:")
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(line[:i])
		if _, ok := section[name]; !ok {
			continue
		}
		fmt.Fprintf(&out, "%s=%s\n", name, strings.TrimSpace(line[i+1:]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
