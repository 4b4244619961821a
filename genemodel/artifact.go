// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genemodel draws read densities and splice junctions of an
// alternative RNA processing event over its gene model ("sashimi
// plots").
//
// The input is a precomputed artifact, one YAML file per event:
//
//	event: SE:chr1:100-200
//	chrom: chr1
//	strand: "+"
//	exons:
//	  - {start: 100, end: 150}
//	  - {start: 300, end: 340}
//	samples:
//	  - label: heart
//	    density: [0, 3, 3, ...]
//	    junctions:
//	      - {start: 150, end: 300, count: 12}
//	    psi: 0.71
//	    ci: [0.6, 0.8]
//
// Coordinates are 1-based and inclusive. Each density has one read
// count per base from the start of the first exon to the end of the
// last.
package genemodel

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/misoplot/sashimi/internal/failure"
)

// Artifact is the gene model and read data of one event.
type Artifact struct {
	Event   string   `yaml:"event"`
	Chrom   string   `yaml:"chrom"`
	Strand  string   `yaml:"strand"`
	Exons   []Exon   `yaml:"exons"`
	Samples []Sample `yaml:"samples"`
}

// Exon is a closed genomic interval.
type Exon struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Sample is the read data of one sequencing sample.
type Sample struct {
	Label     string     `yaml:"label"`
	Density   []float64  `yaml:"density"`
	Junctions []Junction `yaml:"junctions"`

	// Psi and CI are the sample's MISO estimate, if known.
	Psi *float64  `yaml:"psi,omitempty"`
	CI  []float64 `yaml:"ci,omitempty"`
}

// Junction is a spliced read class from the last base of one exon
// to the first base of another.
type Junction struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
	Count int `yaml:"count"`
}

// Start returns the first base of the gene model.
func (a *Artifact) Start() int {
	return a.Exons[0].Start
}

// End returns the last base of the gene model.
func (a *Artifact) End() int {
	return a.Exons[len(a.Exons)-1].End
}

// Load reads the artifact in file path. A missing file is an
// ErrNotFound error.
func Load(path string) (*Artifact, error) {
	f, err := failure.Open("gene model", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Parse reads and checks an artifact.
func Parse(r io.Reader) (*Artifact, error) {
	var a Artifact
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		if err == io.EOF {
			return nil, failure.Invalidf("empty gene model")
		}
		return nil, failure.Wrap(failure.ErrInvalidInput, err, "malformed gene model")
	}
	if err := a.check(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Write writes a in the form Parse reads.
func (a *Artifact) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(a); err != nil {
		return err
	}
	return enc.Close()
}

func (a *Artifact) check() error {
	if len(a.Exons) == 0 {
		return failure.Invalidf("event %s: no exons", a.Event)
	}
	for i, e := range a.Exons {
		if e.Start > e.End {
			return failure.Invalidf("event %s: exon %d ends before it starts", a.Event, i)
		}
		if i > 0 && e.Start <= a.Exons[i-1].End {
			return failure.Invalidf("event %s: exon %d overlaps or precedes exon %d", a.Event, i, i-1)
		}
	}
	n := a.End() - a.Start() + 1
	for _, s := range a.Samples {
		if len(s.Density) != n {
			return failure.Invalidf("event %s: sample %s has %d density values for %d bases", a.Event, s.Label, len(s.Density), n)
		}
		for _, j := range s.Junctions {
			if j.Start < a.Start() || j.End > a.End() || j.Start >= j.End {
				return failure.Invalidf("event %s: sample %s: junction %d-%d is outside the gene model", a.Event, s.Label, j.Start, j.End)
			}
		}
		if s.CI != nil && len(s.CI) != 2 {
			return failure.Invalidf("event %s: sample %s: ci must have two values", a.Event, s.Label)
		}
	}
	return nil
}
