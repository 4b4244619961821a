// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genemodel

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/misoplot/sashimi/internal/failure"
	"github.com/misoplot/sashimi/settings"
)

const artifactYAML = `event: SE:chr1:10-19
chrom: chr1
strand: "+"
exons:
  - {start: 10, end: 12}
  - {start: 17, end: 19}
samples:
  - label: heart
    density: [1, 2, 3, 0, 0, 0, 0, 3, 2, 1]
    junctions:
      - {start: 12, end: 17, count: 7}
    psi: 0.75
    ci: [0.6, 0.9]
  - label: brain
    density: [5, 5, 5, 1, 1, 1, 1, 5, 5, 5]
`

func testArtifact(t *testing.T) *Artifact {
	t.Helper()
	a, err := Parse(strings.NewReader(artifactYAML))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestParse(t *testing.T) {
	a := testArtifact(t)
	if a.Start() != 10 || a.End() != 19 {
		t.Errorf("gene model spans %d-%d; want 10-19", a.Start(), a.End())
	}
	want := []Exon{{10, 12}, {17, 19}}
	if diff := cmp.Diff(want, a.Exons); diff != "" {
		t.Errorf("exons (-want +got):\n%s", diff)
	}
	if len(a.Samples) != 2 || *a.Samples[0].Psi != 0.75 || a.Samples[1].Psi != nil {
		t.Errorf("samples = %+v", a.Samples)
	}

	var buf bytes.Buffer
	if err := a.Write(&buf); err != nil {
		t.Fatal(err)
	}
	b, err := Parse(&buf)
	if err != nil {
		t.Fatalf("re-parsing written artifact: %v", err)
	}
	if diff := cmp.Diff(a, b, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("written artifact differs (-orig +reparsed):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, test := range []struct {
		name, input string
	}{
		{"empty", ""},
		{"no exons", "event: E\n"},
		{"unknown field", "event: E\ncolor: red\nexons: [{start: 1, end: 2}]\n"},
		{"backwards exon", "exons: [{start: 5, end: 2}]\n"},
		{"overlap", "exons: [{start: 1, end: 5}, {start: 5, end: 8}]\n"},
		{"short density", "exons: [{start: 1, end: 3}]\nsamples: [{label: a, density: [1, 2]}]\n"},
		{"junction outside", "exons: [{start: 1, end: 3}]\nsamples: [{label: a, density: [1, 2, 3], junctions: [{start: 2, end: 9, count: 1}]}]\n"},
		{"bad ci", "exons: [{start: 1, end: 1}]\nsamples: [{label: a, density: [1], ci: [0.5]}]\n"},
		{"not yaml", "exons: [\n"},
	} {
		_, err := Parse(strings.NewReader(test.input))
		if !errors.Is(err, failure.ErrInvalidInput) {
			t.Errorf("%s: want ErrInvalidInput, got %v", test.name, err)
		}
	}
}

func TestScaling(t *testing.T) {
	a := testArtifact(t)
	// Exon bases are 1/2 wide and intron bases 1/4 wide, so the
	// gene model is 3*0.5 + 4*0.25 + 3*0.5 = 4 units long.
	sc := newScaling(a, 2, 4, 0, 400)
	for _, test := range []struct {
		pos  int
		want float64
	}{
		{10, 0},
		{11, 50},
		{13, 150},
		{14, 175},
		{17, 250},
		{20, 400},
		{5, 0},
		{99, 400},
	} {
		if got := sc.x(test.pos); math.Abs(got-test.want) > 1e-9 {
			t.Errorf("x(%d) = %v; want %v", test.pos, got, test.want)
		}
	}
	if got := sc.xEnd(19); got != 400 {
		t.Errorf("xEnd(19) = %v; want 400", got)
	}
}

func TestTransform(t *testing.T) {
	if got := transform(99, true); math.Abs(got-2) > 1e-12 {
		t.Errorf("transform(99, logged) = %v; want 2", got)
	}
	if got := transform(99, false); got != 99 {
		t.Errorf("transform(99, linear) = %v; want 99", got)
	}
	if got := yTick(2, true); got != "99" {
		t.Errorf("yTick(2, logged) = %q; want 99", got)
	}
}

func TestOutputName(t *testing.T) {
	for _, test := range []struct {
		event, format, want string
	}{
		{"SE:chr1:10-19", "svg", "SE:chr1:10-19.svg"},
		{"a/b\\c", "png", "a_b_c.png"},
	} {
		if got := OutputName(test.event, test.format); got != test.want {
			t.Errorf("OutputName(%q, %q) = %q; want %q", test.event, test.format, got, test.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	a := testArtifact(t)
	s := settings.Default()
	s.SampleLabels = []string{"Heart"}
	s.Colors = []string{"red", "#0000ff"}
	var buf bytes.Buffer
	if err := Render(&buf, a, s, "SE:chr1:10-19"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"<svg",
		`width="700"`,
		"SE:chr1:10-19 (chr1:10-19 +)",
		"Heart",
		"brain",
		"0.75 [0.60, 0.90]",
		">7<",
		"#ff0000",
		"#0000ff",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}

	s.NumberJunctions = false
	buf.Reset()
	if err := Render(&buf, a, s, "E"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), ">7<") {
		t.Errorf("junction count drawn with number_junctions off")
	}
}

func TestRenderPNG(t *testing.T) {
	a := testArtifact(t)
	s := settings.Default()
	s.OutputFormat = "png"
	s.Logged = true
	var buf bytes.Buffer
	if err := Render(&buf, a, s, "E"); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 700 || b.Dy() != 500 {
		t.Errorf("image size = %v; want 700x500", b.Size())
	}
	// The background is white and the exons are black.
	if r, g, b, _ := img.At(1, 1).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background = %v; want white", img.At(1, 1))
	}
	sc := newScaling(a, s.ExonScale, s.IntronScale, marginLeft, 700-marginRight)
	x := int((sc.x(10) + sc.xEnd(12)) / 2)
	y := 500 - marginBottom - geneTrackHeight/2
	if r, g, b, _ := img.At(x, y).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Errorf("exon pixel (%d,%d) = %v; want black", x, y, img.At(x, y))
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	s := settings.Default()
	s.OutputFormat = "pdf"
	err := Render(&bytes.Buffer{}, testArtifact(t), s, "E")
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Errorf("want ErrConfiguration, got %v", err)
	}
}

func TestPlotDensityFromFile(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "event.yaml")
	if err := os.WriteFile(artifact, []byte(artifactYAML), 0666); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	path, err := PlotDensityFromFile(settings.Default(), artifact, "SE:chr1:10-19", out)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(out, "SE:chr1:10-19.svg"); path != want {
		t.Errorf("output path = %s; want %s", path, want)
	}
	ents, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Errorf("output directory has %d entries; want 1", len(ents))
	}

	_, err = PlotDensityFromFile(settings.Default(), filepath.Join(dir, "missing.yaml"), "E", out)
	if !errors.Is(err, failure.ErrNotFound) {
		t.Errorf("missing artifact: want ErrNotFound, got %v", err)
	}
}
