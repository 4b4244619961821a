// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samples

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/go-moremath/stats"
	"github.com/google/go-cmp/cmp"

	"github.com/misoplot/sashimi/internal/failure"
)

const header = "#isoforms=['A','B']\texon_lens=('e1',100),('e2',50)\titers=5000\tburn_in=500\tlag=10\tpercent_accept=45.2\tproposal_type=drift\tcounts=(0,1):5,(1,1):20\tassigned_counts=0:20,1:5\n"

const miso = header + `sampled_psi	log_score
0.8,0.2	-10.5
0.8,0.2	-10.5
0.7,0.3	-9.25
0.6,0.4	-11
0.6,0.4	-9.25
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(miso))
	if err != nil {
		t.Fatal(err)
	}

	wantSamples := [][]float64{{0.8, 0.2}, {0.8, 0.2}, {0.7, 0.3}, {0.6, 0.4}, {0.6, 0.4}}
	if diff := cmp.Diff(wantSamples, s.Samples); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{-10.5, -10.5, -9.25, -11, -9.25}, s.LogScores); diff != "" {
		t.Errorf("log scores (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, s.History); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.7, 0.3}, s.MAP); diff != "" || s.MAPLogScore != -9.25 {
		t.Errorf("MAP = %v (%v); want [0.7 0.3] (-9.25)", s.MAP, s.MAPLogScore)
	}
	if diff := cmp.Diff(map[string]int{"(0,1)": 5, "(1,1)": 20}, s.Counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]int{0: 20, 1: 5}, s.AssignedCounts); diff != "" {
		t.Errorf("assigned counts (-want +got):\n%s", diff)
	}

	p := s.Params
	if diff := cmp.Diff([]string{"A", "B"}, p.Isoforms); diff != "" {
		t.Errorf("isoforms (-want +got):\n%s", diff)
	}
	if p.Iters != 5000 || p.BurnIn != 500 || p.Lag != 10 || p.PercentAccept != 45.2 || p.ProposalType != "drift" {
		t.Errorf("params = %+v", p)
	}
	if p.Raw["exon_lens"] != "('e1',100),('e2',50)" {
		t.Errorf("raw exon_lens = %q", p.Raw["exon_lens"])
	}
	if s.NumIsoforms() != 2 {
		t.Errorf("NumIsoforms() = %d; want 2", s.NumIsoforms())
	}
	if diff := cmp.Diff([]float64{0.2, 0.2, 0.3, 0.4, 0.4}, s.Isoform(1)); diff != "" {
		t.Errorf("Isoform(1) (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		header,
		header + "sampled_psi\tlog_score\n",
		"isoforms=['A','B']\n0.5,0.5\t-1\n",
		header + "0.5,0.5\n",
		header + "0.5,x\t-1\n",
		header + "0.5,0.5\tx\n",
		header + "0.5,0.5\t-1\n0.2,0.3,0.5\t-1\n",
		"#isoforms=['A','B','C']\n0.5,0.5\t-1\n",
		"#iters=many\n0.5,0.5\t-1\n",
	} {
		_, err := Parse(strings.NewReader(input))
		if !errors.Is(err, failure.ErrInvalidInput) {
			t.Errorf("Parse(%q): want ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestLoadAndParseParams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "event.miso")
	if err := os.WriteFile(path, []byte(miso), 0666); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := ParseParams(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s.Params, p); diff != "" {
		t.Errorf("ParseParams differs from Load (-load +params):\n%s", diff)
	}

	missing := filepath.Join(dir, "missing.miso")
	if _, err := Load(missing); !errors.Is(err, failure.ErrNotFound) {
		t.Errorf("Load(missing): want ErrNotFound, got %v", err)
	}
	if _, err := ParseParams(missing); !errors.Is(err, failure.ErrNotFound) {
		t.Errorf("ParseParams(missing): want ErrNotFound, got %v", err)
	}
}

func width(w float64) *float64 {
	return &w
}

func TestSummarizePointEstimate(t *testing.T) {
	s, err := Parse(strings.NewReader(miso))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := Summarize(s, Request{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.7, 0.3}, sum.Estimates); diff != "" {
		t.Errorf("MAP estimates (-want +got):\n%s", diff)
	}
	if sum.Interval != nil {
		t.Errorf("no interval requested, but got %+v", sum.Interval)
	}

	sum, err = Summarize(s, Request{PlotMean: true})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(sum.Estimates[0]-0.7) > 1e-12 || math.Abs(sum.Estimates[1]-0.3) > 1e-12 {
		t.Errorf("mean estimates = %v; want [0.7 0.3]", sum.Estimates)
	}
}

func TestSummarizeInterval(t *testing.T) {
	// 1000 draws of a two-isoform event whose first Psi is
	// normally distributed.
	dist := stats.NormalDist{Mu: 0.5, Sigma: 0.1}
	r := rand.New(rand.NewSource(42))
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("sampled_psi\tlog_score\n")
	for i := 0; i < 1000; i++ {
		x := dist.Rand(r)
		fmt.Fprintf(&b, "%v,%v\t%v\n", x, 1-x, -float64(i))
	}
	s, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := Summarize(s, Request{WidthPercent: width(90)})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Interval == nil {
		t.Fatal("interval requested, but got none")
	}
	if sum.Interval.Width != 90 {
		t.Errorf("interval width = %v; want 90", sum.Interval.Width)
	}
	lo, hi := dist.InvCDF(0.05), dist.InvCDF(0.95)
	const tol = 0.02
	if math.Abs(sum.Interval.Low[0]-lo) > tol || math.Abs(sum.Interval.High[0]-hi) > tol {
		t.Errorf("90%% interval = [%v, %v]; want about [%v, %v]", sum.Interval.Low[0], sum.Interval.High[0], lo, hi)
	}
	// The second isoform mirrors the first.
	if math.Abs(sum.Interval.Low[1]-(1-sum.Interval.High[0])) > 1e-9 {
		t.Errorf("isoform 2 low = %v; want %v", sum.Interval.Low[1], 1-sum.Interval.High[0])
	}
	if !(sum.Interval.Low[0] < sum.Interval.High[0]) {
		t.Errorf("empty interval [%v, %v]", sum.Interval.Low[0], sum.Interval.High[0])
	}

	// The full-width interval is the sample range.
	sum, err = Summarize(s, Request{WidthPercent: width(100)})
	if err != nil {
		t.Fatal(err)
	}
	min, max := stats.Bounds(s.Isoform(0))
	if sum.Interval.Low[0] != min || sum.Interval.High[0] != max {
		t.Errorf("100%% interval = [%v, %v]; want [%v, %v]", sum.Interval.Low[0], sum.Interval.High[0], min, max)
	}
}

func TestSummarizeInvalidWidth(t *testing.T) {
	s, err := Parse(strings.NewReader(miso))
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []float64{0, -5, 150, math.NaN()} {
		_, err := Summarize(s, Request{WidthPercent: width(w)})
		if !errors.Is(err, failure.ErrInvalidInput) {
			t.Errorf("width %v: want ErrInvalidInput, got %v", w, err)
		}
	}
}

func TestSummaryString(t *testing.T) {
	sum := &Summary{Estimates: []float64{0.7, 0.3}}
	if got, want := sum.String(), "0.700, 0.300"; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
	sum.Interval = &Interval{Width: 90, Low: []float64{0.6, 0.2}, High: []float64{0.8, 0.4}}
	if got, want := sum.String(), "0.700 [0.600, 0.800], 0.300 [0.200, 0.400]"; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
