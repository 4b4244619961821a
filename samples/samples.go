// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package samples reads MISO posterior sample files and summarizes
// them.
//
// A sample file (conventionally *.miso) looks like
//
//	#isoforms=['A','B']	exon_lens=('e1',100),('e2',50)	iters=5000	burn_in=500	lag=10	percent_accept=45.2	proposal_type=drift	counts=(0,1):5,(1,1):20	assigned_counts=0:20,1:5
//	sampled_psi	log_score
//	0.81,0.19	-123.45
//	0.79,0.21	-123.99
//
// The first line records the sampler configuration. Every line after
// the column header is one draw: a Psi vector, one value per isoform,
// and the log score of that draw.
package samples

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/misoplot/sashimi/internal/failure"
)

// Set is the posterior sample set of one event.
type Set struct {
	// Samples holds one Psi vector per draw, in file order.
	Samples [][]float64

	// LogScores[i] is the log score of Samples[i].
	LogScores []float64

	// History lists the indexes of draws that differ from the
	// draw before them, that is, the accepted proposals. The
	// first draw is always included.
	History []int

	// MAP is the draw with the highest log score and MAPLogScore
	// its score. Ties go to the earliest draw.
	MAP         []float64
	MAPLogScore float64

	// Counts maps a read class, written as in the file, such as
	// "(0,1)", to the number of reads in it.
	Counts map[string]int

	// AssignedCounts maps an isoform index to the number of reads
	// assigned to it.
	AssignedCounts map[int]int

	Params Params
}

// Params is the sampler configuration recorded in a sample file.
type Params struct {
	Isoforms      []string
	Iters         int
	BurnIn        int
	Lag           int
	PercentAccept float64
	ProposalType  string

	// Raw holds every header field, including those above, as
	// written.
	Raw map[string]string
}

// IsoformName returns the name of isoform i from the header, or
// "isoform i+1" if the header does not name it.
func (p *Params) IsoformName(i int) string {
	if i < len(p.Isoforms) && p.Isoforms[i] != "" {
		return p.Isoforms[i]
	}
	return fmt.Sprintf("isoform %d", i+1)
}

// NumIsoforms returns the length of the Psi vectors in s.
func (s *Set) NumIsoforms() int {
	if len(s.Samples) == 0 {
		return 0
	}
	return len(s.Samples[0])
}

// Isoform returns the Psi values of isoform i across all draws.
func (s *Set) Isoform(i int) []float64 {
	out := make([]float64, len(s.Samples))
	for j, v := range s.Samples {
		out[j] = v[i]
	}
	return out
}

// Load reads a sample file.
func Load(path string) (*Set, error) {
	f, err := failure.Open("MISO sample file", path)
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

// ParseParams reads only the sampler configuration of the sample file
// at path.
func ParseParams(path string) (Params, error) {
	f, err := failure.Open("MISO sample file", path)
	if err != nil {
		return Params{}, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Params{}, err
		}
		return Params{}, failure.Invalidf("%s: empty sample file", path)
	}
	p, err := parseHeader(scanner.Text())
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse reads a sample set from r.
func Parse(r io.Reader) (*Set, error) {
	s := &Set{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 16<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if lineno == 1 {
			p, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			s.Params = p
			s.Counts, s.AssignedCounts, err = parseCounts(p.Raw)
			if err != nil {
				return nil, err
			}
			continue
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "sampled_psi") {
			continue
		}

		f := strings.Split(line, "\t")
		if len(f) != 2 {
			return nil, failure.Invalidf("line %d: want psi and log score, got %d fields", lineno, len(f))
		}
		var psi []float64
		for _, x := range strings.Split(f[0], ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, failure.Invalidf("line %d: bad psi value %q", lineno, x)
			}
			psi = append(psi, v)
		}
		if len(s.Samples) > 0 && len(psi) != len(s.Samples[0]) {
			return nil, failure.Invalidf("line %d: %d isoforms, but earlier samples have %d", lineno, len(psi), len(s.Samples[0]))
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(f[1]), 64)
		if err != nil {
			return nil, failure.Invalidf("line %d: bad log score %q", lineno, f[1])
		}
		s.add(psi, score)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s.Samples) == 0 {
		return nil, failure.Invalidf("no samples")
	}
	if n := len(s.Params.Isoforms); n != 0 && n != s.NumIsoforms() {
		return nil, failure.Invalidf("header lists %d isoforms, but samples have %d", n, s.NumIsoforms())
	}
	return s, nil
}

func (s *Set) add(psi []float64, score float64) {
	i := len(s.Samples)
	if i == 0 || !equal(psi, s.Samples[i-1]) {
		s.History = append(s.History, i)
	}
	if i == 0 || score > s.MAPLogScore {
		s.MAP, s.MAPLogScore = psi, score
	}
	s.Samples = append(s.Samples, psi)
	s.LogScores = append(s.LogScores, score)
}

func equal(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func parseHeader(line string) (Params, error) {
	if !strings.HasPrefix(line, "#") {
		return Params{}, failure.Invalidf("missing sampler header")
	}
	p := Params{Raw: map[string]string{}}
	for _, kv := range strings.Split(line[1:], "\t") {
		if kv == "" {
			continue
		}
		i := strings.IndexByte(kv, '=')
		if i < 0 {
			return Params{}, failure.Invalidf("malformed header field %q", kv)
		}
		k, v := kv[:i], kv[i+1:]
		p.Raw[k] = v

		var err error
		switch k {
		case "isoforms":
			p.Isoforms = parseIsoforms(v)
		case "iters":
			p.Iters, err = strconv.Atoi(v)
		case "burn_in":
			p.BurnIn, err = strconv.Atoi(v)
		case "lag":
			p.Lag, err = strconv.Atoi(v)
		case "percent_accept":
			p.PercentAccept, err = strconv.ParseFloat(v, 64)
		case "proposal_type":
			p.ProposalType = v
		}
		if err != nil {
			return Params{}, failure.Invalidf("malformed header field %q", kv)
		}
	}
	return p, nil
}

func parseIsoforms(v string) []string {
	v = strings.TrimSuffix(strings.TrimPrefix(v, "["), "]")
	var out []string
	for _, iso := range strings.Split(v, ",") {
		iso = strings.Trim(strings.TrimSpace(iso), `'"`)
		if iso != "" {
			out = append(out, iso)
		}
	}
	return out
}

var (
	countRe         = regexp.MustCompile(`(\([0-9,]*\)):([0-9]+)`)
	assignedCountRe = regexp.MustCompile(`([0-9]+):([0-9]+)`)
)

func parseCounts(raw map[string]string) (map[string]int, map[int]int, error) {
	counts := map[string]int{}
	for _, m := range countRe.FindAllStringSubmatch(raw["counts"], -1) {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, nil, failure.Invalidf("malformed counts %q", raw["counts"])
		}
		counts[m[1]] = n
	}
	assigned := map[int]int{}
	for _, m := range assignedCountRe.FindAllStringSubmatch(raw["assigned_counts"], -1) {
		iso, err1 := strconv.Atoi(m[1])
		n, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return nil, nil, failure.Invalidf("malformed assigned_counts %q", raw["assigned_counts"])
		}
		assigned[iso] = n
	}
	return counts, assigned, nil
}
