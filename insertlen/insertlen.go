// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package insertlen reads paired-end insert length distributions and
// computes their summary statistics.
//
// An insert length file optionally starts with a header line giving
// the parameters of a fitted length model:
//
//	#mean=198.2,sdev=34.1,dispersion=5.8,num_pairs=4521
//
// Each following line lists comma-separated insert lengths, either
// bare or after a label and a tab (typically the constitutive exon the
// pairs were mapped to):
//
//	ENSMUSG00000025902:1	201,187,230
package insertlen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/misoplot/sashimi/internal/failure"
)

// Dist is an empirical insert length distribution.
type Dist struct {
	// Lengths are the insert lengths in file order.
	Lengths []float64

	// Params are the fitted model parameters from the header, if
	// any.
	Params map[string]float64
}

// Load reads an insert length file.
func Load(path string) (*Dist, error) {
	f, err := failure.Open("insert length file", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse reads an insert length distribution from r.
func Parse(r io.Reader) (*Dist, error) {
	d := &Dist{Params: map[string]float64{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 64<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if err := parseHeader(line[1:], d.Params); err != nil {
				return nil, failure.Wrap(failure.ErrInvalidInput, err, "line %d", lineno)
			}
			continue
		}

		if i := strings.IndexByte(line, '\t'); i >= 0 {
			line = line[i+1:]
		}
		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, failure.Invalidf("line %d: bad insert length %q", lineno, field)
			}
			if !(x > 0) {
				return nil, failure.Invalidf("line %d: insert length %v is not positive", lineno, x)
			}
			d.Lengths = append(d.Lengths, x)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func parseHeader(h string, params map[string]float64) error {
	for _, kv := range strings.Split(h, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		i := strings.IndexByte(kv, '=')
		if i < 0 {
			return fmt.Errorf("malformed parameter %q", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(kv[i+1:]), 64)
		if err != nil {
			return fmt.Errorf("malformed parameter %q", kv)
		}
		params[strings.TrimSpace(kv[:i])] = v
	}
	return nil
}
