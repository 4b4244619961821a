// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sashimiplot draws diagnostic plots of MISO results: read
// densities over the gene model of an event, insert length
// distributions, and posterior distributions of Psi.
//
// Each plot is requested by an option followed by its inputs:
//
//	--plot-event EVENT_ID INDEX_DIR SETTINGS_FILE
//	--plot-insert-len INSERT_LEN_FILE SETTINGS_FILE
//	--plot-posterior MISO_FILE SETTINGS_FILE
//
// INDEX_DIR is a directory indexed by the MISO indexing step. It
// contains genes_to_filenames.db, which maps event IDs to gene model
// files. SETTINGS_FILE is an INI file with [data] and [plotting]
// sections.
//
// Plots are written to the directory given by --output-dir, which is
// created if it does not exist. Insert length and posterior plots
// are SVG. Event plots are SVG or PNG depending on the output_format
// setting.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/misoplot/sashimi/internal/failure"
	"github.com/misoplot/sashimi/samples"
)

func main() {
	log.SetPrefix("sashimiplot: ")
	log.SetFlags(0)

	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	outputDir     string
	plotMean      bool
	withIntervals float64
	figDims       string
	profile       string
}

// run parses args and draws every requested plot in turn. It stops at
// the first failure, keeping plots already written.
func run(args []string) error {
	plots, rest, err := extractPlotFlags(args)
	if err != nil {
		return err
	}

	var usage []string
	for _, f := range plotFlags {
		usage = append(usage, "  "+f.usage())
	}
	var opts options
	cmd := &cobra.Command{
		Use:   "sashimiplot [plot options] --output-dir DIR",
		Short: "Plot MISO results",
		Long: "sashimiplot draws diagnostic plots of MISO results.\n\nPlot options:\n" +
			strings.Join(usage, "\n"),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, plots)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.outputDir, "output-dir", "", "write plots to `dir` (required)")
	f.BoolVar(&opts.plotMean, "plot-mean", false, "mark the posterior mean instead of the MAP estimate")
	f.Float64Var(&opts.withIntervals, "with-intervals", 95, "shade a central credible interval of `percent` width")
	f.StringVar(&opts.figDims, "fig-dims", "", "posterior plot size in pixels, as `WxH`")
	f.StringVar(&opts.profile, "profile", "", "write a `cpu` or `mem` profile to the output directory")

	cmd.SetArgs(rest)
	return cmd.Execute()
}

func (o *options) run(cmd *cobra.Command, plots map[string][]string) error {
	if o.outputDir == "" {
		return failure.Configf("need --output-dir")
	}
	if _, ok := plots["plot-bf-dist"]; ok {
		return failure.Configf("--plot-bf-dist is not implemented")
	}
	req, err := o.request(cmd)
	if err != nil {
		return err
	}
	outDir, err := makeOutputDir(o.outputDir)
	if err != nil {
		return err
	}

	if o.profile != "" {
		var mode func(*profile.Profile)
		switch o.profile {
		case "cpu":
			mode = profile.CPUProfile
		case "mem":
			mode = profile.MemProfile
		default:
			return failure.Configf("unknown profile %q; want cpu or mem", o.profile)
		}
		defer profile.Start(mode, profile.ProfilePath(outDir), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	if v, ok := plots["plot-insert-len"]; ok {
		path, err := plotInsertLen(v[0], v[1], outDir)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	if v, ok := plots["plot-posterior"]; ok {
		path, err := plotPosterior(v[0], v[1], outDir, req)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	if v, ok := plots["plot-event"]; ok {
		path, err := plotEvent(v[0], v[1], v[2], outDir)
		if err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

// request collects the posterior plot options.
func (o *options) request(cmd *cobra.Command) (samples.Request, error) {
	req := samples.Request{PlotMean: o.plotMean}
	if cmd.Flags().Changed("with-intervals") {
		w := o.withIntervals
		req.WidthPercent = &w
	}
	if o.figDims != "" {
		dims, err := parseDims(o.figDims)
		if err != nil {
			return req, err
		}
		req.FigDims = dims
	}
	return req, nil
}

// parseDims parses a figure size of the form "WxH".
func parseDims(s string) ([2]int, error) {
	var dims [2]int
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return dims, failure.Configf("--fig-dims %q: want WxH", s)
	}
	for i, v := range []string{ws, hs} {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return dims, failure.Configf("--fig-dims %q: want positive WxH", s)
		}
		dims[i] = n
	}
	return dims, nil
}

// makeOutputDir expands a leading ~, makes dir absolute, and creates
// it if necessary.
func makeOutputDir(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", dir, err)
		}
		dir = filepath.Join(home, dir[1:])
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}
