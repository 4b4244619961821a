// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/misoplot/sashimi/internal/failure"
)

// A plotFlag is an option that takes several positional values, which
// the flag package cannot express.
type plotFlag struct {
	name string
	args []string
}

var plotFlags = []plotFlag{
	{"plot-event", []string{"EVENT_ID", "INDEX_DIR", "SETTINGS_FILE"}},
	{"plot-insert-len", []string{"INSERT_LEN_FILE", "SETTINGS_FILE"}},
	{"plot-posterior", []string{"MISO_FILE", "SETTINGS_FILE"}},
	{"plot-bf-dist", []string{"BF_FILE", "SETTINGS_FILE"}},
}

func (f plotFlag) usage() string {
	return "--" + f.name + " " + strings.Join(f.args, " ")
}

// extractPlotFlags removes every plot flag and its values from args.
// It returns the values of each plot flag given, keyed by flag name,
// and the remaining arguments in order, which is never nil.
func extractPlotFlags(args []string) (map[string][]string, []string, error) {
	byName := make(map[string]plotFlag)
	for _, f := range plotFlags {
		byName["--"+f.name] = f
	}

	vals := make(map[string][]string)
	rest := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		f, ok := byName[arg]
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if _, dup := vals[f.name]; dup {
			return nil, nil, failure.Configf("--%s given more than once", f.name)
		}
		n := len(f.args)
		if i+n >= len(args) {
			return nil, nil, failure.Configf("%s: expected %d arguments", f.usage(), n)
		}
		v := args[i+1 : i+1+n]
		for _, a := range v {
			if strings.HasPrefix(a, "--") {
				return nil, nil, failure.Configf("%s: expected %d arguments, found option %s", f.usage(), n, a)
			}
		}
		vals[f.name] = v
		i += n
	}
	return vals, rest, nil
}
