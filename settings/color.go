// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package settings

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Single-letter and a few named colors as written in matplotlib-era
// settings files.
var namedColors = map[string]color.RGBA{
	"b":      {0, 0, 255, 255},
	"g":      {0, 128, 0, 255},
	"r":      {255, 0, 0, 255},
	"c":      {0, 191, 191, 255},
	"m":      {191, 0, 191, 255},
	"y":      {191, 191, 0, 255},
	"k":      {0, 0, 0, 255},
	"w":      {255, 255, 255, 255},
	"black":  {0, 0, 0, 255},
	"white":  {255, 255, 255, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"grey":   {128, 128, 128, 255},
	"gray":   {128, 128, 128, 255},
	"orange": {255, 165, 0, 255},
}

// ParseColor parses "#rrggbb", "#rgb", or a color name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unknown color %q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("malformed color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("malformed color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// ColorOrBlack is like ParseColor, but returns black for colors it
// cannot parse.
func ColorOrBlack(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		return namedColors["k"]
	}
	return c
}
