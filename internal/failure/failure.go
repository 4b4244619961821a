// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package failure defines the kinds of error a plotting run can end
// with. Every kind is fatal to the plot that raised it; callers
// distinguish them with errors.Is.
package failure

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrConfiguration indicates a missing or unusable option,
	// such as no output directory.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound indicates that an index, event, or input file
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates input that exists but cannot be
	// used, such as an empty distribution.
	ErrInvalidInput = errors.New("invalid input")
)

// kindError attaches a kind to a message. Its Error method returns
// only the message, since the kinds are for callers, not for people.
type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func (e *kindError) Unwrap() error {
	return e.err
}

// Configf returns an ErrConfiguration error with a formatted message.
func Configf(format string, args ...interface{}) error {
	return &kindError{ErrConfiguration, fmt.Sprintf(format, args...), nil}
}

// NotFoundf returns an ErrNotFound error with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return &kindError{ErrNotFound, fmt.Sprintf(format, args...), nil}
}

// Invalidf returns an ErrInvalidInput error with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return &kindError{ErrInvalidInput, fmt.Sprintf(format, args...), nil}
}

// Wrap annotates err with a message and kind.
func Wrap(kind, err error, format string, args ...interface{}) error {
	return &kindError{kind, fmt.Sprintf(format, args...), err}
}

// Open opens a required input file. A missing file is reported as
// ErrNotFound naming what the file was for.
func Open(what, path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, NotFoundf("cannot find %s %s", what, path)
	} else if err != nil {
		return nil, fmt.Errorf("opening %s: %w", what, err)
	}
	return f, nil
}

// RequireFile checks that path names an existing regular file.
func RequireFile(what, path string) error {
	st, err := os.Stat(path)
	if os.IsNotExist(err) {
		return NotFoundf("cannot find %s %s", what, path)
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", what, err)
	}
	if st.IsDir() {
		return Invalidf("%s %s is a directory", what, path)
	}
	return nil
}

// RequireDir checks that path names an existing directory.
func RequireDir(what, path string) error {
	st, err := os.Stat(path)
	if os.IsNotExist(err) {
		return NotFoundf("cannot find %s %s", what, path)
	} else if err != nil {
		return fmt.Errorf("checking %s: %w", what, err)
	}
	if !st.IsDir() {
		return Invalidf("%s %s is not a directory", what, path)
	}
	return nil
}
