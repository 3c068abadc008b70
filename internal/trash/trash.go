// Package trash moves paths into a recoverable trash: the operating system's
// trash or recycle bin by default, or a chosen directory laid out like a
// freedesktop.org trash.
package trash

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"desktop-cleaner/internal/errors"

	"github.com/mitchellh/go-homedir"
)

// Trasher relocates a single path into a user-recoverable bin.
type Trasher interface {
	Trash(path string) error
}

// Func adapts a plain function to Trasher.
type Func func(path string) error

func (f Func) Trash(path string) error { return f(path) }

// New returns the system trash when dir is empty and a Freedesktop trash
// rooted at dir otherwise. A leading "~" in dir is expanded.
func New(dir string) (Trasher, error) {
	if dir == "" {
		return System{}, nil
	}

	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not expand trash directory %s", dir)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve trash directory %s", dir)
	}
	return NewFreedesktop(abs), nil
}

// uniqueName returns the first of name, "stem.2.ext", "stem.3.ext", ... for
// which taken reports false.
func uniqueName(name string, taken func(string) bool) (string, error) {
	if !taken(name) {
		return name, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		stem, ext = name, ""
	}

	for i := 2; i <= 10000; i++ {
		candidate := stem + "." + strconv.Itoa(i) + ext
		if !taken(candidate) {
			return candidate, nil
		}
	}
	return "", errors.Newf("no free trash name for %s", name)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
