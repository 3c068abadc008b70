// Package fsentry inspects Desktop entries without following symlinks.
package fsentry

import (
	"os"
	"path/filepath"

	"desktop-cleaner/internal/allowlist"
	"desktop-cleaner/internal/errors"
)

// Kind is the file-system object type of an entry.
type Kind int

const (
	File Kind = iota
	Directory
	Symlink
	Special // fifos, sockets, devices
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	case Symlink:
		return "symlink"
	default:
		return "special"
	}
}

// Entry is a transient view of one object found in the swept directory.
type Entry struct {
	Path      string
	Name      string
	Kind      Kind
	Extension string // without the dot, as found on disk
	Hidden    bool
	Size      int64
}

// IsDir reports whether the entry is a real directory (not a link to one).
func (e Entry) IsDir() bool { return e.Kind == Directory }

// IsSymlink reports whether the entry itself is a symbolic link.
func (e Entry) IsSymlink() bool { return e.Kind == Symlink }

// IsRegular reports whether the entry is a plain file.
func (e Entry) IsRegular() bool { return e.Kind == File }

// HiddenChecker answers whether a path is hidden on the running platform.
type HiddenChecker interface {
	IsHidden(path string) bool
}

// HiddenFunc adapts a plain function to HiddenChecker.
type HiddenFunc func(path string) bool

func (f HiddenFunc) IsHidden(path string) bool { return f(path) }

// PlatformHidden is the build-selected hidden predicate: a leading dot on
// POSIX systems, the hidden attribute bit on Windows.
var PlatformHidden HiddenChecker = platformHidden{}

// Inspector builds Entries.
type Inspector struct {
	Hidden HiddenChecker
}

// NewInspector returns an Inspector using the platform hidden predicate.
func NewInspector() *Inspector {
	return &Inspector{Hidden: PlatformHidden}
}

// Inspect reads the metadata of path with Lstat. A failure is reported as an
// EntryReadError.
func (i *Inspector) Inspect(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Entry{}, errors.NewEntryReadError(path, err)
	}

	hidden := i.Hidden
	if hidden == nil {
		hidden = PlatformHidden
	}

	return Entry{
		Path:      path,
		Name:      filepath.Base(path),
		Kind:      kindOf(info.Mode()),
		Extension: allowlist.Extension(path),
		Hidden:    hidden.IsHidden(path),
		Size:      info.Size(),
	}, nil
}

func kindOf(mode os.FileMode) Kind {
	switch {
	case mode&os.ModeSymlink != 0:
		return Symlink
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return File
	default:
		return Special
	}
}
