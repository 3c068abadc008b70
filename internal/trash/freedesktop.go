package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"desktop-cleaner/internal/errors"

	"github.com/natefinch/atomic"
)

const trashInfoTimeFormat = "2006-01-02T15:04:05"

// Freedesktop keeps a trash directory in the freedesktop.org layout: the
// entry goes to files/ and its origin is recorded in info/<name>.trashinfo.
// Entries are renamed into place, so Dir must be on the same filesystem as
// the swept directory.
type Freedesktop struct {
	Dir string
	Now func() time.Time
}

// NewFreedesktop uses dir as the trash root.
func NewFreedesktop(dir string) *Freedesktop {
	return &Freedesktop{Dir: dir, Now: time.Now}
}

func (f *Freedesktop) filesDir() string { return filepath.Join(f.Dir, "files") }
func (f *Freedesktop) infoDir() string  { return filepath.Join(f.Dir, "info") }

// Trash moves path into the trash. The .trashinfo file is written first and
// removed again if the move fails.
func (f *Freedesktop) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "could not resolve %s", path)
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	for _, dir := range []string{f.filesDir(), f.infoDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "failed to create trash directory")
		}
	}

	name, err := uniqueName(filepath.Base(abs), func(candidate string) bool {
		return exists(filepath.Join(f.filesDir(), candidate)) ||
			exists(filepath.Join(f.infoDir(), candidate+".trashinfo"))
	})
	if err != nil {
		return err
	}

	infoPath := filepath.Join(f.infoDir(), name+".trashinfo")
	info := trashInfo(abs, f.now())
	if err := atomic.WriteFile(infoPath, strings.NewReader(info)); err != nil {
		return errors.Wrap(err, "failed to write trash info")
	}

	if err := os.Rename(abs, filepath.Join(f.filesDir(), name)); err != nil {
		_ = os.Remove(infoPath)
		if isCrossDevice(err) {
			return errors.Wrapf(err, "trash directory %s is on another filesystem", f.Dir)
		}
		return errors.Wrap(err, "failed to move into trash")
	}

	return nil
}

func (f *Freedesktop) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func trashInfo(abs string, deleted time.Time) string {
	escaped := (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
	return fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escaped, deleted.Format(trashInfoTimeFormat))
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && linkErr.Err == syscall.EXDEV
}
