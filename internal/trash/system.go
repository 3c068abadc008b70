package trash

import (
	"path/filepath"

	"desktop-cleaner/internal/errors"

	"github.com/Bios-Marcel/wastebasket/v2"
)

// System moves paths into the trash of the running desktop: the freedesktop
// home trash on Linux and BSD (or the trash at the top of the mount when the
// path lives on another filesystem), the Finder trash on macOS and the
// Recycle Bin on Windows.
type System struct{}

func (System) Trash(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "could not resolve %s", path)
	}
	if err := wastebasket.Trash(abs); err != nil {
		return errors.Wrap(err, "failed to move into trash")
	}
	return nil
}
