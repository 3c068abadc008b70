//go:build windows

package fsentry

import (
	"golang.org/x/sys/windows"
)

type platformHidden struct{}

// IsHidden checks FILE_ATTRIBUTE_HIDDEN. Paths whose attributes cannot be
// read are treated as visible.
func (platformHidden) IsHidden(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
