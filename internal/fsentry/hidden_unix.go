//go:build !windows

package fsentry

import (
	"path/filepath"
	"strings"
)

type platformHidden struct{}

func (platformHidden) IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
