//go:build !linux && !darwin

package meta

import (
	"os"
	"time"
)

func setTimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
