//go:build darwin

package meta

import (
	"os"
	"syscall"
	"time"
)

// atimeOf extracts the access time from Darwin stat data.
func atimeOf(fi os.FileInfo) (time.Time, bool) {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec), true
}
