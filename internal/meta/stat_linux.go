//go:build linux

package meta

import (
	"os"
	"syscall"
	"time"
)

// atimeOf extracts the access time from Linux stat data.
func atimeOf(fi os.FileInfo) (time.Time, bool) {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)), true //nolint:unconvert // int32 on 32-bit targets
}
