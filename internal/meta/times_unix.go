//go:build linux || darwin

package meta

import (
	"time"

	"golang.org/x/sys/unix"
)

func setTimes(path string, atime, mtime time.Time) error {
	times := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	return unix.UtimesNanoAt(unix.AT_FDCWD, path, times, 0)
}
