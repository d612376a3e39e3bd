// Package meta exposes stat-derived properties of filesystem nodes.
//
// Stat and Lstat surface classified faults. Exists, IsFile and IsDir are
// advisory: they degrade every fault to false and never abort a caller.
package meta

import (
	"os"
	"time"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/pathutil"
)

// Info describes a single filesystem node.
type Info struct {
	AccessTime time.Time
	ModTime    time.Time
	Name       string
	Path       string
	Size       int64
	Mode       os.FileMode
	IsFile     bool
	IsDir      bool
	IsSymlink  bool
}

// Timestamps is the access/modification time pair carried across a copy.
type Timestamps struct {
	LastAccess   time.Time
	LastModified time.Time
}

// Stat returns metadata for path, following symlinks.
func Stat(path string) (Info, error) {
	p := pathutil.ToSlashAll(path)
	fi, err := os.Stat(p)
	if err != nil {
		return Info{}, fserr.Classify("stat", p, err)
	}
	return FromFileInfo(p, fi), nil
}

// Lstat returns metadata for path without following a final symlink.
func Lstat(path string) (Info, error) {
	p := pathutil.ToSlashAll(path)
	fi, err := os.Lstat(p)
	if err != nil {
		return Info{}, fserr.Classify("lstat", p, err)
	}
	return FromFileInfo(p, fi), nil
}

// FromFileInfo converts an os.FileInfo obtained for path into an Info.
func FromFileInfo(path string, fi os.FileInfo) Info {
	info := Info{
		Name:      fi.Name(),
		Path:      path,
		Size:      fi.Size(),
		Mode:      fi.Mode(),
		ModTime:   fi.ModTime(),
		IsDir:     fi.IsDir(),
		IsFile:    fi.Mode().IsRegular(),
		IsSymlink: fi.Mode()&os.ModeSymlink != 0,
	}
	if atime, ok := atimeOf(fi); ok {
		info.AccessTime = atime
	}
	return info
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := Stat(path)
	return err == nil
}

// IsFile reports whether path is a regular file. Faults yield false.
func IsFile(path string) bool {
	info, err := Stat(path)
	return err == nil && info.IsFile
}

// IsDir reports whether path is a directory. Faults yield false.
func IsDir(path string) bool {
	info, err := Stat(path)
	return err == nil && info.IsDir
}

// GetTimestamps reads the access and modification times of path. A node
// whose platform stat data lacks either time fails with MissingTimestamp.
func GetTimestamps(path string) (Timestamps, error) {
	info, err := Stat(path)
	if err != nil {
		return Timestamps{}, err
	}
	return info.Timestamps()
}

// Timestamps returns the pair carried by info, or MissingTimestamp when
// either half is unavailable.
func (i Info) Timestamps() (Timestamps, error) {
	if i.AccessTime.IsZero() || i.ModTime.IsZero() {
		return Timestamps{}, fserr.New(fserr.MissingTimestamp, "timestamps", i.Path, nil)
	}
	return Timestamps{LastAccess: i.AccessTime, LastModified: i.ModTime}, nil
}

// SetTimestamps applies ts to path with the best precision the platform offers.
func SetTimestamps(path string, ts Timestamps) error {
	p := pathutil.ToSlashAll(path)
	if err := setTimes(p, ts.LastAccess, ts.LastModified); err != nil {
		return fserr.Classify("utimes", p, err)
	}
	return nil
}
