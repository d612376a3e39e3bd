// Package fsops creates and removes filesystem nodes and writes whole text
// files.
package fsops

import (
	"bufio"
	"log/slog"
	"os"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/stream"
	"github.com/bamsammich/fsio/internal/textenc"
)

// DirPerm is the permission given to directories created here.
const DirPerm os.FileMode = 0o755

// Mkdir creates a single directory. The parent must exist.
func Mkdir(path string) error {
	p := pathutil.ToSlashAll(path)
	if err := os.Mkdir(p, DirPerm); err != nil {
		return fserr.Classify("mkdir", p, err)
	}
	return nil
}

// MkdirAll creates path and any missing parents. An existing directory is
// not an error.
func MkdirAll(path string) error {
	p := pathutil.ToSlashAll(path)
	if err := os.MkdirAll(p, DirPerm); err != nil {
		return fserr.Classify("mkdir", p, err)
	}
	return nil
}

// Remove deletes a file, a symlink or an empty directory.
func Remove(path string) error {
	p := pathutil.ToSlashAll(path)
	if err := os.Remove(p); err != nil {
		return fserr.Classify("remove", p, err)
	}
	return nil
}

// RemoveAll deletes path and everything beneath it. Unlike os.RemoveAll, a
// missing path is NotFound.
func RemoveAll(path string) error {
	p := pathutil.ToSlashAll(path)
	if _, err := os.Lstat(p); err != nil {
		return fserr.Classify("remove", p, err)
	}
	if err := os.RemoveAll(p); err != nil {
		return fserr.Classify("remove", p, err)
	}
	return nil
}

// WriteFileStream replaces the contents of path with text encoded as enc,
// creating the file when missing. Text is encoded before the file is opened,
// so an unencodable string leaves an existing file untouched.
func WriteFileStream(path, text string, enc textenc.Encoding) (err error) {
	p := pathutil.ToSlashAll(path)
	data, err := textenc.Encode(text, enc)
	if err != nil {
		return err
	}

	h, err := stream.OpenWrite(p, stream.WriteOptions{Create: true, Truncate: true})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(h)
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	slog.Debug("wrote file", "path", p, "bytes", len(data), "encoding", string(enc))
	return nil
}
