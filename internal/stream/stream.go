// Package stream opens files as read-only or write-only handles.
package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
)

// Mode selects the access direction of a Handle.
type Mode int

const (
	ModeRead Mode = iota + 1
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "unknown"
	}
}

// DefaultPerm is the permission used for files created without an explicit Perm.
const DefaultPerm os.FileMode = 0o644

// WriteOptions controls how a write handle is opened.
type WriteOptions struct {
	Create    bool // create the file if missing
	CreateNew bool // fail with AlreadyExists if the file exists; implies Create
	Truncate  bool
	Append    bool
	Perm      os.FileMode
}

func (o WriteOptions) flags() int {
	flags := os.O_WRONLY
	if o.Create || o.CreateNew {
		flags |= os.O_CREATE
	}
	if o.CreateNew {
		flags |= os.O_EXCL
	}
	if o.Truncate {
		flags |= os.O_TRUNC
	}
	if o.Append {
		flags |= os.O_APPEND
	}
	return flags
}

// Handle owns exactly one open descriptor. It is not safe for concurrent use
// except for Close, which may be called any number of times.
type Handle struct {
	f         *os.File
	path      string
	mode      Mode
	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// Open opens path in the given mode. wopts is ignored for ModeRead.
func Open(path string, mode Mode, wopts WriteOptions) (*Handle, error) {
	switch mode {
	case ModeRead:
		return OpenRead(path)
	case ModeWrite:
		return OpenWrite(path, wopts)
	default:
		return nil, fserr.Configf("open", "unknown mode %d", mode)
	}
}

// OpenRead opens path read-only.
func OpenRead(path string) (*Handle, error) {
	p := pathutil.ToSlashAll(path)
	f, err := os.Open(p)
	if err != nil {
		return nil, fserr.Classify("open", p, err)
	}
	return &Handle{f: f, path: p, mode: ModeRead}, nil
}

// OpenWrite opens path write-only according to opts.
func OpenWrite(path string, opts WriteOptions) (*Handle, error) {
	p := pathutil.ToSlashAll(path)
	perm := opts.Perm
	if perm == 0 {
		perm = DefaultPerm
	}
	f, err := os.OpenFile(p, opts.flags(), perm)
	if err != nil {
		return nil, fserr.Classify("open", p, err)
	}
	return &Handle{f: f, path: p, mode: ModeWrite}, nil
}

var errWrongMode = errors.New("operation not permitted by handle mode")

func (h *Handle) Read(p []byte) (int, error) {
	if h.mode != ModeRead {
		return 0, fserr.New(fserr.IOFault, "read", h.path, errWrongMode)
	}
	n, err := h.f.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fserr.Classify("read", h.path, err)
	}
	return n, err
}

func (h *Handle) Write(p []byte) (int, error) {
	if h.mode != ModeWrite {
		return 0, fserr.New(fserr.IOFault, "write", h.path, errWrongMode)
	}
	n, err := h.f.Write(p)
	if err != nil {
		return n, fserr.Classify("write", h.path, err)
	}
	return n, nil
}

// Close releases the descriptor. Calls after the first return nil.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		if cerr := h.f.Close(); cerr != nil {
			h.closeErr = fserr.Classify("close", h.path, cerr)
		}
		err = h.closeErr
	})
	return err
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool { return h.closed.Load() }

// Mode returns the access direction the handle was opened with.
func (h *Handle) Mode() Mode { return h.mode }

// Path returns the normalized path the handle was opened with.
func (h *Handle) Path() string { return h.path }

// Stat returns metadata of the open descriptor.
func (h *Handle) Stat() (meta.Info, error) {
	fi, err := h.f.Stat()
	if err != nil {
		return meta.Info{}, fserr.Classify("fstat", h.path, err)
	}
	return meta.FromFileInfo(h.path, fi), nil
}

// Size returns the current file length, or an error if it cannot be read.
func (h *Handle) Size() (int64, error) {
	info, err := h.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Sync commits written data to stable storage.
func (h *Handle) Sync() error {
	if err := h.f.Sync(); err != nil {
		return fserr.Classify("sync", h.path, err)
	}
	return nil
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.mode, h.path)
}
