// Package linereader loads whole files through delimiter-terminated reads.
//
// Reads never discard data: when a fault stops the loop, the bytes read so
// far are returned together with the fault.
package linereader

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/stream"
	"github.com/bamsammich/fsio/internal/textenc"
)

// DefaultDelimiter terminates each slice requested from the buffer.
const DefaultDelimiter = '\n'

// Bounds for the internal buffer. The lower one mirrors bufio's own floor.
const (
	minBufferSize = 16
	maxBufferSize = 4 << 20
)

// Result carries the bytes read and the fault that stopped reading, if any.
// Data may be non-empty when Err is set.
type Result struct {
	Err  error
	Data []byte
}

// Partial reports whether reading failed after capturing some bytes.
func (r Result) Partial() bool {
	return r.Err != nil && len(r.Data) > 0
}

// TextResult is a decoded Result. Err is the read fault and DecodeErr the
// decoding fault; both may be set.
type TextResult struct {
	Err       error
	DecodeErr error
	Text      string
}

// Error returns the dominant fault: the read fault if present, else the
// decode fault.
func (r TextResult) Error() error {
	if r.Err != nil {
		return r.Err
	}
	return r.DecodeErr
}

// ReadAll reads r to end-of-stream in delimiter-terminated slices. sizeHint
// sizes the internal buffer; it is not a cap. path only labels faults.
func ReadAll(r io.Reader, delim byte, sizeHint int, path string) Result {
	size := sizeHint
	size = max(size, minBufferSize)
	size = min(size, maxBufferSize)
	br := bufio.NewReaderSize(r, size)

	var out bytes.Buffer
	if sizeHint > 0 {
		out.Grow(min(sizeHint, maxBufferSize))
	}
	for {
		slice, err := br.ReadSlice(delim)
		out.Write(slice)
		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return Result{Data: out.Bytes()}
		default:
			return Result{Data: out.Bytes(), Err: fserr.Classify("read", path, err)}
		}
	}
}

// ReadFileStream opens path read-only and reads it whole, splitting on '\n'.
func ReadFileStream(path string) Result {
	h, err := stream.OpenRead(path)
	if err != nil {
		return Result{Data: []byte{}, Err: err}
	}
	defer h.Close()

	hint := 0
	if size, err := h.Size(); err == nil {
		hint = int(size)
	} else {
		slog.Debug("size hint unavailable", "path", h.Path(), "error", err)
	}
	return ReadAll(h, DefaultDelimiter, hint, h.Path())
}

// ReadFile reads path and decodes it with enc. Decoding runs on whatever was
// captured, even when reading failed part way.
func ReadFile(path string, enc textenc.Encoding) TextResult {
	res := ReadFileStream(path)
	text, derr := textenc.Decode(res.Data, enc)
	return TextResult{Text: text, Err: res.Err, DecodeErr: derr}
}
