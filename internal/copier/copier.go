// Package copier duplicates files through a fixed-size reusable buffer and
// optionally carries access/modification times across.
package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/hashing"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/stream"
)

// Copier holds base options shared by many copies. The zero value is not
// usable; construct with New.
type Copier struct {
	base Options
}

// New returns a Copier whose base options are the defaults with opts applied.
func New(opts ...Option) *Copier {
	return &Copier{base: resolve(DefaultOptions(), opts)}
}

// Options returns the copier's base options.
func (c *Copier) Options() Options { return c.base }

// Copy copies src to dst with the copier's base options, further overridden
// by opts for this call only.
func (c *Copier) Copy(ctx context.Context, src, dst string, opts ...Option) (int64, error) {
	return copyFile(ctx, src, dst, resolve(c.base, opts))
}

// Copy copies src to dst with the default options overridden by opts. It
// returns the number of bytes written.
//
// With CopyTimestamp the source times are read before any data moves, so a
// MissingTimestamp fault is returned before dst is created.
func Copy(ctx context.Context, src, dst string, opts ...Option) (int64, error) {
	return copyFile(ctx, src, dst, resolve(DefaultOptions(), opts))
}

func copyFile(ctx context.Context, src, dst string, o Options) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	s := pathutil.ToSlashAll(src)
	d := pathutil.ToSlashAll(dst)

	// Without overwrite the existing destination is reported by copyData.
	if o.Overwrite && sameFile(s, d) {
		return 0, fserr.New(fserr.ConfigurationError, "copy", d, errSameFile)
	}

	// Source times are captured before reading so the copy's own access
	// cannot move them.
	var ts meta.Timestamps
	if o.CopyTimestamp {
		var err error
		if ts, err = meta.GetTimestamps(s); err != nil {
			return 0, fmt.Errorf("copy timestamps %s -> %s: %w", s, d, err)
		}
	}

	written, err := copyData(ctx, s, d, o)
	if err != nil {
		return written, err
	}

	if o.CopyTimestamp {
		if err := meta.SetTimestamps(d, ts); err != nil {
			return written, fmt.Errorf("copy timestamps %s -> %s: %w", s, d, err)
		}
	}

	if o.Verify {
		if err := verify(s, d); err != nil {
			return written, err
		}
	}

	slog.Debug("copied file", "src", s, "dst", d, "bytes", written)
	return written, nil
}

// copyData runs the chunk loop. Both handles are closed before it returns,
// whatever the outcome; a destination close fault is reported when nothing
// failed earlier.
func copyData(ctx context.Context, src, dst string, o Options) (written int64, err error) {
	in, err := stream.OpenRead(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := stream.OpenWrite(dst, stream.WriteOptions{
		Create:    true,
		CreateNew: !o.Overwrite,
		Truncate:  true,
	})
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var limiter *rate.Limiter
	if o.BytesPerSec > 0 {
		limiter = newLimiter(o.BytesPerSec, o.BufferSize)
	}

	buf := make([]byte, o.BufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := in.Read(buf)
		if n > 0 {
			if limiter != nil {
				if err := limiter.WaitN(ctx, n); err != nil {
					return written, err
				}
			}
			w, werr := out.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, fserr.New(fserr.IOFault, "write", dst, io.ErrShortWrite)
			}
			if o.Progress != nil {
				o.Progress(written)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// newLimiter allows bursts of at least one chunk so WaitN never rejects a
// full buffer.
func newLimiter(bytesPerSec int64, chunk int) *rate.Limiter {
	burst := max(chunk, 1<<20)
	if bytesPerSec < int64(burst) {
		burst = max(int(bytesPerSec), chunk)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

var errSameFile = errors.New("source and destination are the same file")

func sameFile(src, dst string) bool {
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	di, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return os.SameFile(si, di)
}

// ErrVerifyMismatch reports differing content after a copy.
var ErrVerifyMismatch = errors.New("content mismatch after copy")

func verify(src, dst string) error {
	srcHash, err := hashing.HashFile(src, hashing.BLAKE3)
	if err != nil {
		return fmt.Errorf("verify %s: %w", src, err)
	}
	dstHash, err := hashing.HashFile(dst, hashing.BLAKE3)
	if err != nil {
		return fmt.Errorf("verify %s: %w", dst, err)
	}
	if srcHash != dstHash {
		return fserr.New(fserr.IOFault, "verify", dst,
			fmt.Errorf("%w: %s != %s", ErrVerifyMismatch, srcHash, dstHash))
	}
	return nil
}
