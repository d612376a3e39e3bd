package copier

import "github.com/bamsammich/fsio/internal/fserr"

// Options controls a single copy.
type Options struct {
	// Progress, when set, is called after each chunk with the running total.
	Progress func(written int64)
	// BytesPerSec caps throughput; 0 means unlimited.
	BytesPerSec   int64
	BufferSize    int
	Overwrite     bool
	CopyTimestamp bool
	// Verify re-hashes both files after the copy and fails on mismatch.
	Verify bool
}

// DefaultOptions returns the documented defaults: overwrite, preserve
// timestamps, 32-byte chunks.
func DefaultOptions() Options {
	return Options{
		Overwrite:     true,
		CopyTimestamp: true,
		BufferSize:    32,
	}
}

// Validate rejects configurations that can never succeed.
func (o Options) Validate() error {
	if o.BufferSize <= 0 {
		return fserr.Configf("copy", "buffer size must be positive, got %d", o.BufferSize)
	}
	if o.BytesPerSec < 0 {
		return fserr.Configf("copy", "rate limit must not be negative, got %d", o.BytesPerSec)
	}
	return nil
}

// Option overrides one field of the defaults.
type Option func(*Options)

func WithOverwrite(v bool) Option  { return func(o *Options) { o.Overwrite = v } }
func WithTimestamps(v bool) Option { return func(o *Options) { o.CopyTimestamp = v } }
func WithBufferSize(n int) Option  { return func(o *Options) { o.BufferSize = n } }
func WithVerify(v bool) Option     { return func(o *Options) { o.Verify = v } }

// WithRateLimit caps throughput at bytesPerSec (0 disables the cap).
func WithRateLimit(bytesPerSec int64) Option {
	return func(o *Options) { o.BytesPerSec = bytesPerSec }
}

// WithProgress registers a callback invoked after every chunk.
func WithProgress(fn func(written int64)) Option {
	return func(o *Options) { o.Progress = fn }
}

// WithOptions replaces every field with opts.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func resolve(base Options, opts []Option) Options {
	for _, fn := range opts {
		fn(&base)
	}
	return base
}
