package copier

import (
	"bytes"
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/meta"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestCopy_Basic(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	data := []byte("hello, fsio! this spans several 32-byte chunks of the default buffer")
	writeFile(t, src, data)

	n, err := Copy(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopy_BufferSizes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	data := make([]byte, 64*1024+7)
	_, err := rand.Read(data)
	require.NoError(t, err)
	writeFile(t, src, data)

	for _, size := range []int{1, 7, 32, 4096, 1 << 20} {
		dst := filepath.Join(dir, "dst")
		n, err := Copy(context.Background(), src, dst, WithBufferSize(size), WithTimestamps(false))
		require.NoError(t, err, size)
		assert.Equal(t, int64(len(data)), n, size)

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got), "buffer size %d", size)
	}
}

func TestCopy_ZeroLength(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty")
	writeFile(t, src, nil)

	for _, size := range []int{1, 2, 32, 1024} {
		dst := filepath.Join(dir, "out")
		n, err := Copy(context.Background(), src, dst, WithBufferSize(size))
		require.NoError(t, err, size)
		assert.Zero(t, n)

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	}
}

func TestCopy_PreservesTimestamps(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("access time is only read on linux and darwin")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("timestamped"))

	// atime newer than mtime and recent, so relatime mounts leave it alone.
	now := time.Now()
	want := meta.Timestamps{
		LastAccess:   now.Add(-time.Hour).Truncate(time.Microsecond),
		LastModified: now.Add(-2 * time.Hour).Truncate(time.Microsecond),
	}
	require.NoError(t, meta.SetTimestamps(src, want))
	before, err := meta.GetTimestamps(src)
	require.NoError(t, err)

	_, err = Copy(context.Background(), src, dst)
	require.NoError(t, err)

	after, err := meta.GetTimestamps(src)
	require.NoError(t, err)
	got, err := meta.GetTimestamps(dst)
	require.NoError(t, err)

	assert.True(t, before.LastModified.Equal(got.LastModified), "mtime %v != %v", before.LastModified, got.LastModified)
	assert.True(t, after.LastAccess.Equal(got.LastAccess), "atime %v != %v", after.LastAccess, got.LastAccess)
}

func TestCopy_WithoutTimestamps(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("x"))
	old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, old, old))

	_, err := Copy(context.Background(), src, dst, WithTimestamps(false))
	require.NoError(t, err)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.False(t, info.ModTime().Equal(old))
}

func TestCopy_NoOverwriteLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("new content"))
	writeFile(t, dst, []byte("original"))

	n, err := Copy(context.Background(), src, dst, WithOverwrite(false))
	require.Error(t, err)
	assert.ErrorIs(t, err, fserr.ErrAlreadyExists)
	assert.Zero(t, n)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestCopy_OverwriteTruncates(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("short"))
	writeFile(t, dst, []byte("a considerably longer original body"))

	_, err := Copy(context.Background(), src, dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestCopy_InvalidBufferSize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("x"))

	for _, size := range []int{0, -1} {
		_, err := Copy(context.Background(), src, dst, WithBufferSize(size))
		assert.ErrorIs(t, err, fserr.ErrConfigurationError, size)
	}
	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err), "destination must not be created")
}

func TestCopy_SourceMissing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst")

	_, err := Copy(context.Background(), filepath.Join(dir, "missing"), dst)
	assert.ErrorIs(t, err, fserr.ErrNotFound)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopy_SameFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "f")
	writeFile(t, src, []byte("keep me"))

	_, err := Copy(context.Background(), src, src)
	assert.ErrorIs(t, err, fserr.ErrConfigurationError)

	_, err = Copy(context.Background(), src, src, WithOverwrite(false))
	assert.ErrorIs(t, err, fserr.ErrAlreadyExists)
	assert.NotErrorIs(t, err, fserr.ErrConfigurationError)

	got, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))
}

func TestCopy_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, src, bytes.Repeat([]byte("a"), 1024))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Copy(ctx, src, filepath.Join(dir, "dst"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCopy_ProgressAndVerify(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	data := bytes.Repeat([]byte("0123456789"), 10)
	writeFile(t, src, data)

	var calls []int64
	n, err := Copy(context.Background(), src, filepath.Join(dir, "dst"),
		WithBufferSize(25),
		WithVerify(true),
		WithProgress(func(w int64) { calls = append(calls, w) }),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	require.NotEmpty(t, calls)
	assert.Equal(t, int64(100), calls[len(calls)-1])
}

func TestCopy_RateLimited(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, src, bytes.Repeat([]byte("r"), 4096))

	n, err := Copy(context.Background(), src, filepath.Join(dir, "dst"),
		WithBufferSize(512), WithRateLimit(1<<30))
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)

	_, err = Copy(context.Background(), src, filepath.Join(dir, "dst2"), WithRateLimit(-5))
	assert.ErrorIs(t, err, fserr.ErrConfigurationError)
}

func TestCopier_BaseOptionsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, []byte("payload"))
	writeFile(t, dst, []byte("existing"))

	c := New(WithOverwrite(false))
	assert.False(t, c.Options().Overwrite)
	assert.Equal(t, 32, c.Options().BufferSize)

	_, err := c.Copy(context.Background(), src, dst)
	assert.ErrorIs(t, err, fserr.ErrAlreadyExists)

	_, err = c.Copy(context.Background(), src, dst, WithOverwrite(true))
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	// Per-call overrides do not leak into the base options.
	assert.False(t, c.Options().Overwrite)
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Overwrite)
	assert.True(t, o.CopyTimestamp)
	assert.Equal(t, 32, o.BufferSize)
	assert.NoError(t, o.Validate())

	replaced := resolve(o, []Option{WithOptions(Options{BufferSize: 8})})
	assert.False(t, replaced.Overwrite)
	assert.Equal(t, 8, replaced.BufferSize)
}
