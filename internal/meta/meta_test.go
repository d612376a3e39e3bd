package meta

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/fserr"
)

func TestStat_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	info, err := Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsFile)
	assert.False(t, info.IsDir)
	assert.Equal(t, "a.txt", info.Name)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.ModTime.IsZero())
}

func TestStat_NotFound(t *testing.T) {
	_, err := Stat(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fserr.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestStat_NormalizesBackslashes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a native separator on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "f"), nil, 0o644))

	info, err := Stat(dir + `\sub\f`)
	require.NoError(t, err)
	assert.True(t, info.IsFile)
	assert.False(t, strings.Contains(info.Path, `\`))
}

func TestAdvisoryChecksDegradeToFalse(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	missing := filepath.Join(dir, "nope")

	assert.True(t, Exists(file))
	assert.True(t, Exists(dir))
	assert.False(t, Exists(missing))

	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(missing))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(missing))

	// A path through a regular file is a stat fault (ENOTDIR), still false.
	assert.False(t, Exists(filepath.Join(file, "child")))
}

func TestLstat_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	li, err := Lstat(link)
	require.NoError(t, err)
	assert.True(t, li.IsSymlink)
	assert.False(t, li.IsFile)

	si, err := Stat(link)
	require.NoError(t, err)
	assert.True(t, si.IsFile)
	assert.False(t, si.IsSymlink)
}

func TestTimestampsRoundTrip(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("access time is only read on linux and darwin")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	want := Timestamps{
		LastAccess:   time.Date(2020, 5, 1, 10, 0, 0, 123456789, time.UTC),
		LastModified: time.Date(2019, 1, 2, 3, 4, 5, 987654321, time.UTC),
	}
	require.NoError(t, SetTimestamps(path, want))

	got, err := GetTimestamps(path)
	require.NoError(t, err)
	assert.True(t, want.LastModified.Equal(got.LastModified), "mtime %v != %v", want.LastModified, got.LastModified)
	assert.True(t, want.LastAccess.Equal(got.LastAccess), "atime %v != %v", want.LastAccess, got.LastAccess)
}

func TestInfoTimestamps_Missing(t *testing.T) {
	_, err := Info{Path: "/x", ModTime: time.Now()}.Timestamps()
	require.Error(t, err)
	assert.ErrorIs(t, err, fserr.ErrMissingTimestamp)
}

func TestSetTimestamps_NotFound(t *testing.T) {
	err := SetTimestamps(filepath.Join(t.TempDir(), "gone"), Timestamps{
		LastAccess:   time.Now(),
		LastModified: time.Now(),
	})
	assert.ErrorIs(t, err, fserr.ErrNotFound)
}
