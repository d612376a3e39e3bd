package pathutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSlashAll(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`C:\Users\dev\file.txt`, "C:/Users/dev/file.txt"},
		{`a\b/c`, "a/b/c"},
		{"already/slashed", "already/slashed"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSlashAll(tt.in), tt.in)
	}
}

func TestToBackslashAll(t *testing.T) {
	assert.Equal(t, `a\b\c`, ToBackslashAll("a/b\\c"))
}

func TestSeparatorRoundTrip(t *testing.T) {
	for _, p := range []string{`C:\x/y\z`, "/usr/local/bin", `\\server\share\dir`, "plain"} {
		got := ToSlashAll(ToBackslashAll(p))
		assert.Equal(t, strings.ReplaceAll(p, `\`, "/"), got, p)
		assert.NotContains(t, got, `\`)
	}
}

func TestIsUNC(t *testing.T) {
	assert.True(t, IsUNC(`\\server\share`))
	assert.True(t, IsUNC("//server/share"))
	assert.False(t, IsUNC(`\server`))
	assert.False(t, IsUNC("/usr/bin"))
	assert.False(t, IsUNC(`/\mixed`))
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "c.txt", Basename("a/b/c.txt"))
	assert.Equal(t, "c.txt", Basename(`a\b\c.txt`))
	assert.Equal(t, "file", Basename("file"))
	assert.Equal(t, "", Basename("dir/"))
}

func TestDirname(t *testing.T) {
	assert.Equal(t, "a/b", Dirname("a/b/c.txt"))
	assert.Equal(t, `a\b`, Dirname(`a\b\c.txt`))
	assert.Equal(t, "a", Dirname("a//b"))
	assert.Equal(t, "", Dirname("file"))
	assert.Equal(t, "", Dirname("/root"))
}

func TestExtname(t *testing.T) {
	assert.Equal(t, ".gz", Extname("archive.tar.gz"))
	assert.Equal(t, ".txt", Extname("dir.d/notes.txt"))
	// Extension-less names keep the historical single-dot-plus-name result.
	assert.Equal(t, ".README", Extname("README"))
	assert.Equal(t, ".", Extname("trailing."))
}

func TestDirnameBasenameReconstruct(t *testing.T) {
	for _, p := range []string{"a/b/c", `x\y\z.txt`, "/abs/path/file", "rel//double/file"} {
		rebuilt := Join(Dirname(p), Basename(p))
		assert.Equal(t, Clean(p), rebuilt, p)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a/b/c", Clean(`a\\b//c`))
	assert.Equal(t, "//server/share/x", Clean(`\\server\\share\x`))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/a/b", Join("/", "a", "b"))
	assert.Equal(t, "root/dir/file", Join(`root\`, "dir", "/file"))
	assert.Equal(t, "a", Join("", "a", ""))
}

func TestExecutable(t *testing.T) {
	exe, err := Executable()
	require.NoError(t, err)
	assert.NotEmpty(t, exe)
	assert.NotContains(t, exe, `\`)
}
