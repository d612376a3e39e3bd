package hashing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fsio/internal/fserr"
)

func TestHashText_KnownDigests(t *testing.T) {
	tests := []struct {
		algo Algorithm
		want string
	}{
		{SHA1, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{SHA256, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{SHA512, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, tt := range tests {
		got, err := HashText("abc", tt.algo)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.algo)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	for _, algo := range Algorithms() {
		fromFile, err := HashFile(path, algo)
		require.NoError(t, err)
		fromText, err := HashText("hello world", algo)
		require.NoError(t, err)
		assert.Equal(t, fromText, fromFile, algo)
	}

	// Different content should produce a different hash.
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("different content"), 0o644))
	h1, err := HashFile(path, BLAKE3)
	require.NoError(t, err)
	h2, err := HashFile(other, BLAKE3)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashFileNotExist(t *testing.T) {
	_, err := HashFile("/nonexistent/file", BLAKE3)
	assert.ErrorIs(t, err, fserr.ErrNotFound)
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("SHA256")
	require.NoError(t, err)
	assert.Equal(t, SHA256, a)

	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, BLAKE3, a)

	_, err = ParseAlgorithm("md5")
	assert.ErrorIs(t, err, fserr.ErrConfigurationError)
}

func TestNewUUID(t *testing.T) {
	id := NewUUID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, NewUUID())
}

func TestRandomBytes(t *testing.T) {
	b, err := RandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	empty, err := RandomBytes(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = RandomBytes(-1)
	assert.ErrorIs(t, err, fserr.ErrConfigurationError)
}
