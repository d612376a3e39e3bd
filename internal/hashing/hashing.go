// Package hashing computes hex digests of files and text and produces
// random identifiers.
package hashing

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // SHA-1 is offered for compatibility, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/stream"
)

// Algorithm names a digest function.
type Algorithm string

const (
	BLAKE3 Algorithm = "blake3"
	XXH64  Algorithm = "xxh64"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// Algorithms lists every supported algorithm, default first.
func Algorithms() []Algorithm {
	return []Algorithm{BLAKE3, XXH64, SHA1, SHA256, SHA512}
}

// ParseAlgorithm resolves a name case-insensitively; empty selects BLAKE3.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if a == "" {
		return BLAKE3, nil
	}
	if _, err := a.New(); err != nil {
		return "", err
	}
	return a, nil
}

// New returns a fresh hash.Hash for a.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case BLAKE3:
		return blake3.New(), nil
	case XXH64:
		return xxhash.New(), nil
	case SHA1:
		return sha1.New(), nil //nolint:gosec // see import
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fserr.Configf("hash", "unsupported algorithm %q", string(a))
	}
}

// HashFile streams the file at path through a and returns the hex digest.
func HashFile(path string, a Algorithm) (string, error) {
	h, err := a.New()
	if err != nil {
		return "", err
	}
	f, err := stream.OpenRead(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", f.Path(), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashText returns the hex digest of the UTF-8 bytes of text.
func HashText(text string, a Algorithm) (string, error) {
	h, err := a.New()
	if err != nil {
		return "", err
	}
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NewUUID returns a random (version 4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fserr.Configf("random", "length must not be negative, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}
