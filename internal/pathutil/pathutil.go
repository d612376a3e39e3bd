// Package pathutil normalizes path separators and splits paths into their
// components without touching the filesystem.
package pathutil

import (
	"os"
	"regexp"
	"strings"
)

var (
	separatorRe      = regexp.MustCompile(`[\\/]`)
	trailingSepRe    = regexp.MustCompile(`[\\/]+$`)
	finalSegmentRe   = regexp.MustCompile(`[^\\/]+$`)
	uncPrefixRe      = regexp.MustCompile(`^(\\\\|//)`)
	separatorRunRe   = regexp.MustCompile(`/{2,}`)
	leadingDoubleSep = "//"
)

// ToSlashAll replaces every backslash or forward slash with a forward slash.
func ToSlashAll(path string) string {
	return separatorRe.ReplaceAllString(path, "/")
}

// ToBackslashAll replaces every backslash or forward slash with a backslash.
func ToBackslashAll(path string) string {
	return separatorRe.ReplaceAllString(path, `\`)
}

// IsUNC reports whether path starts with a network-share prefix (`\\` or `//`).
func IsUNC(path string) bool {
	return uncPrefixRe.MatchString(path)
}

// Basename returns the final path segment. A path ending in a separator has
// an empty basename.
func Basename(path string) string {
	parts := separatorRe.Split(path, -1)
	return parts[len(parts)-1]
}

// Dirname strips the final path segment and any separators left trailing.
func Dirname(path string) string {
	return trailingSepRe.ReplaceAllString(finalSegmentRe.ReplaceAllString(path, ""), "")
}

// Extname returns the last dot-delimited part of the basename prefixed with
// a dot. Names without a dot yield "." + name (Extname("README") == ".README").
func Extname(path string) string {
	parts := strings.Split(Basename(path), ".")
	return "." + parts[len(parts)-1]
}

// Clean slash-normalizes path and collapses separator runs, keeping a
// leading UNC double slash intact.
func Clean(path string) string {
	p := ToSlashAll(path)
	if strings.HasPrefix(p, leadingDoubleSep) {
		return leadingDoubleSep + separatorRunRe.ReplaceAllString(strings.TrimLeft(p, "/"), "/")
	}
	return separatorRunRe.ReplaceAllString(p, "/")
}

// Join joins elements with forward slashes and collapses separator runs.
func Join(elem ...string) string {
	var b strings.Builder
	for _, e := range elem {
		if e == "" {
			continue
		}
		e = ToSlashAll(e)
		if b.Len() > 0 {
			if !strings.HasSuffix(b.String(), "/") {
				b.WriteByte('/')
			}
			e = strings.TrimLeft(e, "/")
		}
		b.WriteString(e)
	}
	return Clean(b.String())
}

// Executable returns the slash-normalized path of the running binary.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return ToSlashAll(exe), nil
}
