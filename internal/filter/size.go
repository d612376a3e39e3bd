package filter

import (
	"strconv"
	"strings"

	"github.com/bamsammich/fsio/internal/fserr"
)

var sizeSuffixes = map[string]int64{
	"":  1,
	"B": 1,
	"K": 1 << 10,
	"M": 1 << 20,
	"G": 1 << 30,
	"T": 1 << 40,
}

// ParseSize parses sizes like 100, 100B, 4K, 1.5G or 2MiB. Suffixes are
// case-insensitive powers of 1024.
func ParseSize(s string) (int64, error) {
	orig := s
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "IB")
	if len(s) > 1 && strings.HasSuffix(s, "B") && strings.ContainsAny(s[len(s)-2:len(s)-1], "KMGT") {
		s = s[:len(s)-1]
	}

	num, unit := s, ""
	if n := len(s); n > 0 && (s[n-1] < '0' || s[n-1] > '9') && s[n-1] != '.' {
		num, unit = s[:n-1], s[n-1:]
	}
	mult, ok := sizeSuffixes[unit]
	if !ok || num == "" {
		return 0, fserr.Configf("size", "invalid size %q", orig)
	}

	if n, err := strconv.ParseInt(num, 10, 64); err == nil {
		if n < 0 {
			return 0, fserr.Configf("size", "negative size %q", orig)
		}
		return n * mult, nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0, fserr.Configf("size", "invalid size %q", orig)
	}
	return int64(f * float64(mult)), nil
}
