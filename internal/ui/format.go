package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bamsammich/fsio/internal/stats"
)

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	units := []string{"B/s", "KB/s", "MB/s", "GB/s", "TB/s"}
	val := bytesPerSec
	for _, u := range units {
		if val < 1024 {
			switch {
			case u == "B/s":
				return fmt.Sprintf("%.0f %s", val, u)
			case val < 10:
				return fmt.Sprintf("%.2f %s", val, u)
			case val < 100:
				return fmt.Sprintf("%.1f %s", val, u)
			default:
				return fmt.Sprintf("%.0f %s", val, u)
			}
		}
		val /= 1024
	}
	return fmt.Sprintf("%.1f PB/s", val)
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBytes wraps stats.FormatBytes for UI use.
func FormatBytes(b int64) string {
	return stats.FormatBytes(b)
}

// FormatDuration formats elapsed time concisely; sub-second durations show
// milliseconds.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatMode renders permission bits ls-style, e.g. "drwxr-xr-x".
func FormatMode(isDir, isSymlink bool, perm uint32) string {
	kind := byte('-')
	switch {
	case isSymlink:
		kind = 'l'
	case isDir:
		kind = 'd'
	}
	const rwx = "rwxrwxrwx"
	out := []byte{kind}
	for i := range 9 {
		if perm&(1<<uint(8-i)) != 0 {
			out = append(out, rwx[i])
		} else {
			out = append(out, '-')
		}
	}
	return string(out)
}
