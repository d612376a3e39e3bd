//go:build !linux && !darwin

package meta

import (
	"os"
	"time"
)

// atimeOf reports no access time on platforms without a known stat layout;
// Timestamps then fails with MissingTimestamp instead of guessing.
func atimeOf(_ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
