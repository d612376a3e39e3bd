package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector counts the outcomes of a batch operation using lock-free atomic
// counters. It is safe for concurrent use.
type Collector struct {
	entriesWalked   atomic.Int64
	walkFaults      atomic.Int64
	filesCopied     atomic.Int64
	filesFailed     atomic.Int64
	filesSkipped    atomic.Int64
	filesVerified   atomic.Int64
	bytesCopied     atomic.Int64
	dirsCreated     atomic.Int64
	symlinksCreated atomic.Int64
	deleted         atomic.Int64
	startTime       time.Time

	// Ring buffer, written only by Tick.
	mu         sync.Mutex
	throughput [ringSize]int64 // bytes delta per tick
	ringIdx    int
	ringCount  int
	lastBytes  int64
}

// NewCollector creates a Collector with its clock started.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	EntriesWalked   int64
	WalkFaults      int64
	FilesCopied     int64
	FilesFailed     int64
	FilesSkipped    int64
	FilesVerified   int64
	BytesCopied     int64
	DirsCreated     int64
	SymlinksCreated int64
	Deleted         int64
	Elapsed         time.Duration
}

func (c *Collector) AddEntriesWalked(n int64)   { c.entriesWalked.Add(n) }
func (c *Collector) AddWalkFaults(n int64)      { c.walkFaults.Add(n) }
func (c *Collector) AddFilesCopied(n int64)     { c.filesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)     { c.filesFailed.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)    { c.filesSkipped.Add(n) }
func (c *Collector) AddFilesVerified(n int64)   { c.filesVerified.Add(n) }
func (c *Collector) AddBytesCopied(n int64)     { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)     { c.dirsCreated.Add(n) }
func (c *Collector) AddSymlinksCreated(n int64) { c.symlinksCreated.Add(n) }
func (c *Collector) AddDeleted(n int64)         { c.deleted.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		EntriesWalked:   c.entriesWalked.Load(),
		WalkFaults:      c.walkFaults.Load(),
		FilesCopied:     c.filesCopied.Load(),
		FilesFailed:     c.filesFailed.Load(),
		FilesSkipped:    c.filesSkipped.Load(),
		FilesVerified:   c.filesVerified.Load(),
		BytesCopied:     c.bytesCopied.Load(),
		DirsCreated:     c.dirsCreated.Load(),
		SymlinksCreated: c.symlinksCreated.Load(),
		Deleted:         c.deleted.Load(),
		Elapsed:         c.Elapsed(),
	}
}

// Tick records the bytes copied since the previous Tick. Callers tick once
// per second to feed RollingSpeed.
func (c *Collector) Tick() {
	current := c.bytesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = current - c.lastBytes
	c.lastBytes = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n ticks.
func (c *Collector) RollingSpeed(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		sum += c.throughput[(c.ringIdx-1-i+ringSize)%ringSize]
	}
	return float64(sum) / float64(count)
}

// Elapsed returns time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}

// Failures is the number of walk and copy faults.
func (s Snapshot) Failures() int64 {
	return s.WalkFaults + s.FilesFailed
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"walked=%d copied=%d failed=%d skipped=%d bytes=%d dirs=%d symlinks=%d faults=%d",
		s.EntriesWalked, s.FilesCopied, s.FilesFailed, s.FilesSkipped,
		s.BytesCopied, s.DirsCreated, s.SymlinksCreated, s.WalkFaults,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
