package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 100
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddEntriesWalked(1)
				c.AddFilesCopied(1)
				c.AddFilesFailed(1)
				c.AddFilesSkipped(1)
				c.AddBytesCopied(256)
				c.AddDirsCreated(1)
				c.AddSymlinksCreated(1)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.EntriesWalked)
	assert.Equal(t, expected, s.FilesCopied)
	assert.Equal(t, expected, s.FilesFailed)
	assert.Equal(t, expected, s.FilesSkipped)
	assert.Equal(t, expected*256, s.BytesCopied)
	assert.Equal(t, expected, s.DirsCreated)
	assert.Equal(t, expected, s.SymlinksCreated)
}

func TestSnapshotString(t *testing.T) {
	s := Snapshot{
		EntriesWalked:   12,
		FilesCopied:     8,
		FilesFailed:     1,
		FilesSkipped:    1,
		BytesCopied:     4096,
		DirsCreated:     3,
		SymlinksCreated: 2,
		WalkFaults:      1,
	}
	assert.Equal(t, "walked=12 copied=8 failed=1 skipped=1 bytes=4096 dirs=3 symlinks=2 faults=1", s.String())
	assert.Equal(t, int64(2), s.Failures())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, FormatBytes(tt.input))
		})
	}
}

func TestElapsed(t *testing.T) {
	var zero Collector
	assert.Zero(t, zero.Elapsed())

	c := NewCollector()
	time.Sleep(10 * time.Millisecond)
	assert.Greater(t, c.Snapshot().Elapsed, time.Duration(0))
}

func TestTickAndRollingSpeed(t *testing.T) {
	c := NewCollector()
	assert.Zero(t, c.RollingSpeed(5))

	for range 5 {
		c.AddBytesCopied(1000)
		c.Tick()
	}
	assert.InDelta(t, 1000.0, c.RollingSpeed(5), 0.01)

	// Fewer samples than requested averages what exists.
	p := NewCollector()
	p.AddBytesCopied(500)
	p.Tick()
	p.AddBytesCopied(1500)
	p.Tick()
	assert.InDelta(t, 1000.0, p.RollingSpeed(10), 0.01)
	assert.InDelta(t, 1500.0, p.RollingSpeed(1), 0.01)
}

func TestRingWraparound(t *testing.T) {
	c := NewCollector()
	for range ringSize + 10 {
		c.AddBytesCopied(10)
		c.Tick()
	}
	assert.Equal(t, ringSize, c.ringCount)
	assert.InDelta(t, 10.0, c.RollingSpeed(ringSize*2), 0.01)
}
