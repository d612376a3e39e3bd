package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/bamsammich/fsio/internal/copier"
	"github.com/bamsammich/fsio/internal/event"
	"github.com/bamsammich/fsio/internal/walker"
)

// createTestTree populates root with:
//
//	root.txt          (17 bytes)
//	big.bin           (320KB)
//	sub/mid.txt       (19 bytes)
//	sub/deep/leaf.txt (17 bytes)
//	link.txt          -> root.txt (symlink)
func createTestTree(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	write := func(rel string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), data, 0o644))
	}
	write("root.txt", []byte("root file content"))
	big := make([]byte, 0, 320_000)
	for len(big) < 320_000 {
		big = append(big, "ABCDEFGHIJKLMNOP"...)
	}
	write("big.bin", big)
	write("sub/mid.txt", []byte("middle file content"))
	write("sub/deep/leaf.txt", []byte("leaf file content"))
	require.NoError(t, os.Symlink("root.txt", filepath.Join(root, "link.txt")))
}

func hashFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	h := blake3.Sum256(data)
	return h[:]
}

func baseConfig(src, dst string) Config {
	return Config{
		Src:       src,
		Dst:       dst,
		Traversal: walker.DefaultTraversal(),
		Copy:      copier.Options{Overwrite: true, CopyTimestamp: true, BufferSize: 32 * 1024},
		Workers:   4,
	}
}

// collectEvents returns a channel for Config.Events and a getter that closes
// it and returns everything received. The getter may be called once.
func collectEvents(t *testing.T) (chan<- event.Event, func() []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 4096)
	var collected []event.Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			collected = append(collected, ev)
		}
	}()
	var once sync.Once
	drain := func() {
		once.Do(func() { close(ch) })
		<-done
	}
	t.Cleanup(drain)
	return ch, func() []event.Event {
		drain()
		return collected
	}
}
