package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/bamsammich/fsio/internal/hashing"
)

const journalBatch = 64

// Journal records files a tree copy has finished so an interrupted copy of
// the same source and destination can skip them on the next run. Entries
// are keyed by path relative to the source root and match only while the
// source size and modification time are unchanged.
type Journal struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	pending []journalEntry
}

type journalEntry struct {
	rel   string
	size  int64
	mtime int64
}

// JournalDir is where journals live by default: $XDG_STATE_HOME/fsio, else
// ~/.local/state/fsio, else the temp directory.
func JournalDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "fsio")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "fsio")
	}
	return filepath.Join(os.TempDir(), "fsio")
}

// OpenJournal opens or creates the journal for the src/dst pair in dir.
func OpenJournal(dir, src, dst string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, journalID(src, dst)+".db")

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := &Journal{db: db, path: path}
	if err := j.init(src, dst); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init(src, dst string) error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS copied (
			rel   TEXT PRIMARY KEY,
			size  INTEGER NOT NULL,
			mtime INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS roots (
			src TEXT NOT NULL,
			dst TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create journal tables: %w", err)
	}

	var storedSrc, storedDst string
	err = j.db.QueryRow("SELECT src, dst FROM roots LIMIT 1").Scan(&storedSrc, &storedDst)
	switch {
	case err == sql.ErrNoRows:
		if _, err := j.db.Exec("INSERT INTO roots (src, dst) VALUES (?, ?)", src, dst); err != nil {
			return fmt.Errorf("store journal roots: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read journal roots: %w", err)
	case storedSrc != src || storedDst != dst:
		return fmt.Errorf("journal roots mismatch: stored %s -> %s, got %s -> %s",
			storedSrc, storedDst, src, dst)
	}
	return nil
}

// Done reports whether rel was recorded with this size and mtime (unix ns).
func (j *Journal) Done(rel string, size, mtime int64) bool {
	j.mu.Lock()
	for _, e := range j.pending {
		if e.rel == rel {
			j.mu.Unlock()
			return e.size == size && e.mtime == mtime
		}
	}
	j.mu.Unlock()

	var storedSize, storedMtime int64
	err := j.db.QueryRow("SELECT size, mtime FROM copied WHERE rel = ?", rel).Scan(&storedSize, &storedMtime)
	if err != nil {
		return false
	}
	return storedSize == size && storedMtime == mtime
}

// Record marks rel as copied. Writes are batched; Flush or Close persists
// the remainder.
func (j *Journal) Record(rel string, size, mtime int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(j.pending, journalEntry{rel: rel, size: size, mtime: mtime})
	if len(j.pending) >= journalBatch {
		return j.flushLocked()
	}
	return nil
}

// Flush writes pending entries.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.flushLocked()
}

func (j *Journal) flushLocked() error {
	if len(j.pending) == 0 {
		return nil
	}
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO copied (rel, size, mtime) VALUES (?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range j.pending {
		if _, err := stmt.Exec(e.rel, e.size, e.mtime); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("journal %s: %w", e.rel, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal: %w", err)
	}
	j.pending = j.pending[:0]
	return nil
}

// Close flushes and closes the journal.
func (j *Journal) Close() error {
	ferr := j.Flush()
	if err := j.db.Close(); err != nil {
		return err
	}
	return ferr
}

// Remove deletes the journal file along with any WAL side files. Call it
// after Close once a copy has finished cleanly.
func (j *Journal) Remove() error {
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(j.path + suffix)
	}
	return os.Remove(j.path)
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

func journalID(src, dst string) string {
	digest, _ := hashing.HashText(src+"\x00"+dst, hashing.BLAKE3)
	return digest[:16]
}
