package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bamsammich/fsio/internal/stats"
)

const statusInterval = 200 * time.Millisecond

// statusPresenter redraws a single status line on a terminal. Failures are
// printed above the line so they stay in scrollback.
type statusPresenter struct {
	w       io.Writer // terminal
	out     io.Writer
	stats   *stats.Collector
	width   int
	verbose bool

	mu      sync.Mutex
	current string
	drawn   bool
}

func (p *statusPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()
	ticks := 0

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clear()
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			ticks++
			// The collector's ring holds per-second deltas.
			if ticks%5 == 0 {
				p.stats.Tick()
			}
			p.render()
		}
	}
}

func (p *statusPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileStarted:
		p.mu.Lock()
		p.current = ev.Path
		p.mu.Unlock()
	case FileFailed:
		p.above(fmt.Sprintf("✗ %s  %s", ev.Path, errText(ev.Error)))
	case WalkFault:
		p.above(fmt.Sprintf("✗ walk %s  %s", ev.Path, errText(ev.Error)))
	case DeleteFile:
		p.above("delete: " + ev.Path)
	case FileCompleted:
		if p.verbose {
			p.above(fmt.Sprintf("%s  %s", ev.Path, FormatBytes(ev.Size)))
		}
	case WalkStarted, WalkComplete, DirCreated, SymlinkCreated, FileProgress, FileSkipped:
	}
}

// statusLine composes the line without cursor control.
func (p *statusPresenter) statusLine() string {
	snap := p.stats.Snapshot()
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	line := fmt.Sprintf("%s files  %s  %s  %s",
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		FormatRate(p.stats.RollingSpeed(5)),
		FormatDuration(snap.Elapsed),
	)
	if f := snap.Failures(); f > 0 {
		line += fmt.Sprintf("  errors %d", f)
	}
	if current != "" {
		line += "  " + current
	}
	return truncate(line, p.width-1)
}

func (p *statusPresenter) render() {
	line := p.statusLine()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\r\033[K%s", line)
	p.drawn = true
}

func (p *statusPresenter) above(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawn = false
	}
	fmt.Fprintln(p.out, msg)
}

func (p *statusPresenter) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawn = false
	}
}

func (p *statusPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// truncate shortens s to n runes, keeping the tail where the path usually is.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[len(r)-n:])
	}
	return "…" + strings.TrimLeft(string(r[len(r)-n+1:]), " ")
}
