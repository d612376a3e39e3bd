package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/fsio/internal/stats"
)

const plainProgressInterval = 5 * time.Second

// plainPresenter writes one line per finished file to w and periodic
// progress lines to errW. Used when stderr is not a terminal.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	verbose bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(plainProgressInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileCompleted:
		fmt.Fprintf(p.w, "%s  %s\n", ev.Path, FormatBytes(ev.Size))
	case FileFailed:
		fmt.Fprintf(p.w, "%s  %s\n", ev.Path, errText(ev.Error))
	case WalkFault:
		fmt.Fprintf(p.errW, "walk: %s  %s\n", ev.Path, errText(ev.Error))
	case FileSkipped:
		fmt.Fprintf(p.w, "%s  skipped\n", ev.Path)
	case DeleteFile:
		fmt.Fprintf(p.w, "delete: %s\n", ev.Path)
	case DirCreated, SymlinkCreated:
		if p.verbose {
			fmt.Fprintf(p.w, "%s/\n", ev.Path)
		}
	case WalkStarted, WalkComplete, FileStarted, FileProgress:
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	fmt.Fprintf(p.errW, "progress: %s copied %s files %s\n",
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.FilesCopied),
		FormatRate(p.stats.RollingSpeed(2)),
	)
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

func errText(err error) string {
	if err == nil {
		return "error"
	}
	return err.Error()
}
