package ui

import (
	"io"

	"github.com/bamsammich/fsio/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Stats     *stats.Collector
	IsTTY     bool
	Quiet     bool
	Verbose   bool
	Width     int
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory
func NewPresenter(cfg Config) Presenter {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Quiet {
		return &quietPresenter{stats: cfg.Stats}
	}
	if !cfg.IsTTY {
		return &plainPresenter{
			w:       cfg.Writer,
			errW:    cfg.ErrWriter,
			stats:   cfg.Stats,
			verbose: cfg.Verbose,
		}
	}
	width := cfg.Width
	if width <= 0 {
		width = 80
	}
	return &statusPresenter{
		w:       cfg.ErrWriter,
		out:     cfg.Writer,
		stats:   cfg.Stats,
		width:   width,
		verbose: cfg.Verbose,
	}
}
