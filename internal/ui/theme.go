package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/fsio/internal/config"
)

// Catppuccin Mocha defaults.
const (
	defaultDirColor     = "#89b4fa"
	defaultSymlinkColor = "#94e2d5"
	defaultErrorColor   = "#f38ba8"
	defaultMutedColor   = "#5a6278"
)

// Theme styles listing output. The zero value renders plain text.
type Theme struct {
	enabled bool
	dir     lipgloss.Style
	symlink lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
}

// NewTheme builds a theme from config overrides. When color is false every
// Render call returns its input unchanged.
func NewTheme(cfg config.ThemeConfig, color bool) Theme {
	pick := func(override *string, def string) lipgloss.Color {
		if override != nil && *override != "" {
			return lipgloss.Color(*override)
		}
		return lipgloss.Color(def)
	}
	return Theme{
		enabled: color,
		dir:     lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.Dir, defaultDirColor)),
		symlink: lipgloss.NewStyle().Foreground(pick(cfg.Symlink, defaultSymlinkColor)),
		err:     lipgloss.NewStyle().Foreground(pick(cfg.Error, defaultErrorColor)),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(defaultMutedColor)),
	}
}

// Entry renders a path according to its kind. Directories get a trailing
// slash and symlinks an "@" so the kind survives without color.
func (t Theme) Entry(path string, isDir, isSymlink bool) string {
	switch {
	case isSymlink:
		return t.render(t.symlink, path+"@")
	case isDir:
		return t.render(t.dir, path+"/")
	default:
		return path
	}
}

// Error renders a fault message.
func (t Theme) Error(msg string) string {
	return t.render(t.err, msg)
}

// Muted renders secondary columns such as sizes and modes.
func (t Theme) Muted(s string) string {
	return t.render(t.muted, s)
}

func (t Theme) render(s lipgloss.Style, text string) string {
	if !t.enabled {
		return text
	}
	return s.Render(text)
}
