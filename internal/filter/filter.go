// Package filter implements rsync-style include/exclude rules with optional
// file size bounds. A Chain decides whether a walked entry is kept and whether
// a directory subtree is pruned.
package filter

import (
	"strings"

	"github.com/bamsammich/fsio/internal/pathutil"
)

// Action is what a matching rule does to an entry.
type Action int

const (
	Exclude Action = iota
	Include
)

func (a Action) String() string {
	if a == Include {
		return "+"
	}
	return "-"
}

// Rule is a single compiled include or exclude pattern.
type Rule struct {
	glob   *glob
	Action Action
}

// String renders the rule in filter-file syntax.
func (r Rule) String() string {
	return r.Action.String() + " " + r.glob.source
}

// Chain is an ordered rule list plus size bounds. The zero value keeps
// everything.
type Chain struct {
	rules   []Rule
	minSize int64
	maxSize int64
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude appends an exclude rule.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, Exclude)
}

// AddInclude appends an include rule.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, Include)
}

func (c *Chain) add(pattern string, a Action) error {
	g, err := compileGlob(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{glob: g, Action: a})
	return nil
}

// Reset drops every rule; size bounds are kept.
func (c *Chain) Reset() {
	c.rules = nil
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Chain) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// SetMinSize sets the smallest file size kept; 0 disables the bound.
func (c *Chain) SetMinSize(n int64) { c.minSize = n }

// SetMaxSize sets the largest file size kept; 0 disables the bound.
func (c *Chain) SetMaxSize(n int64) { c.maxSize = n }

// Empty reports whether the chain keeps everything.
func (c *Chain) Empty() bool {
	return c == nil || (len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0)
}

// Match reports whether an entry is kept. relPath is relative to the walk
// root; size is ignored for directories. Rules are tried in order and the
// first match wins; an entry no rule matches is kept.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if c == nil {
		return true
	}
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}
	return c.decide(normalize(relPath), isDir)
}

// Prune reports whether the directory at relPath is excluded, so nothing
// beneath it can be kept.
func (c *Chain) Prune(relPath string) bool {
	if c == nil || len(c.rules) == 0 {
		return false
	}
	return !c.decide(normalize(relPath), true)
}

func (c *Chain) decide(rel string, isDir bool) bool {
	for _, r := range c.rules {
		if r.glob.match(rel, isDir) {
			return r.Action == Include
		}
	}
	return true
}

func normalize(rel string) string {
	return strings.TrimPrefix(pathutil.ToSlashAll(rel), "./")
}
