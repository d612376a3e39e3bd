package walker

import (
	"regexp"
	"strings"

	"github.com/bamsammich/fsio/internal/filter"
)

// TraversalOptions control which nodes are visited and which subtrees are
// entered. They are shared by every walk variant.
type TraversalOptions struct {
	// MaxDepth bounds descent below the root (depth 0). Negative is
	// unlimited; 0 visits the root alone.
	MaxDepth int
	// FollowSymlinks descends into linked directories and reports linked
	// files by their target's type.
	FollowSymlinks bool
	// IncludeSymlinks reports unfollowed links as entries.
	IncludeSymlinks bool
	// Exts keeps non-directory entries whose name ends with one of these.
	Exts []string
	// Match keeps entries whose path matches at least one expression.
	Match []*regexp.Regexp
	// Skip drops entries whose path matches any expression; a skipped
	// directory is not entered.
	Skip []*regexp.Regexp
	// Filter applies include/exclude rules to paths relative to the root.
	// An excluded directory is not entered.
	Filter *filter.Chain
}

// Options are TraversalOptions plus the entry-type selectors.
type Options struct {
	TraversalOptions
	IncludeDirs  bool
	IncludeFiles bool
}

// DefaultTraversal returns unlimited depth with symlinks reported but not
// followed.
func DefaultTraversal() TraversalOptions {
	return TraversalOptions{MaxDepth: -1, IncludeSymlinks: true}
}

// DefaultOptions returns DefaultTraversal with every entry type included.
func DefaultOptions() Options {
	return Options{TraversalOptions: DefaultTraversal(), IncludeDirs: true, IncludeFiles: true}
}

// skipped reports whether path hits a Skip expression.
func (o *TraversalOptions) skipped(path string) bool {
	for _, re := range o.Skip {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// selects reports whether an entry that survived pruning is reported.
func (o *TraversalOptions) selects(path string, isDir bool) bool {
	if !isDir && len(o.Exts) > 0 {
		ok := false
		for _, ext := range o.Exts {
			if strings.HasSuffix(path, ext) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(o.Match) == 0 {
		return true
	}
	for _, re := range o.Match {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func (o *TraversalOptions) withinDepth(depth int) bool {
	return o.MaxDepth < 0 || depth <= o.MaxDepth
}
