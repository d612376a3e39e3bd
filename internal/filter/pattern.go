package filter

import (
	"regexp"
	"strings"

	"github.com/bamsammich/fsio/internal/fserr"
)

// glob is a compiled rsync-style pattern.
type glob struct {
	re       *regexp.Regexp
	source   string
	anchored bool // leading "/" or an inner "/"
	dirOnly  bool // trailing "/"
}

func compileGlob(pattern string) (*glob, error) {
	g := &glob{source: pattern}
	p := strings.TrimSpace(pattern)
	if p == "" || p == "/" {
		return nil, fserr.Configf("filter", "empty pattern %q", pattern)
	}

	if strings.HasSuffix(p, "/") {
		g.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}
	switch {
	case strings.HasPrefix(p, "/"):
		g.anchored = true
		p = strings.TrimPrefix(p, "/")
	case strings.Contains(p, "/"):
		g.anchored = true
	}

	expr := translate(p) + "$"
	if g.anchored {
		expr = "^" + expr
	} else {
		expr = "(^|/)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fserr.Configf("filter", "pattern %q: %v", pattern, err)
	}
	g.re = re
	return g, nil
}

func (g *glob) match(rel string, isDir bool) bool {
	if g.dirOnly && !isDir {
		return false
	}
	return g.re.MatchString(rel)
}

// translate turns glob syntax into a regular expression body. "*" and "?"
// stay within one path segment; "**" crosses segments and "**/" may match
// nothing at all.
//
//nolint:gocyclo,revive // character-by-character scanner
func translate(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case strings.HasPrefix(p[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case strings.HasPrefix(p[i:], "**"):
			b.WriteString(".*")
			i += 2
		case c == '*':
			b.WriteString("[^/]*")
			i++
		case c == '?':
			b.WriteString("[^/]")
			i++
		case c == '[':
			end := classEnd(p, i)
			if end < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			cls := p[i+1 : end]
			if strings.HasPrefix(cls, "!") {
				cls = "^" + cls[1:]
			}
			b.WriteString("[" + strings.ReplaceAll(cls, `\`, `\\`) + "]")
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the "]" closing the class opened at i, or
// -1 when the class is unterminated. A "]" right after "[" or "[!" is a
// literal member.
func classEnd(p string, i int) int {
	j := i + 1
	if j < len(p) && p[j] == '!' {
		j++
	}
	if j < len(p) && p[j] == ']' {
		j++
	}
	for j < len(p) && p[j] != ']' {
		j++
	}
	if j >= len(p) {
		return -1
	}
	return j
}
