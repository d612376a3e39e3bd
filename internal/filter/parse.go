package filter

import (
	"fmt"
	"strings"

	"github.com/bamsammich/fsio/internal/linereader"
)

// LoadFile appends rules read from a filter file. Each non-blank line is
// one of:
//
//	+ PATTERN   include
//	- PATTERN   exclude
//	!           clear every rule loaded so far
//	# comment
//	PATTERN     exclude
func (c *Chain) LoadFile(path string) error {
	res := linereader.ReadFileStream(path)
	if res.Err != nil {
		return fmt.Errorf("load filter file: %w", res.Err)
	}
	return c.Parse(path, string(res.Data))
}

// Parse appends the rules in text, using name to label errors.
func (c *Chain) Parse(name, text string) error {
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var err error
		switch {
		case line == "!":
			c.Reset()
		case strings.HasPrefix(line, "+ "):
			err = c.AddInclude(strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "- "):
			err = c.AddExclude(strings.TrimSpace(line[2:]))
		default:
			err = c.AddExclude(line)
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", name, i+1, err)
		}
	}
	return nil
}
