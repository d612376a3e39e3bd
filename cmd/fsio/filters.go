package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/fsio/internal/filter"
)

// filterFlag is a pflag.Value that preserves CLI ordering of --exclude and
// --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

var _ pflag.Value = (*filterFlag)(nil)

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

// filterOpts collects the rule and size flags shared by walk and cp.
type filterOpts struct {
	chain      *filter.Chain
	filterFile string
	minSize    string
	maxSize    string
	skip       []string
	match      []string
}

func addFilterFlags(cmd *cobra.Command, fo *filterOpts) {
	fo.chain = filter.NewChain()
	f := cmd.Flags()
	f.Var(&filterFlag{chain: fo.chain}, "exclude", "exclude paths matching PATTERN (repeatable)")
	f.Var(&filterFlag{chain: fo.chain, include: true}, "include", "include paths matching PATTERN (repeatable)")
	f.StringVar(&fo.filterFile, "filter", "", "read filter rules from FILE")
	f.StringVar(&fo.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 1M, 100K)")
	f.StringVar(&fo.maxSize, "max-size", "", "skip files larger than SIZE (e.g. 1G, 500M)")
	f.StringArrayVar(&fo.skip, "skip", nil, "skip paths matching REGEX (repeatable)")
	f.StringArrayVar(&fo.match, "match", nil, "keep only paths matching REGEX (repeatable)")
}

// build finalizes the chain. It returns nil when no rule or bound was given.
func (fo *filterOpts) build() (*filter.Chain, error) {
	if fo.filterFile != "" {
		if err := fo.chain.LoadFile(fo.filterFile); err != nil {
			return nil, fmt.Errorf("load filter file: %w", err)
		}
	}
	if fo.minSize != "" {
		n, err := filter.ParseSize(fo.minSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-size: %w", err)
		}
		fo.chain.SetMinSize(n)
	}
	if fo.maxSize != "" {
		n, err := filter.ParseSize(fo.maxSize)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-size: %w", err)
		}
		fo.chain.SetMaxSize(n)
	}
	if fo.chain.Empty() {
		return nil, nil
	}
	return fo.chain, nil
}

func compileAll(flag string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s %q: %w", flag, e, err)
		}
		out = append(out, re)
	}
	return out, nil
}
