// Package verify checks that spec entries are registered in the binding source.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/phobologic/docsync/internal/model"
	"github.com/phobologic/docsync/internal/specfile"
)

// SourceFile is one binding source file held in memory for searching.
type SourceFile struct {
	Path    string
	Content string

	// byte offset of each line start
	starts []int
}

// NewSourceFile indexes content for line lookups.
func NewSourceFile(path, content string) SourceFile {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return SourceFile{Path: path, Content: content, starts: starts}
}

// LineAt returns the 1-based line containing byte offset off.
func (f SourceFile) LineAt(off int) int {
	return sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off })
}

// LoadFiles reads the given root-relative paths.
func LoadFiles(root string, paths []string) ([]SourceFile, error) {
	files := make([]SourceFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, p))
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		files = append(files, NewSourceFile(p, string(data)))
	}
	return files, nil
}

// Options control which entries are searched and how.
type Options struct {
	Patterns Patterns
	// SentinelPrefixes mark end-iterator accessors, which are never bound on
	// their own and are always reported skipped.
	SentinelPrefixes []string
	// IteratorPrefixes mark begin-iterator accessors, which may be bound
	// through an iterator-producing registration.
	IteratorPrefixes []string
}

// DefaultOptions returns the pybind11 conventions.
func DefaultOptions() Options {
	return Options{
		Patterns:         DefaultPatterns,
		SentinelPrefixes: []string{"cend"},
		IteratorPrefixes: []string{"cbegin"},
	}
}

// Checker searches a fixed set of source files.
type Checker struct {
	files []SourceFile
	opts  Options
}

// NewChecker returns a Checker over files, searched in path order.
func NewChecker(files []SourceFile, opts Options) *Checker {
	sorted := append([]SourceFile(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	opts.Patterns = opts.Patterns.withDefaults()
	return &Checker{files: sorted, opts: opts}
}

type tier struct {
	name string
	re   *regexp.Regexp
}

// Check searches for a registration of e.
//
// The overload-qualified tier runs over every file first, then the plain tier,
// then the iterator tier; the first hit is Found. Failing those, every file in
// which the bare member name occurs is a PossiblyFound candidate.
func (c *Checker) Check(e model.SpecEntry) model.MatchResult {
	res := model.MatchResult{Entry: e}
	if e.IsRvalue() {
		res.Status = model.Omitted
		return res
	}
	if hasAnyPrefix(e.Member, c.opts.SentinelPrefixes) {
		res.Status = model.Skipped
		return res
	}

	tiers, err := c.compile(e)
	if err != nil {
		res.Status = model.SearchError
		res.Err = err
		return res
	}

	for _, t := range tiers {
		for _, f := range c.files {
			if loc := t.re.FindStringIndex(f.Content); loc != nil {
				res.Status = model.Found
				res.Locations = []model.Location{{File: f.Path, Line: f.LineAt(loc[0])}}
				return res
			}
		}
	}

	bare := regexp.MustCompile(bareNameExpr(e.Member))
	for _, f := range c.files {
		if loc := bare.FindStringIndex(f.Content); loc != nil {
			res.Locations = append(res.Locations, model.Location{File: f.Path, Line: f.LineAt(loc[0])})
		}
	}
	if len(res.Locations) > 0 {
		res.Status = model.PossiblyFound
	} else {
		res.Status = model.NotFound
	}
	return res
}

func (c *Checker) compile(e model.SpecEntry) ([]tier, error) {
	var tiers []tier
	add := func(name, template string) error {
		re, err := regexp.Compile(Expand(template, e))
		if err != nil {
			return fmt.Errorf("%s pattern: %w", name, err)
		}
		tiers = append(tiers, tier{name: name, re: re})
		return nil
	}

	if e.Class != "" || e.Params != "" {
		if err := add("overload", c.opts.Patterns.Overload); err != nil {
			return nil, err
		}
	}
	if err := add("plain", c.opts.Patterns.Plain); err != nil {
		return nil, err
	}
	if hasAnyPrefix(e.Member, c.opts.IteratorPrefixes) {
		if err := add("iterator", c.opts.Patterns.Iterator); err != nil {
			return nil, err
		}
	}
	return tiers, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// VerifySource checks every entry of src, in file order.
func VerifySource(src specfile.Source, c *Checker) ([]model.MatchResult, error) {
	entries, err := src.Entries()
	if err != nil {
		return nil, err
	}
	results := make([]model.MatchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, c.Check(e))
	}
	return results, nil
}
