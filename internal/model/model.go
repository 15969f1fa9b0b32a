// Package model defines core data structures for docsync.
package model

import (
	"fmt"
	"strings"
)

// Param is one declared or documented parameter. An empty Type means untyped.
type Param struct {
	Name string
	Type string
}

// SignatureEntry is the parameter list and return type of one function as
// declared by its signature.
type SignatureEntry struct {
	Parameters []Param
	ReturnType string
}

// Lookup returns the parameter with the given name.
func (s SignatureEntry) Lookup(name string) (Param, bool) {
	return lookup(s.Parameters, name)
}

// Add appends a parameter, keeping declaration order.
func (s *SignatureEntry) Add(name, typ string) {
	s.Parameters = append(s.Parameters, Param{Name: name, Type: typ})
}

// DocFieldEntry has the same shape as SignatureEntry but is extracted from the
// narrative documentation body.
type DocFieldEntry struct {
	Parameters []Param
	ReturnType string
}

// Lookup returns the documented parameter with the given name.
func (d DocFieldEntry) Lookup(name string) (Param, bool) {
	return lookup(d.Parameters, name)
}

// Add appends a documented parameter. A later entry for the same name replaces
// an earlier one's type if the earlier one was untyped.
func (d *DocFieldEntry) Add(name, typ string) {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			if d.Parameters[i].Type == "" {
				d.Parameters[i].Type = typ
			}
			return
		}
	}
	d.Parameters = append(d.Parameters, Param{Name: name, Type: typ})
}

// Empty reports whether no field information was found.
func (d DocFieldEntry) Empty() bool {
	return len(d.Parameters) == 0 && d.ReturnType == ""
}

func lookup(params []Param, name string) (Param, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// SpecEntry is one required native member drawn from a specification file.
type SpecEntry struct {
	Class  string // Empty for free functions
	Member string
	Params string // Normalized, comma-joined parameter types
	Source Location
}

// IsRvalue reports whether the entry takes an rvalue-reference parameter.
func (e SpecEntry) IsRvalue() bool {
	return strings.Contains(e.Params, "&&")
}

// Qualified returns Class::Member, or Member for free functions.
func (e SpecEntry) Qualified() string {
	if e.Class == "" {
		return e.Member
	}
	return e.Class + "::" + e.Member
}

// String renders the entry as it is labelled in console output.
func (e SpecEntry) String() string {
	return e.Qualified() + "(" + e.Params + ")"
}

// Location is a 1-based position in a file.
type Location struct {
	File string
	Line int
}

// String returns file:line, or file alone if no line is known.
func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0
}

// MatchStatus is the ranked confidence of a source-presence search.
type MatchStatus string

const (
	Found         MatchStatus = "found"
	PossiblyFound MatchStatus = "possibly-found"
	NotFound      MatchStatus = "not-found"
	Skipped       MatchStatus = "skipped"
	SearchError   MatchStatus = "search-error"
	// Omitted entries are never reported at all.
	Omitted MatchStatus = "omitted"
)

// MatchResult is the outcome of verifying one SpecEntry.
type MatchResult struct {
	Entry     SpecEntry
	Status    MatchStatus
	Locations []Location
	Err       error
}

// Unresolved reports whether the result needs attention from a human.
func (r MatchResult) Unresolved() bool {
	return r.Status == NotFound || r.Status == SearchError
}

// WarningCategory classifies a warning.
type WarningCategory string

const (
	UndocumentedParameter WarningCategory = "undocumented-parameter"
	MissingParameter      WarningCategory = "missing-parameter"
	MismatchedTypehints   WarningCategory = "mismatched-typehints"
	MismatchedReturnTypes WarningCategory = "mismatched-return-types"
	MultipleFieldLists    WarningCategory = "multiple-field-lists"
	UnexpectedDocElement  WarningCategory = "unexpected-doc-element"
	MisindentedField      WarningCategory = "misindented-field"
)

// Warning is a single reported problem.
type Warning struct {
	Category WarningCategory
	Subject  string // Qualified function name, or the field tag for lint warnings
	Message  string
	Location Location
}

// Report accumulates everything a check pass produced.
type Report struct {
	Warnings []Warning
	Matches  []MatchResult
}

// Warn records warnings.
func (r *Report) Warn(ws ...Warning) {
	r.Warnings = append(r.Warnings, ws...)
}

// AddMatch records a verification result.
func (r *Report) AddMatch(m MatchResult) {
	r.Matches = append(r.Matches, m)
}

// Merge appends other's contents to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Matches = append(r.Matches, other.Matches...)
}

// Dirty reports whether any warning was recorded.
func (r *Report) Dirty() bool {
	return len(r.Warnings) > 0
}

// Unresolved reports whether any match was not found or could not be searched.
func (r *Report) Unresolved() bool {
	for _, m := range r.Matches {
		if m.Unresolved() {
			return true
		}
	}
	return false
}

// Counts tallies warnings by category and matches by status.
func (r *Report) Counts() (map[WarningCategory]int, map[MatchStatus]int) {
	wc := make(map[WarningCategory]int)
	for _, w := range r.Warnings {
		wc[w.Category]++
	}
	mc := make(map[MatchStatus]int)
	for _, m := range r.Matches {
		mc[m.Status]++
	}
	return wc, mc
}
