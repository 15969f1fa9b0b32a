// Package lint checks and reformats doc-comment blocks embedded in binding source.
package lint

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/phobologic/docsync/internal/model"
)

// BlockMarkers delimit a doc-comment block.
type BlockMarkers struct {
	Open  string
	Close string
}

// DefaultMarkers are pybind11 raw-string docstring delimiters.
var DefaultMarkers = BlockMarkers{Open: `R"pbdoc(`, Close: `)pbdoc"`}

func (m BlockMarkers) withDefaults() BlockMarkers {
	if m.Open == "" {
		m.Open = DefaultMarkers.Open
	}
	if m.Close == "" {
		m.Close = DefaultMarkers.Close
	}
	return m
}

var fieldRe = regexp.MustCompile(`^\s+:(param|returns?|rtype|type)\b`)

// Lint reports every field marker that is indented inside a doc-comment
// block. Field markers must start in column 0 of the block. Lines holding a
// block delimiter are not inspected. path is used only for warning locations.
func Lint(path string, r io.Reader, markers BlockMarkers) ([]model.Warning, error) {
	markers = markers.withDefaults()

	var (
		warnings []model.Warning
		inside   bool
		lineNo   int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		open := strings.LastIndex(line, markers.Open)
		closing := strings.LastIndex(line, markers.Close)
		if open >= 0 || closing >= 0 {
			inside = open > closing
			continue
		}
		if !inside {
			continue
		}
		if m := fieldRe.FindStringSubmatch(line); m != nil {
			warnings = append(warnings, model.Warning{
				Category: model.MisindentedField,
				Subject:  m[1],
				Message:  fmt.Sprintf(":%s: field marker must not be indented", m[1]),
				Location: model.Location{File: path, Line: lineNo},
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return warnings, nil
}
