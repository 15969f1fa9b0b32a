package specfile

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/docsync/internal/model"
)

const rootNamespace = "libsemigroups"

var (
	namespaceRe = regexp.MustCompile(`^\s*\.\.\s+cpp:namespace::\s+(\S+)`)
	crossRefRe  = regexp.MustCompile(":cpp:any:`([^`]+)`")
	titledRe    = regexp.MustCompile(`^.+?\s+<(.+)>$`)
)

// RSTSource is narrative text whose :cpp:any: cross-references name the native
// symbols it documents.
type RSTSource struct {
	path string
	data []byte
}

func (*RSTSource) sealed() {}

// Kind implements Source.
func (*RSTSource) Kind() Kind { return KindRST }

// Path implements Source.
func (s *RSTSource) Path() string { return s.path }

// Entries implements Source.
func (s *RSTSource) Entries() ([]model.SpecEntry, error) {
	var (
		entries   []model.SpecEntry
		namespace string
		lineNo    int
	)
	scanner := bufio.NewScanner(bytes.NewReader(s.data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if m := namespaceRe.FindStringSubmatch(line); m != nil {
			namespace = trimRootNamespace(m[1])
			continue
		}
		for _, m := range crossRefRe.FindAllStringSubmatch(line, -1) {
			target := m[1]
			if t := titledRe.FindStringSubmatch(target); t != nil {
				target = t[1]
			}
			target = strings.TrimPrefix(strings.TrimSpace(target), "~")

			name, params := splitDescriptor(target)
			class, member := splitQualified(trimRootNamespace(name))
			class = joinScope(namespace, class)
			if member == "" {
				continue
			}
			entries = append(entries, model.SpecEntry{
				Class:  class,
				Member: member,
				Params: Normalize(params),
				Source: model.Location{File: s.path, Line: lineNo},
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading rst: %w", s.path, err)
	}
	return entries, nil
}

func trimRootNamespace(name string) string {
	name = strings.TrimPrefix(name, "::")
	if name == rootNamespace {
		return ""
	}
	return strings.TrimPrefix(name, rootNamespace+"::")
}

// splitQualified splits at the last "::" that is not inside template brackets.
func splitQualified(name string) (scope, member string) {
	depth := 0
	cut := -1
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ':':
			if depth == 0 && i+1 < len(name) && name[i+1] == ':' {
				cut = i
				i++
			}
		}
	}
	if cut < 0 {
		return "", strings.TrimSpace(name)
	}
	return strings.TrimSpace(name[:cut]), strings.TrimSpace(name[cut+2:])
}

func joinScope(outer, inner string) string {
	switch {
	case outer == "":
		return inner
	case inner == "":
		return outer
	default:
		return outer + "::" + inner
	}
}
