package specfile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/docsync/internal/model"
)

// FreeFunctionsKey is the top-level YAML key whose members have no owning class.
const FreeFunctionsKey = "functions"

// skippedSections are section-name substrings that are never checked against
// the binding source.
var skippedSections = []string{"types", "Constructors"}

// YAMLSource is a per-class specification of the form
//
//	ClassName:
//	  - Section name:
//	    - member(param types)
//
// A class mapped to null has no members to check.
type YAMLSource struct {
	path string
	data []byte
}

func (*YAMLSource) sealed() {}

// Kind implements Source.
func (*YAMLSource) Kind() Kind { return KindYAML }

// Path implements Source.
func (s *YAMLSource) Path() string { return s.path }

// Entries implements Source.
func (s *YAMLSource) Entries() ([]model.SpecEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(s.data, &doc); err != nil {
		return nil, fmt.Errorf("%s: parsing yaml: %w", s.path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: top level must be a mapping of class names", s.path)
	}

	var entries []model.SpecEntry
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		class := key.Value
		if class == FreeFunctionsKey {
			class = ""
		}
		if isNull(value) || value.Kind != yaml.SequenceNode {
			continue
		}
		for _, section := range value.Content {
			if section.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(section.Content); j += 2 {
				name, members := section.Content[j], section.Content[j+1]
				if isSkippedSection(name.Value) || members.Kind != yaml.SequenceNode {
					continue
				}
				for _, m := range members.Content {
					if m.Kind != yaml.ScalarNode || m.ShortTag() != "!!str" {
						continue
					}
					loc := model.Location{File: s.path, Line: m.Line}
					if e, ok := newEntry(class, m.Value, loc); ok {
						entries = append(entries, e)
					}
				}
			}
		}
	}
	return entries, nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func isSkippedSection(name string) bool {
	for _, s := range skippedSections {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}
