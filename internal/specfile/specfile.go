// Package specfile reads the per-class specifications that list which native
// members a binding must expose.
package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/docsync/internal/model"
)

// ErrInvalidArgument is returned for inputs no Source variant accepts.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError describes a path whose format is not recognized.
type InvalidArgumentError struct {
	Path   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Kind identifies a specification format.
type Kind string

const (
	KindYAML Kind = "yaml"
	KindRST  Kind = "rst"
)

// Source is a parsed specification file. The set of implementations is closed:
// *YAMLSource and *RSTSource.
type Source interface {
	Kind() Kind
	Path() string
	Entries() ([]model.SpecEntry, error)
	sealed()
}

// New selects the Source variant for path by its extension.
func New(path string, data []byte) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yml", ".yaml":
		return &YAMLSource{path: path, data: data}, nil
	case ".rst":
		return &RSTSource{path: path, data: data}, nil
	case "":
		return nil, &InvalidArgumentError{Path: path, Reason: "missing file extension"}
	default:
		return nil, &InvalidArgumentError{Path: path, Reason: fmt.Sprintf("unsupported specification format %q", ext)}
	}
}

// Open reads path and returns its Source.
func Open(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}
	return New(path, data)
}

// newEntry builds a SpecEntry from a "member(params)" descriptor.
func newEntry(class, desc string, loc model.Location) (model.SpecEntry, bool) {
	member, params := splitDescriptor(desc)
	if member == "" {
		return model.SpecEntry{}, false
	}
	return model.SpecEntry{
		Class:  class,
		Member: member,
		Params: Normalize(params),
		Source: loc,
	}, true
}
