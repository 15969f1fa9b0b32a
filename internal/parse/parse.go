// Package parse extracts documented functions from source files using tree-sitter.
package parse

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docsync/internal/lang"
	"github.com/phobologic/docsync/internal/model"
)

// Function is one function or method definition with its declared signature
// and the fields its docstring documents.
type Function struct {
	Name      string // Class.method for methods
	Line      int
	Signature model.SignatureEntry
	Fields    model.DocFieldEntry
	// HasFields is false when the docstring contains no field markers at all.
	HasFields bool
}

// ExtractFunctions parses a source file and returns its function definitions.
// The parser and query must be created for l.
func ExtractFunctions(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte) []Function {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var funcs []Function
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, defNode *sitter.Node
		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "name":
				nameNode = c.Node
			case "definition.function":
				defNode = c.Node
			}
		}
		if nameNode == nil || defNode == nil {
			continue
		}

		name := lang.NodeText(nameNode, source)
		if l.FindMethodClass != nil {
			if class := l.FindMethodClass(defNode, source); class != "" {
				name = class + "." + name
			}
		}

		fn := Function{
			Name: name,
			Line: int(nameNode.StartPoint().Row) + 1,
		}
		if l.ExtractSignature != nil {
			fn.Signature = l.ExtractSignature(defNode, source)
		}
		if l.ExtractDocstring != nil {
			fn.Fields, fn.HasFields = DocFields(l.ExtractDocstring(defNode, source))
		}
		funcs = append(funcs, fn)
	}
	return funcs
}

var (
	paramFieldRe  = regexp.MustCompile(`^:param\s+(?:(.+?)\s+)?(\*{0,2}\w+)\s*:`)
	typeFieldRe   = regexp.MustCompile(`^:type\s+(\*{0,2}\w+)\s*:\s*(.*)$`)
	rtypeFieldRe  = regexp.MustCompile(`^:rtype\s*:\s*(.*)$`)
	returnFieldRe = regexp.MustCompile(`^:returns?\s*:`)
)

// DocFields reads reST field markers from a docstring. The second result
// reports whether any field marker was present.
func DocFields(docstring string) (model.DocFieldEntry, bool) {
	var (
		doc   model.DocFieldEntry
		found bool
	)
	for _, line := range strings.Split(docstring, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, ":") {
			continue
		}
		switch {
		case paramFieldRe.MatchString(line):
			m := paramFieldRe.FindStringSubmatch(line)
			doc.Add(m[2], lang.CollapseWhitespace(m[1]))
			found = true
		case typeFieldRe.MatchString(line):
			m := typeFieldRe.FindStringSubmatch(line)
			doc.Add(m[1], lang.CollapseWhitespace(m[2]))
			found = true
		case rtypeFieldRe.MatchString(line):
			doc.ReturnType = lang.CollapseWhitespace(rtypeFieldRe.FindStringSubmatch(line)[1])
			found = true
		case returnFieldRe.MatchString(line):
			found = true
		}
	}
	return doc, found
}
