package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/docsync/internal/model"
)

func init() {
	Languages["python"] = &Language{
		Name:             "python",
		Extensions:       []string{".py", ".pyi"},
		lang:             python.GetLanguage(),
		FindMethodClass:  pythonFindMethodClass,
		ExtractSignature: pythonExtractSignature,
		ExtractDocstring: pythonExtractDocstring,
	}
}

func pythonFindMethodClass(funcNode *sitter.Node, source []byte) string {
	classNode := pythonFindEnclosingClass(funcNode)
	if classNode == nil {
		return ""
	}
	if name := classNode.ChildByFieldName("name"); name != nil {
		return NodeText(name, source)
	}
	return ""
}

func pythonFindEnclosingClass(funcNode *sitter.Node) *sitter.Node {
	parent := funcNode.Parent()
	if parent == nil {
		return nil
	}

	// Decorated: func -> decorated_definition -> block -> class_definition
	if parent.Type() == "decorated_definition" {
		parent = parent.Parent()
		if parent == nil {
			return nil
		}
	}

	// Direct: func -> block -> class_definition
	if parent.Type() == "block" && parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return parent.Parent()
	}
	return nil
}

func pythonExtractSignature(node *sitter.Node, source []byte) model.SignatureEntry {
	var sig model.SignatureEntry
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			name, typ := pythonParam(params.NamedChild(i), source)
			if name != "" {
				sig.Add(name, typ)
			}
		}
	}
	if rt := node.ChildByFieldName("return_type"); rt != nil {
		sig.ReturnType = CollapseWhitespace(NodeText(rt, source))
	}
	return sig
}

// pythonParam returns the name (with any * or ** prefix) and annotation of a
// single parameter node.
func pythonParam(p *sitter.Node, source []byte) (name, typ string) {
	switch p.Type() {
	case "identifier":
		return NodeText(p, source), ""
	case "list_splat_pattern", "dictionary_splat_pattern":
		return CollapseWhitespace(NodeText(p, source)), ""
	case "keyword_separator":
		return "*", ""
	case "positional_separator":
		return "/", ""
	case "default_parameter":
		if n := p.ChildByFieldName("name"); n != nil {
			return NodeText(n, source), ""
		}
	case "typed_parameter", "typed_default_parameter":
		if t := p.ChildByFieldName("type"); t != nil {
			typ = CollapseWhitespace(NodeText(t, source))
		}
		if n := p.ChildByFieldName("name"); n != nil {
			return NodeText(n, source), typ
		}
		// typed_parameter keeps its name as the first named child.
		if p.NamedChildCount() > 0 {
			return CollapseWhitespace(NodeText(p.NamedChild(0), source)), typ
		}
	}
	return "", ""
}

func pythonExtractDocstring(node *sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return unquote(NodeText(str, source))
}

// unquote strips a Python string literal's prefix and quotes.
func unquote(raw string) string {
	raw = strings.TrimLeft(raw, "rRuUbBfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return raw[len(q) : len(raw)-len(q)]
		}
	}
	return raw
}
