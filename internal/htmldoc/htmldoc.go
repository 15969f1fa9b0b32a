// Package htmldoc extracts function signatures and documented field lists from
// generated Sphinx HTML.
package htmldoc

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/phobologic/docsync/internal/model"
)

// describedKinds are the object classes of function-like description blocks.
var describedKinds = []string{"function", "method", "classmethod", "staticmethod"}

// Description is one documented callable: its signature and its narrative body.
// Overloads share a body, so several Descriptions may point at the same one.
type Description struct {
	Name string
	Sig  *html.Node // dt.sig
	Body *html.Node // dd; nil if the block has none
}

// ParsePage parses an HTML page.
func ParsePage(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// Descriptions returns every function, method, classmethod and staticmethod
// description in the page, in document order.
func Descriptions(root *html.Node) []Description {
	blocks := findAll(root, func(n *html.Node) bool {
		if !isElement(n, atom.Dl) || !hasClass(n, "py") {
			return false
		}
		for _, k := range describedKinds {
			if hasClass(n, k) {
				return true
			}
		}
		return false
	})

	var out []Description
	for _, dl := range blocks {
		kids := children(dl)
		for i, dt := range kids {
			if !isElement(dt, atom.Dt) || !hasClass(dt, "sig") {
				continue
			}
			var body *html.Node
			for _, after := range kids[i+1:] {
				if isElement(after, atom.Dd) {
					body = after
					break
				}
			}
			out = append(out, Description{Name: qualifiedName(dt), Sig: dt, Body: body})
		}
	}
	return out
}

func qualifiedName(dt *html.Node) string {
	if id := attr(dt, "id"); id != "" {
		return id
	}
	var parts []string
	for _, c := range children(dt) {
		if hasClass(c, "sig-prename") || hasClass(c, "sig-name") {
			parts = append(parts, text(c))
		}
	}
	return strings.Join(parts, "")
}

// ExtractSignature reads the parameter names, type hints and return type from
// the rendered signature of d.
//
// Each parameter descriptor carries its name and optional type hint as "n"
// spans. A descriptor with any other number of them cannot be read and is
// reported, and the remaining parameters are still extracted.
func ExtractSignature(d Description) (model.SignatureEntry, []model.Warning) {
	var (
		sig      model.SignatureEntry
		warnings []model.Warning
	)
	params := findAll(d.Sig, func(n *html.Node) bool {
		return isElement(n, atom.Em) && hasClass(n, "sig-param")
	})
	for i, p := range params {
		var names []*html.Node
		prefix := ""
		for _, c := range children(p) {
			switch {
			case hasClass(c, "n"):
				names = append(names, c)
			case hasClass(c, "o") && len(names) == 0:
				prefix += text(c)
			}
		}
		switch len(names) {
		case 1:
			sig.Add(prefix+text(names[0]), "")
		case 2:
			sig.Add(prefix+text(names[0]), text(names[1]))
		case 0:
			if op := strings.TrimSpace(prefix); op == "*" || op == "/" {
				sig.Add(op, "")
				continue
			}
			fallthrough
		default:
			warnings = append(warnings, model.Warning{
				Category: model.UnexpectedDocElement,
				Subject:  d.Name,
				Message:  fmt.Sprintf("parameter %d of %s has %d name elements, expected 1 or 2: %q", i+1, d.Name, len(names), text(p)),
			})
		}
	}

	if rt := findFirst(d.Sig, func(n *html.Node) bool { return hasClass(n, "sig-return-typehint") }); rt != nil {
		sig.ReturnType = text(rt)
	}
	return sig, warnings
}

var (
	paramHeadingRe  = regexp.MustCompile(`^(Parameters|Keyword Arguments)$`)
	returnHeadingRe = regexp.MustCompile(`^Return type$`)
	paramLineRe     = regexp.MustCompile(`^(\S+?)(?:\s+\((.*)\))?$`)
	descSeparators  = []string{" – ", " — ", " -- ", " - "}
)

// ExtractFields reads the documented parameters and return type from the
// field list in the body of d. A body with no field list yields an empty
// entry. A field list directly followed by a second one is reported, and only
// the first is read.
func ExtractFields(d Description) (model.DocFieldEntry, []model.Warning) {
	var (
		doc      model.DocFieldEntry
		warnings []model.Warning
	)
	if d.Body == nil {
		return doc, nil
	}

	var list *html.Node
	for _, c := range children(d.Body) {
		if isElement(c, atom.Dl) && hasClass(c, "field-list") {
			list = c
			break
		}
	}
	if list == nil {
		return doc, nil
	}
	if next := nextElement(list); isElement(next, atom.Dl) && hasClass(next, "field-list") {
		warnings = append(warnings, model.Warning{
			Category: model.MultipleFieldLists,
			Subject:  d.Name,
			Message:  fmt.Sprintf("%s has more than one field list; is there descriptive text between parameters?", d.Name),
		})
	}

	kids := children(list)
	for i, dt := range kids {
		if !isElement(dt, atom.Dt) || i+1 >= len(kids) || !isElement(kids[i+1], atom.Dd) {
			continue
		}
		heading := strings.TrimSpace(strings.TrimSuffix(text(dt), ":"))
		body := kids[i+1]
		switch {
		case paramHeadingRe.MatchString(heading):
			for _, line := range fieldLines(body) {
				if name, typ, ok := parseParamLine(line); ok {
					doc.Add(name, typ)
				}
			}
		case returnHeadingRe.MatchString(heading):
			doc.ReturnType = text(body)
		}
	}
	return doc, warnings
}

// fieldLines returns one entry per list item. A body without a list holds a
// single parameter, one entry per paragraph.
func fieldLines(dd *html.Node) []string {
	items := findAll(dd, func(n *html.Node) bool { return isElement(n, atom.Li) })
	var lines []string
	if len(items) > 0 {
		for _, li := range items {
			lines = append(lines, text(li))
		}
		return lines
	}
	for _, c := range children(dd) {
		if !isElement(c, atom.P) {
			continue
		}
		if l := text(c); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		if l := text(dd); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// parseParamLine parses "name (type) – description".
func parseParamLine(line string) (name, typ string, ok bool) {
	head := line
	for _, sep := range descSeparators {
		if i := strings.Index(head, sep); i >= 0 {
			head = head[:i]
		}
	}
	m := paramLineRe.FindStringSubmatch(strings.TrimSpace(head))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}
