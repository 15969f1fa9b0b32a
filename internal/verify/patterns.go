package verify

import (
	"regexp"
	"strings"

	"github.com/phobologic/docsync/internal/model"
)

// Patterns are the regular-expression templates for the three search tiers.
// Each template may use {scope}, {member} and {params}, which are replaced by
// expressions built from the entry being checked.
type Patterns struct {
	Overload string
	Plain    string
	Iterator string
}

// DefaultPatterns match pybind11-style registrations.
var DefaultPatterns = Patterns{
	Overload: `overload_cast<\s*{params}\s*>\s*\(\s*&{scope}{member}\b` +
		`|\(\s*{scope}\*\s*\)\s*\(\s*{params}\s*\)[^;]*?&{scope}{member}\b`,
	Plain:    `&{scope}{member}\s*[,)]`,
	Iterator: `make_iterator\s*\([^;]*?\b{member}\b`,
}

// withDefaults fills empty templates from DefaultPatterns.
func (p Patterns) withDefaults() Patterns {
	if p.Overload == "" {
		p.Overload = DefaultPatterns.Overload
	}
	if p.Plain == "" {
		p.Plain = DefaultPatterns.Plain
	}
	if p.Iterator == "" {
		p.Iterator = DefaultPatterns.Iterator
	}
	return p
}

// Expand substitutes the entry's fragments into template.
func Expand(template string, e model.SpecEntry) string {
	r := strings.NewReplacer(
		"{scope}", scopeExpr(e.Class),
		"{member}", regexp.QuoteMeta(e.Member),
		"{params}", paramsExpr(e.Params),
	)
	return r.Replace(template)
}

// scopeExpr matches an optionally namespace-qualified class with optional
// template arguments, followed by "::". Free functions match any namespace prefix.
func scopeExpr(class string) string {
	const ns = `(?:\w+::)*`
	if class == "" {
		return ns
	}
	base := class
	if i := strings.IndexByte(base, '<'); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSpace(base)
	return ns + regexp.QuoteMeta(base) + `(?:\s*<[^()]*?>)?::`
}

// paramsExpr turns a normalized parameter string into an expression that
// tolerates any whitespace where the normalized form has a space or comma.
func paramsExpr(params string) string {
	var b strings.Builder
	for _, r := range params {
		switch r {
		case ' ':
			b.WriteString(`\s*`)
		case ',':
			b.WriteString(`\s*,\s*`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

// bareNameExpr matches member as a whole word. A side where member starts or
// ends with a non-word character, as in operator==, gets no boundary.
func bareNameExpr(member string) string {
	expr := regexp.QuoteMeta(member)
	if member == "" {
		return expr
	}
	if isWordByte(member[0]) {
		expr = `\b` + expr
	}
	if isWordByte(member[len(member)-1]) {
		expr += `\b`
	}
	return expr
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
