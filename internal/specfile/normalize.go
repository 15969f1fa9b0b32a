package specfile

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	commaRe      = regexp.MustCompile(`\s*,\s*`)
)

// Normalize canonicalizes a parameter-type string so that spellings differing
// only in incidental whitespace compare equal. It is idempotent.
//
// Whitespace runs collapse to one space and whitespace around commas is removed.
// A space follows every '<' and precedes every '>' that is not already next to
// whitespace or a comma, and a lone '&' (not part of "&&") is given a space on
// each side under the same rule.
func Normalize(params string) string {
	s := whitespaceRe.ReplaceAllString(params, " ")
	s = commaRe.ReplaceAllString(s, ",")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	in := []byte(s)
	var b strings.Builder
	b.Grow(len(in) + 8)

	last := func() byte {
		str := b.String()
		if len(str) == 0 {
			return 0
		}
		return str[len(str)-1]
	}
	wantsSpace := func(c byte) bool {
		return c != 0 && c != ' ' && c != ','
	}

	for i := 0; i < len(in); i++ {
		c := in[i]
		var next byte
		if i+1 < len(in) {
			next = in[i+1]
		}
		switch c {
		case '<':
			b.WriteByte(c)
			if wantsSpace(next) {
				b.WriteByte(' ')
			}
		case '>':
			if wantsSpace(last()) {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
		case '&':
			var prev byte
			if i > 0 {
				prev = in[i-1]
			}
			if prev == '&' || next == '&' {
				b.WriteByte(c)
				continue
			}
			if wantsSpace(last()) {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
			if wantsSpace(next) {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitDescriptor splits "name(params) const" into name and raw params using the
// first '(' and the last ')'. Anything after the closing parenthesis is dropped.
// The call operator keeps its own parentheses: "operator()(size_t)" splits
// into "operator()" and "size_t".
func splitDescriptor(desc string) (member, params string) {
	skip := 0
	if m := callOperatorRe.FindStringIndex(desc); m != nil {
		skip = m[1]
	}
	open := strings.IndexByte(desc[skip:], '(')
	if open < 0 {
		return callOperatorName(strings.TrimSpace(desc)), ""
	}
	open += skip
	member = callOperatorName(strings.TrimSpace(desc[:open]))
	rest := desc[open+1:]
	if end := strings.LastIndexByte(rest, ')'); end >= 0 {
		rest = rest[:end]
	}
	return member, rest
}

var callOperatorRe = regexp.MustCompile(`^\s*operator\s*\(\s*\)`)

// callOperatorName spells the call operator without inner whitespace.
func callOperatorName(member string) string {
	if callOperatorRe.MatchString(member) {
		return "operator()"
	}
	return member
}
