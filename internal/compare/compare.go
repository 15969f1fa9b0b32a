// Package compare diffs a declared signature against its documented fields.
package compare

import (
	"fmt"

	"github.com/phobologic/docsync/internal/model"
)

// ignoredParams are conventional names that are never expected in a field list.
var ignoredParams = map[string]struct{}{
	"self":     {},
	"cls":      {},
	"args":     {},
	"kwargs":   {},
	"*args":    {},
	"**kwargs": {},
	"*":        {},
	"/":        {},
}

// noneTypes all mean "returns nothing".
var noneTypes = map[string]struct{}{
	"":     {},
	"None": {},
	"none": {},
}

// Compare reports every disagreement between sig and doc for the function name.
// Warnings follow signature order, then documentation order, then the return type.
func Compare(name string, sig model.SignatureEntry, doc model.DocFieldEntry) []model.Warning {
	var warnings []model.Warning
	warn := func(cat model.WarningCategory, format string, args ...any) {
		warnings = append(warnings, model.Warning{
			Category: cat,
			Subject:  name,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for _, p := range sig.Parameters {
		if _, skip := ignoredParams[p.Name]; skip {
			continue
		}
		d, ok := doc.Lookup(p.Name)
		if !ok {
			warn(model.UndocumentedParameter, "%s: parameter %q is not documented", name, p.Name)
			continue
		}
		if d.Type != p.Type {
			warn(model.MismatchedTypehints, "%s: parameter %q has type %q in the signature but %q in the documentation", name, p.Name, p.Type, d.Type)
		}
	}

	for _, d := range doc.Parameters {
		if _, ok := sig.Lookup(d.Name); !ok {
			warn(model.MissingParameter, "%s: documented parameter %q is not in the signature", name, d.Name)
		}
	}

	if !sameReturnType(sig.ReturnType, doc.ReturnType) {
		warn(model.MismatchedReturnTypes, "%s: return type is %q in the signature but %q in the documentation", name, sig.ReturnType, doc.ReturnType)
	}
	return warnings
}

func sameReturnType(a, b string) bool {
	if a == b {
		return true
	}
	_, aNone := noneTypes[a]
	_, bNone := noneTypes[b]
	return aNone && bNone
}
