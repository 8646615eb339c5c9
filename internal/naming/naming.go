// Package naming converts member names into type names.
package naming

import (
	"strings"
	"unicode"
)

// PascalCase turns a member name such as "billing_address" or "billing-address"
// into "BillingAddress". Existing inner capitals are kept ("homeURL" ->
// "HomeURL").
func PascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Valid reports whether name can be used as a member name: non-empty, no
// surrounding white space and no control characters.
func Valid(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
