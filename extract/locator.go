package extract

import (
	"fmt"
	"strings"

	"github.com/pageperceive/core/snapshot"
)

// testIDAttrs is the family of test-id-ish attributes checked, in
// order, before any other locator strategy (spec §3's Locators tier
// list: "the highest-fidelity selector available").
var testIDAttrs = []string{"data-testid", "data-test-id", "data-test", "data-cy"}

// BuildLocators produces the ordered selector set spec §3 defines for
// one node: a single highest-confidence Primary plus zero or more
// Alternates, in descending tier order. Every candidate except the
// role=<role>[name="..."] locator is a CSS selector string; attribute
// values and identifiers are escaped before being embedded.
func BuildLocators(dom *RawDomNode, dr *DOMResult, kind snapshot.Kind, label string) *snapshot.Locators {
	var candidates []string

	for _, attr := range testIDAttrs {
		if v := dom.Attributes[attr]; v != "" {
			candidates = append(candidates, fmt.Sprintf("[%s=%s]", attr, cssString(v)))
		}
	}

	if role := dom.Attributes["role"]; role != "" && label != "" {
		candidates = append(candidates, fmt.Sprintf("role=%s[name=%s]", role, cssString(label)))
	}

	if id := dom.Attributes["id"]; id != "" && isSimpleIdent(id) {
		candidates = append(candidates, "#"+cssIdent(id))
	}

	if v := dom.Attributes["aria-label"]; v != "" {
		candidates = append(candidates, fmt.Sprintf("[aria-label=%s]", cssString(v)))
	}

	if name := dom.Attributes["name"]; name != "" {
		candidates = append(candidates, fmt.Sprintf("%s[name=%s]", strings.ToLower(dom.NodeName), cssString(name)))
	}

	if classSel := tagClassSelector(dom); classSel != "" {
		candidates = append(candidates, classSel)
	}

	candidates = append(candidates, strings.ToLower(dom.NodeName))

	candidates = dedupStrings(candidates)

	loc := &snapshot.Locators{Primary: strings.ToLower(dom.NodeName)}
	if len(candidates) > 0 {
		loc.Primary = candidates[0]
		loc.Alternates = candidates[1:]
	}
	if dr != nil {
		loc.ShadowPath = shadowPath(dom, dr)
		if len(loc.ShadowPath) > 0 {
			loc.XPath = xpath(dom, dr)
		}
	}
	return loc
}

// tagClassSelector builds "tag.class1.class2" from a node's class
// list, skipping utility-noise classes that are unlikely to stay
// stable (anything containing a digit, a common sign of a generated
// hash class).
func tagClassSelector(dom *RawDomNode) string {
	classAttr := strings.TrimSpace(dom.Attributes["class"])
	if classAttr == "" {
		return ""
	}
	var stable []string
	for _, c := range strings.Fields(classAttr) {
		if isSimpleIdent(c) && !hasDigit(c) {
			stable = append(stable, cssIdent(c))
		}
	}
	if len(stable) == 0 {
		return ""
	}
	return strings.ToLower(dom.NodeName) + "." + strings.Join(stable, ".")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// isSimpleIdent reports whether s is a plain token (letters, digits,
// hyphen, underscore). Only such tokens are used as #id or .class
// selectors; an id or class with any other character is skipped, and
// cssIdent handles the leading-digit escapes a plain token can need.
func isSimpleIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// cssIdent escapes s for use as a CSS identifier (#id, .class): a
// leading digit or hyphen-digit needs a backslash per the CSSOM
// escaping rules browsers apply to CSS.escape.
func cssIdent(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= '0' && s[0] <= '9' {
		return `\3` + string(s[0]) + " " + s[1:]
	}
	if len(s) > 1 && s[0] == '-' && s[1] >= '0' && s[1] <= '9' {
		return `-\3` + string(s[1]) + " " + s[2:]
	}
	return s
}

// cssString quotes s as a CSS attribute-selector string value,
// escaping backslashes and double quotes.
func cssString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
