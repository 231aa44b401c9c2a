package observe

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var excludedTextTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "svg": true,
}

// stripPolicy removes every tag, keeping only text — observations
// never need markup, only what a user would read (spec §5).
var stripPolicy = bluemonday.StrictPolicy()

// SanitizeText reduces a raw HTML fragment to its visible text,
// dropping script/style/noscript/template/svg subtrees entirely
// (rather than leaking their contents as "text") and collapsing
// whitespace. The accumulator does not call it: the injected script
// reports no HTML and Observation carries no text.
func SanitizeText(rawHTML string) string {
	visible := extractVisibleText(rawHTML)
	clean := stripPolicy.Sanitize(visible)
	return strings.Join(strings.Fields(clean), " ")
}

// extractVisibleText walks rawHTML with a tolerant HTML tokenizer,
// skipping the subtree of any excluded tag so its text never reaches
// the caller.
func extractVisibleText(rawHTML string) string {
	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && excludedTextTags[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return b.String()
}
