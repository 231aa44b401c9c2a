package state

import (
	"fmt"
	"strings"

	"github.com/pageperceive/core/factpack"
	"github.com/pageperceive/core/render"
	"github.com/pageperceive/core/snapshot"
)

// BuildResult wraps a rendered snapshot in the <result> envelope an
// action's response carries (spec §6).
func BuildResult(snap *snapshot.BaseSnapshot, facts factpack.FactPack, tier render.Tier) string {
	body := render.Render(snap, facts, tier, false)
	var b strings.Builder
	b.WriteString("<result>\n")
	b.WriteString(indent(body, "  "))
	b.WriteString("\n</result>")
	return b.String()
}

// BuildError wraps a failed action in the <error> envelope. snap/facts
// are the state the manager rolled back to (spec §7's
// retry-on-error): the caller sees the page exactly as it was before
// the failed attempt, not a half-applied mutation.
func BuildError(kind, message string, snap *snapshot.BaseSnapshot, facts factpack.FactPack, tier render.Tier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<error kind=%q>\n  %s\n", kind, escapeErrorText(message))
	if snap != nil {
		b.WriteString(indent(render.Render(snap, facts, tier, false), "  "))
		b.WriteByte('\n')
	}
	b.WriteString("</error>")
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func escapeErrorText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
