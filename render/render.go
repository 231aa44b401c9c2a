// Package render turns a snapshot and its FactPack into the XML
// surface an agent reads every turn, fit to a token budget (spec
// §4.8, §6).
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pageperceive/core/factpack"
	"github.com/pageperceive/core/snapshot"
)

// section is one named block of the rendered page, in the fixed
// output order this package always uses: page, dialogs, forms,
// actions, then an optional state block.
type section struct {
	name        string
	content     string
	truncated   string // swapped in for content when content alone won't fit; empty means drop the section entirely
	canTruncate bool
	// truncationPriority orders which truncatable section gives way
	// first: lower truncates first (spec §4.10).
	truncationPriority int
}

// Render builds the XML surface for snap/fp at the given tier. The
// section order is always page → dialogs → forms → actions →
// (state, on the detailed tier or when includeState is set),
// blank-line separated (spec §4.8). A
// dialogs section is never eligible for truncation while the detected
// dialog is blocking (spec §4.10 "never truncate a <dialogs> section
// that is blocking").
func Render(snap *snapshot.BaseSnapshot, fp factpack.FactPack, tier Tier, includeState bool) string {
	sections := []section{
		{name: "page", content: renderPage(snap, fp), canTruncate: false},
		{
			name: "dialogs", content: renderDialog(fp.Dialog), truncated: renderDialogTruncated(fp.Dialog),
			canTruncate: !fp.Dialog.HasBlockingDialog, truncationPriority: 3,
		},
		{
			name: "forms", content: renderForms(fp.Forms), truncated: renderFormsTruncated(fp.Forms),
			canTruncate: true, truncationPriority: 1,
		},
		{
			name: "actions", content: renderActions(fp.Actions), truncated: renderActionsTruncated(fp.Actions),
			canTruncate: true, truncationPriority: 2,
		},
	}
	if includeState || tier == TierDetailed {
		sections = append(sections, section{name: "state", content: renderState(snap), canTruncate: true, truncationPriority: 0})
	}

	return applyBudget(sections, budgetFor(tier))
}

// applyBudget shrinks sections, lowest truncationPriority first, by
// swapping in each section's truncated form (or dropping it if no
// truncated form exists) until the rendering fits budget.Max. If it
// still doesn't fit, it falls back to a hard cut at the last newline
// before the byte limit, so the truncated output never splits an XML
// element mid-tag (spec §4.10).
func applyBudget(sections []section, budget budgetRange) string {
	joined := joinSections(sections)
	if estimateTokens(joined) <= budget.Target {
		return joined
	}

	truncatable := make([]int, 0, len(sections))
	for i, s := range sections {
		if s.canTruncate {
			truncatable = append(truncatable, i)
		}
	}
	sort.Slice(truncatable, func(i, j int) bool {
		return sections[truncatable[i]].truncationPriority < sections[truncatable[j]].truncationPriority
	})

	for _, idx := range truncatable {
		if estimateTokens(joined) <= budget.Max {
			break
		}
		if sections[idx].truncated != "" {
			sections[idx].content = sections[idx].truncated
		} else {
			sections[idx].content = ""
		}
		joined = joinSections(sections)
	}

	if estimateTokens(joined) <= budget.Max {
		return joined
	}
	return hardTruncate(joined, budget.Max*charsPerToken)
}

// hardTruncate cuts s at the last newline before limit so the result
// never ends mid-element, falling back to a raw byte cut when no
// newline appears within the limit at all.
func hardTruncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if cut := strings.LastIndex(s[:limit], "\n"); cut > 0 {
		return s[:cut] + truncationMarker
	}
	return s[:limit] + truncationMarker
}

func joinSections(sections []section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s.content) == "" {
			continue
		}
		parts = append(parts, s.content)
	}
	return strings.Join(parts, "\n\n")
}

func renderPage(snap *snapshot.BaseSnapshot, fp factpack.FactPack) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<page url=%q title=%q type=%q confidence=\"%.2f\">\n", xmlAttr(snap.URL), xmlAttr(snap.Title), fp.PageClass.Type, fp.PageClass.Confidence)
	if snap.Meta.Partial {
		b.WriteString("  <warning>snapshot truncated at node budget</warning>\n")
	}
	b.WriteString("</page>")
	return b.String()
}

func renderDialog(d factpack.DialogFact) string {
	if !d.Present {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<dialogs>\n  <dialog type=%q title=%q confidence=\"%.2f\">\n", d.Type, xmlEscape(d.Title), d.Confidence)
	for _, a := range d.Actions {
		fmt.Fprintf(&b, "    <action ref=%q category=%q>%s</action>\n", a.EID, a.Category, xmlEscape(a.Label))
	}
	b.WriteString("  </dialog>\n</dialogs>")
	return b.String()
}

// renderDialogTruncated drops a dialog's action list, keeping only
// its identity as a self-closing element.
func renderDialogTruncated(d factpack.DialogFact) string {
	if !d.Present {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<dialogs>\n  <dialog type=%q title=%q confidence=\"%.2f\"/>\n</dialogs>", d.Type, xmlAttr(d.Title), d.Confidence)
	return b.String()
}

func renderForms(forms []factpack.FormFact) string {
	if len(forms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<forms>\n")
	for _, f := range forms {
		status := "ok"
		if f.HasErrors {
			status = "has_errors"
		}
		fmt.Fprintf(&b, "  <form status=%q submit=%q>\n", status, xmlEscape(f.SubmitLabel))
		for _, field := range f.Fields {
			fmt.Fprintf(&b, "    <field ref=%q kind=%q purpose=%q required=\"%t\" invalid=\"%t\">%s</field>\n",
				field.EID, field.Kind, field.Purpose, field.Required, field.Invalid, xmlEscape(field.Label))
		}
		b.WriteString("  </form>\n")
	}
	b.WriteString("</forms>")
	return b.String()
}

// renderFormsTruncated collapses each form's field list to a count,
// keeping the fact that errors or a required field exist without the
// per-field detail (spec §4.10).
func renderFormsTruncated(forms []factpack.FormFact) string {
	if len(forms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<forms>\n")
	for _, f := range forms {
		required := 0
		for _, field := range f.Fields {
			if field.Required {
				required++
			}
		}
		status := "ok"
		if f.HasErrors {
			status = "has_errors"
		}
		fmt.Fprintf(&b, "  <form status=%q submit=%q>%d fields (%d required)</form>\n",
			status, xmlAttr(f.SubmitLabel), len(f.Fields), required)
	}
	b.WriteString("</forms>")
	return b.String()
}

func renderActions(actions []factpack.ActionFact) string {
	if len(actions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<actions>\n")
	for _, a := range actions {
		primary := ""
		if a.IsPrimary {
			primary = " primary=\"true\""
		}
		fmt.Fprintf(&b, "  <action ref=%q kind=%q category=%q score=\"%.2f\"%s>%s</action>\n",
			a.EID, a.Kind, a.Category, a.Score, primary, xmlEscape(a.Label))
	}
	b.WriteString("</actions>")
	return b.String()
}

// renderActionsTruncated caps the action list to the five
// highest-priority entries (spec §4.10).
func renderActionsTruncated(actions []factpack.ActionFact) string {
	if len(actions) == 0 {
		return ""
	}
	capped := actions
	if len(capped) > 5 {
		capped = capped[:5]
	}
	return renderActions(capped)
}

func renderState(snap *snapshot.BaseSnapshot) string {
	var b strings.Builder
	b.WriteString("<state>\n")
	for _, n := range snap.Nodes {
		if n.State == nil {
			continue
		}
		fmt.Fprintf(&b, "  <node ref=%q kind=%q visible=\"%t\" enabled=\"%t\">%s</node>\n",
			n.EID, n.Kind, n.State.Visible, n.State.Enabled, xmlEscape(n.Label))
	}
	b.WriteString("</state>")
	return b.String()
}

// xmlEscape escapes the five XML-significant characters for text
// content.
func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}

// xmlAttr escapes s for use inside a double-quoted XML attribute.
func xmlAttr(s string) string {
	return xmlEscape(s)
}
