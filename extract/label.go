package extract

import "strings"

// maxInnerTextSample bounds how much raw text the label resolver will
// walk out of a node's children before falling back further — this is
// a scan limit, independent of identity.MaxNameLength's grapheme cap
// applied once a label is chosen.
const maxInnerTextSample = 300

// LabelSource records which rung of the priority chain produced a
// node's label, for capture diagnostics (spec §4.3).
type LabelSource string

const (
	LabelSourceAX          LabelSource = "ax_name"
	LabelSourceAriaLabel   LabelSource = "aria_label"
	LabelSourceAssociated  LabelSource = "associated_label"
	LabelSourcePlaceholder LabelSource = "placeholder"
	LabelSourceInnerText   LabelSource = "inner_text"
	LabelSourceNone        LabelSource = "none"
)

// ResolveLabel walks the priority chain spec §4.3 defines for a
// node's accessible label: the accessibility tree's computed name,
// then aria-label, then an associated <label>/<legend>, then
// placeholder text, then a bounded scan of inner text, and finally
// empty. The first non-empty rung wins.
func ResolveLabel(ax *RawAxNode, dom *RawDomNode, dr *DOMResult) (string, LabelSource) {
	if ax != nil && strings.TrimSpace(ax.Name) != "" {
		return ax.Name, LabelSourceAX
	}
	if dom != nil {
		if v := strings.TrimSpace(dom.Attributes["aria-label"]); v != "" {
			return v, LabelSourceAriaLabel
		}
	}
	if dom != nil && dr != nil {
		if v := associatedLabelText(dom, dr); v != "" {
			return v, LabelSourceAssociated
		}
	}
	if dom != nil {
		if v := strings.TrimSpace(dom.Attributes["placeholder"]); v != "" {
			return v, LabelSourcePlaceholder
		}
	}
	if dom != nil && dr != nil {
		if v := innerText(dom, dr, maxInnerTextSample); v != "" {
			return v, LabelSourceInnerText
		}
	}
	return "", LabelSourceNone
}

// associatedLabelText finds a <label for="id"> pointing at dom, a
// wrapping <label>, or an enclosing <legend> for a <fieldset> member —
// the handful of label-association patterns HTML defines.
func associatedLabelText(dom *RawDomNode, dr *DOMResult) string {
	if id := dom.Attributes["id"]; id != "" {
		for _, n := range dr.Nodes {
			if n.NodeName == "LABEL" && n.Attributes["for"] == id {
				if t := innerText(n, dr, maxInnerTextSample); t != "" {
					return t
				}
			}
		}
	}

	for parentID := dom.ParentID; parentID != 0; {
		parent, ok := dr.Nodes[parentID]
		if !ok {
			break
		}
		if parent.NodeName == "LABEL" {
			if t := innerText(parent, dr, maxInnerTextSample); t != "" {
				return t
			}
		}
		if parent.NodeName == "FIELDSET" {
			for _, childID := range parent.ChildNodeIDs {
				if child, ok := dr.Nodes[childID]; ok && child.NodeName == "LEGEND" {
					if t := innerText(child, dr, maxInnerTextSample); t != "" {
						return t
					}
				}
			}
		}
		parentID = parent.ParentID
	}
	return ""
}

// innerText concatenates this node's descendant text nodes in
// document order, stopping once limit raw bytes have been collected.
// It is a deliberately shallow text walk: script/style/noscript
// subtrees are skipped the same way the observation hygiene pass
// excludes them (spec §5).
const (
	nodeTypeText    = 3
	nodeTypeElement = 1
)

var textExcludedTags = map[string]bool{
	"SCRIPT": true, "STYLE": true, "NOSCRIPT": true, "TEMPLATE": true, "SVG": true,
}

func innerText(n *RawDomNode, dr *DOMResult, limit int) string {
	var b strings.Builder
	walkInnerText(n, dr, &b, limit)
	return strings.TrimSpace(collapseSpaces(b.String()))
}

func walkInnerText(n *RawDomNode, dr *DOMResult, b *strings.Builder, limit int) {
	if n == nil || b.Len() >= limit {
		return
	}
	if n.NodeType == nodeTypeText {
		b.WriteString(n.NodeValue)
		b.WriteByte(' ')
		return
	}
	if n.NodeType == nodeTypeElement && textExcludedTags[n.NodeName] {
		return
	}
	for _, childID := range n.ChildNodeIDs {
		if b.Len() >= limit {
			return
		}
		if child, ok := dr.Nodes[childID]; ok {
			walkInnerText(child, dr, b, limit)
		}
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
