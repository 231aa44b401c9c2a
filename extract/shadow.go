package extract

import (
	"fmt"
	"strings"
)

// shadowPath walks node's ancestor chain and reports the host selector
// for every shadow root (open or closed) it crosses on the way to the document
// root, outermost first. A CSS selector alone can't pierce a shadow
// boundary, so callers combine Primary/Alternates with this path to
// reach a node nested inside one or more shadow trees.
func shadowPath(node *RawDomNode, dr *DOMResult) []string {
	var hosts []string
	cur := node
	for cur != nil && cur.ParentID != 0 {
		parent, ok := dr.Nodes[cur.ParentID]
		if !ok {
			break
		}
		if parent.ShadowRootType != "" {
			if host, ok := dr.Nodes[parent.ParentID]; ok {
				hosts = append(hosts, hostSelector(host))
			}
		}
		cur = parent
	}
	if len(hosts) == 0 {
		return nil
	}
	// Walked leaf-to-root; callers expect outermost-first.
	for i, j := 0, len(hosts)-1; i < j; i, j = i+1, j-1 {
		hosts[i], hosts[j] = hosts[j], hosts[i]
	}
	return hosts
}

func hostSelector(host *RawDomNode) string {
	if id := host.Attributes["id"]; id != "" && isSimpleIdent(id) {
		return "#" + cssIdent(id)
	}
	return strings.ToLower(host.NodeName)
}

// xpath computes an absolute XPath for node by walking its ancestor
// chain and indexing same-tag siblings, mirroring how a browser's
// devtools "copy XPath" resolves an element. It's offered as a last-
// resort locator for nodes a shadowPath reports as shadow-nested,
// where CSS selectors cannot reach across the boundary at all.
func xpath(node *RawDomNode, dr *DOMResult) string {
	var segments []string
	cur := node
	for cur != nil {
		tag := strings.ToLower(cur.NodeName)
		switch tag {
		case "html", "body", "head":
			segments = append(segments, "/"+tag)
			reverseStrings(segments)
			return strings.Join(segments, "")
		}

		parent, ok := dr.Nodes[cur.ParentID]
		if !ok {
			segments = append(segments, "/"+tag)
			break
		}

		idx, total := 1, 0
		for _, childID := range parent.ChildNodeIDs {
			sib, ok := dr.Nodes[childID]
			if !ok || strings.ToLower(sib.NodeName) != tag {
				continue
			}
			total++
			if sib.BackendNodeID == cur.BackendNodeID {
				idx = total
			}
		}
		if total > 1 {
			segments = append(segments, fmt.Sprintf("/%s[%d]", tag, idx))
		} else {
			segments = append(segments, "/"+tag)
		}
		cur = parent
	}
	reverseStrings(segments)
	return strings.Join(segments, "")
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
