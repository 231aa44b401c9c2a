package extract

import (
	"strings"

	"github.com/pageperceive/core/identity"
)

// groupContainerTags are the elements treated as semantic grouping
// boundaries when building a node's group_path (spec §3's Where.group_path).
var groupContainerTags = map[string]bool{
	"SECTION": true, "ARTICLE": true, "NAV": true, "ASIDE": true,
	"HEADER": true, "FOOTER": true, "FORM": true, "FIELDSET": true,
	"DIALOG": true, "UL": true, "OL": true, "TABLE": true,
}

var headingTags = map[string]bool{
	"H1": true, "H2": true, "H3": true, "H4": true, "H5": true, "H6": true,
}

// GroupResolution is the grouping facts extract.Group derives for one
// node: its stable group id, the labeled container path leading to
// it, and the nearest heading text above it in reading order.
type GroupResolution struct {
	GroupID        string
	GroupPath      []string
	HeadingContext string
}

// Group walks dom's ancestor chain to find the nearest semantic
// container (section/article/nav/aside/header/footer/form/fieldset/
// dialog/list/table), deriving a group id stable across re-renders
// from the container's own identity inputs rather than its backend
// node id, and a group_path of human-readable labels for each
// container encountered on the way up. It also finds the closest
// preceding heading in document order, the node's heading_context
// (spec §3, §4.5).
func Group(dom *RawDomNode, dr *DOMResult, headingText func(backendID int64) string) GroupResolution {
	var path []string
	var groupID string

	n := dom
	for n.ParentID != 0 {
		parent, ok := dr.Nodes[n.ParentID]
		if !ok {
			break
		}
		if groupContainerTags[parent.NodeName] {
			label := containerLabel(parent, dr)
			if label != "" {
				path = append([]string{label}, path...)
			}
			if groupID == "" {
				groupID = containerGroupID(parent)
			}
		}
		n = parent
	}

	return GroupResolution{
		GroupID:        groupID,
		GroupPath:      path,
		HeadingContext: nearestHeading(dom, dr, headingText),
	}
}

// containerLabel finds a human-readable name for a grouping container:
// its aria-label, an associated heading (legend for fieldset, h1-h6 as
// first child), or empty if none is present.
func containerLabel(container *RawDomNode, dr *DOMResult) string {
	if v := strings.TrimSpace(container.Attributes["aria-label"]); v != "" {
		return v
	}
	for _, childID := range container.ChildNodeIDs {
		child, ok := dr.Nodes[childID]
		if !ok {
			continue
		}
		if child.NodeName == "LEGEND" || headingTags[child.NodeName] {
			if t := innerText(child, dr, maxInnerTextSample); t != "" {
				return t
			}
		}
	}
	return ""
}

// containerGroupID derives a stable id for a container from the same
// semantic inputs identity.Compute hashes an element from, so the id
// survives a re-render that assigns fresh backend node ids.
func containerGroupID(container *RawDomNode) string {
	name := identity.NormalizeName(container.Attributes["aria-label"])
	if name == "" {
		name = identity.NormalizeName(container.Attributes["id"])
	}
	in := identity.Input{
		NormalizedName: name,
		Kind:           "group",
		Role:           container.Attributes["role"],
		Region:         container.NodeName,
	}
	return identity.Compute(in)
}

// nearestHeading finds the closest heading element that precedes dom
// in document order and is not itself nested under a deeper container
// dom isn't part of — a shallow "last heading seen while walking
// ancestors' preceding siblings" search, not a full document scan.
func nearestHeading(dom *RawDomNode, dr *DOMResult, headingText func(backendID int64) string) string {
	n := dom
	for n.ParentID != 0 {
		parent, ok := dr.Nodes[n.ParentID]
		if !ok {
			break
		}
		var lastHeading int64
		for _, childID := range parent.ChildNodeIDs {
			if childID == n.BackendNodeID {
				break
			}
			if child, ok := dr.Nodes[childID]; ok && headingTags[child.NodeName] {
				lastHeading = child.BackendNodeID
			}
		}
		if lastHeading != 0 {
			if headingText != nil {
				return headingText(lastHeading)
			}
			if h, ok := dr.Nodes[lastHeading]; ok {
				return innerText(h, dr, maxInnerTextSample)
			}
		}
		n = parent
	}
	return ""
}
