package extract

import "github.com/pageperceive/core/snapshot"

// landmarkRoleRegions maps ARIA/implicit landmark roles to the closed
// Region set (spec §3).
var landmarkRoleRegions = map[string]snapshot.Region{
	"banner":        snapshot.RegionHeader,
	"navigation":    snapshot.RegionNav,
	"main":          snapshot.RegionMain,
	"complementary": snapshot.RegionAside,
	"contentinfo":   snapshot.RegionFooter,
	"dialog":        snapshot.RegionDialog,
	"alertdialog":   snapshot.RegionDialog,
	"search":        snapshot.RegionSearch,
	"form":          snapshot.RegionForm,
}

// landmarkTagRegions is the tag-name fallback used when a node carries
// no explicit (or inherited) landmark role — the HTML5 sectioning
// elements' implicit ARIA roles.
var landmarkTagRegions = map[string]snapshot.Region{
	"HEADER":  snapshot.RegionHeader,
	"NAV":     snapshot.RegionNav,
	"MAIN":    snapshot.RegionMain,
	"ASIDE":   snapshot.RegionAside,
	"FOOTER":  snapshot.RegionFooter,
	"DIALOG":  snapshot.RegionDialog,
	"FORM":    snapshot.RegionForm,
}

// ResolveRegion classifies a node into the landmark-level region it
// lives in by walking up the DOM ancestor chain: an explicit landmark
// role (own or inherited) wins, then a sectioning tag name, with
// dialog/aria-modal elements special-cased to RegionDialog regardless
// of where they appear in the tree (spec §3, §4.3).
func ResolveRegion(dom *RawDomNode, dr *DOMResult) snapshot.Region {
	for n, id := dom, dom.BackendNodeID; id != 0; {
		if n.Attributes["aria-modal"] == "true" {
			return snapshot.RegionDialog
		}
		if role := n.Attributes["role"]; role != "" {
			if region, ok := landmarkRoleRegions[role]; ok {
				return region
			}
		}
		if region, ok := landmarkTagRegions[n.NodeName]; ok {
			return region
		}

		parent, ok := dr.Nodes[n.ParentID]
		if !ok || n.ParentID == 0 {
			break
		}
		n = parent
		id = parent.BackendNodeID
	}
	return snapshot.RegionUnknown
}
