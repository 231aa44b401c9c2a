package extract

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pageperceive/core/frame"
	"github.com/pageperceive/core/identity"
	"github.com/pageperceive/core/idgen"
	"github.com/pageperceive/core/snapshot"
)

// Compile runs the DOM, accessibility, and layout extractors against
// the current page and fuses their output into a snapshot.BaseSnapshot
// (spec §4.4). It lives in this package rather than snapshot itself so
// the per-node resolvers (label/region/group/locator) can share the
// raw extractor types without an import cycle back into snapshot.
func Compile(ctx context.Context, ec *Context, tracker *frame.Tracker) (*snapshot.BaseSnapshot, error) {
	start := time.Now()

	meta, err := FetchPageMeta(ctx, ec)
	if err != nil {
		ec.Logger.Debug("extract: page meta fetch failed", "error", err)
		meta = &PageMeta{}
	}

	dr, err := DOM(ctx, ec)
	if err != nil {
		return nil, fmt.Errorf("extract: compile: %w", err)
	}

	axr, err := AX(ctx, ec, tracker.MainFrameID(), dr.SubFrameIDs)
	if err != nil {
		return nil, fmt.Errorf("extract: compile: %w", err)
	}

	order := documentOrder(dr)

	var warnings []string
	resolver := identity.NewResolver()
	nodes := make([]snapshot.ReadableNode, 0, len(order))
	interactiveCount := 0
	partial := false

	for _, backendID := range order {
		if ec.Options.MaxNodes > 0 && len(nodes) >= ec.Options.MaxNodes {
			partial = true
			warnings = append(warnings, fmt.Sprintf("node budget (%d) reached; remaining candidates dropped", ec.Options.MaxNodes))
			break
		}

		domNode := dr.Nodes[backendID]
		axNode := axr.Nodes[backendID]
		kind := ClassifyKind(axNode, domNode)
		if kind == snapshot.KindGeneric {
			continue
		}

		label, _ := ResolveLabel(axNode, domNode, dr)
		frameID := frameForNode(domNode, dr, tracker.MainFrameID())
		region := ResolveRegion(domNode, dr)
		group := Group(domNode, dr, func(headingBackendID int64) string {
			if h, ok := dr.Nodes[headingBackendID]; ok {
				return innerText(h, dr, maxInnerTextSample)
			}
			return ""
		})

		layout, err := Layout(ctx, ec, backendID)
		if err != nil {
			ec.Logger.Debug("extract: layout failed for node", "backend_node_id", backendID, "error", err)
			layout = &RawLayout{}
		}

		var state *snapshot.State
		if snapshot.InteractiveKinds[kind] {
			state = DeriveState(axNode, layout)
			interactiveCount++
		}

		ref := tracker.CreateRef(backendID, frameID)
		var loaderID string
		if ref != nil {
			loaderID = ref.LoaderID
		}

		eidInput := identity.Input{
			NormalizedName: identity.NormalizeName(label),
			Kind:           string(kind),
			Role:           explicitRole(axNode, domNode),
			Region:         string(region),
			GroupPath:      group.GroupPath,
			Href:           domNode.Attributes["href"],
		}
		if region == snapshot.RegionDialog {
			eidInput.Layer = "dialog"
		}
		eid := resolver.Assign(identity.Compute(eidInput))

		node := snapshot.ReadableNode{
			NodeID:        "n" + strconv.Itoa(len(nodes)+1),
			BackendNodeID: backendID,
			FrameID:       frameID,
			LoaderID:      loaderID,
			Kind:          kind,
			Label:         label,
			Where: snapshot.Where{
				Region:         region,
				GroupID:        group.GroupID,
				GroupPath:      group.GroupPath,
				HeadingContext: group.HeadingContext,
			},
			Layout: snapshot.Layout{
				BBox:        layout.BBox,
				Display:     layout.Display,
				Positioning: layout.Positioning,
				ScreenZone:  ScreenZone(layout.BBox, meta.ViewportH),
			},
			State:      state,
			Find:       BuildLocators(domNode, dr, kind, label),
			Attributes: buildAttributes(domNode, kind),
			EID:        eid,
		}
		nodes = append(nodes, node)
	}

	return &snapshot.BaseSnapshot{
		SnapshotID:   idgen.New(),
		URL:          meta.URL,
		Title:        meta.Title,
		Language:     meta.Language,
		CapturedAt:   time.Now().UTC().Format(time.RFC3339),
		Viewport:     snapshot.Viewport{W: meta.ViewportW, H: meta.ViewportH},
		Scroll:       snapshot.Scroll{X: meta.ScrollX, Y: meta.ScrollY},
		SpinnerCount: countByRole(dr, spinnerRoles),
		ToastCount:   countByRole(dr, toastRoles),
		Nodes:        nodes,
		Meta: snapshot.Meta{
			Partial:           partial,
			Warnings:          warnings,
			NodeCount:         len(nodes),
			InteractiveCount:  interactiveCount,
			CaptureDurationMs: time.Since(start).Milliseconds(),
		},
	}, nil
}

// documentOrder returns every discovered backend node id in the order
// walkDOM visited it, which is document order by construction (spec
// §3's "nodes appear in document order" invariant).
func documentOrder(dr *DOMResult) []int64 {
	order := make([]int64, 0, len(dr.Nodes))
	var visit func(id int64)
	visited := make(map[int64]bool, len(dr.Nodes))
	visit = func(id int64) {
		if id == 0 || visited[id] {
			return
		}
		n, ok := dr.Nodes[id]
		if !ok {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, childID := range n.ChildNodeIDs {
			visit(childID)
		}
	}
	visit(dr.RootID)
	// Nodes unreachable from RootID (defensive: a malformed tree) still
	// get a deterministic, if arbitrary, place at the end.
	rest := make([]int64, 0, len(dr.Nodes))
	for id := range dr.Nodes {
		rest = append(rest, id)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, id := range rest {
		visit(id)
	}
	return order
}

func frameForNode(dom *RawDomNode, dr *DOMResult, mainFrameID string) string {
	for n := dom; n != nil; {
		if n.FrameID != "" {
			return n.FrameID
		}
		parent, ok := dr.Nodes[n.ParentID]
		if !ok {
			break
		}
		n = parent
	}
	return mainFrameID
}

func explicitRole(ax *RawAxNode, dom *RawDomNode) string {
	if ax != nil && ax.Role != "" {
		return ax.Role
	}
	if dom != nil {
		return dom.Attributes["role"]
	}
	return ""
}

// spinnerRoles and toastRoles are the ARIA roles the compiler counts
// as page-wide atoms (spec §4.9): neither classifies into the closed
// Kind set, so they never appear in Nodes and have to be counted
// directly off the raw DOM walk instead.
var spinnerRoles = map[string]bool{"progressbar": true}
var toastRoles = map[string]bool{"status": true, "alert": true}

func countByRole(dr *DOMResult, roles map[string]bool) int {
	count := 0
	for _, n := range dr.Nodes {
		if roles[n.Attributes["role"]] {
			count++
		}
	}
	return count
}

func buildAttributes(dom *RawDomNode, kind snapshot.Kind) *snapshot.Attributes {
	a := &snapshot.Attributes{
		Href:         dom.Attributes["href"],
		Alt:          dom.Attributes["alt"],
		Src:          dom.Attributes["src"],
		Action:       dom.Attributes["action"],
		Method:       dom.Attributes["method"],
		Autocomplete: dom.Attributes["autocomplete"],
		Role:         dom.Attributes["role"],
		AriaModal:    dom.Attributes["aria-modal"],
	}
	if dom.NodeName == "INPUT" {
		a.InputType = dom.Attributes["type"]
		a.Placeholder = dom.Attributes["placeholder"]
		a.Value = dom.Attributes["value"]
	}
	if dom.NodeName == "TEXTAREA" {
		a.Placeholder = dom.Attributes["placeholder"]
	}
	if kind == snapshot.KindHeading {
		if n := strings.TrimPrefix(dom.NodeName, "H"); len(n) == 1 {
			if lvl, err := strconv.Atoi(n); err == nil {
				a.HeadingLevel = lvl
			}
		}
	}
	for _, attr := range testIDAttrs {
		if v := dom.Attributes[attr]; v != "" {
			a.TestID = v
			break
		}
	}
	return a
}
