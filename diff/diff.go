// Package diff compares two snapshots and reports what changed in the
// vocabulary an agent cares about: which nodes appeared or
// disappeared (keyed by EID, over every node kind and visibility, not
// only interactive ones), which visible state flipped, whether the
// page navigated, and whether a dialog layer (reported as modal;
// drawers and popovers are not detected) took over the viewport
// (spec §4.7). Compute is pure and
// deterministic — it never touches the network or the clock — and
// never panics on malformed input; missing fields just fail to
// contribute a change.
package diff

import "github.com/pageperceive/core/snapshot"

// StateChange is one state field's abbreviated-key before/after pair.
// Keys match spec §4.7's compact vocabulary: vis, ena, chk, sel, exp,
// foc, req, inv, rdo, val, label.
type StateChange struct {
	Before any
	After  any
}

// NodeChange is one EID whose state or label changed between two
// snapshots, without having been added or removed.
type NodeChange struct {
	EID     string
	NodeID  string
	Label   string
	Changes map[string]StateChange
}

// NavigationKind classifies how the document changed between two
// snapshots.
type NavigationKind string

const (
	NavigationNone NavigationKind = ""
	NavigationSoft NavigationKind = "soft" // same document, URL/history changed (SPA route)
	NavigationHard NavigationKind = "hard" // new document (full reload/navigate)
)

// DocChange reports a navigation between two captures.
type DocChange struct {
	Kind   NavigationKind
	FromURL string
	ToURL   string
}

// Layer is the closed set of visual-layer kinds the layer-change
// detector recognizes (spec §4.7).
type Layer string

const (
	LayerModal   Layer = "modal"
	LayerDrawer  Layer = "drawer"
	LayerPopover Layer = "popover"
	LayerPortal  Layer = "portal"
	LayerInline  Layer = "inline"
)

// LayerChange reports a visual layer appearing or disappearing
// between two captures.
type LayerChange struct {
	Added   []Layer
	Removed []Layer
}

// AtomDiff is the handful of page-wide counters spec §4.7 tracks
// independent of any single node: spinners, toasts, validation
// errors, and whether the focused field or scroll position moved.
type AtomDiff struct {
	ViewportChanged            bool
	ScrollChanged              bool
	SpinnerCountDelta          int
	FocusedFieldChanged        bool
	ValidationErrorCountDelta  int
	ToastCountDelta            int
}

// Diff is the full delta between two snapshots.
type Diff struct {
	Added       []snapshot.ReadableNode
	Removed     []snapshot.ReadableNode
	Changed     []NodeChange
	DocChange   *DocChange
	LayerChange *LayerChange
	Atoms       AtomDiff
}

// Compute diffs curr against prev, keyed by EID — the only identity
// the diff engine trusts across captures (spec §4.5, §4.7).
func Compute(prev, curr *snapshot.BaseSnapshot) Diff {
	var d Diff

	prevByEID := indexByEID(prev)
	currByEID := indexByEID(curr)

	// Added/removed/changed walk curr/prev in their own document order
	// rather than map iteration order, so Compute's output is
	// reproducible across runs.
	for _, n := range curr.Nodes {
		if _, existed := prevByEID[n.EID]; !existed {
			d.Added = append(d.Added, n)
		}
	}
	for _, n := range prev.Nodes {
		if _, stillThere := currByEID[n.EID]; !stillThere {
			d.Removed = append(d.Removed, n)
		}
	}
	for _, currNode := range curr.Nodes {
		prevNode, existed := prevByEID[currNode.EID]
		if !existed {
			continue
		}
		if nc, changed := diffNode(prevNode, currNode); changed {
			d.Changed = append(d.Changed, nc)
		}
	}

	if prev.URL != curr.URL {
		kind := NavigationSoft
		if prev.Title != curr.Title || curr.Meta.NodeCount == 0 {
			kind = NavigationHard
		}
		d.DocChange = &DocChange{Kind: kind, FromURL: prev.URL, ToURL: curr.URL}
	}

	d.LayerChange = computeLayerChange(prev, curr)
	d.Atoms = computeAtomDiff(prev, curr)

	return d
}

func indexByEID(snap *snapshot.BaseSnapshot) map[string]snapshot.ReadableNode {
	m := make(map[string]snapshot.ReadableNode, len(snap.Nodes))
	for _, n := range snap.Nodes {
		m[n.EID] = n
	}
	return m
}

func diffNode(prev, curr snapshot.ReadableNode) (NodeChange, bool) {
	changes := make(map[string]StateChange)

	if prev.Label != curr.Label {
		changes["label"] = StateChange{Before: prev.Label, After: curr.Label}
	}

	diffTriState(changes, "vis", boolPtr(prev.State, func(s *snapshot.State) *bool { return &s.Visible }), boolPtr(curr.State, func(s *snapshot.State) *bool { return &s.Visible }))
	diffTriState(changes, "ena", boolPtr(prev.State, func(s *snapshot.State) *bool { return &s.Enabled }), boolPtr(curr.State, func(s *snapshot.State) *bool { return &s.Enabled }))
	if prev.State != nil && curr.State != nil {
		diffTriState(changes, "chk", prev.State.Checked, curr.State.Checked)
		diffTriState(changes, "exp", prev.State.Expanded, curr.State.Expanded)
		diffTriState(changes, "sel", prev.State.Selected, curr.State.Selected)
		diffTriState(changes, "foc", prev.State.Focused, curr.State.Focused)
		diffTriState(changes, "req", prev.State.Required, curr.State.Required)
		diffTriState(changes, "inv", prev.State.Invalid, curr.State.Invalid)
		diffTriState(changes, "rdo", prev.State.ReadOnly, curr.State.ReadOnly)
	}

	prevVal, currVal := "", ""
	if prev.Attributes != nil {
		prevVal = prev.Attributes.Value
	}
	if curr.Attributes != nil {
		currVal = curr.Attributes.Value
	}
	if prevVal != currVal {
		changes["val"] = StateChange{Before: prevVal, After: currVal}
	}

	if len(changes) == 0 {
		return NodeChange{}, false
	}
	return NodeChange{EID: curr.EID, NodeID: curr.NodeID, Label: curr.Label, Changes: changes}, true
}

func boolPtr(st *snapshot.State, get func(*snapshot.State) *bool) *bool {
	if st == nil {
		return nil
	}
	return get(st)
}

func diffTriState(changes map[string]StateChange, key string, prev, curr *bool) {
	switch {
	case prev == nil && curr == nil:
		return
	case prev == nil || curr == nil:
		changes[key] = StateChange{Before: prev, After: curr}
	case *prev != *curr:
		changes[key] = StateChange{Before: *prev, After: *curr}
	}
}

// computeLayerChange compares the set of dialog-region layers present
// in each snapshot. Anything beyond "is a dialog region present" is a
// refinement left for a future revision — the Open Question this
// resolves (layer kind beyond modal) defaults every detected overlay
// to LayerModal until portal/drawer/popover heuristics are grounded in
// real markup samples.
func computeLayerChange(prev, curr *snapshot.BaseSnapshot) *LayerChange {
	prevHas := hasDialogLayer(prev)
	currHas := hasDialogLayer(curr)
	if prevHas == currHas {
		return nil
	}
	if currHas {
		return &LayerChange{Added: []Layer{LayerModal}}
	}
	return &LayerChange{Removed: []Layer{LayerModal}}
}

func hasDialogLayer(snap *snapshot.BaseSnapshot) bool {
	for _, n := range snap.Nodes {
		if n.Where.Region == snapshot.RegionDialog {
			return true
		}
	}
	return false
}

func computeAtomDiff(prev, curr *snapshot.BaseSnapshot) AtomDiff {
	var a AtomDiff
	a.ViewportChanged = prev.Viewport != curr.Viewport
	a.ScrollChanged = prev.Scroll != curr.Scroll

	prevFocused, currFocused := focusedEID(prev), focusedEID(curr)
	a.FocusedFieldChanged = prevFocused != currFocused

	prevErr := countInvalid(prev)
	currErr := countInvalid(curr)
	a.ValidationErrorCountDelta = currErr - prevErr

	a.SpinnerCountDelta = curr.SpinnerCount - prev.SpinnerCount
	a.ToastCountDelta = curr.ToastCount - prev.ToastCount

	return a
}

func focusedEID(snap *snapshot.BaseSnapshot) string {
	for _, n := range snap.Nodes {
		if n.State != nil && n.State.Focused != nil && *n.State.Focused {
			return n.EID
		}
	}
	return ""
}

func countInvalid(snap *snapshot.BaseSnapshot) int {
	count := 0
	for _, n := range snap.Nodes {
		if n.State != nil && n.State.Invalid != nil && *n.State.Invalid {
			count++
		}
	}
	return count
}
