// Package snapshot defines BaseSnapshot, the canonical perception of a
// page at one instant (spec §3, §4.4). The compiler that builds one
// from extractor output is extract.Compile.
package snapshot

// Kind enumerates the closed set of semantic element kinds spec §3
// defines.
type Kind string

const (
	KindLink       Kind = "link"
	KindButton     Kind = "button"
	KindInput      Kind = "input"
	KindTextarea   Kind = "textarea"
	KindSelect     Kind = "select"
	KindCombobox   Kind = "combobox"
	KindCheckbox   Kind = "checkbox"
	KindRadio      Kind = "radio"
	KindSwitch     Kind = "switch"
	KindSlider     Kind = "slider"
	KindTab        Kind = "tab"
	KindMenuItem   Kind = "menuitem"
	KindHeading    Kind = "heading"
	KindParagraph  Kind = "paragraph"
	KindList       Kind = "list"
	KindListItem   Kind = "listitem"
	KindImage      Kind = "image"
	KindMedia      Kind = "media"
	KindTable      Kind = "table"
	KindForm       Kind = "form"
	KindDialog     Kind = "dialog"
	KindNavigation Kind = "navigation"
	KindSection    Kind = "section"
	KindGeneric    Kind = "generic"
)

// InteractiveKinds is the closed set of kinds meta.interactive_count
// counts (spec §3 invariant: "interactive_count equals the count of
// nodes whose kind is in the interactive set").
var InteractiveKinds = map[Kind]bool{
	KindLink: true, KindButton: true, KindInput: true, KindTextarea: true,
	KindSelect: true, KindCombobox: true, KindCheckbox: true, KindRadio: true,
	KindSwitch: true, KindSlider: true, KindTab: true, KindMenuItem: true,
}

// Region is the closed set of landmark-level page zones (spec §3).
type Region string

const (
	RegionHeader      Region = "header"
	RegionNav         Region = "nav"
	RegionMain        Region = "main"
	RegionAside       Region = "aside"
	RegionFooter      Region = "footer"
	RegionDialog      Region = "dialog"
	RegionSearch      Region = "search"
	RegionForm        Region = "form"
	RegionContentInfo Region = "contentinfo"
	RegionUnknown     Region = "unknown"
)

// Where locates a node within the page's landmark structure.
type Where struct {
	Region        Region
	GroupID       string
	GroupPath     []string
	HeadingContext string
}

// BBox is a bounding box in viewport coordinates.
type BBox struct {
	X, Y, W, H float64
}

// Layout captures bounding box and CSS presentation facts.
type Layout struct {
	BBox        BBox
	Display     string
	Positioning string
	Flow        string
	ScreenZone  string
}

// State is populated for interactive kinds.
type State struct {
	Visible  bool
	Enabled  bool
	Checked  *bool
	Expanded *bool
	Selected *bool
	Focused  *bool
	Required *bool
	Invalid  *bool
	ReadOnly *bool
}

// Locators is the ordered set of selectors a node can be targeted by.
type Locators struct {
	Primary    string
	Alternates []string
	FramePath  []string
	ShadowPath []string

	// XPath is populated only when ShadowPath is non-empty: a CSS
	// selector alone cannot cross a shadow boundary, so shadow-nested
	// nodes carry an absolute XPath as a last-resort locator.
	XPath string
}

// Attributes are the handful of HTML attributes the core surfaces
// verbatim (spec §3 explicitly disclaims "preserving attributes
// verbatim" in general — this is a closed allowlist, not a mirror of
// the DOM).
type Attributes struct {
	InputType      string
	Placeholder    string
	Value          string
	Href           string
	Alt            string
	Src            string
	HeadingLevel   int
	Action         string
	Method         string
	Autocomplete   string
	Role           string
	AriaModal      string
	TestID         string
}

// ReadableNode is one semantic element in a snapshot (spec §3).
type ReadableNode struct {
	NodeID        string // "n<n>", stable within this snapshot
	BackendNodeID int64
	FrameID       string
	LoaderID      string

	Kind  Kind
	Label string
	Where Where

	Layout Layout
	State  *State // nil for non-interactive kinds

	Find *Locators

	Attributes *Attributes

	EID string // assigned after compilation, see identity package
}

// Meta carries capture diagnostics.
type Meta struct {
	Partial           bool
	Warnings          []string
	NodeCount         int
	InteractiveCount  int
	CaptureDurationMs int64
}

// Viewport is the captured viewport size.
type Viewport struct {
	W, H int
}

// Scroll is the document's scroll offset at capture time. It is
// deliberately excluded from EID computation (spec §4.5) but is a
// page-wide atom the diff engine tracks (spec §4.9).
type Scroll struct {
	X, Y int
}

// BaseSnapshot is the canonical perception of a page at one instant
// (spec §3). Once published it is never mutated — every consumer
// (diff, factpack, render) treats it as a read-only value.
type BaseSnapshot struct {
	SnapshotID string
	URL        string
	Title      string
	Language   string
	CapturedAt string // ISO-8601
	Viewport   Viewport
	Scroll     Scroll

	// SpinnerCount and ToastCount are cheap role-based counts over
	// every DOM node the extractor walked, not just the ones that
	// made it into Nodes — a loading spinner or toast notification
	// rarely classifies as one of the closed Kind values, but its
	// presence is still a page-wide atom the diff engine tracks
	// (spec §4.9, §4.6 "Atoms").
	SpinnerCount int
	ToastCount   int

	Nodes []ReadableNode
	Meta  Meta
}

// NodeByID returns the node with the given node_id, if present.
func (s *BaseSnapshot) NodeByID(nodeID string) (*ReadableNode, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].NodeID == nodeID {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// NodeByEID returns the node with the given EID, if present.
func (s *BaseSnapshot) NodeByEID(eid string) (*ReadableNode, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].EID == eid {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}
