package extract

import "github.com/pageperceive/core/snapshot"

// axBoolProperty reads a tri-valued CDP accessibility property
// ("true" | "false" | "mixed" | "") into a *bool. "mixed" (a
// tri-state checkbox) is reported as true: present-and-not-false is
// the closest *bool can represent, callers needing the distinction
// read Properties directly off RawAxNode.
func axBoolProperty(props map[string]string, name string) *bool {
	v, ok := props[name]
	if !ok || v == "" {
		return nil
	}
	b := v != "false"
	return &b
}

// DeriveState builds a snapshot.State for an interactive kind from its
// accessibility node's properties plus the layout pass's visibility
// fact (spec §3, §4.3). Enabled defaults to true and is cleared by the
// accessibility "disabled" property. Non-interactive kinds get a nil
// State — the compiler only calls this for kinds in
// snapshot.InteractiveKinds.
func DeriveState(ax *RawAxNode, layout *RawLayout) *snapshot.State {
	st := &snapshot.State{}
	if layout != nil {
		st.Visible = layout.Visible
	}
	st.Enabled = true
	if ax == nil {
		return st
	}

	if d, ok := ax.Properties["disabled"]; ok && d == "true" {
		st.Enabled = false
	}
	st.Checked = axBoolProperty(ax.Properties, "checked")
	st.Expanded = axBoolProperty(ax.Properties, "expanded")
	st.Selected = axBoolProperty(ax.Properties, "selected")
	st.Focused = axBoolProperty(ax.Properties, "focused")
	st.Required = axBoolProperty(ax.Properties, "required")
	st.Invalid = axBoolProperty(ax.Properties, "invalid")
	st.ReadOnly = axBoolProperty(ax.Properties, "readonly")

	return st
}
