// Package query implements the Query Engine: one structured filter
// shared by the factpack detectors and any external caller that wants
// to find nodes in a snapshot without re-deriving the filter logic
// (spec §4.6).
package query

import (
	"strings"

	"github.com/pageperceive/core/snapshot"
)

// StateFilter narrows results to nodes whose State matches every
// non-nil field given. A nil field is not filtered on.
type StateFilter struct {
	Visible  *bool
	Enabled  *bool
	Checked  *bool
	Expanded *bool
	Selected *bool
	Focused  *bool
	Required *bool
	Invalid  *bool
	ReadOnly *bool
}

// Query is the structured filter spec §4.6 defines. Every non-zero
// field narrows the result set further — filters AND together.
type Query struct {
	Kind          snapshot.Kind
	Region        snapshot.Region
	GroupID       string
	State         *StateFilter
	LabelContains string
	NearText      string
	Limit         int
}

// Run applies q to snap.Nodes in document order, the only performance
// contract this engine makes: a single linear pass, no indexing.
func Run(snap *snapshot.BaseSnapshot, q Query) []snapshot.ReadableNode {
	var out []snapshot.ReadableNode
	for _, n := range snap.Nodes {
		if !matches(n, q) {
			continue
		}
		out = append(out, n)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out
}

func matches(n snapshot.ReadableNode, q Query) bool {
	if q.Kind != "" && n.Kind != q.Kind {
		return false
	}
	if q.Region != "" && n.Where.Region != q.Region {
		return false
	}
	if q.GroupID != "" && n.Where.GroupID != q.GroupID {
		return false
	}
	if q.LabelContains != "" && !containsFold(n.Label, q.LabelContains) {
		return false
	}
	if q.NearText != "" && !nearText(n, q.NearText) {
		return false
	}
	if q.State != nil && !matchesState(n.State, q.State) {
		return false
	}
	return true
}

func nearText(n snapshot.ReadableNode, text string) bool {
	if containsFold(n.Where.HeadingContext, text) {
		return true
	}
	for _, seg := range n.Where.GroupPath {
		if containsFold(seg, text) {
			return true
		}
	}
	return false
}

func matchesState(st *snapshot.State, f *StateFilter) bool {
	if st == nil {
		// A state filter against a non-interactive node (nil State)
		// only matches if every requested field is itself unset.
		return f.Visible == nil && f.Enabled == nil && f.Checked == nil &&
			f.Expanded == nil && f.Selected == nil && f.Focused == nil &&
			f.Required == nil && f.Invalid == nil && f.ReadOnly == nil
	}
	if f.Visible != nil && *f.Visible != st.Visible {
		return false
	}
	if f.Enabled != nil && *f.Enabled != st.Enabled {
		return false
	}
	if !matchesTriState(f.Checked, st.Checked) {
		return false
	}
	if !matchesTriState(f.Expanded, st.Expanded) {
		return false
	}
	if !matchesTriState(f.Selected, st.Selected) {
		return false
	}
	if !matchesTriState(f.Focused, st.Focused) {
		return false
	}
	if !matchesTriState(f.Required, st.Required) {
		return false
	}
	if !matchesTriState(f.Invalid, st.Invalid) {
		return false
	}
	if !matchesTriState(f.ReadOnly, st.ReadOnly) {
		return false
	}
	return true
}

func matchesTriState(want, have *bool) bool {
	if want == nil {
		return true
	}
	if have == nil {
		return false
	}
	return *want == *have
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
