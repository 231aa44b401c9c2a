package factpack

import (
	"testing"

	"github.com/pageperceive/core/snapshot"
)

func visibleEnabled(kind snapshot.Kind, label string, region snapshot.Region) snapshot.ReadableNode {
	return snapshot.ReadableNode{
		NodeID: label, EID: "eid-" + label, Kind: kind, Label: label,
		Where:  snapshot.Where{Region: region},
		State:  &snapshot.State{Visible: true, Enabled: true},
	}
}

func TestSelectActions_ExcludesHiddenOrDisabled(t *testing.T) {
	hidden := visibleEnabled(snapshot.KindButton, "Hidden", snapshot.RegionMain)
	hidden.State.Visible = false
	disabled := visibleEnabled(snapshot.KindButton, "Disabled", snapshot.RegionMain)
	disabled.State.Enabled = false

	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{hidden, disabled, visibleEnabled(snapshot.KindButton, "Buy Now", snapshot.RegionMain)}}
	actions := SelectActions(snap, DialogFact{}, nil, 0, 0)

	for _, a := range actions {
		if a.Label == "Hidden" || a.Label == "Disabled" {
			t.Errorf("SelectActions: should exclude hidden/disabled node %q", a.Label)
		}
	}
}

func TestSelectActions_CTALabelScoresHigher(t *testing.T) {
	cta := visibleEnabled(snapshot.KindButton, "Buy Now", snapshot.RegionMain)
	plain := visibleEnabled(snapshot.KindButton, "More info", snapshot.RegionMain)
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{plain, cta}}

	actions := SelectActions(snap, DialogFact{}, nil, 0, 0)
	if len(actions) != 2 {
		t.Fatalf("SelectActions: got %d, want 2", len(actions))
	}
	if actions[0].Label != "Buy Now" {
		t.Errorf("top action: got %q, want %q (CTA wording should score higher)", actions[0].Label, "Buy Now")
	}
}

func TestSelectActions_TopScorerFlaggedPrimary(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{visibleEnabled(snapshot.KindButton, "Checkout", snapshot.RegionMain)}}
	actions := SelectActions(snap, DialogFact{}, nil, 0, 0)
	if len(actions) != 1 || !actions[0].IsPrimary {
		t.Errorf("SelectActions: expected single action flagged primary, got %+v", actions)
	}
}

func TestSelectActions_RespectsMaxActions(t *testing.T) {
	var nodes []snapshot.ReadableNode
	for i := 0; i < 20; i++ {
		nodes = append(nodes, visibleEnabled(snapshot.KindButton, "Action", snapshot.RegionMain))
	}
	snap := &snapshot.BaseSnapshot{Nodes: nodes}
	actions := SelectActions(snap, DialogFact{}, nil, 0, 5)
	if len(actions) != 5 {
		t.Errorf("SelectActions: got %d, want 5 (maxActions)", len(actions))
	}
}

func TestSelectActions_MinScoreFiltersLowScorers(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		visibleEnabled(snapshot.KindGeneric, "Generic Thing", snapshot.RegionFooter),
	}}
	actions := SelectActions(snap, DialogFact{}, nil, 0.9, 0)
	if len(actions) != 0 {
		t.Errorf("SelectActions: got %d with a high minScore, want 0", len(actions))
	}
}

func TestSelectActions_SortedDescending(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		visibleEnabled(snapshot.KindLink, "Browse", snapshot.RegionNav),
		visibleEnabled(snapshot.KindButton, "Submit", snapshot.RegionMain),
	}}
	actions := SelectActions(snap, DialogFact{}, nil, 0, 0)
	for i := 1; i < len(actions); i++ {
		if actions[i-1].Score < actions[i].Score {
			t.Errorf("SelectActions: not sorted descending at %d: %v", i, actions)
		}
	}
}

func TestSelectActions_SubmitButtonCategorizedFormSubmit(t *testing.T) {
	email := visibleEnabled(snapshot.KindInput, "Email", snapshot.RegionMain)
	email.Where.GroupID = "g"
	password := visibleEnabled(snapshot.KindInput, "Password", snapshot.RegionMain)
	password.Where.GroupID = "g"
	submit := visibleEnabled(snapshot.KindButton, "Sign in", snapshot.RegionMain)
	submit.Where.GroupID = "g"

	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{email, password, submit}}
	forms := DetectForms(snap)

	actions := SelectActions(snap, DialogFact{}, forms, 0, 0)
	var submitAction *ActionFact
	for i := range actions {
		if actions[i].EID == submit.EID {
			submitAction = &actions[i]
		}
	}
	if submitAction == nil {
		t.Fatal("SelectActions: submit button not found among actions")
	}
	if submitAction.Category != CategoryFormSubmit {
		t.Errorf("Category: got %q, want %q", submitAction.Category, CategoryFormSubmit)
	}
}
