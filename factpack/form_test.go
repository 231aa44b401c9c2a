package factpack

import (
	"testing"

	"github.com/pageperceive/core/snapshot"
)

func boolP(b bool) *bool { return &b }

func TestDetectForms_GroupsByGroupID(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		{NodeID: "n1", EID: "e1", Kind: snapshot.KindInput, Label: "Email", Where: snapshot.Where{GroupID: "g1"},
			Attributes: &snapshot.Attributes{InputType: "email"}},
		{NodeID: "n2", EID: "e2", Kind: snapshot.KindInput, Label: "Password", Where: snapshot.Where{GroupID: "g1"},
			Attributes: &snapshot.Attributes{InputType: "password"}},
		{NodeID: "n3", EID: "e3", Kind: snapshot.KindInput, Label: "Search", Where: snapshot.Where{GroupID: "g2"}},
	}}
	forms := DetectForms(snap)
	if len(forms) != 2 {
		t.Fatalf("DetectForms: got %d forms, want 2", len(forms))
	}
	if forms[0].GroupID != "g1" || len(forms[0].Fields) != 2 {
		t.Errorf("forms[0]: got GroupID=%q fields=%d, want g1/2", forms[0].GroupID, len(forms[0].Fields))
	}
}

func TestDetectForms_InfersPurposeFromInputType(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		{NodeID: "n1", EID: "e1", Kind: snapshot.KindInput, Label: "Your email", Where: snapshot.Where{GroupID: "g"},
			Attributes: &snapshot.Attributes{InputType: "email"}},
		{NodeID: "n2", EID: "e2", Kind: snapshot.KindInput, Label: "Your password", Where: snapshot.Where{GroupID: "g"},
			Attributes: &snapshot.Attributes{InputType: "password"}},
	}}
	forms := DetectForms(snap)
	byLabel := map[string]FieldPurpose{}
	for _, f := range forms[0].Fields {
		byLabel[f.Label] = f.Purpose
	}
	if byLabel["Your email"] != PurposeEmail {
		t.Errorf("email field: got %q, want %q", byLabel["Your email"], PurposeEmail)
	}
	if byLabel["Your password"] != PurposePassword {
		t.Errorf("password field: got %q, want %q", byLabel["Your password"], PurposePassword)
	}
}

func TestDetectForms_InfersPurposeFromLabelPattern(t *testing.T) {
	tests := []struct {
		label string
		want  FieldPurpose
	}{
		{"Phone Number", PurposePhone},
		{"Shipping Address", PurposeAddress},
		{"Full Name", PurposeName},
		{"Search products", PurposeSearch},
		{"Date of Birth", PurposeDate},
		{"Quantity", PurposeQuantity},
		{"I agree to the terms", PurposeAgreement},
		{"Favorite color", PurposeUnknown},
	}
	for _, tt := range tests {
		n := snapshot.ReadableNode{Kind: snapshot.KindInput, Label: tt.label}
		if got := inferPurpose(n); got != tt.want {
			t.Errorf("inferPurpose(%q): got %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestDetectForms_HasErrorsWhenFieldInvalid(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		{NodeID: "n1", EID: "e1", Kind: snapshot.KindInput, Label: "Email", Where: snapshot.Where{GroupID: "g"},
			State: &snapshot.State{Invalid: boolP(true)}},
	}}
	forms := DetectForms(snap)
	if !forms[0].HasErrors {
		t.Error("DetectForms: expected HasErrors=true when a field is invalid")
	}
}

func TestDetectForms_SubmitLabelFromSameGroup(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		{NodeID: "n1", EID: "e1", Kind: snapshot.KindInput, Label: "Email", Where: snapshot.Where{GroupID: "g"}},
		{NodeID: "n2", EID: "e2", Kind: snapshot.KindButton, Label: "Sign Up", Where: snapshot.Where{GroupID: "g"}},
		{NodeID: "n3", EID: "e3", Kind: snapshot.KindButton, Label: "Learn More", Where: snapshot.Where{GroupID: "other"}},
	}}
	forms := DetectForms(snap)
	if forms[0].SubmitLabel != "Sign Up" {
		t.Errorf("SubmitLabel: got %q, want %q", forms[0].SubmitLabel, "Sign Up")
	}
	if forms[0].SubmitEID != "e2" {
		t.Errorf("SubmitEID: got %q, want %q", forms[0].SubmitEID, "e2")
	}
}

func TestDetectForms_InfersLoginPurpose(t *testing.T) {
	snap := &snapshot.BaseSnapshot{Nodes: []snapshot.ReadableNode{
		{NodeID: "n1", EID: "e1", Kind: snapshot.KindInput, Label: "Email", Where: snapshot.Where{GroupID: "g"},
			Attributes: &snapshot.Attributes{Autocomplete: "email"}},
		{NodeID: "n2", EID: "e2", Kind: snapshot.KindInput, Label: "Password", Where: snapshot.Where{GroupID: "g"},
			Attributes: &snapshot.Attributes{InputType: "password"}},
		{NodeID: "n3", EID: "e3", Kind: snapshot.KindButton, Label: "Sign in", Where: snapshot.Where{GroupID: "g"}},
	}}
	forms := DetectForms(snap)
	if forms[0].Purpose != FormLogin {
		t.Errorf("Purpose: got %q, want %q", forms[0].Purpose, FormLogin)
	}
	if forms[0].Confidence < 0.6 {
		t.Errorf("Confidence: got %.2f, want >= 0.6", forms[0].Confidence)
	}
}
