package extract

import (
	"testing"

	"github.com/pageperceive/core/snapshot"
)

func TestClassifyKind_RolePreferredOverTag(t *testing.T) {
	ax := &RawAxNode{Role: "button"}
	dom := &RawDomNode{NodeName: "DIV"}
	if got := ClassifyKind(ax, dom); got != snapshot.KindButton {
		t.Errorf("ClassifyKind: got %q, want %q", got, snapshot.KindButton)
	}
}

func TestClassifyKind_TagFallbackWhenNoRole(t *testing.T) {
	dom := &RawDomNode{NodeName: "A"}
	if got := ClassifyKind(nil, dom); got != snapshot.KindLink {
		t.Errorf("ClassifyKind: got %q, want %q", got, snapshot.KindLink)
	}
}

func TestClassifyKind_InputTypeRefinement(t *testing.T) {
	tests := []struct {
		inputType string
		want      snapshot.Kind
	}{
		{"checkbox", snapshot.KindCheckbox},
		{"radio", snapshot.KindRadio},
		{"range", snapshot.KindSlider},
		{"text", snapshot.KindInput},
		{"email", snapshot.KindInput},
	}
	for _, tt := range tests {
		dom := &RawDomNode{NodeName: "INPUT", Attributes: map[string]string{"type": tt.inputType}}
		if got := ClassifyKind(nil, dom); got != tt.want {
			t.Errorf("ClassifyKind(input type=%q): got %q, want %q", tt.inputType, got, tt.want)
		}
	}
}

func TestClassifyKind_DefaultGeneric(t *testing.T) {
	dom := &RawDomNode{NodeName: "SPAN"}
	if got := ClassifyKind(nil, dom); got != snapshot.KindGeneric {
		t.Errorf("ClassifyKind: got %q, want %q", got, snapshot.KindGeneric)
	}
	if got := ClassifyKind(nil, nil); got != snapshot.KindGeneric {
		t.Errorf("ClassifyKind(nil, nil): got %q, want %q", got, snapshot.KindGeneric)
	}
}

func TestClassifyKind_UnknownRoleFallsThroughToTag(t *testing.T) {
	ax := &RawAxNode{Role: "presentation"}
	dom := &RawDomNode{NodeName: "UL"}
	if got := ClassifyKind(ax, dom); got != snapshot.KindList {
		t.Errorf("ClassifyKind: got %q, want %q", got, snapshot.KindList)
	}
}
