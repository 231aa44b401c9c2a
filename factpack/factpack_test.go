package factpack

import (
	"reflect"
	"testing"

	"github.com/pageperceive/core/snapshot"
)

func TestBuild_Pure(t *testing.T) {
	snap := &snapshot.BaseSnapshot{
		Title: "Log in",
		Nodes: []snapshot.ReadableNode{
			visibleEnabled(snapshot.KindButton, "Sign In", snapshot.RegionMain),
		},
	}
	a := Build(snap, Options{})
	b := Build(snap, Options{})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Build: not pure, got %+v vs %+v", a, b)
	}
}

func TestBuild_ComposesAllDetectors(t *testing.T) {
	snap := &snapshot.BaseSnapshot{
		Title: "Checkout",
		URL:   "https://shop.example.com/checkout",
		Nodes: []snapshot.ReadableNode{
			{NodeID: "n0", EID: "e0", Kind: snapshot.KindHeading, Label: "Confirm purchase?", Where: snapshot.Where{Region: snapshot.RegionDialog}},
			visibleEnabled(snapshot.KindButton, "Pay Now", snapshot.RegionDialog),
		},
	}
	fp := Build(snap, Options{})
	if !fp.Dialog.Present {
		t.Error("Build: expected Dialog.Present true")
	}
	if fp.PageClass.Type != PageCheckout {
		t.Errorf("Build: PageClass.Type got %q, want %q", fp.PageClass.Type, PageCheckout)
	}
	if len(fp.Actions) == 0 {
		t.Error("Build: expected at least one selected action")
	}
}
