package state

import (
	"testing"

	"github.com/pageperceive/core/factpack"
	"github.com/pageperceive/core/snapshot"
)

func newTestManager() *Manager {
	return &Manager{}
}

func TestCurrent_EmptyBeforeAnyCapture(t *testing.T) {
	m := newTestManager()
	snap, _ := m.Current()
	if snap != nil {
		t.Errorf("Current: got %+v, want nil before any capture", snap)
	}
}

func TestDiff_NotOkWithoutPrior(t *testing.T) {
	m := newTestManager()
	m.current = &snapshot.BaseSnapshot{Title: "only capture"}

	_, ok := m.Diff()
	if ok {
		t.Error("Diff: expected ok=false with no prior snapshot")
	}
}

func TestDiff_ComparesCurrentAgainstPrior(t *testing.T) {
	m := newTestManager()
	m.prior = &snapshot.BaseSnapshot{Title: "before", Nodes: []snapshot.ReadableNode{{EID: "a"}}}
	m.current = &snapshot.BaseSnapshot{Title: "after", Nodes: []snapshot.ReadableNode{{EID: "a"}, {EID: "b"}}}

	d, ok := m.Diff()
	if !ok {
		t.Fatal("Diff: expected ok=true with both prior and current set")
	}
	if len(d.Added) != 1 || d.Added[0].EID != "b" {
		t.Errorf("Diff.Added: got %+v, want one node with EID %q", d.Added, "b")
	}
}

func TestRestorePrior_NoOpWithoutPrior(t *testing.T) {
	m := newTestManager()
	m.current = &snapshot.BaseSnapshot{Title: "only capture"}
	m.RestorePrior()
	if m.current == nil || m.current.Title != "only capture" {
		t.Error("RestorePrior: current should be untouched when no prior exists")
	}
}

func TestRestorePrior_SwapsCurrentBackToPrior(t *testing.T) {
	m := newTestManager()
	m.prior = &snapshot.BaseSnapshot{Title: "before"}
	m.current = &snapshot.BaseSnapshot{Title: "after"}

	m.RestorePrior()

	current, _ := m.Current()
	if current == nil || current.Title != "before" {
		t.Errorf("RestorePrior: current = %+v, want the prior snapshot restored", current)
	}
}

func TestRestorePrior_RebuildsFactsFromRestoredSnapshot(t *testing.T) {
	m := newTestManager()
	m.prior = &snapshot.BaseSnapshot{
		Title: "login",
		Nodes: []snapshot.ReadableNode{
			{Kind: snapshot.KindInput, Attributes: &snapshot.Attributes{InputType: "password"}},
		},
	}
	m.current = &snapshot.BaseSnapshot{Title: "checkout"}
	m.facts = factpack.Build(m.current, factpack.Options{})

	m.RestorePrior()

	_, facts := m.Current()
	if facts.PageClass.Type != factpack.PageLogin {
		t.Errorf("PageClass.Type: got %q, want %q (classified from the restored \"login\" title)", facts.PageClass.Type, factpack.PageLogin)
	}
}
