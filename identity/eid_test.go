package identity

import "testing"

func TestCompute_Deterministic(t *testing.T) {
	in := Input{
		NormalizedName: "submit",
		Kind:           "button",
		Region:         "main",
		GroupPath:      []string{"checkout form"},
	}
	a := Compute(in)
	b := Compute(in)
	if a != b {
		t.Fatalf("Compute: not deterministic, got %q and %q", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("Compute: want 12 hex chars, got %d (%q)", len(a), a)
	}
}

func TestCompute_ScrollAndViewportInvariant(t *testing.T) {
	// Input has no scroll/viewport fields at all — this test documents
	// that invariant by constructing two otherwise-identical Inputs and
	// confirming they hash the same regardless of any simulated "capture
	// at different scroll offset" scenario a caller might feed in.
	in1 := Input{NormalizedName: "login", Kind: "button", Region: "header"}
	in2 := Input{NormalizedName: "login", Kind: "button", Region: "header"}
	if Compute(in1) != Compute(in2) {
		t.Fatal("Compute: identical semantic input produced different EIDs")
	}
}

func TestCompute_DiffersOnFieldChange(t *testing.T) {
	base := Input{NormalizedName: "submit", Kind: "button", Region: "main"}
	variants := []Input{
		{NormalizedName: "cancel", Kind: "button", Region: "main"},
		{NormalizedName: "submit", Kind: "link", Region: "main"},
		{NormalizedName: "submit", Kind: "button", Region: "dialog"},
		{NormalizedName: "submit", Kind: "button", Region: "main", Href: "/x"},
	}
	baseEID := Compute(base)
	for i, v := range variants {
		if Compute(v) == baseEID {
			t.Errorf("variant %d: expected different EID from base, got same %q", i, baseEID)
		}
	}
}

func TestLandmarkPath(t *testing.T) {
	tests := []struct {
		in   Input
		want string
	}{
		{Input{Region: "main"}, "main"},
		{Input{Region: "main", GroupPath: []string{"a", "b"}}, "main/a/b"},
		{Input{Region: "dialog"}, "dialog"},
	}
	for _, tt := range tests {
		if got := tt.in.LandmarkPath(); got != tt.want {
			t.Errorf("LandmarkPath(%+v): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolver_FirstOccurrenceKeepsBase(t *testing.T) {
	r := NewResolver()
	if got := r.Assign("abc123"); got != "abc123" {
		t.Errorf("first Assign: got %q, want %q", got, "abc123")
	}
}

func TestResolver_CollisionsSuffixInOrder(t *testing.T) {
	r := NewResolver()
	first := r.Assign("dup")
	second := r.Assign("dup")
	third := r.Assign("dup")

	if first != "dup" {
		t.Errorf("first: got %q, want %q", first, "dup")
	}
	if second != "dup-2" {
		t.Errorf("second: got %q, want %q", second, "dup-2")
	}
	if third != "dup-3" {
		t.Errorf("third: got %q, want %q", third, "dup-3")
	}
}

func TestResolver_IndependentBases(t *testing.T) {
	r := NewResolver()
	a1 := r.Assign("a")
	b1 := r.Assign("b")
	a2 := r.Assign("a")

	if a1 != "a" || b1 != "b" {
		t.Fatalf("unexpected first assignments: a1=%q b1=%q", a1, b1)
	}
	if a2 != "a-2" {
		t.Errorf("second a: got %q, want %q", a2, "a-2")
	}
}
