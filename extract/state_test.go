package extract

import "testing"

func TestDeriveState_VisibilityFromLayout(t *testing.T) {
	st := DeriveState(nil, &RawLayout{Visible: true})
	if !st.Visible {
		t.Error("DeriveState: expected Visible=true from layout")
	}
	if !st.Enabled {
		t.Error("DeriveState: expected Enabled=true by default with no AX node")
	}
}

func TestDeriveState_DisabledFromAXProperty(t *testing.T) {
	ax := &RawAxNode{Properties: map[string]string{"disabled": "true"}}
	st := DeriveState(ax, &RawLayout{Visible: true})
	if st.Enabled {
		t.Error("DeriveState: expected Enabled=false when AX reports disabled")
	}
}

func TestDeriveState_TriStateProperties(t *testing.T) {
	ax := &RawAxNode{Properties: map[string]string{
		"checked":  "true",
		"expanded": "false",
	}}
	st := DeriveState(ax, &RawLayout{Visible: true})
	if st.Checked == nil || !*st.Checked {
		t.Errorf("Checked: got %v, want true", st.Checked)
	}
	if st.Expanded == nil || *st.Expanded {
		t.Errorf("Expanded: got %v, want false", st.Expanded)
	}
	if st.Selected != nil {
		t.Errorf("Selected: got %v, want nil (absent property)", st.Selected)
	}
}

func TestDeriveState_MixedCheckedIsTruthy(t *testing.T) {
	ax := &RawAxNode{Properties: map[string]string{"checked": "mixed"}}
	st := DeriveState(ax, nil)
	if st.Checked == nil || !*st.Checked {
		t.Errorf("Checked: got %v, want true for a tri-state mixed checkbox", st.Checked)
	}
}

func TestDeriveState_NilLayoutDefaultsNotVisible(t *testing.T) {
	st := DeriveState(nil, nil)
	if st.Visible {
		t.Error("DeriveState: expected Visible=false with no layout info")
	}
}
