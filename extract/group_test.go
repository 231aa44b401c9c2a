package extract

import "testing"

func TestGroup_PathFromAncestorSections(t *testing.T) {
	section := &RawDomNode{BackendNodeID: 1, NodeName: "SECTION", Attributes: map[string]string{"aria-label": "Billing"}}
	form := &RawDomNode{BackendNodeID: 2, NodeName: "FORM", ParentID: 1}
	input := &RawDomNode{BackendNodeID: 3, NodeName: "INPUT", ParentID: 2}

	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: section, 2: form, 3: input}}
	res := Group(input, dr, nil)

	if len(res.GroupPath) != 1 || res.GroupPath[0] != "Billing" {
		t.Errorf("GroupPath: got %v, want [\"Billing\"]", res.GroupPath)
	}
	if res.GroupID == "" {
		t.Error("GroupID: expected a non-empty stable id")
	}
}

func TestGroup_StableAcrossDifferentBackendIDs(t *testing.T) {
	sectionA := &RawDomNode{BackendNodeID: 10, NodeName: "SECTION", Attributes: map[string]string{"aria-label": "Billing"}}
	inputA := &RawDomNode{BackendNodeID: 11, NodeName: "INPUT", ParentID: 10}
	drA := &DOMResult{Nodes: map[int64]*RawDomNode{10: sectionA, 11: inputA}}

	sectionB := &RawDomNode{BackendNodeID: 900, NodeName: "SECTION", Attributes: map[string]string{"aria-label": "Billing"}}
	inputB := &RawDomNode{BackendNodeID: 901, NodeName: "INPUT", ParentID: 900}
	drB := &DOMResult{Nodes: map[int64]*RawDomNode{900: sectionB, 901: inputB}}

	gA := Group(inputA, drA, nil)
	gB := Group(inputB, drB, nil)
	if gA.GroupID != gB.GroupID {
		t.Errorf("GroupID: got %q and %q, want equal across re-renders with the same container identity", gA.GroupID, gB.GroupID)
	}
}

func TestGroup_HeadingContext(t *testing.T) {
	heading := &RawDomNode{BackendNodeID: 1, NodeName: "H2", ParentID: 3, ChildNodeIDs: []int64{2}}
	headingText := &RawDomNode{BackendNodeID: 2, NodeType: nodeTypeText, NodeValue: "Shipping details"}
	input := &RawDomNode{BackendNodeID: 4, NodeName: "INPUT", ParentID: 3}
	container := &RawDomNode{BackendNodeID: 3, NodeName: "DIV", ChildNodeIDs: []int64{1, 4}}

	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: heading, 2: headingText, 3: container, 4: input}}
	res := Group(input, dr, nil)
	if res.HeadingContext != "Shipping details" {
		t.Errorf("HeadingContext: got %q, want %q", res.HeadingContext, "Shipping details")
	}
}

func TestGroup_NoAncestorContainer(t *testing.T) {
	input := &RawDomNode{BackendNodeID: 1, NodeName: "INPUT"}
	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: input}}
	res := Group(input, dr, nil)
	if len(res.GroupPath) != 0 {
		t.Errorf("GroupPath: got %v, want empty", res.GroupPath)
	}
	if res.GroupID != "" {
		t.Errorf("GroupID: got %q, want empty when no container found", res.GroupID)
	}
}
