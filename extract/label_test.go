package extract

import "testing"

func TestResolveLabel_AXNamePreferred(t *testing.T) {
	ax := &RawAxNode{Name: "Submit order"}
	dom := &RawDomNode{Attributes: map[string]string{"aria-label": "Other"}}
	label, src := ResolveLabel(ax, dom, nil)
	if label != "Submit order" || src != LabelSourceAX {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "Submit order", LabelSourceAX)
	}
}

func TestResolveLabel_AriaLabelFallback(t *testing.T) {
	dom := &RawDomNode{Attributes: map[string]string{"aria-label": "Close dialog"}}
	label, src := ResolveLabel(nil, dom, &DOMResult{Nodes: map[int64]*RawDomNode{}})
	if label != "Close dialog" || src != LabelSourceAriaLabel {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "Close dialog", LabelSourceAriaLabel)
	}
}

func TestResolveLabel_AssociatedLabelFor(t *testing.T) {
	input := &RawDomNode{BackendNodeID: 2, NodeName: "INPUT", Attributes: map[string]string{"id": "email"}}
	labelNode := &RawDomNode{BackendNodeID: 3, NodeName: "LABEL", Attributes: map[string]string{"for": "email"},
		ChildNodeIDs: []int64{4}}
	text := &RawDomNode{BackendNodeID: 4, NodeType: nodeTypeText, NodeValue: "Email address"}

	dr := &DOMResult{Nodes: map[int64]*RawDomNode{2: input, 3: labelNode, 4: text}}
	label, src := ResolveLabel(nil, input, dr)
	if label != "Email address" || src != LabelSourceAssociated {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "Email address", LabelSourceAssociated)
	}
}

func TestResolveLabel_WrappingLabel(t *testing.T) {
	textNode := &RawDomNode{BackendNodeID: 3, NodeType: nodeTypeText, NodeValue: "Remember me"}
	input := &RawDomNode{BackendNodeID: 2, NodeName: "INPUT", ParentID: 1}
	wrapper := &RawDomNode{BackendNodeID: 1, NodeName: "LABEL", ChildNodeIDs: []int64{2, 3}}

	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: wrapper, 2: input, 3: textNode}}
	label, src := ResolveLabel(nil, input, dr)
	if label != "Remember me" || src != LabelSourceAssociated {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "Remember me", LabelSourceAssociated)
	}
}

func TestResolveLabel_PlaceholderFallback(t *testing.T) {
	dom := &RawDomNode{NodeName: "INPUT", Attributes: map[string]string{"placeholder": "you@example.com"}}
	dr := &DOMResult{Nodes: map[int64]*RawDomNode{}}
	label, src := ResolveLabel(nil, dom, dr)
	if label != "you@example.com" || src != LabelSourcePlaceholder {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "you@example.com", LabelSourcePlaceholder)
	}
}

func TestResolveLabel_InnerTextFallback(t *testing.T) {
	text := &RawDomNode{BackendNodeID: 2, NodeType: nodeTypeText, NodeValue: "Learn more"}
	link := &RawDomNode{BackendNodeID: 1, NodeName: "A", ChildNodeIDs: []int64{2}}
	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: link, 2: text}}

	label, src := ResolveLabel(nil, link, dr)
	if label != "Learn more" || src != LabelSourceInnerText {
		t.Errorf("ResolveLabel: got (%q, %q), want (%q, %q)", label, src, "Learn more", LabelSourceInnerText)
	}
}

func TestResolveLabel_InnerTextSkipsScriptSubtree(t *testing.T) {
	script := &RawDomNode{BackendNodeID: 2, NodeName: "SCRIPT", NodeType: nodeTypeElement, ChildNodeIDs: []int64{3}}
	scriptText := &RawDomNode{BackendNodeID: 3, NodeType: nodeTypeText, NodeValue: "var x = 1;"}
	visibleText := &RawDomNode{BackendNodeID: 4, NodeType: nodeTypeText, NodeValue: "Click here"}
	button := &RawDomNode{BackendNodeID: 1, NodeName: "BUTTON", ChildNodeIDs: []int64{2, 4}}

	dr := &DOMResult{Nodes: map[int64]*RawDomNode{1: button, 2: script, 3: scriptText, 4: visibleText}}
	label, _ := ResolveLabel(nil, button, dr)
	if label != "Click here" {
		t.Errorf("ResolveLabel: got %q, want %q (script subtree should be skipped)", label, "Click here")
	}
}

func TestResolveLabel_NoneWhenEmpty(t *testing.T) {
	dom := &RawDomNode{NodeName: "DIV"}
	dr := &DOMResult{Nodes: map[int64]*RawDomNode{}}
	label, src := ResolveLabel(nil, dom, dr)
	if label != "" || src != LabelSourceNone {
		t.Errorf("ResolveLabel: got (%q, %q), want (\"\", %q)", label, src, LabelSourceNone)
	}
}
