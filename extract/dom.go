package extract

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
)

// RawDomNode is the typed record the DOM extractor produces for one
// CDP DOM node. Attributes arrive from CDP as a flat [k,v,k,v,...]
// array; RawDomNode always stores them parsed into a map.
type RawDomNode struct {
	NodeID         int64
	BackendNodeID  int64
	NodeName       string
	NodeType       int
	NodeValue      string
	Attributes     map[string]string
	ChildNodeIDs   []int64
	ParentID       int64
	FrameID        string
	ShadowRootType string // "open" | "closed", empty if not a shadow root
}

// DOMResult is the DOM extractor's output: every discovered node keyed
// by backend node id, plus the sub-frame and shadow-host ids found
// while walking (spec §4.3).
type DOMResult struct {
	Nodes       map[int64]*RawDomNode
	SubFrameIDs []string
	ShadowHosts []int64
	RootID      int64
}

// rawDOMNode mirrors the wire shape of DOM.getDocument's result.
// Requests are built from go-rod's proto types, but results are
// decoded into plain structs like this one rather than proto types.
type rawDOMNode struct {
	NodeID          int64        `json:"nodeId"`
	BackendNodeID   int64        `json:"backendNodeId"`
	NodeName        string       `json:"nodeName"`
	NodeType        int          `json:"nodeType"`
	NodeValue       string       `json:"nodeValue"`
	Attributes      []string     `json:"attributes"`
	Children        []rawDOMNode `json:"children"`
	ShadowRoots     []rawDOMNode `json:"shadowRoots"`
	ContentDocument *rawDOMNode  `json:"contentDocument"`
	FrameID         string       `json:"frameId"`
	ShadowRootType  string       `json:"shadowRootType"`
}

// DOM calls DOM.getDocument(depth=-1, pierce=true) and flattens the
// returned tree into a RawDomNode map, recursing into children, shadow
// roots, and content documents (spec §4.3).
func DOM(ctx context.Context, ec *Context) (*DOMResult, error) {
	depth := -1
	req := &proto.DOMGetDocument{Depth: &depth, Pierce: true}

	var res struct {
		Root rawDOMNode `json:"root"`
	}
	if err := ec.Session.Call(ctx, "DOM.getDocument", req, &res); err != nil {
		return nil, fmt.Errorf("extract: DOM.getDocument: %w", err)
	}

	result := &DOMResult{
		Nodes: make(map[int64]*RawDomNode),
	}
	result.RootID = res.Root.BackendNodeID
	walkDOM(&res.Root, 0, result)
	return result, nil
}

func walkDOM(n *rawDOMNode, parentBackendID int64, result *DOMResult) {
	if n == nil {
		return
	}

	node := &RawDomNode{
		NodeID:         n.NodeID,
		BackendNodeID:  n.BackendNodeID,
		NodeName:       n.NodeName,
		NodeType:       n.NodeType,
		NodeValue:      n.NodeValue,
		Attributes:     parseAttributes(n.Attributes),
		ParentID:       parentBackendID,
		FrameID:        n.FrameID,
		ShadowRootType: n.ShadowRootType,
	}
	result.Nodes[node.BackendNodeID] = node

	if n.FrameID != "" && n.NodeName == "IFRAME" {
		result.SubFrameIDs = append(result.SubFrameIDs, n.FrameID)
	}
	if n.ShadowRootType != "" {
		result.ShadowHosts = append(result.ShadowHosts, parentBackendID)
	}

	for i := range n.Children {
		child := &n.Children[i]
		node.ChildNodeIDs = append(node.ChildNodeIDs, child.BackendNodeID)
		walkDOM(child, node.BackendNodeID, result)
	}
	for i := range n.ShadowRoots {
		walkDOM(&n.ShadowRoots[i], node.BackendNodeID, result)
	}
	if n.ContentDocument != nil {
		walkDOM(n.ContentDocument, node.BackendNodeID, result)
	}
}

func parseAttributes(flat []string) map[string]string {
	if len(flat) == 0 {
		return nil
	}
	m := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		m[flat[i]] = flat[i+1]
	}
	return m
}
