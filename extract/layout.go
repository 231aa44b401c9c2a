package extract

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/pageperceive/core/snapshot"
)

// RawLayout is one node's geometry and computed-style facts, the raw
// material the compiler turns into a snapshot.Layout (spec §4.3, §3).
// Interactive state (checked/expanded/selected/…) comes from
// accessibility properties instead — see DeriveState in state.go.
type RawLayout struct {
	BBox        snapshot.BBox
	Display     string
	Positioning string
	Visible     bool
}

// isHiddenNodeFailure reports whether a DOM.getBoxModel error is read
// as "this node has no box right now" (a hidden, detached, or
// non-rendering node) rather than a real error. Every error is read
// that way, so Layout reports a box-model failure as "not visible"
// and never propagates it for the node (spec §4.3's per-node failure
// rule).
func isHiddenNodeFailure(err error) bool {
	return err != nil
}

// Layout fetches the box model and computed style for one backend
// node. A box-model failure (common for display:none or detached
// nodes) yields a zero bbox and visible=false rather than an error.
func Layout(ctx context.Context, ec *Context, backendNodeID int64) (*RawLayout, error) {
	out := &RawLayout{}

	backendID := proto.DOMBackendNodeID(backendNodeID)
	var boxRes struct {
		Model struct {
			Content []float64 `json:"content"`
			Width   float64   `json:"width"`
			Height  float64   `json:"height"`
		} `json:"model"`
	}
	err := ec.Session.Call(ctx, "DOM.getBoxModel", &proto.DOMGetBoxModel{BackendNodeID: backendID}, &boxRes)
	if err != nil {
		if isHiddenNodeFailure(err) {
			out.Visible = false
			return out, nil
		}
		return nil, fmt.Errorf("extract: DOM.getBoxModel(%d): %w", backendNodeID, err)
	}
	out.Visible = true
	out.BBox = quadToBBox(boxRes.Model.Content, boxRes.Model.Width, boxRes.Model.Height)

	style, err := computedStyle(ctx, ec, backendNodeID)
	if err != nil {
		// A node can have a box but no computed style (rare, e.g. mid
		// style recalculation) — fall back to layout geometry alone.
		return out, nil
	}
	out.Display = style["display"]
	out.Positioning = style["position"]
	if style["display"] == "none" || style["visibility"] == "hidden" {
		out.Visible = false
	}

	return out, nil
}

func quadToBBox(content []float64, width, height float64) snapshot.BBox {
	if len(content) < 8 {
		return snapshot.BBox{W: width, H: height}
	}
	// content is [x1,y1, x2,y2, x3,y3, x4,y4] clockwise from top-left.
	minX, minY := content[0], content[1]
	for i := 2; i+1 < len(content); i += 2 {
		if content[i] < minX {
			minX = content[i]
		}
		if content[i+1] < minY {
			minY = content[i+1]
		}
	}
	return snapshot.BBox{X: minX, Y: minY, W: width, H: height}
}

func computedStyle(ctx context.Context, ec *Context, backendNodeID int64) (map[string]string, error) {
	backendID := proto.DOMBackendNodeID(backendNodeID)
	var res struct {
		ComputedStyle []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"computedStyle"`
	}
	err := ec.Session.Call(ctx, "CSS.getComputedStyleForNode", &proto.CSSGetComputedStyleForNode{NodeID: 0, BackendNodeID: backendID}, &res)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(res.ComputedStyle))
	for _, kv := range res.ComputedStyle {
		m[kv.Name] = kv.Value
	}
	return m, nil
}

// ScreenZone buckets a bbox's vertical center into the coarse
// "above-the-fold" / "below-the-fold" / "off-screen" classification
// spec §3's Layout.screen_zone uses.
func ScreenZone(bbox snapshot.BBox, viewportH int) string {
	centerY := bbox.Y + bbox.H/2
	switch {
	case bbox.W == 0 && bbox.H == 0:
		return "unknown"
	case centerY < 0 || centerY > float64(viewportH)*3:
		return "off-screen"
	case centerY <= float64(viewportH):
		return "above-the-fold"
	default:
		return "below-the-fold"
	}
}
