package extract

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RawAxNode is one CDP accessibility tree node, flattened to the
// handful of fields the Snapshot Compiler and label/region resolvers
// need (spec §4.3).
type RawAxNode struct {
	AXNodeID      string
	Ignored       bool
	Role          string
	Name          string
	Description   string
	Value         string
	Properties    map[string]string
	ParentAXID    string
	ChildAXIDs    []string
	BackendNodeID int64
	FrameID       string
}

// AXResult is the accessibility extractor's output across the main
// frame and every sub-frame fetched: every node keyed by backend node
// id (accessibility nodes without a backend id, e.g. pure layout
// artifacts, are dropped — nothing downstream can scope a ref to
// them), plus role-classified id sets (spec §4.3).
type AXResult struct {
	Nodes           map[int64]*RawAxNode
	InteractiveIDs  []int64
	ReadableIDs     []int64
	FrameFailures   map[string]error // non-nil only for sub-frames that failed
}

// interactiveRoles and readableRoles partition the accessibility
// role vocabulary into the closed sets spec §4.3/§4.4 classify
// candidates by. Roles outside both sets are structural.
var interactiveRoles = map[string]bool{
	"link": true, "button": true, "textbox": true, "searchbox": true,
	"combobox": true, "listbox": true, "checkbox": true, "radio": true,
	"switch": true, "slider": true, "spinbutton": true, "tab": true,
	"menuitem": true, "menuitemcheckbox": true, "menuitemradio": true,
	"option": true,
}

var readableRoles = map[string]bool{
	"heading": true, "paragraph": true, "text": true, "list": true,
	"listitem": true, "img": true, "figure": true, "table": true,
	"row": true, "cell": true, "columnheader": true, "rowheader": true,
	"alert": true, "alertdialog": true, "status": true, "dialog": true,
	"navigation": true, "main": true, "banner": true, "contentinfo": true,
	"complementary": true, "search": true, "form": true, "region": true,
}

// AX fetches the main frame's full accessibility tree, then fans out
// to every sub-frame discovered by the DOM extractor, bounded by
// ec.Options.AXFanoutConcurrency (spec §4.3, §5). A sub-frame fetch
// failure never fails the whole capture: it is recorded in
// FrameFailures and logged, matching the per-node/whole-extractor
// failure split spec §7 draws for capture_page.
func AX(ctx context.Context, ec *Context, mainFrameID string, subFrameIDs []string) (*AXResult, error) {
	result := &AXResult{
		Nodes:         make(map[int64]*RawAxNode),
		FrameFailures: make(map[string]error),
	}

	mainNodes, err := fetchAXTree(ctx, ec, "")
	if err != nil {
		return nil, fmt.Errorf("extract: Accessibility.getFullAXTree (main frame): %w", err)
	}
	mergeAXNodes(result, mainNodes, mainFrameID)

	if len(subFrameIDs) == 0 {
		classifyAXRoles(result)
		return result, nil
	}

	sem := semaphore.NewWeighted(int64(ec.Options.AXFanoutConcurrency))
	g, gctx := errgroup.WithContext(ctx)

	type frameNodes struct {
		frameID string
		nodes   []*RawAxNode
		err     error
	}
	out := make(chan frameNodes, len(subFrameIDs))

	for _, fid := range subFrameIDs {
		fid := fid
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			nodes, err := fetchAXTree(gctx, ec, fid)
			out <- frameNodes{frameID: fid, nodes: nodes, err: err}
			return nil // sub-frame failures do not cancel sibling fetches
		})
	}

	// Close out once every goroutine has sent, without letting a
	// frame-level error abort the fan-out (it already returned nil
	// above so g.Wait only reports context cancellation or Acquire
	// failures).
	go func() {
		_ = g.Wait()
		close(out)
	}()

	var merr *multierror.Error
	for fn := range out {
		if fn.err != nil {
			merr = multierror.Append(merr, fmt.Errorf("frame %s: %w", fn.frameID, fn.err))
			result.FrameFailures[fn.frameID] = fn.err
			continue
		}
		mergeAXNodes(result, fn.nodes, fn.frameID)
	}
	if merr != nil {
		ec.Logger.Debug("extract: sub-frame accessibility fetch failures", "error", merr.Error())
	}

	classifyAXRoles(result)
	return result, nil
}

func fetchAXTree(ctx context.Context, ec *Context, frameID string) ([]*rawAXNode, error) {
	req := &proto.AccessibilityGetFullAXTree{}
	if frameID != "" {
		req.FrameID = proto.PageFrameID(frameID)
	}

	var res struct {
		Nodes []*rawAXNode `json:"nodes"`
	}
	if err := ec.Session.Call(ctx, "Accessibility.getFullAXTree", req, &res); err != nil {
		if isLikelyDetachedFrame(err) {
			return nil, err
		}
		return nil, err
	}
	return res.Nodes, nil
}

// isLikelyDetachedFrame is a seam for future expected-failure
// filtering (a frame can detach mid-fanout); it currently just
// forwards the error, the cdp package already classifies the common
// "frame with the given id was not found" case as expected.
func isLikelyDetachedFrame(err error) bool {
	return err != nil
}

// rawAXNode mirrors Accessibility.AXNode's wire shape.
type rawAXNode struct {
	NodeID           string          `json:"nodeId"`
	Ignored          bool            `json:"ignored"`
	Role             *rawAXValue     `json:"role"`
	Name             *rawAXValue     `json:"name"`
	Description      *rawAXValue     `json:"description"`
	Value            *rawAXValue     `json:"value"`
	Properties       []rawAXProperty `json:"properties"`
	ParentID         string          `json:"parentId"`
	ChildIDs         []string        `json:"childIds"`
	BackendDOMNodeID int64           `json:"backendDOMNodeId"`
	FrameID          string          `json:"frameId"`
}

type rawAXValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type rawAXProperty struct {
	Name  string      `json:"name"`
	Value *rawAXValue `json:"value"`
}

func (v *rawAXValue) asString() string {
	if v == nil || v.Value == nil {
		return ""
	}
	switch t := v.Value.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func mergeAXNodes(result *AXResult, nodes []*rawAXNode, fallbackFrameID string) {
	for _, n := range nodes {
		if n.BackendDOMNodeID == 0 {
			continue // no scopable backend node, e.g. a root/ignored placeholder
		}
		frameID := n.FrameID
		if frameID == "" {
			frameID = fallbackFrameID
		}

		props := make(map[string]string, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = p.Value.asString()
		}

		result.Nodes[n.BackendDOMNodeID] = &RawAxNode{
			AXNodeID:      n.NodeID,
			Ignored:       n.Ignored,
			Role:          n.Role.asString(),
			Name:          n.Name.asString(),
			Description:   n.Description.asString(),
			Value:         n.Value.asString(),
			Properties:    props,
			ParentAXID:    n.ParentID,
			ChildAXIDs:    n.ChildIDs,
			BackendNodeID: n.BackendDOMNodeID,
			FrameID:       frameID,
		}
	}
}

func classifyAXRoles(result *AXResult) {
	for backendID, n := range result.Nodes {
		if n.Ignored {
			continue
		}
		switch {
		case interactiveRoles[n.Role]:
			result.InteractiveIDs = append(result.InteractiveIDs, backendID)
		case readableRoles[n.Role]:
			result.ReadableIDs = append(result.ReadableIDs, backendID)
		}
	}
}
