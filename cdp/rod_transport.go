package cdp

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// RodTransport adapts an already-connected *rod.Page to the Transport
// interface. go-rod's CDP surface is typed per method rather than a
// generic string-keyed send, so this adapter dispatches the handful of
// methods and events this package actually needs (spec §6's "required
// methods"/"required events" list) onto their typed proto structs, the
// same way the teacher's observer/cdpdom.go and browser/tab.go do.
// A method outside that list is rejected rather than silently
// swallowed — callers extending the CDP surface extend this switch.
type RodTransport struct {
	Page *rod.Page
}

func NewRodTransport(page *rod.Page) *RodTransport {
	return &RodTransport{Page: page}
}

func (t *RodTransport) Closed() bool {
	// A page whose underlying target has gone away will fail any call;
	// go-rod surfaces this as an error from the call itself rather than
	// a standalone liveness probe, so Session relies on Call's error
	// classification (looksDetached) instead of Closed() for the rod
	// adapter. Closed always reports false here; Session still detects
	// detachment from Call errors.
	return false
}

func (t *RodTransport) Call(ctx context.Context, method string, params any) ([]byte, error) {
	page := t.Page.Context(ctx)

	switch method {
	case "DOM.enable":
		return nil, proto.DOMEnable{}.Call(page)
	case "DOM.getDocument":
		req, _ := params.(*proto.DOMGetDocument)
		if req == nil {
			req = &proto.DOMGetDocument{}
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "DOM.getBoxModel":
		req, ok := params.(*proto.DOMGetBoxModel)
		if !ok {
			return nil, fmt.Errorf("cdp: DOM.getBoxModel requires *proto.DOMGetBoxModel params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "DOM.describeNode":
		req, ok := params.(*proto.DOMDescribeNode)
		if !ok {
			return nil, fmt.Errorf("cdp: DOM.describeNode requires *proto.DOMDescribeNode params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "DOM.resolveNode":
		req, ok := params.(*proto.DOMResolveNode)
		if !ok {
			return nil, fmt.Errorf("cdp: DOM.resolveNode requires *proto.DOMResolveNode params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "DOM.setFileInputFiles":
		req, ok := params.(*proto.DOMSetFileInputFiles)
		if !ok {
			return nil, fmt.Errorf("cdp: DOM.setFileInputFiles requires *proto.DOMSetFileInputFiles params")
		}
		return nil, req.Call(page)
	case "Accessibility.getFullAXTree":
		req, _ := params.(*proto.AccessibilityGetFullAXTree)
		if req == nil {
			req = &proto.AccessibilityGetFullAXTree{}
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "CSS.getComputedStyleForNode":
		req, ok := params.(*proto.CSSGetComputedStyleForNode)
		if !ok {
			return nil, fmt.Errorf("cdp: CSS.getComputedStyleForNode requires *proto.CSSGetComputedStyleForNode params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Page.enable":
		return nil, proto.PageEnable{}.Call(page)
	case "Page.getFrameTree":
		res, err := (&proto.PageGetFrameTree{}).Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Page.navigate":
		req, ok := params.(*proto.PageNavigate)
		if !ok {
			return nil, fmt.Errorf("cdp: Page.navigate requires *proto.PageNavigate params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Page.getNavigationHistory":
		res, err := (&proto.PageGetNavigationHistory{}).Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Page.navigateToHistoryEntry":
		req, ok := params.(*proto.PageNavigateToHistoryEntry)
		if !ok {
			return nil, fmt.Errorf("cdp: Page.navigateToHistoryEntry requires params")
		}
		return nil, req.Call(page)
	case "Page.reload":
		req, _ := params.(*proto.PageReload)
		if req == nil {
			req = &proto.PageReload{}
		}
		return nil, req.Call(page)
	case "Runtime.evaluate":
		req, ok := params.(*proto.RuntimeEvaluate)
		if !ok {
			return nil, fmt.Errorf("cdp: Runtime.evaluate requires *proto.RuntimeEvaluate params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Runtime.callFunctionOn":
		req, ok := params.(*proto.RuntimeCallFunctionOn)
		if !ok {
			return nil, fmt.Errorf("cdp: Runtime.callFunctionOn requires params")
		}
		res, err := req.Call(page)
		if err != nil {
			return nil, err
		}
		return encode(res)
	case "Input.dispatchMouseEvent":
		req, ok := params.(*proto.InputDispatchMouseEvent)
		if !ok {
			return nil, fmt.Errorf("cdp: Input.dispatchMouseEvent requires params")
		}
		return nil, req.Call(page)
	case "Input.dispatchKeyEvent":
		req, ok := params.(*proto.InputDispatchKeyEvent)
		if !ok {
			return nil, fmt.Errorf("cdp: Input.dispatchKeyEvent requires params")
		}
		return nil, req.Call(page)
	case "Input.insertText":
		req, ok := params.(*proto.InputInsertText)
		if !ok {
			return nil, fmt.Errorf("cdp: Input.insertText requires params")
		}
		return nil, req.Call(page)
	case "Runtime.addBinding":
		req, ok := params.(*proto.RuntimeAddBinding)
		if !ok {
			return nil, fmt.Errorf("cdp: Runtime.addBinding requires params")
		}
		return nil, req.Call(page)
	default:
		return nil, fmt.Errorf("cdp: method %q not wired in RodTransport", method)
	}
}

// Subscribe dispatches the small set of named CDP events this package
// consumes onto go-rod's typed event subscription. It returns an
// unsubscribe func; go-rod's EachEvent wait-loop runs on its own
// goroutine per event kind, cancelled via ctx.
func (t *RodTransport) Subscribe(event string, handler func(payload []byte)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	page := t.Page.Context(ctx)

	var wait func()
	switch event {
	case "Page.frameNavigated":
		wait = page.EachEvent(func(e *proto.PageFrameNavigated) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "Page.frameDetached":
		wait = page.EachEvent(func(e *proto.PageFrameDetached) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "Page.loadEventFired":
		wait = page.EachEvent(func(e *proto.PageLoadEventFired) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "Runtime.bindingCalled":
		wait = page.EachEvent(func(e *proto.RuntimeBindingCalled) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "DOM.childNodeInserted":
		wait = page.EachEvent(func(e *proto.DOMChildNodeInserted) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "DOM.childNodeRemoved":
		wait = page.EachEvent(func(e *proto.DOMChildNodeRemoved) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "DOM.attributeModified":
		wait = page.EachEvent(func(e *proto.DOMAttributeModified) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "DOM.attributeRemoved":
		wait = page.EachEvent(func(e *proto.DOMAttributeRemoved) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	case "DOM.documentUpdated":
		wait = page.EachEvent(func(e *proto.DOMDocumentUpdated) {
			if data, err := encode(e); err == nil {
				handler(data)
			}
		})
	default:
		cancel()
		return func() {}
	}

	go wait()
	return cancel
}
