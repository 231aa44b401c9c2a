// Package observe implements the Observation Accumulator: a
// MutationObserver injected into the page, forwarding batched DOM
// changes back through a CDP binding, scored for significance and
// bounded so one noisy page never floods a turn (spec §5).
package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/pageperceive/core/cdp"
)

const bindingName = "__pageperceive_observe"

// maxPerTrigger bounds how many observations a single accumulation
// window reports — the page can mutate far faster than anything
// downstream can usefully consume (spec §5).
const maxPerTrigger = 10

// Observation is one significant thing the page did since the last
// drain.
type Observation struct {
	Op           string
	Tag          string
	Attr         string
	AddedNodes   int
	RemovedNodes int
	Significance float64
	At           time.Time
}

// rawJSRecord mirrors the shape script.go's injected observer posts
// through the binding.
type rawJSRecord struct {
	Op      string `json:"op"`
	Tag     string `json:"tag"`
	Attr    string `json:"attr"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	T       int64  `json:"t"`
}

// Accumulator owns one page's injected observer and the buffer of
// observations collected since the last drain.
type Accumulator struct {
	session *cdp.Session
	logger  *slog.Logger

	mu       sync.Mutex
	injected bool
	buffer   []Observation
}

func New(session *cdp.Session, logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulator{session: session, logger: logger}
}

// EnsureInjected installs the binding and the observer script exactly
// once per page lifetime; a renavigation requires a fresh Accumulator
// (the caller's state.Manager owns that lifecycle).
func (a *Accumulator) EnsureInjected(ctx context.Context) error {
	a.mu.Lock()
	already := a.injected
	a.mu.Unlock()
	if already {
		return nil
	}

	if err := a.session.Call(ctx, "Runtime.addBinding", &proto.RuntimeAddBinding{Name: bindingName}, nil); err != nil {
		return fmt.Errorf("observe: add binding: %w", err)
	}

	a.session.On("Runtime.bindingCalled", a.onBindingCalled)

	var res struct {
		ExceptionDetails *struct {
			Text string `json:"text"`
		} `json:"exceptionDetails"`
	}
	if err := a.session.Call(ctx, "Runtime.evaluate", &proto.RuntimeEvaluate{Expression: script}, &res); err != nil {
		return fmt.Errorf("observe: inject script: %w", err)
	}
	if res.ExceptionDetails != nil {
		return fmt.Errorf("observe: inject script threw: %s", res.ExceptionDetails.Text)
	}

	a.mu.Lock()
	a.injected = true
	a.mu.Unlock()
	return nil
}

func (a *Accumulator) onBindingCalled(payload []byte) {
	var ev struct {
		Name    string `json:"name"`
		Payload string `json:"payload"`
	}
	if err := json.Unmarshal(payload, &ev); err != nil {
		return
	}
	if ev.Name != bindingName {
		return
	}

	var records []rawJSRecord
	if err := json.Unmarshal([]byte(ev.Payload), &records); err != nil {
		a.logger.Debug("observe: malformed binding payload", "error", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range records {
		if len(a.buffer) >= maxPerTrigger {
			break
		}
		obs := Observation{
			Op:           r.Op,
			Tag:          strings.ToUpper(r.Tag),
			Attr:         r.Attr,
			AddedNodes:   r.Added,
			RemovedNodes: r.Removed,
			At:           time.UnixMilli(r.T),
		}
		obs.Significance = scoreSignificance(obs)
		a.buffer = append(a.buffer, obs)
	}
}

// scoreSignificance weighs an observation by how likely it is to
// matter to an agent deciding its next action: structural changes
// (nodes added/removed) outrank attribute churn, and focus/submit
// signals — which only fire on deliberate interaction — outrank both
// (spec §5).
func scoreSignificance(o Observation) float64 {
	switch o.Op {
	case "focus", "submit":
		return 0.9
	case "childList":
		if o.AddedNodes+o.RemovedNodes > 5 {
			return 0.8
		}
		return 0.5
	case "attributes":
		return 0.3
	case "characterData":
		return 0.2
	default:
		return 0.1
	}
}

// Drain returns every buffered observation and clears the buffer.
func (a *Accumulator) Drain() []Observation {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.buffer
	a.buffer = nil
	return out
}

// FilterBySignificance returns only observations scoring at least
// threshold, preserving order.
func FilterBySignificance(obs []Observation, threshold float64) []Observation {
	var out []Observation
	for _, o := range obs {
		if o.Significance >= threshold {
			out = append(out, o)
		}
	}
	return out
}
