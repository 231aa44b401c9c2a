// Package state owns one page's perception lifecycle: the latest
// snapshot, the FactPack derived from it, the prior snapshot retained
// for retry-on-error, and the diff between the two (spec §6, §7).
package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pageperceive/core/diff"
	"github.com/pageperceive/core/extract"
	"github.com/pageperceive/core/factpack"
	"github.com/pageperceive/core/frame"
	"github.com/pageperceive/core/observe"
	"github.com/pageperceive/core/snapshot"
)

// Manager is single-writer: callers must serialize Capture/Diff/
// RestorePrior calls for one page the same way they must serialize
// frame.Tracker access (spec §5, §9).
type Manager struct {
	tracker     *frame.Tracker
	accumulator *observe.Accumulator
	logger      *slog.Logger

	mu      sync.Mutex
	current *snapshot.BaseSnapshot
	prior   *snapshot.BaseSnapshot
	facts   factpack.FactPack
}

func NewManager(tracker *frame.Tracker, accumulator *observe.Accumulator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{tracker: tracker, accumulator: accumulator, logger: logger}
}

// Capture runs the extractor pipeline, demotes the existing snapshot
// to prior, and derives a fresh FactPack (spec §4.4, §4.6). The frame
// tracker's pending invalidations are drained first so a navigation
// that happened between turns surfaces as removed nodes rather than
// stale refs (spec §4.2).
func (m *Manager) Capture(ctx context.Context, ec *extract.Context, factOpts factpack.Options) (*snapshot.BaseSnapshot, factpack.FactPack, error) {
	m.tracker.DrainInvalidations()

	snap, err := extract.Compile(ctx, ec, m.tracker)
	if err != nil {
		return nil, factpack.FactPack{}, fmt.Errorf("state: capture: %w", err)
	}
	facts := factpack.Build(snap, factOpts)

	m.mu.Lock()
	m.prior = m.current
	m.current = snap
	m.facts = facts
	m.mu.Unlock()

	return snap, facts, nil
}

// Current returns the most recently captured snapshot and FactPack.
func (m *Manager) Current() (*snapshot.BaseSnapshot, factpack.FactPack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.facts
}

// Diff compares the current snapshot against the prior one. ok is
// false if there's no prior capture to compare against yet.
func (m *Manager) Diff() (d diff.Diff, ok bool) {
	m.mu.Lock()
	prior, current := m.prior, m.current
	m.mu.Unlock()
	if prior == nil || current == nil {
		return diff.Diff{}, false
	}
	return diff.Compute(prior, current), true
}

// RestorePrior discards the current snapshot and FactPack, restoring
// the prior ones — an action that failed leaves the page's perceived
// state exactly as it was before the attempt (spec §7's
// retry-on-error contract).
func (m *Manager) RestorePrior() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prior == nil {
		return
	}
	m.current = m.prior
	m.facts = factpack.Build(m.current, factpack.Options{})
}
