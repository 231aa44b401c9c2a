package cdp

import (
	"context"
	"sync"
	"time"
)

// NetworkTracker counts in-flight requests on a Session's Network
// domain and answers "has the page gone quiet" (spec §5's
// waitForQuiet). It does not enable the Network domain itself —
// callers wire RequestWillBeSent/LoadingFinished/LoadingFailed through
// Session.On the same way frame.Tracker wires Page events.
type NetworkTracker struct {
	mu         sync.Mutex
	inflight   int
	generation int
	quietSince time.Time
}

// NewNetworkTracker returns an idle tracker. inflight starts at 0.
func NewNetworkTracker() *NetworkTracker {
	return &NetworkTracker{quietSince: time.Now()}
}

// RequestStarted records a new in-flight request for the current
// navigation generation.
func (n *NetworkTracker) RequestStarted() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.inflight++
	n.quietSince = time.Time{}
}

// RequestFinished records a completed or failed request. inflight
// never drops below 0. The call carries no generation: a late
// completion from before the last Reset is absorbed only while
// inflight is 0; once a request of the new generation is in flight, a
// late completion decrements inflight like any other. Generation lets
// a caller recognise such events itself.
func (n *NetworkTracker) RequestFinished() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.inflight > 0 {
		n.inflight--
	}
	if n.inflight == 0 {
		n.quietSince = time.Now()
	}
}

// Reset bumps the generation counter on navigation and zeroes
// inflight, so requests belonging to the page being left behind can't
// hold the new page's quiet window hostage (spec §5's navigation
// generation counter).
func (n *NetworkTracker) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.generation++
	n.inflight = 0
	n.quietSince = time.Now()
}

// Generation returns the current navigation generation, for callers
// that need to discard a late event themselves (e.g. one carrying a
// requestId issued before the last Reset).
func (n *NetworkTracker) Generation() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.generation
}

func (n *NetworkTracker) quietElapsed() (time.Duration, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.inflight > 0 || n.quietSince.IsZero() {
		return 0, false
	}
	return time.Since(n.quietSince), true
}

// WaitForQuiet polls until inflight has stayed at 0 for quietWindow,
// or idleTimeout elapses first. It resolves to false on timeout; it
// never returns an error and never throws (spec §5, §8). The quiet
// window resets every time inflight returns above 0, so a late
// request restarts the wait rather than letting a stale "was quiet"
// observation win a race.
func WaitForQuiet(ctx context.Context, n *NetworkTracker, idleTimeout, quietWindow time.Duration) bool {
	deadline := time.Now().Add(idleTimeout)
	const pollInterval = 20 * time.Millisecond

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if elapsed, quiet := n.quietElapsed(); quiet && elapsed >= quietWindow {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
