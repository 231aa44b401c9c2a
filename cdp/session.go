// Package cdp provides the session abstraction the rest of the core
// builds on: one send, one on/off/once, one close, one isActive. The
// real WebSocket framing and target lifecycle belong to a collaborator
// (the CDP transport is explicitly out of scope for this package); cdp
// only defines the Transport it needs and a default adapter over
// go-rod's *rod.Page.
package cdp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"
)

// DefaultTimeout bounds every Session.Call unless overridden.
const DefaultTimeout = 30 * time.Second

// Transport is the minimal surface a CDP connection must expose.
// Implementations deliver raw command/response and event traffic;
// Session adds domain auto-enable, timeouts, and detach tracking on
// top.
type Transport interface {
	// Call issues a CDP command and returns its raw JSON result.
	Call(ctx context.Context, method string, params any) (result []byte, err error)
	// Subscribe registers a handler for a CDP event name. It returns an
	// unsubscribe function. Handlers receive the raw event payload.
	Subscribe(event string, handler func(payload []byte)) (unsubscribe func())
	// Closed reports whether the underlying connection has already
	// been torn down (detached target, closed socket, …).
	Closed() bool
}

// domainsWithoutEnable lists CDP domains that have no enable/disable
// pair; a method from one of these must never trigger an auto-enable
// call.
var domainsWithoutEnable = map[string]bool{
	"Browser":       true,
	"Target":        true,
	"SystemInfo":    true,
	"Input":         true,
	"IO":            true,
	"DeviceAccess":  true,
	"Tethering":     true,
	"HeapProfiler":  true,
	"Schema":        true,
}

// Session wraps a Transport with auto-enable, timeouts, and detach
// tracking, matching spec §4.1.
type Session struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration

	mu            sync.Mutex
	active        bool
	enabledDomain map[string]bool
	handlers      map[string][]func()
}

// New wraps transport in a Session. The session starts active.
func New(transport Transport, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		transport:     transport,
		logger:        logger,
		timeout:       DefaultTimeout,
		active:        true,
		enabledDomain: make(map[string]bool),
		handlers:      make(map[string][]func()),
	}
}

// WithTimeout overrides the per-call timeout (default 30s).
func (s *Session) WithTimeout(d time.Duration) *Session {
	s.timeout = d
	return s
}

// IsActive reports whether the session still believes its transport is
// live.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Call sends a CDP command, auto-enabling its owning domain on first
// use, and races the send against the session timeout. A command from
// a domain with no enable/disable pair (Browser, Target, …) is sent
// directly.
func (s *Session) Call(ctx context.Context, method string, params any, out any) error {
	if !s.IsActive() {
		return &Error{Kind: KindSessionClosed, Method: method}
	}

	if err := s.ensureEnabled(ctx, method); err != nil {
		// Auto-enable failures are not fatal to the call itself; log
		// and proceed, the command may still succeed or fail on its
		// own terms.
		s.logger.Debug("cdp: domain auto-enable failed", "method", method, "error", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := s.transport.Call(ctx, method, params)
		ch <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return &Error{Kind: KindTimeout, Method: method, Err: ctx.Err()}
	case r := <-ch:
		if r.err != nil {
			if s.looksDetached(r.err) {
				s.markClosed()
				return &Error{Kind: KindSessionClosed, Method: method, Err: r.err}
			}
			if isExpectedFailure(method, r.err) {
				s.logger.Debug("cdp: expected command failure", "method", method, "error", r.err)
			}
			return &Error{Kind: KindCommandFailed, Method: method, Err: r.err}
		}
		if out != nil && len(r.data) > 0 {
			if err := decode(r.data, out); err != nil {
				return &Error{Kind: KindUnknown, Method: method, Err: err}
			}
		}
		return nil
	}
}

// On subscribes to a CDP event. The handler is tracked so Close can
// unregister it even if the caller never calls the returned Off.
func (s *Session) On(event string, handler func(payload []byte)) (off func()) {
	unsub := s.transport.Subscribe(event, handler)
	s.mu.Lock()
	s.handlers[event] = append(s.handlers[event], unsub)
	s.mu.Unlock()
	return unsub
}

// Once subscribes to a single occurrence of event, then unsubscribes
// itself.
func (s *Session) Once(event string, handler func(payload []byte)) {
	var off func()
	off = s.On(event, func(payload []byte) {
		off()
		handler(payload)
	})
}

// Close unregisters every tracked handler and marks the session
// inactive. It does not close the underlying transport — that belongs
// to whoever owns it.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, offs := range s.handlers {
		for _, off := range offs {
			off()
		}
	}
	s.handlers = make(map[string][]func())
	s.active = false
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

func (s *Session) ensureEnabled(ctx context.Context, method string) error {
	domain, leaf := splitMethod(method)
	if domain == "" || domainsWithoutEnable[domain] {
		return nil
	}
	if leaf == "enable" || leaf == "disable" {
		return nil
	}

	s.mu.Lock()
	if s.enabledDomain[domain] {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	enableMethod := domain + ".enable"
	_, err := s.transport.Call(ctx, enableMethod, struct{}{})
	if err != nil {
		return fmt.Errorf("cdp: auto-enable %s: %w", enableMethod, err)
	}

	s.mu.Lock()
	s.enabledDomain[domain] = true
	s.mu.Unlock()
	return nil
}

func splitMethod(method string) (domain, leaf string) {
	for i := 0; i < len(method); i++ {
		if method[i] == '.' {
			return method[:i], method[i+1:]
		}
	}
	return "", method
}
