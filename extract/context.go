// Package extract pulls the three heterogeneous CDP trees (DOM,
// accessibility, layout) into typed per-node records the Snapshot
// Compiler fuses into a BaseSnapshot (spec §4.3). Every extractor here
// is a pure function over a CDP response plus a shared Context; none
// mutate global state.
package extract

import (
	"log/slog"

	"github.com/pageperceive/core/cdp"
)

// Options configures extraction limits (spec §4.3, §4.4, §5).
type Options struct {
	// MaxNodes bounds the Snapshot Compiler's candidate set. Default 2000.
	MaxNodes int
	// AXFanoutConcurrency bounds concurrent per-frame accessibility
	// tree fetches. Default 8.
	AXFanoutConcurrency int
}

func (o *Options) defaults() {
	if o.MaxNodes <= 0 {
		o.MaxNodes = 2000
	}
	if o.AXFanoutConcurrency <= 0 {
		o.AXFanoutConcurrency = 8
	}
}

// Context is shared, read-only state passed to every extractor: the
// session to pull data from, extraction options, and small caches that
// make repeated lookups (computed style, box model) cheap within one
// capture.
type Context struct {
	Session *cdp.Session
	Options Options
	Logger  *slog.Logger
}

func NewContext(session *cdp.Session, opts Options, logger *slog.Logger) *Context {
	opts.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{Session: session, Options: opts, Logger: logger}
}
