// Package frame tracks which frames currently exist on a page and
// which element references issued against them are still live, per
// spec §4.2. It owns the only authority on reference validity: the
// composite key frame_id:loader_id:backend_node_id.
package frame

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pageperceive/core/cdp"
)

// maxIssuedRefs bounds the tracker's memory: once the issued-ref map
// reaches this size, the oldest evictBatch entries are dropped (spec
// §4.2, §5).
const (
	maxIssuedRefs = 10_000
	evictBatch    = 1_000
)

// FrameState is a frame as the tracker understands it.
type FrameState struct {
	FrameID     string
	LoaderID    string
	URL         string
	IsMainFrame bool
}

// Tracker owns frame lifecycle and every ScopedElementRef ever issued.
// It is single-writer, single-reader under the cooperative scheduling
// model the rest of the core assumes (spec §5, §9): callers must not
// share a Tracker across goroutines that might race its mutators.
type Tracker struct {
	session *cdp.Session
	logger  *slog.Logger
	network *cdp.NetworkTracker

	mu          sync.Mutex
	frames      map[string]FrameState
	mainFrameID string
	issued      map[string]ScopedElementRef // composite key → ref, insertion order via issuedOrder
	issuedOrder []string
	pending     []ScopedElementRef

	initOnce sync.Once
	initErr  error
	initDone chan struct{}
}

// SetNetworkTracker wires a network idle tracker so a main-frame
// navigation bumps its generation counter (spec §5): in-flight
// requests belonging to the page being left behind must not hold the
// new page's waitForQuiet hostage.
func (t *Tracker) SetNetworkTracker(nt *cdp.NetworkTracker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.network = nt
}

// New creates a Tracker bound to session. Call Init before use.
func New(session *cdp.Session, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		session:  session,
		logger:   logger,
		frames:   make(map[string]FrameState),
		issued:   make(map[string]ScopedElementRef),
		initDone: make(chan struct{}),
	}
}

// Init enables the Page domain, snapshots the full frame tree, and
// subscribes to frameNavigated/frameDetached. It is idempotent:
// concurrent callers block on the same initialization and observe the
// same result.
func (t *Tracker) Init(ctx context.Context) error {
	t.initOnce.Do(func() {
		t.initErr = t.doInit(ctx)
		close(t.initDone)
	})
	<-t.initDone
	return t.initErr
}

func (t *Tracker) doInit(ctx context.Context) error {
	if err := t.session.Call(ctx, "Page.enable", nil, nil); err != nil {
		return fmt.Errorf("frame: enable Page domain: %w", err)
	}

	var tree struct {
		FrameTree struct {
			Frame    rawFrame    `json:"frame"`
			Children []rawFrame2 `json:"childFrames"`
		} `json:"frameTree"`
	}
	if err := t.session.Call(ctx, "Page.getFrameTree", nil, &tree); err != nil {
		return fmt.Errorf("frame: get frame tree: %w", err)
	}

	t.mu.Lock()
	t.mainFrameID = tree.FrameTree.Frame.ID
	t.setFrameLocked(tree.FrameTree.Frame.ID, tree.FrameTree.Frame.LoaderID, tree.FrameTree.Frame.URL, true)
	for _, child := range tree.FrameTree.Children {
		t.walkChildLocked(child)
	}
	t.mu.Unlock()

	t.session.On("Page.frameNavigated", func(payload []byte) {
		var ev struct {
			Frame rawFrame `json:"frame"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		t.onFrameNavigated(ev.Frame)
	})

	t.session.On("Page.frameDetached", func(payload []byte) {
		var ev struct {
			FrameID string `json:"frameId"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		t.onFrameDetached(ev.FrameID)
	})

	return nil
}

type rawFrame struct {
	ID       string `json:"id"`
	LoaderID string `json:"loaderId"`
	URL      string `json:"url"`
}

type rawFrame2 struct {
	Frame    rawFrame    `json:"frame"`
	Children []rawFrame2 `json:"childFrames"`
}

func (t *Tracker) walkChildLocked(f rawFrame2) {
	t.setFrameLocked(f.Frame.ID, f.Frame.LoaderID, f.Frame.URL, false)
	for _, c := range f.Children {
		t.walkChildLocked(c)
	}
}

func (t *Tracker) setFrameLocked(frameID, loaderID, url string, isMain bool) {
	t.frames[frameID] = FrameState{FrameID: frameID, LoaderID: loaderID, URL: url, IsMainFrame: isMain}
}

// onFrameNavigated handles spec §4.2's navigation rule: if the
// loader_id changed, every ref issued under the old (frame_id,
// loader_id) moves to pendingInvalidations before the new state is
// written.
func (t *Tracker) onFrameNavigated(f rawFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, existed := t.frames[f.ID]
	isMain := f.ID == t.mainFrameID || !existed && t.mainFrameID == ""
	if isMain {
		t.mainFrameID = f.ID
	}

	if existed && prev.LoaderID != f.LoaderID {
		for key, ref := range t.issued {
			if ref.FrameID == f.ID && ref.LoaderID == prev.LoaderID {
				t.pending = append(t.pending, ref)
				delete(t.issued, key)
			}
		}
		if isMain && t.network != nil {
			t.network.Reset()
		}
	}

	t.setFrameLocked(f.ID, f.LoaderID, f.URL, isMain)
}

func (t *Tracker) onFrameDetached(frameID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, ref := range t.issued {
		if ref.FrameID == frameID {
			t.pending = append(t.pending, ref)
			delete(t.issued, key)
		}
	}
	delete(t.frames, frameID)
}

// CreateRef mints a ScopedElementRef for a backend node in the given
// frame. It returns nil if the frame is unknown or the tracker hasn't
// been initialized. Bounded growth: once the issued map reaches
// maxIssuedRefs, the oldest evictBatch entries are dropped before
// insertion (spec §4.2, §5).
func (t *Tracker) CreateRef(backendNodeID int64, frameID string) *ScopedElementRef {
	t.mu.Lock()
	defer t.mu.Unlock()

	fs, ok := t.frames[frameID]
	if !ok {
		return nil
	}

	ref := ScopedElementRef{BackendNodeID: backendNodeID, FrameID: frameID, LoaderID: fs.LoaderID}
	key := ref.compositeKey()

	if _, exists := t.issued[key]; !exists {
		if len(t.issued) >= maxIssuedRefs {
			t.evictOldestLocked(evictBatch)
		}
		t.issued[key] = ref
		t.issuedOrder = append(t.issuedOrder, key)
	}
	return &ref
}

func (t *Tracker) evictOldestLocked(n int) {
	if n > len(t.issuedOrder) {
		n = len(t.issuedOrder)
	}
	for _, key := range t.issuedOrder[:n] {
		delete(t.issued, key)
	}
	t.issuedOrder = t.issuedOrder[n:]
}

// IsValid reports whether ref's frame still exists with a matching
// loader_id.
func (t *Tracker) IsValid(ref ScopedElementRef) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fs, ok := t.frames[ref.FrameID]
	return ok && fs.LoaderID == ref.LoaderID
}

// DrainInvalidations moves queued invalid refs to the caller, clearing
// the queue. The diff engine calls this immediately before computing a
// delta so frame-navigation casualties surface as removed (spec §4.2,
// §5).
func (t *Tracker) DrainInvalidations() []ScopedElementRef {
	t.mu.Lock()
	defer t.mu.Unlock()
	drained := t.pending
	t.pending = nil
	return drained
}

// PruneRefs removes refs explicitly reported as gone (e.g. the diff
// engine's removed set).
func (t *Tracker) PruneRefs(refs []ScopedElementRef) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ref := range refs {
		key := ref.compositeKey()
		delete(t.issued, key)
	}
}

// ClearAllRefs drops every issued ref, e.g. on a hard navigation.
func (t *Tracker) ClearAllRefs() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.issued = make(map[string]ScopedElementRef)
	t.issuedOrder = nil
}

// MainFrameID returns the current main frame id.
func (t *Tracker) MainFrameID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mainFrameID
}

// Frame returns the current FrameState for frameID, if known.
func (t *Tracker) Frame(frameID string) (FrameState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fs, ok := t.frames[frameID]
	return fs, ok
}
