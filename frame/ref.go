package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopedElementRef is the only reliable cross-turn reference to a DOM
// node: {backend_node_id, frame_id, loader_id}. The composite key
// frame_id:loader_id:backend_node_id is the sole authority for "does
// this reference still point at the same node" (spec §3).
type ScopedElementRef struct {
	BackendNodeID int64
	FrameID       string
	LoaderID      string
}

func (r ScopedElementRef) compositeKey() string {
	return r.FrameID + ":" + r.LoaderID + ":" + strconv.FormatInt(r.BackendNodeID, 10)
}

// Serialize renders the ref using the format spec §6 defines: just
// "loader_id:backend_node_id" for the main frame (no need to carry a
// redundant frame id), or "frame_id:loader_id:backend_node_id"
// otherwise. loader_id is always present so navigations invalidate the
// string.
func (t *Tracker) Serialize(ref ScopedElementRef) string {
	if ref.FrameID == t.mainFrameID {
		return fmt.Sprintf("%s:%d", ref.LoaderID, ref.BackendNodeID)
	}
	return fmt.Sprintf("%s:%s:%d", ref.FrameID, ref.LoaderID, ref.BackendNodeID)
}

// Parse reconstructs a ScopedElementRef from its serialized form and
// validates it against the tracker's current frame state. It returns
// nil if the loader_id no longer matches — a stale ref from a
// previous page load.
func (t *Tracker) Parse(serialized string) *ScopedElementRef {
	parts := strings.Split(serialized, ":")

	var ref ScopedElementRef
	switch len(parts) {
	case 2:
		backendID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil
		}
		ref = ScopedElementRef{FrameID: t.mainFrameID, LoaderID: parts[0], BackendNodeID: backendID}
	case 3:
		backendID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil
		}
		ref = ScopedElementRef{FrameID: parts[0], LoaderID: parts[1], BackendNodeID: backendID}
	default:
		return nil
	}

	if !t.IsValid(ref) {
		return nil
	}
	return &ref
}
