package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Input is everything the EID hash is a pure function of (spec §4.5).
// Scroll offset and viewport size are deliberately absent.
type Input struct {
	NormalizedName string
	Kind           string
	Role           string // explicit role attribute, if any
	Region         string
	GroupPath      []string
	PositionHint   string // last segment of GroupPath
	Layer          string // "main" unless Region is dialog or an explicit overlay
	Href           string // links only
	ShadowPath     string // joined shadow root path, if any
}

// LandmarkPath renders "region/group/path/segments" the way spec §4.5
// defines it.
func (in Input) LandmarkPath() string {
	if len(in.GroupPath) == 0 {
		return in.Region
	}
	return in.Region + "/" + strings.Join(in.GroupPath, "/")
}

// Compute hashes the tuple with SHA-256 and keeps the first 12 hex
// characters — "any stable algorithm" per spec §4.5, SHA-256 is what
// this core uses. Compute is pure: identical Input produces an
// identical EID on every call, across processes.
func Compute(in Input) string {
	layer := in.Layer
	if layer == "" {
		layer = "main"
	}
	position := in.PositionHint
	if position == "" && len(in.GroupPath) > 0 {
		position = in.GroupPath[len(in.GroupPath)-1]
	}

	parts := []string{
		in.NormalizedName,
		in.Kind,
		in.Role,
		in.LandmarkPath(),
		position,
		layer,
		in.Href,
		in.ShadowPath,
	}
	joined := strings.Join(parts, "\x1f") // unit separator avoids field collisions

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:12]
}

// Resolver assigns EIDs across a whole snapshot and resolves
// collisions: the first occurrence of a base EID keeps it; subsequent
// duplicates acquire a numeric suffix (-2, -3, …) in document order
// (spec §4.5, §8).
type Resolver struct {
	seen map[string]int // base EID → next suffix to assign
}

func NewResolver() *Resolver {
	return &Resolver{seen: make(map[string]int)}
}

// Assign returns the final EID for a node given its base (pre-suffix)
// hash, called once per node in document order.
func (r *Resolver) Assign(base string) string {
	n, exists := r.seen[base]
	if !exists {
		r.seen[base] = 2
		return base
	}
	r.seen[base] = n + 1
	return base + "-" + strconv.Itoa(n)
}
