package factpack

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pageperceive/core/snapshot"
)

const (
	defaultMinActionScore = 0.2
	defaultMaxActions     = 12
)

// Category is the closed set of action roles the renderer and the
// agent reason about (spec §4.6). CategoryGeneric is a valid, common
// answer, not a fallback that signals failure.
const (
	CategoryPrimaryCTA   = "primary-cta"
	CategorySecondaryCTA = "secondary-cta"
	CategoryNavigation   = "navigation"
	CategoryFormSubmit   = "form-submit"
	CategorySearch       = "search"
	CategoryCartAction   = "cart-action"
	CategoryAuthAction   = "auth-action"
	CategoryDialogAction = "dialog-action"
	CategoryMediaControl = "media-control"
	CategoryGeneric      = "generic"
)

// primaryCategories is the set a primary CTA may be drawn from (spec
// §4.6: "the first action whose category is in {primary-cta,
// cart-action, form-submit, auth-action}").
var primaryCategories = map[string]bool{
	CategoryPrimaryCTA: true,
	CategoryCartAction: true,
	CategoryFormSubmit: true,
	CategoryAuthAction: true,
}

// ActionFact is one candidate action surfaced to the renderer, scored
// and categorized (spec §4.6).
type ActionFact struct {
	NodeID    string
	EID       string
	Label     string
	Kind      snapshot.Kind
	Score     float64
	Category  string
	IsPrimary bool
}

// actionVerbWords is the scoring table's "label matches an action-verb
// regex" signal — the union of CTA, cart, and auth verbs.
var actionVerbWords = regexp.MustCompile(`(?i)buy|add to cart|add to bag|checkout|continue|submit|sign.?up|sign.?in|sign.?out|log.?in|log.?out|register|get started|subscribe|confirm|book now|apply`)

var cartWords = regexp.MustCompile(`(?i)add to cart|add to bag|buy now|place order|checkout`)
var authWords = regexp.MustCompile(`(?i)sign.?in|sign.?up|sign.?out|log.?in|log.?out|register|create account`)
var searchWords = regexp.MustCompile(`(?i)\bsearch\b|\bfind\b`)
var mediaWords = regexp.MustCompile(`(?i)\bplay\b|\bpause\b|\bmute\b|\bunmute\b|next track|previous track|full.?screen`)
var primaryCTAWords = regexp.MustCompile(`(?i)buy|checkout|continue|submit|get started|subscribe|confirm|book now|apply`)

// SelectActions scores every visible, enabled interactive node by the
// additive table spec §4.6 defines, keeps the ones scoring at least
// minScore (0 picks the package default), and returns at most
// maxActions (0 picks the package default), highest score first. forms
// supplies each form's submit button EID so that control scores and
// categorizes as form-submit rather than whatever its label suggests.
func SelectActions(snap *snapshot.BaseSnapshot, dialog DialogFact, forms []FormFact, minScore float64, maxActions int) []ActionFact {
	if minScore <= 0 {
		minScore = defaultMinActionScore
	}
	if maxActions <= 0 {
		maxActions = defaultMaxActions
	}

	submitEIDs := make(map[string]bool, len(forms))
	for _, f := range forms {
		if f.SubmitEID != "" {
			submitEIDs[f.SubmitEID] = true
		}
	}

	var interactive []snapshot.ReadableNode
	for _, n := range snap.Nodes {
		if snapshot.InteractiveKinds[n.Kind] && n.State != nil && n.State.Visible && n.State.Enabled {
			interactive = append(interactive, n)
		}
	}
	medianArea := medianBBoxArea(interactive)

	var candidates []ActionFact
	for _, n := range interactive {
		score := scoreAction(n, dialog, medianArea, submitEIDs)
		if score < minScore {
			continue
		}
		candidates = append(candidates, ActionFact{
			NodeID:   n.NodeID,
			EID:      n.EID,
			Label:    n.Label,
			Kind:     n.Kind,
			Score:    score,
			Category: categorizeAction(n, dialog, submitEIDs),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > maxActions {
		candidates = candidates[:maxActions]
	}
	assignPrimary(candidates)
	return candidates
}

// scoreAction applies spec §4.6's additive action-scoring table
// verbatim: visible +0.1, enabled +0.1, above the fold +0.25, region
// main +0.15 / header +0.1, kind button +0.15, non-empty label +0.1,
// action-verb regex match +0.15, area above median bbox area +0.1, a
// form's submit button +0.2, inside a detected dialog +0.15.
func scoreAction(n snapshot.ReadableNode, dialog DialogFact, medianArea float64, submitEIDs map[string]bool) float64 {
	score := 0.0
	if n.State != nil && n.State.Visible {
		score += 0.1
	}
	if n.State != nil && n.State.Enabled {
		score += 0.1
	}
	if n.Layout.ScreenZone == "above-the-fold" {
		score += 0.25
	}
	switch n.Where.Region {
	case snapshot.RegionMain:
		score += 0.15
	case snapshot.RegionHeader:
		score += 0.1
	}
	if n.Kind == snapshot.KindButton {
		score += 0.15
	}
	if strings.TrimSpace(n.Label) != "" {
		score += 0.1
	}
	if actionVerbWords.MatchString(n.Label) {
		score += 0.15
	}
	if area := n.Layout.BBox.W * n.Layout.BBox.H; area > medianArea {
		score += 0.1
	}
	if submitEIDs[n.EID] {
		score += 0.2
	}
	if dialog.Present && n.Where.Region == snapshot.RegionDialog {
		score += 0.15
	}

	if score > 1 {
		score = 1
	}
	return score
}

// medianBBoxArea returns the median bounding-box area across nodes,
// the reference point scoreAction's "area above median bbox area"
// signal compares each candidate against. It must be computed once
// over the whole candidate set before any candidate is scored.
func medianBBoxArea(nodes []snapshot.ReadableNode) float64 {
	if len(nodes) == 0 {
		return 0
	}
	areas := make([]float64, len(nodes))
	for i, n := range nodes {
		areas[i] = n.Layout.BBox.W * n.Layout.BBox.H
	}
	sort.Float64s(areas)
	mid := len(areas) / 2
	if len(areas)%2 == 0 {
		return (areas[mid-1] + areas[mid]) / 2
	}
	return areas[mid]
}

// categorizeAction assigns one of spec §4.6's ten categories, most
// specific signal first: a form's own submit button always
// categorizes as form-submit even when its label also reads like an
// auth or cart action (spec §8 scenario 6).
func categorizeAction(n snapshot.ReadableNode, dialog DialogFact, submitEIDs map[string]bool) string {
	label := strings.TrimSpace(n.Label)
	switch {
	case submitEIDs[n.EID]:
		return CategoryFormSubmit
	case authWords.MatchString(label):
		return CategoryAuthAction
	case cartWords.MatchString(label):
		return CategoryCartAction
	case n.Where.Region == snapshot.RegionSearch || (n.Kind == snapshot.KindInput && searchWords.MatchString(label)):
		return CategorySearch
	case mediaWords.MatchString(label):
		return CategoryMediaControl
	case dialog.Present && n.Where.Region == snapshot.RegionDialog:
		return CategoryDialogAction
	case n.Where.Region == snapshot.RegionNav || n.Kind == snapshot.KindLink:
		return CategoryNavigation
	case primaryCTAWords.MatchString(label):
		return CategoryPrimaryCTA
	case n.Kind == snapshot.KindButton:
		return CategorySecondaryCTA
	default:
		return CategoryGeneric
	}
}

// assignPrimary flags the first action whose category qualifies as a
// primary CTA, falling back to the highest-scored button (spec §4.6).
func assignPrimary(candidates []ActionFact) {
	for i := range candidates {
		if primaryCategories[candidates[i].Category] {
			candidates[i].IsPrimary = true
			return
		}
	}
	for i := range candidates {
		if candidates[i].Kind == snapshot.KindButton {
			candidates[i].IsPrimary = true
			return
		}
	}
}
