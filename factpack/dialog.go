// Package factpack derives the dialog/form/page-type/action summary
// a snapshot's consumers actually want — "is there a dialog open, what
// can I click" — instead of making every caller re-walk the node list
// (spec §4.6).
package factpack

import (
	"regexp"
	"strings"

	"github.com/pageperceive/core/query"
	"github.com/pageperceive/core/snapshot"
)

// DetectionMethod records which signal identified a dialog, in
// descending order of certainty: an explicit role wins over
// aria-modal, which wins over the bare <dialog> tag, which wins over
// the region-only heuristic fallback (spec §4.6).
type DetectionMethod string

const (
	DetectedByRoleDialog      DetectionMethod = "role-dialog"
	DetectedByRoleAlertDialog DetectionMethod = "role-alertdialog"
	DetectedByHTMLDialog      DetectionMethod = "html-dialog"
	DetectedByAriaModal       DetectionMethod = "aria-modal"
	DetectedByHeuristic       DetectionMethod = "heuristic"
)

// DialogType is the closed set of dialog shapes the action classifier
// keys off of (spec §4.6).
type DialogType string

const (
	DialogCookieConsent DialogType = "cookie-consent"
	DialogNewsletter    DialogType = "newsletter"
	DialogAgeGate       DialogType = "age-gate"
	DialogLoginPrompt   DialogType = "login-prompt"
	DialogAlert         DialogType = "alert"
	DialogModal         DialogType = "modal"
	DialogConfirm       DialogType = "confirm"
	DialogUnknown       DialogType = "unknown"
)

// DialogAction is one clickable action found inside a dialog,
// classified into the role it plays in the dialog's flow.
type DialogAction struct {
	NodeID   string
	EID      string
	Label    string
	Category string // "primary" | "secondary" | "dismiss" | "unknown"
}

// DialogFact is the detected dialog, if any, and everything about it
// the action selector and renderer need.
type DialogFact struct {
	Present    bool
	Method     DetectionMethod
	Title      string
	Type       DialogType
	Confidence float64
	Actions    []DialogAction

	// HasBlockingDialog is true for dialogs detected through an
	// explicit ARIA/HTML modal signal — role-dialog, role-alertdialog,
	// aria-modal, or the <dialog> tag — as opposed to a heuristic
	// region match, which is too uncertain to withhold truncation
	// protection over (spec §4.10 "never truncate a <dialogs> section
	// that is blocking").
	HasBlockingDialog bool
}

var dismissWords = regexp.MustCompile(`(?i)^(cancel|close|dismiss|no[, ]|not now|maybe later|×|x)$`)
var primaryWords = regexp.MustCompile(`(?i)^(ok|okay|confirm|submit|save|continue|accept|yes|agree|got it|proceed)$`)

var cookiePattern = regexp.MustCompile(`(?i)cookie|consent|gdpr|privacy`)
var newsletterPattern = regexp.MustCompile(`(?i)newsletter|subscribe|stay (in the loop|updated)|join our (list|mailing)|weekly digest`)
var ageGatePattern = regexp.MustCompile(`(?i)verify your age|confirm your age|are you (at least )?\d{2}|date of birth|i am (over|under) \d{2}`)
var loginPromptPattern = regexp.MustCompile(`(?i)sign in to continue|log in to (continue|view|access)|please log in|create an account to`)
var alertPattern = regexp.MustCompile(`(?i)error|warning|alert|failed|something went wrong`)
var confirmPattern = regexp.MustCompile(`(?i)are you sure|confirm|do you want to|delete\b.*\?`)

// DetectDialog finds the dialog region in snap, if any, and classifies
// it (spec §4.6). Every node in the dialog region counts toward one
// DialogFact, so nested or stacked dialogs are reported together as a
// single dialog.
func DetectDialog(snap *snapshot.BaseSnapshot) DialogFact {
	dialogNodes := query.Run(snap, query.Query{Region: snapshot.RegionDialog})
	if len(dialogNodes) == 0 {
		return DialogFact{Present: false}
	}

	method := detectMethod(dialogNodes)
	title := dialogTitle(dialogNodes)
	actions := dialogActions(dialogNodes)
	typ, confidence := classifyDialogType(method, title, dialogNodes)

	return DialogFact{
		Present:           true,
		Method:            method,
		Title:             title,
		Type:              typ,
		Confidence:        confidence,
		Actions:           actions,
		HasBlockingDialog: method != DetectedByHeuristic,
	}
}

// detectMethod reports the most certain signal present among the
// dialog region's nodes, in spec §4.6's priority order: an explicit
// role wins, then aria-modal, then the bare <dialog> tag, then a
// region-only heuristic match.
func detectMethod(nodes []snapshot.ReadableNode) DetectionMethod {
	for _, n := range nodes {
		if n.Attributes == nil {
			continue
		}
		switch n.Attributes.Role {
		case "alertdialog":
			return DetectedByRoleAlertDialog
		case "dialog":
			return DetectedByRoleDialog
		}
	}
	for _, n := range nodes {
		if n.Attributes != nil && n.Attributes.AriaModal == "true" {
			return DetectedByAriaModal
		}
	}
	for _, n := range nodes {
		if n.Kind == snapshot.KindDialog {
			return DetectedByHTMLDialog
		}
	}
	return DetectedByHeuristic
}

func dialogTitle(nodes []snapshot.ReadableNode) string {
	for _, n := range nodes {
		if n.Kind == snapshot.KindDialog && n.Label != "" {
			return n.Label
		}
	}
	for _, n := range nodes {
		if n.Kind == snapshot.KindHeading && n.Label != "" {
			return n.Label
		}
	}
	return ""
}

func dialogActions(nodes []snapshot.ReadableNode) []DialogAction {
	var out []DialogAction
	for _, n := range nodes {
		if n.Kind != snapshot.KindButton && n.Kind != snapshot.KindLink {
			continue
		}
		label := strings.TrimSpace(n.Label)
		category := "unknown"
		switch {
		case dismissWords.MatchString(label):
			category = "dismiss"
		case primaryWords.MatchString(label):
			category = "primary"
		case label != "":
			category = "secondary"
		}
		out = append(out, DialogAction{NodeID: n.NodeID, EID: n.EID, Label: label, Category: category})
	}
	return out
}

// classifyDialogType matches the dialog's text against per-type
// pattern sets, reporting the type with the most matches; confidence
// rises with the match count (spec §4.6). role-alertdialog always
// wins outright: "role-alertdialog always classifies as alert at 0.9
// confidence".
func classifyDialogType(method DetectionMethod, title string, nodes []snapshot.ReadableNode) (DialogType, float64) {
	if method == DetectedByRoleAlertDialog {
		return DialogAlert, 0.9
	}

	haystack := strings.ToLower(title)
	for _, n := range nodes {
		if n.Kind == snapshot.KindButton || n.Kind == snapshot.KindLink {
			haystack += " " + strings.ToLower(n.Label)
		}
	}

	candidates := []struct {
		typ DialogType
		re  *regexp.Regexp
	}{
		{DialogCookieConsent, cookiePattern},
		{DialogNewsletter, newsletterPattern},
		{DialogAgeGate, ageGatePattern},
		{DialogLoginPrompt, loginPromptPattern},
		{DialogAlert, alertPattern},
		{DialogConfirm, confirmPattern},
	}

	best := DialogUnknown
	bestMatches := 0
	for _, c := range candidates {
		if n := len(c.re.FindAllString(haystack, -1)); n > bestMatches {
			bestMatches, best = n, c.typ
		}
	}
	if bestMatches == 0 {
		if hasFormField(nodes) {
			return DialogModal, 0.5
		}
		return DialogUnknown, 0.3
	}

	confidence := 0.6 + 0.1*float64(bestMatches)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return best, confidence
}

func hasFormField(nodes []snapshot.ReadableNode) bool {
	for _, n := range nodes {
		if n.Kind == snapshot.KindInput || n.Kind == snapshot.KindTextarea || n.Kind == snapshot.KindSelect {
			return true
		}
	}
	return false
}
