package factpack

import (
	"regexp"
	"strings"

	"github.com/pageperceive/core/snapshot"
)

// PageType is the closed set of coarse page archetypes the classifier
// chooses among (spec §4.6).
type PageType string

const (
	PageLogin      PageType = "login"
	PageSignup     PageType = "signup"
	PageSearch     PageType = "search_results"
	PageProduct    PageType = "product_detail"
	PageCheckout   PageType = "checkout"
	PageArticle    PageType = "article"
	PageDashboard  PageType = "dashboard"
	PageListing    PageType = "listing"
	PageGeneric    PageType = "generic"
)

// PageClassFact is the page classifier's output.
type PageClassFact struct {
	Type           PageType
	Confidence     float64
	Signals        []string
	Entities       []string
	HasForms       bool
	HasNavigation  bool
	HasMainContent bool
	HasSearch      bool
}

// maxEntities bounds how many primary-content entities the classifier
// reports — a long article's heading list shouldn't balloon the
// FactPack.
const maxEntities = 5

var loginPattern = regexp.MustCompile(`(?i)log.?in|sign.?in`)
var signupPattern = regexp.MustCompile(`(?i)sign.?up|register|create.?account`)
var checkoutPattern = regexp.MustCompile(`(?i)checkout|payment|billing|shipping`)

// ClassifyPage derives the page's archetype from its title, form
// purposes, and structural signals (spec §4.6). It is intentionally a
// set of cheap heuristics, not a model: every signal it used is
// reported so a caller can judge confidence itself.
func ClassifyPage(snap *snapshot.BaseSnapshot, forms []FormFact) PageClassFact {
	fact := PageClassFact{Type: PageGeneric, Confidence: 0.3}

	for _, n := range snap.Nodes {
		switch n.Kind {
		case snapshot.KindForm, snapshot.KindInput, snapshot.KindTextarea, snapshot.KindSelect:
			fact.HasForms = true
		case snapshot.KindNavigation:
			fact.HasNavigation = true
		}
		if n.Where.Region == snapshot.RegionMain {
			fact.HasMainContent = true
		}
		if n.Where.Region == snapshot.RegionSearch {
			fact.HasSearch = true
		}
		if n.Kind == snapshot.KindHeading && n.Where.Region == snapshot.RegionMain && n.Label != "" {
			if len(fact.Entities) < maxEntities && !containsString(fact.Entities, n.Label) {
				fact.Entities = append(fact.Entities, n.Label)
			}
		}
	}
	if len(fact.Entities) > 0 {
		fact.Signals = append(fact.Signals, "primary_content_entities")
	}

	title := strings.ToLower(snap.Title)
	hasPasswordField := false
	hasEmailField := false
	for _, f := range forms {
		for _, field := range f.Fields {
			if field.Purpose == PurposePassword {
				hasPasswordField = true
			}
			if field.Purpose == PurposeEmail {
				hasEmailField = true
			}
		}
	}

	switch {
	case checkoutPattern.MatchString(title) || checkoutPattern.MatchString(snap.URL):
		fact.Type, fact.Confidence = PageCheckout, 0.7
		fact.Signals = append(fact.Signals, "url_or_title_matches_checkout")
	case signupPattern.MatchString(title) && hasPasswordField:
		fact.Type, fact.Confidence = PageSignup, 0.75
		fact.Signals = append(fact.Signals, "title_matches_signup", "has_password_field")
	case loginPattern.MatchString(title) && (hasPasswordField || hasEmailField):
		fact.Type, fact.Confidence = PageLogin, 0.8
		fact.Signals = append(fact.Signals, "title_matches_login", "has_credential_field")
	case fact.HasSearch && !fact.HasMainContent:
		fact.Type, fact.Confidence = PageSearch, 0.5
		fact.Signals = append(fact.Signals, "has_search_region")
	case len(forms) > 0 && fact.HasMainContent:
		fact.Type, fact.Confidence = PageListing, 0.35
		fact.Signals = append(fact.Signals, "has_forms_and_main_content")
	case fact.HasMainContent && !fact.HasForms:
		fact.Type, fact.Confidence = PageArticle, 0.4
		fact.Signals = append(fact.Signals, "main_content_no_forms")
	}

	return fact
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
