package factpack

import (
	"regexp"
	"strings"

	"github.com/pageperceive/core/query"
	"github.com/pageperceive/core/snapshot"
)

// FieldPurpose is the closed set of semantic field types the form
// detector infers from a field's label, name, and input type — the
// vocabulary an agent reasons about a form with, not the raw
// attribute values (spec §4.6).
type FieldPurpose string

const (
	PurposeEmail      FieldPurpose = "email"
	PurposePassword   FieldPurpose = "password"
	PurposeName       FieldPurpose = "name"
	PurposePhone      FieldPurpose = "phone"
	PurposeAddress    FieldPurpose = "address"
	PurposeSearch     FieldPurpose = "search"
	PurposeDate       FieldPurpose = "date"
	PurposeQuantity   FieldPurpose = "quantity"
	PurposeAgreement  FieldPurpose = "agreement"
	PurposeUnknown    FieldPurpose = "unknown"
)

var purposePatterns = []struct {
	purpose FieldPurpose
	re      *regexp.Regexp
}{
	{PurposeEmail, regexp.MustCompile(`(?i)e[-]?mail`)},
	{PurposePassword, regexp.MustCompile(`(?i)password|passcode`)},
	{PurposePhone, regexp.MustCompile(`(?i)phone|mobile|tel\b`)},
	{PurposeAddress, regexp.MustCompile(`(?i)address|city|state|zip|postal|country`)},
	{PurposeName, regexp.MustCompile(`(?i)\bname\b|first.?name|last.?name|full.?name`)},
	{PurposeSearch, regexp.MustCompile(`(?i)search|query|\bq\b`)},
	{PurposeDate, regexp.MustCompile(`(?i)date|birthday|dob`)},
	{PurposeQuantity, regexp.MustCompile(`(?i)quantity|qty|amount|count`)},
	{PurposeAgreement, regexp.MustCompile(`(?i)agree|accept|terms|consent`)},
}

// FormField is one form field's identity plus the semantic purpose
// inferred for it.
type FormField struct {
	NodeID      string
	EID         string
	Label       string
	Kind        snapshot.Kind
	Purpose     FieldPurpose
	Required    bool
	Invalid     bool
	ValidationMessage string
}

// FormPurpose is the closed set of form-level archetypes the form
// detector infers from its fields' semantic types and submit label
// (spec §4.6).
type FormPurpose string

const (
	FormLogin         FormPurpose = "login"
	FormSignup        FormPurpose = "signup"
	FormCheckout      FormPurpose = "checkout"
	FormContact       FormPurpose = "contact"
	FormSearch        FormPurpose = "search"
	FormNewsletter    FormPurpose = "newsletter"
	FormShipping      FormPurpose = "shipping"
	FormBilling       FormPurpose = "billing"
	FormProfile       FormPurpose = "profile"
	FormPasswordReset FormPurpose = "password-reset"
	FormGeneric       FormPurpose = "generic"
)

// FormFact is one detected form and its aggregated field and
// validation state.
type FormFact struct {
	GroupID     string
	Fields      []FormField
	HasErrors   bool
	SubmitLabel string
	SubmitEID   string
	Purpose     FormPurpose
	Confidence  float64
}

// DetectForms groups every form-relevant field in snap by its
// group_id (falling back to a single "" bucket when no grouping
// container was found) and infers each field's purpose (spec §4.6).
func DetectForms(snap *snapshot.BaseSnapshot) []FormFact {
	fieldKinds := map[snapshot.Kind]bool{
		snapshot.KindInput: true, snapshot.KindTextarea: true, snapshot.KindSelect: true,
		snapshot.KindCombobox: true, snapshot.KindCheckbox: true, snapshot.KindRadio: true,
		snapshot.KindSwitch: true, snapshot.KindSlider: true,
	}

	byGroup := make(map[string]*FormFact)
	var order []string

	for _, n := range snap.Nodes {
		if !fieldKinds[n.Kind] {
			continue
		}
		groupID := n.Where.GroupID
		fact, ok := byGroup[groupID]
		if !ok {
			fact = &FormFact{GroupID: groupID}
			byGroup[groupID] = fact
			order = append(order, groupID)
		}

		field := FormField{
			NodeID:  n.NodeID,
			EID:     n.EID,
			Label:   n.Label,
			Kind:    n.Kind,
			Purpose: inferPurpose(n),
		}
		if n.State != nil {
			if n.State.Required != nil {
				field.Required = *n.State.Required
			}
			if n.State.Invalid != nil {
				field.Invalid = *n.State.Invalid
				fact.HasErrors = fact.HasErrors || field.Invalid
			}
		}
		fact.Fields = append(fact.Fields, field)
	}

	submit := query.Run(snap, query.Query{Kind: snapshot.KindButton})
	for _, groupID := range order {
		fact := byGroup[groupID]
		for _, s := range submit {
			if s.Where.GroupID == groupID && isSubmitLabel(s.Label) {
				fact.SubmitLabel = s.Label
				fact.SubmitEID = s.EID
				break
			}
		}
		fact.Purpose, fact.Confidence = inferFormPurpose(fact.Fields, fact.SubmitLabel)
	}

	facts := make([]FormFact, 0, len(order))
	for _, groupID := range order {
		facts = append(facts, *byGroup[groupID])
	}
	return facts
}

// formPurposeWords classifies a submit label into the action it
// performs — the other half of the purpose signal alongside field
// semantic types (spec §4.6).
var formPurposeWords = []struct {
	purpose FormPurpose
	re      *regexp.Regexp
}{
	{FormLogin, regexp.MustCompile(`(?i)log.?in|sign.?in`)},
	{FormSignup, regexp.MustCompile(`(?i)sign.?up|register|create account`)},
	{FormCheckout, regexp.MustCompile(`(?i)place order|pay now|checkout|complete purchase`)},
	{FormPasswordReset, regexp.MustCompile(`(?i)reset password|forgot password|change password`)},
	{FormNewsletter, regexp.MustCompile(`(?i)subscribe|newsletter`)},
	{FormContact, regexp.MustCompile(`(?i)send message|contact us|get in touch`)},
	{FormSearch, regexp.MustCompile(`(?i)search`)},
}

// inferFormPurpose derives the form's archetype from its fields'
// semantic types and its submit label (spec §4.6): the submit label is
// the strongest signal when it matches a known action verb, falling
// back to the field-composition heuristics below. Confidence reflects
// how many independent signals agree.
func inferFormPurpose(fields []FormField, submitLabel string) (FormPurpose, float64) {
	has := make(map[FieldPurpose]bool, len(fields))
	for _, f := range fields {
		has[f.Purpose] = true
	}

	for _, w := range formPurposeWords {
		if w.re.MatchString(submitLabel) {
			confidence := 0.65
			if purposeSupportsForm(w.purpose, has) {
				confidence = 0.85
			}
			return w.purpose, confidence
		}
	}

	switch {
	case has[PurposePassword] && has[PurposeEmail] && len(fields) <= 3:
		return FormLogin, 0.6
	case has[PurposePassword] && (has[PurposeName] || has[PurposeAgreement]):
		return FormSignup, 0.6
	case has[PurposeAddress] && has[PurposeName] && has[PurposePhone]:
		return FormShipping, 0.55
	case has[PurposeSearch] && len(fields) == 1:
		return FormSearch, 0.7
	case has[PurposeAgreement] && has[PurposeEmail] && len(fields) <= 2:
		return FormNewsletter, 0.55
	case has[PurposeName] && len(fields) >= 2 && !has[PurposePassword]:
		return FormContact, 0.4
	default:
		return FormGeneric, 0.3
	}
}

// purposeSupportsForm reports whether the field composition backs up
// a submit-label-derived purpose, letting inferFormPurpose report
// higher confidence when both signals agree.
func purposeSupportsForm(p FormPurpose, has map[FieldPurpose]bool) bool {
	switch p {
	case FormLogin:
		return has[PurposePassword]
	case FormSignup:
		return has[PurposePassword]
	case FormPasswordReset:
		return has[PurposePassword] || has[PurposeEmail]
	case FormNewsletter:
		return has[PurposeEmail]
	case FormSearch:
		return has[PurposeSearch]
	default:
		return false
	}
}

var submitWords = regexp.MustCompile(`(?i)submit|save|continue|sign.?(up|in)|log.?in|register|create account|send|confirm`)

func isSubmitLabel(label string) bool {
	return submitWords.MatchString(strings.TrimSpace(label))
}

func inferPurpose(n snapshot.ReadableNode) FieldPurpose {
	haystack := n.Label
	if n.Attributes != nil {
		haystack += " " + n.Attributes.Placeholder + " " + n.Attributes.InputType + " " + n.Attributes.Autocomplete
	}
	if n.Attributes != nil && n.Attributes.InputType == "email" {
		return PurposeEmail
	}
	if n.Attributes != nil && n.Attributes.InputType == "password" {
		return PurposePassword
	}
	for _, p := range purposePatterns {
		if p.re.MatchString(haystack) {
			return p.purpose
		}
	}
	return PurposeUnknown
}
