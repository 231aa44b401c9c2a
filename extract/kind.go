package extract

import "github.com/pageperceive/core/snapshot"

// roleToKind maps an accessibility role to the closed Kind set (spec
// §3). Roles absent here fall through to tag-based classification.
var roleToKind = map[string]snapshot.Kind{
	"link":             snapshot.KindLink,
	"button":           snapshot.KindButton,
	"textbox":          snapshot.KindInput,
	"searchbox":        snapshot.KindInput,
	"spinbutton":       snapshot.KindInput,
	"combobox":         snapshot.KindCombobox,
	"listbox":          snapshot.KindSelect,
	"checkbox":         snapshot.KindCheckbox,
	"radio":            snapshot.KindRadio,
	"switch":           snapshot.KindSwitch,
	"slider":           snapshot.KindSlider,
	"tab":              snapshot.KindTab,
	"menuitem":         snapshot.KindMenuItem,
	"menuitemcheckbox": snapshot.KindMenuItem,
	"menuitemradio":    snapshot.KindMenuItem,
	"option":           snapshot.KindListItem,
	"heading":          snapshot.KindHeading,
	"list":             snapshot.KindList,
	"listitem":         snapshot.KindListItem,
	"img":              snapshot.KindImage,
	"figure":           snapshot.KindImage,
	"table":            snapshot.KindTable,
	"dialog":           snapshot.KindDialog,
	"alertdialog":      snapshot.KindDialog,
	"navigation":       snapshot.KindNavigation,
	"form":             snapshot.KindForm,
}

// tagToKind is the tag-name fallback used when no accessibility node
// (or no classifying role) is available for a DOM candidate.
var tagToKind = map[string]snapshot.Kind{
	"A":        snapshot.KindLink,
	"BUTTON":   snapshot.KindButton,
	"TEXTAREA": snapshot.KindTextarea,
	"SELECT":   snapshot.KindSelect,
	"H1":       snapshot.KindHeading,
	"H2":       snapshot.KindHeading,
	"H3":       snapshot.KindHeading,
	"H4":       snapshot.KindHeading,
	"H5":       snapshot.KindHeading,
	"H6":       snapshot.KindHeading,
	"P":        snapshot.KindParagraph,
	"UL":       snapshot.KindList,
	"OL":       snapshot.KindList,
	"LI":       snapshot.KindListItem,
	"IMG":      snapshot.KindImage,
	"VIDEO":    snapshot.KindMedia,
	"AUDIO":    snapshot.KindMedia,
	"TABLE":    snapshot.KindTable,
	"FORM":     snapshot.KindForm,
	"DIALOG":   snapshot.KindDialog,
	"NAV":      snapshot.KindNavigation,
	"SECTION":  snapshot.KindSection,
	"ARTICLE":  snapshot.KindSection,
}

// inputTypeToKind refines <input type="…"> into its specific Kind;
// types absent here (text, email, search, …) default to KindInput.
var inputTypeToKind = map[string]snapshot.Kind{
	"checkbox": snapshot.KindCheckbox,
	"radio":    snapshot.KindRadio,
	"range":    snapshot.KindSlider,
}

// ClassifyKind derives a candidate's Kind, preferring the
// accessibility role (it already accounts for ARIA overrides) and
// falling back to the DOM tag name, with <input type> as the final
// refinement (spec §3, §4.3, §4.4).
func ClassifyKind(ax *RawAxNode, dom *RawDomNode) snapshot.Kind {
	if ax != nil && ax.Role != "" {
		if k, ok := roleToKind[ax.Role]; ok {
			return k
		}
	}
	if dom == nil {
		return snapshot.KindGeneric
	}
	if dom.NodeName == "INPUT" {
		if k, ok := inputTypeToKind[dom.Attributes["type"]]; ok {
			return k
		}
		return snapshot.KindInput
	}
	if k, ok := tagToKind[dom.NodeName]; ok {
		return k
	}
	return snapshot.KindGeneric
}
