package factpack

import "github.com/pageperceive/core/snapshot"

// FactPack is the derived summary built from one BaseSnapshot: the
// compressed view an agent reasons from instead of the raw node list
// (spec §4.6).
type FactPack struct {
	Dialog    DialogFact
	Forms     []FormFact
	PageClass PageClassFact
	Actions   []ActionFact
}

// Options tunes the action selector's thresholds; zero values take
// the package defaults.
type Options struct {
	MinActionScore float64
	MaxActions     int
}

// Build derives a FactPack from snap. It is pure: identical input
// snapshots always produce an identical FactPack.
func Build(snap *snapshot.BaseSnapshot, opts Options) FactPack {
	dialog := DetectDialog(snap)
	forms := DetectForms(snap)
	pageClass := ClassifyPage(snap, forms)
	actions := SelectActions(snap, dialog, forms, opts.MinActionScore, opts.MaxActions)

	return FactPack{
		Dialog:    dialog,
		Forms:     forms,
		PageClass: pageClass,
		Actions:   actions,
	}
}
