// Package identity computes the stable Element Identifier (EID) that
// lets an agent name the same element across snapshots, per spec
// §4.5.
package identity

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the cap spec §4.5/§9 places on a normalized
// accessible name before it is hashed, measured in user-perceived
// characters (grapheme clusters), not bytes or runes.
const MaxNameLength = 100

// NormalizeName applies the normalizer spec §9 requires everywhere a
// label feeds an EID: NFKC, invisible-character stripping, whitespace
// collapse, then a length cap. The same function must run wherever a
// label is hashed, so EID stability does not depend on which caller
// happened to normalize first.
func NormalizeName(raw string) string {
	s := norm.NFKC.String(raw)
	s = stripInvisible(s)
	s = collapseWhitespace(s)
	s = strings.ToLower(s)
	return capGraphemes(s, MaxNameLength)
}

func stripInvisible(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isInvisible(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isInvisible(r rune) bool {
	switch r {
	case '​', '‌', '‍', '﻿', '­':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// capGraphemes truncates s to at most n grapheme clusters (via
// uax29's Unicode text segmentation), so a multi-codepoint emoji or
// combining-mark sequence at the boundary is never split mid-cluster.
func capGraphemes(s string, n int) string {
	seg := graphemes.FromString(s)
	var b strings.Builder
	count := 0
	for seg.Next() {
		if count >= n {
			break
		}
		b.Write(seg.Bytes())
		count++
	}
	return b.String()
}
