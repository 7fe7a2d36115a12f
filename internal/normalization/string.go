package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// ParseInputStringPtr trims optional free-form input. Blank becomes nil.
func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	v := strings.TrimSpace(*input)
	if v == "" {
		return nil
	}
	return &v
}

// CollapseSpace trims s and replaces every run of Unicode whitespace with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// DisplayLabel cleans a label for display while keeping its casing.
func DisplayLabel(label string) string {
	return CollapseSpace(norm.NFKC.String(label))
}

// ThemeKey is the identity of a theme label: NFKC, case-folded, whitespace collapsed.
// "Imposter  Syndrome", "imposter syndrome" and "ＩＭＰＯＳＴＥＲ syndrome" share a key.
func ThemeKey(label string) string {
	s := norm.NFKC.String(label)
	s = folder.String(s)
	// Folding can produce sequences that need recomposition.
	s = norm.NFKC.String(s)
	return CollapseSpace(s)
}
