package model

import "strings"

// VisitCategory is one of the fixed visit-type values the multi-sheet export
// splits records by.
type VisitCategory string

const (
	VisitOnCampus  VisitCategory = "On Campus"
	VisitOffCampus VisitCategory = "Off Campus"
	VisitVirtual   VisitCategory = "Virtual"
)

// VisitCategories returns the export categories in sheet order.
func VisitCategories() []VisitCategory {
	return []VisitCategory{VisitOnCampus, VisitOffCampus, VisitVirtual}
}

// Matches reports whether a free-text visit type belongs to the category.
// Case, spaces and hyphens are ignored, so "on-campus" matches On Campus.
func (c VisitCategory) Matches(visitType string) bool {
	return foldCategory(visitType) == foldCategory(string(c))
}

func foldCategory(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ThemeKind distinguishes accent-only themes from full palette themes.
type ThemeKind string

const (
	ThemeKindStandard ThemeKind = "standard"
	ThemeKindPremium  ThemeKind = "premium"
)
