package mode

import "fmt"

// Sort is the ordering requested for a search.
type Sort string

// Sort mode constants.
const (
	Unsorted       Sort = "unsorted"
	Alphabetic     Sort = "alphabetic"
	SearchRanking  Sort = "relevance"
	CatalogRecency Sort = "recent"
	TopRated       Sort = "top_rated"
)

// IsValid checks if the sort mode is one of the supported values.
func (s Sort) IsValid() bool {
	switch s {
	case Unsorted, Alphabetic, SearchRanking, CatalogRecency, TopRated:
		return true
	}
	return false
}

// ParseSort converts a string into a Sort. Empty input yields Unsorted.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return Unsorted, nil
	}
	m := Sort(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid sort mode: %q", s)
	}
	return m, nil
}

// Visibility controls whether documents that are not applications are shown.
type Visibility string

// Visibility constants.
const (
	// AlwaysVisible shows applications and plain packages.
	AlwaysVisible Visibility = "always"
	// MaybeVisible shows applications only, falling back to packages when nothing matched.
	MaybeVisible Visibility = "maybe"
	// NeverVisible shows applications only.
	NeverVisible Visibility = "never"
)

// IsValid checks if the visibility is one of the supported values.
func (v Visibility) IsValid() bool {
	return v == AlwaysVisible || v == MaybeVisible || v == NeverVisible
}

// ParseVisibility converts a string into a Visibility. Empty input yields MaybeVisible.
func ParseVisibility(s string) (Visibility, error) {
	if s == "" {
		return MaybeVisible, nil
	}
	v := Visibility(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visibility: %q", s)
	}
	return v, nil
}

// Order is the ordering the index itself applies to a result window.
type Order int

// Index order constants.
const (
	// OrderRelevance sorts by score descending, then document id.
	OrderRelevance Order = iota
	// OrderPackageName sorts by package name, then score descending.
	OrderPackageName
	// OrderRecency sorts by cataloged time descending, then score descending.
	OrderRecency
	// OrderDisplayName sorts by the locale collation key of the display name, then package name.
	OrderDisplayName
	// OrderIndex keeps index order (document id).
	OrderIndex
)

var orderNames = map[Order]string{
	OrderRelevance:   "relevance",
	OrderPackageName: "pkgname",
	OrderRecency:     "recency",
	OrderDisplayName: "display_name",
	OrderIndex:       "index",
}

// String returns the order name used in logs and metrics.
func (o Order) String() string { return orderNames[o] }
