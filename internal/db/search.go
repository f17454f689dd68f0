package db

import "github.com/kailas-cloud/appdex/internal/domain/search/query"

// Pseudo-fields usable as sort keys.
const (
	FieldScore = "_score"
	FieldID    = "_id"
)

// SortType tells the index how to compare the values of a sort field.
type SortType int

const (
	// SortAuto lets the index guess from the stored terms.
	SortAuto SortType = iota
	// SortString compares values as strings.
	SortString
	// SortNumber compares values as numbers.
	SortNumber
)

// SortKey is one level of a multi-level sort.
type SortKey struct {
	Field string
	Desc  bool
	Type  SortType
}

// IndexQuery is the input for a windowed index search.
type IndexQuery struct {
	Query query.Query
	// Sort lists sort levels; empty means score descending, then id.
	Sort   []SortKey
	From   int
	Size   int
	Fields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
