package result

import "github.com/kailas-cloud/appdex/internal/domain/document"

// Match is one ranked document of a search.
type Match struct {
	score float64
	doc   document.Document
}

// NewMatch creates a match.
func NewMatch(doc document.Document, score float64) Match {
	return Match{score: score, doc: doc}
}

// ID returns the document identifier.
func (m *Match) ID() string { return m.doc.ID() }

// Score returns the relevance score reported by the index.
func (m *Match) Score() float64 { return m.score }

// Document returns the matched document.
func (m *Match) Document() document.Document { return m.doc }

// Page is one window of ranked matches plus the total number of documents
// matching the query.
type Page struct {
	Total   int
	Matches []Match
}

// Result is the deduplicated, ranked outcome of a search plus the estimated
// split between applications and plain packages.
type Result struct {
	matches  []Match
	appCount int
	pkgCount int
	fallback bool
}

// Matches returns the ranked matches.
func (r *Result) Matches() []Match { return r.matches }

// Len returns the number of matches.
func (r *Result) Len() int { return len(r.matches) }

// AppCount returns the estimated number of matching applications.
func (r *Result) AppCount() int { return r.appCount }

// PkgCount returns the estimated number of matching plain packages.
func (r *Result) PkgCount() int { return r.pkgCount }

// Fallback reports whether the matches are non-applications shown because no
// application matched. It is false when the widened search found nothing either.
func (r *Result) Fallback() bool { return r.fallback }

// Builder accumulates matches across sub-queries. The first match of a
// document id wins; later duplicates are dropped.
type Builder struct {
	matches  []Match
	seen     map[string]struct{}
	appCount int
	pkgCount int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// Add appends m unless its id is already present. Reports whether it was added.
func (b *Builder) Add(m Match) bool {
	id := m.ID()
	if _, ok := b.seen[id]; ok {
		return false
	}
	b.seen[id] = struct{}{}
	b.matches = append(b.matches, m)
	return true
}

// Contains reports whether a document id has already been merged.
func (b *Builder) Contains(id string) bool {
	_, ok := b.seen[id]
	return ok
}

// AddCounts adds the estimates of one sub-query.
func (b *Builder) AddCounts(apps, pkgs int) {
	b.appCount += apps
	b.pkgCount += pkgs
}

// Len returns the number of merged matches.
func (b *Builder) Len() int { return len(b.matches) }

// Build returns the result. Negative package counts, possible after the
// exact-match correction, are reported as zero.
func (b *Builder) Build(fallback bool) Result {
	return Result{
		matches:  b.matches,
		appCount: b.appCount,
		pkgCount: max(b.pkgCount, 0),
		fallback: fallback,
	}
}
