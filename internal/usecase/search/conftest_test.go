package search

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
	"github.com/kailas-cloud/appdex/internal/domain/review"
	"github.com/kailas-cloud/appdex/internal/domain/search/filter"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
	"github.com/kailas-cloud/appdex/internal/domain/search/request"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
)

// --- Fakes ---

// fakeIndex evaluates queries over an in-memory document list.
type fakeIndex struct {
	mu      sync.Mutex
	docs    []document.Document
	columns map[string]bool

	countErr  error
	windowErr func(q query.Query) error
	// block, when set, holds every Window call until it is closed or ctx is done.
	block chan struct{}

	windows []query.Query
	orders  []mode.Order
}

func (f *fakeIndex) Window(ctx context.Context, q query.Query, order mode.Order, from, size int) (result.Page, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return result.Page{}, ctx.Err()
		}
	}

	f.mu.Lock()
	f.windows = append(f.windows, q)
	f.orders = append(f.orders, order)
	f.mu.Unlock()

	if f.windowErr != nil {
		if err := f.windowErr(q); err != nil {
			return result.Page{}, err
		}
	}

	var hits []document.Document
	for i := range f.docs {
		if evaluate(q, &f.docs[i]) {
			hits = append(hits, f.docs[i])
		}
	}
	sortDocs(hits, order)

	page := result.Page{Total: len(hits)}
	for i := from; i < len(hits) && i < from+size; i++ {
		page.Matches = append(page.Matches, result.NewMatch(hits[i], 1))
	}
	return page, nil
}

func (f *fakeIndex) Count(_ context.Context, q query.Query) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for i := range f.docs {
		if evaluate(q, &f.docs[i]) {
			n++
		}
	}
	return n, nil
}

func (f *fakeIndex) HasValue(_ context.Context, column string) (bool, error) {
	return f.columns[column], nil
}

func (f *fakeIndex) Size(_ context.Context) (int, error) {
	return len(f.docs), nil
}

func (f *fakeIndex) windowCalls() []query.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.windows)
}

func evaluate(q query.Query, d *document.Document) bool {
	switch q.Op() {
	case query.OpAll:
		return true
	case query.OpTerm:
		return d.HasTerm(q.Value())
	case query.OpText:
		return slices.Contains(words(d), strings.ToLower(q.Value()))
	case query.OpPrefix:
		return slices.ContainsFunc(words(d), func(w string) bool { return strings.HasPrefix(w, q.Value()) })
	case query.OpAnd:
		for _, s := range q.Subs() {
			if !evaluate(s, d) {
				return false
			}
		}
		return true
	case query.OpOr:
		for _, s := range q.Subs() {
			if evaluate(s, d) {
				return true
			}
		}
		return false
	case query.OpAndNot:
		subs := q.Subs()
		return evaluate(subs[0], d) && !evaluate(subs[1], d)
	default:
		return false
	}
}

func words(d *document.Document) []string {
	body := strings.ToLower(strings.Join([]string{d.PkgName(), d.DisplayName(), d.Summary(), d.Text()}, " "))
	return strings.FieldsFunc(body, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
}

func sortDocs(docs []document.Document, order mode.Order) {
	slices.SortStableFunc(docs, func(a, b document.Document) int {
		switch order {
		case mode.OrderDisplayName:
			return cmp.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		case mode.OrderPackageName:
			return cmp.Compare(a.PkgName(), b.PkgName())
		case mode.OrderRecency:
			return cmp.Compare(b.CatalogedTime(), a.CatalogedTime())
		default:
			return 0
		}
	})
}

// fakeStates is a package cache keyed by package name.
type fakeStates struct {
	mu    sync.Mutex
	pkgs  map[string]pkginfo.State
	calls int
}

func (f *fakeStates) State(doc document.Document) pkginfo.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.pkgs[doc.PkgName()]
}

type fakeReviews struct {
	stats map[string]review.Stats
	err   error
	asked []string
}

func (f *fakeReviews) Stats(_ context.Context, names []string) (map[string]review.Stats, error) {
	f.asked = append(f.asked, names...)
	return f.stats, f.err
}

// --- Fixtures ---

func app(id, pkg, display, summary string, cataloged int64, terms ...string) document.Document {
	terms = append(terms, document.TermApplication, document.PackageTerm(pkg))
	return document.Reconstruct(id, pkg, document.Fields{
		AppName:       display,
		DisplayName:   display,
		Summary:       summary,
		Terms:         terms,
		CatalogedTime: cataloged,
	})
}

func pkg(id, name, summary string, cataloged int64, terms ...string) document.Document {
	terms = append(terms, document.PackageTerm(name))
	return document.Reconstruct(id, name, document.Fields{
		Summary:       summary,
		Terms:         terms,
		CatalogedTime: cataloged,
	})
}

func catalog() []document.Document {
	return []document.Document{
		app("app-inkscape", "inkscape", "Inkscape", "vector graphics editor", 300, "category:graphics"),
		app("app-gimp", "gimp", "GIMP", "image editor", 100, "category:graphics"),
		pkg("pkg-gimp", "gimp", "GNU image manipulation program", 100, document.TermDuplicate),
		pkg("pkg-gimp-data", "gimp-data", "data files for the image editor", 200),
		app("app-zathura", "zathura", "zathura", "document viewer", 50, "category:office"),
		pkg("pkg-libfoo", "libfoo", "foo library", 400),
	}
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		docs: catalog(),
		columns: map[string]bool{
			document.ValueCatalogedTime:  true,
			document.ValueDisplayNameKey: true,
		},
	}
}

func newRequest(t *testing.T, qs []query.Query, limit int, s mode.Sort, f *filter.Filter, v mode.Visibility) *request.Request {
	t.Helper()
	r, err := request.New(qs, limit, s, f, v)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func ids(res result.Result) []string {
	matches := res.Matches()
	out := make([]string, 0, len(matches))
	for i := range matches {
		out = append(out, matches[i].ID())
	}
	return out
}
