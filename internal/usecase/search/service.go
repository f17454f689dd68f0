package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/appdex/internal/domain"
	"github.com/kailas-cloud/appdex/internal/domain/distro"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/review"
	"github.com/kailas-cloud/appdex/internal/domain/search/filter"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
	"github.com/kailas-cloud/appdex/internal/domain/search/request"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
	"github.com/kailas-cloud/appdex/internal/metrics"
)

// DefaultPageSize is the window size used while a filter discards matches.
const DefaultPageSize = 200

// Service runs compiled queries against the catalog index: it estimates the
// app/package split, narrows, orders, filters and merges the matches.
type Service struct {
	index    Index
	states   filter.StateSource
	policy   distro.Policy
	reviews  ReviewProvider
	collator Collator
	logger   *zap.Logger
	pageSize int
}

// Option configures a Service.
type Option func(*Service)

// WithReviews enables top-rated ordering.
func WithReviews(r ReviewProvider) Option {
	return func(s *Service) { s.reviews = r }
}

// WithCollator sets the display-name comparator used to break rating ties.
func WithCollator(c Collator) Option {
	return func(s *Service) { s.collator = c }
}

// WithPolicy sets the distribution policy behind the supported-only check.
func WithPolicy(p distro.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPageSize sets the window size used while a filter discards matches.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

type compareFunc func(a, b string) int

func (f compareFunc) Compare(a, b string) int { return f(a, b) }

// New creates a search service. states resolves package-cache facts for the result filter.
func New(index Index, states filter.StateSource, opts ...Option) *Service {
	s := &Service{
		index:    index,
		states:   states,
		policy:   distro.Default(),
		collator: compareFunc(strings.Compare),
		logger:   zap.NewNop(),
		pageSize: DefaultPageSize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search runs every query of req in order and merges the matches. When nothing
// matched and non-applications may be shown as a fallback, the search is
// repeated once with them visible.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	start := time.Now()
	sortLabel := string(req.Sort())

	res, err := s.search(ctx, req)

	metrics.SearchDuration.WithLabelValues(sortLabel).Observe(time.Since(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(sortLabel, status(err)).Inc()
	return res, err
}

func (s *Service) search(ctx context.Context, req *request.Request) (result.Result, error) {
	res, err := s.run(ctx, req, false)
	if err != nil {
		return result.Result{}, err
	}
	if res.Len() > 0 || req.Visibility() != mode.MaybeVisible {
		return res, nil
	}

	s.logger.Debug("no applications matched, retrying with packages visible",
		zap.Int("queries", len(req.Queries())))
	metrics.SearchFallbacksTotal.Inc()

	retry := req.WithVisibility(mode.AlwaysVisible)
	return s.run(ctx, &retry, true)
}

func (s *Service) run(ctx context.Context, req *request.Request, fallback bool) (result.Result, error) {
	ord := s.ordering(ctx, req.Sort())
	limit := req.Limit()
	b := result.NewBuilder()

	for i, q := range req.Queries() {
		if err := ctx.Err(); err != nil {
			return result.Result{}, canceled(err)
		}

		apps, pkgs := s.estimate(ctx, q, req.Filter())
		b.AddCounts(apps, pkgs)

		matches, err := s.retrieve(ctx, narrow(q, req.Visibility()), ord, req)
		if err != nil {
			if ctx.Err() != nil {
				return result.Result{}, canceled(ctx.Err())
			}
			s.logger.Warn("sub-query failed, treating as empty",
				zap.Int("query", i), zap.Stringer("q", q), zap.Error(err))
			metrics.SearchSubqueryErrorsTotal.WithLabelValues("window").Inc()
			continue
		}

		if isExactPackage(q) && len(matches) == 1 {
			b.AddCounts(1, -2)
		}
		for _, m := range matches {
			if limit > 0 && b.Len() >= limit {
				break
			}
			b.Add(m)
		}
	}
	return b.Build(fallback && b.Len() > 0), nil
}

// ordering is the index order of a run plus whether matches are re-ranked by rating.
type ordering struct {
	order mode.Order
	rated bool
}

func (s *Service) ordering(ctx context.Context, sortMode mode.Sort) ordering {
	switch sortMode {
	case mode.SearchRanking:
		return ordering{order: mode.OrderRelevance}
	case mode.CatalogRecency:
		if s.hasValue(ctx, document.ValueCatalogedTime) {
			return ordering{order: mode.OrderRecency}
		}
		s.logger.Warn("index has no cataloged time, using default order")
		return ordering{order: mode.OrderRelevance}
	case mode.TopRated:
		if s.reviews == nil {
			s.logger.Warn("no review statistics available, using default order")
			return ordering{order: mode.OrderRelevance}
		}
		return ordering{order: mode.OrderRelevance, rated: true}
	case mode.Alphabetic:
		if s.hasValue(ctx, document.ValueDisplayNameKey) {
			return ordering{order: mode.OrderDisplayName}
		}
		return ordering{order: mode.OrderPackageName}
	default:
		return ordering{order: mode.OrderPackageName}
	}
}

func (s *Service) hasValue(ctx context.Context, column string) bool {
	ok, err := s.index.HasValue(ctx, column)
	if err != nil {
		s.logger.Warn("inspect index schema", zap.String("column", column), zap.Error(err))
		return false
	}
	return ok
}

// estimate returns the number of matching applications and plain packages.
// A failure is logged and counts as zero for both.
func (s *Service) estimate(ctx context.Context, q query.Query, f *filter.Filter) (apps, pkgs int) {
	apps, err := s.count(ctx, query.And(q, query.Term(document.TermApplication)), f)
	if err == nil {
		var all int
		all, err = s.count(ctx, query.AndNot(q, query.Term(document.TermDuplicate)), f)
		pkgs = all - apps
	}
	if err != nil {
		s.logger.Warn("estimate match counts", zap.Stringer("q", q), zap.Error(err))
		metrics.SearchSubqueryErrorsTotal.WithLabelValues("estimate").Inc()
		return 0, 0
	}
	return apps, pkgs
}

// count is exact; under a required filter it scans the matches.
func (s *Service) count(ctx context.Context, q query.Query, f *filter.Filter) (int, error) {
	if !f.Required() {
		n, err := s.index.Count(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("count: %w", err)
		}
		return n, nil
	}
	size, err := s.index.Size(ctx)
	if err != nil {
		return 0, fmt.Errorf("index size: %w", err)
	}
	matches, err := s.collect(ctx, q, mode.OrderIndex, size, f)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (s *Service) retrieve(ctx context.Context, q query.Query, ord ordering, req *request.Request) ([]result.Match, error) {
	want := req.Limit()
	if want == 0 || ord.rated {
		size, err := s.index.Size(ctx)
		if err != nil {
			return nil, fmt.Errorf("index size: %w", err)
		}
		want = size
	}

	matches, err := s.collect(ctx, q, ord.order, want, req.Filter())
	if err != nil {
		return nil, err
	}
	if ord.rated {
		matches = s.rank(ctx, matches)
		if limit := req.Limit(); limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}
	}
	return matches, nil
}

// collect pages through q until want matches pass the filter or the index is exhausted.
func (s *Service) collect(
	ctx context.Context, q query.Query, order mode.Order, want int, f *filter.Filter,
) ([]result.Match, error) {
	if want <= 0 {
		return nil, nil
	}
	size := want
	if f.Required() {
		size = max(want, s.pageSize)
	}

	out := make([]result.Match, 0, min(want, s.pageSize))
	for from := 0; ; {
		page, err := s.index.Window(ctx, q, order, from, size)
		if err != nil {
			return nil, fmt.Errorf("window: %w", err)
		}
		for _, m := range page.Matches {
			if !f.Accept(m.Document(), s.states, s.policy) {
				continue
			}
			out = append(out, m)
			if len(out) == want {
				return out, nil
			}
		}

		from += len(page.Matches)
		if len(page.Matches) < size || from >= page.Total {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// rank orders matches by dampened rating, ties by display name.
// Without statistics the relevance order is kept.
func (s *Service) rank(ctx context.Context, matches []result.Match) []result.Match {
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for i := range matches {
		name := pkgName(&matches[i])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	stats, err := s.reviews.Stats(ctx, names)
	if err != nil {
		s.logger.Warn("fetch review statistics, using default order", zap.Error(err))
		metrics.SearchSubqueryErrorsTotal.WithLabelValues("reviews").Inc()
		return matches
	}

	slices.SortStableFunc(matches, func(a, b result.Match) int {
		sa, sb := stats[pkgName(&a)], stats[pkgName(&b)]
		switch {
		case review.Better(sa, sb):
			return -1
		case review.Better(sb, sa):
			return 1
		}
		return s.collator.Compare(displayName(&a), displayName(&b))
	})
	return matches
}

// narrow restricts q to applications unless non-applications are visible,
// and always drops package documents superseded by an application.
func narrow(q query.Query, v mode.Visibility) query.Query {
	if v != mode.AlwaysVisible && !isExactPackage(q) {
		q = query.And(query.Term(document.TermApplication), q)
	}
	return query.AndNot(q, query.Term(document.TermDuplicate))
}

func isExactPackage(q query.Query) bool {
	_, ok := query.ExactTerm(q, document.PrefixPackage)
	return ok
}

func pkgName(m *result.Match) string {
	doc := m.Document()
	return doc.PkgName()
}

func displayName(m *result.Match) string {
	doc := m.Document()
	return doc.DisplayName()
}

func canceled(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrCanceled, err)
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCanceled):
		return "canceled"
	default:
		return "error"
	}
}
