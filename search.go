package appdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/request"
	"github.com/kailas-cloud/appdex/internal/domain/search/result"
	"github.com/kailas-cloud/appdex/internal/usecase/compiler"
	searchuc "github.com/kailas-cloud/appdex/internal/usecase/search"
)

// Sort is the ordering of search results.
type Sort string

// Sort modes.
const (
	SortDefault    Sort = ""
	SortUnsorted   Sort = Sort(mode.Unsorted)
	SortAlphabetic Sort = Sort(mode.Alphabetic)
	SortRelevance  Sort = Sort(mode.SearchRanking)
	SortRecent     Sort = Sort(mode.CatalogRecency)
	SortTopRated   Sort = Sort(mode.TopRated)
)

// Visibility controls whether packages that are not applications are shown.
type Visibility string

// Visibility modes.
const (
	// VisibilityMaybe shows applications, falling back to packages when none matched.
	VisibilityMaybe  Visibility = Visibility(mode.MaybeVisible)
	VisibilityAlways Visibility = Visibility(mode.AlwaysVisible)
	VisibilityNever  Visibility = Visibility(mode.NeverVisible)
)

// SearchOptions describes one search.
type SearchOptions struct {
	// Terms is the search string: words, package lists ("a,b"),
	// prefixed terms ("section:graphics") and AND/OR/NOT.
	Terms string
	// Category restricts results to a category of the loaded menu.
	Category string
	// Channel restricts results to a software channel.
	Channel string
	// Sort defaults to the category's sort mode, then to unsorted.
	Sort Sort
	// Limit caps the result; 0 returns every match. A category item limit
	// applies when Limit is nil.
	Limit *int
	// Visibility defaults to VisibilityMaybe.
	Visibility Visibility
	// AppsOnly hides packages that are not applications unless no application
	// matched; with VisibilityAlways it behaves as VisibilityMaybe.
	AppsOnly bool

	AvailableOnly    bool
	InstalledOnly    bool
	NotInstalledOnly bool
	SupportedOnly    bool
	// Restrict limits results to the named packages.
	Restrict []string
}

// Match is a single search hit.
type Match struct {
	ID          string
	PkgName     string
	AppName     string
	DisplayName string
	Summary     string
	Score       float64
}

// Result is the merged outcome of a search.
type Result struct {
	Matches []Match
	// AppCount and PkgCount estimate the applications and other packages
	// matching the search before the result filter and the limit.
	AppCount int
	PkgCount int
	// Fallback is set when packages were shown because no application matched.
	Fallback bool
}

// Search runs a search and waits for its result.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (Result, error) {
	req, err := c.request(opts)
	if err != nil {
		return Result{}, err
	}
	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return fromResult(&res), nil
}

// Pending is a search running in the background.
type Pending struct {
	p *searchuc.Pending
}

// SearchAsync starts a search in the background.
func (c *Client) SearchAsync(ctx context.Context, opts SearchOptions) (*Pending, error) {
	req, err := c.request(opts)
	if err != nil {
		return nil, err
	}
	return &Pending{p: c.searchSvc.SearchAsync(ctx, &req)}, nil
}

// Done is closed when the search has finished.
func (p *Pending) Done() <-chan struct{} { return p.p.Done() }

// Cancel stops the search; Wait then reports ErrCanceled.
func (p *Pending) Cancel() { p.p.Cancel() }

// Wait blocks until the search finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	res, err := p.p.Wait(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return fromResult(&res), nil
}

// Outcome is a result delivered by a Session.
type Outcome struct {
	Seq    uint64
	Result Result
	Err    error
}

// Session runs the searches of an interactive caller. Submitting a search
// cancels the previous one; only the latest outcome is delivered.
type Session struct {
	c *Client
	s *searchuc.Session
}

// NewSession creates a session. deliver must not call back into the session.
func (c *Client) NewSession(deliver func(Outcome)) *Session {
	s := c.searchSvc.NewSession(func(o searchuc.Outcome) {
		out := Outcome{Seq: o.Seq, Err: o.Err}
		if o.Err == nil {
			out.Result = fromResult(&o.Result)
		}
		deliver(out)
	})
	return &Session{c: c, s: s}
}

// Submit starts a search and returns its sequence number. Invalid options
// are reported directly and do not cancel the running search.
func (s *Session) Submit(ctx context.Context, opts SearchOptions) (uint64, error) {
	req, err := s.c.request(opts)
	if err != nil {
		return 0, err
	}
	return s.s.Submit(ctx, &req), nil
}

// Close cancels the running search. Nothing is delivered afterwards.
func (s *Session) Close() { s.s.Close() }

// request compiles opts. A category supplies the sort mode, item limit and
// filter flags opts leave unset.
func (c *Client) request(opts SearchOptions) (request.Request, error) {
	return c.compiler.Request(c.categories, compiler.Params{
		Terms:            opts.Terms,
		Category:         opts.Category,
		Channel:          opts.Channel,
		Sort:             string(opts.Sort),
		Visibility:       string(opts.Visibility),
		Limit:            opts.Limit,
		AppsOnly:         opts.AppsOnly,
		AvailableOnly:    setOnly(opts.AvailableOnly),
		NotInstalledOnly: setOnly(opts.NotInstalledOnly),
		InstalledOnly:    opts.InstalledOnly,
		SupportedOnly:    opts.SupportedOnly,
		Restrict:         opts.Restrict,
	}, 0)
}

// setOnly leaves a category flag in place unless b turns it on.
func setOnly(b bool) *bool {
	if !b {
		return nil
	}
	return &b
}

func fromResult(res *result.Result) Result {
	matches := res.Matches()
	out := Result{
		Matches:  make([]Match, len(matches)),
		AppCount: res.AppCount(),
		PkgCount: res.PkgCount(),
		Fallback: res.Fallback(),
	}
	for i := range matches {
		doc := matches[i].Document()
		out.Matches[i] = Match{
			ID:          doc.ID(),
			PkgName:     doc.PkgName(),
			AppName:     doc.AppName(),
			DisplayName: doc.DisplayName(),
			Summary:     doc.Summary(),
			Score:       matches[i].Score(),
		}
	}
	return out
}
