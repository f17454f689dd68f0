package compiler

import (
	"fmt"

	"github.com/kailas-cloud/appdex/internal/domain"
	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/search/filter"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
	"github.com/kailas-cloud/appdex/internal/domain/search/request"
)

// Params is the caller-facing state of one search, before a category
// fills in what it leaves unset.
type Params struct {
	Terms    string
	Category string
	Channel  string
	// Sort and Visibility are parsed; empty means the category's sort mode
	// (else unsorted) and maybe-visible.
	Sort       string
	Visibility string
	// Limit overrides the category item limit and the default limit.
	Limit *int
	// AppsOnly hides non-applications unless nothing else matched.
	AppsOnly bool

	// AvailableOnly and NotInstalledOnly override the category flags when set.
	AvailableOnly    *bool
	NotInstalledOnly *bool
	InstalledOnly    bool
	SupportedOnly    bool
	Restrict         []string
}

// Request resolves p against the category menu and compiles it.
// defaultLimit applies when neither p nor its category sets a limit.
func (c *Compiler) Request(categories category.Tree, p Params, defaultLimit int) (request.Request, error) {
	in := Input{Terms: p.Terms}
	sortName := p.Sort
	limit := defaultLimit
	f := filter.New()

	if p.Category != "" {
		cat, ok := categories.Find(p.Category)
		if !ok {
			return request.Request{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, p.Category)
		}
		in.Category = &cat
		if sortName == "" {
			sortName = string(cat.SortMode())
		}
		if cat.ItemLimit() > 0 {
			limit = cat.ItemLimit()
		}
		f.SetAvailableOnly(cat.HasFlag(category.FlagAvailableOnly))
		f.SetNotInstalledOnly(cat.HasFlag(category.FlagNotInstalledOnly))
	}
	if p.Channel != "" {
		q := query.Term(document.ChannelTerm(p.Channel))
		in.Channel = &q
	}
	if p.Limit != nil {
		limit = *p.Limit
	}

	sortMode, err := mode.ParseSort(sortName)
	if err != nil {
		return request.Request{}, domain.NewValidationError("sort", err)
	}
	visibility, err := mode.ParseVisibility(p.Visibility)
	if err != nil {
		return request.Request{}, domain.NewValidationError("visibility", err)
	}
	// The engine narrows to applications per visibility and widens once on
	// an empty result, so apps-only only has to rule out always-visible.
	if p.AppsOnly && visibility == mode.AlwaysVisible {
		visibility = mode.MaybeVisible
	}

	if p.AvailableOnly != nil {
		f.SetAvailableOnly(*p.AvailableOnly)
	}
	if p.NotInstalledOnly != nil {
		f.SetNotInstalledOnly(*p.NotInstalledOnly)
	}
	f.SetInstalledOnly(p.InstalledOnly)
	f.SetSupportedOnly(p.SupportedOnly)
	f.SetRestrictedList(p.Restrict)

	req, err := request.New(c.Compile(in), limit, sortMode, f, visibility)
	if err != nil {
		return request.Request{}, domain.NewValidationError("request", err)
	}
	return req, nil
}
