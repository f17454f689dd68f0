package appdex

import "context"

// SearchBuilder is a fluent builder for SearchOptions.
type SearchBuilder struct {
	c    *Client
	opts SearchOptions
}

// Query starts a fluent search.
func (c *Client) Query() *SearchBuilder {
	return &SearchBuilder{c: c}
}

// Terms sets the search string.
func (b *SearchBuilder) Terms(s string) *SearchBuilder {
	b.opts.Terms = s
	return b
}

// Category restricts the search to a category of the loaded menu.
func (b *SearchBuilder) Category(name string) *SearchBuilder {
	b.opts.Category = name
	return b
}

// Channel restricts the search to a software channel.
func (b *SearchBuilder) Channel(name string) *SearchBuilder {
	b.opts.Channel = name
	return b
}

// Sort sets the result order.
func (b *SearchBuilder) Sort(s Sort) *SearchBuilder {
	b.opts.Sort = s
	return b
}

// Limit caps the number of results. 0 returns every match.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.opts.Limit = &n
	return b
}

// Visibility sets whether packages that are not applications are shown.
func (b *SearchBuilder) Visibility(v Visibility) *SearchBuilder {
	b.opts.Visibility = v
	return b
}

// AppsOnly shows packages that are not applications only when no application matched.
func (b *SearchBuilder) AppsOnly() *SearchBuilder {
	b.opts.AppsOnly = true
	return b
}

// Available keeps only software that can be installed or is installed.
func (b *SearchBuilder) Available() *SearchBuilder {
	b.opts.AvailableOnly = true
	return b
}

// Installed keeps only installed software.
func (b *SearchBuilder) Installed() *SearchBuilder {
	b.opts.InstalledOnly = true
	return b
}

// NotInstalled keeps only software that is not installed.
func (b *SearchBuilder) NotInstalled() *SearchBuilder {
	b.opts.NotInstalledOnly = true
	return b
}

// Supported keeps only software from origins the distribution supports.
func (b *SearchBuilder) Supported() *SearchBuilder {
	b.opts.SupportedOnly = true
	return b
}

// Restrict keeps only the named packages.
func (b *SearchBuilder) Restrict(pkgNames ...string) *SearchBuilder {
	b.opts.Restrict = append(b.opts.Restrict, pkgNames...)
	return b
}

// Options returns the options built so far.
func (b *SearchBuilder) Options() SearchOptions {
	return b.opts
}

// Do runs the search and waits for its result.
func (b *SearchBuilder) Do(ctx context.Context) (Result, error) {
	return b.c.Search(ctx, b.opts)
}

// Go starts the search in the background.
func (b *SearchBuilder) Go(ctx context.Context) (*Pending, error) {
	return b.c.SearchAsync(ctx, b.opts)
}
