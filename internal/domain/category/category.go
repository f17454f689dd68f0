package category

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Known category flags.
const (
	FlagAvailableOnly    = "available-only"
	FlagNotInstalledOnly = "not-installed-only"
	FlagHidden           = "hidden"
)

// Category is a named, precompiled slice of the catalog, possibly with subcategories.
type Category struct {
	name          string
	iconName      string
	query         query.Query
	sortMode      mode.Sort
	itemLimit     int
	flags         []string
	subcategories []Category
}

// Attrs groups the optional attributes of a Category.
type Attrs struct {
	IconName      string
	SortMode      mode.Sort
	ItemLimit     int
	Flags         []string
	Subcategories []Category
}

// New validates and creates a Category. A category without its own query
// (query.Nothing) must have subcategories; its effective query is their union.
func New(name string, q query.Query, a Attrs) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, fmt.Errorf("category name is required")
	}
	if q.IsNothing() && len(a.Subcategories) == 0 {
		return Category{}, fmt.Errorf("category %q has neither a query nor subcategories", name)
	}
	if a.SortMode == "" {
		a.SortMode = mode.Unsorted
	}
	if !a.SortMode.IsValid() {
		return Category{}, fmt.Errorf("category %q: invalid sort mode %q", name, a.SortMode)
	}
	if a.ItemLimit < 0 {
		return Category{}, fmt.Errorf("category %q: item limit must not be negative", name)
	}
	seen := make(map[string]struct{}, len(a.Subcategories))
	for _, sub := range a.Subcategories {
		key := strings.ToLower(sub.name)
		if _, dup := seen[key]; dup {
			return Category{}, fmt.Errorf("category %q: duplicate subcategory %q", name, sub.name)
		}
		seen[key] = struct{}{}
	}

	return Category{
		name:          name,
		iconName:      a.IconName,
		query:         q,
		sortMode:      a.SortMode,
		itemLimit:     a.ItemLimit,
		flags:         slices.Clone(a.Flags),
		subcategories: slices.Clone(a.Subcategories),
	}, nil
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// IconName returns the icon name.
func (c *Category) IconName() string { return c.iconName }

// Query returns the category's own query (query.Nothing for pure containers).
func (c *Category) Query() query.Query { return c.query }

// SubcategoryUnion returns the disjunction of all subcategory queries.
func (c *Category) SubcategoryUnion() query.Query {
	subs := make([]query.Query, 0, len(c.subcategories))
	for i := range c.subcategories {
		subs = append(subs, c.subcategories[i].EffectiveQuery())
	}
	return query.Or(subs...)
}

// EffectiveQuery returns the query that selects the category's documents.
func (c *Category) EffectiveQuery() query.Query {
	if c.query.IsNothing() {
		return c.SubcategoryUnion()
	}
	return c.query
}

// SortMode returns the preferred sort mode for listing the category.
func (c *Category) SortMode() mode.Sort { return c.sortMode }

// ItemLimit returns the preferred result limit (0 = unbounded).
func (c *Category) ItemLimit() int { return c.itemLimit }

// Flags returns the category flags.
func (c *Category) Flags() []string { return slices.Clone(c.flags) }

// HasFlag reports whether the category carries flag.
func (c *Category) HasFlag(flag string) bool { return slices.Contains(c.flags, flag) }

// Subcategories returns the direct subcategories.
func (c *Category) Subcategories() []Category { return slices.Clone(c.subcategories) }

// Tree is an ordered set of top-level categories.
type Tree []Category

// Find looks a category up by name (case-insensitive), descending into subcategories.
// A "parent/child" path selects a subcategory explicitly.
func (t Tree) Find(name string) (Category, bool) {
	head, rest, nested := strings.Cut(name, "/")
	for i := range t {
		c := t[i]
		if !strings.EqualFold(c.name, head) {
			continue
		}
		if !nested {
			return c, true
		}
		return Tree(c.subcategories).Find(rest)
	}
	if nested {
		return Category{}, false
	}
	for i := range t {
		if c, ok := Tree(t[i].subcategories).Find(name); ok {
			return c, true
		}
	}
	return Category{}, false
}

// Names returns the names of the top-level categories that are not hidden.
func (t Tree) Names() []string {
	out := make([]string, 0, len(t))
	for i := range t {
		if !t[i].HasFlag(FlagHidden) {
			out = append(out, t[i].name)
		}
	}
	return out
}
