package compiler

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// DefaultMaxPartialLength is the leaf count above which the last word is no
// longer expanded as a prefix.
const DefaultMaxPartialLength = 64

// DefaultGreylist holds words too generic to narrow a search.
var DefaultGreylist = []string{"app", "application", "package", "program", "programme", "suite", "tool"}

// Boolean operators recognised in search strings. Lower-case spellings are plain words.
const (
	opAnd = "AND"
	opOr  = "OR"
	opNot = "NOT"
)

// Input is the UI-level state a search is compiled from.
type Input struct {
	// Terms is the raw search string; may be empty.
	Terms string
	// Category restricts results to a category (and its subcategory union).
	Category *category.Category
	// Channel restricts results to a software channel.
	Channel *query.Query
}

// Compiler turns search strings plus category/channel state into queries.
type Compiler struct {
	greylist         map[string]struct{}
	maxPartialLength int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithGreylist replaces the generic-word list.
func WithGreylist(words []string) Option {
	return func(c *Compiler) {
		c.greylist = make(map[string]struct{}, len(words))
		for _, w := range words {
			c.greylist[strings.ToLower(w)] = struct{}{}
		}
	}
}

// WithMaxPartialLength sets the size above which partial matching is dropped.
func WithMaxPartialLength(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.maxPartialLength = n
		}
	}
}

// New creates a compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{maxPartialLength: DefaultMaxPartialLength}
	WithGreylist(DefaultGreylist)(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile returns the queries to run, in priority order.
//
//   - empty terms: the category/channel constraint alone, or match-nothing without one
//   - single character: match-all under the constraint
//   - otherwise: a package-name query and a free-text query, both under the constraint
func (c *Compiler) Compile(in Input) []query.Query {
	constraint, constrained := c.constraint(in)
	terms := strings.TrimSpace(in.Terms)

	switch {
	case terms == "" && !constrained:
		return []query.Query{query.Nothing()}
	case terms == "":
		return []query.Query{constraint}
	case len([]rune(terms)) < 2:
		return []query.Query{query.And(query.All(), constraint)}
	}

	if !strings.Contains(terms, ":") {
		terms = c.stripGreylist(terms)
	}

	out := make([]query.Query, 0, 2)
	for _, q := range []query.Query{c.packageQuery(terms), c.textQuery(terms)} {
		q = query.And(q, constraint)
		if q.IsNothing() || slices.ContainsFunc(out, q.Equal) {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return []query.Query{query.Nothing()}
	}
	return out
}

// IsExactPackage reports whether q is a single package-name term.
func IsExactPackage(q query.Query) bool {
	_, ok := query.ExactTerm(q, document.PrefixPackage)
	return ok
}

func (c *Compiler) constraint(in Input) (query.Query, bool) {
	parts := make([]query.Query, 0, 2)
	if in.Category != nil {
		parts = append(parts, in.Category.EffectiveQuery())
	}
	if in.Channel != nil {
		parts = append(parts, *in.Channel)
	}
	return query.And(parts...), len(parts) > 0
}

// stripGreylist drops generic words unless nothing would be left.
func (c *Compiler) stripGreylist(terms string) string {
	words := strings.Fields(terms)
	kept := slices.DeleteFunc(slices.Clone(words), func(w string) bool {
		_, grey := c.greylist[strings.ToLower(w)]
		return grey
	})
	if len(kept) == 0 {
		return terms
	}
	return strings.Join(kept, " ")
}

// packageQuery matches package names: a comma-separated list names packages
// exactly, otherwise every plain word is tried as a package name.
func (c *Compiler) packageQuery(terms string) query.Query {
	var names []string
	if strings.Contains(terms, ",") {
		for _, n := range strings.Split(terms, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	} else {
		for _, w := range strings.Fields(terms) {
			if isOperator(w) {
				continue
			}
			names = append(names, w)
		}
	}

	subs := make([]query.Query, 0, len(names))
	for _, n := range names {
		// prefixed terms are handled by the text query
		if strings.Contains(n, ":") || strings.ContainsAny(n, " \t") {
			continue
		}
		subs = append(subs, query.Term(document.PackageTerm(n)))
	}
	return query.Or(subs...)
}

// textQuery parses the free text. The last plain word also matches as a
// prefix unless the query is already large.
func (c *Compiler) textQuery(terms string) query.Query {
	tokens := strings.Fields(strings.ReplaceAll(terms, ",", " "))

	full := parse(tokens, true)
	if full.Len() > c.maxPartialLength {
		return parse(tokens, false)
	}
	return full
}

func isOperator(tok string) bool {
	return tok == opAnd || tok == opOr || tok == opNot
}
