package category

import (
	"fmt"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Rule is one node of a category membership definition.
// Exactly one of the leaf fields or group lists is set.
type Rule struct {
	And []Rule
	Or  []Rule
	Not []Rule

	Category string
	Section  string
	Type     string
	Channel  string
	Origin   string
	Label    string
	Pkgname  string
}

// Compile translates the rule into a query. Not-children of an And group
// exclude the union of their members from the conjunction of the other members.
func (r Rule) Compile() (query.Query, error) {
	leaves := 0
	var leaf query.Query
	for _, l := range []struct {
		value string
		term  func(string) string
	}{
		{r.Category, document.CategoryTerm},
		{r.Section, document.SectionTerm},
		{r.Type, document.TypeTerm},
		{r.Channel, document.ChannelTerm},
		{r.Origin, document.OriginTerm},
		{r.Label, document.LabelTerm},
		{r.Pkgname, document.PackageTerm},
	} {
		if l.value != "" {
			leaves++
			leaf = query.Term(l.term(l.value))
		}
	}

	groups := 0
	for _, g := range [][]Rule{r.And, r.Or, r.Not} {
		if len(g) > 0 {
			groups++
		}
	}

	switch {
	case leaves+groups == 0:
		return query.Query{}, fmt.Errorf("empty rule")
	case leaves+groups > 1:
		return query.Query{}, fmt.Errorf("rule must set exactly one field or group")
	case leaves == 1:
		return leaf, nil
	case len(r.Or) > 0:
		subs, err := compileAll(r.Or)
		if err != nil {
			return query.Query{}, fmt.Errorf("or: %w", err)
		}
		return query.Or(subs...), nil
	case len(r.Not) > 0:
		subs, err := compileAll(r.Not)
		if err != nil {
			return query.Query{}, fmt.Errorf("not: %w", err)
		}
		return query.AndNot(query.All(), query.Or(subs...)), nil
	}

	var positive, negative []query.Query
	for i, child := range r.And {
		if len(child.Not) > 0 {
			subs, err := compileAll(child.Not)
			if err != nil {
				return query.Query{}, fmt.Errorf("and[%d].not: %w", i, err)
			}
			negative = append(negative, subs...)
			continue
		}
		q, err := child.Compile()
		if err != nil {
			return query.Query{}, fmt.Errorf("and[%d]: %w", i, err)
		}
		positive = append(positive, q)
	}
	return query.AndNot(query.And(positive...), query.Or(negative...)), nil
}

func compileAll(rules []Rule) ([]query.Query, error) {
	out := make([]query.Query, 0, len(rules))
	for i, r := range rules {
		q, err := r.Compile()
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}
