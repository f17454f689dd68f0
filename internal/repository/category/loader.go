package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Load reads a category menu file.
func Load(path string) (category.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML category menu and compiles every rule.
func Parse(data []byte) (category.Tree, error) {
	var m menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	tree := make(category.Tree, 0, len(m.Categories))
	seen := make(map[string]struct{}, len(m.Categories))
	for _, row := range m.Categories {
		c, err := build(row)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c.Name()]; dup {
			return nil, fmt.Errorf("category %q defined twice", c.Name())
		}
		seen[c.Name()] = struct{}{}
		tree = append(tree, c)
	}
	return tree, nil
}

func build(row categoryRow) (category.Category, error) {
	subs := make([]category.Category, 0, len(row.Subcategories))
	for _, sr := range row.Subcategories {
		s, err := build(sr)
		if err != nil {
			return category.Category{}, fmt.Errorf("%s/%w", row.Name, err)
		}
		subs = append(subs, s)
	}

	q := query.Nothing()
	if row.Rule != nil {
		compiled, err := row.Rule.toDomain().Compile()
		if err != nil {
			return category.Category{}, fmt.Errorf("category %q: rule: %w", row.Name, err)
		}
		q = compiled
	}

	c, err := category.New(row.Name, q, row.attrs(subs))
	if err != nil {
		return category.Category{}, fmt.Errorf("category %q: %w", row.Name, err)
	}
	return c, nil
}
