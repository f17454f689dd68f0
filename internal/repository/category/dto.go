package category

import (
	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/search/mode"
)

// menu is the YAML representation of a category definition file.
type menu struct {
	Categories []categoryRow `yaml:"categories"`
}

// categoryRow is one category of a menu file.
type categoryRow struct {
	Name          string        `yaml:"name"`
	Icon          string        `yaml:"icon"`
	Sort          string        `yaml:"sort"`
	Limit         int           `yaml:"limit"`
	Flags         []string      `yaml:"flags"`
	Rule          *ruleRow      `yaml:"rule"`
	Subcategories []categoryRow `yaml:"subcategories"`
}

// ruleRow is one node of a membership rule.
type ruleRow struct {
	And []ruleRow `yaml:"and"`
	Or  []ruleRow `yaml:"or"`
	Not []ruleRow `yaml:"not"`

	Category string `yaml:"category"`
	Section  string `yaml:"section"`
	Type     string `yaml:"type"`
	Channel  string `yaml:"channel"`
	Origin   string `yaml:"origin"`
	Label    string `yaml:"label"`
	Pkgname  string `yaml:"pkgname"`
}

func (r ruleRow) toDomain() category.Rule {
	return category.Rule{
		And:      rulesToDomain(r.And),
		Or:       rulesToDomain(r.Or),
		Not:      rulesToDomain(r.Not),
		Category: r.Category,
		Section:  r.Section,
		Type:     r.Type,
		Channel:  r.Channel,
		Origin:   r.Origin,
		Label:    r.Label,
		Pkgname:  r.Pkgname,
	}
}

func rulesToDomain(rows []ruleRow) []category.Rule {
	if len(rows) == 0 {
		return nil
	}
	out := make([]category.Rule, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}

func (c categoryRow) attrs(subs []category.Category) category.Attrs {
	return category.Attrs{
		IconName:      c.Icon,
		SortMode:      mode.Sort(c.Sort),
		ItemLimit:     c.Limit,
		Flags:         c.Flags,
		Subcategories: subs,
	}
}
