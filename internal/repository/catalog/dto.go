package catalog

import (
	"time"

	"github.com/kailas-cloud/appdex/internal/domain/document"
)

// file is the YAML representation of a catalog export.
type file struct {
	Documents []documentRow `yaml:"documents"`
}

// documentRow is one application or package of a catalog export.
type documentRow struct {
	ID             string     `yaml:"id"`
	Pkgname        string     `yaml:"pkgname"`
	Appname        string     `yaml:"appname"`
	DisplayName    string     `yaml:"display_name"`
	Summary        string     `yaml:"summary"`
	Description    string     `yaml:"description"`
	Keywords       []string   `yaml:"keywords"`
	Type           string     `yaml:"type"`
	Categories     []string   `yaml:"categories"`
	Section        string     `yaml:"section"`
	ArchiveChannel string     `yaml:"archive_channel"`
	Origin         string     `yaml:"origin"`
	Component      string     `yaml:"component"`
	Labels         []string   `yaml:"labels"`
	Terms          []string   `yaml:"terms"`
	Duplicate      bool       `yaml:"duplicate"`
	Price          float64    `yaml:"price"`
	Cataloged      *time.Time `yaml:"cataloged"`
	Reviews        *reviewRow `yaml:"reviews"`
}

// reviewRow is the rating summary attached to a catalog row.
type reviewRow struct {
	Average   float64 `yaml:"average"`
	Count     int     `yaml:"count"`
	Histogram []int   `yaml:"histogram"`
}

func (r documentRow) terms() []string {
	terms := append([]string(nil), r.Terms...)
	if r.Type != "" {
		terms = append(terms, document.TypeTerm(r.Type))
	}
	for _, c := range r.Categories {
		terms = append(terms, document.CategoryTerm(c))
	}
	if r.Section != "" {
		terms = append(terms, document.SectionTerm(r.Section))
	}
	if r.ArchiveChannel != "" {
		terms = append(terms, document.ChannelTerm(r.ArchiveChannel))
	}
	if r.Origin != "" {
		terms = append(terms, document.OriginTerm(r.Origin))
	}
	for _, l := range r.Labels {
		terms = append(terms, document.LabelTerm(l))
	}
	if r.Duplicate {
		terms = append(terms, document.TermDuplicate)
	}
	return terms
}

func (r documentRow) fields() document.Fields {
	text := r.Description
	for _, k := range r.Keywords {
		text += " " + k
	}
	f := document.Fields{
		AppName:        r.Appname,
		DisplayName:    r.DisplayName,
		Summary:        r.Summary,
		Text:           text,
		Terms:          r.terms(),
		ArchiveChannel: r.ArchiveChannel,
		Origin:         r.Origin,
		Component:      r.Component,
		Price:          r.Price,
	}
	if r.Cataloged != nil {
		f.CatalogedTime = r.Cataloged.Unix()
	}
	return f
}
