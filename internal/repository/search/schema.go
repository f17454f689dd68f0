package search

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/document"
)

// Index columns that are not document values.
const (
	ColumnTerms = "terms"
	ColumnText  = "text"
)

// TermSeparator joins the terms of a document when read back from the index.
const TermSeparator = "|"

// IndexName is the catalog index name.
const IndexName = "appdex-catalog"

// Definition returns the catalog index schema.
func Definition() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		KeywordList(ColumnTerms, TermSeparator).
		Text(ColumnText).
		Keyword(document.ValuePkgName).
		Keyword(document.ValueAppName).
		Keyword(document.ValueDisplayName).
		Keyword(document.ValueDisplayNameKey).
		Keyword(document.ValueSummary).
		Keyword(document.ValueArchiveChannel).
		Keyword(document.ValueOrigin).
		Keyword(document.ValueComponent).
		Numeric(document.ValuePrice).
		Numeric(document.ValueCatalogedTime).
		MustBuild()
}

// returnFields lists the stored columns loaded for every hit.
var returnFields = []string{
	ColumnTerms,
	document.ValuePkgName,
	document.ValueAppName,
	document.ValueDisplayName,
	document.ValueSummary,
	document.ValueArchiveChannel,
	document.ValueOrigin,
	document.ValueComponent,
	document.ValuePrice,
	document.ValueCatalogedTime,
}

// SortKeyFunc computes the collation key stored with the display name.
type SortKeyFunc func(displayName string) string

// ToIndexDocument maps a document onto the catalog schema. Empty values are
// omitted so that a column only exists in the index once some document has it.
// The analyzed body combines names, summary and text.
func ToIndexDocument(doc document.Document, sortKey SortKeyFunc) db.IndexDocument {
	f := map[string]any{
		ColumnTerms:          doc.Terms(),
		document.ValuePkgName: doc.PkgName(),
	}
	put := func(name, v string) {
		if v != "" {
			f[name] = v
		}
	}
	put(document.ValueAppName, doc.AppName())
	put(document.ValueSummary, doc.Summary())
	put(document.ValueArchiveChannel, doc.ArchiveChannel())
	put(document.ValueOrigin, doc.Origin())
	put(document.ValueComponent, doc.Component())

	display := doc.DisplayName()
	put(document.ValueDisplayName, display)
	if sortKey != nil {
		put(document.ValueDisplayNameKey, sortKey(display))
	}
	if doc.Price() > 0 {
		f[document.ValuePrice] = doc.Price()
	}
	if doc.CatalogedTime() > 0 {
		f[document.ValueCatalogedTime] = float64(doc.CatalogedTime())
	}

	f[ColumnText] = strings.Join([]string{
		doc.PkgName(), doc.AppName(), doc.DisplayName(), doc.Summary(), doc.Text(),
	}, " ")

	return db.IndexDocument{ID: doc.ID(), Fields: f}
}

// parseEntry converts a search hit back into a document.
func parseEntry(entry db.SearchEntry) document.Document {
	var fields document.Fields
	var pkgName string

	for k, v := range entry.Fields {
		switch k {
		case ColumnTerms:
			fields.Terms = splitTerms(v)
		case document.ValuePkgName:
			pkgName = v
		case document.ValueAppName:
			fields.AppName = v
		case document.ValueDisplayName:
			fields.DisplayName = v
		case document.ValueSummary:
			fields.Summary = v
		case document.ValueArchiveChannel:
			fields.ArchiveChannel = v
		case document.ValueOrigin:
			fields.Origin = v
		case document.ValueComponent:
			fields.Component = v
		case document.ValuePrice:
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				fields.Price = p
			}
		case document.ValueCatalogedTime:
			if ts, err := strconv.ParseFloat(v, 64); err == nil {
				fields.CatalogedTime = int64(ts)
			}
		}
	}

	return document.Reconstruct(entry.Key, pkgName, fields)
}

func splitTerms(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, TermSeparator)
}
