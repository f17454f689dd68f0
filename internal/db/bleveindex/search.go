package bleveindex

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// Search runs a windowed, sorted search and returns stored fields as strings.
func (x *Index) Search(ctx context.Context, q *db.IndexQuery) (*db.SearchResult, error) {
	if q.From < 0 || q.Size < 0 {
		return nil, fmt.Errorf("%w: negative window %d+%d", db.ErrInvalidQuery, q.From, q.Size)
	}
	bqry, err := x.translate(q.Query)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bqry, q.Size, q.From, false)
	req.Fields = q.Fields
	req.SortByCustom(sortOrder(q.Sort))

	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, wrap(db.OpSearch, err)
	}

	out := &db.SearchResult{
		Total:   int(res.Total),
		Entries: make([]db.SearchEntry, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		out.Entries = append(out.Entries, db.SearchEntry{
			Key:    hit.ID,
			Score:  hit.Score,
			Fields: x.stringFields(hit.Fields),
		})
	}
	return out, nil
}

// Count returns the number of documents matching q.
func (x *Index) Count(ctx context.Context, q query.Query) (int, error) {
	bqry, err := x.translate(q)
	if err != nil {
		return 0, err
	}
	req := bleve.NewSearchRequestOptions(bqry, 0, 0, false)
	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, wrap(db.OpCount, err)
	}
	return int(res.Total), nil
}

// HasField reports whether any indexed document carries a value for name.
func (x *Index) HasField(_ context.Context, name string) (bool, error) {
	fields, err := x.idx.Fields()
	if err != nil {
		return false, wrap(db.OpFields, err)
	}
	return slices.Contains(fields, name), nil
}

// DocCount returns the number of indexed documents.
func (x *Index) DocCount(_ context.Context) (int, error) {
	n, err := x.idx.DocCount()
	if err != nil {
		return 0, wrap(db.OpDocCount, err)
	}
	return int(n), nil
}

func sortOrder(keys []db.SortKey) search.SortOrder {
	if len(keys) == 0 {
		return search.SortOrder{&search.SortScore{Desc: true}, &search.SortDocID{}}
	}
	order := make(search.SortOrder, 0, len(keys))
	for _, k := range keys {
		switch k.Field {
		case db.FieldScore:
			order = append(order, &search.SortScore{Desc: k.Desc})
		case db.FieldID:
			order = append(order, &search.SortDocID{Desc: k.Desc})
		default:
			order = append(order, &search.SortField{
				Field:   k.Field,
				Desc:    k.Desc,
				Type:    sortType(k.Type),
				Missing: search.SortFieldMissingLast,
			})
		}
	}
	return order
}

func sortType(t db.SortType) search.SortFieldType {
	switch t {
	case db.SortString:
		return search.SortFieldAsString
	case db.SortNumber:
		return search.SortFieldAsNumber
	default:
		return search.SortFieldAuto
	}
}

// stringFields flattens bleve's stored values: numbers are formatted without
// exponent, multi-valued fields are joined with the schema separator.
func (x *Index) stringFields(in map[string]interface{}) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for name, v := range in {
		sep := " "
		if f, ok := x.def.Field(name); ok && f.Separator != "" {
			sep = f.Separator
		}
		out[name] = stringify(v, sep)
	}
	return out
}

func stringify(v interface{}, sep string) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringify(item, sep))
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprint(val)
	}
}
