package bleveindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/search/query"
)

// translate compiles a query tree into a bleve query. Term leaves match the
// terms field exactly; word and prefix leaves match the analyzed text field.
func (x *Index) translate(q query.Query) (bq.Query, error) {
	switch q.Op() {
	case query.OpNothing:
		return bleve.NewMatchNoneQuery(), nil
	case query.OpAll:
		return bleve.NewMatchAllQuery(), nil
	case query.OpTerm:
		tq := bleve.NewTermQuery(q.Value())
		tq.SetField(x.terms)
		return tq, nil
	case query.OpText:
		mq := bleve.NewMatchQuery(q.Value())
		mq.SetField(x.text)
		return mq, nil
	case query.OpPrefix:
		pq := bleve.NewPrefixQuery(q.Value())
		pq.SetField(x.text)
		return pq, nil
	case query.OpAnd, query.OpOr:
		subs, err := x.translateAll(q.Subs())
		if err != nil {
			return nil, err
		}
		if q.Op() == query.OpAnd {
			return bleve.NewConjunctionQuery(subs...), nil
		}
		return bleve.NewDisjunctionQuery(subs...), nil
	case query.OpAndNot:
		subs, err := x.translateAll(q.Subs())
		if err != nil {
			return nil, err
		}
		if len(subs) != 2 {
			return nil, fmt.Errorf("%w: AND_NOT needs 2 operands, got %d", db.ErrInvalidQuery, len(subs))
		}
		b := bleve.NewBooleanQuery()
		b.AddMust(subs[0])
		b.AddMustNot(subs[1])
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown operator %d", db.ErrInvalidQuery, q.Op())
	}
}

func (x *Index) translateAll(qs []query.Query) ([]bq.Query, error) {
	out := make([]bq.Query, 0, len(qs))
	for _, s := range qs {
		t, err := x.translate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
