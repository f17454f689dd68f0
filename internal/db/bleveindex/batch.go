package bleveindex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/appdex/internal/db"
)

// IndexDocuments writes docs in batches. Fields outside the schema are rejected
// before anything is written.
func (x *Index) IndexDocuments(ctx context.Context, docs []db.IndexDocument) error {
	for i := range docs {
		if docs[i].ID == "" {
			return fmt.Errorf("%w: document %d has no id", db.ErrSchemaViolation, i)
		}
		for name := range docs[i].Fields {
			if _, ok := x.def.Field(name); !ok {
				return fmt.Errorf("%w: document %s: unknown field %q", db.ErrSchemaViolation, docs[i].ID, name)
			}
		}
	}

	for start := 0; start < len(docs); start += x.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+x.batchSize, len(docs))

		b := x.idx.NewBatch()
		for _, d := range docs[start:end] {
			if err := b.Index(d.ID, d.Fields); err != nil {
				return wrap(db.OpBatch, fmt.Errorf("document %s: %w", d.ID, err))
			}
		}
		if err := x.idx.Batch(b); err != nil {
			return wrap(db.OpBatch, err)
		}
	}
	return nil
}
