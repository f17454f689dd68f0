package bleveindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/kailas-cloud/appdex/internal/db"
)

// Compile-time check: Index implements db.Index.
var _ db.Index = (*Index)(nil)

// DefaultBatchSize is the number of documents written per bleve batch.
const DefaultBatchSize = 500

// Config holds index location and field roles.
type Config struct {
	// Path of the on-disk index. Empty keeps the index in memory.
	Path string
	// ReadOnly opens an existing on-disk index without write access.
	ReadOnly bool
	// TermsField holds the exact index terms matched by term queries.
	TermsField string
	// TextField holds the analyzed body matched by word and prefix queries.
	TextField string
	BatchSize int
}

// Index implements db.Index on top of an embedded bleve index.
type Index struct {
	idx       bleve.Index
	def       *db.IndexDefinition
	terms     string
	text      string
	batchSize int
}

// Open opens the index at cfg.Path, creating it from def when it does not exist yet.
func Open(cfg Config, def *db.IndexDefinition) (*Index, error) {
	if def == nil {
		return nil, fmt.Errorf("index definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index definition: %w", err)
	}
	for _, role := range []string{cfg.TermsField, cfg.TextField} {
		if _, ok := def.Field(role); !ok {
			return nil, fmt.Errorf("field %q is not part of index %s", role, def.Name)
		}
	}

	m, err := buildMapping(def)
	if err != nil {
		return nil, err
	}

	var idx bleve.Index
	switch {
	case cfg.Path == "":
		idx, err = bleve.NewMemOnly(m)
	case cfg.ReadOnly:
		idx, err = bleve.OpenUsing(cfg.Path, map[string]interface{}{"read_only": true})
	default:
		idx, err = bleve.Open(cfg.Path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			idx, err = bleve.New(cfg.Path, m)
		}
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Index{
		idx:       idx,
		def:       def,
		terms:     cfg.TermsField,
		text:      cfg.TextField,
		batchSize: batchSize,
	}, nil
}

// Ping reports whether the index can serve reads.
func (x *Index) Ping(ctx context.Context) error {
	_, err := x.DocCount(ctx)
	return err
}

// Close releases the index.
func (x *Index) Close() error {
	if err := x.idx.Close(); err != nil {
		return &db.Error{Op: db.OpClose, Err: err}
	}
	return nil
}

func wrap(op string, err error) error {
	if errors.Is(err, bleve.ErrorIndexClosed) {
		err = db.ErrIndexClosed
	}
	return &db.Error{Op: op, Err: err}
}
