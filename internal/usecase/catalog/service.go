package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/appdex/internal/domain/batch"
	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/review"
)

// DefaultChunkSize is the number of documents written per index batch.
const DefaultChunkSize = 500

// Service imports a catalog export into the index and the review store.
type Service struct {
	docs      DocumentWriter
	reviews   ReviewWriter
	chunkSize int
	logger    *zap.Logger
}

// New creates an import service. reviews can be nil.
func New(docs DocumentWriter, reviews ReviewWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{docs: docs, reviews: reviews, chunkSize: DefaultChunkSize, logger: logger}
}

// WithChunkSize configures the index batch size.
func (s *Service) WithChunkSize(size int) *Service {
	if size > 0 {
		s.chunkSize = size
	}
	return s
}

// Import writes docs chunk by chunk and reports one result per document.
// A failed chunk fails only its own documents; cancellation fails the rest.
func (s *Service) Import(ctx context.Context, docs []document.Document) []batch.Result {
	docs = MarkDuplicates(docs)
	results := make([]batch.Result, 0, len(docs))

	for start := 0; start < len(docs); start += s.chunkSize {
		chunk := docs[start:min(start+s.chunkSize, len(docs))]

		err := ctx.Err()
		if err == nil {
			err = s.docs.Put(ctx, chunk)
		}
		if err != nil {
			s.logger.Warn("index chunk failed",
				zap.Int("offset", start), zap.Int("size", len(chunk)), zap.Error(err))
			for i := range chunk {
				results = append(results, batch.NewFailed(chunk[i].ID(), fmt.Errorf("index: %w", err)))
			}
			continue
		}
		for i := range chunk {
			results = append(results, batch.NewIndexed(chunk[i].ID()))
		}
	}

	sum := batch.Summarize(results)
	s.logger.Info("catalog imported",
		zap.Int("indexed", sum.Indexed), zap.Int("failed", sum.Failed))
	return results
}

// ImportReviews stores rating statistics. It is a no-op without a review store.
func (s *Service) ImportReviews(ctx context.Context, stats []review.Stats) error {
	if s.reviews == nil || len(stats) == 0 {
		return nil
	}
	if err := s.reviews.Put(ctx, stats); err != nil {
		return fmt.Errorf("store reviews: %w", err)
	}
	s.logger.Info("reviews imported", zap.Int("packages", len(stats)))
	return nil
}

// MarkDuplicates adds the duplicate marker to plain package documents whose
// package is also described by an application document.
func MarkDuplicates(docs []document.Document) []document.Document {
	apps := make(map[string]struct{})
	for i := range docs {
		if docs[i].IsApplication() {
			apps[docs[i].PkgName()] = struct{}{}
		}
	}

	out := make([]document.Document, len(docs))
	for i := range docs {
		out[i] = docs[i]
		if docs[i].IsApplication() || docs[i].HasTerm(document.TermDuplicate) {
			continue
		}
		if _, ok := apps[docs[i].PkgName()]; ok {
			out[i] = docs[i].WithTerm(document.TermDuplicate)
		}
	}
	return out
}
