package reviews

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/appdex/internal/db"
	"github.com/kailas-cloud/appdex/internal/domain/review"
)

// DefaultChunkSize is the number of hashes fetched per round-trip.
const DefaultChunkSize = 256

// maxInflight bounds concurrent round-trips of one Stats call.
const maxInflight = 4

// Hash field names.
const (
	fieldAverage = "avg"
	fieldCount   = "count"
)

// store is the consumer interface for the review-statistics hashes (ISP).
type store interface {
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// Repo reads and writes per-package review statistics stored as hashes
// under <prefix>reviews:<pkgname>.
type Repo struct {
	store     store
	prefix    string
	chunkSize int
	lookups   *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates a review-statistics repository.
// lookups is a counter vec with label "result" ("hit"/"miss"/"invalid"), may be nil.
func New(s store, prefix string, chunkSize int, lookups *prometheus.CounterVec, logger *zap.Logger) *Repo {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, prefix: prefix, chunkSize: chunkSize, lookups: lookups, logger: logger}
}

// Stats returns the statistics of the given packages. Packages without
// ratings are absent from the map. Malformed hashes are skipped and logged.
func (r *Repo) Stats(ctx context.Context, pkgNames []string) (map[string]review.Stats, error) {
	if len(pkgNames) == 0 {
		return map[string]review.Stats{}, nil
	}

	chunks := chunk(pkgNames, r.chunkSize)
	replies := make([][]map[string]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInflight)
	for i, names := range chunks {
		keys := make([]string, len(names))
		for j, n := range names {
			keys[j] = r.key(n)
		}
		g.Go(func() error {
			res, err := r.store.HGetAllMulti(gctx, keys)
			if err != nil {
				return fmt.Errorf("fetch review stats: %w", err)
			}
			replies[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]review.Stats, len(pkgNames))
	for i, names := range chunks {
		for j, name := range names {
			var m map[string]string
			if j < len(replies[i]) {
				m = replies[i][j]
			}
			if len(m) == 0 {
				r.inc("miss")
				continue
			}
			s, err := statsFromHash(name, m)
			if err != nil {
				r.inc("invalid")
				r.logger.Warn("skipping malformed review stats",
					zap.String("pkgname", name), zap.Error(err))
				continue
			}
			r.inc("hit")
			out[name] = s
		}
	}
	return out, nil
}

// Put stores statistics, one hash per package, in chunked pipelines.
func (r *Repo) Put(ctx context.Context, stats []review.Stats) error {
	for _, part := range chunk(stats, r.chunkSize) {
		items := make([]db.HashSetItem, len(part))
		for i, s := range part {
			items[i] = db.HashSetItem{Key: r.key(s.PkgName()), Fields: statsToHash(s)}
		}
		if err := r.store.HSetMulti(ctx, items); err != nil {
			return fmt.Errorf("store review stats: %w", err)
		}
	}
	return nil
}

func (r *Repo) key(pkgName string) string {
	return r.prefix + "reviews:" + pkgName
}

func (r *Repo) inc(result string) {
	if r.lookups != nil {
		r.lookups.WithLabelValues(result).Inc()
	}
}

func statsToHash(s review.Stats) map[string]string {
	m := map[string]string{
		fieldAverage: strconv.FormatFloat(s.Average(), 'f', -1, 64),
		fieldCount:   strconv.Itoa(s.Count()),
	}
	for i, n := range s.Histogram() {
		m[histogramField(i)] = strconv.Itoa(n)
	}
	return m
}

// statsFromHash hydrates Stats from an HGETALL reply. The histogram is
// optional; when present all five buckets are required.
func statsFromHash(pkgName string, m map[string]string) (review.Stats, error) {
	avg, err := strconv.ParseFloat(m[fieldAverage], 64)
	if err != nil {
		return review.Stats{}, fmt.Errorf("invalid %s: %w", fieldAverage, err)
	}
	count, err := strconv.Atoi(m[fieldCount])
	if err != nil {
		return review.Stats{}, fmt.Errorf("invalid %s: %w", fieldCount, err)
	}

	var hist []int
	if _, ok := m[histogramField(0)]; ok {
		hist = make([]int, review.Stars)
		for i := range hist {
			n, err := strconv.Atoi(m[histogramField(i)])
			if err != nil {
				return review.Stats{}, fmt.Errorf("invalid %s: %w", histogramField(i), err)
			}
			hist[i] = n
		}
	}
	return review.NewStats(pkgName, avg, count, hist)
}

func histogramField(bucket int) string {
	return "h" + strconv.Itoa(bucket+1)
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}
