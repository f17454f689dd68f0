package appdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/appdex/internal/collation"
	"github.com/kailas-cloud/appdex/internal/db/bleveindex"
	dbRedis "github.com/kailas-cloud/appdex/internal/db/redis"
	"github.com/kailas-cloud/appdex/internal/domain"
	"github.com/kailas-cloud/appdex/internal/domain/batch"
	"github.com/kailas-cloud/appdex/internal/domain/category"
	"github.com/kailas-cloud/appdex/internal/domain/distro"
	catalogrepo "github.com/kailas-cloud/appdex/internal/repository/catalog"
	categoryrepo "github.com/kailas-cloud/appdex/internal/repository/category"
	"github.com/kailas-cloud/appdex/internal/repository/pkgcache"
	reviewsrepo "github.com/kailas-cloud/appdex/internal/repository/reviews"
	searchrepo "github.com/kailas-cloud/appdex/internal/repository/search"
	cataloguc "github.com/kailas-cloud/appdex/internal/usecase/catalog"
	"github.com/kailas-cloud/appdex/internal/usecase/compiler"
	searchuc "github.com/kailas-cloud/appdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "appdex:"
)

// Client is the appdex SDK entry point.
type Client struct {
	index      *bleveindex.Index
	store      *dbRedis.Store
	packages   *pkgcache.Cache
	snapshot   string
	categories category.Tree
	compiler   *compiler.Compiler
	searchSvc  *searchuc.Service
	logger     *zap.Logger
}

// Open opens the catalog index, the package cache and, when configured, the
// review store. Either WithIndex or WithCatalog is required.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix, logger: zap.NewNop()}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.indexPath == "" && cfg.catalogPath == "" {
		return nil, errors.New("appdex: index or catalog required (use WithIndex or WithCatalog)")
	}

	policy := distro.Default()
	if cfg.distroName != "" {
		p, err := distro.NewPolicy(cfg.distroName, cfg.origins, cfg.components, cfg.requireTrusted)
		if err != nil {
			return nil, fmt.Errorf("appdex: %w", err)
		}
		policy = p
	}

	collator, err := collation.New(cfg.locale)
	if err != nil {
		return nil, fmt.Errorf("appdex: %w", err)
	}

	c := &Client{snapshot: cfg.packages, logger: cfg.logger}
	if err := c.wire(ctx, cfg, policy, collator); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) wire(ctx context.Context, cfg *clientConfig, policy distro.Policy, collator *collation.Collator) error {
	index, err := bleveindex.Open(bleveindex.Config{
		Path:       cfg.indexPath,
		ReadOnly:   cfg.indexReadOnly,
		TermsField: searchrepo.ColumnTerms,
		TextField:  searchrepo.ColumnText,
	}, searchrepo.Definition())
	if err != nil {
		return fmt.Errorf("appdex: %w: %w", domain.ErrIndexUnavailable, err)
	}
	c.index = index
	repo := searchrepo.New(index).WithSortKey(collator.Key)

	// Pass nil interfaces (not typed nil pointers!) when reviews are disabled.
	var reviews searchuc.ReviewProvider
	var reviewWriter cataloguc.ReviewWriter
	if len(cfg.redisAddrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.redisAddrs, Password: cfg.redisPass})
		if err != nil {
			return fmt.Errorf("appdex: create redis store: %w", err)
		}
		c.store = store
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return fmt.Errorf("appdex: redis not ready: %w", err)
		}
		r := reviewsrepo.New(store, cfg.keyPrefix, 0, nil, cfg.logger)
		reviews, reviewWriter = r, r
	}

	if cfg.indexPath == "" {
		if err := importCatalog(ctx, repo, reviewWriter, cfg.catalogPath, cfg.logger); err != nil {
			return err
		}
	}

	c.packages = pkgcache.New(nil)
	if cfg.packages != "" {
		if c.packages, err = pkgcache.Load(cfg.packages); err != nil {
			return fmt.Errorf("appdex: %w: %w", domain.ErrIndexUnavailable, err)
		}
	}

	if cfg.categories != "" {
		if c.categories, err = categoryrepo.Load(cfg.categories); err != nil {
			return fmt.Errorf("appdex: %w", err)
		}
	}

	var compilerOpts []compiler.Option
	if len(cfg.greylist) > 0 {
		compilerOpts = append(compilerOpts, compiler.WithGreylist(cfg.greylist))
	}
	if cfg.maxPartialLength > 0 {
		compilerOpts = append(compilerOpts, compiler.WithMaxPartialLength(cfg.maxPartialLength))
	}
	c.compiler = compiler.New(compilerOpts...)

	searchOpts := []searchuc.Option{
		searchuc.WithPolicy(policy),
		searchuc.WithCollator(collator),
		searchuc.WithLogger(cfg.logger),
		searchuc.WithPageSize(cfg.pageSize),
	}
	if reviews != nil {
		searchOpts = append(searchOpts, searchuc.WithReviews(reviews))
	}
	c.searchSvc = searchuc.New(repo, c.packages, searchOpts...)
	return nil
}

func importCatalog(
	ctx context.Context, repo *searchrepo.Repo, reviews cataloguc.ReviewWriter, path string, logger *zap.Logger,
) error {
	cat, err := catalogrepo.Load(path)
	if err != nil {
		return fmt.Errorf("appdex: %w", err)
	}
	for _, r := range cat.Rejected {
		logger.Warn("catalog row rejected", zap.String("id", r.ID()), zap.Error(r.Err()))
	}

	importer := cataloguc.New(repo, reviews, logger)
	if sum := batch.Summarize(importer.Import(ctx, cat.Documents)); sum.Failed > 0 {
		return fmt.Errorf("appdex: %w: %d documents failed to index", domain.ErrIndexUnavailable, sum.Failed)
	}
	if err := importer.ImportReviews(ctx, cat.Reviews); err != nil {
		return fmt.Errorf("appdex: %w", err)
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.index != nil {
		_ = c.index.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks that the index can serve reads and, when configured, that
// the review store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.index.Ping(ctx); err != nil {
		return fmt.Errorf("ping index: %w", err)
	}
	if c.store != nil {
		if err := c.store.Ping(ctx); err != nil {
			return fmt.Errorf("ping reviews: %w", err)
		}
	}
	return nil
}

// Categories returns the names of the visible top-level categories.
func (c *Client) Categories() []string {
	return c.categories.Names()
}

// ReloadPackages re-reads the package snapshot after the system package
// state changed. Without a snapshot it only drops memoized states.
func (c *Client) ReloadPackages() error {
	if c.snapshot == "" {
		c.packages.Reset()
		return nil
	}
	if err := c.packages.Reload(c.snapshot); err != nil {
		return fmt.Errorf("reload packages: %w", err)
	}
	return nil
}
