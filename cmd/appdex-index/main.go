package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/appdex/internal/collation"
	"github.com/kailas-cloud/appdex/internal/config"
	"github.com/kailas-cloud/appdex/internal/db/bleveindex"
	dbRedis "github.com/kailas-cloud/appdex/internal/db/redis"
	"github.com/kailas-cloud/appdex/internal/domain/batch"
	logpkg "github.com/kailas-cloud/appdex/internal/logger"
	catalogrepo "github.com/kailas-cloud/appdex/internal/repository/catalog"
	reviewsrepo "github.com/kailas-cloud/appdex/internal/repository/reviews"
	searchrepo "github.com/kailas-cloud/appdex/internal/repository/search"
	cataloguc "github.com/kailas-cloud/appdex/internal/usecase/catalog"
	"github.com/kailas-cloud/appdex/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "appdex-index",
		Short:   "Build the appdex catalog index",
		Long:    "Import a catalog export into an on-disk catalog index and its rating statistics into the review store",
		Version: version.Version,
		RunE:    runIndex,
	}

	rootCmd.Flags().String("env", "", "Config environment (default: $ENV or local)")
	rootCmd.Flags().StringP("catalog", "c", "", "Catalog export to import (default: catalog.path)")
	rootCmd.Flags().StringP("index", "i", "", "Index directory to write (default: index.path)")
	rootCmd.Flags().Int("chunk", 0, "Documents per index batch (default: index.batch_size)")
	rootCmd.Flags().Bool("skip-reviews", false, "Do not write rating statistics")
	rootCmd.Flags().Bool("dry-run", false, "Validate the catalog without writing anything")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(""); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = config.GetEnv()
	}
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog.Path = v
	}
	if v, _ := cmd.Flags().GetString("index"); v != "" {
		cfg.Index.Path = v
	}
	if v, _ := cmd.Flags().GetInt("chunk"); v > 0 {
		cfg.Index.BatchSize = v
	}
	skipReviews, _ := cmd.Flags().GetBool("skip-reviews")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if cfg.Catalog.Path == "" {
		return errors.New("no catalog export given (--catalog or catalog.path)")
	}
	if cfg.Index.Path == "" && !dryRun {
		return errors.New("no index directory given (--index or index.path)")
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := catalogrepo.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	for _, r := range c.Rejected {
		logger.Warn("catalog row rejected", zap.String("id", r.ID()), zap.Error(r.Err()))
	}
	if dryRun {
		printSummary(cmd, c, nil)
		return nil
	}

	collator, err := collation.New(cfg.Search.Locale)
	if err != nil {
		return err
	}
	index, err := bleveindex.Open(bleveindex.Config{
		Path:       cfg.Index.Path,
		TermsField: searchrepo.ColumnTerms,
		TextField:  searchrepo.ColumnText,
		BatchSize:  cfg.Index.BatchSize,
	}, searchrepo.Definition())
	if err != nil {
		return fmt.Errorf("open index %s: %w", cfg.Index.Path, err)
	}
	defer func() { _ = index.Close() }()

	var reviewWriter cataloguc.ReviewWriter
	if cfg.Reviews.Enabled() && !skipReviews {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Reviews.Addrs,
			Password: cfg.Reviews.Password,
		})
		if err != nil {
			return fmt.Errorf("create review store: %w", err)
		}
		defer store.Close()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Reviews.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("review store not ready: %w", err)
		}
		reviewWriter = reviewsrepo.New(store, cfg.Reviews.KeyPrefix, cfg.Reviews.ChunkSize, nil, logger)
	}

	repo := searchrepo.New(index).WithSortKey(collator.Key)
	importer := cataloguc.New(repo, reviewWriter, logger).WithChunkSize(cfg.Index.BatchSize)

	results := importer.Import(ctx, c.Documents)
	if err := importer.ImportReviews(ctx, c.Reviews); err != nil {
		return err
	}
	printSummary(cmd, c, results)

	if sum := batch.Summarize(results); !sum.OK() {
		return fmt.Errorf("%d documents failed to index", sum.Failed)
	}
	return nil
}

func printSummary(cmd *cobra.Command, c catalogrepo.Catalog, results []batch.Result) {
	sum := batch.Summarize(append(results, c.Rejected...))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "indexed:  %d\n", sum.Indexed)
	fmt.Fprintf(out, "rejected: %d\n", sum.Rejected)
	fmt.Fprintf(out, "failed:   %d\n", sum.Failed)
	fmt.Fprintf(out, "reviews:  %d\n", len(c.Reviews))
}
