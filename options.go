package appdex

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	indexPath     string
	indexReadOnly bool
	catalogPath   string
	categories    string
	packages      string

	redisAddrs []string
	redisPass  string
	keyPrefix  string

	distroName     string
	origins        []string
	components     []string
	requireTrusted bool

	locale           string
	greylist         []string
	maxPartialLength int
	pageSize         int

	logger *zap.Logger
}

// WithIndex opens the on-disk index at path. Without it the index is built
// in memory from the catalog export.
func WithIndex(path string, readOnly bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexPath = path
		c.indexReadOnly = readOnly
	})
}

// WithCatalog sets the catalog export imported into an in-memory index.
func WithCatalog(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithCategories loads the category menu used by SearchOptions.Category.
func WithCategories(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.categories = path
	})
}

// WithPackageSnapshot loads the package-cache snapshot behind the
// available, installed and supported filters.
func WithPackageSnapshot(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.packages = path
	})
}

// WithRedis reads rating statistics from a Redis instance. Without it
// top-rated searches keep relevance order.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPass = password
	})
}

// WithKeyPrefix sets the prefix of rating-statistics keys. Default: "appdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithDistro sets the origins and components the distribution supports.
// Default: Ubuntu main and restricted, trusted only.
func WithDistro(name string, origins, components []string, requireTrusted bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.distroName = name
		c.origins = origins
		c.components = components
		c.requireTrusted = requireTrusted
	})
}

// WithLocale sets the locale of display-name ordering. Default: "en".
func WithLocale(tag string) Option {
	return optionFunc(func(c *clientConfig) {
		c.locale = tag
	})
}

// WithGreylist replaces the list of words too generic to narrow a search.
func WithGreylist(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.greylist = words
	})
}

// WithMaxPartialLength sets the query size above which the last word is no
// longer matched as a prefix.
func WithMaxPartialLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPartialLength = n
	})
}

// WithPageSize sets the window size used while a filter discards matches.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithLogger enables structured logging. Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
