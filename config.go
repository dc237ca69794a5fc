package uasig

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/corvidlabs/uasig/internal/options"
)

// Config holds every recognised detector setting, loadable either
// through functional Options or from the process environment via the
// env struct tags.
type Config struct {
	// MemoryMode maps the data file read-only into memory (mmap,
	// source.MemorySource) instead of reading it through one shared file
	// handle (source.FileSource).
	MemoryMode bool `env:"UASIG_MEMORY_MODE"`

	// BinaryFilePath is the data file to open. Required unless the
	// caller opens from an in-memory byte slice directly.
	BinaryFilePath string `env:"UASIG_BINARY_FILE_PATH"`

	// AutoUpdate enables the background file watcher that hot-swaps the
	// dataset when BinaryFilePath's mtime changes. It
	// never triggers network access; fetching a new file is the
	// embedding application's responsibility.
	AutoUpdate bool `env:"UASIG_AUTO_UPDATE"`

	// LicenceKey is accepted and kept in the Config; nothing in this
	// module reads it, and it never leads to a network call.
	LicenceKey string `env:"UASIG_LICENCE_KEY"`

	// CacheServiceInterval is how often the watcher polls for a
	// debounced change once one is observed.
	CacheServiceInterval time.Duration `env:"UASIG_CACHE_SERVICE_INTERVAL" envDefault:"1s"`

	// OverrideUserAgentHeaders lists the request headers Match(headers)
	// consults, in priority order, before falling back to "User-Agent".
	OverrideUserAgentHeaders []string `env:"UASIG_OVERRIDE_USER_AGENT_HEADERS" envDefault:"User-Agent" envSeparator:","`

	// NodeEvaluationBudget caps the matcher's node-discovery walk; zero
	// means unbounded.
	NodeEvaluationBudget int `env:"UASIG_NODE_EVALUATION_BUDGET"`

	// MaxReaders caps the reader pool; zero means unbounded.
	MaxReaders int `env:"UASIG_MAX_READERS"`

	// EnableMetrics registers the internal/metrics Prometheus collector
	// against the Provider's reader pool and match cache.
	EnableMetrics bool `env:"UASIG_ENABLE_METRICS"`

	// MatchCacheCapacity sizes the in-memory two-generation match cache.
	// Ignored when PersistentCacheDir is set.
	MatchCacheCapacity int `env:"UASIG_MATCH_CACHE_CAPACITY" envDefault:"4096"`

	// PersistentCacheDir, if set, backs the match cache with badger
	// instead of the in-memory generational cache, so matches survive a
	// process restart.
	PersistentCacheDir string `env:"UASIG_PERSISTENT_CACHE_DIR"`

	// TrieFilePath, if set, opens a second dataset in the alternative
	// byte-indexed trie format alongside the primary one.
	TrieFilePath string `env:"UASIG_TRIE_FILE_PATH"`

	// DrainTimeout bounds how long the watcher waits for a superseded
	// dataset's in-flight matches to drain before disposing it anyway.
	DrainTimeout time.Duration `env:"UASIG_DRAIN_TIMEOUT" envDefault:"30s"`
}

// defaultConfig returns a Config with every field at its documented
// default.
func defaultConfig() *Config {
	return &Config{
		CacheServiceInterval:     time.Second,
		OverrideUserAgentHeaders: []string{"User-Agent"},
		MatchCacheCapacity:       4096,
		DrainTimeout:             30 * time.Second,
	}
}

// knownEnvKeys lists every environment variable LoadConfigFromEnv
// recognises; anything else under the UASIG_ prefix is warned about and
// ignored rather than rejected.
var knownEnvKeys = map[string]struct{}{
	"UASIG_MEMORY_MODE":                 {},
	"UASIG_BINARY_FILE_PATH":            {},
	"UASIG_AUTO_UPDATE":                 {},
	"UASIG_LICENCE_KEY":                 {},
	"UASIG_CACHE_SERVICE_INTERVAL":      {},
	"UASIG_OVERRIDE_USER_AGENT_HEADERS": {},
	"UASIG_NODE_EVALUATION_BUDGET":      {},
	"UASIG_MAX_READERS":                 {},
	"UASIG_ENABLE_METRICS":              {},
	"UASIG_MATCH_CACHE_CAPACITY":        {},
	"UASIG_PERSISTENT_CACHE_DIR":        {},
	"UASIG_TRIE_FILE_PATH":              {},
	"UASIG_DRAIN_TIMEOUT":               {},
}

// LoadConfigFromEnv starts from defaultConfig and overlays any
// UASIG_-prefixed environment variables present. Unrecognised UASIG_
// variables are warned about and ignored, never fatal: a typo'd option
// must not take down an embedding application, but accepting it
// silently would hide the typo.
func LoadConfigFromEnv() (*Config, error) {
	cfg := defaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	warnUnknownEnvKeys(os.Environ())

	return cfg, nil
}

func warnUnknownEnvKeys(environ []string) {
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "UASIG_") {
			continue
		}
		if _, ok := knownEnvKeys[key]; !ok {
			log.Printf("uasig: unknown config key %s ignored", key)
		}
	}
}

// Option configures a Config.
type Option = options.Option[*Config]

// WithMemoryMode sets MemoryMode.
func WithMemoryMode(enabled bool) Option {
	return options.NoError(func(c *Config) { c.MemoryMode = enabled })
}

// WithBinaryFilePath sets BinaryFilePath.
func WithBinaryFilePath(path string) Option {
	return options.NoError(func(c *Config) { c.BinaryFilePath = path })
}

// WithAutoUpdate sets AutoUpdate.
func WithAutoUpdate(enabled bool) Option {
	return options.NoError(func(c *Config) { c.AutoUpdate = enabled })
}

// WithLicenceKey sets LicenceKey.
func WithLicenceKey(key string) Option {
	return options.NoError(func(c *Config) { c.LicenceKey = key })
}

// WithCacheServiceInterval sets CacheServiceInterval.
func WithCacheServiceInterval(d time.Duration) Option {
	return options.NoError(func(c *Config) { c.CacheServiceInterval = d })
}

// WithOverrideUserAgentHeaders sets OverrideUserAgentHeaders.
func WithOverrideUserAgentHeaders(headers ...string) Option {
	return options.NoError(func(c *Config) { c.OverrideUserAgentHeaders = headers })
}

// WithNodeEvaluationBudget sets NodeEvaluationBudget.
func WithNodeEvaluationBudget(budget int) Option {
	return options.NoError(func(c *Config) { c.NodeEvaluationBudget = budget })
}

// WithMaxReaders sets MaxReaders.
func WithMaxReaders(n int) Option {
	return options.NoError(func(c *Config) { c.MaxReaders = n })
}

// WithMetrics enables the Prometheus collector.
func WithMetrics(enabled bool) Option {
	return options.NoError(func(c *Config) { c.EnableMetrics = enabled })
}

// WithMatchCacheCapacity sets MatchCacheCapacity.
func WithMatchCacheCapacity(n int) Option {
	return options.NoError(func(c *Config) { c.MatchCacheCapacity = n })
}

// WithPersistentCacheDir selects the badger-backed match cache.
func WithPersistentCacheDir(dir string) Option {
	return options.NoError(func(c *Config) { c.PersistentCacheDir = dir })
}

// WithTrieFilePath opens a secondary trie-format dataset alongside the
// primary one.
func WithTrieFilePath(path string) Option {
	return options.NoError(func(c *Config) { c.TrieFilePath = path })
}

// WithDrainTimeout sets DrainTimeout.
func WithDrainTimeout(d time.Duration) Option {
	return options.NoError(func(c *Config) { c.DrainTimeout = d })
}

// NewConfig builds a Config from defaultConfig with opts applied in
// order. Options never fail (options.NoError), but returns an error to
// keep the door open for a validating Option later without breaking
// callers.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
