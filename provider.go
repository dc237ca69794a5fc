// Package uasig is a User-Agent device detection engine: a pooled binary
// signature database, a five-strategy matching pipeline, an alternative
// byte-indexed trie provider, and the orchestration layer (functional
// options, match caching, hot reload) that ties them together.
package uasig

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/corvidlabs/uasig/endian"
	"github.com/corvidlabs/uasig/entity"
	"github.com/corvidlabs/uasig/format"
	"github.com/corvidlabs/uasig/internal/cache"
	"github.com/corvidlabs/uasig/internal/hash"
	"github.com/corvidlabs/uasig/internal/metrics"
	"github.com/corvidlabs/uasig/match"
	"github.com/corvidlabs/uasig/source"
	"github.com/corvidlabs/uasig/trie"
	"github.com/corvidlabs/uasig/watcher"
)

// CachedMatch is the serializable projection of a match.Result the
// Provider's match cache stores: entity pointers are tied to the dataset
// generation that produced them, so a cache entry outliving a hot reload
// must carry plain values instead.
type CachedMatch struct {
	DeviceId   string
	Values     map[string][]string
	Strategy   string
	Difference int
	IsComplete bool
}

func encodeCachedMatch(v CachedMatch) ([]byte, error) { return json.Marshal(v) }
func decodeCachedMatch(b []byte) (CachedMatch, error) {
	var v CachedMatch
	err := json.Unmarshal(b, &v)
	return v, err
}

// Provider is the top-level entry point: it owns the primary signature
// dataset (optionally hot-reloaded by a watcher), an optional trie
// dataset, the matcher, and the match cache.
type Provider struct {
	cfg     *Config
	matcher *match.Matcher

	watcher *watcher.Watcher // non-nil when cfg.AutoUpdate
	static  *entity.Dataset  // non-nil when !cfg.AutoUpdate

	trie *trie.Dataset // optional, non-nil when cfg.TrieFilePath set

	matchCache cache.Cache[uint64, CachedMatch]
	collector  *metrics.Collector
}

// Open builds a Provider from cfg: it opens the primary dataset (direct
// or behind a watcher, per AutoUpdate), the optional trie dataset, and
// the match cache.
func Open(cfg *Config) (*Provider, error) {
	engine := endian.GetLittleEndianEngine()

	p := &Provider{
		cfg:     cfg,
		matcher: match.New(cfg.NodeEvaluationBudget),
	}

	mode := format.ModeStream
	if cfg.MemoryMode {
		mode = format.ModeMemory
	}
	openPrimary := func(path string) (*entity.Dataset, error) {
		return openDataset(path, engine, mode, cfg.MaxReaders)
	}

	if cfg.AutoUpdate {
		w := watcher.New(cfg.BinaryFilePath, cfg.CacheServiceInterval, cfg.DrainTimeout, openPrimary)
		if err := w.Start(); err != nil {
			return nil, err
		}
		p.watcher = w
	} else {
		ds, err := openPrimary(cfg.BinaryFilePath)
		if err != nil {
			return nil, err
		}
		p.static = ds
	}

	if cfg.TrieFilePath != "" {
		src, err := source.OpenFileSource(cfg.TrieFilePath)
		if err != nil {
			return nil, err
		}
		td, err := trie.Open(src, engine, cfg.MaxReaders)
		if err != nil {
			return nil, err
		}
		p.trie = td
	}

	if cfg.PersistentCacheDir != "" {
		bc, err := cache.OpenBadger(cfg.PersistentCacheDir, encodeCachedMatch, decodeCachedMatch)
		if err != nil {
			return nil, err
		}
		p.matchCache = bc
	} else {
		p.matchCache = cache.NewGenerational[uint64, CachedMatch](cfg.MatchCacheCapacity)
	}

	if cfg.EnableMetrics {
		p.collector = metrics.NewCollector(p.metricsSources())
	}

	return p, nil
}

// OpenBytes builds a Provider over an in-memory data file image instead
// of a path. AutoUpdate is meaningless without a file to watch and is
// ignored, as are BinaryFilePath and MemoryMode; everything else in cfg
// applies as in Open.
func OpenBytes(cfg *Config, data []byte) (*Provider, error) {
	engine := endian.GetLittleEndianEngine()

	ds, err := entity.Open(source.NewByteArraySource(data), engine, entity.CacheCapacities{}, cfg.MaxReaders)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		cfg:     cfg,
		matcher: match.New(cfg.NodeEvaluationBudget),
		static:  ds,
	}

	if cfg.TrieFilePath != "" {
		src, err := source.OpenFileSource(cfg.TrieFilePath)
		if err != nil {
			return nil, err
		}
		td, err := trie.Open(src, engine, cfg.MaxReaders)
		if err != nil {
			return nil, err
		}
		p.trie = td
	}

	if cfg.PersistentCacheDir != "" {
		bc, err := cache.OpenBadger(cfg.PersistentCacheDir, encodeCachedMatch, decodeCachedMatch)
		if err != nil {
			return nil, err
		}
		p.matchCache = bc
	} else {
		p.matchCache = cache.NewGenerational[uint64, CachedMatch](cfg.MatchCacheCapacity)
	}

	if cfg.EnableMetrics {
		p.collector = metrics.NewCollector(p.metricsSources())
	}

	return p, nil
}

func openDataset(path string, engine endian.EndianEngine, mode format.OpenMode, maxReaders int) (*entity.Dataset, error) {
	var src source.Source
	var err error

	if mode == format.ModeMemory {
		src, err = source.OpenMemorySource(path)
	} else {
		src, err = source.OpenFileSource(path)
	}
	if err != nil {
		return nil, err
	}

	return entity.Open(src, engine, entity.CacheCapacities{}, maxReaders)
}

// dataset returns the currently published primary dataset, whether it
// came from a static Open or is being hot-reloaded by a watcher.
func (p *Provider) dataset() *entity.Dataset {
	if p.watcher != nil {
		return p.watcher.Dataset()
	}

	return p.static
}

// Collector exposes the optional Prometheus collector, or nil when
// metrics were not enabled.
func (p *Provider) Collector() *metrics.Collector {
	return p.collector
}

// metricsSources wires every collector counter to its live origin. The
// pool counters resolve through dataset() on each pull so they follow a
// hot reload to the currently published dataset's pool.
func (p *Provider) metricsSources() metrics.Sources {
	return metrics.Sources{
		ReadersCreated: func() int64 {
			created, _ := p.dataset().PoolStats()
			return created
		},
		ReadersQueued: func() int64 {
			_, queued := p.dataset().PoolStats()
			return queued
		},
		CacheRequests: p.matchCache.Requests,
		CacheMisses:   p.matchCache.Misses,
		CacheSwitches: p.matchCache.Switches,
	}
}

// Match resolves a raw User-Agent string against the primary dataset's
// five-strategy pipeline, probing the match cache first.
func (p *Provider) Match(userAgent string) (*match.Result, error) {
	ds := p.dataset()
	ds.Acquire()
	defer ds.Release()

	key := hash.ID(userAgent)
	if cached, ok := p.matchCache.Get(key); ok {
		return p.resultFromCache(ds, cached), nil
	}

	result, err := p.matcher.Match(ds, []byte(userAgent))
	if err != nil {
		return nil, err
	}

	if cm, err := cachedMatchFrom(ds, result); err == nil {
		p.matchCache.Set(key, cm)
	}

	return result, nil
}

// MatchHeaders resolves the User-Agent from the first header in
// cfg.OverrideUserAgentHeaders present on headers, falling back to
// "User-Agent".
func (p *Provider) MatchHeaders(headers http.Header) (*match.Result, error) {
	for _, name := range p.cfg.OverrideUserAgentHeaders {
		if v := headers.Get(name); v != "" {
			return p.Match(v)
		}
	}

	return p.Match(headers.Get("User-Agent"))
}

// cachedMatchFrom projects r into its serializable form, resolving
// Values for every property in ds up front so a later cache hit can
// answer Values without the profile pointers r.Profiles carries (those
// are tied to ds's generation and go stale across a hot reload).
func cachedMatchFrom(ds *entity.Dataset, r *match.Result) (CachedMatch, error) {
	deviceId, err := r.DeviceId()
	if err != nil {
		return CachedMatch{}, err
	}

	values := make(map[string][]string, ds.Properties.Count())
	for i := 0; i < ds.Properties.Count(); i++ {
		prop, err := ds.Properties.GetByIndex(i)
		if err != nil {
			return CachedMatch{}, err
		}

		name, err := prop.Name()
		if err != nil {
			return CachedMatch{}, err
		}

		v, err := r.Values(name)
		if err != nil {
			return CachedMatch{}, err
		}
		if v != nil {
			values[name] = v
		}
	}

	return CachedMatch{
		DeviceId:   deviceId,
		Values:     values,
		Strategy:   r.Strategy.String(),
		Difference: r.Difference,
		IsComplete: r.IsComplete,
	}, nil
}

// resultFromCache rebuilds a *match.Result from a cache hit: it carries
// no profile pointers from ds (those belong to whatever dataset
// generation produced the original match), but Values was resolved and
// stored at cache-write time, so it answers identically to a live match.
func (p *Provider) resultFromCache(ds *entity.Dataset, cm CachedMatch) *match.Result {
	var strategy match.Strategy
	switch cm.Strategy {
	case match.Exact.String():
		strategy = match.Exact
	case match.Numeric.String():
		strategy = match.Numeric
	case match.Nearest.String():
		strategy = match.Nearest
	case match.Closest.String():
		strategy = match.Closest
	default:
		strategy = match.None
	}

	result := &match.Result{
		Strategy:   strategy,
		Difference: cm.Difference,
		IsComplete: cm.IsComplete,
	}
	result.FromCached(cm.DeviceId, cm.Values)

	return result
}

// GetProperty resolves a property by name from the primary dataset.
func (p *Provider) GetProperty(name string) (*entity.Property, error) {
	return p.dataset().PropertyByName(name)
}

// Properties returns every property in the primary dataset.
func (p *Provider) Properties() ([]*entity.Property, error) {
	ds := p.dataset()
	out := make([]*entity.Property, 0, ds.Properties.Count())
	for i := 0; i < ds.Properties.Count(); i++ {
		prop, err := ds.Properties.GetByIndex(i)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}

	return out, nil
}

// Components returns every component in the primary dataset.
func (p *Provider) Components() ([]*entity.Component, error) {
	ds := p.dataset()
	out := make([]*entity.Component, 0, ds.Components.Count())
	for i := 0; i < ds.Components.Count(); i++ {
		c, err := ds.Components.GetByIndex(i)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}

// NextUpdate reports the primary dataset's declared next-update time.
func (p *Provider) NextUpdate() time.Time {
	return p.dataset().Header.NextUpdateTime()
}

// MatchTrie resolves userAgent against the secondary trie-format
// dataset, returning the resolved device's named properties. It returns
// an error if no trie dataset was configured.
func (p *Provider) MatchTrie(userAgent string) (map[string]string, error) {
	if p.trie == nil {
		return nil, errors.New("uasig: no trie dataset configured")
	}

	deviceIndex, err := p.trie.Match([]byte(userAgent))
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(p.trie.PropertyNames()))
	for _, name := range p.trie.PropertyNames() {
		v, err := p.trie.PropertyValue(deviceIndex, name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}

	return out, nil
}

// Dispose releases every resource the Provider holds: the watcher (and
// its currently published dataset), the trie dataset, and the match
// cache.
func (p *Provider) Dispose() error {
	var errs []error

	if p.watcher != nil {
		p.watcher.Stop()
		if ds := p.watcher.Dataset(); ds != nil {
			errs = append(errs, ds.Dispose())
		}
	}
	if p.static != nil {
		errs = append(errs, p.static.Dispose())
	}
	if p.trie != nil {
		errs = append(errs, p.trie.Dispose())
	}

	errs = append(errs, p.matchCache.Close())

	return errors.Join(errs...)
}
