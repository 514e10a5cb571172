package cognito

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"

	"cruddur/internal/platform/metrics"
	"cruddur/pkg/platform/sentinel"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxKeySetBytes     = 1 << 20
)

// KeySetStore mirrors the raw JWKS document outside the process so replicas
// can share one fetch. Load returns sentinel.ErrNotFound on a miss.
type KeySetStore interface {
	Load(ctx context.Context, url string) ([]byte, error)
	Save(ctx context.Context, url string, raw []byte, ttl time.Duration) error
}

// KeySetConfig configures a KeySetCache.
type KeySetConfig struct {
	URL string
	// TTL bounds how long a fetched set is served before Get re-fetches it.
	// Zero keeps it for the process lifetime.
	TTL time.Duration
	// MinRefreshInterval is the minimum time between two forced refreshes that
	// go to the network. Loads made by Get do not count. Zero disables the limit.
	MinRefreshInterval time.Duration
	HTTPTimeout        time.Duration
	HTTPClient         *http.Client
	Store              KeySetStore
	Metrics            *metrics.Metrics
	Logger             *slog.Logger
}

// KeySetCache holds the user pool's signing keys. All loads, whether from Get
// or Refresh, share one single-flight key (the JWKS URL), so at most one fetch
// is in flight at a time.
type KeySetCache struct {
	cfg    KeySetConfig
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group

	mu          sync.RWMutex
	set         jwk.Set
	fetchedAt   time.Time
	refreshedAt time.Time
}

// NewKeySetCache builds a lazy cache; nothing is fetched until the first Get.
func NewKeySetCache(cfg KeySetConfig) (*KeySetCache, error) {
	if cfg.URL == "" {
		return nil, errors.New("key set URL is required")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KeySetCache{
		cfg:    cfg,
		client: client,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get returns the cached key set, loading it when cold or older than TTL.
// If a TTL re-fetch fails the stale set is still served.
func (c *KeySetCache) Get(ctx context.Context) (jwk.Set, error) {
	set, fetchedAt := c.snapshot()
	if set != nil && (c.cfg.TTL <= 0 || c.now().Sub(fetchedAt) < c.cfg.TTL) {
		return set, nil
	}

	fresh, err := c.load(ctx)
	if err != nil {
		if set != nil {
			c.logger.WarnContext(ctx, "serving stale signing key set",
				"error", err,
				"age", c.now().Sub(fetchedAt).String(),
			)
			return set, nil
		}
		return nil, err
	}
	return fresh, nil
}

// Refresh forces a network load, used when a token names an unknown key id.
// Within MinRefreshInterval of the previous forced refresh the cached set is
// returned as is. A Refresh that arrives while a load is in flight joins it.
func (c *KeySetCache) Refresh(ctx context.Context) (jwk.Set, error) {
	c.mu.RLock()
	set, refreshedAt := c.set, c.refreshedAt
	c.mu.RUnlock()
	if set != nil && c.cfg.MinRefreshInterval > 0 && !refreshedAt.IsZero() &&
		c.now().Sub(refreshedAt) < c.cfg.MinRefreshInterval {
		return set, nil
	}

	fresh, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.refreshedAt = c.now()
	c.mu.Unlock()
	return fresh, nil
}

func (c *KeySetCache) snapshot() (jwk.Set, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set, c.fetchedAt
}

func (c *KeySetCache) install(set jwk.Set) {
	c.mu.Lock()
	c.set = set
	c.fetchedAt = c.now()
	c.mu.Unlock()
}

// load runs at most one fetch at a time on a context detached from the
// caller, so a caller giving up does not fail the other waiters. The mirror is
// consulted only when nothing is cached yet; once a set exists every load goes
// to the endpoint so a rotated key is never masked by a stale mirror.
func (c *KeySetCache) load(ctx context.Context) (jwk.Set, error) {
	ch := c.group.DoChan(c.cfg.URL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.HTTPTimeout)
		defer cancel()

		if cached, _ := c.snapshot(); cached == nil && c.cfg.Store != nil {
			if set, ok := c.loadFromStore(fetchCtx); ok {
				c.install(set)
				return set, nil
			}
		}

		raw, err := c.fetch(fetchCtx)
		var set jwk.Set
		if err == nil {
			set, err = parseKeySet(raw)
		}
		c.cfg.Metrics.RecordKeySetFetch("http", err)
		if err != nil {
			return nil, newError(KindKeySetUnavailable, err)
		}
		c.install(set)

		if c.cfg.Store != nil {
			if err := c.cfg.Store.Save(fetchCtx, c.cfg.URL, raw, c.cfg.TTL); err != nil {
				c.logger.WarnContext(fetchCtx, "failed to mirror signing key set", "error", err)
			}
		}
		return set, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(jwk.Set), nil
	case <-ctx.Done():
		return nil, newError(KindKeySetUnavailable, ctx.Err())
	}
}

func (c *KeySetCache) loadFromStore(ctx context.Context) (jwk.Set, bool) {
	raw, err := c.cfg.Store.Load(ctx, c.cfg.URL)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			c.cfg.Metrics.RecordKeySetFetch("redis", err)
			c.logger.WarnContext(ctx, "failed to load mirrored signing key set", "error", err)
		}
		return nil, false
	}
	set, err := parseKeySet(raw)
	c.cfg.Metrics.RecordKeySetFetch("redis", err)
	if err != nil {
		c.logger.WarnContext(ctx, "discarding malformed mirrored signing key set", "error", err)
		return nil, false
	}
	return set, true
}

func (c *KeySetCache) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build JWKS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to JWKS URL failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, fmt.Errorf("read JWKS body: %w", err)
	}
	return raw, nil
}

func parseKeySet(raw []byte) (jwk.Set, error) {
	set, err := jwk.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse JWKS: %w", err)
	}
	if set.Len() == 0 {
		return nil, errors.New("JWKS contains no keys")
	}
	return set, nil
}
