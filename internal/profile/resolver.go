// Package profile resolves participant names to structured professional
// profiles through a prioritized list of lookup strategies.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/hackscout/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultCacheTTL    = time.Hour
	defaultHTTPTimeout = 15 * time.Second
)

// Config selects which strategies are active. A strategy whose credentials
// are missing is skipped rather than treated as an error.
type Config struct {
	SearchLookupEnabled bool
	SerpAPIKey          string
	SerpAPIURL          string

	OfficialAPIEnabled  bool
	LinkedInAccessToken string
	LinkedInAPIURL      string

	CacheTTL          time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// HasAnyStrategy reports whether at least one lookup strategy can run.
func (c Config) HasAnyStrategy() bool {
	return c.searchEnabled() || c.officialEnabled()
}

func (c Config) searchEnabled() bool {
	return c.SearchLookupEnabled && c.SerpAPIKey != ""
}

func (c Config) officialEnabled() bool {
	return c.OfficialAPIEnabled && c.LinkedInAccessToken != ""
}

// NameLookup resolves a profile from a name and optional company.
type NameLookup interface {
	ResolveByNameCompany(ctx context.Context, name, company string) (*domain.Profile, error)
}

// URLLookup resolves a profile from a profile URL.
type URLLookup interface {
	ResolveByURL(ctx context.Context, profileURL string) (*domain.Profile, error)
}

// Request identifies the participant to resolve.
type Request struct {
	Name    string
	Company string
	URL     string
}

// Resolver tries the search lookup first and the official API second,
// returning the first profile found.
type Resolver struct {
	search   NameLookup
	official URLLookup
	cache    *Cache
	limiter  *rate.Limiter
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache sets the lookup cache. A nil cache disables caching.
func WithCache(c *Cache) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

// WithRateLimit caps outbound lookups at rps requests per second.
func WithRateLimit(rps float64) Option {
	return func(r *Resolver) {
		if rps > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewResolver builds a Resolver from cfg, wiring only the enabled strategies.
func NewResolver(cfg Config) *Resolver {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	var search NameLookup
	if cfg.searchEnabled() {
		search = NewSerpAPILookup(cfg.SerpAPIKey, cfg.SerpAPIURL, client)
	}

	var official URLLookup
	if cfg.officialEnabled() {
		official = NewLinkedInLookup(cfg.LinkedInAccessToken, cfg.LinkedInAPIURL, client)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return NewResolverWithLookups(search, official, WithCache(NewCache(ttl)), WithRateLimit(cfg.RequestsPerSecond))
}

// NewResolverWithLookups builds a Resolver over explicit strategies. Either
// lookup may be nil.
func NewResolverWithLookups(search NameLookup, official URLLookup, opts ...Option) *Resolver {
	r := &Resolver{
		search:   search,
		official: official,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configured reports whether any strategy is wired.
func (r *Resolver) Configured() bool {
	return r.search != nil || r.official != nil
}

// Resolve returns the first profile found by the configured strategies.
// It returns domain.ErrNoResolverConfigured when no strategy is wired and
// domain.ErrProfileNotFound when every strategy missed.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*domain.Profile, error) {
	if !r.Configured() {
		return nil, domain.ErrNoResolverConfigured
	}

	if r.search != nil {
		p, err := r.lookup(ctx, nameKey(req.Name, req.Company), func(ctx context.Context) (*domain.Profile, error) {
			return r.search.ResolveByNameCompany(ctx, req.Name, req.Company)
		})
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logMiss("search", req.Name, err)
	}

	if r.official != nil && req.URL != "" {
		p, err := r.lookup(ctx, urlKey(req.URL), func(ctx context.Context) (*domain.Profile, error) {
			return r.official.ResolveByURL(ctx, req.URL)
		})
		if err == nil {
			return p, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logMiss("official api", req.Name, err)
	}

	return nil, domain.ErrProfileNotFound
}

func (r *Resolver) lookup(ctx context.Context, key string, fn func(context.Context) (*domain.Profile, error)) (*domain.Profile, error) {
	if r.cache != nil {
		if p, found := r.cache.Get(key); found {
			if p == nil {
				return nil, domain.ErrProfileNotFound
			}
			return p, nil
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	p, err := fn(ctx)
	if err != nil {
		if r.cache != nil && errors.Is(err, domain.ErrProfileNotFound) {
			r.cache.Set(key, nil)
		}
		return nil, err
	}
	if p == nil {
		if r.cache != nil {
			r.cache.Set(key, nil)
		}
		return nil, domain.ErrProfileNotFound
	}

	if r.cache != nil {
		r.cache.Set(key, p)
	}
	return p, nil
}

func logMiss(strategy, name string, err error) {
	if errors.Is(err, domain.ErrProfileNotFound) {
		log.Printf("profile: no %s match for %s", strategy, name)
		return
	}
	log.Printf("profile: %s lookup failed for %s: %v", strategy, name, err)
}

func nameKey(name, company string) string {
	return "name:" + strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(company))
}

func urlKey(profileURL string) string {
	return "url:" + strings.TrimRight(strings.TrimSpace(profileURL), "/")
}
