package search

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"craftmart/internal/caching"
	"craftmart/internal/geo"
	"craftmart/internal/models"
	"craftmart/internal/promotions"
	"craftmart/internal/repositories"

	"github.com/google/uuid"
)

// Config tunes one orchestrator instance.
type Config struct {
	// IncludeUnavailable keeps out-of-stock items in results instead of
	// dropping them. The display layer can then grey them out.
	IncludeUnavailable bool

	// SponsoredLimit bounds the paid-placement candidate set.
	SponsoredLimit int

	// RetryAttempts bounds catalog search retries. The other strategies try
	// once and fall back.
	RetryAttempts int

	// DefaultLimit caps the final result set when the query has no limit.
	DefaultLimit int
}

func (c Config) withDefaults() Config {
	if c.SponsoredLimit <= 0 {
		c.SponsoredLimit = 5
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 2
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 50
	}
	return c
}

// Orchestrator drives one search lifecycle: resolve location, retrieve
// candidates through a fallback chain, filter availability, score, blend
// sponsored placements, and memoize. Upstream failures degrade to the next
// strategy; the caller only ever sees a (possibly empty) result set.
type Orchestrator struct {
	products repositories.ProductRepository
	artisans repositories.ArtisanRepository
	promos   promotions.Service
	resolver *geo.Resolver
	cache    *caching.SearchCache
	cfg      Config
}

func NewOrchestrator(
	products repositories.ProductRepository,
	artisans repositories.ArtisanRepository,
	promos promotions.Service,
	resolver *geo.Resolver,
	cache *caching.SearchCache,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		products: products,
		artisans: artisans,
		promos:   promos,
		resolver: resolver,
		cache:    cache,
		cfg:      cfg.withDefaults(),
	}
}

// Search runs the full pipeline for one query. The context is threaded
// through every upstream call so an abandoned request stops consuming
// upstream quota.
func (o *Orchestrator) Search(ctx context.Context, query *models.SearchQuery, userID *uuid.UUID) ([]*models.RankedResult, error) {
	resolved := *query
	if o.resolver != nil {
		// Stored profile coordinates outrank request-supplied ones, so the
		// resolver runs even when the request carries lat/lng.
		loc := o.resolver.Resolve(ctx, userID, resolved.UserLocation)
		resolved.UserLocation = &loc
	}
	if resolved.Limit <= 0 {
		resolved.Limit = o.cfg.DefaultLimit
	}

	key := caching.CacheKey("search", &resolved)
	results, _, err := o.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]*models.RankedResult, error) {
		return o.run(ctx, &resolved)
	})
	return results, err
}

func (o *Orchestrator) run(ctx context.Context, query *models.SearchQuery) ([]*models.RankedResult, error) {
	candidates := o.retrieve(ctx, query)
	candidates = dropMalformed(candidates)
	candidates = o.filterAvailability(candidates)

	artisans := o.loadArtisans(ctx, candidates)
	scorer := NewScorer(artisans, time.Now())
	organic := scorer.Rank(candidates, query.Query, query.UserLocation)

	sponsored := o.retrieveSponsored(ctx, query, scorer, organic)
	blended := BlendSponsored(organic, sponsored)

	if len(blended) > query.Limit {
		blended = blended[:query.Limit]
	}
	return blended, nil
}

// strategy is one named retrieval attempt in a fallback chain.
type strategy struct {
	name  string
	fetch func(ctx context.Context) ([]*models.Product, error)
}

// buildStrategies makes the fallback order an explicit, inspectable list.
// The query shape selects the chain; the orchestrator walks it until a
// strategy yields candidates.
func (o *Orchestrator) buildStrategies(query *models.SearchQuery) []strategy {
	limit := query.Limit * 4 // oversample so post-filters still fill the page

	catalogSearch := strategy{
		name: "catalog-search",
		fetch: func(ctx context.Context) ([]*models.Product, error) {
			var products []*models.Product
			err := withRetry(ctx, o.cfg.RetryAttempts, func() error {
				var fetchErr error
				products, fetchErr = o.products.Search(ctx, query.Query, query)
				return fetchErr
			})
			return products, err
		},
	}

	switch {
	case query.Category != "" && query.Subcategory != "":
		return []strategy{
			{name: "subcategory", fetch: func(ctx context.Context) ([]*models.Product, error) {
				return o.products.BySubcategory(ctx, query.Category, query.Subcategory, limit)
			}},
			{name: "category", fetch: func(ctx context.Context) ([]*models.Product, error) {
				return o.products.ByCategory(ctx, query.Category, limit)
			}},
			catalogSearch,
		}

	case query.Query != "":
		return []strategy{
			{name: "showcase", fetch: func(ctx context.Context) ([]*models.Product, error) {
				products, err := o.promos.ShowcaseProducts(ctx, limit, query.UserLocation)
				if err != nil {
					return nil, err
				}
				return filterByQuery(products, query.Query), nil
			}},
			catalogSearch,
		}

	case query.Category != "":
		return []strategy{
			{name: "category", fetch: func(ctx context.Context) ([]*models.Product, error) {
				return o.products.ByCategory(ctx, query.Category, limit)
			}},
			catalogSearch,
		}

	default:
		return []strategy{
			{name: "showcase", fetch: func(ctx context.Context) ([]*models.Product, error) {
				return o.promos.ShowcaseProducts(ctx, limit, query.UserLocation)
			}},
			{name: "browse-all", fetch: func(ctx context.Context) ([]*models.Product, error) {
				return o.products.List(ctx, limit, 0)
			}},
		}
	}
}

// retrieve walks the strategy chain. A failing or empty strategy degrades to
// the next one; when every strategy comes up short the result is an empty
// set, never an error.
func (o *Orchestrator) retrieve(ctx context.Context, query *models.SearchQuery) []*models.Product {
	strategies := o.buildStrategies(query)
	for i, s := range strategies {
		products, err := s.fetch(ctx)
		if err != nil {
			log.Printf("WARN: retrieval strategy %q failed, falling back: %v", s.name, err)
			continue
		}
		if len(products) == 0 && i < len(strategies)-1 {
			continue
		}
		return products
	}
	return nil
}

func (o *Orchestrator) filterAvailability(products []*models.Product) []*models.Product {
	if o.cfg.IncludeUnavailable {
		return products
	}
	available := make([]*models.Product, 0, len(products))
	for _, product := range products {
		if !isOutOfStock(product) {
			available = append(available, product)
		}
	}
	return available
}

func (o *Orchestrator) loadArtisans(ctx context.Context, products []*models.Product) map[string]*models.Artisan {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, product := range products {
		if !seen[product.ArtisanID] {
			seen[product.ArtisanID] = true
			ids = append(ids, product.ArtisanID)
		}
	}

	artisans, err := o.artisans.GetByIDs(ctx, ids)
	if err != nil {
		// Quality scoring degrades to neutral rather than failing the search.
		log.Printf("WARN: artisan lookup failed, quality scores degrade to neutral: %v", err)
		return nil
	}
	return artisans
}

// retrieveSponsored fetches the bounded paid-placement set and scores it
// with the same scorer as the organic list. Failures mean no sponsored
// results, never a failed search.
func (o *Orchestrator) retrieveSponsored(ctx context.Context, query *models.SearchQuery, scorer *Scorer, organic []*models.RankedResult) []*models.RankedResult {
	candidates, err := o.promos.SpotlightProducts(ctx, query.Category, o.cfg.SponsoredLimit, query.Query, query.UserLocation)
	if err != nil {
		log.Printf("WARN: sponsored retrieval failed, returning organic results only: %v", err)
		return nil
	}

	inOrganic := make(map[uuid.UUID]bool, len(organic))
	for _, result := range organic {
		inOrganic[result.Product.ID] = true
	}

	var sponsored []*models.Product
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == uuid.Nil || inOrganic[candidate.ID] {
			continue
		}
		if !o.cfg.IncludeUnavailable && isOutOfStock(candidate) {
			continue
		}
		sponsored = append(sponsored, candidate)
	}
	return scorer.Rank(sponsored, query.Query, query.UserLocation)
}

// InvalidateCache drops all memoized result sets, for operational cache
// busts outside the normal mutation path.
func (o *Orchestrator) InvalidateCache(ctx context.Context) {
	o.cache.Clear(ctx)
}

func dropMalformed(products []*models.Product) []*models.Product {
	valid := make([]*models.Product, 0, len(products))
	for _, product := range products {
		if product == nil || product.ID == uuid.Nil {
			continue
		}
		valid = append(valid, product)
	}
	return valid
}

func filterByQuery(products []*models.Product, query string) []*models.Product {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return products
	}
	matched := make([]*models.Product, 0, len(products))
	for _, product := range products {
		if matchesTokens(product, tokens) {
			matched = append(matched, product)
		}
	}
	return matched
}

func withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			jitter := time.Duration(50+rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitter):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("retries exhausted: %w", err)
}
