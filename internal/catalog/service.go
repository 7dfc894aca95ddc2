package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/xenking/shopcart-api/internal/domain/product"
)

// Cache regions. Each region partitions the key space; ClearAll evicts every
// region at once and no per-key invalidation is exposed.
const (
	regionProducts   = "products"
	regionByCategory = "productsByCategory"
	regionCategories = "categories"
)

// keyAll is the products-region key for the full catalog. A nil or zero
// product id maps here, so both forms share one cache entry.
const keyAll = "all"

// categoriesKey is the fixed singleton key of the categories region.
const categoriesKey = "all"

// Service is a read-through memoizing proxy over a product.Source. Entries
// are cached forever until ClearAll; unbounded growth is an accepted
// limitation of the design.
type Service struct {
	source product.Source

	mu      sync.RWMutex
	entries map[string]any

	group singleflight.Group
}

// NewService creates a catalog Service over the given source.
func NewService(source product.Source) *Service {
	return &Service{
		source:  source,
		entries: make(map[string]any),
	}
}

// Products returns the product with the given id, or the full catalog when id
// is nil or zero. Results are cached per key; concurrent misses for the same
// key trigger a single upstream fetch.
func (s *Service) Products(ctx context.Context, id *int) ([]product.Product, error) {
	key := keyAll
	if id != nil && *id != 0 {
		key = strconv.Itoa(*id)
	}

	v, err := s.getOrPopulate(regionProducts, key, func() (any, error) {
		if key == keyAll {
			return s.source.FetchAll(ctx)
		}
		p, err := s.source.FetchByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		return []product.Product{*p}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]product.Product), nil
}

// ByCategory returns the products of a category, matched case-insensitively.
// Derived from the full catalog and cached under the category key.
func (s *Service) ByCategory(ctx context.Context, category string) ([]product.Product, error) {
	v, err := s.getOrPopulate(regionByCategory, category, func() (any, error) {
		all, err := s.Products(ctx, nil)
		if err != nil {
			return nil, err
		}
		filtered := make([]product.Product, 0, len(all))
		for _, p := range all {
			if strings.EqualFold(p.Category, category) {
				filtered = append(filtered, p)
			}
		}
		return filtered, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]product.Product), nil
}

// Categories returns the distinct catalog categories in lexicographic order.
// Derived from the full catalog and cached once.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	v, err := s.getOrPopulate(regionCategories, categoriesKey, func() (any, error) {
		all, err := s.Products(ctx, nil)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(all))
		categories := make([]string, 0, len(all))
		for _, p := range all {
			if _, ok := seen[p.Category]; ok {
				continue
			}
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
		sort.Strings(categories)
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// ClearAll evicts every region unconditionally.
func (s *Service) ClearAll() {
	s.mu.Lock()
	s.entries = make(map[string]any)
	s.mu.Unlock()
}

// getOrPopulate implements the read-through: a cache hit returns the stored
// value; a miss runs populate under singleflight so concurrent misses for the
// same (region, key) produce exactly one upstream call. Errors are never
// cached.
func (s *Service) getOrPopulate(region, key string, populate func() (any, error)) (any, error) {
	cacheKey := region + ":" + key

	s.mu.RLock()
	v, ok := s.entries[cacheKey]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		// Re-check: another flight may have populated between the read
		// miss and entering the group.
		s.mu.RLock()
		v, ok := s.entries[cacheKey]
		s.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := populate()
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.entries[cacheKey] = v
		s.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}
