package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"craftmart/internal/availability"
	"craftmart/internal/caching"
	"craftmart/internal/models"
	"craftmart/internal/repositories"

	"github.com/google/uuid"
)

type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)

	// ValidateInventoryUpdate checks a proposed inventory mutation without
	// applying it. All violations come back at once.
	ValidateInventoryUpdate(ctx context.Context, id uuid.UUID, field string, value float64) (availability.ValidationResult, error)

	// UpdateCapacity resizes a made-to-order product's total capacity,
	// carrying consumed slots over.
	UpdateCapacity(ctx context.Context, id uuid.UUID, newTotal int) (availability.CapacitySnapshot, error)

	// ApplyRestorations persists restoration directives proposed by the
	// availability engine.
	ApplyRestorations(ctx context.Context, directives []models.RestorationDirective) (applied int, err error)

	// AvailabilitySummary aggregates availability counts for dashboards.
	AvailabilitySummary(ctx context.Context) (availability.Summary, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
	searchCache  *caching.SearchCache
}

func NewProductService(productRepo repositories.ProductRepository, cacheService caching.CacheService, searchCache *caching.SearchCache) ProductService {
	return &productService{
		productRepo:  productRepo,
		cacheService: cacheService,
		searchCache:  searchCache,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.invalidateSearch(ctx)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheService.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		// Cache errors never fail the read.
		log.Printf("WARN: product cache get failed for %s: %v", id, err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetProduct(ctx, product, 5*time.Minute); cacheErr != nil {
		log.Printf("WARN: failed to cache product %s: %v", id, cacheErr)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.invalidateProduct(ctx, product.ID)
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) ValidateInventoryUpdate(ctx context.Context, id uuid.UUID, field string, value float64) (availability.ValidationResult, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return availability.ValidationResult{}, fmt.Errorf("load product for validation: %w", err)
	}
	engine, err := availability.NewEngine(product)
	if err != nil {
		return availability.ValidationResult{}, err
	}
	return engine.ValidateInventoryUpdate(field, value), nil
}

func (s *productService) UpdateCapacity(ctx context.Context, id uuid.UUID, newTotal int) (availability.CapacitySnapshot, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return availability.CapacitySnapshot{}, err
	}
	engine, err := availability.NewEngine(product)
	if err != nil {
		return availability.CapacitySnapshot{}, err
	}

	snapshot, err := engine.CalculateRemainingCapacity(&newTotal)
	if err != nil {
		return availability.CapacitySnapshot{}, err
	}

	product.TotalCapacity = snapshot.TotalCapacity
	product.RemainingCapacity = snapshot.RemainingCapacity
	if err := s.productRepo.Update(ctx, product); err != nil {
		return availability.CapacitySnapshot{}, err
	}
	s.invalidateProduct(ctx, product.ID)
	return snapshot, nil
}

// ApplyRestorations persists each directive independently so one failing
// product does not block the rest of the sweep.
func (s *productService) ApplyRestorations(ctx context.Context, directives []models.RestorationDirective) (int, error) {
	var applied int
	var lastErr error
	for _, directive := range directives {
		if err := s.productRepo.ApplyRestoration(ctx, &directive); err != nil {
			log.Printf("WARN: failed to apply restoration for product %s: %v", directive.ProductID, err)
			lastErr = err
			continue
		}
		applied++
		s.invalidateProduct(ctx, directive.ProductID)
	}
	return applied, lastErr
}

func (s *productService) AvailabilitySummary(ctx context.Context) (availability.Summary, error) {
	products, err := s.productRepo.List(ctx, 1000, 0)
	if err != nil {
		return availability.Summary{}, err
	}
	return availability.Summarize(products), nil
}

func (s *productService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if cacheErr := s.cacheService.DeleteProduct(ctx, id); cacheErr != nil {
		log.Printf("WARN: failed to invalidate cache for product %s: %v", id, cacheErr)
	}
	s.invalidateSearch(ctx)
}

// Search memoization is invalidated on every catalog mutation so stale
// rankings never outlive an edit.
func (s *productService) invalidateSearch(ctx context.Context) {
	if s.searchCache != nil {
		s.searchCache.Clear(ctx)
	}
}
