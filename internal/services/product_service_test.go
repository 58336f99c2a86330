package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"craftmart/internal/caching"
	"craftmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, query string, filter *models.SearchQuery) ([]*models.Product, error) {
	args := m.Called(ctx, query, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ByCategory(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) BySubcategory(ctx context.Context, category, subcategory string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, category, subcategory, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ApplyRestoration(ctx context.Context, directive *models.RestorationDirective) error {
	return m.Called(ctx, directive).Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return m.Called(ctx, product, ttl).Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockCacheService) GetSearchResults(ctx context.Context, key string) ([]*models.RankedResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RankedResult), args.Error(1)
}

func (m *MockCacheService) SetSearchResults(ctx context.Context, key string, results []*models.RankedResult, ttl time.Duration) error {
	return m.Called(ctx, key, results, ttl).Error(0)
}

func (m *MockCacheService) DeleteSearchResults(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) InvalidateSearchResults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func madeToOrder(total, remaining int) *models.Product {
	return &models.Product{
		ID:                uuid.New(),
		ProductType:       models.ProductMadeToOrder,
		Name:              "Custom Leather Bag",
		TotalCapacity:     total,
		RemainingCapacity: remaining,
		CapacityPeriod:    models.PeriodWeekly,
	}
}

func TestGetByIDPrefersCachedCopy(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	product := madeToOrder(10, 4)
	cache.On("GetProduct", mock.Anything, product.ID).Return(product, nil)

	svc := NewProductService(repo, cache, nil)
	got, err := svc.GetByID(context.Background(), product.ID)

	require.NoError(t, err)
	assert.Same(t, product, got)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetByIDCachesOnMiss(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	product := madeToOrder(10, 4)
	cache.On("GetProduct", mock.Anything, product.ID).Return(nil, nil)
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cache.On("SetProduct", mock.Anything, product, 5*time.Minute).Return(nil)

	svc := NewProductService(repo, cache, nil)
	got, err := svc.GetByID(context.Background(), product.ID)

	require.NoError(t, err)
	assert.Same(t, product, got)
	cache.AssertExpectations(t)
}

func TestCreateAssignsIDAndClearsSearchCache(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	searchCache := caching.NewSearchCache(nil, time.Minute)

	var loads int
	loader := func(ctx context.Context) ([]*models.RankedResult, error) {
		loads++
		return nil, nil
	}
	_, _, _ = searchCache.GetOrLoad(context.Background(), "warm", loader)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID != uuid.Nil
	})).Return(nil)

	svc := NewProductService(repo, cache, searchCache)
	err := svc.Create(context.Background(), &models.Product{Name: "Raw Honey"})
	require.NoError(t, err)

	// A catalog mutation must drop memoized search results.
	_, hit, _ := searchCache.GetOrLoad(context.Background(), "warm", loader)
	assert.False(t, hit)
	assert.Equal(t, 2, loads)
}

func TestUpdateInvalidatesProductCache(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	product := madeToOrder(10, 4)
	repo.On("Update", mock.Anything, product).Return(nil)
	cache.On("DeleteProduct", mock.Anything, product.ID).Return(nil)

	svc := NewProductService(repo, cache, nil)
	require.NoError(t, svc.Update(context.Background(), product))

	cache.AssertExpectations(t)
}

func TestUpdateCapacityCarriesUsedSlotsOver(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	product := madeToOrder(10, 4) // 6 slots already consumed
	cache.On("GetProduct", mock.Anything, product.ID).Return(nil, nil)
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cache.On("SetProduct", mock.Anything, product, 5*time.Minute).Return(nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.TotalCapacity == 8 && p.RemainingCapacity == 2
	})).Return(nil)
	cache.On("DeleteProduct", mock.Anything, product.ID).Return(nil)

	svc := NewProductService(repo, cache, nil)
	snapshot, err := svc.UpdateCapacity(context.Background(), product.ID, 8)

	require.NoError(t, err)
	assert.Equal(t, 8, snapshot.TotalCapacity)
	assert.Equal(t, 2, snapshot.RemainingCapacity)
	assert.Equal(t, 6, snapshot.Used)
	repo.AssertExpectations(t)
}

func TestValidateInventoryUpdateSurfacesViolations(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	product := madeToOrder(10, 4)
	cache.On("GetProduct", mock.Anything, product.ID).Return(nil, nil)
	repo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cache.On("SetProduct", mock.Anything, product, 5*time.Minute).Return(nil)

	svc := NewProductService(repo, cache, nil)
	result, err := svc.ValidateInventoryUpdate(context.Background(), product.ID, "remaining_capacity", -1)

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors)
}

func TestApplyRestorationsContinuesPastFailures(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	broken := models.RestorationDirective{ProductID: uuid.New(), Field: models.RestoreFieldRemainingCapacity, NewValue: 5}
	healthy := models.RestorationDirective{ProductID: uuid.New(), Field: models.RestoreFieldAvailableQuantity, NewValue: 12}

	repo.On("ApplyRestoration", mock.Anything, mock.MatchedBy(func(d *models.RestorationDirective) bool {
		return d.ProductID == broken.ProductID
	})).Return(errors.New("row locked"))
	repo.On("ApplyRestoration", mock.Anything, mock.MatchedBy(func(d *models.RestorationDirective) bool {
		return d.ProductID == healthy.ProductID
	})).Return(nil)
	cache.On("DeleteProduct", mock.Anything, healthy.ProductID).Return(nil)

	svc := NewProductService(repo, cache, nil)
	applied, err := svc.ApplyRestorations(context.Background(), []models.RestorationDirective{broken, healthy})

	assert.Equal(t, 1, applied)
	assert.Error(t, err)
	cache.AssertExpectations(t)
}

func TestAvailabilitySummaryAggregates(t *testing.T) {
	repo := new(MockProductRepository)
	cache := new(MockCacheService)
	inStock := &models.Product{ID: uuid.New(), ProductType: models.ProductReadyToShip, Stock: 5, LowStockThreshold: 2}
	depleted := &models.Product{ID: uuid.New(), ProductType: models.ProductReadyToShip, Stock: 0}
	repo.On("List", mock.Anything, 1000, 0).Return([]*models.Product{inStock, depleted}, nil)

	svc := NewProductService(repo, cache, nil)
	summary, err := svc.AvailabilitySummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Available)
	assert.Equal(t, 1, summary.OutOfStock)
}
