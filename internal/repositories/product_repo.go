package repositories

import (
	"context"
	"fmt"

	"craftmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository is the catalog query API. The search core consumes it as
// a black box returning candidate product records.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	Search(ctx context.Context, query string, filter *models.SearchQuery) ([]*models.Product, error)
	ByCategory(ctx context.Context, category string, limit int) ([]*models.Product, error)
	BySubcategory(ctx context.Context, category, subcategory string, limit int) ([]*models.Product, error)
	ApplyRestoration(ctx context.Context, directive *models.RestorationDirective) error
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, artisan_id, product_type, name, description, category, subcategory, tags, price,
	rating_average, rating_count, total_sales, favorite_count, latitude, longitude,
	is_featured, is_seasonal, is_curated, badge,
	stock, low_stock_threshold,
	total_capacity, remaining_capacity, capacity_period, last_capacity_restore,
	available_quantity, next_available_date, schedule_type, total_production_quantity,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	var badge *string
	var capacityPeriod, scheduleType *string
	err := row.Scan(
		&product.ID, &product.ArtisanID, &product.ProductType, &product.Name, &product.Description,
		&product.Category, &product.Subcategory, &product.Tags, &product.Price,
		&product.RatingAverage, &product.RatingCount, &product.TotalSales, &product.FavoriteCount,
		&product.Latitude, &product.Longitude,
		&product.IsFeatured, &product.IsSeasonal, &product.IsCurated, &badge,
		&product.Stock, &product.LowStockThreshold,
		&product.TotalCapacity, &product.RemainingCapacity, &capacityPeriod, &product.LastCapacityRestore,
		&product.AvailableQuantity, &product.NextAvailableDate, &scheduleType, &product.TotalProductionQuantity,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if badge != nil {
		b := models.ProductBadge(*badge)
		product.Badge = &b
	}
	if capacityPeriod != nil {
		product.CapacityPeriod = models.CapacityPeriod(*capacityPeriod)
	}
	if scheduleType != nil {
		product.ScheduleType = models.CapacityPeriod(*scheduleType)
	}
	return product, nil
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()
	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, artisan_id, product_type, name, description, category, subcategory, tags, price,
			rating_average, rating_count, total_sales, favorite_count, latitude, longitude,
			is_featured, is_seasonal, is_curated, badge,
			stock, low_stock_threshold,
			total_capacity, remaining_capacity, capacity_period, last_capacity_restore,
			available_quantity, next_available_date, schedule_type, total_production_quantity,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.ArtisanID, product.ProductType, product.Name, product.Description,
		product.Category, product.Subcategory, product.Tags, product.Price,
		product.RatingAverage, product.RatingCount, product.TotalSales, product.FavoriteCount,
		product.Latitude, product.Longitude,
		product.IsFeatured, product.IsSeasonal, product.IsCurated, product.Badge,
		product.Stock, product.LowStockThreshold,
		product.TotalCapacity, product.RemainingCapacity, nullablePeriod(product.CapacityPeriod), product.LastCapacityRestore,
		product.AvailableQuantity, product.NextAvailableDate, nullablePeriod(product.ScheduleType), product.TotalProductionQuantity,
	)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, subcategory = $4, tags = $5, price = $6,
			latitude = $7, longitude = $8, is_featured = $9, is_seasonal = $10, is_curated = $11, badge = $12,
			stock = $13, low_stock_threshold = $14,
			total_capacity = $15, remaining_capacity = $16, capacity_period = $17, last_capacity_restore = $18,
			available_quantity = $19, next_available_date = $20, schedule_type = $21, total_production_quantity = $22,
			updated_at = NOW()
		WHERE id = $23
	`
	_, err := r.db.Exec(ctx, query,
		product.Name, product.Description, product.Category, product.Subcategory, product.Tags, product.Price,
		product.Latitude, product.Longitude, product.IsFeatured, product.IsSeasonal, product.IsCurated, product.Badge,
		product.Stock, product.LowStockThreshold,
		product.TotalCapacity, product.RemainingCapacity, nullablePeriod(product.CapacityPeriod), product.LastCapacityRestore,
		product.AvailableQuantity, product.NextAvailableDate, nullablePeriod(product.ScheduleType), product.TotalProductionQuantity,
		product.ID,
	)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`, productColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Search performs the full-text candidate retrieval. Ranking happens in the
// search core; the SQL only narrows the candidate set.
func (r *productRepo) Search(ctx context.Context, query string, filter *models.SearchQuery) ([]*models.Product, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE (name ILIKE '%%' || $1 || '%%'
			OR category ILIKE '%%' || $1 || '%%'
			OR EXISTS (SELECT 1 FROM unnest(tags) tag WHERE tag ILIKE '%%' || $1 || '%%'))
	`, productColumns)
	args := []any{query}

	if filter != nil {
		if filter.Category != "" {
			args = append(args, filter.Category)
			sql += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filter.MinPrice != nil {
			args = append(args, *filter.MinPrice)
			sql += fmt.Sprintf(" AND price >= $%d", len(args))
		}
		if filter.MaxPrice != nil {
			args = append(args, *filter.MaxPrice)
			sql += fmt.Sprintf(" AND price <= $%d", len(args))
		}
	}

	limit := 200
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit * 4 // oversample so availability filtering still fills the page
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepo) ByCategory(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = $1 ORDER BY created_at DESC LIMIT $2`, productColumns)
	rows, err := r.db.Query(ctx, query, category, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productRepo) BySubcategory(ctx context.Context, category, subcategory string, limit int) ([]*models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = $1 AND subcategory = $2 ORDER BY created_at DESC LIMIT $3`, productColumns)
	rows, err := r.db.Query(ctx, query, category, subcategory, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ApplyRestoration persists one restoration directive proposed by the
// availability engine. Values are clamped at zero in SQL as a final guard.
func (r *productRepo) ApplyRestoration(ctx context.Context, directive *models.RestorationDirective) error {
	switch directive.Field {
	case models.RestoreFieldRemainingCapacity:
		query := `
			UPDATE products
			SET remaining_capacity = GREATEST($1, 0), last_capacity_restore = $2, updated_at = NOW()
			WHERE id = $3
		`
		_, err := r.db.Exec(ctx, query, directive.NewValue, directive.RestoredAt, directive.ProductID)
		return err
	case models.RestoreFieldAvailableQuantity:
		query := `
			UPDATE products
			SET available_quantity = GREATEST($1, 0), next_available_date = $2, updated_at = NOW()
			WHERE id = $3
		`
		_, err := r.db.Exec(ctx, query, directive.NewValue, directive.NextDate, directive.ProductID)
		return err
	default:
		return fmt.Errorf("unknown restoration field %q", directive.Field)
	}
}

func nullablePeriod(period models.CapacityPeriod) *string {
	if period == "" {
		return nil
	}
	s := string(period)
	return &s
}
