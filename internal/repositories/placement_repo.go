package repositories

import (
	"context"
	"fmt"

	"craftmart/internal/models"
)

// PlacementRepository retrieves paid-placement and showcase products for the
// promotional collaborator.
type PlacementRepository interface {
	// ShowcaseProducts returns curated/showcase products, most recently
	// promoted first.
	ShowcaseProducts(ctx context.Context, limit int) ([]*models.Product, error)

	// SpotlightProducts returns active paid placements, optionally narrowed
	// to a category.
	SpotlightProducts(ctx context.Context, category string, limit int) ([]*models.Product, error)
}

type placementRepo struct {
	db DB
}

func NewPlacementRepo(db DB) PlacementRepository {
	return &placementRepo{db: db}
}

func (r *placementRepo) ShowcaseProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products p
		WHERE p.is_featured OR p.is_curated OR p.is_seasonal
		ORDER BY p.updated_at DESC
		LIMIT $1
	`, prefixedProductColumns("p"))
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *placementRepo) SpotlightProducts(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	sql := fmt.Sprintf(`
		SELECT %s FROM products p
		JOIN sponsored_placements sp ON sp.product_id = p.id
		WHERE sp.active AND sp.starts_at <= NOW() AND sp.ends_at > NOW()
	`, prefixedProductColumns("p"))
	args := []any{}

	if category != "" {
		args = append(args, category)
		sql += fmt.Sprintf(" AND p.category = $%d", len(args))
	}

	args = append(args, limit)
	sql += fmt.Sprintf(" ORDER BY sp.bid_amount DESC, sp.starts_at ASC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func prefixedProductColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.artisan_id, %[1]s.product_type, %[1]s.name, %[1]s.description, %[1]s.category, %[1]s.subcategory, %[1]s.tags, %[1]s.price,
	%[1]s.rating_average, %[1]s.rating_count, %[1]s.total_sales, %[1]s.favorite_count, %[1]s.latitude, %[1]s.longitude,
	%[1]s.is_featured, %[1]s.is_seasonal, %[1]s.is_curated, %[1]s.badge,
	%[1]s.stock, %[1]s.low_stock_threshold,
	%[1]s.total_capacity, %[1]s.remaining_capacity, %[1]s.capacity_period, %[1]s.last_capacity_restore,
	%[1]s.available_quantity, %[1]s.next_available_date, %[1]s.schedule_type, %[1]s.total_production_quantity,
	%[1]s.created_at, %[1]s.updated_at`, alias)
}
