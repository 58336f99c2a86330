package repositories

import (
	"context"

	"craftmart/internal/models"

	"github.com/google/uuid"
)

// ArtisanRepository reads seller profiles. Profile CRUD is owned elsewhere;
// the search core only needs batch reads for quality scoring.
type ArtisanRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[string]*models.Artisan, error)
}

type artisanRepo struct {
	db DB
}

func NewArtisanRepo(db DB) ArtisanRepository {
	return &artisanRepo{db: db}
}

const artisanColumns = `id, name, is_verified, rating_average, rating_count, latitude, longitude, on_time_rate, complaint_rate, created_at, updated_at`

func (r *artisanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	artisan := &models.Artisan{}
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&artisan.ID, &artisan.Name, &artisan.IsVerified, &artisan.RatingAverage, &artisan.RatingCount,
		&artisan.Latitude, &artisan.Longitude, &artisan.OnTimeRate, &artisan.ComplaintRate,
		&artisan.CreatedAt, &artisan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return artisan, nil
}

func (r *artisanRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[string]*models.Artisan, error) {
	artisans := make(map[string]*models.Artisan)
	if len(ids) == 0 {
		return artisans, nil
	}

	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		artisan := &models.Artisan{}
		if err := rows.Scan(
			&artisan.ID, &artisan.Name, &artisan.IsVerified, &artisan.RatingAverage, &artisan.RatingCount,
			&artisan.Latitude, &artisan.Longitude, &artisan.OnTimeRate, &artisan.ComplaintRate,
			&artisan.CreatedAt, &artisan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		artisans[artisan.ID.String()] = artisan
	}
	return artisans, rows.Err()
}
