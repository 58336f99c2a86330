package repositories

import (
	"context"

	"craftmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProfileRepository exposes the one slice of the externally owned user
// profile this core reads: stored coordinates for location resolution.
type ProfileRepository interface {
	UserCoordinates(ctx context.Context, userID uuid.UUID) (*models.Coordinates, error)
}

type profileRepo struct {
	db DB
}

func NewProfileRepo(db DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) UserCoordinates(ctx context.Context, userID uuid.UUID) (*models.Coordinates, error) {
	var lat, lng *float64
	query := `SELECT latitude, longitude FROM user_profiles WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&lat, &lng)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no profile, not an error
		}
		return nil, err
	}
	if lat == nil || lng == nil {
		return nil, nil
	}
	return &models.Coordinates{Lat: *lat, Lng: *lng}, nil
}
