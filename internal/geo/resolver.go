package geo

import (
	"context"
	"log"
	"time"

	"craftmart/internal/models"

	"github.com/google/uuid"
)

// ProfileLocator looks up a requester's stored coordinates. Backed by the
// external profile collaborator; returns (nil, nil) when no location is on
// file.
type ProfileLocator interface {
	UserCoordinates(ctx context.Context, userID uuid.UUID) (*models.Coordinates, error)
}

// Resolver resolves a requester location through a fallback chain: stored
// profile coordinates, then coordinates supplied with the request, then a
// configured default. Resolution never fails a search; the zero outcome is
// the default coordinate.
type Resolver struct {
	profiles ProfileLocator
	fallback models.Coordinates
	timeout  time.Duration
}

func NewResolver(profiles ProfileLocator, fallback models.Coordinates, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Resolver{profiles: profiles, fallback: fallback, timeout: timeout}
}

// Resolve returns the best available requester location. The profile lookup
// is bounded by the resolver timeout so a slow collaborator degrades to the
// next source instead of stalling the search.
func (r *Resolver) Resolve(ctx context.Context, userID *uuid.UUID, requestCoords *models.Coordinates) models.Coordinates {
	if userID != nil && r.profiles != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		coords, err := r.profiles.UserCoordinates(lookupCtx, *userID)
		if err != nil {
			log.Printf("WARN: profile location lookup failed for user %s: %v", userID, err)
		} else if coords != nil {
			return *coords
		}
	}

	if requestCoords != nil {
		return *requestCoords
	}

	return r.fallback
}
