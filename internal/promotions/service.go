package promotions

import (
	"context"
	"strings"

	"craftmart/internal/models"
	"craftmart/internal/repositories"
)

// Service is the promotional/sponsored collaborator consumed by the search
// orchestrator. Every failure it returns is recoverable: the orchestrator
// falls back to plain catalog retrieval.
type Service interface {
	ShowcaseProducts(ctx context.Context, limit int, loc *models.Coordinates) ([]*models.Product, error)
	SpotlightProducts(ctx context.Context, category string, limit int, query string, loc *models.Coordinates) ([]*models.Product, error)
}

type placementService struct {
	placements repositories.PlacementRepository
}

func NewService(placements repositories.PlacementRepository) Service {
	return &placementService{placements: placements}
}

func (s *placementService) ShowcaseProducts(ctx context.Context, limit int, _ *models.Coordinates) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.placements.ShowcaseProducts(ctx, limit)
}

// SpotlightProducts returns active paid placements. The query terms are
// applied client-side so a placement only rides on searches it is actually
// relevant to.
func (s *placementService) SpotlightProducts(ctx context.Context, category string, limit int, query string, _ *models.Coordinates) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 5
	}
	products, err := s.placements.SpotlightProducts(ctx, category, limit*2)
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		if len(products) > limit {
			products = products[:limit]
		}
		return products, nil
	}

	matched := make([]*models.Product, 0, limit)
	for _, product := range products {
		if matchesAny(product, tokens) {
			matched = append(matched, product)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func matchesAny(product *models.Product, tokens []string) bool {
	name := strings.ToLower(product.Name)
	category := strings.ToLower(product.Category)
	for _, token := range tokens {
		if strings.Contains(name, token) || strings.Contains(category, token) {
			return true
		}
		for _, tag := range product.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				return true
			}
		}
	}
	return false
}
