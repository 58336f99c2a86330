package search

import (
	"strings"

	"craftmart/internal/availability"
	"craftmart/internal/models"
)

func isOutOfStock(product *models.Product) bool {
	engine, err := availability.NewEngine(product)
	if err != nil {
		return true
	}
	return engine.IsOutOfStock()
}

func matchesTokens(product *models.Product, tokens []string) bool {
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
