package availability

import (
	"log"
	"time"

	"craftmart/internal/models"
)

// CheckRestorations runs the restoration check across a product collection
// and returns every due directive. Products that fail engine construction
// are skipped with a logged warning rather than aborting the sweep.
func CheckRestorations(products []*models.Product, now time.Time) []models.RestorationDirective {
	var directives []models.RestorationDirective
	for _, product := range products {
		engine, err := NewEngine(product)
		if err != nil {
			log.Printf("WARN: skipping restoration check for nil product: %v", err)
			continue
		}
		directives = append(directives, engine.CheckInventoryRestoration(now)...)
	}
	return directives
}

// Summary aggregates availability across a product collection for
// dashboards.
type Summary struct {
	Total      int            `json:"total"`
	Available  int            `json:"available"`
	OutOfStock int            `json:"out_of_stock"`
	LowStock   int            `json:"low_stock"`
	ByType     map[string]int `json:"by_type"`
}

// Summarize computes collection-wide availability counts.
func Summarize(products []*models.Product) Summary {
	summary := Summary{ByType: make(map[string]int)}
	for _, product := range products {
		engine, err := NewEngine(product)
		if err != nil {
			continue
		}
		summary.Total++
		summary.ByType[string(product.ProductType)]++
		if engine.IsOutOfStock() {
			summary.OutOfStock++
			continue
		}
		summary.Available++
		if engine.InventoryStatus().Status == StatusLow {
			summary.LowStock++
		}
	}
	return summary
}
