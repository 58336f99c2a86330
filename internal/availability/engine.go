package availability

import (
	"errors"
	"fmt"
	"math"
	"time"

	"craftmart/internal/models"
)

// Engine evaluates purchasability and time-driven restoration for a single
// product snapshot. It holds no mutable state beyond the snapshot itself:
// identical fields and instants always produce identical answers. Construct
// one per evaluation rather than reusing instances across products.
type Engine struct {
	product *models.Product
}

// ErrNilProduct is returned when an engine is constructed without a product.
// This is a programmer error, not an expected runtime condition.
var ErrNilProduct = errors.New("availability: product is required")

func NewEngine(product *models.Product) (*Engine, error) {
	if product == nil {
		return nil, ErrNilProduct
	}
	return &Engine{product: product}, nil
}

// StockStatus is the display-layer view of an out-of-stock check.
type StockStatus struct {
	IsOutOfStock bool    `json:"is_out_of_stock"`
	Message      *string `json:"message"`
	Reason       *string `json:"reason"`
}

// IsOutOfStock reports whether the product can currently be purchased.
// Unknown product types are treated as in stock so the display layer can
// still render them.
func (e *Engine) IsOutOfStock() bool {
	switch e.product.ProductType {
	case models.ProductReadyToShip:
		return e.product.Stock <= 0
	case models.ProductMadeToOrder:
		return e.product.RemainingCapacity <= 0
	case models.ProductScheduledOrder:
		return e.product.AvailableQuantity <= 0
	default:
		return false
	}
}

// OutOfStockStatus returns the variant-specific out-of-stock message, or a
// status with nil message and reason when the product is available.
func (e *Engine) OutOfStockStatus() StockStatus {
	if !e.IsOutOfStock() {
		return StockStatus{IsOutOfStock: false}
	}

	var message, reason string
	switch e.product.ProductType {
	case models.ProductReadyToShip:
		message = "Out of Stock"
		reason = "stock_depleted"
	case models.ProductMadeToOrder:
		message = "No Capacity Available"
		reason = "capacity_exhausted"
	case models.ProductScheduledOrder:
		message = "Fully Booked"
		reason = "production_booked"
	}
	return StockStatus{IsOutOfStock: true, Message: &message, Reason: &reason}
}

// CheckInventoryRestoration evaluates whether a capacity/availability time
// boundary has been crossed since the last restoration point and returns the
// directives to apply. The engine never writes them; persistence belongs to
// the product service.
func (e *Engine) CheckInventoryRestoration(now time.Time) []models.RestorationDirective {
	var directives []models.RestorationDirective

	switch e.product.ProductType {
	case models.ProductMadeToOrder:
		last := e.product.CreatedAt
		if e.product.LastCapacityRestore != nil {
			last = *e.product.LastCapacityRestore
		}
		if periodElapsed(e.product.CapacityPeriod, last, now) {
			restoredAt := now
			directives = append(directives, models.RestorationDirective{
				ProductID:  e.product.ID,
				Field:      models.RestoreFieldRemainingCapacity,
				NewValue:   e.product.TotalCapacity,
				RestoredAt: &restoredAt,
			})
		}

	case models.ProductScheduledOrder:
		if e.product.NextAvailableDate == nil || now.Before(*e.product.NextAvailableDate) {
			return nil
		}
		newQuantity := e.product.AvailableQuantity
		if e.product.TotalProductionQuantity > 0 {
			newQuantity = e.product.TotalProductionQuantity
		}
		next := advancePeriod(e.product.ScheduleType, *e.product.NextAvailableDate)
		directives = append(directives, models.RestorationDirective{
			ProductID: e.product.ID,
			Field:     models.RestoreFieldAvailableQuantity,
			NewValue:  newQuantity,
			NextDate:  &next,
		})
	}

	return directives
}

// periodElapsed reports whether a capacity period boundary has been crossed
// between last and now. Daily means the calendar day changed, weekly means
// at least seven full days elapsed, monthly means the calendar month or year
// changed.
func periodElapsed(period models.CapacityPeriod, last, now time.Time) bool {
	switch period {
	case models.PeriodDaily:
		ly, lm, ld := last.Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd
	case models.PeriodWeekly:
		return now.Sub(last) >= 7*24*time.Hour
	case models.PeriodMonthly:
		return last.Year() != now.Year() || last.Month() != now.Month()
	default:
		return false
	}
}

func advancePeriod(period models.CapacityPeriod, from time.Time) time.Time {
	switch period {
	case models.PeriodWeekly:
		return from.AddDate(0, 0, 7)
	case models.PeriodMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// CapacitySnapshot describes made-to-order capacity after a (possible)
// resize. Consumed capacity carries over when the total changes.
type CapacitySnapshot struct {
	TotalCapacity     int `json:"total_capacity"`
	RemainingCapacity int `json:"remaining_capacity"`
	Used              int `json:"used"`
	Available         int `json:"available"`
}

// CalculateRemainingCapacity derives the capacity snapshot for a
// made-to-order product. When newTotalCapacity is non-nil the remaining
// capacity is re-derived as max(0, newTotal - used), so already-consumed
// slots survive a resize.
func (e *Engine) CalculateRemainingCapacity(newTotalCapacity *int) (CapacitySnapshot, error) {
	if e.product.ProductType != models.ProductMadeToOrder {
		return CapacitySnapshot{}, fmt.Errorf("availability: capacity calculation requires a made_to_order product, got %q", e.product.ProductType)
	}

	total := e.product.TotalCapacity
	used := total - e.product.RemainingCapacity
	if used < 0 {
		used = 0
	}

	if newTotalCapacity != nil {
		total = *newTotalCapacity
	}
	remaining := total - used
	if remaining < 0 {
		remaining = 0
	}

	return CapacitySnapshot{
		TotalCapacity:     total,
		RemainingCapacity: remaining,
		Used:              used,
		Available:         remaining,
	}, nil
}

// ValidationResult collects every violation found by ValidateInventoryUpdate
// so a bulk editor can surface all problems at once.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateInventoryUpdate checks a proposed inventory field mutation against
// the variant's invariants. Violations come back as human-readable messages
// rather than errors.
func (e *Engine) ValidateInventoryUpdate(field string, value float64) ValidationResult {
	var violations []string

	if value < 0 {
		violations = append(violations, fmt.Sprintf("%s cannot be negative", field))
	}
	if value != math.Trunc(value) {
		violations = append(violations, fmt.Sprintf("%s must be a whole number", field))
	}

	intValue := int(value)
	switch field {
	case "stock", "low_stock_threshold":
		if e.product.ProductType != models.ProductReadyToShip {
			violations = append(violations, fmt.Sprintf("%s only applies to ready_to_ship products", field))
		}
	case models.RestoreFieldRemainingCapacity:
		if e.product.ProductType != models.ProductMadeToOrder {
			violations = append(violations, "remaining_capacity only applies to made_to_order products")
		} else if intValue > e.product.TotalCapacity {
			violations = append(violations, fmt.Sprintf("remaining_capacity (%d) cannot exceed total_capacity (%d)", intValue, e.product.TotalCapacity))
		}
	case "total_capacity":
		if e.product.ProductType != models.ProductMadeToOrder {
			violations = append(violations, "total_capacity only applies to made_to_order products")
		}
	case models.RestoreFieldAvailableQuantity, "total_production_quantity":
		if e.product.ProductType != models.ProductScheduledOrder {
			violations = append(violations, fmt.Sprintf("%s only applies to scheduled_order products", field))
		}
	default:
		violations = append(violations, fmt.Sprintf("unknown inventory field %q", field))
	}

	return ValidationResult{IsValid: len(violations) == 0, Errors: violations}
}

// CapacityUtilization returns the percentage of made-to-order capacity
// consumed, rounded to the nearest integer. Zero total capacity yields 0.
func (e *Engine) CapacityUtilization() (int, error) {
	if e.product.ProductType != models.ProductMadeToOrder {
		return 0, fmt.Errorf("availability: utilization requires a made_to_order product, got %q", e.product.ProductType)
	}
	if e.product.TotalCapacity == 0 {
		return 0, nil
	}
	used := e.product.TotalCapacity - e.product.RemainingCapacity
	return int(math.Round(float64(used) / float64(e.product.TotalCapacity) * 100)), nil
}

// Inventory status severity tiers.
const (
	StatusGood            = "good"
	StatusLow             = "low"
	StatusHighUtilization = "high_utilization"
)

// InventoryStatus is a dashboard-facing severity summary.
type InventoryStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

// InventoryStatus classifies current inventory into three severity tiers:
// low (variant-specific threshold breached), high_utilization (made-to-order
// at 80%+ used), or good.
func (e *Engine) InventoryStatus() InventoryStatus {
	switch e.product.ProductType {
	case models.ProductReadyToShip:
		if e.product.Stock <= e.product.LowStockThreshold {
			return InventoryStatus{Status: StatusLow, Message: fmt.Sprintf("Only %d left in stock", e.product.Stock), Color: "red"}
		}
	case models.ProductMadeToOrder:
		if e.product.RemainingCapacity <= 1 {
			return InventoryStatus{Status: StatusLow, Message: fmt.Sprintf("Only %d production slot(s) left", e.product.RemainingCapacity), Color: "red"}
		}
		if utilization, err := e.CapacityUtilization(); err == nil && utilization >= 80 {
			return InventoryStatus{Status: StatusHighUtilization, Message: fmt.Sprintf("%d%% of capacity booked", utilization), Color: "orange"}
		}
	case models.ProductScheduledOrder:
		if e.product.AvailableQuantity <= 1 {
			return InventoryStatus{Status: StatusLow, Message: fmt.Sprintf("Only %d unit(s) left this cycle", e.product.AvailableQuantity), Color: "red"}
		}
	}
	return InventoryStatus{Status: StatusGood, Message: "Inventory levels are healthy", Color: "green"}
}
