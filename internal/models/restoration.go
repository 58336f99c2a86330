package models

import (
	"time"

	"github.com/google/uuid"
)

// Restoration directive fields.
const (
	RestoreFieldRemainingCapacity = "remaining_capacity"
	RestoreFieldAvailableQuantity = "available_quantity"
)

// RestorationDirective describes a pending time-driven state reset proposed
// by the availability engine. The engine never persists these itself; the
// product service applies them.
type RestorationDirective struct {
	ProductID uuid.UUID `json:"product_id"`
	Field     string    `json:"field"`
	NewValue  int       `json:"new_value"`

	// RestoredAt stamps last_capacity_restore for made-to-order resets.
	RestoredAt *time.Time `json:"restored_at,omitempty"`

	// NextDate advances next_available_date for scheduled-order resets.
	NextDate *time.Time `json:"next_date,omitempty"`
}
