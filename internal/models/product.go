package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductType discriminates the three fulfillment models a product can use.
type ProductType string

const (
	ProductReadyToShip    ProductType = "ready_to_ship"
	ProductMadeToOrder    ProductType = "made_to_order"
	ProductScheduledOrder ProductType = "scheduled_order"
)

// CapacityPeriod is the recurring interval after which made-to-order
// production slots reset. Also used as the schedule interval for
// scheduled-order products.
type CapacityPeriod string

const (
	PeriodDaily   CapacityPeriod = "daily"
	PeriodWeekly  CapacityPeriod = "weekly"
	PeriodMonthly CapacityPeriod = "monthly"
)

// ProductBadge is an optional curated badge shown on listings.
type ProductBadge string

const (
	BadgeTrending   ProductBadge = "trending"
	BadgeBestseller ProductBadge = "bestseller"
	BadgeNew        ProductBadge = "new"
)

type Product struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	ArtisanID   uuid.UUID   `json:"artisan_id" db:"artisan_id"`
	ProductType ProductType `json:"product_type" db:"product_type"`
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description" db:"description"`
	Category    string      `json:"category" db:"category"`
	Subcategory *string     `json:"subcategory" db:"subcategory"`
	Tags        []string    `json:"tags" db:"tags"`
	Price       float64     `json:"price" db:"price"`

	// Engagement counters maintained by out-of-scope CRUD paths.
	RatingAverage float64 `json:"rating_average" db:"rating_average"`
	RatingCount   int     `json:"rating_count" db:"rating_count"`
	TotalSales    int     `json:"total_sales" db:"total_sales"`
	FavoriteCount int     `json:"favorite_count" db:"favorite_count"`

	// Pickup/workshop coordinates. Nil when the artisan has not set one.
	Latitude  *float64 `json:"latitude" db:"latitude"`
	Longitude *float64 `json:"longitude" db:"longitude"`

	// Curated placement flags.
	IsFeatured bool          `json:"is_featured" db:"is_featured"`
	IsSeasonal bool          `json:"is_seasonal" db:"is_seasonal"`
	IsCurated  bool          `json:"is_curated" db:"is_curated"`
	Badge      *ProductBadge `json:"badge" db:"badge"`

	// ready_to_ship fields.
	Stock             int `json:"stock" db:"stock"`
	LowStockThreshold int `json:"low_stock_threshold" db:"low_stock_threshold"`

	// made_to_order fields.
	TotalCapacity       int            `json:"total_capacity" db:"total_capacity"`
	RemainingCapacity   int            `json:"remaining_capacity" db:"remaining_capacity"`
	CapacityPeriod      CapacityPeriod `json:"capacity_period" db:"capacity_period"`
	LastCapacityRestore *time.Time     `json:"last_capacity_restore" db:"last_capacity_restore"`

	// scheduled_order fields.
	AvailableQuantity       int            `json:"available_quantity" db:"available_quantity"`
	NextAvailableDate       *time.Time     `json:"next_available_date" db:"next_available_date"`
	ScheduleType            CapacityPeriod `json:"schedule_type" db:"schedule_type"`
	TotalProductionQuantity int            `json:"total_production_quantity" db:"total_production_quantity"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Coordinates returns the product's location, or nil when either coordinate
// is missing.
func (p *Product) Coordinates() *Coordinates {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &Coordinates{Lat: *p.Latitude, Lng: *p.Longitude}
}
