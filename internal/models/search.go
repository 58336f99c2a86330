package models

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchQuery holds one search request after handler-level parsing. It is an
// ephemeral value object; the orchestrator never mutates it.
type SearchQuery struct {
	Query        string       `json:"query,omitempty"`         // Free-text query, matched against name, tags, category
	Category     string       `json:"category,omitempty"`      // Category filter
	Subcategory  string       `json:"subcategory,omitempty"`   // Subcategory filter, only meaningful with Category
	UserLocation *Coordinates `json:"user_location,omitempty"` // Requester location, nil when unresolved
	MinPrice     *float64     `json:"min_price,omitempty"`     // Minimum price filter
	MaxPrice     *float64     `json:"max_price,omitempty"`     // Maximum price filter
	Limit        int          `json:"limit,omitempty"`         // Result cap (default: 50)
}

// RankedResult is a product plus its derived search ranking state.
type RankedResult struct {
	Product        *Product      `json:"product"`
	RelevanceScore float64       `json:"relevance_score"`
	DistanceKm     *float64      `json:"distance_km,omitempty"`
	FormattedDist  string        `json:"formatted_distance,omitempty"`
	IsSponsored    bool          `json:"is_sponsored"`
	SponsoredBadge *ProductBadge `json:"sponsored_badge,omitempty"`
}
