package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"craftmart/internal/common"
	"craftmart/internal/models"
	"craftmart/internal/search"

	"github.com/labstack/echo/v4"
)

// SearchHandlers handles HTTP requests for marketplace search.
type SearchHandlers struct {
	orchestrator *search.Orchestrator
}

func NewSearchHandlers(orchestrator *search.Orchestrator) *SearchHandlers {
	return &SearchHandlers{orchestrator: orchestrator}
}

// Search handles GET /v1/search. Query parameters: q, category,
// subcategory, lat, lng, min_price, max_price, limit.
func (h *SearchHandlers) Search(c echo.Context) error {
	query := &models.SearchQuery{
		Query:       strings.TrimSpace(c.QueryParam("q")),
		Category:    strings.TrimSpace(c.QueryParam("category")),
		Subcategory: strings.TrimSpace(c.QueryParam("subcategory")),
	}

	if latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid lat/lng coordinates")
		}
		query.UserLocation = &models.Coordinates{Lat: lat, Lng: lng}
	}

	if minStr := c.QueryParam("min_price"); minStr != "" {
		min, err := strconv.ParseFloat(minStr, 64)
		if err != nil || min < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid min_price")
		}
		query.MinPrice = &min
	}
	if maxStr := c.QueryParam("max_price"); maxStr != "" {
		max, err := strconv.ParseFloat(maxStr, 64)
		if err != nil || max < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid max_price")
		}
		query.MaxPrice = &max
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "Limit must be between 1 and 200")
		}
		query.Limit = limit
	}

	ctx := c.Request().Context()
	results, err := h.orchestrator.Search(ctx, query, common.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	// An exhausted fallback chain is a "no results" state, not an error.
	if results == nil {
		results = []*models.RankedResult{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}
