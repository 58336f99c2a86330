package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"craftmart/internal/models"
	"craftmart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ProductHandlers handles HTTP requests for products.
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	ArtisanID   string   `json:"artisan_id"`
	ProductType string   `json:"product_type"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Tags        []string `json:"tags"`
	Price       float64  `json:"price"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	Stock             int `json:"stock"`
	LowStockThreshold int `json:"low_stock_threshold"`

	TotalCapacity     int    `json:"total_capacity"`
	RemainingCapacity int    `json:"remaining_capacity"`
	CapacityPeriod    string `json:"capacity_period"`

	AvailableQuantity       int        `json:"available_quantity"`
	NextAvailableDate       *time.Time `json:"next_available_date"`
	ScheduleType            string     `json:"schedule_type"`
	TotalProductionQuantity int        `json:"total_production_quantity"`
}

func (h *ProductHandlers) validateProduct(req *productRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Product name is required")
	}
	if req.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Price cannot be negative")
	}
	switch models.ProductType(req.ProductType) {
	case models.ProductReadyToShip, models.ProductMadeToOrder, models.ProductScheduledOrder:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown product type")
	}
	return nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID")
	}
	return id, nil
}

func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	req := new(productRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validateProduct(req); err != nil {
		return err
	}

	artisanID, err := uuid.Parse(req.ArtisanID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid artisan ID")
	}

	product := &models.Product{
		ArtisanID:               artisanID,
		ProductType:             models.ProductType(req.ProductType),
		Name:                    req.Name,
		Description:             req.Description,
		Category:                req.Category,
		Subcategory:             req.Subcategory,
		Tags:                    req.Tags,
		Price:                   req.Price,
		Latitude:                req.Latitude,
		Longitude:               req.Longitude,
		Stock:                   req.Stock,
		LowStockThreshold:       req.LowStockThreshold,
		TotalCapacity:           req.TotalCapacity,
		RemainingCapacity:       req.RemainingCapacity,
		CapacityPeriod:          models.CapacityPeriod(req.CapacityPeriod),
		AvailableQuantity:       req.AvailableQuantity,
		NextAvailableDate:       req.NextAvailableDate,
		ScheduleType:            models.CapacityPeriod(req.ScheduleType),
		TotalProductionQuantity: req.TotalProductionQuantity,
	}

	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset := 50, 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	products, err := h.productService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	req := new(productRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := h.validateProduct(req); err != nil {
		return err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Subcategory = req.Subcategory
	product.Tags = req.Tags
	product.Price = req.Price
	product.Latitude = req.Latitude
	product.Longitude = req.Longitude
	product.Stock = req.Stock
	product.LowStockThreshold = req.LowStockThreshold
	product.TotalCapacity = req.TotalCapacity
	product.RemainingCapacity = req.RemainingCapacity
	product.CapacityPeriod = models.CapacityPeriod(req.CapacityPeriod)
	product.AvailableQuantity = req.AvailableQuantity
	product.NextAvailableDate = req.NextAvailableDate
	product.ScheduleType = models.CapacityPeriod(req.ScheduleType)
	product.TotalProductionQuantity = req.TotalProductionQuantity

	if err := h.productService.Update(c.Request().Context(), product); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}

type inventoryValidationRequest struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
}

// ValidateInventory handles POST /v1/products/:id/inventory/validate. It
// returns every violation at once so bulk editors can surface all problems.
func (h *ProductHandlers) ValidateInventory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	req := new(inventoryValidationRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.productService.ValidateInventoryUpdate(c.Request().Context(), id, req.Field, req.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, result)
}

type capacityUpdateRequest struct {
	TotalCapacity int `json:"total_capacity"`
}

// UpdateCapacity handles PUT /v1/products/:id/capacity for made-to-order
// products. Consumed capacity carries over across the resize.
func (h *ProductHandlers) UpdateCapacity(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	req := new(capacityUpdateRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.TotalCapacity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Total capacity cannot be negative")
	}

	snapshot, err := h.productService.UpdateCapacity(c.Request().Context(), id, req.TotalCapacity)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, snapshot)
}

// AvailabilitySummary handles GET /v1/products/availability/summary.
func (h *ProductHandlers) AvailabilitySummary(c echo.Context) error {
	summary, err := h.productService.AvailabilitySummary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute summary")
	}
	return c.JSON(http.StatusOK, summary)
}
