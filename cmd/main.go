package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"craftmart/internal/caching"
	"craftmart/internal/geo"
	"craftmart/internal/handlers"
	"craftmart/internal/jobs"
	"craftmart/internal/middleware"
	"craftmart/internal/models"
	"craftmart/internal/promotions"
	"craftmart/internal/repositories"
	"craftmart/internal/search"
	"craftmart/internal/services"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration (identity extraction only; auth is external)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Default requester location when neither profile nor request supplies
	// one (city-center coordinates of the launch market).
	defaultLoc := models.Coordinates{Lat: 45.4642, Lng: 9.19}
	if latStr, lngStr := os.Getenv("DEFAULT_LAT"), os.Getenv("DEFAULT_LNG"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			defaultLoc = models.Coordinates{Lat: lat, Lng: lng}
		}
	}

	searchTTL := 5 * time.Minute
	if ttlStr := os.Getenv("SEARCH_CACHE_TTL_SECONDS"); ttlStr != "" {
		if seconds, err := strconv.Atoi(ttlStr); err == nil && seconds > 0 {
			searchTTL = time.Duration(seconds) * time.Second
		}
	}

	includeUnavailable := os.Getenv("SEARCH_INCLUDE_UNAVAILABLE") == "true"

	// Create repositories
	productRepo := repositories.NewProductRepo(pool)
	artisanRepo := repositories.NewArtisanRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)
	placementRepo := repositories.NewPlacementRepo(pool)

	// Create cache services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	searchCache := caching.NewSearchCache(cacheSvc, searchTTL)

	// Create collaborators and services
	promoSvc := promotions.NewService(placementRepo)
	resolver := geo.NewResolver(profileRepo, defaultLoc, 2*time.Second)
	productSvc := services.NewProductService(productRepo, cacheSvc, searchCache)

	orchestrator := search.NewOrchestrator(productRepo, artisanRepo, promoSvc, resolver, searchCache, search.Config{
		IncludeUnavailable: includeUnavailable,
	})

	// Create handlers
	searchHandlers := handlers.NewSearchHandlers(orchestrator)
	productHandlers := handlers.NewProductHandlers(productSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background restoration sweep
	restorationScheduler, err := jobs.NewRestorationScheduler(productSvc, productRepo, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create restoration scheduler: %v", err)
	}
	restorationScheduler.Start()
	defer restorationScheduler.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.OptionalIdentity([]byte(jwtSecret)))

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	v1.GET("/search", searchHandlers.Search)

	v1.GET("/products", productHandlers.ListProducts)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.GET("/products/availability/summary", productHandlers.AvailabilitySummary)

	// Catalog mutations require a valid token from the auth collaborator.
	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	protected.POST("/products", productHandlers.CreateProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)
	protected.POST("/products/:id/inventory/validate", productHandlers.ValidateInventory)
	protected.PUT("/products/:id/capacity", productHandlers.UpdateCapacity)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Craftmart search service v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
