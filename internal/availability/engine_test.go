package availability

import (
	"testing"
	"time"

	"craftmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyToShipProduct(stock int) *models.Product {
	return &models.Product{
		ID:                uuid.New(),
		ProductType:       models.ProductReadyToShip,
		Name:              "Hand-thrown Mug",
		Stock:             stock,
		LowStockThreshold: 3,
		CreatedAt:         time.Now().Add(-100 * 24 * time.Hour),
	}
}

func madeToOrderProduct(total, remaining int, period models.CapacityPeriod, lastRestore *time.Time) *models.Product {
	return &models.Product{
		ID:                  uuid.New(),
		ProductType:         models.ProductMadeToOrder,
		Name:                "Custom Leather Satchel",
		TotalCapacity:       total,
		RemainingCapacity:   remaining,
		CapacityPeriod:      period,
		LastCapacityRestore: lastRestore,
		CreatedAt:           time.Now().Add(-60 * 24 * time.Hour),
	}
}

func TestNewEngineNilProduct(t *testing.T) {
	engine, err := NewEngine(nil)
	assert.Nil(t, engine)
	assert.ErrorIs(t, err, ErrNilProduct)
}

func TestIsOutOfStockByVariant(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		want    bool
	}{
		{"ready_to_ship with stock", readyToShipProduct(5), false},
		{"ready_to_ship depleted", readyToShipProduct(0), true},
		{"made_to_order with capacity", madeToOrderProduct(10, 2, models.PeriodWeekly, nil), false},
		{"made_to_order exhausted", madeToOrderProduct(10, 0, models.PeriodWeekly, nil), true},
		{"scheduled_order booked", &models.Product{ID: uuid.New(), ProductType: models.ProductScheduledOrder, AvailableQuantity: 0}, true},
		{"scheduled_order open", &models.Product{ID: uuid.New(), ProductType: models.ProductScheduledOrder, AvailableQuantity: 4}, false},
		// Unknown variants fail open so the display layer can still render them.
		{"unknown variant", &models.Product{ID: uuid.New(), ProductType: "mystery_box"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.product)
			require.NoError(t, err)
			assert.Equal(t, tt.want, engine.IsOutOfStock())
			// Idempotent read: no intervening mutation, same answer.
			assert.Equal(t, tt.want, engine.IsOutOfStock())
		})
	}
}

func TestOutOfStockStatusMessages(t *testing.T) {
	engine, _ := NewEngine(readyToShipProduct(0))
	status := engine.OutOfStockStatus()
	assert.True(t, status.IsOutOfStock)
	require.NotNil(t, status.Message)
	assert.Equal(t, "Out of Stock", *status.Message)

	engine, _ = NewEngine(madeToOrderProduct(5, 0, models.PeriodDaily, nil))
	status = engine.OutOfStockStatus()
	require.NotNil(t, status.Message)
	assert.Equal(t, "No Capacity Available", *status.Message)

	engine, _ = NewEngine(&models.Product{ID: uuid.New(), ProductType: models.ProductScheduledOrder, AvailableQuantity: 0})
	status = engine.OutOfStockStatus()
	require.NotNil(t, status.Message)
	assert.Equal(t, "Fully Booked", *status.Message)

	// Available products report no message or reason.
	engine, _ = NewEngine(readyToShipProduct(7))
	status = engine.OutOfStockStatus()
	assert.False(t, status.IsOutOfStock)
	assert.Nil(t, status.Message)
	assert.Nil(t, status.Reason)
}

func TestRestockClearsOutOfStock(t *testing.T) {
	product := readyToShipProduct(0)
	engine, _ := NewEngine(product)
	assert.True(t, engine.IsOutOfStock())

	product.Stock = 5
	engine, _ = NewEngine(product)
	assert.False(t, engine.IsOutOfStock())
}

func TestWeeklyRestorationDue(t *testing.T) {
	lastRestore := time.Now().Add(-8 * 24 * time.Hour)
	product := madeToOrderProduct(10, 2, models.PeriodWeekly, &lastRestore)

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(time.Now())

	require.Len(t, directives, 1)
	assert.Equal(t, models.RestoreFieldRemainingCapacity, directives[0].Field)
	assert.Equal(t, 10, directives[0].NewValue)
	assert.Equal(t, product.ID, directives[0].ProductID)
	require.NotNil(t, directives[0].RestoredAt)
}

func TestDailyRestorationMonotonic(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	product := madeToOrderProduct(6, 1, models.PeriodDaily, &yesterday)

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(now)
	require.Len(t, directives, 1)
	assert.Equal(t, 6, directives[0].NewValue)

	// Apply the directive, then the check must go quiet.
	product.RemainingCapacity = directives[0].NewValue
	product.LastCapacityRestore = directives[0].RestoredAt

	engine, _ = NewEngine(product)
	assert.Empty(t, engine.CheckInventoryRestoration(now))
}

func TestDailyRestorationSameDayNotDue(t *testing.T) {
	now := time.Date(2026, 8, 31, 22, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC)
	product := madeToOrderProduct(6, 0, models.PeriodDaily, &earlier)

	engine, _ := NewEngine(product)
	assert.Empty(t, engine.CheckInventoryRestoration(now))
}

func TestMonthlyRestorationOnCalendarBoundary(t *testing.T) {
	lastRestore := time.Date(2026, 7, 31, 23, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 1, 0, 30, 0, 0, time.UTC)
	product := madeToOrderProduct(4, 4, models.PeriodMonthly, &lastRestore)

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(now)
	require.Len(t, directives, 1)
}

func TestRestorationFallsBackToCreatedAt(t *testing.T) {
	product := madeToOrderProduct(10, 3, models.PeriodWeekly, nil)
	product.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(time.Now())
	require.Len(t, directives, 1)
}

func TestScheduledOrderRestoration(t *testing.T) {
	next := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	product := &models.Product{
		ID:                      uuid.New(),
		ProductType:             models.ProductScheduledOrder,
		AvailableQuantity:       0,
		NextAvailableDate:       &next,
		ScheduleType:            models.PeriodWeekly,
		TotalProductionQuantity: 12,
	}

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, directives, 1)
	assert.Equal(t, models.RestoreFieldAvailableQuantity, directives[0].Field)
	assert.Equal(t, 12, directives[0].NewValue)
	require.NotNil(t, directives[0].NextDate)
	assert.Equal(t, next.AddDate(0, 0, 7), *directives[0].NextDate)
}

func TestScheduledOrderRestorationKeepsQuantityWhenTotalUnset(t *testing.T) {
	next := time.Now().Add(-time.Hour)
	product := &models.Product{
		ID:                uuid.New(),
		ProductType:       models.ProductScheduledOrder,
		AvailableQuantity: 3,
		NextAvailableDate: &next,
		ScheduleType:      models.PeriodDaily,
	}

	engine, _ := NewEngine(product)
	directives := engine.CheckInventoryRestoration(time.Now())
	require.Len(t, directives, 1)
	assert.Equal(t, 3, directives[0].NewValue)
}

func TestScheduledOrderNotDueBeforeDate(t *testing.T) {
	next := time.Now().Add(24 * time.Hour)
	product := &models.Product{
		ID:                uuid.New(),
		ProductType:       models.ProductScheduledOrder,
		AvailableQuantity: 0,
		NextAvailableDate: &next,
		ScheduleType:      models.PeriodDaily,
	}

	engine, _ := NewEngine(product)
	assert.Empty(t, engine.CheckInventoryRestoration(time.Now()))
}

func TestCalculateRemainingCapacity(t *testing.T) {
	product := madeToOrderProduct(10, 4, models.PeriodWeekly, nil)
	engine, _ := NewEngine(product)

	snapshot, err := engine.CalculateRemainingCapacity(nil)
	require.NoError(t, err)
	assert.Equal(t, 10, snapshot.TotalCapacity)
	assert.Equal(t, 4, snapshot.RemainingCapacity)
	assert.Equal(t, 6, snapshot.Used)

	// Resize up: consumed capacity carries over.
	newTotal := 15
	snapshot, err = engine.CalculateRemainingCapacity(&newTotal)
	require.NoError(t, err)
	assert.Equal(t, 15, snapshot.TotalCapacity)
	assert.Equal(t, 9, snapshot.RemainingCapacity)
	assert.Equal(t, 6, snapshot.Used)

	// Resize below used: remaining clamps to zero, never negative.
	newTotal = 4
	snapshot, err = engine.CalculateRemainingCapacity(&newTotal)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.RemainingCapacity)
	assert.GreaterOrEqual(t, snapshot.RemainingCapacity, 0)
	assert.LessOrEqual(t, snapshot.RemainingCapacity, snapshot.TotalCapacity)
}

func TestCalculateRemainingCapacityWrongVariant(t *testing.T) {
	engine, _ := NewEngine(readyToShipProduct(5))
	_, err := engine.CalculateRemainingCapacity(nil)
	assert.Error(t, err)
}

func TestValidateInventoryUpdate(t *testing.T) {
	product := madeToOrderProduct(10, 4, models.PeriodWeekly, nil)
	engine, _ := NewEngine(product)

	result := engine.ValidateInventoryUpdate("remaining_capacity", 8)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)

	result = engine.ValidateInventoryUpdate("remaining_capacity", 12)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "cannot exceed total_capacity")

	// Multiple violations come back together for bulk editors.
	result = engine.ValidateInventoryUpdate("stock", -2.5)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
}

func TestCapacityUtilization(t *testing.T) {
	engine, _ := NewEngine(madeToOrderProduct(10, 4, models.PeriodWeekly, nil))
	utilization, err := engine.CapacityUtilization()
	require.NoError(t, err)
	assert.Equal(t, 60, utilization)

	// Zero total capacity must not divide by zero.
	engine, _ = NewEngine(madeToOrderProduct(0, 0, models.PeriodWeekly, nil))
	utilization, err = engine.CapacityUtilization()
	require.NoError(t, err)
	assert.Equal(t, 0, utilization)
}

func TestInventoryStatusTiers(t *testing.T) {
	engine, _ := NewEngine(readyToShipProduct(2))
	assert.Equal(t, StatusLow, engine.InventoryStatus().Status)

	engine, _ = NewEngine(readyToShipProduct(20))
	assert.Equal(t, StatusGood, engine.InventoryStatus().Status)

	engine, _ = NewEngine(madeToOrderProduct(10, 2, models.PeriodWeekly, nil))
	assert.Equal(t, StatusHighUtilization, engine.InventoryStatus().Status)
}

func TestBatchRestorations(t *testing.T) {
	lastRestore := time.Now().Add(-8 * 24 * time.Hour)
	due := madeToOrderProduct(10, 2, models.PeriodWeekly, &lastRestore)
	recent := time.Now().Add(-time.Hour)
	notDue := madeToOrderProduct(10, 2, models.PeriodWeekly, &recent)

	directives := CheckRestorations([]*models.Product{due, notDue, nil}, time.Now())
	require.Len(t, directives, 1)
	assert.Equal(t, due.ID, directives[0].ProductID)
}

func TestSummarize(t *testing.T) {
	products := []*models.Product{
		readyToShipProduct(10),
		readyToShipProduct(0),
		readyToShipProduct(1),
		madeToOrderProduct(10, 5, models.PeriodWeekly, nil),
	}

	summary := Summarize(products)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Available)
	assert.Equal(t, 1, summary.OutOfStock)
	assert.Equal(t, 1, summary.LowStock)
	assert.Equal(t, 3, summary.ByType[string(models.ProductReadyToShip)])
}
