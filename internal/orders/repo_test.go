package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kanchanlabs/delivery-backend/pkg/db/models"
	"github.com/kanchanlabs/delivery-backend/pkg/enums"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS orders (
  order_id TEXT PRIMARY KEY,
  order_date DATETIME NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  can_qty INTEGER NOT NULL,
  collected_qty INTEGER,
  collected_date DATETIME,
  delivery_amount NUMERIC,
  delivery_date DATETIME NOT NULL,
  delivery_time TEXT NOT NULL,
  order_status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec(`DELETE FROM orders`).Error)
	return db
}

func orderDay(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newStoredOrder(t *testing.T, db *gorm.DB, orderDate, deliveryDate time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		OrderDate:       orderDate,
		CustomerName:    "Walk In",
		CustomerPhone:   "9000000001",
		CustomerAddress: "4 Market Street",
		CanQty:          3,
		DeliveryDate:    deliveryDate,
		DeliveryTime:    "morning",
		Status:          enums.OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCountByOrderDate(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	today := orderDay(2025, time.October, 6)
	tomorrow := orderDay(2025, time.October, 7)

	// Ordered today, delivering tomorrow: today's count still includes it.
	newStoredOrder(t, db, today, tomorrow)
	newStoredOrder(t, db, today, today)
	newStoredOrder(t, db, tomorrow, today)

	count, err := repo.CountByDate(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByDate(context.Background(), tomorrow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryListFiltersByDeliveryDate(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	target := orderDay(2025, time.November, 2)
	other := orderDay(2025, time.November, 3)

	newStoredOrder(t, db, target, target)
	newStoredOrder(t, db, target, other)

	date := target
	listed, err := repo.List(context.Background(), ListQuery{Date: &date})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, target, listed[0].DeliveryDate.UTC())
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	order, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, order)
}
