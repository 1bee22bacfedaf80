package dailyupdates

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

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  customer_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  alternate_number TEXT,
  address TEXT NOT NULL,
  customer_type TEXT NOT NULL,
  advance_amount NUMERIC,
  can_qty INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	dailyUpdates := `
CREATE TABLE IF NOT EXISTS daily_updates (
  update_id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  delivered_qty INTEGER NOT NULL DEFAULT 0,
  collected_qty INTEGER NOT NULL DEFAULT 0,
  holding_status INTEGER NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (customer_id, date)
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(dailyUpdates).Error)
	return db
}

func newLedgerCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ID:           uuid.New(),
		Name:         name,
		PhoneNumber:  "9000000000",
		Address:      "12 Tank Road",
		CustomerType: enums.CustomerTypeMonthly,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func newLedgerRecord(t *testing.T, db *gorm.DB, customer *models.Customer, date time.Time, delivered, collected, holding int) *models.DailyRecord {
	t.Helper()

	record := &models.DailyRecord{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		Date:          date,
		DeliveredQty:  delivered,
		CollectedQty:  collected,
		HoldingStatus: holding,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestRepositoryBalanceBefore(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "Balance Before")

	newLedgerRecord(t, db, customer, day(2025, time.March, 1), 10, 0, 10)
	newLedgerRecord(t, db, customer, day(2025, time.March, 3), 5, 2, 13)

	balance, err := repo.BalanceBefore(context.Background(), customer.ID, day(2025, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, 13, balance)

	balance, err = repo.BalanceBefore(context.Background(), customer.ID, day(2025, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestRepositoryListFromOrdersByDate(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "List From")

	newLedgerRecord(t, db, customer, day(2025, time.April, 3), 2, 0, 2)
	newLedgerRecord(t, db, customer, day(2025, time.April, 1), 4, 0, 4)
	newLedgerRecord(t, db, customer, day(2025, time.April, 2), 3, 1, 6)

	records, err := repo.ListFrom(context.Background(), customer.ID, day(2025, time.April, 2))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, day(2025, time.April, 2), records[0].Date.UTC())
	assert.Equal(t, day(2025, time.April, 3), records[1].Date.UTC())
}

func TestRepositoryFindByCustomerAndDateMissing(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "Find Missing")

	record, err := repo.FindByCustomerAndDate(context.Background(), customer.ID, day(2025, time.May, 1))
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRepositoryUpdateHoldingStatus(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "Holding Update")

	record := newLedgerRecord(t, db, customer, day(2025, time.June, 1), 8, 0, 8)
	require.NoError(t, repo.UpdateHoldingStatus(context.Background(), record.ID, 5))

	stored, err := repo.FindByCustomerAndDate(context.Background(), customer.ID, day(2025, time.June, 1))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 5, stored.HoldingStatus)
	assert.Equal(t, 8, stored.DeliveredQty)
}

func TestRepositoryListByCustomerRange(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "Range")

	newLedgerRecord(t, db, customer, day(2025, time.June, 30), 1, 0, 1)
	newLedgerRecord(t, db, customer, day(2025, time.July, 1), 2, 0, 3)
	newLedgerRecord(t, db, customer, day(2025, time.July, 31), 3, 0, 6)
	newLedgerRecord(t, db, customer, day(2025, time.August, 1), 4, 0, 10)

	records, err := repo.ListByCustomerRange(context.Background(), customer.ID, day(2025, time.July, 1), day(2025, time.August, 1))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, day(2025, time.July, 1), records[0].Date.UTC())
	assert.Equal(t, day(2025, time.July, 31), records[1].Date.UTC())
}

func TestRepositoryListByDatePreloadsCustomer(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	customer := newLedgerCustomer(t, db, "Preload Name")

	newLedgerRecord(t, db, customer, day(2025, time.September, 1), 6, 2, 4)

	records, err := repo.ListByDate(context.Background(), day(2025, time.September, 1))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Customer)
	assert.Equal(t, "Preload Name", records[0].Customer.Name)
}
