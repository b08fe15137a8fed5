package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// One connection keeps the in-memory database alive across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ReturnDocumentModel{},
		&models.ReturnLineModel{},
		&models.ReplacementDocumentModel{},
		&models.ReplacementLineModel{},
		&models.ExchangeDocumentModel{},
		&models.ExchangeReturnItemModel{},
		&models.ExchangeNewItemModel{},
		&models.ExchangeAllocationModel{},
		&models.PostingRecordModel{},
		&models.StockBatchModel{},
		&models.StockMovementModel{},
		&models.StoreModel{},
		&models.SupplierModel{},
		&models.ProductModel{},
		&models.GRNModel{},
		&models.GRNLineModel{},
		&models.SaleModel{},
		&models.SaleLineModel{},
		&models.OutboxEntryModel{},
	))
	return db
}

// newMockDB creates a GORM DB over sqlmock with the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "expected %s, got %s", want, got.String())
}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// newTestReturn builds a Draft return with one line per quantity
func newTestReturn(t *testing.T, number string, storeID, supplierID uuid.UUID, quantities ...string) *reconciliation.ReturnDocument {
	t.Helper()

	lines := make([]reconciliation.ReturnLineItem, len(quantities))
	for i, q := range quantities {
		lines[i] = reconciliation.NewReturnLineItem(uuid.New(), uuid.New(), fmt.Sprintf("B-%03d", i+1), nil, dec(q), dec("12.50"))
	}
	r, err := reconciliation.NewReturnDocument(number, reconciliation.ReturnHeader{
		StoreID:    storeID,
		SupplierID: supplierID,
		ReturnDate: testDate,
		Remark:     "damaged in transit",
	}, lines)
	require.NoError(t, err)
	return r
}

// createReturn persists a fresh return and returns it
func createReturn(t *testing.T, db *gorm.DB, number string, quantities ...string) *reconciliation.ReturnDocument {
	t.Helper()
	r := newTestReturn(t, number, uuid.New(), uuid.New(), quantities...)
	require.NoError(t, NewGormReturnRepository(db).Create(context.Background(), r))
	return r
}

// createBatch persists a stock batch with the given quantity
func createBatch(t *testing.T, db *gorm.DB, qty string) *inventory.StockBatch {
	t.Helper()
	b := inventory.NewStockBatch(uuid.New(), uuid.New(), "LOT-7", nil, dec(qty), dec("4.20"))
	require.NoError(t, NewGormStockBatchRepository(db).Save(context.Background(), b))
	return b
}

// createSale persists a sale with one line per quantity
func createSale(t *testing.T, db *gorm.DB, quantities ...string) *models.SaleModel {
	t.Helper()

	sale := &models.SaleModel{
		ID:       uuid.New(),
		Number:   "S-1001",
		StoreID:  uuid.New(),
		SaleDate: testDate,
	}
	for i, q := range quantities {
		sale.Lines = append(sale.Lines, models.SaleLineModel{
			ID:                uuid.New(),
			LineNo:            i,
			ProductID:         uuid.New(),
			BatchID:           uuid.New(),
			Quantity:          dec(q),
			ExchangedQuantity: decimal.Zero,
			UnitPrice:         dec("9.99"),
		})
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}
