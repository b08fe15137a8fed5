//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/event"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a PostgreSQL container and applies the migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("reconciliation_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	runMigrations(t, sqlDB)
	return db
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath(t), "postgres", driver)
	require.NoError(t, err)

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

// migrationsPath walks up from this file to the repository's migrations directory
func migrationsPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")
}

func TestIntegration_ConcurrentReplacedQuantityIncrements(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormReturnRepository(db)
	ctx := context.Background()

	ret := createReturn(t, db, "RT-2026-00001", "5")
	lineID := ret.Lines[0].ID

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.IncrementReplacedQuantity(ctx, lineID, dec("1")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, reconciliation.ErrConservationViolation)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	line, err := repo.FindLine(ctx, lineID)
	require.NoError(t, err)
	assertDecimal(t, "5", line.AlreadyReplacedQuantity)
}

func TestIntegration_ConcurrentPostingRecords(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormPostingRecordRepository(db)
	ctx := context.Background()

	documentID := uuid.New()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &reconciliation.PostingRecord{
				DocumentID:     documentID,
				DocumentType:   reconciliation.DocumentTypeExchange,
				DocumentNumber: "EX-2026-00001",
				PostedAt:       time.Now().UTC(),
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, reconciliation.ErrAlreadyPosted)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestIntegration_ConcurrentBatchDecrease(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormStockBatchRepository(db)
	ctx := context.Background()

	batch := createBatch(t, db, "6")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Decrease(ctx, batch.ID, dec("1"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failed int
	for err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, inventory.ErrInsufficientBatchStock)
		}
	}
	assert.Equal(t, 4, failed)

	found, err := repo.FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assertDecimal(t, "0", found.Quantity)
}

// Posting the same replacement from many goroutines must receive stock once.
func TestIntegration_ConcurrentReplacementPost(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	store := models.StoreModel{ID: uuid.New(), Code: "S01", Name: "Main Street"}
	supplier := models.SupplierModel{ID: uuid.New(), Code: "SUP-1", Name: "Acme Pharma"}
	require.NoError(t, db.Create(&store).Error)
	require.NoError(t, db.Create(&supplier).Error)

	batch := inventory.NewStockBatch(store.ID, uuid.New(), "LOT-42", nil, dec("0"), dec("3.75"))
	require.NoError(t, NewGormStockBatchRepository(db).Save(ctx, batch))

	svc := appreconciliation.NewService(
		NewGormTransactionScope(db, event.NewOutboxPublisher(event.NewReconciliationSerializer())),
		NewRepositories(db),
		NewGormReferenceDataGateway(db),
	)

	ret, err := svc.CreateReturn(ctx, appreconciliation.ReturnRequest{
		StoreID:    store.ID,
		SupplierID: supplier.ID,
		Lines: []appreconciliation.ReturnLineRequest{{
			ProductID:      batch.ProductID,
			BatchID:        batch.ID,
			BatchNumber:    batch.BatchNumber,
			ReturnQuantity: dec("4"),
			CostPrice:      dec("3.75"),
		}},
	})
	require.NoError(t, err)
	_, err = svc.Post(ctx, reconciliation.ReturnRef(ret.ID), appreconciliation.PostRequest{})
	require.NoError(t, err)

	rep, err := svc.CreateReplacement(ctx, appreconciliation.ReplacementRequest{
		ReturnID: ret.ID,
		Lines: []appreconciliation.ReplacementLineRequest{{
			ReturnLineID: ret.Lines[0].ID,
			Quantity:     dec("4"),
		}},
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, reconciliation.ReplacementRef(rep.ID))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Post(ctx, reconciliation.ReplacementRef(rep.ID), appreconciliation.PostRequest{})
		}()
	}
	wg.Wait()

	found, err := NewGormStockBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assertDecimal(t, "4", found.Quantity)

	movements, err := NewGormStockMovementRepository(db).FindByDocument(ctx, rep.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	line, err := NewGormReturnRepository(db).FindLine(ctx, ret.Lines[0].ID)
	require.NoError(t, err)
	assertDecimal(t, "4", line.AlreadyReplacedQuantity)

	var outboxCount int64
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).Count(&outboxCount).Error)
	assert.Positive(t, outboxCount)
}
