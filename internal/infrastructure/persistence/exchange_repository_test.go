package persistence

import (
	"context"
	"testing"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createExchange(t *testing.T, db *gorm.DB, number string) *reconciliation.ExchangeDocument {
	t.Helper()

	sale := createSale(t, db, "3", "2").ToDomain()
	returnItems := []reconciliation.ExchangeReturnItem{
		reconciliation.NewExchangeReturnItem(&sale.Lines[0], dec("2"), reconciliation.ReasonWrongItem),
		reconciliation.NewExchangeReturnItem(&sale.Lines[1], dec("1"), reconciliation.ReasonDamaged),
	}
	newItems := []reconciliation.ExchangeNewItem{
		reconciliation.NewExchangeNewItem(uuid.New(), uuid.New(), dec("1"), dec("25.00")),
	}
	e, err := reconciliation.NewExchangeDocument(number, sale, reconciliation.ExchangeHeader{
		ExchangeDate: testDate,
		Remark:       "size swap",
	}, returnItems, newItems)
	require.NoError(t, err)
	require.NoError(t, NewGormExchangeRepository(db).Create(context.Background(), e))
	return e
}

func TestGormExchangeRepository_CreateAndSave(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExchangeRepository(db)
	ctx := context.Background()

	created := createExchange(t, db, "EX-2026-00001")

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SaleID, found.SaleID)
	assert.Equal(t, "size swap", found.Remark)
	require.Len(t, found.ReturnItems, 2)
	require.Len(t, found.NewItems, 1)
	assert.Equal(t, reconciliation.ReasonWrongItem, found.ReturnItems[0].Reason)
	assertDecimal(t, "3", found.ReturnItems[0].OriginalQuantity)
	assertDecimal(t, "25", found.NewItems[0].UnitPrice)

	found.ReturnItems = found.ReturnItems[1:]
	found.NewItems = append(found.NewItems, reconciliation.NewExchangeNewItem(uuid.New(), uuid.New(), dec("2"), dec("3.50")))
	require.NoError(t, repo.SaveWithLock(ctx, found))

	locked, err := repo.FindByIDForUpdate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, locked.Version)
	require.Len(t, locked.ReturnItems, 1)
	assert.Equal(t, reconciliation.ReasonDamaged, locked.ReturnItems[0].Reason)
	require.Len(t, locked.NewItems, 2)
}

func TestGormExchangeRepository_Allocations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExchangeRepository(db)
	ctx := context.Background()

	e := createExchange(t, db, "EX-2026-00001")
	rows := []reconciliation.ExchangeAllocation{
		{
			ReturnItemID:    e.ReturnItems[0].ID,
			NewItemID:       e.NewItems[0].ID,
			Share:           dec("0.6667"),
			ReturnAmount:    dec("13.32"),
			NewAmount:       dec("16.67"),
			DifferenceShare: dec("3.35"),
		},
		{
			ReturnItemID:    e.ReturnItems[1].ID,
			NewItemID:       e.NewItems[0].ID,
			Share:           dec("0.3333"),
			ReturnAmount:    dec("6.66"),
			NewAmount:       dec("8.33"),
			DifferenceShare: dec("1.67"),
		},
	}

	require.NoError(t, repo.SaveAllocations(ctx, e.ID, rows))

	got, err := repo.FindAllocations(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, e.ReturnItems[0].ID, got[0].ReturnItemID)
	assertDecimal(t, "0.6667", got[0].Share)
	assertDecimal(t, "1.67", got[1].DifferenceShare)

	// saving again replaces the rows
	require.NoError(t, repo.SaveAllocations(ctx, e.ID, rows[:1]))
	got, err = repo.FindAllocations(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	none, err := repo.FindAllocations(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormExchangeRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormExchangeRepository(db)
	ctx := context.Background()

	first := createExchange(t, db, "EX-2026-00001")
	createExchange(t, db, "EX-2026-00002")

	filter := reconciliation.DefaultDocumentFilter()
	filter.SaleID = &first.SaleID
	docs, total, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, docs, 1)
	assert.Len(t, docs[0].ReturnItems, 2)

	number, err := repo.NextDocumentNumber(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, "EX-2026-00003", number)
}
