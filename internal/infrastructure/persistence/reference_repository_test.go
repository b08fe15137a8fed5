package persistence

import (
	"context"
	"testing"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormReferenceDataGateway(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGormReferenceDataGateway(db)
	ctx := context.Background()

	store := models.StoreModel{ID: uuid.New(), Code: "S01", Name: "Main Street"}
	supplier := models.SupplierModel{ID: uuid.New(), Code: "SUP-9", Name: "Acme Pharma"}
	product := models.ProductModel{ID: uuid.New(), Code: "P-100", Name: "Paracetamol 500mg", Unit: "box"}
	require.NoError(t, db.Create(&store).Error)
	require.NoError(t, db.Create(&supplier).Error)
	require.NoError(t, db.Create(&product).Error)

	older := models.GRNModel{
		ID: uuid.New(), Number: "GRN-0001", StoreID: store.ID, SupplierID: supplier.ID,
		Status: reconciliation.GRNStatusPosted, ReceivedDate: testDate.AddDate(0, 0, -7),
		Lines: []models.GRNLineModel{{
			ID: uuid.New(), ProductID: product.ID, BatchID: uuid.New(), BatchNumber: "LOT-1",
			ReceivedQuantity: dec("20"), CostPrice: dec("3.10"),
		}},
	}
	newer := models.GRNModel{
		ID: uuid.New(), Number: "GRN-0002", StoreID: store.ID, SupplierID: supplier.ID,
		Status: reconciliation.GRNStatusDraft, ReceivedDate: testDate,
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	gotStore, err := gw.GetStore(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Street", gotStore.Name)

	gotSupplier, err := gw.GetSupplier(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUP-9", gotSupplier.Code)

	gotProduct, err := gw.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "box", gotProduct.Unit)

	grn, err := gw.GetGRN(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, grn.Lines, 1)
	assertDecimal(t, "20", grn.Lines[0].ReceivedQuantity)

	grns, err := gw.ListGRNs(ctx, store.ID, supplier.ID)
	require.NoError(t, err)
	require.Len(t, grns, 2)
	assert.Equal(t, "GRN-0002", grns[0].Number)

	sale := createSale(t, db, "2", "1")
	gotSale, err := gw.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, gotSale.Lines, 2)
	assert.Equal(t, sale.Lines[0].ID, gotSale.Lines[0].ID)

	_, err = gw.GetStore(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = gw.GetSale(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
