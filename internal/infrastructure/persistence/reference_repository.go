package persistence

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReferenceDataGateway reads master and source data from the shared
// database
type GormReferenceDataGateway struct {
	db *gorm.DB
}

// NewGormReferenceDataGateway creates a new GormReferenceDataGateway
func NewGormReferenceDataGateway(db *gorm.DB) *GormReferenceDataGateway {
	return &GormReferenceDataGateway{db: db}
}

// GetStore finds a store by ID
func (g *GormReferenceDataGateway) GetStore(ctx context.Context, id uuid.UUID) (*reconciliation.Store, error) {
	var model models.StoreModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetSupplier finds a supplier by ID
func (g *GormReferenceDataGateway) GetSupplier(ctx context.Context, id uuid.UUID) (*reconciliation.Supplier, error) {
	var model models.SupplierModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetProduct finds a product by ID
func (g *GormReferenceDataGateway) GetProduct(ctx context.Context, id uuid.UUID) (*reconciliation.Product, error) {
	var model models.ProductModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// GetGRN finds a goods received note with its lines
func (g *GormReferenceDataGateway) GetGRN(ctx context.Context, id uuid.UUID) (*reconciliation.GoodsReceivedNote, error) {
	var model models.GRNModel
	if err := g.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// ListGRNs lists the goods received notes of a store and supplier, newest first
func (g *GormReferenceDataGateway) ListGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]*reconciliation.GoodsReceivedNote, error) {
	var rows []models.GRNModel
	if err := g.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ? AND supplier_id = ?", storeID, supplierID).
		Order("received_date DESC, number DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	grns := make([]*reconciliation.GoodsReceivedNote, len(rows))
	for i := range rows {
		grns[i] = rows[i].ToDomain()
	}
	return grns, nil
}

// GetSale finds a sale with its lines
func (g *GormReferenceDataGateway) GetSale(ctx context.Context, id uuid.UUID) (*reconciliation.SaleTransaction, error) {
	var model models.SaleModel
	if err := g.db.WithContext(ctx).
		Preload("Lines", orderedByLineNo).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Ensure GormReferenceDataGateway implements ReferenceDataGateway
var _ reconciliation.ReferenceDataGateway = (*GormReferenceDataGateway)(nil)
