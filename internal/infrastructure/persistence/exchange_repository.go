package persistence

import (
	"context"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExchangeRepository implements ExchangeRepository using GORM
type GormExchangeRepository struct {
	db *gorm.DB
}

// NewGormExchangeRepository creates a new GormExchangeRepository
func NewGormExchangeRepository(db *gorm.DB) *GormExchangeRepository {
	return &GormExchangeRepository{db: db}
}

// FindByID finds an exchange by its ID
func (r *GormExchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.ExchangeDocument, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds an exchange and locks its row
func (r *GormExchangeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ExchangeDocument, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormExchangeRepository) find(db *gorm.DB, id uuid.UUID) (*reconciliation.ExchangeDocument, error) {
	var model models.ExchangeDocumentModel
	if err := db.
		Preload("ReturnItems", orderedByLineNo).
		Preload("NewItems", orderedByLineNo).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists exchanges matching the filter
func (r *GormExchangeRepository) FindAll(ctx context.Context, filter reconciliation.DocumentFilter) ([]*reconciliation.ExchangeDocument, int64, error) {
	var rows []models.ExchangeDocumentModel
	total, err := findDocuments(ctx, r.db, &models.ExchangeDocumentModel{}, &rows, filter, exchangeTable, "ReturnItems", "NewItems")
	if err != nil {
		return nil, 0, err
	}

	docs := make([]*reconciliation.ExchangeDocument, len(rows))
	for i := range rows {
		docs[i] = rows[i].ToDomain()
	}
	return docs, total, nil
}

// Create inserts a new exchange with its items
func (r *GormExchangeRepository) Create(ctx context.Context, doc *reconciliation.ExchangeDocument) error {
	model := models.ExchangeDocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormExchangeRepository) SaveWithLock(ctx context.Context, doc *reconciliation.ExchangeDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := models.LifecycleColumnsFromDomain(doc.Lifecycle).Updates()
		updates["sale_id"] = doc.SaleID
		updates["store_id"] = doc.StoreID
		updates["exchange_date"] = doc.ExchangeDate
		updates["remark"] = doc.Remark
		if err := updateWithVersion(tx, &models.ExchangeDocumentModel{}, &doc.BaseAggregateRoot, updates); err != nil {
			return err
		}

		returnIDs := make([]uuid.UUID, len(doc.ReturnItems))
		for i, item := range doc.ReturnItems {
			returnIDs[i] = item.ID
		}
		if err := deleteLinesNotIn(tx, &models.ExchangeReturnItemModel{}, "exchange_id", doc.ID, returnIDs); err != nil {
			return err
		}
		for i := range doc.ReturnItems {
			item := models.ExchangeReturnItemModelFromDomain(doc.ID, &doc.ReturnItems[i], i)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		newIDs := make([]uuid.UUID, len(doc.NewItems))
		for i, item := range doc.NewItems {
			newIDs[i] = item.ID
		}
		if err := deleteLinesNotIn(tx, &models.ExchangeNewItemModel{}, "exchange_id", doc.ID, newIDs); err != nil {
			return err
		}
		for i := range doc.NewItems {
			item := models.ExchangeNewItemModelFromDomain(doc.ID, &doc.NewItems[i], i)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveAllocations replaces the allocation rows of an exchange
func (r *GormExchangeRepository) SaveAllocations(ctx context.Context, exchangeID uuid.UUID, rows []reconciliation.ExchangeAllocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exchange_id = ?", exchangeID).
			Delete(&models.ExchangeAllocationModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		allocations := make([]models.ExchangeAllocationModel, len(rows))
		for i, row := range rows {
			allocations[i] = models.ExchangeAllocationModelFromDomain(exchangeID, row, i)
		}
		return tx.Create(&allocations).Error
	})
}

// FindAllocations returns the allocation rows of an exchange in stored order
func (r *GormExchangeRepository) FindAllocations(ctx context.Context, exchangeID uuid.UUID) ([]reconciliation.ExchangeAllocation, error) {
	var rows []models.ExchangeAllocationModel
	if err := r.db.WithContext(ctx).
		Where("exchange_id = ?", exchangeID).
		Order("row_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	allocations := make([]reconciliation.ExchangeAllocation, len(rows))
	for i := range rows {
		allocations[i] = rows[i].ToDomain()
	}
	return allocations, nil
}

// NextDocumentNumber generates the next EX-YYYY-NNNNN number
func (r *GormExchangeRepository) NextDocumentNumber(ctx context.Context, at time.Time) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.ExchangeDocumentModel{}, exchangeTable, at)
}

// Ensure GormExchangeRepository implements ExchangeRepository
var _ reconciliation.ExchangeRepository = (*GormExchangeRepository)(nil)
