package persistence

import (
	"context"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.ReturnDocument, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a return and locks its row
func (r *GormReturnRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ReturnDocument, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormReturnRepository) find(db *gorm.DB, id uuid.UUID) (*reconciliation.ReturnDocument, error) {
	var model models.ReturnDocumentModel
	if err := db.
		Preload("Lines", orderedByLineNo).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindLine finds a single return line
func (r *GormReturnRepository) FindLine(ctx context.Context, lineID uuid.UUID) (*reconciliation.ReturnLineItem, error) {
	var model models.ReturnLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", lineID).Error; err != nil {
		return nil, notFound(err)
	}
	line := model.ToDomain()
	return &line, nil
}

// FindAll lists returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter reconciliation.DocumentFilter) ([]*reconciliation.ReturnDocument, int64, error) {
	var rows []models.ReturnDocumentModel
	total, err := findDocuments(ctx, r.db, &models.ReturnDocumentModel{}, &rows, filter, returnTable, "Lines")
	if err != nil {
		return nil, 0, err
	}

	returns := make([]*reconciliation.ReturnDocument, len(rows))
	for i := range rows {
		returns[i] = rows[i].ToDomain()
	}
	return returns, total, nil
}

// FindByStatuses lists returns for a store and supplier in any of the statuses
func (r *GormReturnRepository) FindByStatuses(ctx context.Context, storeID, supplierID *uuid.UUID, statuses ...reconciliation.DocumentStatus) ([]*reconciliation.ReturnDocument, error) {
	query := r.db.WithContext(ctx).Preload("Lines", orderedByLineNo)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var rows []models.ReturnDocumentModel
	if err := query.Order("return_date DESC, document_number DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	returns := make([]*reconciliation.ReturnDocument, len(rows))
	for i := range rows {
		returns[i] = rows[i].ToDomain()
	}
	return returns, nil
}

// Create inserts a new return with its lines
func (r *GormReturnRepository) Create(ctx context.Context, doc *reconciliation.ReturnDocument) error {
	model := models.ReturnDocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock saves with optimistic locking (version check).
// AlreadyReplacedQuantity is never written here; it only moves through
// IncrementReplacedQuantity.
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, doc *reconciliation.ReturnDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := models.LifecycleColumnsFromDomain(doc.Lifecycle).Updates()
		updates["store_id"] = doc.StoreID
		updates["supplier_id"] = doc.SupplierID
		updates["source_grn_id"] = doc.SourceGRNID
		updates["return_date"] = doc.ReturnDate
		updates["remark"] = doc.Remark
		if err := updateWithVersion(tx, &models.ReturnDocumentModel{}, &doc.BaseAggregateRoot, updates); err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, len(doc.Lines))
		for i, line := range doc.Lines {
			lineIDs[i] = line.ID
		}
		if err := deleteLinesNotIn(tx, &models.ReturnLineModel{}, "return_id", doc.ID, lineIDs); err != nil {
			return err
		}

		for i := range doc.Lines {
			line := models.ReturnLineModelFromDomain(doc.ID, &doc.Lines[i], i)
			if err := tx.Omit("already_replaced_quantity").Save(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// IncrementReplacedQuantity adds qty to a line's replaced quantity while it
// stays within the return quantity
func (r *GormReturnRepository) IncrementReplacedQuantity(ctx context.Context, lineID uuid.UUID, qty decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnLineModel{}).
		Where("id = ? AND already_replaced_quantity + ? <= return_quantity", lineID, qty).
		Update("already_replaced_quantity", gorm.Expr("already_replaced_quantity + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reconciliation.ErrConservationViolation.
			WithDetail("return_line_id", lineID.String()).
			WithDetail("quantity", qty.String())
	}
	return nil
}

// NextDocumentNumber generates the next RT-YYYY-NNNNN number
func (r *GormReturnRepository) NextDocumentNumber(ctx context.Context, at time.Time) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.ReturnDocumentModel{}, returnTable, at)
}

// Ensure GormReturnRepository implements ReturnRepository
var _ reconciliation.ReturnRepository = (*GormReturnRepository)(nil)
