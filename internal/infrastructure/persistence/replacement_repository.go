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

// GormReplacementRepository implements ReplacementRepository using GORM
type GormReplacementRepository struct {
	db *gorm.DB
}

// NewGormReplacementRepository creates a new GormReplacementRepository
func NewGormReplacementRepository(db *gorm.DB) *GormReplacementRepository {
	return &GormReplacementRepository{db: db}
}

// FindByID finds a replacement by its ID
func (r *GormReplacementRepository) FindByID(ctx context.Context, id uuid.UUID) (*reconciliation.ReplacementDocument, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate finds a replacement and locks its row
func (r *GormReplacementRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reconciliation.ReplacementDocument, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormReplacementRepository) find(db *gorm.DB, id uuid.UUID) (*reconciliation.ReplacementDocument, error) {
	var model models.ReplacementDocumentModel
	if err := db.
		Preload("Lines", orderedByLineNo).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists replacements matching the filter
func (r *GormReplacementRepository) FindAll(ctx context.Context, filter reconciliation.DocumentFilter) ([]*reconciliation.ReplacementDocument, int64, error) {
	var rows []models.ReplacementDocumentModel
	total, err := findDocuments(ctx, r.db, &models.ReplacementDocumentModel{}, &rows, filter, replacementTable, "Lines")
	if err != nil {
		return nil, 0, err
	}

	docs := make([]*reconciliation.ReplacementDocument, len(rows))
	for i := range rows {
		docs[i] = rows[i].ToDomain()
	}
	return docs, total, nil
}

// inFlightRow is the scan target of FindInFlightCommitments
type inFlightRow struct {
	DocumentID     uuid.UUID
	DocumentNumber string
	ReturnLineID   uuid.UUID
	Quantity       decimal.Decimal
}

// FindInFlightCommitments returns line quantities of Draft and Pending
// replacements against the return, except those of excludeID
func (r *GormReplacementRepository) FindInFlightCommitments(ctx context.Context, returnID, excludeID uuid.UUID) ([]reconciliation.InFlightCommitment, error) {
	var rows []inFlightRow
	err := r.db.WithContext(ctx).
		Table("supplier_replacement_lines AS l").
		Select("d.id AS document_id, d.document_number AS document_number, l.return_line_id AS return_line_id, l.quantity AS quantity").
		Joins("JOIN supplier_replacements AS d ON d.id = l.replacement_id").
		Where("d.return_id = ? AND d.id <> ?", returnID, excludeID).
		Where("d.status IN ?", []reconciliation.DocumentStatus{reconciliation.StatusDraft, reconciliation.StatusPending}).
		Order("d.document_number ASC, l.line_no ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	commitments := make([]reconciliation.InFlightCommitment, len(rows))
	for i, row := range rows {
		commitments[i] = reconciliation.InFlightCommitment{
			DocumentID:     row.DocumentID,
			DocumentNumber: row.DocumentNumber,
			ReturnLineID:   row.ReturnLineID,
			Quantity:       row.Quantity,
		}
	}
	return commitments, nil
}

// Create inserts a new replacement with its lines
func (r *GormReplacementRepository) Create(ctx context.Context, doc *reconciliation.ReplacementDocument) error {
	model := models.ReplacementDocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReplacementRepository) SaveWithLock(ctx context.Context, doc *reconciliation.ReplacementDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := models.LifecycleColumnsFromDomain(doc.Lifecycle).Updates()
		updates["return_id"] = doc.ReturnID
		updates["supplier_id"] = doc.SupplierID
		updates["store_id"] = doc.StoreID
		updates["replacement_date"] = doc.ReplacementDate
		updates["remark"] = doc.Remark
		if err := updateWithVersion(tx, &models.ReplacementDocumentModel{}, &doc.BaseAggregateRoot, updates); err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, len(doc.Lines))
		for i, line := range doc.Lines {
			lineIDs[i] = line.ID
		}
		if err := deleteLinesNotIn(tx, &models.ReplacementLineModel{}, "replacement_id", doc.ID, lineIDs); err != nil {
			return err
		}

		for i := range doc.Lines {
			line := models.ReplacementLineModelFromDomain(doc.ID, &doc.Lines[i], i)
			if err := tx.Save(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextDocumentNumber generates the next RP-YYYY-NNNNN number
func (r *GormReplacementRepository) NextDocumentNumber(ctx context.Context, at time.Time) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.ReplacementDocumentModel{}, replacementTable, at)
}

// Ensure GormReplacementRepository implements ReplacementRepository
var _ reconciliation.ReplacementRepository = (*GormReplacementRepository)(nil)
