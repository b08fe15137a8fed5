package persistence

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPostingRecordRepository implements PostingRecordRepository using GORM
type GormPostingRecordRepository struct {
	db *gorm.DB
}

// NewGormPostingRecordRepository creates a new GormPostingRecordRepository
func NewGormPostingRecordRepository(db *gorm.DB) *GormPostingRecordRepository {
	return &GormPostingRecordRepository{db: db}
}

// Create inserts the posting record. A record for the same document makes
// the insert a no-op and returns ErrAlreadyPosted.
func (r *GormPostingRecordRepository) Create(ctx context.Context, rec *reconciliation.PostingRecord) error {
	model := models.PostingRecordModelFromDomain(rec)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "document_id"}}, DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reconciliation.ErrAlreadyPosted.
			WithDetail("document_id", rec.DocumentID.String()).
			WithDetail("document_number", rec.DocumentNumber)
	}
	return nil
}

// FindByDocument finds the posting record of a document
func (r *GormPostingRecordRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) (*reconciliation.PostingRecord, error) {
	var model models.PostingRecordModel
	if err := r.db.WithContext(ctx).First(&model, "document_id = ?", documentID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// Ensure GormPostingRecordRepository implements PostingRecordRepository
var _ reconciliation.PostingRecordRepository = (*GormPostingRecordRepository)(nil)
