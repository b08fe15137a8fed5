package persistence

import (
	"context"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleLedgerRepository writes sale_lines.exchanged_quantity. The rest of
// the sale is owned by the point-of-sale service.
type GormSaleLedgerRepository struct {
	db *gorm.DB
}

// NewGormSaleLedgerRepository creates a new GormSaleLedgerRepository
func NewGormSaleLedgerRepository(db *gorm.DB) *GormSaleLedgerRepository {
	return &GormSaleLedgerRepository{db: db}
}

// FindSaleForUpdate loads a sale and locks its lines
func (r *GormSaleLedgerRepository) FindSaleForUpdate(ctx context.Context, saleID uuid.UUID) (*reconciliation.SaleTransaction, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return forUpdate(db).Order("line_no ASC")
		}).
		First(&model, "id = ?", saleID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// IncrementExchangedQuantity adds qty to a sale line's exchanged quantity
// while it stays within the sold quantity
func (r *GormSaleLedgerRepository) IncrementExchangedQuantity(ctx context.Context, saleLineID uuid.UUID, qty decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.SaleLineModel{}).
		Where("id = ? AND exchanged_quantity + ? <= quantity", saleLineID, qty).
		Update("exchanged_quantity", gorm.Expr("exchanged_quantity + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reconciliation.ErrConservationViolation.
			WithDetail("sale_line_id", saleLineID.String()).
			WithDetail("quantity", qty.String())
	}
	return nil
}

// Ensure GormSaleLedgerRepository implements SaleLedgerRepository
var _ reconciliation.SaleLedgerRepository = (*GormSaleLedgerRepository)(nil)
