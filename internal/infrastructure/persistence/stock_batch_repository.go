package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockBatchRepository implements StockBatchRepository using GORM
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByID finds a stock batch by its ID
func (r *GormStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var model models.StockBatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.NewBatchNotFoundError(id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several batches keyed by id
func (r *GormStockBatchRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.StockBatch, error) {
	batches := make(map[uuid.UUID]*inventory.StockBatch, len(ids))
	if len(ids) == 0 {
		return batches, nil
	}

	var rows []models.StockBatchModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		batches[rows[i].ID] = rows[i].ToDomain()
	}
	return batches, nil
}

// Increase adds quantity in one statement and returns the updated batch
func (r *GormStockBatchRepository) Increase(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*inventory.StockBatch, error) {
	if !quantity.IsPositive() {
		return nil, inventory.ErrInvalidMovementQuantity
	}

	result := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, inventory.NewBatchNotFoundError(id)
	}
	return r.FindByID(ctx, id)
}

// Decrease subtracts quantity only while the batch covers it
func (r *GormStockBatchRepository) Decrease(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*inventory.StockBatch, error) {
	if !quantity.IsPositive() {
		return nil, inventory.ErrInvalidMovementQuantity
	}

	result := r.db.WithContext(ctx).
		Model(&models.StockBatchModel{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		batch, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, inventory.NewInsufficientBatchStockError(batch.ID, batch.BatchNumber, quantity, batch.Quantity)
	}
	return r.FindByID(ctx, id)
}

// Save creates or updates a stock batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	model := models.StockBatchModelFromDomain(batch)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormStockBatchRepository implements StockBatchRepository
var _ inventory.StockBatchRepository = (*GormStockBatchRepository)(nil)
