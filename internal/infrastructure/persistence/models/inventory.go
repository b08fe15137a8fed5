package models

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatchModel is the persistence model for a stock batch.
// Quantity is only changed through single-statement increments.
type StockBatchModel struct {
	BaseModel
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_batch_store_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_batch_store_product,priority:2"`
	BatchNumber string          `gorm:"type:varchar(50);not null"`
	ExpiryDate  *time.Time      `gorm:"type:date"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Version     int             `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (StockBatchModel) TableName() string {
	return "stock_batches"
}

// ToDomain converts the persistence model to a domain StockBatch
func (m *StockBatchModel) ToDomain() *inventory.StockBatch {
	return &inventory.StockBatch{
		BaseEntity:  m.BaseModel.entity(),
		StoreID:     m.StoreID,
		ProductID:   m.ProductID,
		BatchNumber: m.BatchNumber,
		ExpiryDate:  m.ExpiryDate,
		Quantity:    m.Quantity,
		CostPrice:   m.CostPrice,
		Version:     m.Version,
	}
}

// StockBatchModelFromDomain creates a persistence model from a domain StockBatch
func StockBatchModelFromDomain(b *inventory.StockBatch) *StockBatchModel {
	m := &StockBatchModel{
		StoreID:     b.StoreID,
		ProductID:   b.ProductID,
		BatchNumber: b.BatchNumber,
		ExpiryDate:  b.ExpiryDate,
		Quantity:    b.Quantity,
		CostPrice:   b.CostPrice,
		Version:     b.Version,
	}
	m.setEntity(b.BaseEntity)
	return m
}

// StockMovementModel is one append-only stock journal entry
type StockMovementModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key"`
	DocumentID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	DocumentType  string                 `gorm:"type:varchar(20);not null"`
	DocumentLine  uuid.UUID              `gorm:"type:uuid;not null"`
	BatchID       uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID              `gorm:"type:uuid;not null"`
	Kind          inventory.MovementKind `gorm:"type:varchar(30);not null"`
	Delta         decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	QuantityAfter decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		ID:            m.ID,
		DocumentID:    m.DocumentID,
		DocumentType:  m.DocumentType,
		DocumentLine:  m.DocumentLine,
		BatchID:       m.BatchID,
		ProductID:     m.ProductID,
		Kind:          m.Kind,
		Delta:         m.Delta,
		QuantityAfter: m.QuantityAfter,
		CreatedAt:     m.CreatedAt,
	}
}

// StockMovementModelFromDomain creates a persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *inventory.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            mv.ID,
		DocumentID:    mv.DocumentID,
		DocumentType:  mv.DocumentType,
		DocumentLine:  mv.DocumentLine,
		BatchID:       mv.BatchID,
		ProductID:     mv.ProductID,
		Kind:          mv.Kind,
		Delta:         mv.Delta,
		QuantityAfter: mv.QuantityAfter,
		CreatedAt:     mv.CreatedAt,
	}
}
