package models

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference tables are owned by the master-data and point-of-sale
// services. This module reads them and writes only sale_lines.exchanged_quantity.

// StoreModel maps the stores table
type StoreModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"type:varchar(50);not null"`
	Name string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the model to a domain Store
func (m *StoreModel) ToDomain() *reconciliation.Store {
	return &reconciliation.Store{ID: m.ID, Code: m.Code, Name: m.Name}
}

// SupplierModel maps the suppliers table
type SupplierModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"type:varchar(50);not null"`
	Name string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier
func (m *SupplierModel) ToDomain() *reconciliation.Supplier {
	return &reconciliation.Supplier{ID: m.ID, Code: m.Code, Name: m.Name}
}

// ProductModel maps the products table
type ProductModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Code string    `gorm:"type:varchar(50);not null"`
	Name string    `gorm:"type:varchar(200);not null"`
	Unit string    `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *reconciliation.Product {
	return &reconciliation.Product{ID: m.ID, Code: m.Code, Name: m.Name, Unit: m.Unit}
}

// GRNModel maps the goods_received_notes table
type GRNModel struct {
	ID           uuid.UUID                `gorm:"type:uuid;primary_key"`
	Number       string                   `gorm:"type:varchar(50);not null"`
	StoreID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_grn_store_supplier,priority:1"`
	SupplierID   uuid.UUID                `gorm:"type:uuid;not null;index:idx_grn_store_supplier,priority:2"`
	Status       reconciliation.GRNStatus `gorm:"type:varchar(20);not null"`
	ReceivedDate time.Time                `gorm:"type:date;not null"`
	Lines        []GRNLineModel           `gorm:"foreignKey:GRNID;references:ID"`
}

// TableName returns the table name for GORM
func (GRNModel) TableName() string {
	return "goods_received_notes"
}

// ToDomain converts the model to a domain GoodsReceivedNote
func (m *GRNModel) ToDomain() *reconciliation.GoodsReceivedNote {
	g := &reconciliation.GoodsReceivedNote{
		ID:           m.ID,
		Number:       m.Number,
		StoreID:      m.StoreID,
		SupplierID:   m.SupplierID,
		Status:       m.Status,
		ReceivedDate: m.ReceivedDate,
		Lines:        make([]reconciliation.GRNLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		g.Lines[i] = reconciliation.GRNLine{
			ID:               l.ID,
			ProductID:        l.ProductID,
			BatchID:          l.BatchID,
			BatchNumber:      l.BatchNumber,
			ReceivedQuantity: l.ReceivedQuantity,
			CostPrice:        l.CostPrice,
		}
	}
	return g
}

// GRNLineModel maps the goods_received_note_lines table
type GRNLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	GRNID            uuid.UUID       `gorm:"column:grn_id;type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID          uuid.UUID       `gorm:"type:uuid;not null"`
	BatchNumber      string          `gorm:"type:varchar(50)"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (GRNLineModel) TableName() string {
	return "goods_received_note_lines"
}

// SaleModel maps the sales table
type SaleModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	Number   string          `gorm:"type:varchar(50);not null"`
	StoreID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleDate time.Time       `gorm:"not null"`
	Lines    []SaleLineModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model to a domain SaleTransaction
func (m *SaleModel) ToDomain() *reconciliation.SaleTransaction {
	s := &reconciliation.SaleTransaction{
		ID:       m.ID,
		Number:   m.Number,
		StoreID:  m.StoreID,
		SaleDate: m.SaleDate,
		Lines:    make([]reconciliation.SaleLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		s.Lines[i] = reconciliation.SaleLine{
			ID:                       l.ID,
			SaleID:                   l.SaleID,
			ProductID:                l.ProductID,
			BatchID:                  l.BatchID,
			OriginalQuantity:         l.Quantity,
			AlreadyExchangedQuantity: l.ExchangedQuantity,
			UnitPrice:                l.UnitPrice,
		}
	}
	return s
}

// SaleLineModel maps the sale_lines table
type SaleLineModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo            int             `gorm:"not null"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID           uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExchangedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLineModel) TableName() string {
	return "sale_lines"
}
