package models

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnDocumentModel is the persistence model for the ReturnDocument aggregate root
type ReturnDocumentModel struct {
	AggregateModel
	LifecycleColumns `gorm:"embedded"`
	DocumentNumber   string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	StoreID          uuid.UUID         `gorm:"type:uuid;not null;index:idx_return_store_supplier,priority:1"`
	SupplierID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_return_store_supplier,priority:2"`
	SourceGRNID      *uuid.UUID        `gorm:"type:uuid;index"`
	ReturnDate       time.Time         `gorm:"type:date;not null"`
	Remark           string            `gorm:"type:text"`
	Lines            []ReturnLineModel `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (ReturnDocumentModel) TableName() string {
	return "supplier_returns"
}

// ToDomain converts the persistence model to a domain ReturnDocument
func (m *ReturnDocumentModel) ToDomain() *reconciliation.ReturnDocument {
	r := &reconciliation.ReturnDocument{
		BaseAggregateRoot: m.aggregate(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		DocumentNumber:    m.DocumentNumber,
		StoreID:           m.StoreID,
		SupplierID:        m.SupplierID,
		SourceGRNID:       m.SourceGRNID,
		ReturnDate:        m.ReturnDate,
		Remark:            m.Remark,
		Lines:             make([]reconciliation.ReturnLineItem, len(m.Lines)),
	}
	for i := range m.Lines {
		r.Lines[i] = m.Lines[i].ToDomain()
	}
	return r
}

// ReturnDocumentModelFromDomain creates a persistence model from a domain ReturnDocument
func ReturnDocumentModelFromDomain(r *reconciliation.ReturnDocument) *ReturnDocumentModel {
	m := &ReturnDocumentModel{
		LifecycleColumns: LifecycleColumnsFromDomain(r.Lifecycle),
		DocumentNumber:   r.DocumentNumber,
		StoreID:          r.StoreID,
		SupplierID:       r.SupplierID,
		SourceGRNID:      r.SourceGRNID,
		ReturnDate:       r.ReturnDate,
		Remark:           r.Remark,
		Lines:            make([]ReturnLineModel, len(r.Lines)),
	}
	m.setAggregate(r.BaseAggregateRoot)
	for i := range r.Lines {
		m.Lines[i] = ReturnLineModelFromDomain(r.ID, &r.Lines[i], i)
	}
	return m
}

// ReturnLineModel is the persistence model for a return line
type ReturnLineModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID                uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo                  int             `gorm:"not null"`
	ProductID               uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName             string          `gorm:"type:varchar(200)"`
	BatchID                 uuid.UUID       `gorm:"type:uuid;not null"`
	BatchNumber             string          `gorm:"type:varchar(50)"`
	ExpiryDate              *time.Time      `gorm:"type:date"`
	ReturnQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AlreadyReplacedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourceGRNLineID         *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ReturnLineModel) TableName() string {
	return "supplier_return_lines"
}

// ToDomain converts the persistence model to a domain ReturnLineItem
func (m *ReturnLineModel) ToDomain() reconciliation.ReturnLineItem {
	return reconciliation.ReturnLineItem{
		ID:                      m.ID,
		ReturnID:                m.ReturnID,
		ProductID:               m.ProductID,
		ProductName:             m.ProductName,
		BatchID:                 m.BatchID,
		BatchNumber:             m.BatchNumber,
		ExpiryDate:              m.ExpiryDate,
		ReturnQuantity:          m.ReturnQuantity,
		AlreadyReplacedQuantity: m.AlreadyReplacedQuantity,
		CostPrice:               m.CostPrice,
		SourceGRNLineID:         m.SourceGRNLineID,
	}
}

// ReturnLineModelFromDomain creates a persistence model for a return line
func ReturnLineModelFromDomain(returnID uuid.UUID, l *reconciliation.ReturnLineItem, lineNo int) ReturnLineModel {
	return ReturnLineModel{
		ID:                      l.ID,
		ReturnID:                returnID,
		LineNo:                  lineNo,
		ProductID:               l.ProductID,
		ProductName:             l.ProductName,
		BatchID:                 l.BatchID,
		BatchNumber:             l.BatchNumber,
		ExpiryDate:              l.ExpiryDate,
		ReturnQuantity:          l.ReturnQuantity,
		AlreadyReplacedQuantity: l.AlreadyReplacedQuantity,
		CostPrice:               l.CostPrice,
		SourceGRNLineID:         l.SourceGRNLineID,
	}
}

// ReplacementDocumentModel is the persistence model for the ReplacementDocument aggregate root
type ReplacementDocumentModel struct {
	AggregateModel
	LifecycleColumns `gorm:"embedded"`
	DocumentNumber   string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ReturnID         uuid.UUID              `gorm:"type:uuid;not null;index"`
	SupplierID       uuid.UUID              `gorm:"type:uuid;not null"`
	StoreID          uuid.UUID              `gorm:"type:uuid;not null"`
	ReplacementDate  time.Time              `gorm:"type:date;not null"`
	Remark           string                 `gorm:"type:text"`
	Lines            []ReplacementLineModel `gorm:"foreignKey:ReplacementID;references:ID"`
}

// TableName returns the table name for GORM
func (ReplacementDocumentModel) TableName() string {
	return "supplier_replacements"
}

// ToDomain converts the persistence model to a domain ReplacementDocument
func (m *ReplacementDocumentModel) ToDomain() *reconciliation.ReplacementDocument {
	r := &reconciliation.ReplacementDocument{
		BaseAggregateRoot: m.aggregate(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		DocumentNumber:    m.DocumentNumber,
		ReturnID:          m.ReturnID,
		SupplierID:        m.SupplierID,
		StoreID:           m.StoreID,
		ReplacementDate:   m.ReplacementDate,
		Remark:            m.Remark,
		Lines:             make([]reconciliation.ReplacementLineItem, len(m.Lines)),
	}
	for i := range m.Lines {
		r.Lines[i] = m.Lines[i].ToDomain()
	}
	return r
}

// ReplacementDocumentModelFromDomain creates a persistence model from a domain ReplacementDocument
func ReplacementDocumentModelFromDomain(r *reconciliation.ReplacementDocument) *ReplacementDocumentModel {
	m := &ReplacementDocumentModel{
		LifecycleColumns: LifecycleColumnsFromDomain(r.Lifecycle),
		DocumentNumber:   r.DocumentNumber,
		ReturnID:         r.ReturnID,
		SupplierID:       r.SupplierID,
		StoreID:          r.StoreID,
		ReplacementDate:  r.ReplacementDate,
		Remark:           r.Remark,
		Lines:            make([]ReplacementLineModel, len(r.Lines)),
	}
	m.setAggregate(r.BaseAggregateRoot)
	for i := range r.Lines {
		m.Lines[i] = ReplacementLineModelFromDomain(r.ID, &r.Lines[i], i)
	}
	return m
}

// ReplacementLineModel is the persistence model for a replacement line.
// ReturnQuantity and AlreadyReplacedQuantity are the snapshot taken when
// the line was selected.
type ReplacementLineModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReplacementID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo                  int             `gorm:"not null"`
	ReturnLineID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID               uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID                 uuid.UUID       `gorm:"type:uuid;not null"`
	ReturnQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AlreadyReplacedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReplacementLineModel) TableName() string {
	return "supplier_replacement_lines"
}

// ToDomain converts the persistence model to a domain ReplacementLineItem
func (m *ReplacementLineModel) ToDomain() reconciliation.ReplacementLineItem {
	return reconciliation.ReplacementLineItem{
		ID:                      m.ID,
		ReplacementID:           m.ReplacementID,
		ReturnLineID:            m.ReturnLineID,
		ProductID:               m.ProductID,
		BatchID:                 m.BatchID,
		ReturnQuantity:          m.ReturnQuantity,
		AlreadyReplacedQuantity: m.AlreadyReplacedQuantity,
		Quantity:                m.Quantity,
		Rate:                    m.Rate,
	}
}

// ReplacementLineModelFromDomain creates a persistence model for a replacement line
func ReplacementLineModelFromDomain(replacementID uuid.UUID, l *reconciliation.ReplacementLineItem, lineNo int) ReplacementLineModel {
	return ReplacementLineModel{
		ID:                      l.ID,
		ReplacementID:           replacementID,
		LineNo:                  lineNo,
		ReturnLineID:            l.ReturnLineID,
		ProductID:               l.ProductID,
		BatchID:                 l.BatchID,
		ReturnQuantity:          l.ReturnQuantity,
		AlreadyReplacedQuantity: l.AlreadyReplacedQuantity,
		Quantity:                l.Quantity,
		Rate:                    l.Rate,
	}
}

// ExchangeDocumentModel is the persistence model for the ExchangeDocument aggregate root
type ExchangeDocumentModel struct {
	AggregateModel
	LifecycleColumns `gorm:"embedded"`
	DocumentNumber   string                    `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleID           uuid.UUID                 `gorm:"type:uuid;not null;index"`
	StoreID          uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ExchangeDate     time.Time                 `gorm:"type:date;not null"`
	Remark           string                    `gorm:"type:text"`
	ReturnItems      []ExchangeReturnItemModel `gorm:"foreignKey:ExchangeID;references:ID"`
	NewItems         []ExchangeNewItemModel    `gorm:"foreignKey:ExchangeID;references:ID"`
}

// TableName returns the table name for GORM
func (ExchangeDocumentModel) TableName() string {
	return "customer_exchanges"
}

// ToDomain converts the persistence model to a domain ExchangeDocument
func (m *ExchangeDocumentModel) ToDomain() *reconciliation.ExchangeDocument {
	e := &reconciliation.ExchangeDocument{
		BaseAggregateRoot: m.aggregate(),
		Lifecycle:         m.LifecycleColumns.ToDomain(),
		DocumentNumber:    m.DocumentNumber,
		SaleID:            m.SaleID,
		StoreID:           m.StoreID,
		ExchangeDate:      m.ExchangeDate,
		Remark:            m.Remark,
		ReturnItems:       make([]reconciliation.ExchangeReturnItem, len(m.ReturnItems)),
		NewItems:          make([]reconciliation.ExchangeNewItem, len(m.NewItems)),
	}
	for i := range m.ReturnItems {
		e.ReturnItems[i] = m.ReturnItems[i].ToDomain()
	}
	for i := range m.NewItems {
		e.NewItems[i] = m.NewItems[i].ToDomain()
	}
	return e
}

// ExchangeDocumentModelFromDomain creates a persistence model from a domain ExchangeDocument
func ExchangeDocumentModelFromDomain(e *reconciliation.ExchangeDocument) *ExchangeDocumentModel {
	m := &ExchangeDocumentModel{
		LifecycleColumns: LifecycleColumnsFromDomain(e.Lifecycle),
		DocumentNumber:   e.DocumentNumber,
		SaleID:           e.SaleID,
		StoreID:          e.StoreID,
		ExchangeDate:     e.ExchangeDate,
		Remark:           e.Remark,
		ReturnItems:      make([]ExchangeReturnItemModel, len(e.ReturnItems)),
		NewItems:         make([]ExchangeNewItemModel, len(e.NewItems)),
	}
	m.setAggregate(e.BaseAggregateRoot)
	for i := range e.ReturnItems {
		m.ReturnItems[i] = ExchangeReturnItemModelFromDomain(e.ID, &e.ReturnItems[i], i)
	}
	for i := range e.NewItems {
		m.NewItems[i] = ExchangeNewItemModelFromDomain(e.ID, &e.NewItems[i], i)
	}
	return m
}

// ExchangeReturnItemModel is the persistence model for an item brought back
type ExchangeReturnItemModel struct {
	ID                       uuid.UUID                   `gorm:"type:uuid;primary_key"`
	ExchangeID               uuid.UUID                   `gorm:"type:uuid;not null;index"`
	LineNo                   int                         `gorm:"not null"`
	SaleLineID               uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ProductID                uuid.UUID                   `gorm:"type:uuid;not null"`
	BatchID                  uuid.UUID                   `gorm:"type:uuid;not null"`
	OriginalQuantity         decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	AlreadyExchangedQuantity decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	ReturnQuantity           decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	UnitPrice                decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	Reason                   reconciliation.ReturnReason `gorm:"type:varchar(30);not null"`
}

// TableName returns the table name for GORM
func (ExchangeReturnItemModel) TableName() string {
	return "customer_exchange_return_items"
}

// ToDomain converts the persistence model to a domain ExchangeReturnItem
func (m *ExchangeReturnItemModel) ToDomain() reconciliation.ExchangeReturnItem {
	return reconciliation.ExchangeReturnItem{
		ID:                       m.ID,
		ExchangeID:               m.ExchangeID,
		SaleLineID:               m.SaleLineID,
		ProductID:                m.ProductID,
		BatchID:                  m.BatchID,
		OriginalQuantity:         m.OriginalQuantity,
		AlreadyExchangedQuantity: m.AlreadyExchangedQuantity,
		ReturnQuantity:           m.ReturnQuantity,
		UnitPrice:                m.UnitPrice,
		Reason:                   m.Reason,
	}
}

// ExchangeReturnItemModelFromDomain creates a persistence model for a returned item
func ExchangeReturnItemModelFromDomain(exchangeID uuid.UUID, i *reconciliation.ExchangeReturnItem, lineNo int) ExchangeReturnItemModel {
	return ExchangeReturnItemModel{
		ID:                       i.ID,
		ExchangeID:               exchangeID,
		LineNo:                   lineNo,
		SaleLineID:               i.SaleLineID,
		ProductID:                i.ProductID,
		BatchID:                  i.BatchID,
		OriginalQuantity:         i.OriginalQuantity,
		AlreadyExchangedQuantity: i.AlreadyExchangedQuantity,
		ReturnQuantity:           i.ReturnQuantity,
		UnitPrice:                i.UnitPrice,
		Reason:                   i.Reason,
	}
}

// ExchangeNewItemModel is the persistence model for an item taken in exchange
type ExchangeNewItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	ExchangeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo     int             `gorm:"not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ExchangeNewItemModel) TableName() string {
	return "customer_exchange_new_items"
}

// ToDomain converts the persistence model to a domain ExchangeNewItem
func (m *ExchangeNewItemModel) ToDomain() reconciliation.ExchangeNewItem {
	return reconciliation.ExchangeNewItem{
		ID:         m.ID,
		ExchangeID: m.ExchangeID,
		ProductID:  m.ProductID,
		BatchID:    m.BatchID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
	}
}

// ExchangeNewItemModelFromDomain creates a persistence model for a new item
func ExchangeNewItemModelFromDomain(exchangeID uuid.UUID, i *reconciliation.ExchangeNewItem, lineNo int) ExchangeNewItemModel {
	return ExchangeNewItemModel{
		ID:         i.ID,
		ExchangeID: exchangeID,
		LineNo:     lineNo,
		ProductID:  i.ProductID,
		BatchID:    i.BatchID,
		Quantity:   i.Quantity,
		UnitPrice:  i.UnitPrice,
	}
}

// ExchangeAllocationModel stores one informational allocation row
type ExchangeAllocationModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ExchangeID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RowNo           int             `gorm:"not null"`
	ReturnItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	NewItemID       uuid.UUID       `gorm:"type:uuid;not null"`
	Share           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DifferenceShare decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ExchangeAllocationModel) TableName() string {
	return "customer_exchange_allocations"
}

// ToDomain converts the persistence model to a domain ExchangeAllocation
func (m *ExchangeAllocationModel) ToDomain() reconciliation.ExchangeAllocation {
	return reconciliation.ExchangeAllocation{
		ReturnItemID:    m.ReturnItemID,
		NewItemID:       m.NewItemID,
		Share:           m.Share,
		ReturnAmount:    m.ReturnAmount,
		NewAmount:       m.NewAmount,
		DifferenceShare: m.DifferenceShare,
	}
}

// ExchangeAllocationModelFromDomain creates a persistence model for an allocation row
func ExchangeAllocationModelFromDomain(exchangeID uuid.UUID, a reconciliation.ExchangeAllocation, rowNo int) ExchangeAllocationModel {
	return ExchangeAllocationModel{
		ID:              uuid.New(),
		ExchangeID:      exchangeID,
		RowNo:           rowNo,
		ReturnItemID:    a.ReturnItemID,
		NewItemID:       a.NewItemID,
		Share:           a.Share,
		ReturnAmount:    a.ReturnAmount,
		NewAmount:       a.NewAmount,
		DifferenceShare: a.DifferenceShare,
	}
}

// PostingRecordModel marks a posted document. The document id is the
// primary key so a second insert for the same document fails.
type PostingRecordModel struct {
	DocumentID     uuid.UUID                   `gorm:"type:uuid;primary_key"`
	DocumentType   reconciliation.DocumentType `gorm:"type:varchar(20);not null"`
	DocumentNumber string                      `gorm:"type:varchar(50);not null"`
	PostedBy       *uuid.UUID                  `gorm:"type:uuid"`
	PostedAt       time.Time                   `gorm:"not null"`
	MovementCount  int                         `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PostingRecordModel) TableName() string {
	return "posting_records"
}

// ToDomain converts the persistence model to a domain PostingRecord
func (m *PostingRecordModel) ToDomain() *reconciliation.PostingRecord {
	return &reconciliation.PostingRecord{
		DocumentID:     m.DocumentID,
		DocumentType:   m.DocumentType,
		DocumentNumber: m.DocumentNumber,
		PostedBy:       m.PostedBy,
		PostedAt:       m.PostedAt,
		MovementCount:  m.MovementCount,
	}
}

// PostingRecordModelFromDomain creates a persistence model from a domain PostingRecord
func PostingRecordModelFromDomain(rec *reconciliation.PostingRecord) *PostingRecordModel {
	return &PostingRecordModel{
		DocumentID:     rec.DocumentID,
		DocumentType:   rec.DocumentType,
		DocumentNumber: rec.DocumentNumber,
		PostedBy:       rec.PostedBy,
		PostedAt:       rec.PostedAt,
		MovementCount:  rec.MovementCount,
	}
}
