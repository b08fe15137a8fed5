package persistence

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentTable describes the columns the three document tables differ in
type documentTable struct {
	prefix     string
	dateColumn string
	sortable   []string
}

// sortColumns every document table can be ordered by
var sortColumns = []string{"id", "created_at", "updated_at", "document_number", "status", "store_id", "posted_at"}

var (
	returnTable = documentTable{
		prefix:     "RT",
		dateColumn: "return_date",
		sortable:   []string{"return_date", "supplier_id"},
	}
	replacementTable = documentTable{
		prefix:     "RP",
		dateColumn: "replacement_date",
		sortable:   []string{"replacement_date", "return_id", "supplier_id"},
	}
	exchangeTable = documentTable{
		prefix:     "EX",
		dateColumn: "exchange_date",
		sortable:   []string{"exchange_date", "sale_id"},
	}
)

// orderBy whitelists the requested column and direction. Anything unknown
// falls back to newest first.
func (t documentTable) orderBy(column, dir string) clause.OrderByColumn {
	column = strings.TrimSpace(column)
	if !slices.Contains(sortColumns, column) && !slices.Contains(t.sortable, column) {
		column = "created_at"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(dir), "ASC"),
	}
}

// notFound maps gorm's record-not-found to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// forUpdate locks the selected rows until the surrounding transaction ends
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// nextDocumentNumber generates the next number for the year of at.
// Format: <PREFIX>-YYYY-NNNNN (e.g., RT-2026-00001)
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model any, table documentTable, at time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", table.prefix, at.Year())

	var last string
	err := db.WithContext(ctx).
		Model(model).
		Where("document_number LIKE ?", prefix+"%").
		Order("document_number DESC").
		Limit(1).
		Pluck("document_number", &last).Error
	if err != nil {
		return "", err
	}

	var nextNum int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyDocumentFilter applies the document filter without pagination
func applyDocumentFilter(query *gorm.DB, filter reconciliation.DocumentFilter, table documentTable) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(document_number) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.ReturnID != nil {
		query = query.Where("return_id = ?", *filter.ReturnID)
	}
	if filter.SaleID != nil {
		query = query.Where("sale_id = ?", *filter.SaleID)
	}
	if filter.DateFrom != nil {
		query = query.Where(table.dateColumn+" >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where(table.dateColumn+" <= ?", *filter.DateTo)
	}
	return query
}

// applyPaging applies pagination and whitelisted ordering
func applyPaging(query *gorm.DB, filter shared.Filter, table documentTable) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query.Order(table.orderBy(filter.OrderBy, filter.OrderDir))
}

// findDocuments runs a filtered count and page query into dest
func findDocuments(ctx context.Context, db *gorm.DB, model any, dest any, filter reconciliation.DocumentFilter, table documentTable, preloads ...string) (int64, error) {
	var total int64
	if err := applyDocumentFilter(db.WithContext(ctx).Model(model), filter, table).
		Count(&total).Error; err != nil {
		return 0, err
	}

	query := applyPaging(applyDocumentFilter(db.WithContext(ctx).Model(model), filter, table), filter.Filter, table)
	for _, p := range preloads {
		query = query.Preload(p, orderedByLineNo)
	}
	if err := query.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func orderedByLineNo(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// updateWithVersion checks the stored version of an aggregate, bumps it and
// writes the given columns in one conditional update
func updateWithVersion(tx *gorm.DB, model any, root *shared.BaseAggregateRoot, updates map[string]any) error {
	var currentVersion int
	result := tx.Model(model).
		Where("id = ?", root.ID).
		Select("version").
		Scan(&currentVersion)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if currentVersion != root.Version {
		return shared.ErrConcurrencyConflict.WithDetail("document_id", root.ID.String())
	}

	root.IncrementVersion()
	updates["version"] = root.Version
	updates["updated_at"] = root.UpdatedAt

	result = tx.Model(model).
		Where("id = ? AND version = ?", root.ID, currentVersion).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithDetail("document_id", root.ID.String())
	}
	return nil
}

// deleteLinesNotIn removes child rows of parentID whose ids are not kept
func deleteLinesNotIn(tx *gorm.DB, model any, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(model).Error
}
