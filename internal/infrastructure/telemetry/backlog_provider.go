package telemetry

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// documentTables maps each document type to its header table
var documentTables = map[string]string{
	"RETURN":      "supplier_returns",
	"REPLACEMENT": "supplier_replacements",
	"EXCHANGE":    "customer_exchanges",
}

// GormBacklogProvider implements BacklogProvider with aggregate queries on
// the document header tables.
type GormBacklogProvider struct {
	db *gorm.DB
}

// NewGormBacklogProvider creates a new GormBacklogProvider.
func NewGormBacklogProvider(db *gorm.DB) *GormBacklogProvider {
	return &GormBacklogProvider{db: db}
}

// OpenDocumentCounts returns DRAFT and PENDING counts per document type.
// Types with no open documents report zero so the gauge drops back.
func (p *GormBacklogProvider) OpenDocumentCounts(ctx context.Context) (map[string]map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	out := make(map[string]map[string]int64, len(documentTables))
	for docType, table := range documentTables {
		byStatus := map[string]int64{"DRAFT": 0, "PENDING": 0}

		var rows []row
		err := p.db.WithContext(ctx).
			Table(table).
			Select("status, COUNT(*) AS count").
			Where("status IN ?", []string{"DRAFT", "PENDING"}).
			Group("status").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("count open %s documents: %w", docType, err)
		}
		for _, r := range rows {
			byStatus[r.Status] = r.Count
		}
		out[docType] = byStatus
	}
	return out, nil
}
