package models

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
)

// LifecycleColumns are the status columns shared by every document table
type LifecycleColumns struct {
	Status       reconciliation.DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SubmittedAt  *time.Time
	PostedAt     *time.Time `gorm:"index"`
	PostedBy     *uuid.UUID `gorm:"type:uuid"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// ToDomain converts the columns to a domain Lifecycle
func (c LifecycleColumns) ToDomain() reconciliation.Lifecycle {
	return reconciliation.Lifecycle{
		Status:       c.Status,
		SubmittedAt:  c.SubmittedAt,
		PostedAt:     c.PostedAt,
		PostedBy:     c.PostedBy,
		CancelledAt:  c.CancelledAt,
		CancelReason: c.CancelReason,
	}
}

// LifecycleColumnsFromDomain copies a domain Lifecycle into columns
func LifecycleColumnsFromDomain(l reconciliation.Lifecycle) LifecycleColumns {
	return LifecycleColumns{
		Status:       l.Status,
		SubmittedAt:  l.SubmittedAt,
		PostedAt:     l.PostedAt,
		PostedBy:     l.PostedBy,
		CancelledAt:  l.CancelledAt,
		CancelReason: l.CancelReason,
	}
}

// Updates returns the lifecycle columns as an update map
func (c LifecycleColumns) Updates() map[string]any {
	return map[string]any{
		"status":        c.Status,
		"submitted_at":  c.SubmittedAt,
		"posted_at":     c.PostedAt,
		"posted_by":     c.PostedBy,
		"cancelled_at":  c.CancelledAt,
		"cancel_reason": c.CancelReason,
	}
}
