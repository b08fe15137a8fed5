package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle holds the status and the timestamps of each transition. It is
// embedded by every document aggregate.
type Lifecycle struct {
	Status       DocumentStatus
	SubmittedAt  *time.Time
	PostedAt     *time.Time
	PostedBy     *uuid.UUID
	CancelledAt  *time.Time
	CancelReason string
}

func newLifecycle() Lifecycle {
	return Lifecycle{Status: StatusDraft}
}

// EnsureEditable fails with DOCUMENT_IMMUTABLE once the document is
// Posted or Cancelled.
func (l *Lifecycle) EnsureEditable() error {
	if !l.Status.IsEditable() {
		return ErrDocumentImmutable.
			WithMessage("Document is %s and can no longer be edited", l.Status).
			WithDetail("status", l.Status.String())
	}
	return nil
}

// IsDraft returns true if the document is in draft status
func (l *Lifecycle) IsDraft() bool {
	return l.Status == StatusDraft
}

// IsPending returns true if the document is waiting to be posted
func (l *Lifecycle) IsPending() bool {
	return l.Status == StatusPending
}

// IsPosted returns true if the document has been posted
func (l *Lifecycle) IsPosted() bool {
	return l.Status == StatusPosted
}

// IsCancelled returns true if the document was cancelled
func (l *Lifecycle) IsCancelled() bool {
	return l.Status == StatusCancelled
}

func (l *Lifecycle) submit(now time.Time) error {
	if err := l.Status.Transition(StatusPending); err != nil {
		return err
	}
	l.Status = StatusPending
	l.SubmittedAt = &now
	return nil
}

func (l *Lifecycle) post(postedBy *uuid.UUID, now time.Time) error {
	if err := l.Status.Transition(StatusPosted); err != nil {
		return err
	}
	l.Status = StatusPosted
	l.PostedAt = &now
	l.PostedBy = postedBy
	return nil
}

func (l *Lifecycle) cancel(reason string, now time.Time) error {
	if err := l.Status.Transition(StatusCancelled); err != nil {
		return err
	}
	l.Status = StatusCancelled
	l.CancelledAt = &now
	l.CancelReason = reason
	return nil
}
