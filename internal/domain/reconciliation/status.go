package reconciliation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DocumentStatus is the lifecycle state shared by returns, replacements
// and exchanges.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusPending   DocumentStatus = "PENDING"
	StatusPosted    DocumentStatus = "POSTED"    // terminal, stock effect applied
	StatusCancelled DocumentStatus = "CANCELLED" // terminal, no stock effect
)

// transitions is the complete set of legal status changes. A status absent
// from the map has no outgoing transitions.
var transitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:   {StatusPending, StatusCancelled},
	StatusPending: {StatusPosted, StatusCancelled},
}

// AllStatuses lists every status in lifecycle order
func AllStatuses() []DocumentStatus {
	return []DocumentStatus{StatusDraft, StatusPending, StatusPosted, StatusCancelled}
}

// ParseDocumentStatus converts free text into a DocumentStatus
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	status := DocumentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus.WithMessage("Unknown document status %q", s)
	}
	return status, nil
}

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPosted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further edits or transitions are allowed
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusPosted || s == StatusCancelled
}

// IsEditable reports whether fields and lines may still change
func (s DocumentStatus) IsEditable() bool {
	return s == StatusDraft || s == StatusPending
}

// CanTransitionTo checks if the status can transition to the target status
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition validates a move to target. Leaving a terminal state is a
// DOCUMENT_IMMUTABLE error, any other undefined move is INVALID_STATE_TRANSITION.
func (s DocumentStatus) Transition(target DocumentStatus) error {
	if s.IsTerminal() {
		return ErrDocumentImmutable.
			WithMessage("Document is %s and can no longer change", s).
			WithDetail("status", s.String())
	}
	if !s.CanTransitionTo(target) {
		return ErrInvalidStateTransition.
			WithMessage("Cannot move document from %s to %s", s, target).
			WithDetail("from", s.String()).
			WithDetail("to", target.String())
	}
	return nil
}

// DocumentType names one of the three reconciliation documents
type DocumentType string

const (
	DocumentTypeReturn      DocumentType = "RETURN"
	DocumentTypeReplacement DocumentType = "REPLACEMENT"
	DocumentTypeExchange    DocumentType = "EXCHANGE"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeReturn, DocumentTypeReplacement, DocumentTypeExchange:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// DocumentRef addresses a document of any type
type DocumentRef struct {
	Type DocumentType
	ID   uuid.UUID
}

// ReturnRef builds a reference to a return document
func ReturnRef(id uuid.UUID) DocumentRef {
	return DocumentRef{Type: DocumentTypeReturn, ID: id}
}

// ReplacementRef builds a reference to a replacement document
func ReplacementRef(id uuid.UUID) DocumentRef {
	return DocumentRef{Type: DocumentTypeReplacement, ID: id}
}

// ExchangeRef builds a reference to an exchange document
func ExchangeRef(id uuid.UUID) DocumentRef {
	return DocumentRef{Type: DocumentTypeExchange, ID: id}
}

func (r DocumentRef) String() string {
	return fmt.Sprintf("%s/%s", r.Type, r.ID)
}
