package reconciliation

import (
	"github.com/erp/reconciliation/internal/domain/shared"
)

// Validation errors are user-correctable and never retried.
var (
	ErrInvalidQuantity         = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrQuantityExceedsPending  = shared.NewDomainError("QUANTITY_EXCEEDS_PENDING", "Quantity exceeds the pending quantity")
	ErrMissingField            = shared.NewDomainError("MISSING_FIELD", "A required field is missing")
	ErrDuplicateLine           = shared.NewDomainError("DUPLICATE_LINE", "The same product and batch appear on more than one line")
	ErrInvalidRate             = shared.NewDomainError("INVALID_RATE", "Rate must be greater than zero")
	ErrInvalidPrice            = shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	ErrFutureDate              = shared.NewDomainError("FUTURE_DATE", "Document date cannot be in the future")
	ErrExceedsReceivedQuantity = shared.NewDomainError("EXCEEDS_RECEIVED_QUANTITY", "Return quantity exceeds the quantity received on the goods-received note")
	ErrExceedsSoldQuantity     = shared.NewDomainError("EXCEEDS_SOLD_QUANTITY", "Exchange quantity exceeds the quantity still exchangeable on the sale line")
	ErrNoLines                 = shared.NewDomainError("NO_LINES", "Document has no eligible lines")
	ErrIneligibleSource        = shared.NewDomainError("INELIGIBLE_SOURCE", "Source document cannot seed this document")
	ErrUnknownLine             = shared.NewDomainError("UNKNOWN_LINE", "Line does not belong to the source document")
	ErrInvalidReason           = shared.NewDomainError("INVALID_REASON", "Unknown return reason")
	ErrInvalidStatus           = shared.NewDomainError("INVALID_STATUS", "Unknown document status")
	ErrInvalidStateTransition  = shared.NewDomainError("INVALID_STATE_TRANSITION", "Status change is not allowed")
)

// ErrConservationViolation means the quantity committed across in-flight
// and posted documents would exceed the originating quantity.
var ErrConservationViolation = shared.NewKindError(
	shared.KindConservation,
	"CONSERVATION_VIOLATION",
	"Committed quantity would exceed the returned quantity",
)

// ErrLineStockChanged means a return line that replacements already draw
// on was pointed at another product or batch.
var ErrLineStockChanged = shared.NewKindError(
	shared.KindConservation,
	"LINE_STOCK_CHANGED",
	"Product and batch of a line with replacements cannot change",
)

// ErrDocumentImmutable is raised on any change to a Posted or Cancelled document.
var ErrDocumentImmutable = shared.NewKindError(
	shared.KindImmutable,
	"DOCUMENT_IMMUTABLE",
	"Document can no longer be changed",
)

// DetailViolations holds every violation found while validating a document.
const DetailViolations = "violations"

// Violation is one broken rule, as reported to the caller.
type Violation struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Line    int            `json:"line,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Violations collects every broken rule of a document so all of them can
// be shown at once. The first one becomes the headline error.
type Violations struct {
	errs  []*shared.DomainError
	lines []int
}

// Add records a document-level violation
func (v *Violations) Add(err *shared.DomainError) {
	v.errs = append(v.errs, err)
	v.lines = append(v.lines, 0)
}

// AddLine records a violation on a 1-based line number
func (v *Violations) AddLine(line int, err *shared.DomainError) {
	v.errs = append(v.errs, err)
	v.lines = append(v.lines, line)
}

// Empty reports whether nothing was recorded
func (v *Violations) Empty() bool {
	return len(v.errs) == 0
}

// Err returns nil when no rule was broken, otherwise the first violation
// with the full list attached under DetailViolations.
func (v *Violations) Err() error {
	if v.Empty() {
		return nil
	}
	list := make([]Violation, len(v.errs))
	for i, e := range v.errs {
		list[i] = Violation{Code: e.Code, Message: e.Message, Line: v.lines[i], Details: e.Details}
	}
	return v.errs[0].WithDetail(DetailViolations, list)
}
