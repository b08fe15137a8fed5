package dto

import (
	"net/http"

	"github.com/erp/reconciliation/internal/domain/shared"
)

// Transport error codes. Domain errors keep their own codes
// (CONSERVATION_VIOLATION, INSUFFICIENT_BATCH_STOCK, ...) in responses.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
	ErrCodeTokenExpired    = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "ERR_TOKEN_INVALID"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps transport error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for a transport error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorKindHTTPStatus maps domain error kinds to HTTP status codes
var ErrorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusUnprocessableEntity,
	shared.KindConservation: http.StatusConflict,
	shared.KindStock:        http.StatusConflict,
	shared.KindImmutable:    http.StatusConflict,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindConflict:     http.StatusConflict,
}

// codeHTTPStatus overrides the kind mapping for individual codes
var codeHTTPStatus = map[string]int{
	"BATCH_NOT_FOUND": http.StatusNotFound,
}

// DomainHTTPStatus returns the HTTP status code for a domain error
func DomainHTTPStatus(err *shared.DomainError) int {
	if status, ok := codeHTTPStatus[err.Code]; ok {
		return status
	}
	if status, ok := ErrorKindHTTPStatus[err.Kind]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
