package dto

import (
	"net/http"
	"strings"
)

// General error codes used by the HTTP layer itself. Domain error codes
// come through as-is from shared.DomainError.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Input problems map to 400, missing resources to 404, duplicates and
// version conflicts to 409, and business rule violations to 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	"NOT_FOUND":            http.StatusNotFound,
	"ALLOCATION_NOT_FOUND": http.StatusNotFound,
	"EMPLOYEE_NOT_IN_RUN":  http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"ALREADY_CONVERTED":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_ALLOCATION": http.StatusConflict,
	"DUPLICATE_EMPLOYEE":   http.StatusConflict,
	"DUPLICATE_PERIOD":     http.StatusConflict,

	"EMPTY_DOCUMENT": http.StatusBadRequest,

	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_BALANCE": http.StatusUnprocessableEntity,
	"OVER_ALLOCATION":      http.StatusUnprocessableEntity,
	"CUSTOMER_MISMATCH":    http.StatusUnprocessableEntity,
	"CURRENCY_MISMATCH":    http.StatusUnprocessableEntity,
	"ITEM_INACTIVE":        http.StatusUnprocessableEntity,
	"ACCOUNT_INACTIVE":     http.StatusUnprocessableEntity,
	"EMPLOYEE_INACTIVE":    http.StatusUnprocessableEntity,
	"ACCOUNT_NOT_EMPTY":    http.StatusUnprocessableEntity,
	"QUOTE_EXPIRED":        http.StatusUnprocessableEntity,
	"STOCK_NOT_TRACKED":    http.StatusUnprocessableEntity,
	"EMPTY_RUN":            http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// INVALID_* codes not listed explicitly are treated as bad input;
// anything else unknown is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
