package dto

import (
	"net/http"
	"strings"
)

// Error code constants. Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
	ErrCodeBusinessRule  = "ERR_BUSINESS_RULE"
	ErrCodeMaxDepth      = "ERR_MAX_DEPTH_EXCEEDED"
	ErrCodeNoItems       = "ERR_NO_ITEMS"
	ErrCodeAlreadyActive = "ERR_ALREADY_ACTIVE"
)

// Sales extension error codes. These keep the domain code so API clients can
// match on the same value the domain raises.
const (
	ErrCodeCustomerRequired     = "CUSTOMER_REQUIRED"
	ErrCodeProductNotSelectable = "PRODUCT_NOT_SELECTABLE"
	ErrCodeUomCategoryMismatch  = "UOM_CATEGORY_MISMATCH"
	ErrCodeImportRejected       = "IMPORT_REJECTED"
	ErrCodeImportInvalidFile    = "ERR_IMPORT_INVALID_FILE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:  http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:  http.StatusUnprocessableEntity,
	ErrCodeMaxDepth:      http.StatusUnprocessableEntity,
	ErrCodeNoItems:       http.StatusUnprocessableEntity,
	ErrCodeAlreadyActive: http.StatusUnprocessableEntity,

	ErrCodeCustomerRequired:     http.StatusUnprocessableEntity,
	ErrCodeProductNotSelectable: http.StatusUnprocessableEntity,
	ErrCodeUomCategoryMismatch:  http.StatusUnprocessableEntity,
	ErrCodeImportRejected:       http.StatusUnprocessableEntity,
	ErrCodeImportInvalidFile:    http.StatusBadRequest,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unmapped
// INVALID_* codes are input errors; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONFLICT":             ErrCodeConflict,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"MAX_DEPTH_EXCEEDED":   ErrCodeMaxDepth,
	"NO_ITEMS":             ErrCodeNoItems,
	"ALREADY_ACTIVE":       ErrCodeAlreadyActive,
	"ALREADY_INACTIVE":     ErrCodeAlreadyActive,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes without a mapping are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
