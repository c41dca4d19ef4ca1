package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeImportMalformedRow  = "ERR_IMPORT_MALFORMED_ROW"
	ErrCodeImportRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType   = "ERR_IMPORT_INVALID_TYPE"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file must be UTF-8 encoded")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
)

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportRequiredField,
		Message: fmt.Sprintf("field '%s' is required", column)})
}

func (ec *ErrorCollection) AddTypeError(row int, column, expectedType, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportInvalidType,
		Message: fmt.Sprintf("expected %s", expectedType), Value: value})
}

// Errors returns the kept errors, never nil.
func (ec *ErrorCollection) Errors() []RowError {
	if ec.errors == nil {
		return []RowError{}
	}
	return ec.errors
}

// TotalCount includes errors dropped past the limit.
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
