package csvimport

import (
	"errors"
	"fmt"
	"io"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/google/uuid"
)

// Exclusivity file columns.
const (
	ColumnProductID  = "product_id"
	ColumnCustomerID = "customer_id"
)

// DefaultMaxRows bounds the number of data rows of one file.
const DefaultMaxRows = 10000

// ReadResult holds the assignments of a file and its row errors.
type ReadResult struct {
	Assignments []catalogapp.ExclusivityAssignment
	TotalRows   int
	Duplicates  int
	Errors      *ErrorCollection
}

// ReadExclusivity parses a product_id,customer_id file. Row level problems
// are collected in the result; file level problems are returned as errors.
// A repeated pair is kept once and counted in Duplicates.
func ReadExclusivity(r io.Reader, maxErrors int, opts ...ParserOption) (*ReadResult, error) {
	parser, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders(ColumnProductID, ColumnCustomerID); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column %q", ErrMissingHeader, missing[0])
	}

	result := &ReadResult{Errors: NewErrorCollection(maxErrors)}
	type pair struct{ product, customer uuid.UUID }
	seen := make(map[pair]struct{})

	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.TotalRows++
			result.Errors.Add(RowError{Row: parser.currentRow, Code: ErrCodeImportMalformedRow, Message: err.Error()})
			continue
		}
		if row.IsEmpty() {
			continue
		}
		result.TotalRows++
		if result.TotalRows > DefaultMaxRows {
			return nil, fmt.Errorf("CSV file has more than %d rows", DefaultMaxRows)
		}

		productID, okProduct := uuidField(row, ColumnProductID, result.Errors)
		customerID, okCustomer := uuidField(row, ColumnCustomerID, result.Errors)
		if !okProduct || !okCustomer {
			continue
		}
		key := pair{productID, customerID}
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		result.Assignments = append(result.Assignments, catalogapp.ExclusivityAssignment{
			Row:        row.LineNumber,
			ProductID:  productID,
			CustomerID: customerID,
		})
	}

	if result.TotalRows == 0 {
		return nil, ErrNoDataRows
	}
	return result, nil
}

func uuidField(row *Row, column string, errs *ErrorCollection) (uuid.UUID, bool) {
	value := row.Get(column)
	if value == "" {
		errs.AddRequiredError(row.LineNumber, column)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil || id == uuid.Nil {
		errs.AddTypeError(row.LineNumber, column, "uuid", value)
		return uuid.Nil, false
	}
	return id, true
}
