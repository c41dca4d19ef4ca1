package persistence

import (
	"strings"

	"github.com/erp/ecocare/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"list_price":   true,
	"status":       true,
	"exclusive_ok": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"email":      true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"date_order":   true,
	"state":        true,
	"amount_total": true,
}

// orderClause builds a whitelisted ORDER BY clause from a list filter.
func orderClause(filter shared.Filter, allowed map[string]bool, defaultField, defaultDir string) string {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := defaultDir
	if filter.OrderDir != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	return field + " " + dir
}

// paginate applies the filter's page window when both page fields are set.
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
