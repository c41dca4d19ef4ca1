package partner

import (
	"time"

	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Email       string     `json:"email" binding:"omitempty,email,max=200"`
	Phone       string     `json:"phone" binding:"omitempty,max=50"`
	CompanyID   *uuid.UUID `json:"company_id"`
	PricelistID *uuid.UUID `json:"pricelist_id"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Email       *string    `json:"email" binding:"omitempty,max=200"`
	Phone       *string    `json:"phone" binding:"omitempty,max=50"`
	CompanyID   *uuid.UUID `json:"company_id"`
	PricelistID *uuid.UUID `json:"pricelist_id"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                  uuid.UUID   `json:"id"`
	TenantID            uuid.UUID   `json:"tenant_id"`
	Code                string      `json:"code"`
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone"`
	CompanyID           *uuid.UUID  `json:"company_id"`
	PricelistID         *uuid.UUID  `json:"pricelist_id"`
	ExclusiveProductIDs []uuid.UUID `json:"exclusive_product_ids"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
	Version             int         `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search      string     `form:"search"`
	CompanyID   *uuid.UUID `form:"company_id"`
	PricelistID *uuid.UUID `form:"pricelist_id"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	exclusive := c.ExclusiveProductIDs
	if exclusive == nil {
		exclusive = []uuid.UUID{}
	}
	return CustomerResponse{
		ID:                  c.ID,
		TenantID:            c.TenantID,
		Code:                c.Code,
		Name:                c.Name,
		Email:               c.Email,
		Phone:               c.Phone,
		CompanyID:           c.CompanyID,
		PricelistID:         c.PricelistID,
		ExclusiveProductIDs: exclusive,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Version:             c.Version,
	}
}

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Code               string     `json:"code" binding:"required,min=1,max=50"`
	Name               string     `json:"name" binding:"required,min=1,max=200"`
	ParentID           *uuid.UUID `json:"parent_id"`
	DefaultPricelistID *uuid.UUID `json:"default_pricelist_id"`
}

// SetDefaultPricelistRequest sets or clears the company default pricelist.
type SetDefaultPricelistRequest struct {
	PricelistID *uuid.UUID `json:"pricelist_id"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	ParentID           *uuid.UUID `json:"parent_id"`
	Level              int        `json:"level"`
	DefaultPricelistID *uuid.UUID `json:"default_pricelist_id"`
}

func ToCompanyResponse(c *partner.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Code:               c.Code,
		Name:               c.Name,
		ParentID:           c.ParentID,
		Level:              c.Level,
		DefaultPricelistID: c.DefaultPricelistID,
	}
}
