package trade

import (
	"time"

	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SelectionResponse is the product selection predicate of a customer.
type SelectionResponse struct {
	CustomerID *uuid.UUID  `json:"customer_id"`
	Domain     []any       `json:"domain"`
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// SalesOrderLineInput is one line of a sales order request
type SalesOrderLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	UomID     *uuid.UUID      `json:"uom_id"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Name      string          `json:"name" binding:"max=2000"`
}

// CreateSalesOrderRequest represents a request to create a quotation
type CreateSalesOrderRequest struct {
	CustomerID uuid.UUID             `json:"customer_id" binding:"required"`
	Lines      []SalesOrderLineInput `json:"lines" binding:"omitempty,dive"`
}

// ChangeCustomerRequest changes the customer of a quotation.
type ChangeCustomerRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// SalesOrderLineResponse represents an order line in API responses
type SalesOrderLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	Sequence  int             `json:"sequence"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UomID     uuid.UUID       `json:"uom_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	PriceUnit decimal.Decimal `json:"price_unit"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID          uuid.UUID                `json:"id"`
	TenantID    uuid.UUID                `json:"tenant_id"`
	OrderNumber string                   `json:"order_number"`
	CustomerID  uuid.UUID                `json:"customer_id"`
	CompanyID   *uuid.UUID               `json:"company_id"`
	PricelistID *uuid.UUID               `json:"pricelist_id"`
	RequestID   *uuid.UUID               `json:"request_id"`
	DateOrder   time.Time                `json:"date_order"`
	State       string                   `json:"state"`
	Lines       []SalesOrderLineResponse `json:"lines"`
	AmountTotal decimal.Decimal          `json:"amount_total"`
	ConfirmedAt *time.Time               `json:"confirmed_at"`
	CancelledAt *time.Time               `json:"cancelled_at"`
	Version     int                      `json:"version"`
	// ProductDomain is the selection predicate for new lines.
	ProductDomain []any `json:"product_domain,omitempty"`
}

// SalesOrderListFilter represents filter options for sales order list
type SalesOrderListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	RequestID  *uuid.UUID `form:"request_id"`
	State      string     `form:"state" binding:"omitempty,oneof=draft sale cancel"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSalesOrderResponse converts a domain SalesOrder to SalesOrderResponse
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	lines := make([]SalesOrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = SalesOrderLineResponse{
			ID:        l.ID,
			Sequence:  l.Sequence,
			ProductID: l.ProductID,
			Name:      l.Name,
			UomID:     l.UomID,
			Quantity:  l.Quantity,
			PriceUnit: l.PriceUnit,
			Subtotal:  l.Subtotal,
		}
	}
	return SalesOrderResponse{
		ID:          o.ID,
		TenantID:    o.TenantID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		CompanyID:   o.CompanyID,
		PricelistID: o.PricelistID,
		RequestID:   o.RequestID,
		DateOrder:   o.DateOrder,
		State:       string(o.State),
		Lines:       lines,
		AmountTotal: o.AmountTotal,
		ConfirmedAt: o.ConfirmedAt,
		CancelledAt: o.CancelledAt,
		Version:     o.Version,
	}
}

// CreateSaleOrderRequestRequest opens a sale order request.
type CreateSaleOrderRequestRequest struct {
	CompanyID   *uuid.UUID  `json:"company_id"`
	Filter      string      `json:"filter" binding:"omitempty,oneof=none category product partial previously_sale"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	ProductID   *uuid.UUID  `json:"product_id"`
	PartnerID   *uuid.UUID  `json:"partner_id"`
	CustomerID  *uuid.UUID  `json:"customer_id"`
	PricelistID *uuid.UUID  `json:"pricelist_id"`
	Exclusive   *bool       `json:"exclusive"`
}

// UpdateSaleOrderRequestRequest carries onchange edits. Fields are applied in
// declaration order; a Clear* flag unsets the matching reference.
type UpdateSaleOrderRequestRequest struct {
	Filter         *string     `json:"filter" binding:"omitempty,oneof=none category product partial previously_sale"`
	CompanyID      *uuid.UUID  `json:"company_id"`
	ClearCompany   bool        `json:"clear_company"`
	CategoryIDs    []uuid.UUID `json:"category_ids"`
	ProductID      *uuid.UUID  `json:"product_id"`
	ClearProduct   bool        `json:"clear_product"`
	Exclusive      *bool       `json:"exclusive"`
	PartnerID      *uuid.UUID  `json:"partner_id"`
	ClearPartner   bool        `json:"clear_partner"`
	CustomerID     *uuid.UUID  `json:"customer_id"`
	ClearCustomer  bool        `json:"clear_customer"`
	PricelistID    *uuid.UUID  `json:"pricelist_id"`
	ClearPricelist bool        `json:"clear_pricelist"`
}

// RequestLineInput edits one request line. Without ID a manual line is added.
type RequestLineInput struct {
	ID        *uuid.UUID       `json:"id"`
	ProductID *uuid.UUID       `json:"product_id"`
	UomID     *uuid.UUID       `json:"uom_id"`
	Quantity  *decimal.Decimal `json:"quantity"`
	Delete    bool             `json:"delete"`
}

// UpdateRequestLinesRequest applies line edits in order.
type UpdateRequestLinesRequest struct {
	Lines []RequestLineInput `json:"lines" binding:"required,dive"`
}

// RequestLineResponse represents a request line in API responses
type RequestLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	UomID     uuid.UUID       `json:"uom_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	PartnerID *uuid.UUID      `json:"partner_id"`
	CompanyID *uuid.UUID      `json:"company_id"`
}

// SaleOrderRequestResponse represents a sale order request in API responses
type SaleOrderRequestResponse struct {
	ID          uuid.UUID             `json:"id"`
	TenantID    uuid.UUID             `json:"tenant_id"`
	Date        time.Time             `json:"date"`
	State       string                `json:"state"`
	Filter      string                `json:"filter"`
	CategoryIDs []uuid.UUID           `json:"category_ids"`
	ProductID   *uuid.UUID            `json:"product_id"`
	PartnerID   *uuid.UUID            `json:"partner_id"`
	CustomerID  *uuid.UUID            `json:"customer_id"`
	PricelistID *uuid.UUID            `json:"pricelist_id"`
	CompanyID   *uuid.UUID            `json:"company_id"`
	Exclusive   bool                  `json:"exclusive"`
	TotalQty    decimal.Decimal       `json:"total_qty"`
	OrderID     *uuid.UUID            `json:"order_id"`
	Lines       []RequestLineResponse `json:"lines"`
	Version     int                   `json:"version"`
	// LineProductDomain is the predicate for products picked by hand on lines.
	LineProductDomain []any `json:"line_product_domain"`
}

// ToSaleOrderRequestResponse converts a domain request. lineDomain may be nil.
func ToSaleOrderRequestResponse(r *trade.SaleOrderRequest, lineDomain []any) SaleOrderRequestResponse {
	lines := make([]RequestLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = RequestLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			UomID:     l.UomID,
			Quantity:  l.Quantity,
			PartnerID: l.PartnerID,
			CompanyID: l.CompanyID,
		}
	}
	categories := r.CategoryIDs
	if categories == nil {
		categories = []uuid.UUID{}
	}
	return SaleOrderRequestResponse{
		ID:                r.ID,
		TenantID:          r.TenantID,
		Date:              r.Date,
		State:             string(r.State),
		Filter:            string(r.Filter),
		CategoryIDs:       categories,
		ProductID:         r.ProductID,
		PartnerID:         r.PartnerID,
		CustomerID:        r.CustomerID,
		PricelistID:       r.PricelistID,
		CompanyID:         r.CompanyID,
		Exclusive:         r.Exclusive,
		TotalQty:          r.TotalQty,
		OrderID:           r.OrderID,
		Lines:             lines,
		Version:           r.Version,
		LineProductDomain: lineDomain,
	}
}

// ValidateResponse reports the outcome of a request validation. Order is nil
// when no line had a quantity.
type ValidateResponse struct {
	Request SaleOrderRequestResponse `json:"request"`
	Order   *SalesOrderResponse      `json:"order"`
}

// UomDomainResponse lists the units a request line may use.
type UomDomainResponse struct {
	LineID        uuid.UUID   `json:"line_id"`
	ProductID     uuid.UUID   `json:"product_id"`
	UomID         uuid.UUID   `json:"uom_id"`
	UomCategory   string      `json:"uom_category"`
	AllowedUomIDs []uuid.UUID `json:"allowed_uom_ids"`
}
