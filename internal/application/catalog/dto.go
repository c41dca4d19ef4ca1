package catalog

import (
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code                string           `json:"code" binding:"required,min=1,max=50"`
	Name                string           `json:"name" binding:"required,min=1,max=200"`
	Description         string           `json:"description" binding:"max=2000"`
	SaleDescription     string           `json:"sale_description" binding:"max=2000"`
	CategoryID          *uuid.UUID       `json:"category_id"`
	CompanyID           *uuid.UUID       `json:"company_id"`
	UomID               uuid.UUID        `json:"uom_id" binding:"required"`
	ListPrice           *decimal.Decimal `json:"list_price"`
	SaleOk              *bool            `json:"sale_ok"`
	Subunits            int              `json:"subunits" binding:"min=0"`
	ExclusivePartnerIDs []uuid.UUID      `json:"exclusive_partner_ids"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" binding:"omitempty,max=2000"`
	SaleDescription *string          `json:"sale_description" binding:"omitempty,max=2000"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	CompanyID       *uuid.UUID       `json:"company_id"`
	UomID           *uuid.UUID       `json:"uom_id"`
	ListPrice       *decimal.Decimal `json:"list_price"`
	SaleOk          *bool            `json:"sale_ok"`
	Subunits        *int             `json:"subunits" binding:"omitempty,min=0"`
}

// ReferencePriceResponse is one stored reference price of a product.
type ReferencePriceResponse struct {
	PricelistID uuid.UUID       `json:"pricelist_id"`
	Price       decimal.Decimal `json:"price"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                  uuid.UUID                `json:"id"`
	TenantID            uuid.UUID                `json:"tenant_id"`
	Code                string                   `json:"code"`
	Name                string                   `json:"name"`
	DisplayName         string                   `json:"display_name"`
	Description         string                   `json:"description"`
	SaleDescription     string                   `json:"sale_description"`
	CategoryID          *uuid.UUID               `json:"category_id"`
	CompanyID           *uuid.UUID               `json:"company_id"`
	UomID               uuid.UUID                `json:"uom_id"`
	ListPrice           decimal.Decimal          `json:"list_price"`
	SaleOk              bool                     `json:"sale_ok"`
	Subunits            int                      `json:"subunits"`
	Status              string                   `json:"status"`
	ExclusiveOk         bool                     `json:"exclusive_ok"`
	ExclusivePartnerIDs []uuid.UUID              `json:"exclusive_partner_ids"`
	ReferencePrices     []ReferencePriceResponse `json:"reference_prices"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
	Version             int                      `json:"version"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search             string     `form:"search"`
	Status             string     `form:"status" binding:"omitempty,oneof=active inactive"`
	CategoryID         *uuid.UUID `form:"category_id"`
	SaleOk             *bool      `form:"sale_ok"`
	ExclusiveOk        *bool      `form:"exclusive_ok"`
	ExclusivePartnerID *uuid.UUID `form:"exclusive_partner_id"`
	Page               int        `form:"page" binding:"omitempty,min=1"`
	PageSize           int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy            string     `form:"order_by"`
	OrderDir           string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SetExclusivePartnersRequest replaces the customers allowed to buy a product.
type SetExclusivePartnersRequest struct {
	PartnerIDs []uuid.UUID `json:"partner_ids"`
}

// SetExclusiveProductsRequest replaces the exclusive products allowed to a customer.
type SetExclusiveProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// ExclusiveProductsResponse is the customer side of the exclusivity relation.
type ExclusiveProductsResponse struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	Added      []uuid.UUID `json:"added"`
	Removed    []uuid.UUID `json:"removed"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	partners := p.ExclusivePartnerIDs
	if partners == nil {
		partners = []uuid.UUID{}
	}
	refs := make([]ReferencePriceResponse, len(p.ReferencePrices))
	for i, rp := range p.ReferencePrices {
		refs[i] = ReferencePriceResponse{PricelistID: rp.PricelistID, Price: rp.Price, ComputedAt: rp.ComputedAt}
	}
	return ProductResponse{
		ID:                  p.ID,
		TenantID:            p.TenantID,
		Code:                p.Code,
		Name:                p.Name,
		DisplayName:         p.DisplayName(),
		Description:         p.Description,
		SaleDescription:     p.SaleDescription,
		CategoryID:          p.CategoryID,
		CompanyID:           p.CompanyID,
		UomID:               p.UomID,
		ListPrice:           p.ListPrice,
		SaleOk:              p.SaleOk,
		Subunits:            p.Subunits,
		Status:              string(p.Status),
		ExclusiveOk:         p.ExclusiveOk,
		ExclusivePartnerIDs: partners,
		ReferencePrices:     refs,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Version:             p.Version,
	}
}

// ToProductResponses converts a slice of products.
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code     string     `json:"code" binding:"required,min=1,max=50"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Path      string     `json:"path"`
	Level     int        `json:"level"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		ParentID:  c.ParentID,
		Path:      c.Path.String(),
		Level:     c.Level,
		CreatedAt: c.CreatedAt,
	}
}

// CreateUomRequest represents a request to create a unit of measure
type CreateUomRequest struct {
	Name     string           `json:"name" binding:"required,min=1,max=50"`
	Category string           `json:"category" binding:"required,min=1,max=50"`
	Factor   decimal.Decimal  `json:"factor" binding:"required"`
	Rounding *decimal.Decimal `json:"rounding"`
}

// UomResponse represents a unit of measure in API responses
type UomResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Factor   decimal.Decimal `json:"factor"`
	Rounding decimal.Decimal `json:"rounding"`
}

func ToUomResponse(u *catalog.UnitOfMeasure) UomResponse {
	return UomResponse{ID: u.ID, Name: u.Name, Category: u.Category, Factor: u.Factor, Rounding: u.Rounding}
}

// CreatePricelistRequest represents a request to create a pricelist
type CreatePricelistRequest struct {
	Name      string                 `json:"name" binding:"required,min=1,max=100"`
	CompanyID *uuid.UUID             `json:"company_id"`
	Sequence  *int                   `json:"sequence"`
	Items     []PricelistItemRequest `json:"items" binding:"omitempty,dive"`
}

// PricelistItemRequest is one pricing rule.
type PricelistItemRequest struct {
	AppliedOn    string           `json:"applied_on" binding:"required,oneof=product category global"`
	ProductID    *uuid.UUID       `json:"product_id"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	MinQuantity  *decimal.Decimal `json:"min_quantity"`
	DateStart    *time.Time       `json:"date_start"`
	DateEnd      *time.Time       `json:"date_end"`
	Compute      string           `json:"compute" binding:"required,oneof=fixed percentage formula"`
	FixedPrice   *decimal.Decimal `json:"fixed_price"`
	PercentPrice *decimal.Decimal `json:"percent_price"`
	Discount     *decimal.Decimal `json:"discount"`
	Surcharge    *decimal.Decimal `json:"surcharge"`
	Rounding     *decimal.Decimal `json:"rounding"`
	MinMargin    *decimal.Decimal `json:"min_margin"`
	MaxMargin    *decimal.Decimal `json:"max_margin"`
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ToDomain converts the request into a pricelist rule.
func (r PricelistItemRequest) ToDomain() catalog.PricelistItem {
	return catalog.PricelistItem{
		AppliedOn:    catalog.AppliedOn(r.AppliedOn),
		ProductID:    r.ProductID,
		CategoryID:   r.CategoryID,
		MinQuantity:  orZero(r.MinQuantity),
		DateStart:    r.DateStart,
		DateEnd:      r.DateEnd,
		Compute:      catalog.ComputeMode(r.Compute),
		FixedPrice:   orZero(r.FixedPrice),
		PercentPrice: orZero(r.PercentPrice),
		Discount:     orZero(r.Discount),
		Surcharge:    orZero(r.Surcharge),
		Rounding:     orZero(r.Rounding),
		MinMargin:    orZero(r.MinMargin),
		MaxMargin:    orZero(r.MaxMargin),
	}
}

// PricelistItemResponse represents a pricing rule in API responses
type PricelistItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	AppliedOn    string          `json:"applied_on"`
	ProductID    *uuid.UUID      `json:"product_id"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	DateStart    *time.Time      `json:"date_start"`
	DateEnd      *time.Time      `json:"date_end"`
	Compute      string          `json:"compute"`
	FixedPrice   decimal.Decimal `json:"fixed_price"`
	PercentPrice decimal.Decimal `json:"percent_price"`
	Discount     decimal.Decimal `json:"discount"`
	Surcharge    decimal.Decimal `json:"surcharge"`
	Rounding     decimal.Decimal `json:"rounding"`
	MinMargin    decimal.Decimal `json:"min_margin"`
	MaxMargin    decimal.Decimal `json:"max_margin"`
}

// PricelistResponse represents a pricelist in API responses
type PricelistResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	CompanyID *uuid.UUID              `json:"company_id"`
	Sequence  int                     `json:"sequence"`
	Items     []PricelistItemResponse `json:"items"`
	Version   int                     `json:"version"`
}

func ToPricelistResponse(p *catalog.Pricelist) PricelistResponse {
	items := make([]PricelistItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = PricelistItemResponse{
			ID:           it.ID,
			AppliedOn:    string(it.AppliedOn),
			ProductID:    it.ProductID,
			CategoryID:   it.CategoryID,
			MinQuantity:  it.MinQuantity,
			DateStart:    it.DateStart,
			DateEnd:      it.DateEnd,
			Compute:      string(it.Compute),
			FixedPrice:   it.FixedPrice,
			PercentPrice: it.PercentPrice,
			Discount:     it.Discount,
			Surcharge:    it.Surcharge,
			Rounding:     it.Rounding,
			MinMargin:    it.MinMargin,
			MaxMargin:    it.MaxMargin,
		}
	}
	return PricelistResponse{
		ID:        p.ID,
		Name:      p.Name,
		CompanyID: p.CompanyID,
		Sequence:  p.Sequence,
		Items:     items,
		Version:   p.Version,
	}
}

// RefreshReferencePricesResponse reports a reference price rebuild.
type RefreshReferencePricesResponse struct {
	PricelistID uuid.UUID `json:"pricelist_id"`
	Products    int       `json:"products"`
	ComputedAt  time.Time `json:"computed_at"`
}
