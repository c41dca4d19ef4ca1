package models

import (
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for product templates.
type ProductModel struct {
	TenantAggregateModel
	Code            string                `gorm:"type:varchar(50);not null;index"`
	Name            string                `gorm:"type:varchar(200);not null"`
	Description     string                `gorm:"type:text"`
	SaleDescription string                `gorm:"type:text"`
	CategoryID      *uuid.UUID            `gorm:"type:uuid;index"`
	CompanyID       *uuid.UUID            `gorm:"type:uuid;index"`
	UomID           uuid.UUID             `gorm:"type:uuid;not null"`
	ListPrice       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SaleOk          bool                  `gorm:"not null"`
	Subunits        int                   `gorm:"not null;default:0"`
	ExclusiveOk     bool                  `gorm:"not null;default:false;index"`
	Status          catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

func (ProductModel) TableName() string {
	return "product_templates"
}

// ToDomain converts the model; the relation slices are filled by the repository.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		SaleDescription:     m.SaleDescription,
		CategoryID:          m.CategoryID,
		CompanyID:           m.CompanyID,
		UomID:               m.UomID,
		ListPrice:           m.ListPrice,
		SaleOk:              m.SaleOk,
		Subunits:            m.Subunits,
		ExclusiveOk:         m.ExclusiveOk,
		Status:              m.Status,
	}
}

func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.SaleDescription = p.SaleDescription
	m.CategoryID = p.CategoryID
	m.CompanyID = p.CompanyID
	m.UomID = p.UomID
	m.ListPrice = p.ListPrice
	m.SaleOk = p.SaleOk
	m.Subunits = p.Subunits
	m.ExclusiveOk = p.ExclusiveOk
	m.Status = p.Status
}

// ExclusivePartnerRel is one row of the product/customer exclusivity relation.
type ExclusivePartnerRel struct {
	ProductTmplID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (ExclusivePartnerRel) TableName() string {
	return "product_template_exclusive_partner_rel"
}

// ReferencePriceModel stores a product's price under one pricelist.
type ReferencePriceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductTmplID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reference_price_product_pricelist,priority:1"`
	PricelistID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reference_price_product_pricelist,priority:2"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ComputedAt    time.Time       `gorm:"not null"`
}

func (ReferencePriceModel) TableName() string {
	return "product_reference_prices"
}

func (m *ReferencePriceModel) ToDomain() catalog.ReferencePrice {
	return catalog.ReferencePrice{
		ID:          m.ID,
		PricelistID: m.PricelistID,
		ProductID:   m.ProductTmplID,
		Price:       m.Price,
		ComputedAt:  m.ComputedAt,
	}
}

// CategoryModel is the persistence model for product categories.
type CategoryModel struct {
	TenantAggregateModel
	Code     string     `gorm:"type:varchar(50);not null;index"`
	Name     string     `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Path     string     `gorm:"type:varchar(500);not null;index"`
	Level    int        `gorm:"not null;default:0"`
}

func (CategoryModel) TableName() string {
	return "product_categories"
}

func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		ParentID:            m.ParentID,
		Path:                shared.TreePath(m.Path),
		Level:               m.Level,
	}
}

func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.ParentID = c.ParentID
	m.Path = c.Path.String()
	m.Level = c.Level
}

// UomModel is the persistence model for units of measure.
type UomModel struct {
	TenantAggregateModel
	Name     string          `gorm:"type:varchar(50);not null"`
	Category string          `gorm:"type:varchar(50);not null;index"`
	Factor   decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	Rounding decimal.Decimal `gorm:"type:decimal(18,8);not null"`
}

func (UomModel) TableName() string {
	return "uoms"
}

func (m *UomModel) ToDomain() *catalog.UnitOfMeasure {
	return &catalog.UnitOfMeasure{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Category:            m.Category,
		Factor:              m.Factor,
		Rounding:            m.Rounding,
	}
}

func (m *UomModel) FromDomain(u *catalog.UnitOfMeasure) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Name = u.Name
	m.Category = u.Category
	m.Factor = u.Factor
	m.Rounding = u.Rounding
}

// PricelistModel is the persistence model for pricelists.
type PricelistModel struct {
	TenantAggregateModel
	Name      string               `gorm:"type:varchar(100);not null"`
	CompanyID *uuid.UUID           `gorm:"type:uuid;index"`
	Sequence  int                  `gorm:"not null"`
	Items     []PricelistItemModel `gorm:"foreignKey:PricelistID;references:ID"`
}

func (PricelistModel) TableName() string {
	return "pricelists"
}

func (m *PricelistModel) ToDomain() *catalog.Pricelist {
	pl := &catalog.Pricelist{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		CompanyID:           m.CompanyID,
		Sequence:            m.Sequence,
		Items:               make([]catalog.PricelistItem, len(m.Items)),
	}
	for i := range m.Items {
		pl.Items[i] = m.Items[i].ToDomain()
	}
	return pl
}

func (m *PricelistModel) FromDomain(p *catalog.Pricelist) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.CompanyID = p.CompanyID
	m.Sequence = p.Sequence
	m.Items = make([]PricelistItemModel, len(p.Items))
	for i := range p.Items {
		m.Items[i].FromDomain(p.ID, i, &p.Items[i])
	}
}

// PricelistItemModel is one pricing rule; Position keeps the rule order.
type PricelistItemModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PricelistID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position     int                 `gorm:"not null;default:0"`
	AppliedOn    catalog.AppliedOn   `gorm:"type:varchar(20);not null"`
	ProductID    *uuid.UUID          `gorm:"type:uuid"`
	CategoryID   *uuid.UUID          `gorm:"type:uuid"`
	MinQuantity  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	DateStart    *time.Time          `gorm:""`
	DateEnd      *time.Time          `gorm:""`
	Compute      catalog.ComputeMode `gorm:"type:varchar(20);not null"`
	FixedPrice   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PercentPrice decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Discount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Surcharge    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Rounding     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MinMargin    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	MaxMargin    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
}

func (PricelistItemModel) TableName() string {
	return "pricelist_items"
}

func (m *PricelistItemModel) ToDomain() catalog.PricelistItem {
	return catalog.PricelistItem{
		ID:           m.ID,
		AppliedOn:    m.AppliedOn,
		ProductID:    m.ProductID,
		CategoryID:   m.CategoryID,
		MinQuantity:  m.MinQuantity,
		DateStart:    m.DateStart,
		DateEnd:      m.DateEnd,
		Compute:      m.Compute,
		FixedPrice:   m.FixedPrice,
		PercentPrice: m.PercentPrice,
		Discount:     m.Discount,
		Surcharge:    m.Surcharge,
		Rounding:     m.Rounding,
		MinMargin:    m.MinMargin,
		MaxMargin:    m.MaxMargin,
	}
}

func (m *PricelistItemModel) FromDomain(pricelistID uuid.UUID, position int, i *catalog.PricelistItem) {
	*m = PricelistItemModel{
		ID:           i.ID,
		PricelistID:  pricelistID,
		Position:     position,
		AppliedOn:    i.AppliedOn,
		ProductID:    i.ProductID,
		CategoryID:   i.CategoryID,
		MinQuantity:  i.MinQuantity,
		DateStart:    i.DateStart,
		DateEnd:      i.DateEnd,
		Compute:      i.Compute,
		FixedPrice:   i.FixedPrice,
		PercentPrice: i.PercentPrice,
		Discount:     i.Discount,
		Surcharge:    i.Surcharge,
		Rounding:     i.Rounding,
		MinMargin:    i.MinMargin,
		MaxMargin:    i.MaxMargin,
	}
}
