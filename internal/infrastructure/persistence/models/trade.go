package models

import (
	"time"

	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for sales orders.
type SalesOrderModel struct {
	TenantAggregateModel
	OrderNumber string                `gorm:"type:varchar(50);not null;index"`
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	CompanyID   *uuid.UUID            `gorm:"type:uuid"`
	PricelistID *uuid.UUID            `gorm:"type:uuid"`
	RequestID   *uuid.UUID            `gorm:"type:uuid;index"`
	DateOrder   time.Time             `gorm:"not null"`
	State       trade.OrderState      `gorm:"type:varchar(20);not null;default:'draft';index"`
	AmountTotal decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ConfirmedAt *time.Time            `gorm:""`
	CancelledAt *time.Time            `gorm:""`
	Lines       []SalesOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	o := &trade.SalesOrder{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		CustomerID:          m.CustomerID,
		CompanyID:           m.CompanyID,
		PricelistID:         m.PricelistID,
		RequestID:           m.RequestID,
		DateOrder:           m.DateOrder,
		State:               m.State,
		AmountTotal:         m.AmountTotal,
		ConfirmedAt:         m.ConfirmedAt,
		CancelledAt:         m.CancelledAt,
		Lines:               make([]trade.SalesOrderLine, len(m.Lines)),
	}
	for i := range m.Lines {
		o.Lines[i] = m.Lines[i].ToDomain()
	}
	return o
}

func (m *SalesOrderModel) FromDomain(o *trade.SalesOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CompanyID = o.CompanyID
	m.PricelistID = o.PricelistID
	m.RequestID = o.RequestID
	m.DateOrder = o.DateOrder
	m.State = o.State
	m.AmountTotal = o.AmountTotal
	m.ConfirmedAt = o.ConfirmedAt
	m.CancelledAt = o.CancelledAt
	m.Lines = make([]SalesOrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i].FromDomain(&o.Lines[i])
	}
}

// SalesOrderLineModel is one line of a sales order.
type SalesOrderLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence      int             `gorm:"not null"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"type:text"`
	UomID         uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsDownpayment bool            `gorm:"not null;default:false"`
	IsExpense     bool            `gorm:"not null;default:false"`
}

func (SalesOrderLineModel) TableName() string {
	return "sales_order_lines"
}

func (m *SalesOrderLineModel) ToDomain() trade.SalesOrderLine {
	return trade.SalesOrderLine{
		ID:            m.ID,
		OrderID:       m.OrderID,
		Sequence:      m.Sequence,
		ProductID:     m.ProductID,
		Name:          m.Name,
		UomID:         m.UomID,
		Quantity:      m.Quantity,
		PriceUnit:     m.PriceUnit,
		Subtotal:      m.Subtotal,
		IsDownpayment: m.IsDownpayment,
		IsExpense:     m.IsExpense,
	}
}

func (m *SalesOrderLineModel) FromDomain(l *trade.SalesOrderLine) {
	*m = SalesOrderLineModel{
		ID:            l.ID,
		OrderID:       l.OrderID,
		Sequence:      l.Sequence,
		ProductID:     l.ProductID,
		Name:          l.Name,
		UomID:         l.UomID,
		Quantity:      l.Quantity,
		PriceUnit:     l.PriceUnit,
		Subtotal:      l.Subtotal,
		IsDownpayment: l.IsDownpayment,
		IsExpense:     l.IsExpense,
	}
}

// SaleOrderRequestModel is the persistence model for the quotation wizard.
type SaleOrderRequestModel struct {
	TenantAggregateModel
	Date        time.Time           `gorm:"not null"`
	State       trade.RequestState  `gorm:"type:varchar(20);not null;default:'draft'"`
	Filter      trade.RequestFilter `gorm:"type:varchar(20);not null;default:'none'"`
	ProductID   *uuid.UUID          `gorm:"type:uuid"`
	PartnerID   *uuid.UUID          `gorm:"type:uuid"`
	CustomerID  *uuid.UUID          `gorm:"type:uuid"`
	PricelistID *uuid.UUID          `gorm:"type:uuid"`
	CompanyID   *uuid.UUID          `gorm:"type:uuid"`
	Exclusive   bool                `gorm:"not null;default:false"`
	TotalQty    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	OrderID     *uuid.UUID          `gorm:"type:uuid"`
	Lines       []RequestLineModel  `gorm:"foreignKey:RequestID;references:ID"`
}

func (SaleOrderRequestModel) TableName() string {
	return "sale_order_requests"
}

// ToDomain converts the model; CategoryIDs is filled by the repository.
func (m *SaleOrderRequestModel) ToDomain() *trade.SaleOrderRequest {
	r := &trade.SaleOrderRequest{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Date:                m.Date,
		State:               m.State,
		Filter:              m.Filter,
		ProductID:           m.ProductID,
		PartnerID:           m.PartnerID,
		CustomerID:          m.CustomerID,
		PricelistID:         m.PricelistID,
		CompanyID:           m.CompanyID,
		Exclusive:           m.Exclusive,
		TotalQty:            m.TotalQty,
		OrderID:             m.OrderID,
		Lines:               make([]trade.RequestLine, len(m.Lines)),
	}
	for i := range m.Lines {
		r.Lines[i] = m.Lines[i].ToDomain()
	}
	return r
}

func (m *SaleOrderRequestModel) FromDomain(r *trade.SaleOrderRequest) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Date = r.Date
	m.State = r.State
	m.Filter = r.Filter
	m.ProductID = r.ProductID
	m.PartnerID = r.PartnerID
	m.CustomerID = r.CustomerID
	m.PricelistID = r.PricelistID
	m.CompanyID = r.CompanyID
	m.Exclusive = r.Exclusive
	m.TotalQty = r.TotalQty
	m.OrderID = r.OrderID
	m.Lines = make([]RequestLineModel, len(r.Lines))
	for i := range r.Lines {
		m.Lines[i].FromDomain(&r.Lines[i])
	}
}

// RequestLineModel is one product line of the quotation wizard.
type RequestLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null;default:0"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	UomID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PartnerID *uuid.UUID      `gorm:"type:uuid"`
	CompanyID *uuid.UUID      `gorm:"type:uuid"`
}

func (RequestLineModel) TableName() string {
	return "sale_order_request_lines"
}

func (m *RequestLineModel) ToDomain() trade.RequestLine {
	return trade.RequestLine{
		ID:        m.ID,
		RequestID: m.RequestID,
		ProductID: m.ProductID,
		UomID:     m.UomID,
		Quantity:  m.Quantity,
		PartnerID: m.PartnerID,
		CompanyID: m.CompanyID,
	}
}

func (m *RequestLineModel) FromDomain(l *trade.RequestLine) {
	*m = RequestLineModel{
		Position:  m.Position,
		ID:        l.ID,
		RequestID: l.RequestID,
		ProductID: l.ProductID,
		UomID:     l.UomID,
		Quantity:  l.Quantity,
		PartnerID: l.PartnerID,
		CompanyID: l.CompanyID,
	}
}

// RequestCategoryRel links a request to the categories it filters on.
type RequestCategoryRel struct {
	SaleRequestID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (RequestCategoryRel) TableName() string {
	return "sale_order_request_product_category_rel"
}

// AllModels lists every model for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&ProductModel{}, &ExclusivePartnerRel{}, &ReferencePriceModel{},
		&CategoryModel{}, &UomModel{}, &PricelistModel{}, &PricelistItemModel{},
		&CustomerModel{}, &CompanyModel{},
		&SalesOrderModel{}, &SalesOrderLineModel{},
		&SaleOrderRequestModel{}, &RequestLineModel{}, &RequestCategoryRel{},
	}
}
