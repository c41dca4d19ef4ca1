package trade

import (
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeSalesOrder       = "SalesOrder"
	AggregateTypeSaleOrderRequest = "SaleOrderRequest"
)

const (
	EventTypeSalesOrderCreated         = "SalesOrderCreated"
	EventTypeSalesOrderConfirmed       = "SalesOrderConfirmed"
	EventTypeRequestLinesGenerated     = "SaleOrderRequestLinesGenerated"
	EventTypeSaleOrderRequestValidated = "SaleOrderRequestValidated"
)

type SalesOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
}

func NewSalesOrderCreatedEvent(o *SalesOrder) *SalesOrderCreatedEvent {
	return &SalesOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderCreated, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		RequestID:       o.RequestID,
	}
}

type SalesOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	AmountTotal decimal.Decimal `json:"amount_total"`
}

func NewSalesOrderConfirmedEvent(o *SalesOrder) *SalesOrderConfirmedEvent {
	return &SalesOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderConfirmed, AggregateTypeSalesOrder, o.ID, o.TenantID),
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		AmountTotal:     o.AmountTotal,
	}
}

type RequestLinesGeneratedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID     `json:"request_id"`
	Filter    RequestFilter `json:"filter"`
	LineCount int           `json:"line_count"`
}

func NewRequestLinesGeneratedEvent(r *SaleOrderRequest, count int) *RequestLinesGeneratedEvent {
	return &RequestLinesGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestLinesGenerated, AggregateTypeSaleOrderRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		Filter:          r.Filter,
		LineCount:       count,
	}
}

type SaleOrderRequestValidatedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID `json:"request_id"`
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	LineCount  int       `json:"line_count"`
}

func NewSaleOrderRequestValidatedEvent(r *SaleOrderRequest, o *SalesOrder) *SaleOrderRequestValidatedEvent {
	return &SaleOrderRequestValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleOrderRequestValidated, AggregateTypeSaleOrderRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		OrderID:         o.ID,
		CustomerID:      o.CustomerID,
		LineCount:       len(o.Lines),
	}
}
