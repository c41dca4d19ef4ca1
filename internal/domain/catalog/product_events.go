package catalog

import (
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated            = "ProductCreated"
	EventTypeProductUpdated            = "ProductUpdated"
	EventTypeProductExclusivityChanged = "ProductExclusivityChanged"
)

type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		Code:            p.Code,
		Name:            p.Name,
	}
}

// ProductUpdatedEvent is raised when fields that feed reference prices change.
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ListPrice decimal.Decimal `json:"list_price"`
}

func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		Name:            p.Name,
		ListPrice:       p.ListPrice,
	}
}

// ProductExclusivityChangedEvent is raised whenever the exclusive partner set changes.
type ProductExclusivityChangedEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID   `json:"product_id"`
	AddedPartners   []uuid.UUID `json:"added_partners,omitempty"`
	RemovedPartners []uuid.UUID `json:"removed_partners,omitempty"`
	WasExclusive    bool        `json:"was_exclusive"`
	ExclusiveOk     bool        `json:"exclusive_ok"`
}

func NewProductExclusivityChangedEvent(p *Product, added, removed []uuid.UUID, wasExclusive bool) *ProductExclusivityChangedEvent {
	return &ProductExclusivityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductExclusivityChanged, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		AddedPartners:   added,
		RemovedPartners: removed,
		WasExclusive:    wasExclusive,
		ExclusiveOk:     p.ExclusiveOk,
	}
}
