package partner

import (
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeCustomer    = "Customer"
	EventTypeCustomerCreated = "CustomerCreated"
)

type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}
