package trade

import (
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState represents the state of a sales order
type OrderState string

const (
	OrderStateDraft  OrderState = "draft"
	OrderStateSale   OrderState = "sale"
	OrderStateCancel OrderState = "cancel"
)

func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateDraft, OrderStateSale, OrderStateCancel:
		return true
	}
	return false
}

// CanTransitionTo checks if the state can transition to the target state
func (s OrderState) CanTransitionTo(target OrderState) bool {
	switch s {
	case OrderStateDraft:
		return target == OrderStateSale || target == OrderStateCancel
	case OrderStateSale:
		return target == OrderStateCancel
	}
	return false
}

// SalesOrderLine is one product line of a sales order.
type SalesOrderLine struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Sequence      int
	ProductID     uuid.UUID
	Name          string
	UomID         uuid.UUID
	Quantity      decimal.Decimal
	PriceUnit     decimal.Decimal
	Subtotal      decimal.Decimal
	IsDownpayment bool
	IsExpense     bool
}

func (l *SalesOrderLine) recompute() {
	l.Subtotal = l.Quantity.Mul(l.PriceUnit)
}

// IsSettledHistory reports whether the line counts as a previous sale of its product.
func (l *SalesOrderLine) IsSettledHistory() bool {
	return !l.IsDownpayment && !l.IsExpense
}

// LineOption customizes a line added with AddLine.
type LineOption func(*SalesOrderLine)

// AsDownpayment flags the line as a down payment.
func AsDownpayment() LineOption { return func(l *SalesOrderLine) { l.IsDownpayment = true } }

// AsExpense flags the line as a re-invoiced expense.
func AsExpense() LineOption { return func(l *SalesOrderLine) { l.IsExpense = true } }

// WithName sets the line description.
func WithName(name string) LineOption { return func(l *SalesOrderLine) { l.Name = name } }

// SalesOrder is a quotation until confirmed, then a sales order.
type SalesOrder struct {
	shared.TenantAggregateRoot
	OrderNumber string
	CustomerID  uuid.UUID
	CompanyID   *uuid.UUID
	PricelistID *uuid.UUID
	// RequestID links quotations created from a sale order request.
	RequestID   *uuid.UUID
	DateOrder   time.Time
	State       OrderState
	Lines       []SalesOrderLine
	AmountTotal decimal.Decimal
	ConfirmedAt *time.Time
	CancelledAt *time.Time
}

// NewSalesOrder creates a new quotation
func NewSalesOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	o := &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		DateOrder:           time.Now(),
		State:               OrderStateDraft,
		AmountTotal:         decimal.Zero,
	}
	o.AddDomainEvent(NewSalesOrderCreatedEvent(o))
	return o, nil
}

func (o *SalesOrder) requireDraft(action string) error {
	if o.State != OrderStateDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s an order in %s state", action, o.State))
	}
	return nil
}

// ChangeCustomer sets the customer and the pricing context derived from it.
func (o *SalesOrder) ChangeCustomer(customerID uuid.UUID, companyID, pricelistID *uuid.UUID) error {
	if err := o.requireDraft("change the customer of"); err != nil {
		return err
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	o.CustomerID = customerID
	o.CompanyID = companyID
	o.PricelistID = pricelistID
	o.IncrementVersion()
	return nil
}

// AddLine appends a product line. Pricing and description are set afterwards
// by the product change reaction through ApplyProductChange.
func (o *SalesOrder) AddLine(productID, uomID uuid.UUID, quantity decimal.Decimal, opts ...LineOption) (*SalesOrderLine, error) {
	if err := o.requireDraft("add lines to"); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	line := SalesOrderLine{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Sequence:  (len(o.Lines) + 1) * 10,
		ProductID: productID,
		UomID:     uomID,
		Quantity:  quantity,
		PriceUnit: decimal.Zero,
	}
	for _, opt := range opts {
		opt(&line)
	}
	line.recompute()
	o.Lines = append(o.Lines, line)
	o.recalculateTotals()
	return &o.Lines[len(o.Lines)-1], nil
}

// ApplyProductChange stores the outcome of the product change reaction on a line.
// A nil uomID keeps the line unit.
func (o *SalesOrder) ApplyProductChange(lineID uuid.UUID, name string, uomID *uuid.UUID, priceUnit decimal.Decimal) error {
	if err := o.requireDraft("reprice"); err != nil {
		return err
	}
	line := o.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Order line not found")
	}
	if priceUnit.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	line.Name = name
	if uomID != nil {
		line.UomID = *uomID
	}
	line.PriceUnit = priceUnit
	line.recompute()
	o.recalculateTotals()
	return nil
}

func (o *SalesOrder) RemoveLine(lineID uuid.UUID) error {
	if err := o.requireDraft("remove lines from"); err != nil {
		return err
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Order line not found")
}

func (o *SalesOrder) Line(lineID uuid.UUID) *SalesOrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}

// Confirm turns the quotation into a sales order.
func (o *SalesOrder) Confirm() error {
	if !o.State.CanTransitionTo(OrderStateSale) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s state", o.State))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without lines")
	}
	now := time.Now()
	o.State = OrderStateSale
	o.ConfirmedAt = &now
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderConfirmedEvent(o))
	return nil
}

func (o *SalesOrder) Cancel() error {
	if !o.State.CanTransitionTo(OrderStateCancel) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s state", o.State))
	}
	now := time.Now()
	o.State = OrderStateCancel
	o.CancelledAt = &now
	o.IncrementVersion()
	return nil
}

func (o *SalesOrder) recalculateTotals() {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal)
	}
	o.AmountTotal = total
	o.Touch()
}

// ProductIDs returns the distinct products of the order lines.
func (o *SalesOrder) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Lines))
	ids := make([]uuid.UUID, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
