package trade

import (
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestState is the lifecycle state of a sale order request.
type RequestState string

const (
	RequestStateDraft   RequestState = "draft"
	RequestStateConfirm RequestState = "confirm"
	RequestStateDone    RequestState = "done"
)

func (s RequestState) IsValid() bool {
	return s == RequestStateDraft || s == RequestStateConfirm || s == RequestStateDone
}

// RequestFilter selects which products Start proposes.
type RequestFilter string

const (
	FilterNone           RequestFilter = "none"
	FilterCategory       RequestFilter = "category"
	FilterProduct        RequestFilter = "product"
	FilterPartial        RequestFilter = "partial"
	FilterPreviouslySold RequestFilter = "previously_sale"
)

func (f RequestFilter) IsValid() bool {
	switch f {
	case FilterNone, FilterCategory, FilterProduct, FilterPartial, FilterPreviouslySold:
		return true
	}
	return false
}

// ErrCustomerRequired is returned by Validate when no customer is set.
var ErrCustomerRequired = shared.NewDomainError("CUSTOMER_REQUIRED", "A customer is required to create a quotation")

// RequestLine is a candidate order line.
type RequestLine struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	ProductID uuid.UUID
	UomID     uuid.UUID
	Quantity  decimal.Decimal
	// PartnerID and CompanyID mirror the request for reporting.
	PartnerID *uuid.UUID
	CompanyID *uuid.UUID
}

// SaleOrderRequest stages candidate lines before they become a quotation.
// PartnerID is the customer whose history drives the previously_sale filter;
// CustomerID is the customer the quotation is created for.
type SaleOrderRequest struct {
	shared.TenantAggregateRoot
	Date        time.Time
	State       RequestState
	Filter      RequestFilter
	CategoryIDs []uuid.UUID
	ProductID   *uuid.UUID
	PartnerID   *uuid.UUID
	CustomerID  *uuid.UUID
	PricelistID *uuid.UUID
	CompanyID   *uuid.UUID
	Exclusive   bool
	TotalQty    decimal.Decimal
	OrderID     *uuid.UUID
	Lines       []RequestLine
}

// NewSaleOrderRequest creates a draft request for a company.
func NewSaleOrderRequest(tenantID uuid.UUID, companyID *uuid.UUID) *SaleOrderRequest {
	r := &SaleOrderRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                time.Now(),
		State:               RequestStateDraft,
		Filter:              FilterNone,
		CompanyID:           companyID,
		TotalQty:            decimal.Zero,
	}
	return r
}

func (r *SaleOrderRequest) requireState(action string, allowed ...RequestState) error {
	for _, s := range allowed {
		if r.State == s {
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s a request in %s state", action, r.State))
}

// ChangeFilter switches the filter mode and clears the fields the new mode
// does not use.
func (r *SaleOrderRequest) ChangeFilter(filter RequestFilter) error {
	if !filter.IsValid() {
		return shared.NewDomainError("INVALID_FILTER", "Unknown request filter: "+string(filter))
	}
	if err := r.requireState("change the filter of", RequestStateDraft); err != nil {
		return err
	}
	r.Filter = filter
	if filter != FilterProduct && filter != FilterPreviouslySold {
		r.ProductID = nil
	}
	if filter != FilterPreviouslySold && r.PartnerID != nil {
		r.PartnerID = nil
		r.syncLines()
		r.changeCustomer(nil, nil)
	}
	if filter != FilterCategory {
		r.CategoryIDs = nil
	}
	if filter == FilterProduct || filter == FilterPartial {
		r.Exclusive = false
	}
	r.recomputeTotalQty()
	r.Touch()
	return nil
}

func (r *SaleOrderRequest) SetCategories(ids []uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft); err != nil {
		return err
	}
	r.CategoryIDs = nil
	if len(ids) > 0 {
		r.CategoryIDs = shared.UniqueIDs(ids)
	}
	r.Touch()
	return nil
}

func (r *SaleOrderRequest) SetProduct(productID *uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft); err != nil {
		return err
	}
	r.ProductID = productID
	r.recomputeTotalQty()
	r.Touch()
	return nil
}

func (r *SaleOrderRequest) SetExclusive(exclusive bool) error {
	if err := r.requireState("edit", RequestStateDraft); err != nil {
		return err
	}
	r.Exclusive = exclusive
	r.Touch()
	return nil
}

func (r *SaleOrderRequest) SetCompany(companyID *uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft); err != nil {
		return err
	}
	r.CompanyID = companyID
	r.syncLines()
	r.Touch()
	return nil
}

// SetPartner sets the history customer. The quotation customer follows it;
// the caller passes that customer's pricelist.
func (r *SaleOrderRequest) SetPartner(partnerID *uuid.UUID, partnerPricelistID *uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft); err != nil {
		return err
	}
	r.PartnerID = partnerID
	r.syncLines()
	r.changeCustomer(partnerID, partnerPricelistID)
	return nil
}

// SetCustomer sets the quotation customer and, when one is given, replaces
// the pricelist with the customer's own.
func (r *SaleOrderRequest) SetCustomer(customerID *uuid.UUID, customerPricelistID *uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	r.changeCustomer(customerID, customerPricelistID)
	return nil
}

func (r *SaleOrderRequest) changeCustomer(customerID, pricelistID *uuid.UUID) {
	r.CustomerID = customerID
	if customerID != nil {
		r.PricelistID = pricelistID
	}
	r.Touch()
}

func (r *SaleOrderRequest) SetPricelist(pricelistID *uuid.UUID) error {
	if err := r.requireState("edit", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	r.PricelistID = pricelistID
	r.Touch()
	return nil
}

// NeedsPopulation reports whether Start will generate lines.
func (r *SaleOrderRequest) NeedsPopulation() bool {
	return r.State != RequestStateDone && r.Filter != FilterPartial && len(r.Lines) == 0
}

// LineDomain is the product predicate used to populate lines. previouslySold
// is only consulted when a history customer is set.
func (r *SaleOrderRequest) LineDomain(previouslySold []uuid.UUID) catalog.ProductDomain {
	exclusivity := catalog.ExclusivityNone
	if r.Exclusive {
		exclusivity = catalog.ExclusivityOnly
	}
	d := catalog.ProductDomain{
		SaleOkOnly:      true,
		Exclusivity:     exclusivity,
		CategoryChildOf: r.CategoryIDs,
		ProductID:       r.ProductID,
		CompanyChildOf:  r.CompanyID,
	}
	if r.PartnerID != nil {
		d.Restricted = true
		d.RestrictTo = previouslySold
	}
	return d
}

// ManualLineDomain is the predicate for products picked by hand on a line.
// When exclusive products are requested for a history customer, they are
// limited to that customer's allow-list.
func (r *SaleOrderRequest) ManualLineDomain(partnerAllowList []uuid.UUID) catalog.ProductDomain {
	d := catalog.ProductDomain{SaleOkOnly: true, Exclusivity: catalog.ExclusivityNone}
	if r.Exclusive {
		d.Exclusivity = catalog.ExclusivityOnly
		if r.PartnerID != nil {
			d.Restricted = true
			d.RestrictTo = partnerAllowList
		}
	}
	return d
}

// Start moves the request to confirm and, when NeedsPopulation held, adds one
// zero-quantity line per candidate product. A done request is left untouched
// and Start returns false.
func (r *SaleOrderRequest) Start(candidates []catalog.Product) bool {
	if r.State == RequestStateDone {
		return false
	}
	populate := r.NeedsPopulation()
	r.Date = time.Now()
	r.State = RequestStateConfirm
	if populate && len(candidates) > 0 {
		for i := range candidates {
			r.appendLine(candidates[i].ID, candidates[i].UomID, decimal.Zero)
		}
		r.AddDomainEvent(NewRequestLinesGeneratedEvent(r, len(candidates)))
	}
	r.recomputeTotalQty()
	r.IncrementVersion()
	return true
}

// CancelDraft drops every line and returns to draft, from any state.
func (r *SaleOrderRequest) CancelDraft() {
	r.Lines = nil
	r.State = RequestStateDraft
	r.OrderID = nil
	r.recomputeTotalQty()
	r.IncrementVersion()
}

// ResetProductQty zeroes every line quantity and keeps the lines.
func (r *SaleOrderRequest) ResetProductQty() error {
	if err := r.requireState("reset quantities of", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	for i := range r.Lines {
		r.Lines[i].Quantity = decimal.Zero
	}
	r.recomputeTotalQty()
	r.Touch()
	return nil
}

// AddLine adds a line by hand.
func (r *SaleOrderRequest) AddLine(productID, uomID uuid.UUID, qty decimal.Decimal) (*RequestLine, error) {
	if err := r.requireState("add lines to", RequestStateDraft, RequestStateConfirm); err != nil {
		return nil, err
	}
	if productID == uuid.Nil || uomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINE", "Request line needs a product and a unit")
	}
	if qty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity cannot be negative")
	}
	line := r.appendLine(productID, uomID, qty)
	r.recomputeTotalQty()
	r.Touch()
	return line, nil
}

// SetLineQuantity sets the requested quantity of a line.
func (r *SaleOrderRequest) SetLineQuantity(lineID uuid.UUID, qty decimal.Decimal) error {
	if err := r.requireState("edit lines of", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity cannot be negative")
	}
	line := r.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Request line not found")
	}
	line.Quantity = qty
	r.recomputeTotalQty()
	r.Touch()
	return nil
}

// ChangeLineProduct swaps the product of a line and resets its unit to the
// product's unit.
func (r *SaleOrderRequest) ChangeLineProduct(lineID uuid.UUID, product *catalog.Product) error {
	if err := r.requireState("edit lines of", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	line := r.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Request line not found")
	}
	line.ProductID = product.ID
	line.UomID = product.UomID
	r.Touch()
	return nil
}

// SetLineUom changes the unit of a line.
func (r *SaleOrderRequest) SetLineUom(lineID, uomID uuid.UUID) error {
	if err := r.requireState("edit lines of", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	line := r.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Request line not found")
	}
	line.UomID = uomID
	r.Touch()
	return nil
}

func (r *SaleOrderRequest) RemoveLine(lineID uuid.UUID) error {
	if err := r.requireState("remove lines from", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			r.Lines = append(r.Lines[:i], r.Lines[i+1:]...)
			r.recomputeTotalQty()
			r.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Request line not found")
}

func (r *SaleOrderRequest) Line(lineID uuid.UUID) *RequestLine {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i]
		}
	}
	return nil
}

// UomIDs returns the distinct units used by the lines.
func (r *SaleOrderRequest) UomIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, l := range r.Lines {
		if _, ok := seen[l.UomID]; !ok {
			seen[l.UomID] = struct{}{}
			ids = append(ids, l.UomID)
		}
	}
	return ids
}

// QualifyingLines returns the lines whose quantity is not zero at the
// rounding of their unit. Lines with an unknown unit use the default rounding.
func (r *SaleOrderRequest) QualifyingLines(uoms map[uuid.UUID]*catalog.UnitOfMeasure) []RequestLine {
	var out []RequestLine
	for _, l := range r.Lines {
		uom := uoms[l.UomID]
		if uom == nil {
			uom = &catalog.UnitOfMeasure{Rounding: catalog.DefaultUomRounding}
		}
		if !uom.IsZero(l.Quantity) {
			out = append(out, l)
		}
	}
	return out
}

// BuildQuotation checks the request can be validated and builds the quotation
// from the qualifying lines. It returns a nil order, and no error, when no
// line qualifies. descriptions maps product IDs to their order line text.
func (r *SaleOrderRequest) BuildQuotation(
	orderNumber string,
	uoms map[uuid.UUID]*catalog.UnitOfMeasure,
	descriptions map[uuid.UUID]string,
) (*SalesOrder, error) {
	if r.CustomerID == nil {
		return nil, ErrCustomerRequired
	}
	if err := r.requireState("validate", RequestStateDraft, RequestStateConfirm); err != nil {
		return nil, err
	}
	lines := r.QualifyingLines(uoms)
	if len(lines) == 0 {
		return nil, nil
	}
	order, err := NewSalesOrder(r.TenantID, orderNumber, *r.CustomerID)
	if err != nil {
		return nil, err
	}
	order.PricelistID = r.PricelistID
	order.CompanyID = r.CompanyID
	order.DateOrder = r.Date
	order.RequestID = &r.ID
	for _, l := range lines {
		if _, err := order.AddLine(l.ProductID, l.UomID, l.Quantity, WithName(descriptions[l.ProductID])); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// MarkDone records the created quotation and locks the request.
func (r *SaleOrderRequest) MarkDone(order *SalesOrder) error {
	if err := r.requireState("validate", RequestStateDraft, RequestStateConfirm); err != nil {
		return err
	}
	r.State = RequestStateDone
	r.OrderID = &order.ID
	r.IncrementVersion()
	r.AddDomainEvent(NewSaleOrderRequestValidatedEvent(r, order))
	return nil
}

func (r *SaleOrderRequest) appendLine(productID, uomID uuid.UUID, qty decimal.Decimal) *RequestLine {
	r.Lines = append(r.Lines, RequestLine{
		ID:        uuid.New(),
		RequestID: r.ID,
		ProductID: productID,
		UomID:     uomID,
		Quantity:  qty,
		PartnerID: r.PartnerID,
		CompanyID: r.CompanyID,
	})
	return &r.Lines[len(r.Lines)-1]
}

func (r *SaleOrderRequest) syncLines() {
	for i := range r.Lines {
		r.Lines[i].PartnerID = r.PartnerID
		r.Lines[i].CompanyID = r.CompanyID
	}
}

// recomputeTotalQty sums line quantities for single-product requests only.
func (r *SaleOrderRequest) recomputeTotalQty() {
	if r.ProductID == nil {
		r.TotalQty = decimal.Zero
		return
	}
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Quantity)
	}
	r.TotalQty = total
}
