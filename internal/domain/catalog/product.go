package catalog

import (
	"strings"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a product template. Exclusive products can only be sold to the
// customers listed in ExclusivePartnerIDs.
type Product struct {
	shared.TenantAggregateRoot
	Code            string
	Name            string
	Description     string
	SaleDescription string
	CategoryID      *uuid.UUID
	CompanyID       *uuid.UUID
	UomID           uuid.UUID
	ListPrice       decimal.Decimal
	SaleOk          bool
	Subunits        int
	Status          ProductStatus

	// ExclusivePartnerIDs has set semantics; ExclusiveOk is derived from it
	// and stored so it can be used in queries.
	ExclusivePartnerIDs []uuid.UUID
	ExclusiveOk         bool

	ReferencePrices []ReferencePrice
}

// NewProduct creates a saleable, non-exclusive product.
func NewProduct(tenantID uuid.UUID, code, name string, uomID uuid.UUID) (*Product, error) {
	if err := shared.ValidateCode("Product", code); err != nil {
		return nil, err
	}
	if err := shared.ValidateName("Product", name, 200); err != nil {
		return nil, err
	}
	if uomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UNIT", "Product unit of measure is required")
	}
	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		UomID:               uomID,
		ListPrice:           decimal.Zero,
		SaleOk:              true,
		Status:              ProductStatusActive,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update changes the descriptive fields.
func (p *Product) Update(name, description, saleDescription string) error {
	if err := shared.ValidateName("Product", name, 200); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.SaleDescription = saleDescription
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.IncrementVersion()
}

// SetCompany restricts the product to a company; nil shares it across companies.
func (p *Product) SetCompany(companyID *uuid.UUID) {
	p.CompanyID = companyID
	p.IncrementVersion()
}

func (p *Product) SetUom(uomID uuid.UUID) error {
	if uomID == uuid.Nil {
		return shared.NewDomainError("INVALID_UNIT", "Product unit of measure is required")
	}
	p.UomID = uomID
	p.IncrementVersion()
	return nil
}

func (p *Product) SetListPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "List price cannot be negative")
	}
	p.ListPrice = price
	p.IncrementVersion()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

func (p *Product) SetSaleOk(ok bool) {
	p.SaleOk = ok
	p.IncrementVersion()
}

func (p *Product) SetSubunits(n int) error {
	if n < 0 {
		return shared.NewDomainError("INVALID_SUBUNITS", "Subunits cannot be negative")
	}
	p.Subunits = n
	p.IncrementVersion()
	return nil
}

func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.IncrementVersion()
	return nil
}

func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.IncrementVersion()
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// SetExclusivePartners replaces the allow-list. Duplicates and nil IDs are dropped.
// It returns false when the set did not change.
func (p *Product) SetExclusivePartners(partnerIDs []uuid.UUID) bool {
	next := shared.UniqueIDs(partnerIDs)
	added, removed := diffIDs(p.ExclusivePartnerIDs, next)
	if len(added) == 0 && len(removed) == 0 {
		p.recomputeExclusiveOk()
		return false
	}
	p.ExclusivePartnerIDs = next
	p.exclusivityChanged(added, removed)
	return true
}

// AddExclusivePartner returns false if the partner was already allowed.
func (p *Product) AddExclusivePartner(partnerID uuid.UUID) bool {
	if partnerID == uuid.Nil || p.HasExclusivePartner(partnerID) {
		return false
	}
	p.ExclusivePartnerIDs = append(p.ExclusivePartnerIDs, partnerID)
	p.exclusivityChanged([]uuid.UUID{partnerID}, nil)
	return true
}

// RemoveExclusivePartner returns false if the partner was not in the allow-list.
func (p *Product) RemoveExclusivePartner(partnerID uuid.UUID) bool {
	for i, id := range p.ExclusivePartnerIDs {
		if id == partnerID {
			p.ExclusivePartnerIDs = append(p.ExclusivePartnerIDs[:i:i], p.ExclusivePartnerIDs[i+1:]...)
			p.exclusivityChanged(nil, []uuid.UUID{partnerID})
			return true
		}
	}
	return false
}

func (p *Product) HasExclusivePartner(partnerID uuid.UUID) bool {
	for _, id := range p.ExclusivePartnerIDs {
		if id == partnerID {
			return true
		}
	}
	return false
}

func (p *Product) recomputeExclusiveOk() {
	p.ExclusiveOk = len(p.ExclusivePartnerIDs) > 0
}

func (p *Product) exclusivityChanged(added, removed []uuid.UUID) {
	wasExclusive := p.ExclusiveOk
	p.recomputeExclusiveOk()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductExclusivityChangedEvent(p, added, removed, wasExclusive))
}

// DisplayName is "[CODE] Name".
func (p *Product) DisplayName() string {
	return "[" + p.Code + "] " + p.Name
}

// MultilineDescription is the text put on sales order lines: the display name,
// followed by the sale description on its own line when there is one.
func (p *Product) MultilineDescription() string {
	if s := strings.TrimSpace(p.SaleDescription); s != "" {
		return p.DisplayName() + "\n" + s
	}
	return p.DisplayName()
}

// ReferencePriceFor returns the stored reference price for a pricelist.
func (p *Product) ReferencePriceFor(pricelistID uuid.UUID) (ReferencePrice, bool) {
	for _, rp := range p.ReferencePrices {
		if rp.PricelistID == pricelistID {
			return rp, true
		}
	}
	return ReferencePrice{}, false
}

// SetReferencePrice creates or updates the reference price entry of a pricelist.
func (p *Product) SetReferencePrice(pricelistID uuid.UUID, price decimal.Decimal, at time.Time) {
	for i := range p.ReferencePrices {
		if p.ReferencePrices[i].PricelistID == pricelistID {
			p.ReferencePrices[i].Price = price
			p.ReferencePrices[i].ComputedAt = at
			return
		}
	}
	p.ReferencePrices = append(p.ReferencePrices, ReferencePrice{
		ID:          uuid.New(),
		PricelistID: pricelistID,
		ProductID:   p.ID,
		Price:       price,
		ComputedAt:  at,
	})
}

// diffIDs returns the IDs of next missing from prev and those of prev missing from next.
func diffIDs(prev, next []uuid.UUID) (added, removed []uuid.UUID) {
	inPrev := make(map[uuid.UUID]struct{}, len(prev))
	for _, id := range prev {
		inPrev[id] = struct{}{}
	}
	inNext := make(map[uuid.UUID]struct{}, len(next))
	for _, id := range next {
		inNext[id] = struct{}{}
		if _, ok := inPrev[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if _, ok := inNext[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
