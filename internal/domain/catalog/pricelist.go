package catalog

import (
	"sort"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppliedOn is the scope of a pricelist rule.
type AppliedOn string

const (
	AppliedOnProduct  AppliedOn = "product"
	AppliedOnCategory AppliedOn = "category"
	AppliedOnGlobal   AppliedOn = "global"
)

func (a AppliedOn) rank() int {
	switch a {
	case AppliedOnProduct:
		return 0
	case AppliedOnCategory:
		return 1
	default:
		return 2
	}
}

func (a AppliedOn) IsValid() bool {
	return a == AppliedOnProduct || a == AppliedOnCategory || a == AppliedOnGlobal
}

// ComputeMode selects how a rule turns the list price into a price.
type ComputeMode string

const (
	ComputeFixed      ComputeMode = "fixed"
	ComputePercentage ComputeMode = "percentage"
	ComputeFormula    ComputeMode = "formula"
)

func (m ComputeMode) IsValid() bool {
	return m == ComputeFixed || m == ComputePercentage || m == ComputeFormula
}

// PricelistItem is one pricing rule.
type PricelistItem struct {
	ID          uuid.UUID
	AppliedOn   AppliedOn
	ProductID   *uuid.UUID
	CategoryID  *uuid.UUID
	MinQuantity decimal.Decimal
	DateStart   *time.Time
	DateEnd     *time.Time
	Compute     ComputeMode

	FixedPrice   decimal.Decimal
	PercentPrice decimal.Decimal

	// formula fields
	Discount  decimal.Decimal
	Surcharge decimal.Decimal
	Rounding  decimal.Decimal
	MinMargin decimal.Decimal
	MaxMargin decimal.Decimal
}

// Validate checks the rule is complete for its scope.
func (i *PricelistItem) Validate() error {
	if !i.AppliedOn.IsValid() {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "Unknown rule scope: "+string(i.AppliedOn))
	}
	if !i.Compute.IsValid() {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "Unknown compute mode: "+string(i.Compute))
	}
	if i.AppliedOn == AppliedOnProduct && i.ProductID == nil {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "A product rule needs a product")
	}
	if i.AppliedOn == AppliedOnCategory && i.CategoryID == nil {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "A category rule needs a category")
	}
	if i.MinQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "Minimum quantity cannot be negative")
	}
	if i.DateStart != nil && i.DateEnd != nil && i.DateEnd.Before(*i.DateStart) {
		return shared.NewDomainError("INVALID_PRICELIST_ITEM", "Rule end date is before its start date")
	}
	return nil
}

// PriceContext is what a pricelist needs to know about a product.
type PriceContext struct {
	ProductID uuid.UUID
	// CategoryLineage holds the product category and all its ancestors.
	CategoryLineage []uuid.UUID
	ListPrice       decimal.Decimal
}

func (i *PricelistItem) matches(pc PriceContext, qty decimal.Decimal, at time.Time) bool {
	if i.DateStart != nil && at.Before(*i.DateStart) {
		return false
	}
	if i.DateEnd != nil && at.After(*i.DateEnd) {
		return false
	}
	if qty.LessThan(i.MinQuantity) {
		return false
	}
	switch i.AppliedOn {
	case AppliedOnProduct:
		return i.ProductID != nil && *i.ProductID == pc.ProductID
	case AppliedOnCategory:
		if i.CategoryID == nil {
			return false
		}
		for _, id := range pc.CategoryLineage {
			if id == *i.CategoryID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func (i *PricelistItem) apply(base decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	switch i.Compute {
	case ComputeFixed:
		return i.FixedPrice
	case ComputePercentage:
		return base.Sub(base.Mul(i.PercentPrice).Div(hundred))
	}
	price := base.Sub(base.Mul(i.Discount).Div(hundred))
	if i.Rounding.IsPositive() {
		price = price.Div(i.Rounding).Round(0).Mul(i.Rounding)
	}
	price = price.Add(i.Surcharge)
	if !i.MinMargin.IsZero() {
		price = decimal.Max(price, base.Add(i.MinMargin))
	}
	if !i.MaxMargin.IsZero() {
		price = decimal.Min(price, base.Add(i.MaxMargin))
	}
	return price
}

// Pricelist is an ordered set of pricing rules.
type Pricelist struct {
	shared.TenantAggregateRoot
	Name      string
	CompanyID *uuid.UUID
	Sequence  int
	Items     []PricelistItem
}

func NewPricelist(tenantID uuid.UUID, name string) (*Pricelist, error) {
	if err := shared.ValidateName("Pricelist", name, 100); err != nil {
		return nil, err
	}
	return &Pricelist{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Sequence:            10,
	}, nil
}

// AddItem validates and appends a rule.
func (p *Pricelist) AddItem(item PricelistItem) (*PricelistItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	p.Items = append(p.Items, item)
	p.IncrementVersion()
	return &p.Items[len(p.Items)-1], nil
}

func (p *Pricelist) RemoveItem(itemID uuid.UUID) error {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Pricelist rule not found")
}

// ComputePrice returns the price of qty units at time at, and the rule that
// produced it. Product rules win over category rules, which win over global
// rules; within a scope the highest satisfied minimum quantity wins. Without
// a matching rule the list price is returned with a nil rule.
func (p *Pricelist) ComputePrice(pc PriceContext, qty decimal.Decimal, at time.Time) (decimal.Decimal, *PricelistItem) {
	candidates := make([]*PricelistItem, 0, len(p.Items))
	for i := range p.Items {
		if p.Items[i].matches(pc, qty, at) {
			candidates = append(candidates, &p.Items[i])
		}
	}
	if len(candidates) == 0 {
		return pc.ListPrice, nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		ra, rb := candidates[a].AppliedOn.rank(), candidates[b].AppliedOn.rank()
		if ra != rb {
			return ra < rb
		}
		if ca, cb := categoryDepth(pc, candidates[a]), categoryDepth(pc, candidates[b]); ca != cb {
			return ca < cb
		}
		return candidates[a].MinQuantity.GreaterThan(candidates[b].MinQuantity)
	})
	rule := candidates[0]
	return rule.apply(pc.ListPrice), rule
}

// categoryDepth ranks category rules so the closest category wins.
func categoryDepth(pc PriceContext, item *PricelistItem) int {
	if item.CategoryID == nil {
		return -1
	}
	for i, id := range pc.CategoryLineage {
		if id == *item.CategoryID {
			return i
		}
	}
	return -1
}

// SelectPricelist picks the customer pricelist, then the company default,
// then the first pricelist available. Any argument may be nil.
func SelectPricelist(customerPricelist, companyDefault, first *Pricelist) *Pricelist {
	switch {
	case customerPricelist != nil:
		return customerPricelist
	case companyDefault != nil:
		return companyDefault
	default:
		return first
	}
}
