package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingService runs the customer change and product change reactions of
// sales orders.
type PricingService struct {
	companyRepo   partner.CompanyRepository
	pricelistRepo catalog.PricelistRepository
	categoryRepo  catalog.CategoryRepository
	uomRepo       catalog.UomRepository
	now           func() time.Time
}

func NewPricingService(
	companyRepo partner.CompanyRepository,
	pricelistRepo catalog.PricelistRepository,
	categoryRepo catalog.CategoryRepository,
	uomRepo catalog.UomRepository,
) *PricingService {
	return &PricingService{
		companyRepo:   companyRepo,
		pricelistRepo: pricelistRepo,
		categoryRepo:  categoryRepo,
		uomRepo:       uomRepo,
		now:           time.Now,
	}
}

// CustomerPricelist resolves the pricelist of a customer: its own, then the
// default of its company, then the first pricelist of the tenant. It returns
// nil when the tenant has no pricelist.
func (s *PricingService) CustomerPricelist(ctx context.Context, customer *partner.Customer) (*catalog.Pricelist, error) {
	var own, companyDefault, first *catalog.Pricelist
	if customer.PricelistID != nil {
		pl, err := s.optionalPricelist(ctx, customer.TenantID, *customer.PricelistID)
		if err != nil {
			return nil, err
		}
		own = pl
	}
	if own == nil && customer.CompanyID != nil {
		company, err := s.companyRepo.FindByIDForTenant(ctx, customer.TenantID, *customer.CompanyID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("load company: %w", err)
		}
		if company != nil && company.DefaultPricelistID != nil {
			pl, err := s.optionalPricelist(ctx, customer.TenantID, *company.DefaultPricelistID)
			if err != nil {
				return nil, err
			}
			companyDefault = pl
		}
	}
	if own == nil && companyDefault == nil {
		all, err := s.pricelistRepo.FindAllForTenant(ctx, customer.TenantID)
		if err != nil {
			return nil, fmt.Errorf("load pricelists: %w", err)
		}
		if len(all) > 0 {
			first = &all[0]
		}
	}
	return catalog.SelectPricelist(own, companyDefault, first), nil
}

func (s *PricingService) optionalPricelist(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Pricelist, error) {
	pl, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load pricelist: %w", err)
	}
	return pl, nil
}

// ApplyCustomer runs the customer change reaction: the order takes the
// customer, its company and its resolved pricelist.
func (s *PricingService) ApplyCustomer(ctx context.Context, order *trade.SalesOrder, customer *partner.Customer) error {
	pricelist, err := s.CustomerPricelist(ctx, customer)
	if err != nil {
		return err
	}
	var pricelistID *uuid.UUID
	if pricelist != nil {
		pricelistID = &pricelist.ID
	}
	return order.ChangeCustomer(customer.ID, customer.CompanyID, pricelistID)
}

// OrderPricer prices the lines of one order with a pricelist loaded once.
type OrderPricer struct {
	svc       *PricingService
	order     *trade.SalesOrder
	pricelist *catalog.Pricelist
}

// ForOrder loads the pricing context of an order.
func (s *PricingService) ForOrder(ctx context.Context, order *trade.SalesOrder) (*OrderPricer, error) {
	p := &OrderPricer{svc: s, order: order}
	if order.PricelistID != nil {
		pl, err := s.optionalPricelist(ctx, order.TenantID, *order.PricelistID)
		if err != nil {
			return nil, err
		}
		p.pricelist = pl
	}
	return p, nil
}

// ApplyProduct runs the product change reaction on a line. The line name is
// kept when already set, otherwise it becomes the product multi-line
// description. The unit defaults to the product unit and the unit price comes
// from the order pricelist, or the list price without one.
func (p *OrderPricer) ApplyProduct(ctx context.Context, lineID uuid.UUID, product *catalog.Product) error {
	line := p.order.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Order line not found")
	}
	name := line.Name
	if name == "" {
		name = product.MultilineDescription()
	}
	var uomID *uuid.UUID
	lineUom := line.UomID
	if lineUom == uuid.Nil {
		uomID = &product.UomID
		lineUom = product.UomID
	}

	price := product.ListPrice
	if p.pricelist != nil {
		category, err := p.svc.category(ctx, product)
		if err != nil {
			return err
		}
		qty := line.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		price, _ = p.pricelist.ComputePrice(catalog.PriceContextFor(product, category), qty, p.svc.now())
	}
	if lineUom != product.UomID {
		converted, err := p.svc.convertPrice(ctx, product, lineUom, price)
		if err != nil {
			return err
		}
		price = converted
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return p.order.ApplyProductChange(lineID, name, uomID, price)
}

func (s *PricingService) category(ctx context.Context, product *catalog.Product) (*catalog.Category, error) {
	if product.CategoryID == nil {
		return nil, nil
	}
	c, err := s.categoryRepo.FindByIDForTenant(ctx, product.TenantID, *product.CategoryID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return c, nil
}

// convertPrice turns a price per product unit into a price per lineUom.
// Units of another category keep the price unchanged.
func (s *PricingService) convertPrice(ctx context.Context, product *catalog.Product, lineUom uuid.UUID, price decimal.Decimal) (decimal.Decimal, error) {
	uoms, err := s.uomRepo.FindByIDs(ctx, product.TenantID, []uuid.UUID{product.UomID, lineUom})
	if err != nil {
		return price, fmt.Errorf("load units: %w", err)
	}
	var from, to *catalog.UnitOfMeasure
	for i := range uoms {
		switch uoms[i].ID {
		case product.UomID:
			from = &uoms[i]
		case lineUom:
			to = &uoms[i]
		}
	}
	if from == nil || to == nil || from.Category != to.Category || !to.Factor.IsPositive() {
		return price, nil
	}
	// one line unit holds from.Factor/to.Factor product units
	return price.Mul(from.Factor).Div(to.Factor).Round(4), nil
}
