package trade

import (
	"context"
	"fmt"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/google/uuid"
)

// ProductSelectionService evaluates which products may be put on a sales
// document for a customer.
type ProductSelectionService struct {
	customerRepo partner.CustomerRepository
	productRepo  catalog.ProductRepository
	resolver     catalog.HierarchyResolver
}

func NewProductSelectionService(
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	resolver catalog.HierarchyResolver,
) *ProductSelectionService {
	return &ProductSelectionService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		resolver:     resolver,
	}
}

// DomainFor returns the selection predicate of a customer; nil means no customer.
func DomainFor(customer *partner.Customer) catalog.ProductDomain {
	if customer == nil {
		return catalog.SelectionDomain(nil)
	}
	return catalog.SelectionDomain(customer.ExclusiveProductIDs)
}

// Selection returns the predicate for the customer together with the
// matching products.
func (s *ProductSelectionService) Selection(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID) (*SelectionResponse, error) {
	var customer *partner.Customer
	if customerID != nil {
		c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, *customerID)
		if err != nil {
			return nil, err
		}
		customer = c
	}
	domain := DomainFor(customer)
	products, err := s.Products(ctx, tenantID, domain)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return &SelectionResponse{CustomerID: customerID, Domain: domain.Terms(), ProductIDs: ids}, nil
}

// Products returns the active products matching domain, ordered by code.
func (s *ProductSelectionService) Products(ctx context.Context, tenantID uuid.UUID, domain catalog.ProductDomain) ([]catalog.Product, error) {
	criteria, err := domain.Resolve(ctx, tenantID, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("resolve product domain: %w", err)
	}
	if criteria.Empty() {
		return nil, nil
	}
	return s.productRepo.FindByCriteria(ctx, tenantID, criteria)
}

// Matches evaluates domain against one loaded product.
func (s *ProductSelectionService) Matches(ctx context.Context, tenantID uuid.UUID, domain catalog.ProductDomain, product *catalog.Product) (bool, error) {
	criteria, err := domain.Resolve(ctx, tenantID, s.resolver)
	if err != nil {
		return false, fmt.Errorf("resolve product domain: %w", err)
	}
	return criteria.Matches(product), nil
}
