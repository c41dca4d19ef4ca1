package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExclusivityService edits the product/customer exclusivity relation from
// either side. Products own the relation: customer-side edits are applied by
// saving every affected product in one transaction.
type ExclusivityService struct {
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

func NewExclusivityService(
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ExclusivityService {
	return &ExclusivityService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ExclusivityService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetProductPartners replaces the customers allowed to buy a product.
func (s *ExclusivityService) SetProductPartners(ctx context.Context, tenantID, productID uuid.UUID, partnerIDs []uuid.UUID) (*ProductResponse, error) {
	if err := checkCustomers(ctx, s.customerRepo, tenantID, partnerIDs); err != nil {
		return nil, err
	}
	return s.editProduct(ctx, tenantID, productID, func(p *catalog.Product) bool {
		return p.SetExclusivePartners(partnerIDs)
	})
}

// AddProductPartner allows one more customer to buy a product.
func (s *ExclusivityService) AddProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*ProductResponse, error) {
	if err := checkCustomers(ctx, s.customerRepo, tenantID, []uuid.UUID{partnerID}); err != nil {
		return nil, err
	}
	return s.editProduct(ctx, tenantID, productID, func(p *catalog.Product) bool {
		return p.AddExclusivePartner(partnerID)
	})
}

// RemoveProductPartner takes a customer off the allow-list of a product.
// Removing the last customer makes the product non-exclusive again.
func (s *ExclusivityService) RemoveProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*ProductResponse, error) {
	return s.editProduct(ctx, tenantID, productID, func(p *catalog.Product) bool {
		return p.RemoveExclusivePartner(partnerID)
	})
}

func (s *ExclusivityService) editProduct(ctx context.Context, tenantID, productID uuid.UUID, edit func(*catalog.Product) bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if edit(product) {
		if err := s.productRepo.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("save product: %w", err)
		}
		s.logger.Info("product exclusivity changed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", product.ID.String()),
			zap.Int("partners", len(product.ExclusivePartnerIDs)),
			zap.Bool("exclusive_ok", product.ExclusiveOk),
		)
		publishEvents(ctx, s.eventPublisher, s.logger, product)
	}
	response := ToProductResponse(product)
	return &response, nil
}

// SetCustomerProducts replaces the exclusive products allowed to a customer.
// Every affected product is saved in one transaction; an error leaves the
// relation unchanged.
func (s *ExclusivityService) SetCustomerProducts(ctx context.Context, tenantID, customerID uuid.UUID, productIDs []uuid.UUID) (*ExclusiveProductsResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	add, remove := customer.PlanExclusiveProducts(productIDs)

	var changed []*catalog.Product
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		apply := func(ids []uuid.UUID, edit func(*catalog.Product) bool) error {
			for _, id := range ids {
				product, err := products.FindByIDForTenant(ctx, tenantID, id)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", id))
					}
					return err
				}
				if !edit(product) {
					continue
				}
				if err := products.Save(ctx, product); err != nil {
					return fmt.Errorf("save product %s: %w", id, err)
				}
				changed = append(changed, product)
			}
			return nil
		}
		if err := apply(add, func(p *catalog.Product) bool { return p.AddExclusivePartner(customerID) }); err != nil {
			return err
		}
		return apply(remove, func(p *catalog.Product) bool { return p.RemoveExclusivePartner(customerID) })
	})
	if err != nil {
		s.logger.Error("failed to update customer exclusive products",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	for _, p := range changed {
		publishEvents(ctx, s.eventPublisher, s.logger, p)
	}
	s.logger.Info("customer exclusive products updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int("added", len(add)),
		zap.Int("removed", len(remove)),
	)

	current := make([]uuid.UUID, 0, len(customer.ExclusiveProductIDs)+len(add))
	removed := make(map[uuid.UUID]struct{}, len(remove))
	for _, id := range remove {
		removed[id] = struct{}{}
	}
	for _, id := range customer.ExclusiveProductIDs {
		if _, ok := removed[id]; !ok {
			current = append(current, id)
		}
	}
	current = append(current, add...)
	return &ExclusiveProductsResponse{
		CustomerID: customerID,
		ProductIDs: current,
		Added:      nonNil(add),
		Removed:    nonNil(remove),
	}, nil
}

// checkCustomers fails with NOT_FOUND when one of ids is not a customer of the tenant.
func checkCustomers(ctx context.Context, repo partner.CustomerRepository, tenantID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, err := repo.FindByIDForTenant(ctx, tenantID, id); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Customer %s not found", id))
			}
			return err
		}
	}
	return nil
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
