package partner

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

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	companyRepo    partner.CompanyRepository
	pricelistRepo  catalog.PricelistRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	companyRepo partner.CompanyRepository,
	pricelistRepo catalog.PricelistRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		companyRepo:   companyRepo,
		pricelistRepo: pricelistRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Email != "" || req.Phone != "" {
		if err := customer.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if err := s.applyRefs(ctx, customer, req.CompanyID, req.PricelistID); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	events := customer.GetDomainEvents()
	customer.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish customer events", zap.Error(err))
		}
	}

	s.logger.Info("customer created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code),
	)
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer with its exclusive products.
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.CompanyID != nil {
		domainFilter.Filters["company_id"] = *filter.CompanyID
	}
	if filter.PricelistID != nil {
		domainFilter.Filters["pricelist_id"] = *filter.PricelistID
	}

	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, total, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil {
		phone, email := customer.Phone, customer.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if err := s.applyRefs(ctx, customer, req.CompanyID, req.PricelistID); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *CustomerService) applyRefs(ctx context.Context, customer *partner.Customer, companyID, pricelistID *uuid.UUID) error {
	if companyID != nil {
		if _, err := s.companyRepo.FindByIDForTenant(ctx, customer.TenantID, *companyID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_COMPANY", "Company not found")
			}
			return err
		}
		customer.SetCompany(companyID)
	}
	if pricelistID != nil {
		if _, err := s.pricelistRepo.FindByIDForTenant(ctx, customer.TenantID, *pricelistID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_PRICELIST", "Pricelist not found")
			}
			return err
		}
		customer.SetPricelist(pricelistID)
	}
	return nil
}
