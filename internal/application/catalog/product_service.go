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

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	uomRepo        catalog.UomRepository
	customerRepo   partner.CustomerRepository
	refresher      *ReferencePriceRefresher
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	uomRepo catalog.UomRepository,
	customerRepo partner.CustomerRepository,
	refresher *ReferencePriceRefresher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uomRepo:      uomRepo,
		customerRepo: customerRepo,
		refresher:    refresher,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product and computes its reference prices.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}
	if _, err := s.uomRepo.FindByIDForTenant(ctx, tenantID, req.UomID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure not found")
		}
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.UomID)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.SaleDescription != "" {
		if err := product.Update(req.Name, req.Description, req.SaleDescription); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.CompanyID != nil {
		product.SetCompany(req.CompanyID)
	}
	if req.ListPrice != nil {
		if err := product.SetListPrice(*req.ListPrice); err != nil {
			return nil, err
		}
	}
	if req.SaleOk != nil {
		product.SetSaleOk(*req.SaleOk)
	}
	if err := product.SetSubunits(req.Subunits); err != nil {
		return nil, err
	}
	if len(req.ExclusivePartnerIDs) > 0 {
		if err := checkCustomers(ctx, s.customerRepo, tenantID, req.ExclusivePartnerIDs); err != nil {
			return nil, err
		}
		product.SetExclusivePartners(req.ExclusivePartnerIDs)
	}

	if err := s.refresher.Refresh(ctx, product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)

	s.logger.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
		zap.Bool("exclusive_ok", product.ExclusiveOk),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "code"
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.SaleOk != nil {
		domainFilter.Filters["sale_ok"] = *filter.SaleOk
	}
	if filter.ExclusiveOk != nil {
		domainFilter.Filters["exclusive_ok"] = *filter.ExclusiveOk
	}
	if filter.ExclusivePartnerID != nil {
		domainFilter.Filters["exclusive_partner_id"] = *filter.ExclusivePartnerID
	}

	products, total, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates a product. Reference prices are recomputed when a field
// they depend on changes.
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.SaleDescription != nil {
		name, description, saleDescription := product.Name, product.Description, product.SaleDescription
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.SaleDescription != nil {
			saleDescription = *req.SaleDescription
		}
		if err := product.Update(name, description, saleDescription); err != nil {
			return nil, err
		}
	}

	repriced := false
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
		repriced = true
	}
	if req.CompanyID != nil {
		product.SetCompany(req.CompanyID)
	}
	if req.UomID != nil {
		if _, err := s.uomRepo.FindByIDForTenant(ctx, tenantID, *req.UomID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure not found")
			}
			return nil, err
		}
		if err := product.SetUom(*req.UomID); err != nil {
			return nil, err
		}
	}
	if req.ListPrice != nil {
		if err := product.SetListPrice(*req.ListPrice); err != nil {
			return nil, err
		}
		repriced = true
	}
	if req.SaleOk != nil {
		product.SetSaleOk(*req.SaleOk)
	}
	if req.Subunits != nil {
		if err := product.SetSubunits(*req.Subunits); err != nil {
			return nil, err
		}
	}

	if repriced {
		if err := s.refresher.Refresh(ctx, product); err != nil {
			return nil, err
		}
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Activate makes an archived product selectable again.
func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Activate)
}

// Deactivate archives a product. Archived products are never selectable.
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Deactivate)
}

func (s *ProductService) changeStatus(ctx context.Context, tenantID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product together with its exclusivity rows and reference prices.
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}
	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}

func (s *ProductService) checkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

// publish sends and clears the pending events of product. Failures are logged
// since the product is already committed.
func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	publishEvents(ctx, s.eventPublisher, s.logger, product)
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		agg.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			logger.Error("failed to publish domain events",
				zap.String("aggregate_id", agg.GetID().String()),
				zap.Int("events", len(events)),
				zap.Error(err),
			)
		}
	}
}
