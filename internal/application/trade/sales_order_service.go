package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProductNotSelectable is returned when a line product is outside the
// selection predicate of the order customer.
var ErrProductNotSelectable = shared.NewDomainError("PRODUCT_NOT_SELECTABLE", "Product cannot be sold to this customer")

// SalesOrderService handles sales order business operations
type SalesOrderService struct {
	orderRepo      trade.SalesOrderRepository
	customerRepo   partner.CustomerRepository
	productRepo    catalog.ProductRepository
	selection      *ProductSelectionService
	pricing        *PricingService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(
	orderRepo trade.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	selection *ProductSelectionService,
	pricing *PricingService,
	logger *zap.Logger,
) *SalesOrderService {
	return &SalesOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		selection:    selection,
		pricing:      pricing,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SalesOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a quotation for a customer. Every line product must be
// selectable for that customer.
func (s *SalesOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	orderNumber, err := s.orderRepo.NextOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewSalesOrder(tenantID, orderNumber, customer.ID)
	if err != nil {
		return nil, err
	}
	if err := s.pricing.ApplyCustomer(ctx, order, customer); err != nil {
		return nil, err
	}

	pricer, err := s.pricing.ForOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	domain := DomainFor(customer)
	for _, in := range req.Lines {
		if err := s.addLine(ctx, order, pricer, domain, in); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save sales order: %w", err)
	}
	s.publish(ctx, order)
	s.logger.Info("quotation created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Lines)),
	)

	response := ToSalesOrderResponse(order)
	response.ProductDomain = domain.Terms()
	return &response, nil
}

// ChangeCustomer runs the customer change reaction and returns the new
// selection predicate. Existing lines are kept as they are.
func (s *SalesOrderService) ChangeCustomer(ctx context.Context, tenantID, orderID uuid.UUID, req ChangeCustomerRequest) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.pricing.ApplyCustomer(ctx, order, customer); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save sales order: %w", err)
	}
	response := ToSalesOrderResponse(order)
	response.ProductDomain = DomainFor(customer).Terms()
	return &response, nil
}

// AddLine adds a line to a quotation after checking the product against the
// customer's selection predicate, then prices it.
func (s *SalesOrderService) AddLine(ctx context.Context, tenantID, orderID uuid.UUID, in SalesOrderLineInput) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, order.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	pricer, err := s.pricing.ForOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	domain := DomainFor(customer)
	if err := s.addLine(ctx, order, pricer, domain, in); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save sales order: %w", err)
	}
	response := ToSalesOrderResponse(order)
	response.ProductDomain = domain.Terms()
	return &response, nil
}

func (s *SalesOrderService) addLine(ctx context.Context, order *trade.SalesOrder, pricer *OrderPricer, domain catalog.ProductDomain, in SalesOrderLineInput) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, order.TenantID, in.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Product %s not found", in.ProductID))
		}
		return err
	}
	ok, err := s.selection.Matches(ctx, order.TenantID, domain, product)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotSelectable
	}
	uomID := uuid.Nil
	if in.UomID != nil {
		uomID = *in.UomID
	}
	line, err := order.AddLine(product.ID, uomID, in.Quantity, trade.WithName(in.Name))
	if err != nil {
		return err
	}
	return pricer.ApplyProduct(ctx, line.ID, product)
}

// GetByID retrieves a sales order by ID
func (s *SalesOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// List retrieves a list of sales orders with filtering and pagination
func (s *SalesOrderService) List(ctx context.Context, tenantID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.RequestID != nil {
		domainFilter.Filters["request_id"] = *filter.RequestID
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}

	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToSalesOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Confirm turns a quotation into a sales order
func (s *SalesOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, tenantID, orderID, "confirmed", (*trade.SalesOrder).Confirm)
}

// Cancel cancels a quotation or sales order
func (s *SalesOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, tenantID, orderID, "cancelled", (*trade.SalesOrder).Cancel)
}

func (s *SalesOrderService) transition(ctx context.Context, tenantID, orderID uuid.UUID, verb string, apply func(*trade.SalesOrder) error) (*SalesOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := apply(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save sales order: %w", err)
	}
	s.publish(ctx, order)
	s.logger.Info("sales order "+verb,
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	response := ToSalesOrderResponse(order)
	return &response, nil
}

func (s *SalesOrderService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	publishEvents(ctx, s.eventPublisher, s.logger, aggregates...)
}

// publishEvents sends and clears pending events once the aggregates are
// committed. Failures are logged only.
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
