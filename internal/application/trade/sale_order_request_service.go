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
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a validate Idempotency-Key is remembered.
const DefaultIdempotencyTTL = 24 * time.Hour

// SaleOrderRequestService drives the sale order request wizard.
type SaleOrderRequestService struct {
	requestRepo    trade.SaleOrderRequestRepository
	orderRepo      trade.SalesOrderRepository
	customerRepo   partner.CustomerRepository
	productRepo    catalog.ProductRepository
	uomRepo        catalog.UomRepository
	selection      *ProductSelectionService
	pricing        *PricingService
	txScope        TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

func NewSaleOrderRequestService(
	requestRepo trade.SaleOrderRequestRepository,
	orderRepo trade.SalesOrderRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	uomRepo catalog.UomRepository,
	selection *ProductSelectionService,
	pricing *PricingService,
	txScope TransactionScope,
	logger *zap.Logger,
) *SaleOrderRequestService {
	return &SaleOrderRequestService{
		requestRepo:    requestRepo,
		orderRepo:      orderRepo,
		customerRepo:   customerRepo,
		productRepo:    productRepo,
		uomRepo:        uomRepo,
		selection:      selection,
		pricing:        pricing,
		txScope:        txScope,
		idempotencyTTL: DefaultIdempotencyTTL,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleOrderRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables Idempotency-Key handling on Validate.
func (s *SaleOrderRequestService) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// Create opens a draft request and applies the initial values the same way
// interactive edits are applied.
func (s *SaleOrderRequestService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSaleOrderRequestRequest) (*SaleOrderRequestResponse, error) {
	r := trade.NewSaleOrderRequest(tenantID, nil)
	patch := UpdateSaleOrderRequestRequest{
		CompanyID:   req.CompanyID,
		CategoryIDs: req.CategoryIDs,
		ProductID:   req.ProductID,
		Exclusive:   req.Exclusive,
		PartnerID:   req.PartnerID,
		CustomerID:  req.CustomerID,
		PricelistID: req.PricelistID,
	}
	if req.Filter != "" {
		patch.Filter = &req.Filter
	}
	if err := s.applyPatch(ctx, r, patch); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save sale order request: %w", err)
	}
	s.logger.Info("sale order request created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("request_id", r.ID.String()),
		zap.String("filter", string(r.Filter)),
	)
	return s.respond(ctx, r)
}

func (s *SaleOrderRequestService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleOrderRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, r)
}

// Update applies onchange edits.
func (s *SaleOrderRequestService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSaleOrderRequestRequest) (*SaleOrderRequestResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *trade.SaleOrderRequest) error {
		return s.applyPatch(ctx, r, req)
	})
}

// applyPatch runs the edits with their reactions: the filter cleans up the
// fields it does not use, the history customer becomes the quotation
// customer, and a customer brings its pricelist.
func (s *SaleOrderRequestService) applyPatch(ctx context.Context, r *trade.SaleOrderRequest, req UpdateSaleOrderRequestRequest) error {
	if req.Filter != nil {
		if err := r.ChangeFilter(trade.RequestFilter(*req.Filter)); err != nil {
			return err
		}
	}
	switch {
	case req.ClearCompany:
		if err := r.SetCompany(nil); err != nil {
			return err
		}
	case req.CompanyID != nil:
		if err := r.SetCompany(req.CompanyID); err != nil {
			return err
		}
	}
	if req.CategoryIDs != nil {
		if err := r.SetCategories(req.CategoryIDs); err != nil {
			return err
		}
	}
	switch {
	case req.ClearProduct:
		if err := r.SetProduct(nil); err != nil {
			return err
		}
	case req.ProductID != nil:
		if _, err := s.loadProduct(ctx, r.TenantID, *req.ProductID); err != nil {
			return err
		}
		if err := r.SetProduct(req.ProductID); err != nil {
			return err
		}
	}
	if req.Exclusive != nil {
		if err := r.SetExclusive(*req.Exclusive); err != nil {
			return err
		}
	}
	switch {
	case req.ClearPartner:
		if err := r.SetPartner(nil, nil); err != nil {
			return err
		}
	case req.PartnerID != nil:
		c, err := s.loadCustomer(ctx, r.TenantID, *req.PartnerID)
		if err != nil {
			return err
		}
		if err := r.SetPartner(&c.ID, c.PricelistID); err != nil {
			return err
		}
	}
	switch {
	case req.ClearCustomer:
		if err := r.SetCustomer(nil, nil); err != nil {
			return err
		}
	case req.CustomerID != nil:
		c, err := s.loadCustomer(ctx, r.TenantID, *req.CustomerID)
		if err != nil {
			return err
		}
		if err := r.SetCustomer(&c.ID, c.PricelistID); err != nil {
			return err
		}
	}
	switch {
	case req.ClearPricelist:
		return r.SetPricelist(nil)
	case req.PricelistID != nil:
		return r.SetPricelist(req.PricelistID)
	}
	return nil
}

// UpdateLines edits quantities, units and products of lines and adds manual lines.
func (s *SaleOrderRequestService) UpdateLines(ctx context.Context, tenantID, id uuid.UUID, req UpdateRequestLinesRequest) (*SaleOrderRequestResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *trade.SaleOrderRequest) error {
		for _, in := range req.Lines {
			if err := s.applyLine(ctx, r, in); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SaleOrderRequestService) applyLine(ctx context.Context, r *trade.SaleOrderRequest, in RequestLineInput) error {
	if in.ID == nil {
		if in.ProductID == nil {
			return shared.NewDomainError("INVALID_LINE", "A new request line needs a product")
		}
		product, err := s.manualProduct(ctx, r, *in.ProductID)
		if err != nil {
			return err
		}
		uomID := product.UomID
		if in.UomID != nil {
			if err := s.checkUom(ctx, product, *in.UomID); err != nil {
				return err
			}
			uomID = *in.UomID
		}
		qty := decimal.Zero
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		_, err = r.AddLine(product.ID, uomID, qty)
		return err
	}

	lineID := *in.ID
	if in.Delete {
		return r.RemoveLine(lineID)
	}
	line := r.Line(lineID)
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Request line not found")
	}
	if in.ProductID != nil && *in.ProductID != line.ProductID {
		product, err := s.manualProduct(ctx, r, *in.ProductID)
		if err != nil {
			return err
		}
		if err := r.ChangeLineProduct(lineID, product); err != nil {
			return err
		}
	}
	if in.UomID != nil && *in.UomID != line.UomID {
		product, err := s.loadProduct(ctx, r.TenantID, line.ProductID)
		if err != nil {
			return err
		}
		if err := s.checkUom(ctx, product, *in.UomID); err != nil {
			return err
		}
		if err := r.SetLineUom(lineID, *in.UomID); err != nil {
			return err
		}
	}
	if in.Quantity != nil {
		return r.SetLineQuantity(lineID, *in.Quantity)
	}
	return nil
}

// manualProduct loads a product picked by hand and checks it against the
// manual line predicate of the request.
func (s *SaleOrderRequestService) manualProduct(ctx context.Context, r *trade.SaleOrderRequest, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.loadProduct(ctx, r.TenantID, productID)
	if err != nil {
		return nil, err
	}
	domain, err := s.manualDomain(ctx, r)
	if err != nil {
		return nil, err
	}
	ok, err := s.selection.Matches(ctx, r.TenantID, domain, product)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotSelectable
	}
	return product, nil
}

func (s *SaleOrderRequestService) manualDomain(ctx context.Context, r *trade.SaleOrderRequest) (catalog.ProductDomain, error) {
	var allowList []uuid.UUID
	if r.Exclusive && r.PartnerID != nil {
		c, err := s.loadCustomer(ctx, r.TenantID, *r.PartnerID)
		if err != nil {
			return catalog.ProductDomain{}, err
		}
		allowList = c.ExclusiveProductIDs
	}
	return r.ManualLineDomain(allowList), nil
}

func (s *SaleOrderRequestService) checkUom(ctx context.Context, product *catalog.Product, uomID uuid.UUID) error {
	allowed, category, err := s.allowedUoms(ctx, product)
	if err != nil {
		return err
	}
	for _, id := range allowed {
		if id == uomID {
			return nil
		}
	}
	return shared.NewDomainError("UOM_CATEGORY_MISMATCH", "Unit must belong to the "+category+" category of the product unit")
}

func (s *SaleOrderRequestService) allowedUoms(ctx context.Context, product *catalog.Product) ([]uuid.UUID, string, error) {
	uom, err := s.uomRepo.FindByIDForTenant(ctx, product.TenantID, product.UomID)
	if err != nil {
		return nil, "", fmt.Errorf("load product unit: %w", err)
	}
	uoms, err := s.uomRepo.FindByCategory(ctx, product.TenantID, uom.Category)
	if err != nil {
		return nil, "", fmt.Errorf("load units: %w", err)
	}
	ids := make([]uuid.UUID, len(uoms))
	for i := range uoms {
		ids[i] = uoms[i].ID
	}
	return ids, uom.Category, nil
}

// LineUomDomain returns the units a line may use: those of the category of
// its product's unit.
func (s *SaleOrderRequestService) LineUomDomain(ctx context.Context, tenantID, id, lineID uuid.UUID) (*UomDomainResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	line := r.Line(lineID)
	if line == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Request line not found")
	}
	product, err := s.loadProduct(ctx, tenantID, line.ProductID)
	if err != nil {
		return nil, err
	}
	allowed, category, err := s.allowedUoms(ctx, product)
	if err != nil {
		return nil, err
	}
	return &UomDomainResponse{
		LineID:        line.ID,
		ProductID:     product.ID,
		UomID:         product.UomID,
		UomCategory:   category,
		AllowedUomIDs: allowed,
	}, nil
}

// Start moves the request to confirm and generates its lines when it has
// none and the filter is not partial. Starting a done request does nothing.
func (s *SaleOrderRequestService) Start(ctx context.Context, tenantID, id uuid.UUID) (*SaleOrderRequestResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *trade.SaleOrderRequest) error {
		if r.State == trade.RequestStateDone {
			return errNoChange
		}
		var candidates []catalog.Product
		if r.NeedsPopulation() {
			var sold []uuid.UUID
			if r.PartnerID != nil {
				ids, err := s.orderRepo.SoldProductIDs(ctx, r.TenantID, *r.PartnerID)
				if err != nil {
					return fmt.Errorf("load previously sold products: %w", err)
				}
				sold = ids
			}
			products, err := s.selection.Products(ctx, r.TenantID, r.LineDomain(sold))
			if err != nil {
				return err
			}
			candidates = products
		}
		r.Start(candidates)
		s.logger.Info("sale order request started",
			zap.String("request_id", r.ID.String()),
			zap.String("filter", string(r.Filter)),
			zap.Int("lines", len(r.Lines)),
		)
		return nil
	})
}

// CancelDraft drops all lines and returns the request to draft.
func (s *SaleOrderRequestService) CancelDraft(ctx context.Context, tenantID, id uuid.UUID) (*SaleOrderRequestResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *trade.SaleOrderRequest) error {
		r.CancelDraft()
		return nil
	})
}

// ResetProductQty sets every line quantity to zero.
func (s *SaleOrderRequestService) ResetProductQty(ctx context.Context, tenantID, id uuid.UUID) (*SaleOrderRequestResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *trade.SaleOrderRequest) error {
		return r.ResetProductQty()
	})
}

// Validate turns the lines with a quantity into one quotation and marks the
// request done, in one transaction. Without a customer it fails with
// CUSTOMER_REQUIRED. When no line has a quantity nothing is written and the
// returned Order is nil. A non-empty idempotencyKey already seen fails with
// CONFLICT; the key is released again when no quotation was created.
func (s *SaleOrderRequestService) Validate(ctx context.Context, tenantID, id uuid.UUID, idempotencyKey string) (*ValidateResponse, error) {
	key := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = "sale-order-request:validate:" + tenantID.String() + ":" + idempotencyKey
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("record idempotency key: %w", err)
		}
		if !fresh {
			return nil, shared.ErrConflict
		}
	}

	var (
		request *trade.SaleOrderRequest
		order   *trade.SalesOrder
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.RequestRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		request = r
		if r.CustomerID == nil {
			return trade.ErrCustomerRequired
		}
		if r.State == trade.RequestStateDone {
			return shared.NewDomainError("INVALID_STATE", "Cannot validate a request in done state")
		}

		uoms, err := s.uomMap(ctx, tenantID, r.UomIDs())
		if err != nil {
			return err
		}
		qualifying := r.QualifyingLines(uoms)
		if len(qualifying) == 0 {
			return nil
		}
		products, err := s.productMap(ctx, tenantID, qualifying)
		if err != nil {
			return err
		}
		descriptions := make(map[uuid.UUID]string, len(products))
		for pid, p := range products {
			descriptions[pid] = p.MultilineDescription()
		}

		orderNumber, err := repos.SalesOrderRepo().NextOrderNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		o, err := r.BuildQuotation(orderNumber, uoms, descriptions)
		if err != nil || o == nil {
			return err
		}
		if err := s.applyReactions(ctx, o, products); err != nil {
			return err
		}
		if err := repos.SalesOrderRepo().Save(ctx, o); err != nil {
			return fmt.Errorf("save quotation: %w", err)
		}
		if err := r.MarkDone(o); err != nil {
			return err
		}
		if err := repos.RequestRepo().Save(ctx, r); err != nil {
			return fmt.Errorf("save sale order request: %w", err)
		}
		order = o
		return nil
	})
	if err != nil || order == nil {
		s.releaseKey(ctx, key)
	}
	if err != nil {
		if !errors.Is(err, trade.ErrCustomerRequired) {
			s.logger.Error("failed to validate sale order request",
				zap.String("request_id", id.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	resp := &ValidateResponse{}
	if order != nil {
		publishEvents(ctx, s.eventPublisher, s.logger, order, request)
		orderResp := ToSalesOrderResponse(order)
		resp.Order = &orderResp
		s.logger.Info("sale order request validated",
			zap.String("request_id", request.ID.String()),
			zap.String("order_id", order.ID.String()),
			zap.Int("lines", len(order.Lines)),
		)
	}
	reqResp, err := s.respond(ctx, request)
	if err != nil {
		return nil, err
	}
	resp.Request = *reqResp
	return resp, nil
}

// releaseKey forgets a validate key so a retry with the same key can run.
func (s *SaleOrderRequestService) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotency.Forget(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// applyReactions runs the customer change reaction when the request set no
// pricelist, keeping the request company, then the product change reaction
// on every line.
func (s *SaleOrderRequestService) applyReactions(ctx context.Context, order *trade.SalesOrder, products map[uuid.UUID]*catalog.Product) error {
	if order.PricelistID == nil {
		customer, err := s.loadCustomer(ctx, order.TenantID, order.CustomerID)
		if err != nil {
			return err
		}
		companyID := order.CompanyID
		if err := s.pricing.ApplyCustomer(ctx, order, customer); err != nil {
			return err
		}
		if companyID != nil {
			order.CompanyID = companyID
		}
	}
	pricer, err := s.pricing.ForOrder(ctx, order)
	if err != nil {
		return err
	}
	for _, line := range order.Lines {
		product := products[line.ProductID]
		if product == nil {
			continue
		}
		if err := pricer.ApplyProduct(ctx, line.ID, product); err != nil {
			return err
		}
	}
	return nil
}

func (s *SaleOrderRequestService) uomMap(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.UnitOfMeasure, error) {
	out := make(map[uuid.UUID]*catalog.UnitOfMeasure, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	uoms, err := s.uomRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	for i := range uoms {
		out[uoms[i].ID] = &uoms[i]
	}
	return out, nil
}

func (s *SaleOrderRequestService) productMap(ctx context.Context, tenantID uuid.UUID, lines []trade.RequestLine) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

// errNoChange aborts a mutation without saving.
var errNoChange = errors.New("no change")

// mutate loads a request, applies fn and saves it. Events are published
// after the save.
func (s *SaleOrderRequestService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(r *trade.SaleOrderRequest) error) (*SaleOrderRequestResponse, error) {
	r, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		if errors.Is(err, errNoChange) {
			return s.respond(ctx, r)
		}
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save sale order request: %w", err)
	}
	publishEvents(ctx, s.eventPublisher, s.logger, r)
	return s.respond(ctx, r)
}

func (s *SaleOrderRequestService) respond(ctx context.Context, r *trade.SaleOrderRequest) (*SaleOrderRequestResponse, error) {
	domain, err := s.manualDomain(ctx, r)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	response := ToSaleOrderRequestResponse(r, domain.Terms())
	return &response, nil
}

func (s *SaleOrderRequestService) loadCustomer(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Customer %s not found", id))
		}
		return nil, err
	}
	return c, nil
}

func (s *SaleOrderRequestService) loadProduct(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", id))
		}
		return nil, err
	}
	return p, nil
}
