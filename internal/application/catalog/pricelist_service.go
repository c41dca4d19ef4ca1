package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const refreshPageSize = 100

// PricelistService manages pricelists and their reference prices.
type PricelistService struct {
	pricelistRepo catalog.PricelistRepository
	productRepo   catalog.ProductRepository
	refresher     *ReferencePriceRefresher
	txScope       TransactionScope
	logger        *zap.Logger
}

func NewPricelistService(
	pricelistRepo catalog.PricelistRepository,
	productRepo catalog.ProductRepository,
	refresher *ReferencePriceRefresher,
	txScope TransactionScope,
	logger *zap.Logger,
) *PricelistService {
	return &PricelistService{
		pricelistRepo: pricelistRepo,
		productRepo:   productRepo,
		refresher:     refresher,
		txScope:       txScope,
		logger:        logger,
	}
}

// Create creates a pricelist with its rules.
func (s *PricelistService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePricelistRequest) (*PricelistResponse, error) {
	pricelist, err := catalog.NewPricelist(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	pricelist.CompanyID = req.CompanyID
	if req.Sequence != nil {
		pricelist.Sequence = *req.Sequence
	}
	for _, item := range req.Items {
		if _, err := pricelist.AddItem(item.ToDomain()); err != nil {
			return nil, err
		}
	}
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, fmt.Errorf("save pricelist: %w", err)
	}
	s.logger.Info("pricelist created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("pricelist_id", pricelist.ID.String()),
		zap.Int("items", len(pricelist.Items)),
	)
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

func (s *PricelistService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PricelistResponse, error) {
	pricelist, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// List returns the tenant's pricelists in priority order.
func (s *PricelistService) List(ctx context.Context, tenantID uuid.UUID) ([]PricelistResponse, error) {
	pricelists, err := s.pricelistRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]PricelistResponse, len(pricelists))
	for i := range pricelists {
		out[i] = ToPricelistResponse(&pricelists[i])
	}
	return out, nil
}

// AddItem appends a rule to a pricelist.
func (s *PricelistService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req PricelistItemRequest) (*PricelistResponse, error) {
	pricelist, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := pricelist.AddItem(req.ToDomain()); err != nil {
		return nil, err
	}
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, fmt.Errorf("save pricelist: %w", err)
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

func (s *PricelistService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*PricelistResponse, error) {
	pricelist, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := pricelist.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.pricelistRepo.Save(ctx, pricelist); err != nil {
		return nil, fmt.Errorf("save pricelist: %w", err)
	}
	response := ToPricelistResponse(pricelist)
	return &response, nil
}

// RefreshReferencePrices recomputes the reference price of every product of
// the tenant under one pricelist, creating missing entries.
func (s *PricelistService) RefreshReferencePrices(ctx context.Context, tenantID, id uuid.UUID) (*RefreshReferencePricesResponse, error) {
	pricelist, err := s.pricelistRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	at := time.Now()
	count := 0
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		products := repos.ProductRepo()
		filter := shared.DefaultFilter()
		filter.PageSize = refreshPageSize
		filter.OrderBy = "code"
		filter.OrderDir = "asc"
		for {
			page, total, err := products.FindAllForTenant(ctx, tenantID, filter)
			if err != nil {
				return fmt.Errorf("load products: %w", err)
			}
			for i := range page {
				if err := s.refresher.RefreshFor(ctx, &page[i], pricelist, at); err != nil {
					return err
				}
				if err := products.Save(ctx, &page[i]); err != nil {
					return fmt.Errorf("save product %s: %w", page[i].ID, err)
				}
				count++
			}
			if len(page) == 0 || int64(filter.Page*filter.PageSize) >= total {
				return nil
			}
			filter.Page++
		}
	})
	if err != nil {
		s.logger.Error("failed to refresh reference prices",
			zap.String("pricelist_id", id.String()),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("reference prices refreshed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("pricelist_id", id.String()),
		zap.Int("products", count),
	)
	return &RefreshReferencePricesResponse{PricelistID: id, Products: count, ComputedAt: at}, nil
}
