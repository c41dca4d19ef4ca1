package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// ReferencePriceRefresher recomputes the stored reference prices of products.
type ReferencePriceRefresher struct {
	categoryRepo  catalog.CategoryRepository
	pricelistRepo catalog.PricelistRepository
	now           func() time.Time
}

func NewReferencePriceRefresher(categoryRepo catalog.CategoryRepository, pricelistRepo catalog.PricelistRepository) *ReferencePriceRefresher {
	return &ReferencePriceRefresher{
		categoryRepo:  categoryRepo,
		pricelistRepo: pricelistRepo,
		now:           time.Now,
	}
}

// Refresh computes the product's price under every pricelist of its tenant.
// The product is modified in place and not saved.
func (r *ReferencePriceRefresher) Refresh(ctx context.Context, product *catalog.Product) error {
	pricelists, err := r.pricelistRepo.FindAllForTenant(ctx, product.TenantID)
	if err != nil {
		return fmt.Errorf("load pricelists: %w", err)
	}
	if len(pricelists) == 0 {
		return nil
	}
	ptrs := make([]*catalog.Pricelist, len(pricelists))
	for i := range pricelists {
		ptrs[i] = &pricelists[i]
	}
	category, err := r.category(ctx, product.TenantID, product.CategoryID)
	if err != nil {
		return err
	}
	catalog.RefreshReferencePrices(product, category, ptrs, r.now())
	return nil
}

// RefreshFor computes the product's price under a single pricelist.
func (r *ReferencePriceRefresher) RefreshFor(ctx context.Context, product *catalog.Product, pricelist *catalog.Pricelist, at time.Time) error {
	category, err := r.category(ctx, product.TenantID, product.CategoryID)
	if err != nil {
		return err
	}
	catalog.RefreshReferencePrices(product, category, []*catalog.Pricelist{pricelist}, at)
	return nil
}

// category returns nil for uncategorized products and dangling category references.
func (r *ReferencePriceRefresher) category(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) (*catalog.Category, error) {
	if categoryID == nil {
		return nil, nil
	}
	category, err := r.categoryRepo.FindByIDForTenant(ctx, tenantID, *categoryID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return category, nil
}
