package catalog

import (
	"context"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence.
// Loaded products carry their exclusive partner set and reference prices.
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	// FindByCriteria returns every product matching the criteria, ordered by code.
	FindByCriteria(ctx context.Context, tenantID uuid.UUID, criteria ProductCriteria) ([]Product, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// Save upserts the product and rewrites its exclusive partner rows.
	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Category, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// SubtreeIDs returns the given categories and all their descendants.
	SubtreeIDs(ctx context.Context, tenantID uuid.UUID, roots []uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, category *Category) error
}

// UomRepository persists units of measure.
type UomRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*UnitOfMeasure, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]UnitOfMeasure, error)
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]UnitOfMeasure, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]UnitOfMeasure, error)
	Save(ctx context.Context, uom *UnitOfMeasure) error
}

// PricelistRepository persists pricelists with their rules.
type PricelistRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Pricelist, error)
	// FindAllForTenant returns pricelists ordered by sequence then name.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Pricelist, error)
	Save(ctx context.Context, pricelist *Pricelist) error
}
