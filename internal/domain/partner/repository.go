package partner

import (
	"context"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence.
// Loaded customers carry their exclusive product IDs.
type CustomerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// Save persists customer fields only; the exclusivity relation is written by products.
	Save(ctx context.Context, customer *Customer) error
}

// CompanyRepository persists the company hierarchy.
type CompanyRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Company, error)
	// SubtreeIDs returns the company and all its descendants.
	SubtreeIDs(ctx context.Context, tenantID, root uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, company *Company) error
}
