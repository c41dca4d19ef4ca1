package persistence

import (
	"context"
	"errors"

	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormCompanyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]partner.Company, error) {
	var rows []models.CompanyModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Order("path ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]partner.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, nil
}

// SubtreeIDs returns root and every company below it.
func (r *GormCompanyRepository) SubtreeIDs(ctx context.Context, tenantID, root uuid.UUID) ([]uuid.UUID, error) {
	company, err := r.FindByIDForTenant(ctx, tenantID, root)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []uuid.UUID{}, nil
		}
		return nil, err
	}
	return subtreeIDs(ctx, r.db, &models.CompanyModel{}, tenantID, []shared.TreePath{company.Path})
}

func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	model := &models.CompanyModel{}
	model.FromDomain(company)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
