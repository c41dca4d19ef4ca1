package persistence

import (
	"context"
	"errors"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUomRepository implements UomRepository using GORM
type GormUomRepository struct {
	db *gorm.DB
}

// NewGormUomRepository creates a new GormUomRepository
func NewGormUomRepository(db *gorm.DB) *GormUomRepository {
	return &GormUomRepository{db: db}
}

func (r *GormUomRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.UnitOfMeasure, error) {
	var model models.UomModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUomRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	if len(ids) == 0 {
		return []catalog.UnitOfMeasure{}, nil
	}
	return r.find(r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).Where("id IN ?", ids))
}

// FindByCategory returns the units convertible with each other.
func (r *GormUomRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]catalog.UnitOfMeasure, error) {
	return r.find(r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).Where("category = ?", category))
}

func (r *GormUomRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.UnitOfMeasure, error) {
	return r.find(r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())))
}

func (r *GormUomRepository) Save(ctx context.Context, uom *catalog.UnitOfMeasure) error {
	model := &models.UomModel{}
	model.FromDomain(uom)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormUomRepository) find(query *gorm.DB) ([]catalog.UnitOfMeasure, error) {
	var rows []models.UomModel
	if err := query.Order("category ASC, factor ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	uoms := make([]catalog.UnitOfMeasure, len(rows))
	for i := range rows {
		uoms[i] = *rows[i].ToDomain()
	}
	return uoms, nil
}

var _ catalog.UomRepository = (*GormUomRepository)(nil)
