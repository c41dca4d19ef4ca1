package persistence

import (
	"context"
	"errors"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPricelistRepository implements PricelistRepository using GORM
type GormPricelistRepository struct {
	db *gorm.DB
}

// NewGormPricelistRepository creates a new GormPricelistRepository
func NewGormPricelistRepository(db *gorm.DB) *GormPricelistRepository {
	return &GormPricelistRepository{db: db}
}

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormPricelistRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Pricelist, error) {
	var model models.PricelistModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Preload("Items", itemsByPosition).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormPricelistRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Pricelist, error) {
	var rows []models.PricelistModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Preload("Items", itemsByPosition).
		Order("sequence ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	pricelists := make([]catalog.Pricelist, len(rows))
	for i := range rows {
		pricelists[i] = *rows[i].ToDomain()
	}
	return pricelists, nil
}

// Save upserts the pricelist and replaces its rules.
func (r *GormPricelistRepository) Save(ctx context.Context, pricelist *catalog.Pricelist) error {
	model := &models.PricelistModel{}
	model.FromDomain(pricelist)
	items := model.Items
	model.Items = nil
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("pricelist_id = ?", pricelist.ID).Delete(&models.PricelistItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

var _ catalog.PricelistRepository = (*GormPricelistRepository)(nil)
