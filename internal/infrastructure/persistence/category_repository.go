package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant returns the category tree in path order.
func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Order("path ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// ExistsByCode checks if a category with the given code exists in the tenant
func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Scopes(tenantScope(tenantID.String())).
		Where("code = ?", strings.ToUpper(code)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SubtreeIDs resolves child_of over the materialized path.
func (r *GormCategoryRepository) SubtreeIDs(ctx context.Context, tenantID uuid.UUID, roots []uuid.UUID) ([]uuid.UUID, error) {
	if len(roots) == 0 {
		return []uuid.UUID{}, nil
	}
	var rootRows []models.CategoryModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id IN ?", roots).Find(&rootRows).Error; err != nil {
		return nil, err
	}
	paths := make([]shared.TreePath, len(rootRows))
	for i := range rootRows {
		paths[i] = shared.TreePath(rootRows[i].Path)
	}
	return subtreeIDs(ctx, r.db, &models.CategoryModel{}, tenantID, paths)
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	model := &models.CategoryModel{}
	model.FromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
