package persistence

import (
	"context"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// subtreeIDs returns the IDs of every row whose path equals one of the given
// paths or descends from it.
func subtreeIDs(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID, paths []shared.TreePath) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(paths) == 0 {
		return ids, nil
	}
	cond := db.Where("path = ? OR path LIKE ?", paths[0].String(), paths[0].DescendantPattern())
	for _, p := range paths[1:] {
		cond = cond.Or("path = ? OR path LIKE ?", p.String(), p.DescendantPattern())
	}
	if err := db.WithContext(ctx).Model(model).
		Scopes(tenantScope(tenantID.String())).
		Where(cond).
		Order("path ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// HierarchyResolver resolves child_of clauses against the category and company trees.
type HierarchyResolver struct {
	categories *GormCategoryRepository
	companies  *GormCompanyRepository
}

// NewHierarchyResolver creates a resolver over the given database.
func NewHierarchyResolver(db *gorm.DB) *HierarchyResolver {
	return &HierarchyResolver{
		categories: NewGormCategoryRepository(db),
		companies:  NewGormCompanyRepository(db),
	}
}

func (h *HierarchyResolver) CategorySubtreeIDs(ctx context.Context, tenantID uuid.UUID, roots []uuid.UUID) ([]uuid.UUID, error) {
	return h.categories.SubtreeIDs(ctx, tenantID, roots)
}

func (h *HierarchyResolver) CompanySubtreeIDs(ctx context.Context, tenantID, root uuid.UUID) ([]uuid.UUID, error) {
	return h.companies.SubtreeIDs(ctx, tenantID, root)
}

var _ catalog.HierarchyResolver = (*HierarchyResolver)(nil)
