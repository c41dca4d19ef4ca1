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
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	products, err := r.hydrate(ctx, []models.ProductModel{model})
	if err != nil {
		return nil, err
	}
	return &products[0], nil
}

// FindByIDs loads the given products; unknown IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id IN ?", ids).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// FindAllForTenant lists products with search, filters and pagination.
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID.String())), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := paginate(query, filter).
		Order(orderClause(filter, ProductSortFields, "code", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	products, err := r.hydrate(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByCriteria evaluates a resolved selection predicate in SQL.
func (r *GormProductRepository) FindByCriteria(ctx context.Context, tenantID uuid.UUID, criteria catalog.ProductCriteria) ([]catalog.Product, error) {
	if criteria.Empty() {
		return []catalog.Product{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID.String())).
		Where("status = ?", catalog.ProductStatusActive)

	if criteria.SaleOkOnly {
		query = query.Where("sale_ok = ?", true)
	}
	switch criteria.Exclusivity {
	case catalog.ExclusivityNone:
		query = query.Where("exclusive_ok = ?", false)
	case catalog.ExclusivityOnly:
		query = query.Where("exclusive_ok = ?", true)
	case catalog.ExclusivityAllowList:
		if len(criteria.AllowedIDs) == 0 {
			query = query.Where("exclusive_ok = ?", false)
		} else {
			query = query.Where("(exclusive_ok = ? OR id IN ?)", false, criteria.AllowedIDs)
		}
	}
	if criteria.FilterCategories {
		query = query.Where("category_id IN ?", criteria.CategoryIDs)
	}
	if criteria.FilterCompanies {
		if len(criteria.CompanyIDs) == 0 {
			query = query.Where("company_id IS NULL")
		} else {
			query = query.Where("(company_id IS NULL OR company_id IN ?)", criteria.CompanyIDs)
		}
	}
	if criteria.FilterProducts {
		query = query.Where("id IN ?", criteria.ProductIDs)
	}

	var rows []models.ProductModel
	if err := query.Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// ExistsByCode checks if a product with the given code exists in the tenant
func (r *GormProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenantScope(tenantID.String())).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the product, rewrites its exclusive partner rows and upserts
// its reference prices.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := &models.ProductModel{}
	model.FromDomain(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("product_tmpl_id = ?", product.ID).
			Delete(&models.ExclusivePartnerRel{}).Error; err != nil {
			return err
		}
		if len(product.ExclusivePartnerIDs) > 0 {
			rels := make([]models.ExclusivePartnerRel, len(product.ExclusivePartnerIDs))
			for i, partnerID := range product.ExclusivePartnerIDs {
				rels[i] = models.ExclusivePartnerRel{ProductTmplID: product.ID, PartnerID: partnerID}
			}
			if err := tx.Create(&rels).Error; err != nil {
				return err
			}
		}
		for _, rp := range product.ReferencePrices {
			row := models.ReferencePriceModel{
				ID:            rp.ID,
				TenantID:      product.TenantID,
				ProductTmplID: product.ID,
				PricelistID:   rp.PricelistID,
				Price:         rp.Price,
				ComputedAt:    rp.ComputedAt,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_tmpl_id"}, {Name: "pricelist_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"price", "computed_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes a product and its relation rows.
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(tenantScope(tenantID.String())).Where("id = ?", id).Delete(&models.ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("product_tmpl_id = ?", id).Delete(&models.ExclusivePartnerRel{}).Error; err != nil {
			return err
		}
		return tx.Where("product_tmpl_id = ?", id).Delete(&models.ReferencePriceModel{}).Error
	})
}

// hydrate converts rows and loads the exclusivity relation and reference prices.
func (r *GormProductRepository) hydrate(ctx context.Context, rows []models.ProductModel) ([]catalog.Product, error) {
	products := make([]catalog.Product, len(rows))
	if len(rows) == 0 {
		return products, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	var rels []models.ExclusivePartnerRel
	if err := r.db.WithContext(ctx).Where("product_tmpl_id IN ?", ids).
		Order("partner_id ASC").Find(&rels).Error; err != nil {
		return nil, err
	}
	partners := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, rel := range rels {
		partners[rel.ProductTmplID] = append(partners[rel.ProductTmplID], rel.PartnerID)
	}

	var prices []models.ReferencePriceModel
	if err := r.db.WithContext(ctx).Where("product_tmpl_id IN ?", ids).Find(&prices).Error; err != nil {
		return nil, err
	}
	refs := make(map[uuid.UUID][]catalog.ReferencePrice, len(rows))
	for i := range prices {
		refs[prices[i].ProductTmplID] = append(refs[prices[i].ProductTmplID], prices[i].ToDomain())
	}

	for i := range rows {
		p := rows[i].ToDomain()
		p.ExclusivePartnerIDs = partners[p.ID]
		p.ReferencePrices = refs[p.ID]
		products[i] = *p
	}
	return products, nil
}

// applyFilter applies search and field filters without pagination
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			if value == nil {
				query = query.Where("category_id IS NULL")
			} else {
				query = query.Where("category_id = ?", value)
			}
		case "sale_ok":
			query = query.Where("sale_ok = ?", value)
		case "exclusive_ok":
			query = query.Where("exclusive_ok = ?", value)
		case "exclusive_partner_id":
			query = query.Where("id IN (?)", r.db.Model(&models.ExclusivePartnerRel{}).
				Select("product_tmpl_id").Where("partner_id = ?", value))
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
