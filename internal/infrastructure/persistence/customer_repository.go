package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForTenant finds a customer by ID within a tenant, with the
// products reserved to it.
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	customers, err := r.hydrate(ctx, []models.CustomerModel{model})
	if err != nil {
		return nil, err
	}
	return &customers[0], nil
}

// FindAllForTenant lists customers with search and pagination.
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(tenantScope(tenantID.String()))
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(email) LIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "pricelist_id":
			query = query.Where("pricelist_id = ?", value)
		}
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.CustomerModel
	if err := paginate(query, filter).
		Order(orderClause(filter, CustomerSortFields, "name", "ASC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	customers, err := r.hydrate(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// ExistsByCode checks if a customer with the given code exists in the tenant
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(tenantScope(tenantID.String())).
		Where("code = ?", strings.ToUpper(code)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save writes the customer row only. The exclusivity relation is owned by products.
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := &models.CustomerModel{}
	model.FromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormCustomerRepository) hydrate(ctx context.Context, rows []models.CustomerModel) ([]partner.Customer, error) {
	customers := make([]partner.Customer, len(rows))
	if len(rows) == 0 {
		return customers, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var rels []models.ExclusivePartnerRel
	if err := r.db.WithContext(ctx).Where("partner_id IN ?", ids).
		Order("product_tmpl_id ASC").Find(&rels).Error; err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, rel := range rels {
		products[rel.PartnerID] = append(products[rel.PartnerID], rel.ProductTmplID)
	}
	for i := range rows {
		c := rows[i].ToDomain()
		c.ExclusiveProductIDs = products[c.ID]
		customers[i] = *c
	}
	return customers, nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
