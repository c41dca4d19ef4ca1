package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesOrderRepository implements SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

func linesBySequence(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

// FindByIDForTenant finds a sales order by ID within a tenant, with its lines.
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Preload("Lines", linesBySequence).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sales orders with filters and pagination.
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Scopes(tenantScope(tenantID.String()))
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "state":
			query = query.Where("state = ?", value)
		case "request_id":
			query = query.Where("request_id = ?", value)
		}
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.SalesOrderModel
	if err := paginate(query, filter).
		Preload("Lines", linesBySequence).
		Order(orderClause(filter, SalesOrderSortFields, "date_order", "DESC")).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]trade.SalesOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// SoldProductIDs returns the distinct products the customer bought on
// confirmed orders, ignoring down payment and expense lines.
func (r *GormSalesOrderRepository) SoldProductIDs(ctx context.Context, tenantID, customerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).
		Table("sales_order_lines AS l").
		Joins("JOIN sales_orders AS o ON o.id = l.order_id").
		Where("o.tenant_id = ? AND o.customer_id = ? AND o.state = ?", tenantID, customerID, trade.OrderStateSale).
		Where("l.is_downpayment = ? AND l.is_expense = ?", false, false).
		Distinct().
		Pluck("l.product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// NextOrderNumber returns SO-<year>-<sequence>, one past the highest number of the year.
func (r *GormSalesOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("SO-%d-", time.Now().Year())

	var last models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var next int64 = 1
	if err == nil {
		var num int64
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(last.OrderNumber, prefix), "%d", &num); scanErr == nil {
			next = num + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, next), nil
}

// Save upserts the order and replaces its lines.
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *trade.SalesOrder) error {
	model := &models.SalesOrderModel{}
	model.FromDomain(order)
	lines := model.Lines
	model.Lines = nil
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.SalesOrderLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		return tx.Create(&lines).Error
	})
}

// Ensure GormSalesOrderRepository implements SalesOrderRepository
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
