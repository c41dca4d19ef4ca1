package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/erp/ecocare/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleOrderRequestRepository implements SaleOrderRequestRepository using GORM
type GormSaleOrderRequestRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRequestRepository creates a new GormSaleOrderRequestRepository
func NewGormSaleOrderRequestRepository(db *gorm.DB) *GormSaleOrderRequestRepository {
	return &GormSaleOrderRequestRepository{db: db}
}

func requestLinesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDForTenant loads a request with its lines and category filter.
func (r *GormSaleOrderRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SaleOrderRequest, error) {
	var model models.SaleOrderRequestModel
	if err := r.db.WithContext(ctx).Scopes(tenantScope(tenantID.String())).
		Preload("Lines", requestLinesInOrder).
		Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	requests, err := r.hydrate(ctx, []models.SaleOrderRequestModel{model})
	if err != nil {
		return nil, err
	}
	return &requests[0], nil
}

// Save upserts the request, its category filter and its lines.
func (r *GormSaleOrderRequestRepository) Save(ctx context.Context, request *trade.SaleOrderRequest) error {
	model := &models.SaleOrderRequestModel{}
	model.FromDomain(request)
	lines := model.Lines
	model.Lines = nil
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_request_id = ?", request.ID).Delete(&models.RequestCategoryRel{}).Error; err != nil {
			return err
		}
		if len(request.CategoryIDs) > 0 {
			rels := make([]models.RequestCategoryRel, len(request.CategoryIDs))
			for i, categoryID := range request.CategoryIDs {
				rels[i] = models.RequestCategoryRel{SaleRequestID: request.ID, CategoryID: categoryID}
			}
			if err := tx.Create(&rels).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("request_id = ?", request.ID).Delete(&models.RequestLineModel{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].RequestID = request.ID
			lines[i].Position = i
		}
		return tx.Create(&lines).Error
	})
}

// FindStale returns requests of any tenant not updated since before.
func (r *GormSaleOrderRequestRepository) FindStale(ctx context.Context, before time.Time, limit int) ([]trade.SaleOrderRequest, error) {
	var rows []models.SaleOrderRequestModel
	query := r.db.WithContext(ctx).
		Preload("Lines", requestLinesInOrder).
		Where("updated_at < ?", before).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// DeleteByIDs removes requests with their lines and category rows.
func (r *GormSaleOrderRequestRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id IN ?", ids).Delete(&models.RequestLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sale_request_id IN ?", ids).Delete(&models.RequestCategoryRel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.SaleOrderRequestModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *GormSaleOrderRequestRepository) hydrate(ctx context.Context, rows []models.SaleOrderRequestModel) ([]trade.SaleOrderRequest, error) {
	requests := make([]trade.SaleOrderRequest, len(rows))
	if len(rows) == 0 {
		return requests, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var rels []models.RequestCategoryRel
	if err := r.db.WithContext(ctx).Where("sale_request_id IN ?", ids).
		Order("category_id ASC").Find(&rels).Error; err != nil {
		return nil, err
	}
	categories := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, rel := range rels {
		categories[rel.SaleRequestID] = append(categories[rel.SaleRequestID], rel.CategoryID)
	}
	for i := range rows {
		req := rows[i].ToDomain()
		req.CategoryIDs = categories[req.ID]
		requests[i] = *req
	}
	return requests, nil
}

// Ensure GormSaleOrderRequestRepository implements SaleOrderRequestRepository
var _ trade.SaleOrderRequestRepository = (*GormSaleOrderRequestRepository)(nil)
