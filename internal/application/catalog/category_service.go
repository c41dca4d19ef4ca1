package catalog

import (
	"context"
	"errors"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a root category, or a child when ParentID is set.
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
		category, err = catalog.NewChildCategory(tenantID, req.Code, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(tenantID, req.Code, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns every category of the tenant, parents before children.
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}
