package handler

import (
	"context"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the category API used by CatalogSetupHandler.
type CategoryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.CategoryResponse, error)
}

// UomService is the unit of measure API used by CatalogSetupHandler.
type UomService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateUomRequest) (*catalogapp.UomResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.UomResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.UomResponse, error)
}

// CatalogSetupHandler serves product categories and units of measure.
type CatalogSetupHandler struct {
	BaseHandler
	categories CategoryService
	uoms       UomService
}

func NewCatalogSetupHandler(categories CategoryService, uoms UomService) *CatalogSetupHandler {
	return &CatalogSetupHandler{categories: categories, uoms: uoms}
}

// CreateCategory godoc
// @ID           createCategory
// @Summary      Create a product category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/categories [post]
func (h *CatalogSetupHandler) CreateCategory(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.categories.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCategory godoc
// @ID           getCategory
// @Summary      Get a product category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/categories/{id} [get]
func (h *CatalogSetupHandler) GetCategory(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.categories.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCategories godoc
// @ID           listCategories
// @Summary      List product categories in tree order
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /catalog/categories [get]
func (h *CatalogSetupHandler) ListCategories(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	resp, err := h.categories.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateUom godoc
// @ID           createUom
// @Summary      Create a unit of measure
// @Tags         uoms
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateUomRequest true "Unit"
// @Success      201 {object} APIResponse[catalogapp.UomResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/uoms [post]
func (h *CatalogSetupHandler) CreateUom(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateUomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.uoms.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetUom godoc
// @ID           getUom
// @Summary      Get a unit of measure
// @Tags         uoms
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.UomResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/uoms/{id} [get]
func (h *CatalogSetupHandler) GetUom(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.uoms.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListUoms godoc
// @ID           listUoms
// @Summary      List units of measure
// @Tags         uoms
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.UomResponse]
// @Security     BearerAuth
// @Router       /catalog/uoms [get]
func (h *CatalogSetupHandler) ListUoms(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	resp, err := h.uoms.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
