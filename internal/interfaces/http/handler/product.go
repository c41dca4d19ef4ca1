package handler

import (
	"context"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the product API used by ProductHandler.
type ProductService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
	Update(ctx context.Context, tenantID, productID uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Activate(ctx context.Context, tenantID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, tenantID, productID uuid.UUID) error
}

// ExclusivityService edits the customer/product exclusivity relation.
type ExclusivityService interface {
	SetProductPartners(ctx context.Context, tenantID, productID uuid.UUID, partnerIDs []uuid.UUID) (*catalogapp.ProductResponse, error)
	AddProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*catalogapp.ProductResponse, error)
	RemoveProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*catalogapp.ProductResponse, error)
	SetCustomerProducts(ctx context.Context, tenantID, customerID uuid.UUID, productIDs []uuid.UUID) (*catalogapp.ExclusiveProductsResponse, error)
	ImportAssignments(ctx context.Context, tenantID uuid.UUID, rows []catalogapp.ExclusivityAssignment, opts catalogapp.ImportExclusivityOptions) (*catalogapp.ImportExclusivityResult, error)
}

// ProductHandler handles product endpoints, including the product side of
// the exclusivity relation.
type ProductHandler struct {
	BaseHandler
	products    ProductService
	exclusivity ExclusivityService
}

func NewProductHandler(products ProductService, exclusivity ExclusivityService) *ProductHandler {
	return &ProductHandler{products: products, exclusivity: exclusivity}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	h.run(c, h.products.GetByID)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        exclusive_ok query bool false "Only exclusive (true) or open (false) products"
// @Param        exclusive_partner_id query string false "Products reserved to this customer" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	products, total, err := h.products.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, products, total, page, size)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.products.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	h.run(c, h.products.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.run(c, h.products.Deactivate)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetExclusivePartners godoc
// @ID           setProductExclusivePartners
// @Summary      Replace the customers allowed to buy a product
// @Description  An empty list makes the product available to everyone again.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.SetExclusivePartnersRequest true "Customers"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/exclusive-partners [put]
func (h *ProductHandler) SetExclusivePartners(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req catalogapp.SetExclusivePartnersRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.exclusivity.SetProductPartners(c.Request.Context(), tenantID, id, req.PartnerIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddExclusivePartner godoc
// @ID           addProductExclusivePartner
// @Summary      Allow one more customer to buy a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        customer_id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/exclusive-partners/{customer_id} [post]
func (h *ProductHandler) AddExclusivePartner(c *gin.Context) {
	h.runPartner(c, h.exclusivity.AddProductPartner)
}

// RemoveExclusivePartner godoc
// @ID           removeProductExclusivePartner
// @Summary      Withdraw a customer from a product allow-list
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        customer_id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id}/exclusive-partners/{customer_id} [delete]
func (h *ProductHandler) RemoveExclusivePartner(c *gin.Context) {
	h.runPartner(c, h.exclusivity.RemoveProductPartner)
}

func (h *ProductHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	return tenantID, id, ok
}

func (h *ProductHandler) run(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ProductHandler) runPartner(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*catalogapp.ProductResponse, error)) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	customerID, ok := h.uuidParam(c, "customer_id")
	if !ok {
		return
	}
	resp, err := action(c.Request.Context(), tenantID, id, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
