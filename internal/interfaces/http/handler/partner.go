package handler

import (
	"context"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	partnerapp "github.com/erp/ecocare/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerService is the customer API used by PartnerHandler.
type CustomerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error)
	GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*partnerapp.CustomerResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.CustomerListFilter) ([]partnerapp.CustomerResponse, int64, error)
	Update(ctx context.Context, tenantID, customerID uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error)
}

// CompanyService is the company API used by PartnerHandler.
type CompanyService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateCompanyRequest) (*partnerapp.CompanyResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CompanyResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]partnerapp.CompanyResponse, error)
	SetDefaultPricelist(ctx context.Context, tenantID, id uuid.UUID, pricelistID *uuid.UUID) (*partnerapp.CompanyResponse, error)
}

// PartnerHandler serves customers and companies. The customer side of the
// exclusivity relation is edited through ExclusivityService.
type PartnerHandler struct {
	BaseHandler
	customers   CustomerService
	companies   CompanyService
	exclusivity ExclusivityService
}

func NewPartnerHandler(customers CustomerService, companies CompanyService, exclusivity ExclusivityService) *PartnerHandler {
	return &PartnerHandler{customers: customers, companies: companies, exclusivity: exclusivity}
}

// CreateCustomer godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers [post]
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customers.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCustomer godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id} [get]
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.customers.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        company_id query string false "Company" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /partner/customers [get]
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	customers, total, err := h.customers.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, customers, total, page, size)
}

// UpdateCustomer godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCustomerRequest true "Changes"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id} [put]
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req partnerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customers.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetExclusiveProducts godoc
// @ID           setCustomerExclusiveProducts
// @Summary      Replace the products reserved for a customer
// @Description  Writes through the product side of the relation, so each touched product recomputes its exclusive flag.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body catalogapp.SetExclusiveProductsRequest true "Products"
// @Success      200 {object} APIResponse[catalogapp.ExclusiveProductsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/customers/{id}/exclusive-products [put]
func (h *PartnerHandler) SetExclusiveProducts(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req catalogapp.SetExclusiveProductsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.exclusivity.SetCustomerProducts(c.Request.Context(), tenantID, id, req.ProductIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCompany godoc
// @ID           createCompany
// @Summary      Create a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCompanyRequest true "Company"
// @Success      201 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/companies [post]
func (h *PartnerHandler) CreateCompany(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.companies.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCompany godoc
// @ID           getCompany
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/companies/{id} [get]
func (h *PartnerHandler) GetCompany(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.companies.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCompanies godoc
// @ID           listCompanies
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Success      200 {object} APIResponse[[]partnerapp.CompanyResponse]
// @Security     BearerAuth
// @Router       /partner/companies [get]
func (h *PartnerHandler) ListCompanies(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	resp, err := h.companies.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetDefaultPricelist godoc
// @ID           setCompanyDefaultPricelist
// @Summary      Set or clear the default pricelist of a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID" format(uuid)
// @Param        request body partnerapp.SetDefaultPricelistRequest true "Pricelist, null clears"
// @Success      200 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /partner/companies/{id}/default-pricelist [put]
func (h *PartnerHandler) SetDefaultPricelist(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req partnerapp.SetDefaultPricelistRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.companies.SetDefaultPricelist(c.Request.Context(), tenantID, id, req.PricelistID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PartnerHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	return tenantID, id, ok
}
