package handler

import (
	"context"

	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleOrderRequestService is the wizard API used by SaleOrderRequestHandler.
type SaleOrderRequestService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSaleOrderRequestRequest) (*tradeapp.SaleOrderRequestResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req tradeapp.UpdateSaleOrderRequestRequest) (*tradeapp.SaleOrderRequestResponse, error)
	UpdateLines(ctx context.Context, tenantID, id uuid.UUID, req tradeapp.UpdateRequestLinesRequest) (*tradeapp.SaleOrderRequestResponse, error)
	LineUomDomain(ctx context.Context, tenantID, id, lineID uuid.UUID) (*tradeapp.UomDomainResponse, error)
	Start(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error)
	CancelDraft(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error)
	ResetProductQty(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error)
	Validate(ctx context.Context, tenantID, id uuid.UUID, idempotencyKey string) (*tradeapp.ValidateResponse, error)
}

// SaleOrderRequestHandler serves the sale order request wizard.
type SaleOrderRequestHandler struct {
	BaseHandler
	service SaleOrderRequestService
}

func NewSaleOrderRequestHandler(service SaleOrderRequestService) *SaleOrderRequestHandler {
	return &SaleOrderRequestHandler{service: service}
}

// Create godoc
// @ID           createSaleOrderRequest
// @Summary      Open a sale order request
// @Tags         sale-order-requests
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSaleOrderRequestRequest true "Wizard header"
// @Success      201 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests [post]
func (h *SaleOrderRequestHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSaleOrderRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getSaleOrderRequest
// @Summary      Read a sale order request
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id} [get]
func (h *SaleOrderRequestHandler) GetByID(c *gin.Context) {
	h.run(c, h.service.GetByID)
}

// Update godoc
// @ID           updateSaleOrderRequest
// @Summary      Apply onchange edits to a sale order request
// @Description  Fields are applied in order: filter, company, categories, product, exclusive, history customer, customer, pricelist.
// @Tags         sale-order-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body tradeapp.UpdateSaleOrderRequestRequest true "Edits"
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id} [patch]
func (h *SaleOrderRequestHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateSaleOrderRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLines godoc
// @ID           updateSaleOrderRequestLines
// @Summary      Edit request lines
// @Description  Sets quantities and units, deletes lines, or adds manual lines.
// @Tags         sale-order-requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        request body tradeapp.UpdateRequestLinesRequest true "Line edits"
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/lines [put]
func (h *SaleOrderRequestHandler) UpdateLines(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req tradeapp.UpdateRequestLinesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateLines(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LineUomDomain godoc
// @ID           getSaleOrderRequestLineUomDomain
// @Summary      Units allowed on a request line
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        line_id path string true "Line ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.UomDomainResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/lines/{line_id}/uom-domain [get]
func (h *SaleOrderRequestHandler) LineUomDomain(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	lineID, ok := h.uuidParam(c, "line_id")
	if !ok {
		return
	}
	resp, err := h.service.LineUomDomain(c.Request.Context(), tenantID, id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Start godoc
// @ID           startSaleOrderRequest
// @Summary      Populate the request lines from the filter
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/start [post]
func (h *SaleOrderRequestHandler) Start(c *gin.Context) {
	h.run(c, h.service.Start)
}

// CancelDraft godoc
// @ID           cancelDraftSaleOrderRequest
// @Summary      Clear the lines and return the request to draft
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/cancel-draft [post]
func (h *SaleOrderRequestHandler) CancelDraft(c *gin.Context) {
	h.run(c, h.service.CancelDraft)
}

// ResetProductQty godoc
// @ID           resetSaleOrderRequestQty
// @Summary      Set every line quantity to zero
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SaleOrderRequestResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/reset-product-qty [post]
func (h *SaleOrderRequestHandler) ResetProductQty(c *gin.Context) {
	h.run(c, h.service.ResetProductQty)
}

// Validate godoc
// @ID           validateSaleOrderRequest
// @Summary      Turn the request into a quotation
// @Description  Creates one quotation from the lines with a quantity. Without such lines nothing happens and order is null.
// @Tags         sale-order-requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        Idempotency-Key header string false "Replay protection key"
// @Success      200 {object} APIResponse[tradeapp.ValidateResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sale-order-requests/{id}/validate [post]
func (h *SaleOrderRequestHandler) Validate(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.service.Validate(c.Request.Context(), tenantID, id, middleware.GetIdempotencyKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SaleOrderRequestHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	return tenantID, id, ok
}

func (h *SaleOrderRequestHandler) run(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error)) {
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
