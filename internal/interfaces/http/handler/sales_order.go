package handler

import (
	"context"

	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesOrderService is the quotation API used by SalesOrderHandler.
type SalesOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSalesOrderRequest) (*tradeapp.SalesOrderResponse, error)
	GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.SalesOrderListFilter) ([]tradeapp.SalesOrderResponse, int64, error)
	ChangeCustomer(ctx context.Context, tenantID, orderID uuid.UUID, req tradeapp.ChangeCustomerRequest) (*tradeapp.SalesOrderResponse, error)
	AddLine(ctx context.Context, tenantID, orderID uuid.UUID, in tradeapp.SalesOrderLineInput) (*tradeapp.SalesOrderResponse, error)
	Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error)
	Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error)
}

// SelectionService evaluates the product selection predicate.
type SelectionService interface {
	Selection(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID) (*tradeapp.SelectionResponse, error)
}

// SalesOrderHandler handles quotation endpoints
type SalesOrderHandler struct {
	BaseHandler
	orders    SalesOrderService
	selection SelectionService
}

func NewSalesOrderHandler(orders SalesOrderService, selection SelectionService) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders, selection: selection}
}

type selectionQuery struct {
	CustomerID *uuid.UUID `form:"customer_id"`
}

// ProductSelection godoc
// @ID           getProductSelection
// @Summary      Products a customer may buy
// @Description  Returns the selection domain for the customer (or for no customer) and the matching product ids.
// @Tags         sales-orders
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SelectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/product-selection [get]
func (h *SalesOrderHandler) ProductSelection(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var q selectionQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.selection.Selection(c.Request.Context(), tenantID, q.CustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createSalesOrder
// @Summary      Create a quotation
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSalesOrderRequest true "Quotation"
// @Success      201 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders [post]
func (h *SalesOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getSalesOrder
// @Summary      Get a sales order
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	h.run(c, h.orders.GetByID)
}

// List godoc
// @ID           listSalesOrders
// @Summary      List sales orders
// @Tags         sales-orders
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        request_id query string false "Originating sale order request" format(uuid)
// @Param        state query string false "State" Enums(draft, sale, cancel)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]tradeapp.SalesOrderResponse]
// @Security     BearerAuth
// @Router       /trade/sales-orders [get]
func (h *SalesOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter tradeapp.SalesOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// ChangeCustomer godoc
// @ID           changeSalesOrderCustomer
// @Summary      Change the customer of a quotation
// @Description  Applies the customer's pricelist and returns the new product selection domain. Existing lines are kept.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.ChangeCustomerRequest true "Customer"
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/customer [put]
func (h *SalesOrderHandler) ChangeCustomer(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req tradeapp.ChangeCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.ChangeCustomer(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine godoc
// @ID           addSalesOrderLine
// @Summary      Add a line to a quotation
// @Description  The product must be selectable for the order customer.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body tradeapp.SalesOrderLineInput true "Line"
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/lines [post]
func (h *SalesOrderHandler) AddLine(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var in tradeapp.SalesOrderLineInput
	if !h.bindJSON(c, &in) {
		return
	}
	resp, err := h.orders.AddLine(c.Request.Context(), tenantID, id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm godoc
// @ID           confirmSalesOrder
// @Summary      Confirm a quotation
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/confirm [post]
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	h.run(c, h.orders.Confirm)
}

// Cancel godoc
// @ID           cancelSalesOrder
// @Summary      Cancel a quotation or sales order
// @Tags         sales-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.SalesOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /trade/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	h.run(c, h.orders.Cancel)
}

func (h *SalesOrderHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	return tenantID, id, ok
}

func (h *SalesOrderHandler) run(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID) (*tradeapp.SalesOrderResponse, error)) {
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

// pageOf mirrors the defaults the services apply to list filters.
func pageOf(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return page, size
}
