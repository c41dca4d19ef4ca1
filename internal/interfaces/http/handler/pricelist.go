package handler

import (
	"context"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricelistService is the pricelist API used by PricelistHandler.
type PricelistService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreatePricelistRequest) (*catalogapp.PricelistResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.PricelistResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.PricelistResponse, error)
	AddItem(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.PricelistItemRequest) (*catalogapp.PricelistResponse, error)
	RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*catalogapp.PricelistResponse, error)
	RefreshReferencePrices(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.RefreshReferencePricesResponse, error)
}

// PricelistHandler serves pricelists and reference price refreshes.
type PricelistHandler struct {
	BaseHandler
	pricelists PricelistService
}

func NewPricelistHandler(pricelists PricelistService) *PricelistHandler {
	return &PricelistHandler{pricelists: pricelists}
}

// Create godoc
// @ID           createPricelist
// @Summary      Create a pricelist
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreatePricelistRequest true "Pricelist"
// @Success      201 {object} APIResponse[catalogapp.PricelistResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/pricelists [post]
func (h *PricelistHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req catalogapp.CreatePricelistRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.pricelists.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getPricelist
// @Summary      Get a pricelist with its items
// @Tags         pricelists
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.PricelistResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/pricelists/{id} [get]
func (h *PricelistHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.pricelists.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listPricelists
// @Summary      List pricelists by sequence
// @Tags         pricelists
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.PricelistResponse]
// @Security     BearerAuth
// @Router       /catalog/pricelists [get]
func (h *PricelistHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	resp, err := h.pricelists.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem godoc
// @ID           addPricelistItem
// @Summary      Append a rule to a pricelist
// @Tags         pricelists
// @Accept       json
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        request body catalogapp.PricelistItemRequest true "Rule"
// @Success      200 {object} APIResponse[catalogapp.PricelistResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/pricelists/{id}/items [post]
func (h *PricelistHandler) AddItem(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	var req catalogapp.PricelistItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.pricelists.AddItem(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem godoc
// @ID           removePricelistItem
// @Summary      Remove a rule from a pricelist
// @Tags         pricelists
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.PricelistResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/pricelists/{id}/items/{item_id} [delete]
func (h *PricelistHandler) RemoveItem(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.pricelists.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RefreshReferencePrices godoc
// @ID           refreshReferencePrices
// @Summary      Recompute the reference price of every product for a pricelist
// @Tags         pricelists
// @Produce      json
// @Param        id path string true "Pricelist ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.RefreshReferencePricesResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/pricelists/{id}/reference-prices/refresh [post]
func (h *PricelistHandler) RefreshReferencePrices(c *gin.Context) {
	tenantID, id, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.pricelists.RefreshReferencePrices(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PricelistHandler) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.uuidParam(c, "id")
	return tenantID, id, ok
}
