package handler

import (
	"net/http"
	"testing"
	"time"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pricelistEngine(svc *mockPricelistService) *gin.Engine {
	h := NewPricelistHandler(svc)
	engine := newEngine()
	engine.GET("/pricelists", h.List)
	engine.DELETE("/pricelists/:id/items/:item_id", h.RemoveItem)
	engine.POST("/pricelists/:id/reference-prices/refresh", h.RefreshReferencePrices)
	return engine
}

func TestPricelistHandler_RefreshReferencePrices(t *testing.T) {
	svc := new(mockPricelistService)
	id := uuid.New()
	svc.On("RefreshReferencePrices", mock.Anything, testTenant, id).Return(&catalogapp.RefreshReferencePricesResponse{
		PricelistID: id,
		Products:    12,
		ComputedAt:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}, nil)

	w := do(t, pricelistEngine(svc), http.MethodPost, "/pricelists/"+id.String()+"/reference-prices/refresh", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, float64(12), data["products"])
	svc.AssertExpectations(t)
}

func TestPricelistHandler_RemoveItem(t *testing.T) {
	svc := new(mockPricelistService)
	id, item := uuid.New(), uuid.New()
	svc.On("RemoveItem", mock.Anything, testTenant, id, item).Return(nil, shared.ErrNotFound)

	w := do(t, pricelistEngine(svc), http.MethodDelete, "/pricelists/"+id.String()+"/items/"+item.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPricelistHandler_List(t *testing.T) {
	svc := new(mockPricelistService)
	svc.On("List", mock.Anything, testTenant).Return([]catalogapp.PricelistResponse{{ID: uuid.New()}}, nil)

	w := do(t, pricelistEngine(svc), http.MethodGet, "/pricelists", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 1)
}
