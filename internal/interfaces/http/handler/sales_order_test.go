package handler

import (
	"errors"
	"net/http"
	"testing"

	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func orderEngine(orders *mockOrderService, selection *mockSelectionService) *gin.Engine {
	h := NewSalesOrderHandler(orders, selection)
	engine := newEngine()
	engine.GET("/product-selection", h.ProductSelection)
	engine.POST("/orders", h.Create)
	engine.GET("/orders", h.List)
	engine.PUT("/orders/:id/customer", h.ChangeCustomer)
	engine.POST("/orders/:id/lines", h.AddLine)
	engine.POST("/orders/:id/confirm", h.Confirm)
	return engine
}

func TestSalesOrderHandler_ProductSelection(t *testing.T) {
	t.Run("with customer", func(t *testing.T) {
		selection := new(mockSelectionService)
		customer := uuid.New()
		product := uuid.New()
		selection.On("Selection", mock.Anything, testTenant, &customer).Return(&tradeapp.SelectionResponse{
			CustomerID: &customer,
			Domain:     []any{"|", []any{"exclusive_ok", "=", false}},
			ProductIDs: []uuid.UUID{product},
		}, nil)

		w := do(t, orderEngine(new(mockOrderService), selection), http.MethodGet,
			"/product-selection?customer_id="+customer.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, []any{product.String()}, data["product_ids"])
		selection.AssertExpectations(t)
	})

	t.Run("without customer", func(t *testing.T) {
		selection := new(mockSelectionService)
		selection.On("Selection", mock.Anything, testTenant, (*uuid.UUID)(nil)).
			Return(&tradeapp.SelectionResponse{Domain: []any{}}, nil)

		w := do(t, orderEngine(new(mockOrderService), selection), http.MethodGet, "/product-selection", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		selection.AssertExpectations(t)
	})

	t.Run("malformed customer id", func(t *testing.T) {
		w := do(t, orderEngine(new(mockOrderService), new(mockSelectionService)), http.MethodGet,
			"/product-selection?customer_id=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSalesOrderHandler_AddLine(t *testing.T) {
	id := uuid.New()
	product := uuid.New()
	body := map[string]any{"product_id": product.String(), "quantity": "2"}

	t.Run("product outside the selection", func(t *testing.T) {
		orders := new(mockOrderService)
		orders.On("AddLine", mock.Anything, testTenant, id, mock.MatchedBy(func(in tradeapp.SalesOrderLineInput) bool {
			return in.ProductID == product && in.Quantity.Equal(decimal.NewFromInt(2))
		})).Return(nil, tradeapp.ErrProductNotSelectable)

		w := do(t, orderEngine(orders, new(mockSelectionService)), http.MethodPost,
			"/orders/"+id.String()+"/lines", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "PRODUCT_NOT_SELECTABLE", decode(t, w).Error.Code)
		orders.AssertExpectations(t)
	})

	t.Run("priced line", func(t *testing.T) {
		orders := new(mockOrderService)
		orders.On("AddLine", mock.Anything, testTenant, id, mock.Anything).Return(&tradeapp.SalesOrderResponse{
			ID: id,
			Lines: []tradeapp.SalesOrderLineResponse{{
				ProductID: product,
				Quantity:  decimal.NewFromInt(2),
				PriceUnit: decimal.NewFromInt(10),
				Subtotal:  decimal.NewFromInt(20),
			}},
			AmountTotal: decimal.NewFromInt(20),
		}, nil)

		w := do(t, orderEngine(orders, new(mockSelectionService)), http.MethodPost,
			"/orders/"+id.String()+"/lines", body)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "20", data["amount_total"])
	})

	t.Run("missing product", func(t *testing.T) {
		orders := new(mockOrderService)

		w := do(t, orderEngine(orders, new(mockSelectionService)), http.MethodPost,
			"/orders/"+id.String()+"/lines", map[string]any{"quantity": "1"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		orders.AssertNotCalled(t, "AddLine", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSalesOrderHandler_List(t *testing.T) {
	orders := new(mockOrderService)
	orders.On("List", mock.Anything, testTenant, mock.MatchedBy(func(f tradeapp.SalesOrderListFilter) bool {
		return f.State == "draft" && f.Page == 2
	})).Return([]tradeapp.SalesOrderResponse{{ID: uuid.New()}}, int64(21), nil)

	w := do(t, orderEngine(orders, new(mockSelectionService)), http.MethodGet, "/orders?state=draft&page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(21), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
	}
}

func TestSalesOrderHandler_ConfirmUnexpectedError(t *testing.T) {
	orders := new(mockOrderService)
	id := uuid.New()
	orders.On("Confirm", mock.Anything, testTenant, id).Return(nil, errors.New("connection reset"))

	w := do(t, orderEngine(orders, new(mockSelectionService)), http.MethodPost, "/orders/"+id.String()+"/confirm", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ERR_INTERNAL", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection reset")
}
