package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/interfaces/http/dto"
	"github.com/erp/ecocare/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTenant = uuid.MustParse("7f1d2c3b-4a5e-4f60-8a71-92b3c4d5e6f7")

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newEngine returns an engine whose requests carry testTenant.
func newEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.TenantIDKey, testTenant.String())
		c.Next()
	})
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func result[T any](args mock.Arguments) (*T, error) {
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRequestService struct{ mock.Mock }

func (m *mockRequestService) Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSaleOrderRequestRequest) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, req))
}

func (m *mockRequestService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id))
}

func (m *mockRequestService) Update(ctx context.Context, tenantID, id uuid.UUID, req tradeapp.UpdateSaleOrderRequestRequest) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id, req))
}

func (m *mockRequestService) UpdateLines(ctx context.Context, tenantID, id uuid.UUID, req tradeapp.UpdateRequestLinesRequest) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id, req))
}

func (m *mockRequestService) LineUomDomain(ctx context.Context, tenantID, id, lineID uuid.UUID) (*tradeapp.UomDomainResponse, error) {
	return result[tradeapp.UomDomainResponse](m.Called(ctx, tenantID, id, lineID))
}

func (m *mockRequestService) Start(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id))
}

func (m *mockRequestService) CancelDraft(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id))
}

func (m *mockRequestService) ResetProductQty(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleOrderRequestResponse, error) {
	return result[tradeapp.SaleOrderRequestResponse](m.Called(ctx, tenantID, id))
}

func (m *mockRequestService) Validate(ctx context.Context, tenantID, id uuid.UUID, idempotencyKey string) (*tradeapp.ValidateResponse, error) {
	return result[tradeapp.ValidateResponse](m.Called(ctx, tenantID, id, idempotencyKey))
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSalesOrderRequest) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, req))
}

func (m *mockOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, orderID))
}

func (m *mockOrderService) List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.SalesOrderListFilter) ([]tradeapp.SalesOrderResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	orders, _ := args.Get(0).([]tradeapp.SalesOrderResponse)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderService) ChangeCustomer(ctx context.Context, tenantID, orderID uuid.UUID, req tradeapp.ChangeCustomerRequest) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, orderID, req))
}

func (m *mockOrderService) AddLine(ctx context.Context, tenantID, orderID uuid.UUID, in tradeapp.SalesOrderLineInput) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, orderID, in))
}

func (m *mockOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, orderID))
}

func (m *mockOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID) (*tradeapp.SalesOrderResponse, error) {
	return result[tradeapp.SalesOrderResponse](m.Called(ctx, tenantID, orderID))
}

type mockSelectionService struct{ mock.Mock }

func (m *mockSelectionService) Selection(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID) (*tradeapp.SelectionResponse, error) {
	return result[tradeapp.SelectionResponse](m.Called(ctx, tenantID, customerID))
}

type mockExclusivityService struct{ mock.Mock }

func (m *mockExclusivityService) SetProductPartners(ctx context.Context, tenantID, productID uuid.UUID, partnerIDs []uuid.UUID) (*catalogapp.ProductResponse, error) {
	return result[catalogapp.ProductResponse](m.Called(ctx, tenantID, productID, partnerIDs))
}

func (m *mockExclusivityService) AddProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*catalogapp.ProductResponse, error) {
	return result[catalogapp.ProductResponse](m.Called(ctx, tenantID, productID, partnerID))
}

func (m *mockExclusivityService) RemoveProductPartner(ctx context.Context, tenantID, productID, partnerID uuid.UUID) (*catalogapp.ProductResponse, error) {
	return result[catalogapp.ProductResponse](m.Called(ctx, tenantID, productID, partnerID))
}

func (m *mockExclusivityService) SetCustomerProducts(ctx context.Context, tenantID, customerID uuid.UUID, productIDs []uuid.UUID) (*catalogapp.ExclusiveProductsResponse, error) {
	return result[catalogapp.ExclusiveProductsResponse](m.Called(ctx, tenantID, customerID, productIDs))
}

func (m *mockExclusivityService) ImportAssignments(ctx context.Context, tenantID uuid.UUID, rows []catalogapp.ExclusivityAssignment, opts catalogapp.ImportExclusivityOptions) (*catalogapp.ImportExclusivityResult, error) {
	return result[catalogapp.ImportExclusivityResult](m.Called(ctx, tenantID, rows, opts))
}

type mockPricelistService struct{ mock.Mock }

func (m *mockPricelistService) Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreatePricelistRequest) (*catalogapp.PricelistResponse, error) {
	return result[catalogapp.PricelistResponse](m.Called(ctx, tenantID, req))
}

func (m *mockPricelistService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.PricelistResponse, error) {
	return result[catalogapp.PricelistResponse](m.Called(ctx, tenantID, id))
}

func (m *mockPricelistService) List(ctx context.Context, tenantID uuid.UUID) ([]catalogapp.PricelistResponse, error) {
	args := m.Called(ctx, tenantID)
	lists, _ := args.Get(0).([]catalogapp.PricelistResponse)
	return lists, args.Error(1)
}

func (m *mockPricelistService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.PricelistItemRequest) (*catalogapp.PricelistResponse, error) {
	return result[catalogapp.PricelistResponse](m.Called(ctx, tenantID, id, req))
}

func (m *mockPricelistService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*catalogapp.PricelistResponse, error) {
	return result[catalogapp.PricelistResponse](m.Called(ctx, tenantID, id, itemID))
}

func (m *mockPricelistService) RefreshReferencePrices(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.RefreshReferencePricesResponse, error) {
	return result[catalogapp.RefreshReferencePricesResponse](m.Called(ctx, tenantID, id))
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
