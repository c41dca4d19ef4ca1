package trade

import (
	"context"
	"testing"

	"github.com/erp/ecocare/internal/domain/catalog"
	"github.com/erp/ecocare/internal/domain/partner"
	"github.com/erp/ecocare/internal/domain/shared"
	"github.com/erp/ecocare/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tradeFixture struct {
	orders     *MockSalesOrderRepository
	requests   *MockSaleOrderRequestRepository
	customers  *MockCustomerRepository
	companies  *MockCompanyRepository
	products   *MockProductRepository
	categories *MockCategoryRepository
	uoms       *MockUomRepository
	pricelists *MockPricelistRepository
	resolver   *MockResolver
	selection  *ProductSelectionService
	pricing    *PricingService
}

func newTradeFixture() *tradeFixture {
	f := &tradeFixture{
		orders:     new(MockSalesOrderRepository),
		requests:   new(MockSaleOrderRequestRepository),
		customers:  new(MockCustomerRepository),
		companies:  new(MockCompanyRepository),
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		uoms:       new(MockUomRepository),
		pricelists: new(MockPricelistRepository),
		resolver:   new(MockResolver),
	}
	f.selection = NewProductSelectionService(f.customers, f.products, f.resolver)
	f.pricing = NewPricingService(f.companies, f.pricelists, f.categories, f.uoms)
	return f
}

func (f *tradeFixture) orderService() *SalesOrderService {
	return NewSalesOrderService(f.orders, f.customers, f.products, f.selection, f.pricing, zap.NewNop())
}

func newUom(t *testing.T, tenantID uuid.UUID, name, category, factor string) *catalog.UnitOfMeasure {
	t.Helper()
	u, err := catalog.NewUnitOfMeasure(tenantID, name, category, decimal.RequireFromString(factor), decimal.Zero)
	require.NoError(t, err)
	return u
}

func newProduct(t *testing.T, tenantID uuid.UUID, code string, uomID uuid.UUID, listPrice string, partners ...uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, code, code+" shampoo", uomID)
	require.NoError(t, err)
	require.NoError(t, p.SetListPrice(decimal.RequireFromString(listPrice)))
	p.SetExclusivePartners(partners)
	p.ClearDomainEvents()
	return p
}

func newCustomer(t *testing.T, tenantID uuid.UUID, exclusive ...uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, "C-"+uuid.NewString()[:8], "Green Farm")
	require.NoError(t, err)
	c.ExclusiveProductIDs = exclusive
	c.ClearDomainEvents()
	return c
}

func TestSalesOrderService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("rejects exclusive product of another customer", func(t *testing.T) {
		f := newTradeFixture()
		unit := newUom(t, tenantID, "Units", "unit", "1")
		customer := newCustomer(t, tenantID)
		product := newProduct(t, tenantID, "P2", unit.ID, "10", uuid.New())

		f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		f.orders.On("NextOrderNumber", ctx, tenantID).Return("SO-0001", nil)
		f.pricelists.On("FindAllForTenant", ctx, tenantID).Return([]catalog.Pricelist{}, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)

		_, err := f.orderService().Create(ctx, tenantID, CreateSalesOrderRequest{
			CustomerID: customer.ID,
			Lines:      []SalesOrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})

		assert.ErrorIs(t, err, ErrProductNotSelectable)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("accepts allowed exclusive product and prices it", func(t *testing.T) {
		f := newTradeFixture()
		unit := newUom(t, tenantID, "Units", "unit", "1")
		customer := newCustomer(t, tenantID)
		product := newProduct(t, tenantID, "P1", unit.ID, "12.50", customer.ID)
		product.SaleDescription = "Organic, 500 ml"
		customer.ExclusiveProductIDs = []uuid.UUID{product.ID}

		f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		f.orders.On("NextOrderNumber", ctx, tenantID).Return("SO-0002", nil)
		f.pricelists.On("FindAllForTenant", ctx, tenantID).Return([]catalog.Pricelist{}, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
		f.orders.On("Save", ctx, mock.AnythingOfType("*trade.SalesOrder")).Return(nil)

		resp, err := f.orderService().Create(ctx, tenantID, CreateSalesOrderRequest{
			CustomerID: customer.ID,
			Lines:      []SalesOrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
		})

		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		line := resp.Lines[0]
		assert.Equal(t, product.UomID, line.UomID)
		assert.True(t, decimal.RequireFromString("12.50").Equal(line.PriceUnit))
		assert.True(t, decimal.NewFromInt(25).Equal(line.Subtotal))
		assert.Equal(t, product.MultilineDescription(), line.Name)
		assert.Contains(t, line.Name, "\nOrganic, 500 ml")
		assert.NotEmpty(t, resp.ProductDomain)
		f.orders.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newTradeFixture()
		customer := newCustomer(t, tenantID)
		missing := uuid.New()

		f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		f.orders.On("NextOrderNumber", ctx, tenantID).Return("SO-0003", nil)
		f.pricelists.On("FindAllForTenant", ctx, tenantID).Return([]catalog.Pricelist{}, nil)
		f.products.On("FindByIDForTenant", ctx, tenantID, missing).Return(nil, notFound())

		_, err := f.orderService().Create(ctx, tenantID, CreateSalesOrderRequest{
			CustomerID: customer.ID,
			Lines:      []SalesOrderLineInput{{ProductID: missing, Quantity: decimal.NewFromInt(1)}},
		})

		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PRODUCT", de.Code)
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSalesOrderService_AddLine_ConvertsPriceToLineUnit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newTradeFixture()

	kg := newUom(t, tenantID, "kg", "weight", "1")
	g := newUom(t, tenantID, "g", "weight", "1000")
	customer := newCustomer(t, tenantID)
	product := newProduct(t, tenantID, "FEED", kg.ID, "10", customer.ID)
	customer.ExclusiveProductIDs = []uuid.UUID{product.ID}
	order, err := trade.NewSalesOrder(tenantID, "SO-0004", customer.ID)
	require.NoError(t, err)

	f.orders.On("FindByIDForTenant", ctx, tenantID, order.ID).Return(order, nil)
	f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	f.products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	f.uoms.On("FindByIDs", ctx, tenantID, []uuid.UUID{kg.ID, g.ID}).Return([]catalog.UnitOfMeasure{*kg, *g}, nil)
	f.orders.On("Save", ctx, order).Return(nil)

	resp, err := f.orderService().AddLine(ctx, tenantID, order.ID, SalesOrderLineInput{
		ProductID: product.ID,
		UomID:     &g.ID,
		Quantity:  decimal.NewFromInt(500),
	})

	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, g.ID, resp.Lines[0].UomID)
	assert.True(t, decimal.RequireFromString("0.01").Equal(resp.Lines[0].PriceUnit), resp.Lines[0].PriceUnit.String())
	assert.True(t, decimal.NewFromInt(5).Equal(resp.Lines[0].Subtotal))
}

func TestPricingService_CustomerPricelist(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("falls back to company default", func(t *testing.T) {
		f := newTradeFixture()
		company, err := partner.NewCompany(tenantID, "HQ", "Eco Care")
		require.NoError(t, err)
		pl, err := catalog.NewPricelist(tenantID, "Wholesale")
		require.NoError(t, err)
		company.DefaultPricelistID = &pl.ID
		customer := newCustomer(t, tenantID)
		customer.CompanyID = &company.ID

		f.companies.On("FindByIDForTenant", ctx, tenantID, company.ID).Return(company, nil)
		f.pricelists.On("FindByIDForTenant", ctx, tenantID, pl.ID).Return(pl, nil)

		got, err := f.pricing.CustomerPricelist(ctx, customer)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, pl.ID, got.ID)
		f.pricelists.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything)
	})

	t.Run("own pricelist wins", func(t *testing.T) {
		f := newTradeFixture()
		pl, err := catalog.NewPricelist(tenantID, "Retail")
		require.NoError(t, err)
		customer := newCustomer(t, tenantID)
		customer.PricelistID = &pl.ID

		f.pricelists.On("FindByIDForTenant", ctx, tenantID, pl.ID).Return(pl, nil)

		got, err := f.pricing.CustomerPricelist(ctx, customer)

		require.NoError(t, err)
		assert.Equal(t, pl.ID, got.ID)
	})

	t.Run("no pricelist at all", func(t *testing.T) {
		f := newTradeFixture()
		customer := newCustomer(t, tenantID)
		f.pricelists.On("FindAllForTenant", ctx, tenantID).Return([]catalog.Pricelist{}, nil)

		got, err := f.pricing.CustomerPricelist(ctx, customer)

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestProductSelectionService_Selection(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newTradeFixture()

	customer := newCustomer(t, tenantID, uuid.New())
	p1 := newProduct(t, tenantID, "P1", uuid.New(), "1")
	f.customers.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
	f.products.On("FindByCriteria", ctx, tenantID, mock.MatchedBy(func(c catalog.ProductCriteria) bool {
		return c.SaleOkOnly && c.Exclusivity == catalog.ExclusivityAllowList && len(c.AllowedIDs) == 1
	})).Return([]catalog.Product{*p1}, nil)

	resp, err := f.selection.Selection(ctx, tenantID, &customer.ID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1.ID}, resp.ProductIDs)
	assert.Contains(t, resp.Domain, "|")
}
