package router

import (
	"github.com/erp/ecocare/internal/interfaces/http/handler"
	"github.com/erp/ecocare/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers exposed under the versioned API.
type Handlers struct {
	Products         *handler.ProductHandler
	CatalogSetup     *handler.CatalogSetupHandler
	Pricelists       *handler.PricelistHandler
	Partners         *handler.PartnerHandler
	SalesOrders      *handler.SalesOrderHandler
	SaleOrderRequest *handler.SaleOrderRequestHandler
	System           *handler.HealthHandler
}

// APIOptions controls per-resource authorization.
type APIOptions struct {
	Logger             *zap.Logger
	EnforcePermissions bool
}

// DomainGroups builds the catalog, partner, trade and system route groups.
func DomainGroups(h Handlers, opts APIOptions) []*DomainGroup {
	guard := func(resource string) []gin.HandlerFunc {
		if !opts.EnforcePermissions {
			return nil
		}
		return []gin.HandlerFunc{middleware.RequireResource(opts.Logger, resource)}
	}

	catalog := NewDomainGroup("/catalog")

	products := catalog.Group("/products").Use(guard("product")...)
	products.POST("", h.Products.Create)
	products.GET("", h.Products.List)
	products.GET("/:id", h.Products.GetByID)
	products.PUT("/:id", h.Products.Update)
	products.DELETE("/:id", h.Products.Delete)
	products.POST("/:id/activate", h.Products.Activate)
	products.POST("/:id/deactivate", h.Products.Deactivate)
	products.PUT("/:id/exclusive-partners", h.Products.SetExclusivePartners)
	products.POST("/:id/exclusive-partners/:customer_id", h.Products.AddExclusivePartner)
	products.DELETE("/:id/exclusive-partners/:customer_id", h.Products.RemoveExclusivePartner)

	exclusivity := catalog.Group("/exclusivity").Use(guard("product")...)
	exclusivity.POST("/import", h.Products.ImportExclusivity)

	categories := catalog.Group("/categories").Use(guard("category")...)
	categories.POST("", h.CatalogSetup.CreateCategory)
	categories.GET("", h.CatalogSetup.ListCategories)
	categories.GET("/:id", h.CatalogSetup.GetCategory)

	uoms := catalog.Group("/uoms").Use(guard("uom")...)
	uoms.POST("", h.CatalogSetup.CreateUom)
	uoms.GET("", h.CatalogSetup.ListUoms)
	uoms.GET("/:id", h.CatalogSetup.GetUom)

	pricelists := catalog.Group("/pricelists").Use(guard("pricelist")...)
	pricelists.POST("", h.Pricelists.Create)
	pricelists.GET("", h.Pricelists.List)
	pricelists.GET("/:id", h.Pricelists.GetByID)
	pricelists.POST("/:id/items", h.Pricelists.AddItem)
	pricelists.DELETE("/:id/items/:item_id", h.Pricelists.RemoveItem)
	pricelists.POST("/:id/reference-prices/refresh", h.Pricelists.RefreshReferencePrices)

	partner := NewDomainGroup("/partner")

	customers := partner.Group("/customers").Use(guard("customer")...)
	customers.POST("", h.Partners.CreateCustomer)
	customers.GET("", h.Partners.ListCustomers)
	customers.GET("/:id", h.Partners.GetCustomer)
	customers.PUT("/:id", h.Partners.UpdateCustomer)
	customers.PUT("/:id/exclusive-products", h.Partners.SetExclusiveProducts)

	companies := partner.Group("/companies").Use(guard("company")...)
	companies.POST("", h.Partners.CreateCompany)
	companies.GET("", h.Partners.ListCompanies)
	companies.GET("/:id", h.Partners.GetCompany)
	companies.PUT("/:id/default-pricelist", h.Partners.SetDefaultPricelist)

	trade := NewDomainGroup("/trade")

	selection := trade.Group("/product-selection").Use(guard("product")...)
	selection.GET("", h.SalesOrders.ProductSelection)

	orders := trade.Group("/sales-orders").Use(guard("sales_order")...)
	orders.POST("", h.SalesOrders.Create)
	orders.GET("", h.SalesOrders.List)
	orders.GET("/:id", h.SalesOrders.GetByID)
	orders.PUT("/:id/customer", h.SalesOrders.ChangeCustomer)
	orders.POST("/:id/lines", h.SalesOrders.AddLine)
	orders.POST("/:id/confirm", h.SalesOrders.Confirm)
	orders.POST("/:id/cancel", h.SalesOrders.Cancel)

	requests := trade.Group("/sale-order-requests").Use(guard("sale_order_request")...)
	requests.POST("", h.SaleOrderRequest.Create)
	requests.GET("/:id", h.SaleOrderRequest.GetByID)
	requests.PATCH("/:id", h.SaleOrderRequest.Update)
	requests.PUT("/:id/lines", h.SaleOrderRequest.UpdateLines)
	requests.GET("/:id/lines/:line_id/uom-domain", h.SaleOrderRequest.LineUomDomain)
	requests.POST("/:id/start", h.SaleOrderRequest.Start)
	requests.POST("/:id/cancel-draft", h.SaleOrderRequest.CancelDraft)
	requests.POST("/:id/reset-product-qty", h.SaleOrderRequest.ResetProductQty)
	requests.POST("/:id/validate", middleware.IdempotencyKey(), h.SaleOrderRequest.Validate)

	system := NewDomainGroup("/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{catalog, partner, trade, system}
}
