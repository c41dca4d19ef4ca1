package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func TestRouter_MountsNestedGroups(t *testing.T) {
	engine := gin.New()
	trade := NewDomainGroup("/trade")
	requests := trade.Group("/sale-order-requests")
	requests.POST("", reply("create"))
	requests.PATCH("/:id", reply("update"))
	requests.POST("/:id/start", reply("start"))
	orders := trade.Group("/sales-orders")
	orders.GET("/:id", reply("order"))
	orders.DELETE("/:id/lines/:line_id", reply("drop line"))
	orders.PUT("/:id/customer", reply("customer"))

	NewRouter(engine, WithAPIVersion("v2")).Register(trade).Setup()

	tests := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/v2/trade/sale-order-requests", "create"},
		{http.MethodPatch, "/api/v2/trade/sale-order-requests/1", "update"},
		{http.MethodPost, "/api/v2/trade/sale-order-requests/1/start", "start"},
		{http.MethodGet, "/api/v2/trade/sales-orders/1", "order"},
		{http.MethodDelete, "/api/v2/trade/sales-orders/1/lines/2", "drop line"},
		{http.MethodPut, "/api/v2/trade/sales-orders/1/customer", "customer"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/trade/sales-orders/1").Code)
}

func TestDomainGroup_MiddlewareReachesSubgroupsOnly(t *testing.T) {
	engine := gin.New()
	var seen []string
	tag := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			seen = append(seen, name)
			c.Next()
		}
	}

	catalog := NewDomainGroup("/catalog")
	products := catalog.Group("/products").Use(tag("product"))
	products.GET("", reply("products"))
	catalog.Group("/uoms").GET("", reply("uoms"))
	catalog.Use(tag("catalog"))

	NewRouter(engine).Register(catalog).Setup()

	serve(engine, http.MethodGet, "/api/v1/catalog/products")
	assert.Equal(t, []string{"catalog", "product"}, seen)

	seen = nil
	serve(engine, http.MethodGet, "/api/v1/catalog/uoms")
	assert.Equal(t, []string{"catalog"}, seen)
}

func TestRouterUseScopesMiddlewareToAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", reply("ok"))

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	g := NewDomainGroup("/system")
	g.GET("/info", reply("info"))
	r.Register(g).Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/system/info").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	assert.Equal(t, "/api/v1", r.BasePath())
}
