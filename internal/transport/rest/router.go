// Package rest exposes the storefront and back-office HTTP API.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartsapp "github.com/secondspine/bookstore/internal/domains/carts/application"
	catalogports "github.com/secondspine/bookstore/internal/domains/catalog/ports"
	customersapp "github.com/secondspine/bookstore/internal/domains/customers/application"
	ordersports "github.com/secondspine/bookstore/internal/domains/orders/ports"
)

// Services carries the application services the router exposes.
type Services struct {
	Orders    ordersports.Service
	Catalog   catalogports.Service
	Carts     *cartsapp.Service
	Customers *customersapp.Service
}

// NewRouter wires the gin engine: storefront routes for customers, admin
// routes for the back office.
func NewRouter(serviceName string, services Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	respond := newResponder()
	orders := NewOrdersHandler(services.Orders, respond)
	catalog := NewCatalogHandler(services.Catalog, respond)
	carts := NewCartsHandler(services.Carts, respond)
	customers := NewCustomersHandler(services.Customers, respond)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkout", orders.Checkout)
		v1.GET("/orders/:id", orders.Get)
		v1.POST("/orders/:id/cancel", orders.Cancel)
		v1.GET("/me/orders", orders.History)
		v1.GET("/me/addresses", customers.Addresses)
		v1.PUT("/me/profile", customers.SaveProfile)

		v1.GET("/books/:id", catalog.Get)

		v1.GET("/carts/:id", carts.Get)
		v1.POST("/carts/:id/items", carts.AddItem)
		v1.DELETE("/carts/:id/items/:itemId", carts.RemoveItem)

		admin := v1.Group("/admin")
		{
			admin.GET("/orders", orders.List)
			admin.GET("/orders/statistics", orders.Statistics)
			admin.GET("/orders/important", orders.Important)
			admin.PUT("/orders/:id/status", orders.UpdateStatus)

			admin.PUT("/books/:id/price", catalog.UpdatePrice)
			admin.PUT("/books/:id/stock", catalog.Restock)
			admin.GET("/catalog/updates", catalog.RecentUpdates)
		}
	}

	return router
}
