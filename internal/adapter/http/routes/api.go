package routes

import (
	"net/http"

	"bizdesk/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAPI       = "/api"
	PathPing      = "/ping"
	PathOrders    = "/orders"
	PathEstimates = "/estimates"
	PathPayments  = "/payments"
	PathInventory = "/inventory"
)

// crudHandler is the route surface shared by every catalog collection.
type crudHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.OrderHandler, paymentHandler *handlers.PaymentHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PUT("/:id", orderHandler.UpdateOrder)
		orders.DELETE("/:id", orderHandler.DeleteOrder)

		orders.POST("/:id"+PathPayments, paymentHandler.CreatePayment)
		orders.GET("/:id"+PathPayments, paymentHandler.ListPayments)
	}
}

func addEstimateRoutes(rg *gin.RouterGroup, estimateHandler *handlers.EstimateHandler) {
	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.GET("/:id", estimateHandler.GetEstimate)
		estimates.PUT("/:id", estimateHandler.UpdateEstimate)
		estimates.DELETE("/:id", estimateHandler.DeleteEstimate)
	}
}

func addCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	collections := map[string]crudHandler{
		"/customers":  h.Customer,
		"/agents":     h.Agent,
		"/employees":  h.Employee,
		"/products":   h.Product,
		"/suppliers":  h.Supplier,
		"/vendors":    h.Vendor,
		PathInventory: h.Inventory,
	}
	for path, handler := range collections {
		addCrudRoutes(rg.Group(path), handler)
	}
	rg.POST(PathInventory+"/:id/increment", h.Inventory.Increment)
}

func addCrudRoutes(group *gin.RouterGroup, h crudHandler) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
