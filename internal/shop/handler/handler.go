package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
)

// Handlers shop HTTP handler set
type Handlers struct {
	Client      *ClientHandler
	Product     *ProductHandler
	Supplier    *SupplierHandler
	Inventory   *InventoryHandler
	Procurement *ProcurementHandler
	Sales       *SalesHandler
	Production  *ProductionHandler
	Dashboard   *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Client:      NewClientHandler(services.Tiering),
		Product:     NewProductHandler(services.Catalog),
		Supplier:    NewSupplierHandler(services.Procurement),
		Inventory:   NewInventoryHandler(services.Inventory),
		Procurement: NewProcurementHandler(services.Procurement),
		Sales:       NewSalesHandler(services.Sales),
		Production:  NewProductionHandler(services.Production),
		Dashboard:   NewDashboardHandler(services.Dashboard),
	}
}

// fail translates business errors to the HTTP envelope.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"code": 10003, "message": err.Error()})
	case errors.Is(err, service.ErrProtected):
		c.JSON(http.StatusConflict, gin.H{"code": 10004, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
}

// currentUser returns the authenticated user id, empty when the route is not
// behind JWTAuth (tests hit handlers directly).
func currentUser(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
