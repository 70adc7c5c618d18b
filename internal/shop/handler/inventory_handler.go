package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// --- Materials ---

func (h *InventoryHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	material, err := h.svc.CreateMaterial(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": material})
}

func (h *InventoryHandler) UpdateMaterial(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	material, err := h.svc.UpdateMaterial(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": material})
}

func (h *InventoryHandler) GetMaterial(c *gin.Context) {
	material, err := h.svc.GetMaterial(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"material":     material,
		"stock_status": material.StockStatus(),
	}})
}

func (h *InventoryHandler) ListMaterials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.MaterialListParams{
		Keyword:  c.Query("keyword"),
		LowStock: c.Query("low_stock") == "true",
		Page:     page,
		Size:     size,
	}
	materials, total, err := h.svc.ListMaterials(params)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": materials, "total": total, "page": page, "size": size}})
}

func (h *InventoryHandler) DeleteMaterial(c *gin.Context) {
	if err := h.svc.DeleteMaterial(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

func (h *InventoryHandler) Alerts(c *gin.Context) {
	alerts, err := h.svc.GetAlerts()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": alerts})
}

// --- Stock movements ---

func (h *InventoryHandler) ApplyMovement(c *gin.Context) {
	var req service.ApplyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	material, err := h.svc.ApplyMovement(req, currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": material})
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	materialID := c.Param("id")
	if materialID == "" {
		materialID = c.Query("material_id")
	}
	movements, total, err := h.svc.ListMovements(materialID, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": movements, "total": total, "page": page, "size": size}})
}
