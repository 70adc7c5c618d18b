package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
)

type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

func (h *ProcurementHandler) Create(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	purchase, err := h.svc.CreatePurchase(req, currentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": purchase})
}

func (h *ProcurementHandler) Update(c *gin.Context) {
	var req service.UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	purchase, err := h.svc.UpdatePurchase(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": purchase})
}

func (h *ProcurementHandler) Get(c *gin.Context) {
	purchase, err := h.svc.GetPurchase(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": purchase})
}

func (h *ProcurementHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.PurchaseListParams{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier_id"),
		MaterialID: c.Query("material_id"),
		Page:       page,
		Size:       size,
	}
	purchases, total, err := h.svc.ListPurchases(params)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": purchases, "total": total, "page": page, "size": size}})
}

type receivePurchaseRequest struct {
	ReceivedDate string `json:"received_date"` // YYYY-MM-DD, optional
}

func (h *ProcurementHandler) Receive(c *gin.Context) {
	var req receivePurchaseRequest
	// body is optional, an empty one means "received now"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	purchase, err := h.svc.MarkReceived(c.Param("id"), req.ReceivedDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": purchase})
}

func (h *ProcurementHandler) Cancel(c *gin.Context) {
	purchase, err := h.svc.Cancel(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": purchase})
}
