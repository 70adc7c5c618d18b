package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imprentacapital/imprenta-erp/internal/shop/repository"
	"github.com/imprentacapital/imprenta-erp/internal/shop/service"
)

type ClientHandler struct {
	svc *service.TieringService
}

func NewClientHandler(svc *service.TieringService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	client, err := h.svc.CreateClient(req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": client})
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	client, err := h.svc.UpdateClient(c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": client})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.GetClient(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": client})
}

func (h *ClientHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ClientListParams{
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	if v := c.Query("frequent"); v != "" {
		frequent := v == "true"
		params.Frequent = &frequent
	}
	clients, total, err := h.svc.ListClients(params)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": clients, "total": total, "page": page, "size": size}})
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}
