package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"github.com/sympatecoinc/door-quoter/internal/quoting/service"
)

type WorkOrderHandler struct {
	svc *service.WorkOrderService
}

func NewWorkOrderHandler(svc *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc}
}

type generateRequest struct {
	BatchSize int `json:"batch_size"`
}

func (h *WorkOrderHandler) Generate(c *gin.Context) {
	var req generateRequest
	c.ShouldBindJSON(&req)
	userID, _ := c.Get("user_id")
	result, err := h.svc.Generate(c.Param("id"), req.BatchSize, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

func (h *WorkOrderHandler) Get(c *gin.Context) {
	wo, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "work order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": wo})
}

func (h *WorkOrderHandler) Start(c *gin.Context) {
	userID, _ := c.Get("user_id")
	info, err := h.svc.Start(c.Param("id"), userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": info})
}

func (h *WorkOrderHandler) Advance(c *gin.Context) {
	userID, _ := c.Get("user_id")
	wo, err := h.svc.AdvanceStage(c.Param("id"), userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": wo})
}

func (h *WorkOrderHandler) TimeInStage(c *gin.Context) {
	minutes, err := h.svc.TimeInCurrentStage(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"minutes": minutes}})
}

func (h *WorkOrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.WOListParams{
		Stage:     c.Query("stage"),
		ProjectID: c.Query("project_id"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
		Page:      page,
		Size:      size,
	}
	wos, total, counts, err := h.svc.ListByStage(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items":        wos,
		"total":        total,
		"stage_counts": counts,
		"page":         page,
		"size":         size,
	}})
}
