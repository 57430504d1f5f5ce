package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sympatecoinc/door-quoter/internal/quoting/rules"
	"github.com/sympatecoinc/door-quoter/internal/quoting/service"
)

type BOMHandler struct {
	bom     *service.BOMService
	project *service.ProjectService
	export  *service.ExportService
}

func NewBOMHandler(bom *service.BOMService, project *service.ProjectService, export *service.ExportService) *BOMHandler {
	return &BOMHandler{bom: bom, project: project, export: export}
}

type compileRequest struct {
	ProductID     string  `json:"product_id" binding:"required"`
	Width         float64 `json:"width" binding:"required,gt=0"`
	Height        float64 `json:"height" binding:"required,gt=0"`
	PricingModeID string  `json:"pricing_mode_id"`
}

// Compile prices one product's BOM at panel dimensions.
func (h *BOMHandler) Compile(c *gin.Context) {
	var req compileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	parts, err := h.bom.CompileForProduct(req.ProductID, rules.Dimensions{Width: req.Width, Height: req.Height}, req.PricingModeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"parts": parts}})
}

// CutList compiles the full project cut list.
func (h *BOMHandler) CutList(c *gin.Context) {
	items, err := h.bom.CompileProject(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": len(items)}})
}

// ExportCutList streams the cut list as an xlsx workbook.
func (h *BOMHandler) ExportCutList(c *gin.Context) {
	projectID := c.Param("id")
	buf, err := h.export.CutListXLSX(projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	filename := fmt.Sprintf("cut-list-%s.xlsx", projectID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

type reorderRequest struct {
	PanelIDs []string `json:"panel_ids" binding:"required"`
}

// ReorderPanels rewrites an opening's panel display order in one
// transaction.
func (h *BOMHandler) ReorderPanels(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	if err := h.project.ReorderPanels(c.Param("id"), req.PanelIDs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}
