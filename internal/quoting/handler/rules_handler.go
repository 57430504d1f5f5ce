package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sympatecoinc/door-quoter/internal/quoting/rules"
	"github.com/sympatecoinc/door-quoter/internal/quoting/service"
)

type RulesHandler struct {
	bom *service.BOMService
}

func NewRulesHandler(bom *service.BOMService) *RulesHandler {
	return &RulesHandler{bom: bom}
}

type resolveRequest struct {
	MasterPartID string  `json:"master_part_id" binding:"required"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// Resolve picks the governing stock-length rule for a part at given
// dimensions. NoMatch comes back as data, not as an error status.
func (h *RulesHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	res, err := h.bom.ResolveStockLength(req.MasterPartID, rules.Dimensions{Width: req.Width, Height: req.Height})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": res})
}

// Explain scores every active rule for the part, matched or not. Catalog
// diagnostic tooling uses this to surface boundary ambiguity.
func (h *RulesHandler) Explain(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	scored, err := h.bom.ExplainStockLength(req.MasterPartID, rules.Dimensions{Width: req.Width, Height: req.Height})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"candidates": scored}})
}
