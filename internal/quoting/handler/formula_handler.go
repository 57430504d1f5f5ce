package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sympatecoinc/door-quoter/internal/quoting/formula"
)

type FormulaHandler struct{}

func NewFormulaHandler() *FormulaHandler {
	return &FormulaHandler{}
}

type evaluateRequest struct {
	Formula   string             `json:"formula"`
	Variables map[string]float64 `json:"variables"`
}

// Evaluate computes a formula against named variables. Malformed formulas
// are a validation error here, unlike the BOM path which falls back to 0.
func (h *FormulaHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := formula.Evaluate(req.Formula, req.Variables)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"result": result}})
}
