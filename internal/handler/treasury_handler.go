package handler

import (
	"net/http"
	"strconv"

	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/gin-gonic/gin"
)

type TreasuryHandler struct {
	treasuryLogic *logic.TreasuryLogic
}

func NewTreasuryHandler(treasuryLogic *logic.TreasuryLogic) *TreasuryHandler {
	return &TreasuryHandler{treasuryLogic: treasuryLogic}
}

// Withdraw 创建者提取资金执行购买
func (h *TreasuryHandler) Withdraw(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.treasuryLogic.WithdrawForPurchase(c.Request.Context(), id, req.Caller, req.Amount)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "提取已提交",
		"payout":  record,
	})
}

// Sweep 管理员清扫残留余额
func (h *TreasuryHandler) Sweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.treasuryLogic.EmergencySweep(c.Request.Context(), req.Caller, req.To, req.Amount)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "清扫已提交",
		"payout":  record,
	})
}
