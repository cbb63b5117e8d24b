package handler

import (
	"net/http"
	"strconv"

	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/gin-gonic/gin"
)

type GovernanceHandler struct {
	shareLogic *logic.ShareLogic
	voteLogic  *logic.VoteLogic
}

func NewGovernanceHandler(shareLogic *logic.ShareLogic, voteLogic *logic.VoteLogic) *GovernanceHandler {
	return &GovernanceHandler{shareLogic: shareLogic, voteLogic: voteLogic}
}

// ReportPurchase 上报外部购买结果
func (h *GovernanceHandler) ReportPurchase(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req ReportPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.shareLogic.ReportPurchase(id, req.Caller, req.PurchaseRef); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "购买结果已上报"})
}

// SetFractionalClaim 设置碎片化代币地址并分配份额
func (h *GovernanceHandler) SetFractionalClaim(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req SetFractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.shareLogic.SetFractionalClaim(id, req.Caller, req.FractionAddr); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "碎片化代币已设置，份额已分配"})
}

// Vote 对提案投票
func (h *GovernanceHandler) Vote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tally, err := h.voteLogic.Vote(id, c.Param("proposalId"), req.Voter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "投票成功",
		"tally":   tally,
	})
}

// GetTally 获取提案计票结果
func (h *GovernanceHandler) GetTally(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	tally, err := h.voteLogic.GetTally(id, c.Param("proposalId"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tally": tally})
}
