package handler

import (
	"net/http"
	"strconv"

	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/gin-gonic/gin"
)

type ContributeHandler struct {
	contributeLogic *logic.ContributeLogic
}

func NewContributeHandler(contributeLogic *logic.ContributeLogic) *ContributeHandler {
	return &ContributeHandler{contributeLogic: contributeLogic}
}

// Contribute 出资
func (h *ContributeHandler) Contribute(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	participant, err := h.contributeLogic.Contribute(id, req.Address, req.Amount, req.TxHash)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "出资成功",
		"participant": participant,
	})
}

// Refund 退款
func (h *ContributeHandler) Refund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.contributeLogic.Refund(c.Request.Context(), id, req.Address)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "退款已提交",
		"payout":  record,
	})
}

// GetParticipants 获取参与者列表（按加入顺序）
func (h *ContributeHandler) GetParticipants(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	participants, err := h.contributeLogic.GetParticipants(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"total":        len(participants),
	})
}

// GetParticipant 获取单个参与者记录
func (h *ContributeHandler) GetParticipant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	participant, err := h.contributeLogic.GetParticipant(id, c.Param("address"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": participant})
}

// GetContributions 获取逐笔出资记录
func (h *ContributeHandler) GetContributions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	contributions, total, err := h.contributeLogic.GetContributions(id, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contributions": contributions,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}
