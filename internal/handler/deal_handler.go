package handler

import (
	"net/http"
	"strconv"

	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/0xshikhar/domie-service/internal/model"
	"github.com/gin-gonic/gin"
)

type DealHandler struct {
	dealLogic *logic.DealLogic
}

func NewDealHandler(dealLogic *logic.DealLogic) *DealHandler {
	return &DealHandler{dealLogic: dealLogic}
}

// CreateDeal 创建合买交易
func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	deal := model.DealModel{
		DomainName:      req.DomainName,
		CreatorAddress:  req.CreatorAddress,
		TargetPrice:     req.TargetPrice,
		MinContribution: req.MinContribution,
		MaxParticipants: req.MaxParticipants,
	}

	// 调用logic层创建交易
	if err := h.dealLogic.CreateDeal(&deal, req.DurationDays); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "交易创建成功",
		"deal":    deal,
	})
}

// GetDeals 获取交易列表
func (h *DealHandler) GetDeals(c *gin.Context) {
	status := c.Query("status")
	creator := c.Query("creator")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	deals, total, err := h.dealLogic.GetDeals(status, creator, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deals":     deals,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetDeal 获取单个交易详情
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	deal, err := h.dealLogic.GetDeal(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// CancelDeal 取消交易
func (h *DealHandler) CancelDeal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	var req CancelDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dealLogic.CancelDeal(id, req.Caller); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "交易已取消"})
}

// GetDealStats 获取交易统计信息
func (h *DealHandler) GetDealStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的交易ID")
		return
	}

	stats, err := h.dealLogic.GetDealStats(id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetServiceStats 获取全局统计信息
func (h *DealHandler) GetServiceStats(c *gin.Context) {
	stats, err := h.dealLogic.GetServiceStats()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
