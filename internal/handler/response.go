package handler

import (
	"net/http"

	"github.com/0xshikhar/domie-service/internal/logic"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// handleError 按错误类别映射HTTP状态码
func handleError(c *gin.Context, err error) {
	ErrorResponse(c, statusFromError(err), err.Error())
}

// statusFromError 错误分类：校验 400、权限 403、不存在 404、状态 409、转账 502
func statusFromError(err error) int {
	switch {
	case logic.IsValidationError(err):
		return http.StatusBadRequest
	case logic.IsAuthError(err):
		return http.StatusForbidden
	case logic.IsNotFoundError(err):
		return http.StatusNotFound
	case logic.IsStateError(err):
		return http.StatusConflict
	case logic.IsTransferError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
