package handler

import (
	"errors"
	"net/http"

	"github.com/LaGodxy/NovaFund/internal/escrow"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailFromError 按错误分类映射HTTP状态码
func FailFromError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), Response{
		Success: false,
		Message: err.Error(),
		Data:    nil,
	})
}

// statusFromError 错误分类到HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, escrow.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, escrow.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, escrow.ErrAlreadyInitialized),
		errors.Is(err, escrow.ErrProjectNotActive),
		errors.Is(err, escrow.ErrDeadlinePassed),
		errors.Is(err, escrow.ErrInvalidProjectStatus),
		errors.Is(err, escrow.ErrAlreadyRefunded):
		return http.StatusConflict
	case errors.Is(err, escrow.ErrInvalidFundingGoal),
		errors.Is(err, escrow.ErrInvalidDeadline),
		errors.Is(err, escrow.ErrContributionTooLow),
		errors.Is(err, escrow.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
