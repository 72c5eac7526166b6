package handler

import (
	"net/http"
	"strconv"

	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	settlementLogic *logic.SettlementLogic
	projectLogic    *logic.ProjectLogic
}

func NewSettlementHandler(settlementLogic *logic.SettlementLogic, projectLogic *logic.ProjectLogic) *SettlementHandler {
	return &SettlementHandler{
		settlementLogic: settlementLogic,
		projectLogic:    projectLogic,
	}
}

// Settle 触发项目结算，任何人可调用
func (h *SettlementHandler) Settle(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	status, err := h.settlementLogic.Settle(projectId)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "结算完成", gin.H{
		"project_id": projectId,
		"status":     string(status),
	})
}

// Refund 为单个贡献者退款
func (h *SettlementHandler) Refund(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := h.settlementLogic.Refund(projectId, req.Contributor)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "退款成功", gin.H{
		"project_id":  projectId,
		"contributor": req.Contributor,
		"amount":      amount.String(),
	})
}

// IsRefunded 查询某贡献者是否已退款
func (h *SettlementHandler) IsRefunded(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	contributor := c.Param("address")
	refunded, err := h.settlementLogic.IsRefunded(projectId, contributor)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"project_id":  projectId,
		"contributor": contributor,
		"refunded":    refunded,
	})
}

// GetSettlement 查询项目结算状态
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	projectId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	project, err := h.projectLogic.GetProject(projectId)
	if err != nil {
		FailFromError(c, err)
		return
	}

	processed, err := h.settlementLogic.IsFailureProcessed(projectId)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", SettlementResponse{
		ProjectId:        projectId,
		Status:           string(project.Status),
		FailureProcessed: processed,
	})
}
