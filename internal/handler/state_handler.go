package handler

import (
	"net/http"

	"github.com/LaGodxy/NovaFund/internal/logic"
	"github.com/gin-gonic/gin"
)

type StateHandler struct {
	stateLogic *logic.StateLogic
}

func NewStateHandler(stateLogic *logic.StateLogic) *StateHandler {
	return &StateHandler{stateLogic: stateLogic}
}

// Initialize 引导账本
func (h *StateHandler) Initialize(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.stateLogic.Initialize(req.AdminAddress); err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "账本初始化成功", nil)
}

// GetState 获取账本状态
func (h *StateHandler) GetState(c *gin.Context) {
	admin, err := h.stateLogic.GetAdmin()
	if err != nil {
		FailFromError(c, err)
		return
	}

	nextId, err := h.stateLogic.GetNextProjectId()
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", StateResponse{
		Initialized:   admin != "",
		AdminAddress:  admin,
		NextProjectId: nextId,
	})
}
